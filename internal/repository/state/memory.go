package state

import (
	"context"
	"fmt"
	"slices"
	"sync"

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
)

// MemoryRepository keeps the state in memory.
type MemoryRepository struct {
	// armingStatus is the current arming status.
	armingStatus domain.ArmingStatus
	// alarmStatus is the current alarm status.
	alarmStatus domain.AlarmStatus
	// sensors holds registered sensors by identity.
	sensors map[domain.SensorKey]domain.Sensor
	// mu protects concurrent access to the fields above.
	mu sync.RWMutex
}

// NewMemoryRepository creates a repository initialised with the default state.
func NewMemoryRepository() *MemoryRepository {
	r := new(MemoryRepository)
	r.restore(DefaultSnapshot())

	return r
}

// ArmingStatus returns the current arming status.
func (r *MemoryRepository) ArmingStatus(context.Context) (domain.ArmingStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.armingStatus, nil
}

// SetArmingStatus stores the arming status.
func (r *MemoryRepository) SetArmingStatus(_ context.Context, status domain.ArmingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.armingStatus = status

	return nil
}

// AlarmStatus returns the current alarm status.
func (r *MemoryRepository) AlarmStatus(context.Context) (domain.AlarmStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.alarmStatus, nil
}

// SetAlarmStatus stores the alarm status.
func (r *MemoryRepository) SetAlarmStatus(_ context.Context, status domain.AlarmStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alarmStatus = status

	return nil
}

// Sensors returns a sorted copy of the registered sensors.
func (r *MemoryRepository) Sensors(context.Context) ([]domain.Sensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedSensors(), nil
}

// Sensor returns the sensor with the given key.
func (r *MemoryRepository) Sensor(_ context.Context, key domain.SensorKey) (domain.Sensor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sensor, ok := r.sensors[key]
	if !ok {
		return domain.Sensor{}, fmt.Errorf("%w: %s", ErrSensorNotFound, key)
	}

	return sensor, nil
}

// AddSensor registers the sensor unless its key is already known.
func (r *MemoryRepository) AddSensor(_ context.Context, sensor domain.Sensor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sensors[sensor.Key()]; !ok {
		r.sensors[sensor.Key()] = sensor
	}

	return nil
}

// RemoveSensor unregisters the sensor.
func (r *MemoryRepository) RemoveSensor(_ context.Context, key domain.SensorKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sensors, key)

	return nil
}

// SetSensorActive changes the activation of a known sensor.
func (r *MemoryRepository) SetSensorActive(_ context.Context, key domain.SensorKey, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sensor, ok := r.sensors[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSensorNotFound, key)
	}

	sensor.Active = active
	r.sensors[key] = sensor

	return nil
}

// snapshot returns a copy of the whole state. Callers must hold mu.
func (r *MemoryRepository) snapshot() Snapshot {
	return Snapshot{
		ArmingStatus: r.armingStatus,
		AlarmStatus:  r.alarmStatus,
		Sensors:      r.sortedSensors(),
	}
}

// restore replaces the whole state. Callers must hold mu or own r exclusively.
func (r *MemoryRepository) restore(s Snapshot) {
	r.armingStatus = s.ArmingStatus
	if !r.armingStatus.IsValid() {
		r.armingStatus = domain.Disarmed
	}

	r.alarmStatus = s.AlarmStatus
	if !r.alarmStatus.IsValid() {
		r.alarmStatus = domain.NoAlarm
	}

	r.sensors = make(map[domain.SensorKey]domain.Sensor, len(s.Sensors))
	for _, sensor := range s.Sensors {
		r.sensors[sensor.Key()] = sensor
	}
}

// sortedSensors returns the sensors ordered by name and type. Callers must hold mu.
func (r *MemoryRepository) sortedSensors() []domain.Sensor {
	result := make([]domain.Sensor, 0, len(r.sensors))
	for _, sensor := range r.sensors {
		result = append(result, sensor)
	}

	slices.SortFunc(result, func(a, b domain.Sensor) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})

	return result
}

// export returns a copy of the whole state.
func (r *MemoryRepository) export() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshot()
}

// load replaces the whole state.
func (r *MemoryRepository) load(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.restore(s)
}
