package state

import (
	"context"
	"errors"

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
)

// Repository defines persistence operations for the security system state.
// It holds no business logic.
type Repository interface {
	ArmingStatus(ctx context.Context) (domain.ArmingStatus, error)
	SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error
	AlarmStatus(ctx context.Context) (domain.AlarmStatus, error)
	SetAlarmStatus(ctx context.Context, status domain.AlarmStatus) error

	// Sensors returns all registered sensors ordered by name and type.
	Sensors(ctx context.Context) ([]domain.Sensor, error)
	// Sensor returns the sensor with the given key or ErrSensorNotFound.
	Sensor(ctx context.Context, key domain.SensorKey) (domain.Sensor, error)
	// AddSensor registers a sensor. Adding a known key is a no-op.
	AddSensor(ctx context.Context, sensor domain.Sensor) error
	// RemoveSensor unregisters a sensor. Removing an unknown key is a no-op.
	RemoveSensor(ctx context.Context, key domain.SensorKey) error
	// SetSensorActive changes and persists the activation of a known sensor.
	SetSensorActive(ctx context.Context, key domain.SensorKey, active bool) error
}

// ErrSensorNotFound is returned when a sensor key is not registered.
var ErrSensorNotFound = errors.New("sensor not found")

// Snapshot is the full persisted state.
type Snapshot struct {
	// ArmingStatus is the current arming status.
	ArmingStatus domain.ArmingStatus `yaml:"arming_status"`
	// AlarmStatus is the current alarm status.
	AlarmStatus domain.AlarmStatus `yaml:"alarm_status"`
	// Sensors are the registered sensors.
	Sensors []domain.Sensor `yaml:"sensors"`
}

// DefaultSnapshot returns the state of a freshly installed system.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		ArmingStatus: domain.Disarmed,
		AlarmStatus:  domain.NoAlarm,
	}
}
