package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/catpoint/internal/config"
	domain "github.com/oshokin/catpoint/internal/domain/alarm"
)

// FileRepository persists the state to a YAML file on disk.
// The whole state is rewritten after every mutation.
type FileRepository struct {
	// memory holds the current state between writes.
	memory *MemoryRepository
	// path is the filesystem location of the YAML state file.
	path string
	// mu serialises mutations together with their file writes.
	mu sync.Mutex
}

// OpenFileRepository loads the state from path. A missing file yields the default state.
func OpenFileRepository(path string) (*FileRepository, error) {
	r := &FileRepository{
		memory: NewMemoryRepository(),
		path:   filepath.Clean(path),
	}

	contents, err := os.ReadFile(r.path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		return r, nil
	default:
		return nil, fmt.Errorf("read state file: %w", err)
	}

	snapshot := DefaultSnapshot()
	if err = yaml.Unmarshal(contents, &snapshot); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	r.memory.load(snapshot)

	return r, nil
}

// Path returns the location of the state file.
func (r *FileRepository) Path() string {
	return r.path
}

// ArmingStatus returns the current arming status.
func (r *FileRepository) ArmingStatus(ctx context.Context) (domain.ArmingStatus, error) {
	return r.memory.ArmingStatus(ctx)
}

// SetArmingStatus stores the arming status and rewrites the file.
func (r *FileRepository) SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error {
	return r.mutate(func() error {
		return r.memory.SetArmingStatus(ctx, status)
	})
}

// AlarmStatus returns the current alarm status.
func (r *FileRepository) AlarmStatus(ctx context.Context) (domain.AlarmStatus, error) {
	return r.memory.AlarmStatus(ctx)
}

// SetAlarmStatus stores the alarm status and rewrites the file.
func (r *FileRepository) SetAlarmStatus(ctx context.Context, status domain.AlarmStatus) error {
	return r.mutate(func() error {
		return r.memory.SetAlarmStatus(ctx, status)
	})
}

// Sensors returns the registered sensors.
func (r *FileRepository) Sensors(ctx context.Context) ([]domain.Sensor, error) {
	return r.memory.Sensors(ctx)
}

// Sensor returns the sensor with the given key.
func (r *FileRepository) Sensor(ctx context.Context, key domain.SensorKey) (domain.Sensor, error) {
	return r.memory.Sensor(ctx, key)
}

// AddSensor registers the sensor and rewrites the file.
func (r *FileRepository) AddSensor(ctx context.Context, sensor domain.Sensor) error {
	return r.mutate(func() error {
		return r.memory.AddSensor(ctx, sensor)
	})
}

// RemoveSensor unregisters the sensor and rewrites the file.
func (r *FileRepository) RemoveSensor(ctx context.Context, key domain.SensorKey) error {
	return r.mutate(func() error {
		return r.memory.RemoveSensor(ctx, key)
	})
}

// SetSensorActive changes the activation of a known sensor and rewrites the file.
func (r *FileRepository) SetSensorActive(ctx context.Context, key domain.SensorKey, active bool) error {
	return r.mutate(func() error {
		return r.memory.SetSensorActive(ctx, key, active)
	})
}

// Close is a no-op; every mutation is already on disk.
func (r *FileRepository) Close() error {
	return nil
}

// mutate applies fn and writes the resulting state.
// The in-memory state is rolled back if the write fails.
func (r *FileRepository) mutate(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.memory.export()

	if err := fn(); err != nil {
		return err
	}

	if err := r.save(r.memory.export()); err != nil {
		r.memory.load(previous)

		return err
	}

	return nil
}

// save writes the snapshot as YAML.
func (r *FileRepository) save(snapshot Snapshot) error {
	data, err := yaml.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	return nil
}
