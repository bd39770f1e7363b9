package security

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
	"github.com/oshokin/catpoint/internal/logger"
	repo "github.com/oshokin/catpoint/internal/repository/state"
	"github.com/oshokin/catpoint/internal/service/camera"
)

// CatConfidenceThreshold is the confidence, in percent, passed to the classifier.
const CatConfidenceThreshold float32 = 50

var (
	// ErrRepositoryRequired is returned when the service is built without a repository.
	ErrRepositoryRequired = errors.New("state repository must be provided")
	// ErrClassifierRequired is returned when the service is built without a classifier.
	ErrClassifierRequired = errors.New("image classifier must be provided")
	// ErrListenerRequired is returned when a nil listener is registered.
	ErrListenerRequired = errors.New("status listener must be provided")
)

// Service is the alarm decision engine.
//
// Every operation runs under a single lock, so a read-decide-write sequence
// never observes another trigger halfway through. Notifications produced by
// an operation are delivered after the lock is released and before the
// operation returns, in the order the operations stored their changes.
// Listeners may call the accessors but must not call operations that
// change the state.
type Service struct {
	// repo stores arming status, alarm status and sensors.
	repo repo.Repository
	// classifier decides whether camera images contain a cat.
	classifier camera.Classifier
	// catDetected is the result of the last processed image.
	// It is written under mu.
	catDetected atomic.Bool
	// mu serialises operations.
	mu sync.Mutex
	// deliverMu serialises notification delivery.
	deliverMu sync.Mutex

	// listeners are the registered observers.
	listeners map[domain.StatusListener]struct{}
	// listenersMu protects listeners.
	listenersMu sync.RWMutex
}

// NewService creates an engine backed by the provided repository and classifier.
func NewService(repository repo.Repository, classifier camera.Classifier) (*Service, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	if classifier == nil {
		return nil, ErrClassifierRequired
	}

	return &Service{
		repo:       repository,
		classifier: classifier,
		listeners:  make(map[domain.StatusListener]struct{}),
	}, nil
}

// AddStatusListener registers a listener. Registering it twice has no effect.
func (s *Service) AddStatusListener(listener domain.StatusListener) error {
	if listener == nil {
		return ErrListenerRequired
	}

	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.listeners[listener] = struct{}{}

	return nil
}

// RemoveStatusListener unregisters a listener.
func (s *Service) RemoveStatusListener(listener domain.StatusListener) {
	if listener == nil {
		return
	}

	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	delete(s.listeners, listener)
}

// SetArmingStatus changes the arming status.
// Disarming clears the alarm; arming deactivates every sensor, and arming at
// home while a cat is in view raises the alarm.
func (s *Service) SetArmingStatus(ctx context.Context, status domain.ArmingStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownArmingStatus, status)
	}

	return s.transact(ctx, func(t *txn) error {
		if status == domain.Disarmed {
			if err := t.setAlarmStatus(ctx, domain.NoAlarm); err != nil {
				return err
			}
		}

		if err := s.repo.SetArmingStatus(ctx, status); err != nil {
			return fmt.Errorf("set arming status: %w", err)
		}

		logger.InfoKV(ctx, "Arming status changed", "arming_status", status)

		if status.IsArmed() {
			sensors, err := s.repo.Sensors(ctx)
			if err != nil {
				return fmt.Errorf("get sensors: %w", err)
			}

			for _, sensor := range sensors {
				sensorCtx := logger.WithKV(ctx, "sensor", sensor.Key().String())
				if err = s.setSensorActive(sensorCtx, sensor.Key(), false); err != nil {
					return err
				}
			}
		}

		if status == domain.ArmedHome && s.catDetected.Load() {
			if err := t.setAlarmStatus(ctx, domain.Alarm); err != nil {
				return err
			}
		}

		t.sensorStatusChanged()

		return nil
	})
}

// ChangeSensorActivationStatus applies a sensor trigger.
//
// While the alarm is raised only the activation is stored. Re-activating an
// already active sensor while the alarm is pending raises it. A genuine edge
// runs the activation or deactivation rules.
func (s *Service) ChangeSensorActivationStatus(ctx context.Context, key domain.SensorKey, active bool) error {
	ctx = logger.WithKV(ctx, "sensor", key.String())

	return s.transact(ctx, func(t *txn) error {
		alarmStatus, err := s.repo.AlarmStatus(ctx)
		if err != nil {
			return fmt.Errorf("get alarm status: %w", err)
		}

		if alarmStatus == domain.Alarm {
			return s.setSensorActive(ctx, key, active)
		}

		sensor, err := s.repo.Sensor(ctx, key)
		if err != nil {
			return fmt.Errorf("get sensor: %w", err)
		}

		if sensor.Active == active {
			if active && alarmStatus == domain.PendingAlarm {
				if err = t.setAlarmStatus(ctx, domain.Alarm); err != nil {
					return err
				}
			}

			return s.setSensorActive(ctx, key, active)
		}

		// Stored first so the deactivation rule sees the new activation.
		if err = s.setSensorActive(ctx, key, active); err != nil {
			return err
		}

		if active {
			err = s.handleSensorActivated(ctx, t)
		} else {
			err = s.handleSensorDeactivated(ctx, t)
		}

		if err != nil {
			return err
		}

		t.sensorStatusChanged()

		return nil
	})
}

// ProcessImage classifies a camera image and updates the alarm accordingly.
// A classifier error is returned and changes nothing.
func (s *Service) ProcessImage(ctx context.Context, img image.Image) error {
	detected, err := s.classifier.ContainsCat(ctx, img, CatConfidenceThreshold)
	if err != nil {
		return fmt.Errorf("classify image: %w", err)
	}

	return s.transact(ctx, func(t *txn) error {
		s.catDetected.Store(detected)

		logger.InfoKV(ctx, "Image processed", "cat_detected", detected)

		armingStatus, err := s.repo.ArmingStatus(ctx)
		if err != nil {
			return fmt.Errorf("get arming status: %w", err)
		}

		switch {
		case detected && armingStatus == domain.ArmedHome:
			if err = t.setAlarmStatus(ctx, domain.Alarm); err != nil {
				return err
			}
		case !detected:
			anyActive, err := s.anySensorActive(ctx)
			if err != nil {
				return err
			}

			if !anyActive {
				if err = t.setAlarmStatus(ctx, domain.NoAlarm); err != nil {
					return err
				}
			}
		}

		t.catDetectedResult(detected)

		return nil
	})
}

// SetAlarmStatus stores the alarm status and notifies every listener.
func (s *Service) SetAlarmStatus(ctx context.Context, status domain.AlarmStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownAlarmStatus, status)
	}

	return s.transact(ctx, func(t *txn) error {
		return t.setAlarmStatus(ctx, status)
	})
}

// AlarmStatus returns the stored alarm status.
func (s *Service) AlarmStatus(ctx context.Context) (domain.AlarmStatus, error) {
	return s.repo.AlarmStatus(ctx)
}

// ArmingStatus returns the stored arming status.
func (s *Service) ArmingStatus(ctx context.Context) (domain.ArmingStatus, error) {
	return s.repo.ArmingStatus(ctx)
}

// Sensors returns the registered sensors.
func (s *Service) Sensors(ctx context.Context) ([]domain.Sensor, error) {
	return s.repo.Sensors(ctx)
}

// CatDetected returns the result of the last processed image.
func (s *Service) CatDetected() bool {
	return s.catDetected.Load()
}

// AddSensor registers a sensor without touching the alarm status.
func (s *Service) AddSensor(ctx context.Context, sensor domain.Sensor) error {
	if err := sensor.Key().Validate(); err != nil {
		return err
	}

	ctx = logger.WithKV(ctx, "sensor", sensor.Key().String())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.AddSensor(ctx, sensor); err != nil {
		return fmt.Errorf("add sensor: %w", err)
	}

	logger.InfoKV(ctx, "Sensor added")

	return nil
}

// RemoveSensor unregisters a sensor without touching the alarm status.
func (s *Service) RemoveSensor(ctx context.Context, key domain.SensorKey) error {
	ctx = logger.WithKV(ctx, "sensor", key.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.RemoveSensor(ctx, key); err != nil {
		return fmt.Errorf("remove sensor: %w", err)
	}

	logger.InfoKV(ctx, "Sensor removed")

	return nil
}

// handleSensorActivated escalates the alarm after an inactive to active edge.
func (s *Service) handleSensorActivated(ctx context.Context, t *txn) error {
	armingStatus, err := s.repo.ArmingStatus(ctx)
	if err != nil {
		return fmt.Errorf("get arming status: %w", err)
	}

	if armingStatus == domain.Disarmed {
		return nil
	}

	alarmStatus, err := s.repo.AlarmStatus(ctx)
	if err != nil {
		return fmt.Errorf("get alarm status: %w", err)
	}

	switch alarmStatus {
	case domain.NoAlarm:
		return t.setAlarmStatus(ctx, domain.PendingAlarm)
	case domain.PendingAlarm:
		return t.setAlarmStatus(ctx, domain.Alarm)
	default:
		return nil
	}
}

// handleSensorDeactivated calms a pending alarm once no sensor is active.
func (s *Service) handleSensorDeactivated(ctx context.Context, t *txn) error {
	alarmStatus, err := s.repo.AlarmStatus(ctx)
	if err != nil {
		return fmt.Errorf("get alarm status: %w", err)
	}

	if alarmStatus != domain.PendingAlarm {
		return nil
	}

	anyActive, err := s.anySensorActive(ctx)
	if err != nil {
		return err
	}

	if anyActive {
		return nil
	}

	return t.setAlarmStatus(ctx, domain.NoAlarm)
}

// anySensorActive reads the sensors from the repository and reports whether any is active.
func (s *Service) anySensorActive(ctx context.Context) (bool, error) {
	sensors, err := s.repo.Sensors(ctx)
	if err != nil {
		return false, fmt.Errorf("get sensors: %w", err)
	}

	return domain.AnyActive(sensors), nil
}

// setSensorActive stores the activation of a sensor.
func (s *Service) setSensorActive(ctx context.Context, key domain.SensorKey, active bool) error {
	if err := s.repo.SetSensorActive(ctx, key, active); err != nil {
		return fmt.Errorf("set sensor %s active=%t: %w", key, active, err)
	}

	logger.DebugKV(ctx, "Sensor activation stored", "active", active)

	return nil
}
