package security

import (
	"context"
	"fmt"

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
	"github.com/oshokin/catpoint/internal/logger"
)

// notification is a listener callback queued by an operation.
type notification func(listener domain.StatusListener)

// txn collects the notifications of one operation.
type txn struct {
	// s is the service the operation runs on.
	s *Service
	// events are delivered in order once the operation is done.
	events []notification
}

// transact runs fn under the service lock and then delivers its notifications,
// including those queued before fn failed.
//
// The delivery lock is taken before the service lock is released, so
// notifications reach listeners in the order the changes were stored.
func (s *Service) transact(ctx context.Context, fn func(t *txn) error) error {
	t := &txn{s: s}

	err := s.runLocked(t, fn)

	defer s.deliverMu.Unlock()

	s.dispatch(t.events)

	if err != nil {
		logger.ErrorKV(ctx, "Security operation failed", "error", err)
	}

	return err
}

// runLocked runs fn under the service lock and hands over to the delivery lock.
// On panic both locks are left released.
func (s *Service) runLocked(t *txn, fn func(t *txn) error) error {
	s.mu.Lock()

	done := false

	defer func() {
		if done {
			s.deliverMu.Lock()
		}

		s.mu.Unlock()
	}()

	err := fn(t)
	done = true

	return err
}

// dispatch delivers every notification to a snapshot of the registered listeners.
func (s *Service) dispatch(events []notification) {
	if len(events) == 0 {
		return
	}

	s.listenersMu.RLock()
	listeners := make([]domain.StatusListener, 0, len(s.listeners))

	for l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.RUnlock()

	for _, event := range events {
		for _, l := range listeners {
			event(l)
		}
	}
}

// setAlarmStatus stores the alarm status and queues the status notification.
// Every alarm status change goes through here.
func (t *txn) setAlarmStatus(ctx context.Context, status domain.AlarmStatus) error {
	if err := t.s.repo.SetAlarmStatus(ctx, status); err != nil {
		return fmt.Errorf("set alarm status: %w", err)
	}

	logger.InfoKV(ctx, "Alarm status changed", "alarm_status", status)

	t.events = append(t.events, func(l domain.StatusListener) {
		l.Notify(status)
	})

	return nil
}

// sensorStatusChanged queues the sensor refresh notification.
func (t *txn) sensorStatusChanged() {
	t.events = append(t.events, func(l domain.StatusListener) {
		l.SensorStatusChanged()
	})
}

// catDetectedResult queues the camera notification.
func (t *txn) catDetectedResult(detected bool) {
	t.events = append(t.events, func(l domain.StatusListener) {
		l.CatDetected(detected)
	})
}
