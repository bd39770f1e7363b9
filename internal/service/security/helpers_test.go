package security

import (
	"context"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
	repo "github.com/oshokin/catpoint/internal/repository/state"
)

// stubClassifier returns a fixed answer and remembers the threshold it was asked with.
type stubClassifier struct {
	// cat is the answer to return.
	cat bool
	// err is the error to return.
	err error
	// threshold is the last confidence threshold received.
	threshold float32
	// calls counts ContainsCat invocations.
	calls int
}

// ContainsCat returns the configured answer.
func (c *stubClassifier) ContainsCat(_ context.Context, _ image.Image, threshold float32) (bool, error) {
	c.calls++
	c.threshold = threshold

	return c.cat, c.err
}

// recordingListener stores every notification it receives.
type recordingListener struct {
	// statuses are the alarm statuses received via Notify.
	statuses []domain.AlarmStatus
	// cats are the results received via CatDetected.
	cats []bool
	// sensorChanges counts SensorStatusChanged calls.
	sensorChanges int
	// mu protects the fields above.
	mu sync.Mutex
}

// Notify records the alarm status.
func (l *recordingListener) Notify(status domain.AlarmStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.statuses = append(l.statuses, status)
}

// CatDetected records the camera result.
func (l *recordingListener) CatDetected(detected bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cats = append(l.cats, detected)
}

// SensorStatusChanged counts the refresh.
func (l *recordingListener) SensorStatusChanged() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sensorChanges++
}

// total returns the number of notifications received.
func (l *recordingListener) total() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.statuses) + len(l.cats) + l.sensorChanges
}

// countingRepository counts writes on top of a MemoryRepository.
type countingRepository struct {
	*repo.MemoryRepository

	// sensorWrites counts SetSensorActive calls per sensor.
	sensorWrites map[domain.SensorKey]int
	// alarmWrites records SetAlarmStatus calls in order.
	alarmWrites []domain.AlarmStatus
}

// newCountingRepository returns an empty counting repository.
func newCountingRepository() *countingRepository {
	return &countingRepository{
		MemoryRepository: repo.NewMemoryRepository(),
		sensorWrites:     make(map[domain.SensorKey]int),
	}
}

// SetSensorActive counts and forwards the write.
func (r *countingRepository) SetSensorActive(ctx context.Context, key domain.SensorKey, active bool) error {
	r.sensorWrites[key]++

	return r.MemoryRepository.SetSensorActive(ctx, key, active)
}

// SetAlarmStatus records and forwards the write.
func (r *countingRepository) SetAlarmStatus(ctx context.Context, status domain.AlarmStatus) error {
	r.alarmWrites = append(r.alarmWrites, status)

	return r.MemoryRepository.SetAlarmStatus(ctx, status)
}

// fixture bundles a service with its collaborators.
type fixture struct {
	svc        *Service
	repo       *countingRepository
	classifier *stubClassifier
	listener   *recordingListener
}

// newFixture builds a service in the given state with the given sensors.
// Counters and recorded notifications start empty.
func newFixture(
	t *testing.T,
	arming domain.ArmingStatus,
	alarm domain.AlarmStatus,
	sensors ...domain.Sensor,
) *fixture {
	t.Helper()

	ctx := context.Background()
	r := newCountingRepository()

	require.NoError(t, r.MemoryRepository.SetArmingStatus(ctx, arming))
	require.NoError(t, r.MemoryRepository.SetAlarmStatus(ctx, alarm))

	for _, s := range sensors {
		require.NoError(t, r.AddSensor(ctx, s))
	}

	classifier := new(stubClassifier)

	svc, err := NewService(r, classifier)
	require.NoError(t, err)

	listener := new(recordingListener)
	require.NoError(t, svc.AddStatusListener(listener))

	return &fixture{
		svc:        svc,
		repo:       r,
		classifier: classifier,
		listener:   listener,
	}
}

// alarmStatus returns the stored alarm status.
func (f *fixture) alarmStatus(t *testing.T) domain.AlarmStatus {
	t.Helper()

	status, err := f.svc.AlarmStatus(context.Background())
	require.NoError(t, err)

	return status
}

// sensor returns the stored sensor.
func (f *fixture) sensor(t *testing.T, key domain.SensorKey) domain.Sensor {
	t.Helper()

	s, err := f.repo.Sensor(context.Background(), key)
	require.NoError(t, err)

	return s
}

// activeSensor returns an active sensor.
func activeSensor(name string, sensorType domain.SensorType) domain.Sensor {
	s := domain.NewSensor(name, sensorType)
	s.Active = true

	return s
}

// snapshot returns an image the stub classifier can be asked about.
func snapshot() image.Image {
	return image.NewGray(image.Rect(0, 0, 1, 1))
}
