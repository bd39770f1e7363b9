package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
)

// TestCollector_Notifications verifies every notification updates its metric.
func TestCollector_Notifications(t *testing.T) {
	t.Parallel()

	c, err := NewCollector()
	require.NoError(t, err)

	c.Observe(domain.NoAlarm)
	require.InDelta(t, 1, testutil.ToFloat64(c.alarmStatus.WithLabelValues("NO_ALARM")), 0)

	c.Notify(domain.Alarm)
	require.InDelta(t, 0, testutil.ToFloat64(c.alarmStatus.WithLabelValues("NO_ALARM")), 0)
	require.InDelta(t, 0, testutil.ToFloat64(c.alarmStatus.WithLabelValues("PENDING_ALARM")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(c.alarmStatus.WithLabelValues("ALARM")), 0)

	c.CatDetected(true)
	c.CatDetected(true)
	c.CatDetected(false)
	require.InDelta(t, 2, testutil.ToFloat64(c.catDetections.WithLabelValues("true")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(c.catDetections.WithLabelValues("false")), 0)

	c.SensorStatusChanged()
	require.InDelta(t, 1, testutil.ToFloat64(c.sensorChanges), 0)

	count, err := testutil.GatherAndCount(c.Registry())
	require.NoError(t, err)
	require.Equal(t, 6, count)
}

// TestCollector_WriteTextfile verifies the registry is dumped in text format.
func TestCollector_WriteTextfile(t *testing.T) {
	t.Parallel()

	c, err := NewCollector()
	require.NoError(t, err)

	c.Notify(domain.PendingAlarm)

	path := filepath.Join(t.TempDir(), "catpoint.prom")
	require.NoError(t, c.WriteTextfile(path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `catpoint_alarm_status{status="PENDING_ALARM"} 1`)
}
