package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
)

// Collector is a StatusListener recording notifications as metrics.
type Collector struct {
	// registry holds only the catpoint metrics.
	registry *prometheus.Registry
	// alarmStatus is one-hot over the alarm statuses.
	alarmStatus *prometheus.GaugeVec
	// catDetections counts processed images by result.
	catDetections *prometheus.CounterVec
	// sensorChanges counts sensor refresh notifications.
	sensorChanges prometheus.Counter
}

// allStatuses lists every alarm status for the one-hot gauge.
//
//nolint:gochecknoglobals // Fixed enumeration.
var allStatuses = []domain.AlarmStatus{domain.NoAlarm, domain.PendingAlarm, domain.Alarm}

// NewCollector creates a collector with its own registry.
func NewCollector() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		alarmStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "catpoint",
			Name:      "alarm_status",
			Help:      "Current alarm status, 1 for the active status and 0 otherwise.",
		}, []string{"status"}),
		catDetections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catpoint",
			Name:      "cat_detections_total",
			Help:      "Processed camera images by classification result during the current session.",
		}, []string{"detected"}),
		sensorChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "catpoint",
			Name:      "sensor_status_changes_total",
			Help:      "Sensor status change notifications during the current session.",
		}),
	}

	for _, collector := range []prometheus.Collector{c.alarmStatus, c.catDetections, c.sensorChanges} {
		if err := c.registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}

	return c, nil
}

// Registry returns the registry holding the collector metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe seeds the alarm status gauge without counting a notification.
func (c *Collector) Observe(status domain.AlarmStatus) {
	for _, s := range allStatuses {
		value := 0.0
		if s == status {
			value = 1
		}

		c.alarmStatus.WithLabelValues(string(s)).Set(value)
	}
}

// Notify records the new alarm status.
func (c *Collector) Notify(status domain.AlarmStatus) {
	c.Observe(status)
}

// CatDetected counts the camera result.
func (c *Collector) CatDetected(detected bool) {
	c.catDetections.WithLabelValues(strconv.FormatBool(detected)).Inc()
}

// SensorStatusChanged counts the refresh.
func (c *Collector) SensorStatusChanged() {
	c.sensorChanges.Inc()
}

// WriteTextfile writes every metric to path in the Prometheus text format,
// replacing the previous file. Counters start at zero for every collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
