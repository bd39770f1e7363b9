package display

import (
	"context"
	"fmt"
	"io"
	"sync"

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
)

// SensorSource provides the sensors to redraw when they change.
type SensorSource interface {
	Sensors(ctx context.Context) ([]domain.Sensor, error)
}

// Console is a StatusListener printing human-readable lines.
type Console struct {
	// out receives the rendered lines.
	out io.Writer
	// sensors is queried on sensor refreshes; nil disables the sensor table.
	sensors SensorSource
	// mu serialises writes.
	mu sync.Mutex
}

// NewConsole creates a console display writing to out.
func NewConsole(out io.Writer, sensors SensorSource) *Console {
	return &Console{
		out:     out,
		sensors: sensors,
	}
}

// Notify prints the new alarm status.
func (c *Console) Notify(status domain.AlarmStatus) {
	c.printf("Alarm status: %s (%s)\n", status.Description(), status)
}

// CatDetected prints the camera result.
func (c *Console) CatDetected(detected bool) {
	if detected {
		c.printf("Camera: DANGER - CAT DETECTED\n")

		return
	}

	c.printf("Camera: cats not detected\n")
}

// SensorStatusChanged prints the sensor table.
func (c *Console) SensorStatusChanged() {
	if c.sensors == nil {
		return
	}

	sensors, err := c.sensors.Sensors(context.Background())
	if err != nil {
		c.printf("Sensors: unavailable (%v)\n", err)

		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	WriteSensors(c.out, sensors)
}

// WriteSensors prints one line per sensor.
func WriteSensors(out io.Writer, sensors []domain.Sensor) {
	if len(sensors) == 0 {
		_, _ = fmt.Fprintln(out, "Sensors: none")

		return
	}

	_, _ = fmt.Fprintln(out, "Sensors:")

	for _, s := range sensors {
		state := "Inactive"
		if s.Active {
			state = "Active"
		}

		_, _ = fmt.Fprintf(out, "  %-20s %-7s %s\n", s.Name, s.Type, state)
	}
}

// printf writes a formatted line under the lock.
func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = fmt.Fprintf(c.out, format, args...)
}
