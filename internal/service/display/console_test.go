package display

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/catpoint/internal/domain/alarm"
)

var errTestSensors = errors.New("test sensors error")

// staticSensors returns a fixed sensor list.
type staticSensors struct {
	// sensors is the list to return.
	sensors []domain.Sensor
	// err is the error to return.
	err error
}

// Sensors returns the configured list.
func (s *staticSensors) Sensors(context.Context) ([]domain.Sensor, error) {
	return s.sensors, s.err
}

// TestConsole_Lines verifies the rendering of every notification.
func TestConsole_Lines(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	source := &staticSensors{
		sensors: []domain.Sensor{
			{Name: "Front", Type: domain.Door, Active: true},
			{Name: "Kitchen", Type: domain.Window},
		},
	}
	c := NewConsole(&out, source)

	c.Notify(domain.Alarm)
	c.CatDetected(true)
	c.CatDetected(false)
	c.SensorStatusChanged()

	text := out.String()
	require.Contains(t, text, "Alarm status: Awooga! (ALARM)\n")
	require.Contains(t, text, "Camera: DANGER - CAT DETECTED\n")
	require.Contains(t, text, "Camera: cats not detected\n")
	require.Contains(t, text, "Front")
	require.Contains(t, text, "Active\n")
	require.Contains(t, text, "Inactive\n")

	out.Reset()

	source.err = errTestSensors
	c.SensorStatusChanged()
	require.Contains(t, out.String(), "unavailable")
}

// TestConsole_NoSensorSource verifies sensor refreshes are skipped without a source.
func TestConsole_NoSensorSource(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	NewConsole(&out, nil).SensorStatusChanged()
	require.Empty(t, out.String())

	WriteSensors(&out, nil)
	require.Equal(t, "Sensors: none\n", out.String())
}
