package alarm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSensorKey verifies that identity ignores activation.
func TestSensorKey(t *testing.T) {
	t.Parallel()

	a := NewSensor("Front door", Door)
	b := a
	b.Active = true

	require.False(t, a.Active)
	require.Equal(t, a.Key(), b.Key())
	require.Equal(t, "Front door (DOOR)", a.Key().String())
}

// TestSensorKeyValidate checks name and type validation.
func TestSensorKeyValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, SensorKey{Name: "Hall", Type: Motion}.Validate())
	require.ErrorIs(t, SensorKey{Name: " ", Type: Motion}.Validate(), ErrSensorNameRequired)
	require.ErrorIs(t, SensorKey{Name: "Hall", Type: "LASER"}.Validate(), ErrUnknownSensorType)

	got, err := ParseSensorType("window")
	require.NoError(t, err)
	require.Equal(t, Window, got)
}

// TestAnyActive covers empty, inactive and mixed collections.
func TestAnyActive(t *testing.T) {
	t.Parallel()

	require.False(t, AnyActive(nil))

	sensors := []Sensor{NewSensor("a", Door), NewSensor("b", Window)}
	require.False(t, AnyActive(sensors))

	sensors[1].Active = true
	require.True(t, AnyActive(sensors))
	require.True(t, sensors[0].Less(sensors[1]))
}
