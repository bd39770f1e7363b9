package alarm

import (
	"errors"
	"fmt"
	"strings"
)

// SensorType describes what a sensor watches. It never affects alarm rules.
type SensorType string

const (
	// Door is a door contact sensor.
	Door SensorType = "DOOR"
	// Window is a window contact sensor.
	Window SensorType = "WINDOW"
	// Motion is a motion detector.
	Motion SensorType = "MOTION"
)

var (
	// ErrUnknownSensorType is returned when a sensor type cannot be parsed.
	ErrUnknownSensorType = errors.New("unknown sensor type")
	// ErrSensorNameRequired is returned for sensors without a name.
	ErrSensorNameRequired = errors.New("sensor name must be provided")
)

// ParseSensorType converts a case-insensitive name into a SensorType.
func ParseSensorType(s string) (SensorType, error) {
	t := SensorType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSensorType, s)
	}

	return t, nil
}

// IsValid reports whether t is one of the known sensor types.
func (t SensorType) IsValid() bool {
	return t == Door || t == Window || t == Motion
}

// SensorKey is the identity of a sensor. Activation is not part of it,
// so a sensor keeps its place in a collection while toggling.
type SensorKey struct {
	// Name is the operator-given label.
	Name string
	// Type is the kind of the sensor.
	Type SensorType
}

// String renders the key as "name (TYPE)".
func (k SensorKey) String() string {
	return fmt.Sprintf("%s (%s)", k.Name, k.Type)
}

// Validate checks that the key has a name and a known type.
func (k SensorKey) Validate() error {
	if strings.TrimSpace(k.Name) == "" {
		return ErrSensorNameRequired
	}

	if !k.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownSensorType, k.Type)
	}

	return nil
}

// Sensor is a registered sensor with its current activation.
type Sensor struct {
	// Name is the operator-given label.
	Name string
	// Type is the kind of the sensor.
	Type SensorType
	// Active indicates whether the sensor currently reports a trigger.
	Active bool
}

// NewSensor returns an inactive sensor.
func NewSensor(name string, sensorType SensorType) Sensor {
	return Sensor{
		Name: name,
		Type: sensorType,
	}
}

// Key returns the identity of the sensor.
func (s Sensor) Key() SensorKey {
	return SensorKey{
		Name: s.Name,
		Type: s.Type,
	}
}

// Less orders sensors by name and then by type.
func (s Sensor) Less(other Sensor) bool {
	if s.Name != other.Name {
		return s.Name < other.Name
	}

	return s.Type < other.Type
}

// AnyActive reports whether at least one sensor is active.
func AnyActive(sensors []Sensor) bool {
	for _, s := range sensors {
		if s.Active {
			return true
		}
	}

	return false
}
