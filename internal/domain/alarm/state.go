package alarm

import (
	"errors"
	"fmt"
	"strings"
)

// ArmingStatus is the operator-selected mode of the security system.
type ArmingStatus string

const (
	// Disarmed means sensor and camera triggers never raise alarms.
	Disarmed ArmingStatus = "DISARMED"
	// ArmedHome means the operator is at home.
	ArmedHome ArmingStatus = "ARMED_HOME"
	// ArmedAway means nobody is expected to be at home.
	ArmedAway ArmingStatus = "ARMED_AWAY"
)

// AlarmStatus is the primary output of the security system.
type AlarmStatus string

const (
	// NoAlarm means everything is fine.
	NoAlarm AlarmStatus = "NO_ALARM"
	// PendingAlarm means a single trigger was observed while armed.
	PendingAlarm AlarmStatus = "PENDING_ALARM"
	// Alarm means the alarm is raised and sticks until disarmed.
	Alarm AlarmStatus = "ALARM"
)

var (
	// ErrUnknownArmingStatus is returned when an arming status cannot be parsed.
	ErrUnknownArmingStatus = errors.New("unknown arming status")
	// ErrUnknownAlarmStatus is returned when an alarm status cannot be parsed.
	ErrUnknownAlarmStatus = errors.New("unknown alarm status")
)

// ParseArmingStatus converts the canonical name or a short alias
// (disarmed, home, away) into an ArmingStatus.
func ParseArmingStatus(s string) (ArmingStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(Disarmed), "DISARM", "OFF":
		return Disarmed, nil
	case string(ArmedHome), "HOME":
		return ArmedHome, nil
	case string(ArmedAway), "AWAY":
		return ArmedAway, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownArmingStatus, s)
	}
}

// IsArmed reports whether triggers can raise alarms in this mode.
func (s ArmingStatus) IsArmed() bool {
	return s == ArmedHome || s == ArmedAway
}

// IsValid reports whether s is one of the known values.
func (s ArmingStatus) IsValid() bool {
	return s == Disarmed || s.IsArmed()
}

// Description returns the operator-facing label.
func (s ArmingStatus) Description() string {
	switch s {
	case Disarmed:
		return "Disarmed"
	case ArmedHome:
		return "Armed - At Home"
	case ArmedAway:
		return "Armed - Away"
	default:
		return "Unknown"
	}
}

// ParseAlarmStatus converts a canonical name into an AlarmStatus.
func ParseAlarmStatus(s string) (AlarmStatus, error) {
	status := AlarmStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlarmStatus, s)
	}

	return status, nil
}

// IsValid reports whether s is one of the known values.
func (s AlarmStatus) IsValid() bool {
	return s == NoAlarm || s == PendingAlarm || s == Alarm
}

// Severity orders alarm statuses: NoAlarm < PendingAlarm < Alarm.
// Unknown values have severity -1.
func (s AlarmStatus) Severity() int {
	switch s {
	case NoAlarm:
		return 0
	case PendingAlarm:
		return 1
	case Alarm:
		return 2 //nolint:mnd // Highest severity.
	default:
		return -1
	}
}

// Description returns the operator-facing label.
func (s AlarmStatus) Description() string {
	switch s {
	case NoAlarm:
		return "Cool and Good"
	case PendingAlarm:
		return "I'm in Danger..."
	case Alarm:
		return "Awooga!"
	default:
		return "Unknown"
	}
}
