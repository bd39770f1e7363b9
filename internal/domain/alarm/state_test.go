package alarm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseArmingStatus verifies canonical names, aliases and rejection of unknown values.
func TestParseArmingStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]ArmingStatus{
		"DISARMED":   Disarmed,
		"disarmed":   Disarmed,
		"off":        Disarmed,
		"ARMED_HOME": ArmedHome,
		" home ":     ArmedHome,
		"armed_away": ArmedAway,
		"Away":       ArmedAway,
	}
	for s, want := range cases {
		got, err := ParseArmingStatus(s)
		require.NoError(t, err, s)
		require.Equal(t, want, got)
	}

	_, err := ParseArmingStatus("sometimes")
	require.ErrorIs(t, err, ErrUnknownArmingStatus)
}

// TestArmingStatusIsArmed checks which modes count as armed.
func TestArmingStatusIsArmed(t *testing.T) {
	t.Parallel()

	require.False(t, Disarmed.IsArmed())
	require.True(t, ArmedHome.IsArmed())
	require.True(t, ArmedAway.IsArmed())
	require.False(t, ArmingStatus("PARTY").IsValid())
	require.Equal(t, "Armed - At Home", ArmedHome.Description())
}

// TestAlarmStatusSeverity ensures statuses are ordered from calm to raised.
func TestAlarmStatusSeverity(t *testing.T) {
	t.Parallel()

	require.Less(t, NoAlarm.Severity(), PendingAlarm.Severity())
	require.Less(t, PendingAlarm.Severity(), Alarm.Severity())
	require.Equal(t, -1, AlarmStatus("LOUD").Severity())
	require.Equal(t, "Awooga!", Alarm.Description())

	got, err := ParseAlarmStatus("pending_alarm")
	require.NoError(t, err)
	require.Equal(t, PendingAlarm, got)

	_, err = ParseAlarmStatus("LOUD")
	require.ErrorIs(t, err, ErrUnknownAlarmStatus)
}
