// Package alarm contains core domain types for the home security business logic.
//
// It defines the operator-selected ArmingStatus, the derived AlarmStatus,
// sensors identified by SensorKey, and the StatusListener capability through
// which observers learn about changes.
package alarm
