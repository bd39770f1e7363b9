// Package security implements the alarm decision engine.
//
// Service owns the rules that turn arming requests, sensor edges and camera
// classifications into an alarm status. It reads and writes a state
// Repository and fans notifications out to registered StatusListeners.
package security
