package alarm

// StatusListener is notified about changes of the security system.
// Implementations are compared by identity, so register pointers.
type StatusListener interface {
	// Notify is called with every new alarm status.
	Notify(status AlarmStatus)
	// CatDetected is called with the result of every processed image.
	CatDetected(detected bool)
	// SensorStatusChanged is called when sensors may need to be redrawn.
	SensorStatusChanged()
}
