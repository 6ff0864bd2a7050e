package protocol

// Generic beacon protocol constants (platform independent). All higher layers should depend on this file.
const (
	// Advertisement payload layout:
	//   RollingCode (4 bytes, big-endian) | Timestamp (4 bytes, big-endian)
	// carried as vendor manufacturer data next to the device name.
	// The timestamp is part of the payload so a verifier can recompute the
	// rolling code from the advertisement alone, without tracking device
	// uptime. Both fields are always present; total size is fixed.

	// Sizes of individual components
	CodeFieldSize      = 4
	TimestampFieldSize = 4
	PayloadSize        = CodeFieldSize + TimestampFieldSize

	// Human-readable local name carried alongside the manufacturer data.
	DeviceName = "HELP-BEACON"

	// Timeouts / intervals (milliseconds)
	BroadcastWindow   = 10000
	AdvertiseInterval = 100

	// Factory mode waits this long for the operator to confirm with the
	// trigger before moving on; the trigger is polled, not event-driven.
	FactoryWaitTimeout = 10000
	FactoryPollStep    = 10

	// Indicator blinks on the error path before the forced restart.
	ErrorBlinkCount = 3
	ErrorBlinkStep  = 200
)
