package core

import "time"

// Broadcaster is the radio advertisement capability the core drives. The
// core never touches the radio directly; it hands over a name and a payload
// and expects the implementation to keep broadcasting until Stop.
type Broadcaster interface {
	// Advertise brings the radio up and starts broadcasting the payload as
	// manufacturer data under the given local name.
	Advertise(name string, payload []byte) error
	// Stop quiesces the radio. Must have completed before the device may
	// suspend; suspending mid-broadcast leaves the radio undefined on the
	// next boot.
	Stop() error
}

// Color selects one of the indicator's fixed colors.
type Color uint8

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
)

// Indicator drives the RGB status LED. Builds without indicator hardware are
// free to no-op; that is by contract, not an error.
type Indicator interface {
	Set(c Color) error
	Off() error
}

// HardwareID is the read-only oracle for the factory-programmed 6-byte
// unique identifier. There is no write interface.
type HardwareID interface {
	HardwareID() [6]byte
}

// Trigger is the external button input, read as a boolean and polled.
type Trigger interface {
	Active() bool
}

// WakeCause distinguishes a cold power-on reset from a wake out of deep
// sleep. The same button produces both; only the reset cause tells a factory
// reset request apart from a normal broadcast trigger.
type WakeCause uint8

const (
	WakePowerOn WakeCause = iota
	WakeFromSleep
)

func (c WakeCause) String() string {
	if c == WakeFromSleep {
		return "sleep-wake"
	}
	return "power-on"
}

// BootInfo reports why the current cycle started. Consumed once per boot.
type BootInfo interface {
	WakeCause() WakeCause
}

// Clock is the monotonic microsecond counter feeding the rolling code plus
// the delay primitive used by the polling loops. Truncation to 32 bits is
// intentional: only short-term uniqueness across a broadcast window matters.
// Injectable so tests can simulate elapsed time without real delays.
type Clock interface {
	Micros() uint32
	Sleep(d time.Duration)
}

// WakeController arms the single legal wake source (the trigger pin going
// active-low) and suspends the device. On hardware Suspend powers the core
// off and never returns; execution resumes from the boot entry point. Host
// implementations return so tests can observe the call. Restart forces a
// software reset, re-entering the firmware as if from a fresh boot.
type WakeController interface {
	Arm() error
	Suspend() error
	Restart()
}

// Flusher drains buffered debug output. Optional; when present it runs as
// part of the quiesce sequence before suspend.
type Flusher interface {
	Flush()
}

// HAL bundles the hardware capabilities one device runs on.
type HAL struct {
	Radio     Broadcaster
	Indicator Indicator
	ID        HardwareID
	Trigger   Trigger
	Boot      BootInfo
	Clock     Clock
	Wake      WakeController
	Log       Flusher // optional
}
