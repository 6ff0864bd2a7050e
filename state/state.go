// Package state holds the single structure carried across deep-sleep cycles
// and the enums describing the device lifecycle.
package state

// Magic is stamped into PersistentState by ResetToDefaults. A wake that finds
// anything else is looking at cold-boot garbage or corruption and must reset
// the structure before reading any other field. A full power loss is
// indistinguishable from first boot and is handled identically.
const Magic uint32 = 0xBEAC0017

type DeviceState uint8

const (
	Uninitialized DeviceState = iota
	FactoryMode
	NormalMode
	ErrorState
)

func (s DeviceState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case FactoryMode:
		return "factory"
	case NormalMode:
		return "normal"
	case ErrorState:
		return "error"
	}
	return "unknown"
}

// ErrorCode records the first recoverable component failure of a cycle.
// Cleared only by a fresh boot.
type ErrorCode uint8

const (
	ErrNone ErrorCode = iota
	ErrRadioInitFailed
	ErrIndicatorInitFailed
	ErrInvalidState
)

func (e ErrorCode) String() string {
	switch e {
	case ErrNone:
		return "none"
	case ErrRadioInitFailed:
		return "radio init failed"
	case ErrIndicatorInitFailed:
		return "indicator init failed"
	case ErrInvalidState:
		return "invalid state"
	}
	return "unknown"
}

// PersistentState survives the deep-sleep/wake cycle (retained RAM), not a
// cold power loss. It is allocated once for the device's lifetime and never
// destroyed, only reinitialised in place.
//
// Write ownership is strict: the state machine writes State and LastError,
// the factory transition writes Seed and resets Counter, the normal
// transition increments Counter. Nothing else mutates the structure, which is
// what makes it safe without locking on this single-actor hardware.
type PersistentState struct {
	Magic       uint32
	Seed        uint32
	Counter     uint32
	Initialized bool
	State       DeviceState
	LastError   ErrorCode
}

// Validate reports whether the structure carries valid state from a previous
// cycle. Must be checked exactly once per wake, before any other field is
// read. Initialized == true implies Seed has been derived at least once.
func (p *PersistentState) Validate() bool {
	return p.Magic == Magic
}

// ResetToDefaults zeroes every field and stamps the magic.
func (p *PersistentState) ResetToDefaults() {
	*p = PersistentState{Magic: Magic}
}
