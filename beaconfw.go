// Package beaconfw provides a façade to access the beacon firmware core.
package beaconfw

import (
	"github.com/selune/beaconfw/core"
	"github.com/selune/beaconfw/protocol"
	"github.com/selune/beaconfw/state"
)

// The wiring is split into build-tag specific files:
// - constructors_nrf.go - for embedded targets (//go:build tinygo || baremetal)
// - constructors_host.go - for development/testing (//go:build !tinygo && !baremetal)

// Re-export types for consumers that only want the top-level API
type (
	Device          = core.Device
	HAL             = core.HAL
	WakeCause       = core.WakeCause
	DeviceState     = state.DeviceState
	ErrorCode       = state.ErrorCode
	PersistentState = state.PersistentState
	Payload         = protocol.Payload
)

// Error constants exposed in the public API
var (
	ErrInvalidPayload = protocol.ErrInvalidPayload
	ErrRadioInit      = protocol.ErrRadioInit
	ErrWakeArm        = protocol.ErrWakeArm
	ErrRestarted      = protocol.ErrRestarted
)

// Constants exposed in the public API
const (
	Uninitialized = state.Uninitialized
	FactoryMode   = state.FactoryMode
	NormalMode    = state.NormalMode
	ErrorState    = state.ErrorState

	WakePowerOn   = core.WakePowerOn
	WakeFromSleep = core.WakeFromSleep
)
