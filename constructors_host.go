//go:build !tinygo && !baremetal

// This file is built only for non-embedded targets (host-based testing).
package beaconfw

import (
	"github.com/selune/beaconfw/core"
	"github.com/selune/beaconfw/driver/stub"
	"github.com/selune/beaconfw/secrets"
	"github.com/selune/beaconfw/state"
)

// Harness bundles a device with the recording stubs behind it so host code
// can drive cycles and inspect what the hardware would have done.
type Harness struct {
	Device   *core.Device
	Store    *state.PersistentState
	Recorder *stub.Recorder
	Radio    *stub.Radio
	Button   *stub.Button
	Boot     *stub.Boot
	Clock    *stub.Clock
	Wake     *stub.Wake
}

// NewHarness wires the core to recording stub drivers with the given
// hardware identifier.
func NewHarness(hardwareID [6]byte) *Harness {
	rec := &stub.Recorder{}
	h := &Harness{
		Store:    &state.PersistentState{},
		Recorder: rec,
		Radio:    stub.NewRadio(rec),
		Button:   &stub.Button{},
		Boot:     &stub.Boot{},
		Clock:    &stub.Clock{},
		Wake:     stub.NewWake(rec),
	}
	hal := core.HAL{
		Radio:     h.Radio,
		Indicator: stub.NewIndicator(rec),
		ID:        &stub.ID{Addr: hardwareID},
		Trigger:   h.Button,
		Boot:      h.Boot,
		Clock:     h.Clock,
		Wake:      h.Wake,
		Log:       stub.NewLog(rec),
	}
	h.Device = core.NewDevice(h.Store, hal, secrets.ProductKey, secrets.BatchID)
	return h
}
