// Package core implements the beacon's device state machine and the
// sleep/wake lifecycle around it. One wake cycle runs to completion on a
// single logical thread; the deep-sleep boundary is the only suspension
// point, and nothing survives it except the persistent store.
package core

import (
	"log"

	"github.com/selune/beaconfw/protocol"
	"github.com/selune/beaconfw/state"
)

// Device owns the persistent store and the hardware it drives. Exactly one
// wake cycle is ever in flight on the target hardware, so Device needs no
// locking.
type Device struct {
	store *state.PersistentState
	hal   HAL

	productKey uint32
	batchID    uint16
}

func NewDevice(store *state.PersistentState, hal HAL, productKey uint32, batchID uint16) *Device {
	return &Device{store: store, hal: hal, productKey: productKey, batchID: batchID}
}

// Store exposes the persistent state for inspection. Callers must respect
// the write-ownership rules documented on state.PersistentState.
func (d *Device) Store() *state.PersistentState { return d.store }

// NextMode is the full mode-selection table in one place:
//
//	initialized  wake cause   trigger   -> mode
//	false        any          any       -> FactoryMode
//	true         power-on     active    -> FactoryMode (factory reset)
//	true         power-on     inactive  -> NormalMode
//	true         sleep-wake   any       -> NormalMode
//
// The trigger matters only immediately after a power-on reset. The same
// button waking the device out of deep sleep is the normal broadcast
// trigger, never a factory reset; the reset cause disambiguates the two.
func NextMode(initialized bool, cause WakeCause, triggerActive bool) state.DeviceState {
	if !initialized {
		return state.FactoryMode
	}
	if cause == WakePowerOn && triggerActive {
		return state.FactoryMode
	}
	return state.NormalMode
}

// RunCycle executes one wake cycle: validate the store, select the mode, run
// factory personalisation if needed, then the normal broadcast cycle. On
// hardware it does not return from a successful cycle (the device suspends or
// restarts); it returns on the host, after a wake-arming failure, or with
// protocol.ErrRestarted after the error path.
func (d *Device) RunCycle() error {
	if !d.store.Validate() {
		log.Printf("[core] persistent state invalid, resetting\r\n")
		d.store.ResetToDefaults()
	}
	d.store.LastError = state.ErrNone

	if d.store.State > state.ErrorState {
		// Enum out of range with a valid magic: corruption the magic guard
		// cannot catch. Treat as unrecoverable for this cycle.
		return d.fail(state.ErrInvalidState)
	}

	cause := d.hal.Boot.WakeCause()
	mode := NextMode(d.store.Initialized, cause, d.hal.Trigger.Active())
	log.Printf("[core] wake cause=%s mode=%s counter=%d\r\n", cause, mode, d.store.Counter)

	if mode == state.FactoryMode {
		if d.store.Initialized {
			log.Printf("[core] factory reset requested\r\n")
			d.store.ResetToDefaults()
		}
		d.runFactory()
	}

	return d.runNormal()
}

// fail is the terminal error path for the current cycle: record the code,
// signal visibly for field diagnosis, flush, then force a restart. The error
// path never suspends. Retrying radio or indicator bring-up in place is not
// reliable on this hardware class; rebooting from scratch is.
func (d *Device) fail(code state.ErrorCode) error {
	d.store.State = state.ErrorState
	d.store.LastError = code
	log.Printf("[core] unrecoverable failure: %s\r\n", code)

	d.blinkError()

	if d.hal.Log != nil {
		d.hal.Log.Flush()
	}
	d.hal.Wake.Restart()
	return protocol.ErrRestarted
}
