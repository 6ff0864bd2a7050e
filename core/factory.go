package core

import (
	"log"
	"time"

	"github.com/selune/beaconfw/protocol"
	"github.com/selune/beaconfw/state"
)

// runFactory performs the one-time device personalisation: derive the seed
// from the hardware identifier and the build secrets, persist it, then wait a
// bounded window for the operator to confirm with the trigger or for the
// timeout to lapse, whichever comes first. On exit the device is initialised
// and the caller proceeds into the normal cycle.
func (d *Device) runFactory() {
	d.store.State = state.FactoryMode

	id := d.hal.ID.HardwareID()
	d.store.Seed = protocol.DeriveSeed(id, d.productKey, d.batchID)
	d.store.Counter = 0
	log.Printf("[core] factory: seed derived for %02X:%02X:%02X:%02X:%02X:%02X\r\n",
		id[0], id[1], id[2], id[3], id[4], id[5])

	if err := d.hal.Indicator.Set(ColorBlue); err != nil {
		d.store.LastError = state.ErrIndicatorInitFailed
	}

	// Bounded poll, wrap-safe: elapsed micros, not an absolute deadline.
	start := d.hal.Clock.Micros()
	const timeoutMicros = protocol.FactoryWaitTimeout * 1000
	for d.hal.Clock.Micros()-start < timeoutMicros {
		if d.hal.Trigger.Active() {
			log.Printf("[core] factory: trigger confirmed\r\n")
			break
		}
		d.hal.Clock.Sleep(protocol.FactoryPollStep * time.Millisecond)
	}

	if err := d.hal.Indicator.Off(); err != nil {
		d.store.LastError = state.ErrIndicatorInitFailed
	}

	d.store.Initialized = true
	d.store.State = state.NormalMode
	log.Printf("[core] factory complete\r\n")
}
