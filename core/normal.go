package core

import (
	"log"
	"time"

	"github.com/selune/beaconfw/protocol"
	"github.com/selune/beaconfw/state"
)

// runNormal executes the steady-state broadcast cycle and, on success,
// suspends the device. The quiesce ordering before suspend is a hard
// invariant: broadcast stop, log flush, indicator off, arm wake, suspend.
// If arming fails the suspend path is abandoned entirely; suspending with no
// way to wake would strand the device until a battery pull.
func (d *Device) runNormal() error {
	d.store.State = state.NormalMode
	d.store.Counter++

	ts := d.hal.Clock.Micros()
	code := protocol.GenerateCode(d.store.Seed, ts)
	payload := protocol.EncodePayload(&protocol.Payload{Code: code, Timestamp: ts})

	if err := d.hal.Indicator.Set(ColorGreen); err != nil {
		d.store.LastError = state.ErrIndicatorInitFailed
	}

	if err := d.hal.Radio.Advertise(protocol.DeviceName, payload); err != nil {
		log.Printf("[core] broadcast start failed: %v\r\n", err)
		return d.fail(state.ErrRadioInitFailed)
	}
	log.Printf("[core] broadcasting code=%08X counter=%d\r\n", code, d.store.Counter)

	// The broadcast window blocks for its fixed duration; nothing races it.
	d.hal.Clock.Sleep(protocol.BroadcastWindow * time.Millisecond)

	if err := d.hal.Radio.Stop(); err != nil {
		log.Printf("[core] broadcast stop failed: %v\r\n", err)
		return d.fail(state.ErrRadioInitFailed)
	}
	if d.hal.Log != nil {
		d.hal.Log.Flush()
	}
	if err := d.hal.Indicator.Off(); err != nil {
		d.store.LastError = state.ErrIndicatorInitFailed
	}

	if err := d.hal.Wake.Arm(); err != nil {
		log.Printf("[core] wake arming failed, staying awake: %v\r\n", err)
		return err
	}

	log.Printf("[core] suspending\r\n")
	return d.hal.Wake.Suspend()
}

// blinkError signals failure on the indicator before the forced restart.
func (d *Device) blinkError() {
	for i := 0; i < protocol.ErrorBlinkCount; i++ {
		_ = d.hal.Indicator.Set(ColorRed)
		d.hal.Clock.Sleep(protocol.ErrorBlinkStep * time.Millisecond)
		_ = d.hal.Indicator.Off()
		d.hal.Clock.Sleep(protocol.ErrorBlinkStep * time.Millisecond)
	}
}
