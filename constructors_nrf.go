//go:build tinygo || baremetal

// This file is built only for embedded targets (real hardware).
package beaconfw

import (
	"machine"

	"github.com/selune/beaconfw/core"
	"github.com/selune/beaconfw/driver/ble"
	"github.com/selune/beaconfw/driver/nrf"
	"github.com/selune/beaconfw/secrets"
	"github.com/selune/beaconfw/state"
)

// persisted lives in retained RAM: nRF52 parts keep RAM content through
// System OFF, so the structure survives the sleep/wake cycle but not a cold
// power loss, which the magic guard then catches.
var persisted state.PersistentState

// NewDevice wires the core to the real hardware: BLE advertisement through
// the SoftDevice, button and RGB LED on board pins, FICR identifier, System
// OFF sleep armed on the button.
func NewDevice(button, ledR, ledG, ledB machine.Pin) *core.Device {
	hal := core.HAL{
		Radio:     ble.New(secrets.ManufacturerID),
		Indicator: nrf.NewLED(ledR, ledG, ledB),
		ID:        nrf.FICR{},
		Trigger:   nrf.NewButton(button),
		Boot:      &nrf.Power{},
		Clock:     nrf.Clock{},
		Wake:      nrf.NewWake(button),
	}
	return core.NewDevice(&persisted, hal, secrets.ProductKey, secrets.BatchID)
}
