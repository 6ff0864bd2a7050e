//go:build tinygo || baremetal

// Package nrf implements the beacon's hardware capabilities on nRF52-class
// parts: reset-cause and System OFF handling on the POWER peripheral, the
// hardware identifier from FICR, and button/LED access through machine pins.
package nrf

import (
	"time"

	"machine"

	"github.com/selune/beaconfw/core"
)

// Button is the external trigger input, active-low behind a pull-up.
type Button struct {
	pin machine.Pin
}

func NewButton(pin machine.Pin) *Button {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &Button{pin: pin}
}

func (b *Button) Active() bool { return !b.pin.Get() }

// LED drives a common-cathode RGB indicator on three pins.
type LED struct {
	r, g, b machine.Pin
}

func NewLED(r, g, b machine.Pin) *LED {
	for _, p := range []machine.Pin{r, g, b} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	return &LED{r: r, g: g, b: b}
}

func (l *LED) Set(c core.Color) error {
	l.r.Set(c == core.ColorRed)
	l.g.Set(c == core.ColorGreen)
	l.b.Set(c == core.ColorBlue)
	return nil
}

func (l *LED) Off() error {
	l.r.Low()
	l.g.Low()
	l.b.Low()
	return nil
}

// Clock feeds the rolling code from the runtime's microsecond counter, which
// starts at zero each boot. Truncation to 32 bits wraps after about 71
// minutes of uptime; a device that sleeps between broadcasts never gets
// there, and short-term uniqueness is all the code needs.
type Clock struct{}

func (Clock) Micros() uint32 {
	return uint32(time.Now().UnixNano() / int64(time.Microsecond))
}

func (Clock) Sleep(d time.Duration) { time.Sleep(d) }
