//go:build tinygo || baremetal

package nrf

import (
	"machine"

	"device/arm"
	"device/nrf"

	"github.com/selune/beaconfw/core"
	"github.com/selune/beaconfw/protocol"
)

// RESETREAS bit set when the chip left System OFF through a GPIO DETECT
// signal, i.e. the armed wake pin. Anything else reads as a power-on reset.
const resetReasonOffSense = 1 << 16

// Power reads the reset reason once per boot and caches it; RESETREAS is
// write-1-to-clear and must be cleared so the next boot sees its own cause.
type Power struct {
	cause core.WakeCause
	read  bool
}

func (p *Power) WakeCause() core.WakeCause {
	if !p.read {
		reason := nrf.POWER.RESETREAS.Get()
		nrf.POWER.RESETREAS.Set(reason)
		if reason&resetReasonOffSense != 0 {
			p.cause = core.WakeFromSleep
		} else {
			p.cause = core.WakePowerOn
		}
		p.read = true
	}
	return p.cause
}

// Wake arms the button pin as the only wake source and drops the chip into
// System OFF. The pin must live on port 0.
type Wake struct {
	pin machine.Pin
}

func NewWake(pin machine.Pin) *Wake { return &Wake{pin: pin} }

// Arm configures the pin as a pulled-up input with SENSE on low level, so
// pressing the button pulls DETECT and wakes the chip out of System OFF.
func (w *Wake) Arm() error {
	w.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	cnf := &nrf.P0.PIN_CNF[w.pin]
	cnf.Set((cnf.Get() &^ nrf.GPIO_PIN_CNF_SENSE_Msk) |
		(nrf.GPIO_PIN_CNF_SENSE_Low << nrf.GPIO_PIN_CNF_SENSE_Pos))

	sense := (cnf.Get() & nrf.GPIO_PIN_CNF_SENSE_Msk) >> nrf.GPIO_PIN_CNF_SENSE_Pos
	if sense != nrf.GPIO_PIN_CNF_SENSE_Low {
		return protocol.ErrWakeArm
	}
	return nil
}

// Suspend enters System OFF. Execution does not continue past the register
// write; on wake the chip resets and runs from the boot entry point.
func (w *Wake) Suspend() error {
	nrf.POWER.SYSTEMOFF.Set(1)
	for {
	}
}

// Restart forces a software reset.
func (w *Wake) Restart() {
	arm.SystemReset()
}
