//go:build tinygo || baremetal

package nrf

import "device/nrf"

// FICR serves the factory-programmed device address out of the factory
// information config registers. Read-only by hardware design.
type FICR struct{}

func (FICR) HardwareID() [6]byte {
	lo := nrf.FICR.DEVICEADDR[0].Get()
	hi := nrf.FICR.DEVICEADDR[1].Get()

	// Big-endian byte order, matching how the address is printed and how the
	// fleet registry records it.
	return [6]byte{
		byte(hi >> 8), byte(hi),
		byte(lo >> 24), byte(lo >> 16), byte(lo >> 8), byte(lo),
	}
}
