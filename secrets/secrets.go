// Package secrets holds the build-time product configuration compiled into
// every device of a batch. Replace the values below before building
// production firmware; the values here are placeholders. Compromise of the
// product key or batch id invalidates the rolling-code scheme for every
// device sharing that build.
package secrets

const (
	// ProductKey is the 32-bit key shared by every device of the product line.
	ProductKey uint32 = 0x12345678

	// BatchID identifies the manufacturing batch.
	BatchID uint16 = 0x0001

	// ManufacturerID is the BLE company identifier carried in the
	// advertisement's manufacturer data structure.
	ManufacturerID uint16 = 0xF001
)
