package protocol

// DeriveSeed combines the factory-programmed hardware identifier with the
// build-time product key and batch id into the 32-bit device seed.
//
// Only the first four of the six identifier bytes participate. This narrows
// the entropy versus using the full identifier, but the mix is load-bearing:
// every registered verifier derives the same seed from the same inputs, so
// changing it would silently invalidate the whole deployed fleet.
//
// Called once per device lifetime; deriving again is only legitimate during
// an explicit factory reset.
func DeriveSeed(hardwareID [6]byte, productKey uint32, batchID uint16) uint32 {
	seed := productKey
	seed ^= uint32(batchID) << 16
	seed ^= uint32(hardwareID[0])<<24 |
		uint32(hardwareID[1])<<16 |
		uint32(hardwareID[2])<<8 |
		uint32(hardwareID[3])
	return seed
}

// GenerateCode mixes the device seed with a microsecond timestamp into the
// 32-bit rolling code broadcast for a single window. Fixed-point avalanche
// mix, all arithmetic mod 2^32. Obfuscation only, NOT cryptographically
// secure: it makes passive observation less directly replayable, nothing
// more.
func GenerateCode(seed, timestamp uint32) uint32 {
	mixed := (seed ^ timestamp) * 0x7FFF
	mixed ^= mixed >> 13
	mixed *= 0x5C4D
	mixed ^= mixed >> 17
	mixed *= seed
	mixed ^= mixed >> 16
	return mixed
}
