package protocol

import "encoding/binary"

// Payload is the manufacturer-data body of one advertisement.
// Layout: RollingCode(4, big-endian) | Timestamp(4, big-endian)
// The code is valid for the single broadcast that produced it and is never
// persisted.
type Payload struct {
	Code      uint32
	Timestamp uint32
}

// EncodePayload serialises a Payload into on-air bytes.
func EncodePayload(p *Payload) []byte {
	if p == nil {
		return make([]byte, 0)
	}

	data := make([]byte, PayloadSize)
	binary.BigEndian.PutUint32(data[0:CodeFieldSize], p.Code)
	binary.BigEndian.PutUint32(data[CodeFieldSize:PayloadSize], p.Timestamp)
	return data
}

// DecodePayload parses manufacturer data back into a Payload. Anything that
// is not exactly one payload long decodes to nil.
func DecodePayload(data []byte) *Payload {
	if len(data) != PayloadSize {
		return nil
	}

	return &Payload{
		Code:      binary.BigEndian.Uint32(data[0:CodeFieldSize]),
		Timestamp: binary.BigEndian.Uint32(data[CodeFieldSize:PayloadSize]),
	}
}
