package tunnel

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size, in bytes, of a DNS message header.
const HeaderSize = 12

// rdFlag is the Recursion Desired bit within the 16-bit flags field. Every
// other flag bit is always zero for a query this protocol emits.
const rdFlag uint16 = 0x0100

// Header is the 12-byte DNS header this protocol emits: an identifier, the
// Recursion Desired flag, and a question count of one. All other fields
// (answer/authority/additional counts, opcode, response bits) are always
// zero on the wire for this protocol's one-way queries.
type Header struct {
	ID uint16
}

// Marshal serializes h to its 12-byte wire form, big-endian, field by
// field. A fixed-width struct is used here rather than the C bit-field
// aggregate the reference implementation reads/writes directly, since
// bit-field layout is compiler- and platform-dependent and is not a wire
// contract.
func (h Header) Marshal() []byte {
	b := make([]byte, HeaderSize)
	binary.BigEndian.PutUint16(b[0:2], h.ID)
	binary.BigEndian.PutUint16(b[2:4], rdFlag)
	binary.BigEndian.PutUint16(b[4:6], 1) // QDCount
	// ANCount, NSCount, ARCount are left zero.
	return b
}

// ParseHeader reads a 12-byte DNS header from msg at offset 0. Only the ID
// field is returned; RD/QDCount and the remaining counters are accepted
// without validation and discarded, matching §4.3's "header fields other
// than ID, RD, QDCOUNT are ignored on parse".
func ParseHeader(msg []byte) (Header, error) {
	if len(msg) < HeaderSize {
		return Header{}, fmt.Errorf("tunnel: %w: header truncated", ErrTruncatedPacket)
	}
	return Header{ID: binary.BigEndian.Uint16(msg[0:2])}, nil
}
