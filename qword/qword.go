// Package qword defines the 128-bit quadword, the transfer granule of every
// FIFO register access.
package qword

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sigurn/crc8"
)

// Size is the number of bytes in a quadword.
const Size = 16

// A Quadword is four 32-bit words. Word 0 holds the least significant bits.
type Quadword [4]uint32

var digestTable = crc8.MakeTable(crc8.CRC8)

// ErrSyntax is returned by Parse for malformed text.
var ErrSyntax = errors.New("invalid quadword syntax")

// FromBytes builds a quadword from 16 little-endian bytes.
func FromBytes(b []byte) Quadword {
	if len(b) < Size {
		panic(fmt.Sprintf("quadword needs %d bytes, got %d", Size, len(b)))
	}

	var q Quadword
	for i := range q {
		q[i] = binary.LittleEndian.Uint32(b[i*4:])
	}

	return q
}

// FromUint64s builds a quadword from its low and high doublewords.
func FromUint64s(lo, hi uint64) Quadword {
	return Quadword{
		uint32(lo),
		uint32(lo >> 32),
		uint32(hi),
		uint32(hi >> 32),
	}
}

// Words returns the four 32-bit words in transfer order.
func (q Quadword) Words() [4]uint32 {
	return [4]uint32(q)
}

// Lo returns the low doubleword.
func (q Quadword) Lo() uint64 {
	return uint64(q[0]) | uint64(q[1])<<32
}

// Hi returns the high doubleword.
func (q Quadword) Hi() uint64 {
	return uint64(q[2]) | uint64(q[3])<<32
}

// Bytes returns the little-endian byte image of the quadword.
func (q Quadword) Bytes() []byte {
	b := make([]byte, Size)
	for i, w := range q {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}

	return b
}

// IsZero tells if all 128 bits are clear.
func (q Quadword) IsZero() bool {
	return q == Quadword{}
}

// Zero clears the quadword in place.
func (q *Quadword) Zero() {
	*q = Quadword{}
}

// Digest returns a CRC-8 over the byte image. Traces use it to match
// quadwords across the write and read sides without storing the payload.
func (q Quadword) Digest() uint8 {
	return crc8.Checksum(q.Bytes(), digestTable)
}

// String prints the words from most to least significant.
func (q Quadword) String() string {
	return fmt.Sprintf("0x%08X.%08X.%08X.%08X", q[3], q[2], q[1], q[0])
}

// Parse reads a quadword written as up to four dot-separated hexadecimal
// words, most significant first, as String prints it. Missing leading words
// are zero, so "0x5" is the quadword with only word 0 set.
func Parse(s string) (Quadword, error) {
	parts := strings.Split(strings.TrimPrefix(strings.ToLower(s), "0x"), ".")
	if len(parts) > 4 {
		return Quadword{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	var q Quadword

	for i, part := range parts {
		w, err := strconv.ParseUint(part, 16, 32)
		if err != nil {
			return Quadword{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}

		q[len(parts)-1-i] = uint32(w)
	}

	return q, nil
}
