// Package regs models the channel status registers as records of named
// fields. Encode and Decode translate to and from the raw 32-bit register
// image; nothing outside this package touches the bit layout.
package regs

import (
	"errors"
	"fmt"
)

// MaxQueuedCount is the largest value the queued-count field can report.
const MaxQueuedCount = 16

// ErrInvalidEncoding is returned when a raw register value, or a record,
// falls outside the set of combinations the hardware can produce.
var ErrInvalidEncoding = errors.New("invalid status register encoding")

// Direction is the transfer direction of a FIFO.
type Direction uint8

// Transfer directions.
const (
	Upload Direction = iota
	Download
)

func (d Direction) String() string {
	switch d {
	case Upload:
		return "upload"
	case Download:
		return "download"
	}

	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Progress tracks command completion of a vector channel.
type Progress uint8

// Command progress states. The raw values are the VPS field encodings.
const (
	Idle         Progress = 0
	Waiting      Progress = 1
	Transferring Progress = 3
)

func (p Progress) String() string {
	switch p {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case Transferring:
		return "transferring"
	}

	return fmt.Sprintf("Progress(%d)", uint8(p))
}

func (p Progress) valid() bool {
	return p == Idle || p == Waiting || p == Transferring
}

// PathID identifies one of the graphics-input paths. PathNone means no path
// owns the pipeline.
type PathID uint8

// Graphics-input paths.
const (
	PathNone PathID = iota
	Path1
	Path2
	Path3
)

func (p PathID) String() string {
	if p == PathNone {
		return "none"
	}

	return fmt.Sprintf("path%d", uint8(p))
}

type field struct {
	shift uint
	width uint
}

func (f field) mask() uint32 {
	return (1<<f.width - 1) << f.shift
}

func (f field) get(raw uint32) uint32 {
	return (raw & f.mask()) >> f.shift
}

func (f field) put(raw, v uint32) uint32 {
	return raw&^f.mask() | (v<<f.shift)&f.mask()
}

func bit(shift uint) field {
	return field{shift: shift, width: 1}
}

func flag(raw uint32, f field) bool {
	return f.get(raw) != 0
}

func putFlag(raw uint32, f field, v bool) uint32 {
	if v {
		return f.put(raw, 1)
	}

	return f.put(raw, 0)
}

// ClampQueuedCount converts a quadword count into a queued-count field value.
func ClampQueuedCount(n uint32) uint8 {
	return uint8(min(n, MaxQueuedCount))
}
