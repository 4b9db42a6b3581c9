// Package gif describes the graphics-input side of the FIFO layer: the three
// input paths, the pipeline they feed, and the arbitration that picks which
// path runs next.
package gif

import (
	"fmt"

	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
)

// PathState is the transfer state of a graphics-input path.
type PathState uint8

// Path states.
const (
	Idle PathState = iota
	Wait
	Transferring
	Done
)

func (s PathState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Wait:
		return "wait"
	case Transferring:
		return "transferring"
	case Done:
		return "done"
	}

	return fmt.Sprintf("PathState(%d)", uint8(s))
}

// Drained tells if a path in this state holds no partially sent packet.
func (s PathState) Drained() bool {
	return s == Idle || s == Wait
}

// Eligible tells if a path in this state may be dispatched by the arbiter.
func (s PathState) Eligible() bool {
	return s != Done
}

// A Path is one of the three fixed sources of graphics-pipeline input. Paths
// own their state; the FIFO layer only queries them, relaxes path 3 out of
// Wait, and asks them to execute.
type Path interface {
	ID() regs.PathID
	State() PathState
	SetState(s PathState)

	// Drained reports that the path has nothing left in flight.
	Drained() bool

	// Enabled reports that the path has input ready and is not masked.
	Enabled() bool

	// Execute runs the path until it yields. It returns only when the
	// transfer is complete.
	Execute(isPath3, isResume bool)
}

// A Pipeline is the graphics-pipeline input port that path 3 data enters
// through.
type Pipeline interface {
	// DirectAllowed tells if a quadword may bypass the software FIFO.
	DirectAllowed() bool

	// Accepting tells if the pipeline takes a buffered quadword now.
	Accepting() bool

	// Forward delivers one quadword drained from the software FIFO.
	Forward(q qword.Quadword)

	// SendPacket delivers one quadword as a single direct packet.
	SendPacket(q qword.Quadword)
}

// PathSet holds the three paths, indexed by PathID.
type PathSet [3]Path

// Get returns the path with the given id.
func (ps PathSet) Get(id regs.PathID) Path {
	if id < regs.Path1 || id > regs.Path3 {
		panic(fmt.Sprintf("no such path %d", id))
	}

	return ps[id-1]
}
