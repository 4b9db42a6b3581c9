// Package renderer models the asynchronous renderer timeline. The emulation
// thread reaches it only through a packet ring: it can post packets and it
// can block until the worker has processed everything posted so far.
package renderer

import (
	"fmt"

	"github.com/sarchlab/fifoemu/qword"
)

// PacketKind identifies what a packet asks the renderer to do.
type PacketKind uint8

// Packet kinds.
const (
	// KindSync is a barrier; the worker acknowledges it once every earlier
	// packet is processed.
	KindSync PacketKind = iota

	// KindReadFIFO asks for one quadword of read-back data to be written
	// through the packet pointer.
	KindReadFIFO

	// KindDeliver carries one quadword of graphics input.
	KindDeliver

	// KindQueueDownload adds read-back data to the download queue.
	KindQueueDownload
)

func (k PacketKind) String() string {
	switch k {
	case KindSync:
		return "sync"
	case KindReadFIFO:
		return "read-fifo"
	case KindDeliver:
		return "deliver"
	case KindQueueDownload:
		return "queue-download"
	}

	return fmt.Sprintf("PacketKind(%d)", uint8(k))
}

// Renderer is the part of the renderer the FIFO read handler uses.
type Renderer interface {
	// WaitUntilIdle blocks until every packet posted before the call is
	// processed. With syncRegs the worker also republishes its statistics.
	WaitUntilIdle(syncRegs bool)

	// SendPointerPacket posts a packet that carries a pointer. The worker
	// fills or consumes the pointed-to quadword; the caller must not touch
	// it until the next WaitUntilIdle returns.
	SendPointerPacket(kind PacketKind, arg uint32, ptr *qword.Quadword)

	// ReadQuadwordInto copies the last quadword produced by a KindReadFIFO
	// packet. Only valid after WaitUntilIdle.
	ReadQuadwordInto(buf *qword.Quadword)
}
