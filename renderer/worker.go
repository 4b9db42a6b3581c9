package renderer

import (
	"fmt"
	"sync"

	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
)

// Stats counts the work the renderer has done.
type Stats struct {
	Delivered  [4]uint64 // indexed by regs.PathID
	Downloaded uint64
	Underruns  uint64 // reads with an empty download queue
	Syncs      uint64
}

type packet struct {
	kind     PacketKind
	arg      uint32
	ptr      *qword.Quadword
	path     regs.PathID
	data     []qword.Quadword
	syncRegs bool
	ack      chan struct{}
}

// Worker is the renderer goroutine and its packet ring.
type Worker struct {
	name string
	ring chan packet
	done chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once

	// Owned by the worker goroutine.
	download []qword.Quadword
	stats    Stats
	readback qword.Quadword

	// Written by the worker before it acknowledges a barrier, read by the
	// emulation thread after the barrier returns.
	published Stats
	lastRead  qword.Quadword
}

// Name returns the name of the worker.
func (w *Worker) Name() string {
	return w.name
}

// Start launches the worker goroutine.
func (w *Worker) Start() {
	w.startOnce.Do(func() {
		go w.run()
	})
}

// Stop drains the ring and ends the worker goroutine.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.Start()
		close(w.ring)
		<-w.done
	})
}

// WaitUntilIdle implements Renderer.
func (w *Worker) WaitUntilIdle(syncRegs bool) {
	ack := make(chan struct{})
	w.ring <- packet{kind: KindSync, syncRegs: syncRegs, ack: ack}
	<-ack
}

// SendPointerPacket implements Renderer.
func (w *Worker) SendPointerPacket(
	kind PacketKind,
	arg uint32,
	ptr *qword.Quadword,
) {
	if kind != KindReadFIFO {
		panic(fmt.Sprintf("%s is not a pointer packet", kind))
	}

	w.ring <- packet{kind: kind, arg: arg, ptr: ptr}
}

// ReadQuadwordInto implements Renderer.
func (w *Worker) ReadQuadwordInto(buf *qword.Quadword) {
	*buf = w.lastRead
}

// Deliver posts one quadword of graphics input from the given path. It
// blocks while the ring is full.
func (w *Worker) Deliver(path regs.PathID, q qword.Quadword) {
	w.ring <- packet{
		kind: KindDeliver,
		path: path,
		data: []qword.Quadword{q},
	}
}

// QueueDownload makes data available for read-back, oldest first.
func (w *Worker) QueueDownload(data ...qword.Quadword) {
	copied := make([]qword.Quadword, len(data))
	copy(copied, data)

	w.ring <- packet{kind: KindQueueDownload, data: copied}
}

// Stats returns the counters published by the last WaitUntilIdle(true).
// Another goroutine may read them only if it shares a lock with every
// caller of WaitUntilIdle; the worker publishes while the caller waits.
func (w *Worker) Stats() Stats {
	return w.published
}

func (w *Worker) run() {
	defer close(w.done)

	for p := range w.ring {
		w.process(p)
	}
}

func (w *Worker) process(p packet) {
	switch p.kind {
	case KindSync:
		w.stats.Syncs++
		if p.syncRegs {
			w.published = w.stats
		}
		w.lastRead = w.readback
		close(p.ack)
	case KindReadFIFO:
		w.readOne(p.ptr)
	case KindDeliver:
		w.stats.Delivered[p.path] += uint64(len(p.data))
	case KindQueueDownload:
		w.download = append(w.download, p.data...)
	default:
		panic(fmt.Sprintf("unknown packet kind %s", p.kind))
	}
}

func (w *Worker) readOne(ptr *qword.Quadword) {
	w.readback = qword.Quadword{}

	if len(w.download) > 0 {
		w.readback = w.download[0]
		w.download = w.download[1:]
		w.stats.Downloaded++
	} else {
		w.stats.Underruns++
	}

	if ptr != nil {
		*ptr = w.readback
	}
}
