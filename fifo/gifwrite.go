package fifo

import (
	"github.com/sarchlab/fifoemu/gif"
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
)

// WriteGIF accepts one quadword on the direct-memory graphics input port.
//
// The quadword goes through the software FIFO when direct delivery is not
// allowed or when older quadwords are still buffered; otherwise it is sent as
// a single direct packet. Never both.
func WriteGIF(ctx *Context, q qword.Quadword) error {
	ctx.access(HookPosWrite, HandlerGIFWrite, q)

	if !ctx.Pipeline.DirectAllowed() || ctx.SoftFIFO.Size() > 0 {
		if !ctx.SoftFIFO.CanPush() {
			ctx.SoftFIFO.Drain(ctx.Pipeline)
		}

		if err := ctx.SoftFIFO.Push(q); err != nil {
			return ctx.fault(HandlerGIFWrite, ErrBufferOverflow,
				"%d quadwords buffered", ctx.SoftFIFO.Size())
		}

		ctx.SoftFIFO.Drain(ctx.Pipeline)
		ctx.GIFStat.QueuedCount = regs.ClampQueuedCount(
			uint32(ctx.SoftFIFO.Size()))
	} else {
		ctx.Pipeline.SendPacket(q)
	}

	path3 := ctx.Paths.Get(regs.Path3)

	// The wait state only held the writer back; path 3 itself can go on.
	if path3.State() == gif.Wait {
		path3.SetState(gif.Idle)
	}

	if ctx.GIFStat.ActivePath == regs.Path3 && path3.State().Drained() {
		ctx.release(HandlerGIFWrite, regs.Path3)
	}

	return nil
}
