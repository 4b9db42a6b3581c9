package fifo

import (
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
	"github.com/sarchlab/fifoemu/renderer"
)

// ReadVIF1 services a read of the VIF1 FIFO port. The output is cleared
// before anything else, so a failed read never returns stale data. In
// download mode the read blocks until the renderer has produced the
// quadword.
func ReadVIF1(ctx *Context, out *qword.Quadword) error {
	out.Zero()

	ch := ctx.VIF1

	if ch.Stat.Stalled() {
		ctx.advise(HandlerVIF1Read, "reading from FIFO while stalled")
	}

	if ch.Stat.QueuedCount == 0 {
		return ctx.fault(HandlerVIF1Read, ErrEmptyFIFORead, "%s", ch.Stat)
	}

	if ch.Stat.Direction != regs.Download {
		return nil
	}

	if uint32(ch.Stat.QueuedCount) > ch.DownloadCount {
		ctx.advise(HandlerVIF1Read,
			"download size %d below FIFO count %d",
			ch.DownloadCount, ch.Stat.QueuedCount)
	}

	r := ctx.Renderer
	r.WaitUntilIdle(true)
	r.SendPointerPacket(renderer.KindReadFIFO, 0, out)
	r.WaitUntilIdle(false)
	r.ReadQuadwordInto(out)

	if ch.DownloadCount > 0 {
		ch.DownloadCount--
	}

	if ch.DownloadCount <= regs.MaxQueuedCount {
		ctx.GIFStat.OutputActive = false
	}

	ch.Stat.QueuedCount = regs.ClampQueuedCount(ch.DownloadCount)

	ctx.access(HookPosRead, HandlerVIF1Read, *out)

	return nil
}
