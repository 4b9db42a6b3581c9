package fifo

import (
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
	"github.com/sarchlab/fifoemu/vif"
)

// WriteVIF0 accepts one quadword on the VIF0 FIFO port.
func WriteVIF0(ctx *Context, q qword.Quadword) error {
	ch := ctx.VIF0
	ctx.access(HookPosWrite, HandlerVIF0Write, q)

	if ch.Stat.Stalled() {
		ctx.advise(HandlerVIF0Write, "writing to FIFO while stalled")
	}

	if ch.IRQOffset != 0 && ch.StallEnabled {
		ctx.advise(HandlerVIF0Write, "offset %d on FIFO start", ch.IRQOffset)
	}

	return transfer(ctx, HandlerVIF0Write, ch, q)
}

// WriteVIF1 accepts one quadword on the VIF1 FIFO port. When path 2 owns the
// pipeline and has drained, the write also hands the pipeline to the next
// eligible path.
func WriteVIF1(ctx *Context, q qword.Quadword) error {
	ch := ctx.VIF1
	ctx.access(HookPosWrite, HandlerVIF1Write, q)

	if ch.Stat.Direction == regs.Download {
		ctx.advise(HandlerVIF1Write, "writing to FIFO in download mode")
	}

	if ch.Stat.Stalled() {
		ctx.advise(HandlerVIF1Write, "writing to FIFO while stalled")
	}

	if ch.IRQOffset != 0 && ch.StallEnabled {
		ctx.advise(HandlerVIF1Write, "offset %d on FIFO start", ch.IRQOffset)
	}

	err := transfer(ctx, HandlerVIF1Write, ch, q)

	if ctx.GIFStat.ActivePath == regs.Path2 &&
		ctx.Paths.Get(regs.Path2).Drained() {
		ch.Stat.GatherWait = false
		ctx.release(HandlerVIF1Write, regs.Path2)
	}

	return err
}

// transfer hands q to the channel's command processor and updates the
// command progress. A rejected transfer is reported only after the status
// register reflects the processor state.
func transfer(
	ctx *Context,
	h Handler,
	ch *vif.Channel,
	q qword.Quadword,
) error {
	if ch.Processor == nil {
		panic(string(h) + ": no command processor")
	}

	ch.QWC++

	accepted := ch.Processor.Transfer(q.Words())

	if ch.Processor.ActiveCommand() {
		if ch.Processor.CommandDone() && ch.QWC == 0 {
			ch.Stat.Progress = regs.Waiting
		}
	} else {
		ch.Stat.Progress = regs.Idle
	}

	if !accepted {
		return ctx.fault(h, ErrTransferRejected, "qwc %d, %s", ch.QWC, ch.Stat)
	}

	return nil
}
