package script

import (
	"fmt"
	"io"
	"sync"

	"github.com/sarchlab/fifoemu/gif"
	"github.com/sarchlab/fifoemu/mmio"
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
	"github.com/sarchlab/fifoemu/renderer"
)

// Env is what a script runs against.
type Env struct {
	Bus      *mmio.Bus
	Unit     *gif.Unit
	Renderer *renderer.Worker

	// Lock is held around every step when set.
	Lock sync.Locker

	// AfterStep is called after every step when set.
	AfterStep func(s Step)
}

// Runner executes steps and prints what reads return.
type Runner struct {
	env Env
	out io.Writer
}

// NewRunner creates a runner writing its report to out.
func NewRunner(env Env, out io.Writer) *Runner {
	if env.Bus == nil || env.Unit == nil || env.Renderer == nil {
		panic("script environment is incomplete")
	}

	return &Runner{env: env, out: out}
}

// Run executes steps in order and stops at the first error.
func (r *Runner) Run(steps []Step) error {
	for _, s := range steps {
		if err := r.step(s); err != nil {
			return &LineError{Line: s.Line, Err: err}
		}

		if r.env.AfterStep != nil {
			r.env.AfterStep(s)
		}
	}

	return nil
}

func (r *Runner) step(s Step) error {
	if r.env.Lock != nil {
		r.env.Lock.Lock()
		defer r.env.Lock.Unlock()
	}

	switch s.Op {
	case OpWrite:
		return r.env.Bus.WriteQuadword(s.Addr, s.Data[0])
	case OpRead:
		return r.read(s)
	case OpStat:
		return r.stat(s)
	case OpDownload:
		r.download(s)
	case OpAccept:
		r.accept(s)
	case OpMaskPath3:
		r.env.Unit.MaskPath3(s.On)
	case OpQueue:
		r.env.Unit.Queue(s.Path, s.Data...)
	default:
		return fmt.Errorf("%w: op %d", ErrUnknownCommand, s.Op)
	}

	return nil
}

func (r *Runner) read(s Step) error {
	var q qword.Quadword

	if err := r.env.Bus.ReadQuadword(s.Addr, &q); err != nil {
		return err
	}

	fmt.Fprintf(r.out, "read 0x%08X = %s\n", s.Addr, q)

	return nil
}

func (r *Runner) stat(s Step) error {
	raw, err := r.env.Bus.ReadStat(s.Addr)
	if err != nil {
		return err
	}

	var decoded fmt.Stringer

	switch s.Addr {
	case mmio.GIFStat:
		decoded, err = regs.DecodeGIFStat(raw)
	case mmio.VIF0Stat:
		decoded, err = regs.DecodeVIFStatFor(regs.VIF0, raw)
	default:
		decoded, err = regs.DecodeVIFStat(raw)
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "stat 0x%08X = 0x%08X %s\n", s.Addr, raw, decoded)

	return nil
}

func (r *Runner) download(s Step) {
	ctx := r.env.Bus.Context()

	if len(s.Data) > 0 {
		r.env.Renderer.QueueDownload(s.Data...)
	}

	ctx.VIF1.StartDownload(uint32(s.Count))
	ctx.GIFStat.Direction = regs.Download
	ctx.GIFStat.OutputActive = s.Count > 0
}

// accept sets the pipeline budget and pushes out what the software FIFO
// holds.
func (r *Runner) accept(s Step) {
	ctx := r.env.Bus.Context()

	r.env.Unit.SetAcceptBudget(s.Count)
	ctx.SoftFIFO.Drain(r.env.Unit)
	ctx.GIFStat.QueuedCount = regs.ClampQueuedCount(uint32(ctx.SoftFIFO.Size()))
}
