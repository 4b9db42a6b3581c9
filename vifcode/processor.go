package vifcode

import (
	"github.com/sarchlab/fifoemu/gif"
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
	"github.com/sarchlab/fifoemu/vif"
)

// GIF is the graphics input the processor hands DIRECT data to.
type GIF interface {
	Queue(id regs.PathID, data ...qword.Quadword)
	MaskPath3(masked bool)
	Paths() gif.PathSet
}

// Registers are the channel registers the commands write.
type Registers struct {
	Cycle  uint16
	Offset uint16
	Base   uint16
	Tops   uint16
	ITop   uint16
	Mode   uint8
	Mark   uint16
	Mask   uint32
	Row    [4]uint32
	Col    [4]uint32
}

// Stats counts what the processor has seen.
type Stats struct {
	Codes       [128]uint64 // indexed by Cmd
	UnpackWords uint64
	DirectQW    uint64
	MicroCalls  uint64
}

// Processor executes the command stream of one channel. It implements
// vif.CommandProcessor.
type Processor struct {
	ch   *vif.Channel
	gif  GIF
	vif1 bool

	Regs  Registers
	Stats Stats

	// MicroMem is the microprogram memory MPG writes to, in 64-bit units.
	MicroMem []uint64

	code      Code
	active    bool
	remaining uint32
	pos       uint32

	direct      qword.Quadword
	directWords int
	directOwed  bool
}

// Code returns the command currently being executed.
func (p *Processor) Code() Code {
	return p.code
}

// ActiveCommand implements vif.CommandProcessor.
func (p *Processor) ActiveCommand() bool {
	return p.active
}

// CommandDone implements vif.CommandProcessor. Commands retire as soon as
// their last data word arrives, so a finished command is no longer active.
func (p *Processor) CommandDone() bool {
	return p.active && p.remaining == 0
}

// Transfer implements vif.CommandProcessor. A channel stopped by a stall
// takes no data.
func (p *Processor) Transfer(words [4]uint32) bool {
	if p.ch.Stat.StallStop || p.ch.Stat.StallForceBreak {
		return false
	}

	for _, w := range words {
		if p.active && p.remaining > 0 {
			p.data(w)
			continue
		}

		p.decode(Code(w))
	}

	p.ch.ConsumeQuadword()
	p.kickPath2()

	return true
}

func (p *Processor) decode(c Code) {
	p.code = c
	p.active = true
	p.pos = 0
	p.Stats.Codes[c.Cmd()]++

	if c.IRQ() {
		p.ch.Stat.Interrupt = true
	}

	cmd := c.Cmd()
	if !cmd.Known() {
		p.ch.Stat.ReservedError = true
		p.finish()

		return
	}

	if !p.vif1 && vif1Only[cmd] {
		p.finish()
		return
	}

	p.remaining = c.DataWords()
	if p.remaining > 0 {
		p.ch.Stat.Progress = regs.Transferring
		return
	}

	p.execute(c)
	p.finish()
}

// finish retires the current command. The next word is a new code.
func (p *Processor) finish() {
	p.active = false
	p.remaining = 0
}

func (p *Processor) execute(c Code) {
	imm := c.Imm()

	switch c.Cmd() {
	case CmdSTCYCL:
		p.Regs.Cycle = imm
	case CmdOFFSET:
		p.Regs.Offset = imm & 0x3FF
		p.ch.Stat.DoubleBuffer = false
		p.Regs.Tops = p.Regs.Base
	case CmdBASE:
		p.Regs.Base = imm & 0x3FF
	case CmdITOP:
		p.Regs.ITop = imm & 0x3FF
	case CmdSTMOD:
		p.Regs.Mode = uint8(imm & 3)
	case CmdMSKPATH3:
		if p.gif != nil {
			p.gif.MaskPath3(imm&0x8000 != 0)
		}
	case CmdMARK:
		p.Regs.Mark = imm
		p.ch.Stat.Mark = true
	case CmdMSCAL, CmdMSCALF, CmdMSCNT:
		p.Stats.MicroCalls++
		p.swapDoubleBuffer()
	}
}

func (p *Processor) swapDoubleBuffer() {
	if !p.vif1 {
		return
	}

	p.ch.Stat.DoubleBuffer = !p.ch.Stat.DoubleBuffer

	p.Regs.Tops = p.Regs.Base
	if p.ch.Stat.DoubleBuffer {
		p.Regs.Tops += p.Regs.Offset
	}
}

func (p *Processor) data(w uint32) {
	cmd := p.code.Cmd()

	switch {
	case cmd == CmdSTMASK:
		p.Regs.Mask = w
	case cmd == CmdSTROW:
		p.Regs.Row[p.pos] = w
	case cmd == CmdSTCOL:
		p.Regs.Col[p.pos] = w
	case cmd == CmdMPG:
		p.writeMicro(w)
	case cmd == CmdDIRECT, cmd == CmdDIRECTHL:
		p.directWord(w)
	case cmd.IsUnpack():
		p.Stats.UnpackWords++
	}

	p.pos++
	p.remaining--

	if p.remaining == 0 {
		p.finish()
	}
}

func (p *Processor) writeMicro(w uint32) {
	if len(p.MicroMem) == 0 {
		return
	}

	addr := (uint32(p.code.Imm()) + p.pos/2) % uint32(len(p.MicroMem))
	if p.pos%2 == 0 {
		p.MicroMem[addr] = p.MicroMem[addr]&^0xFFFFFFFF | uint64(w)
	} else {
		p.MicroMem[addr] = p.MicroMem[addr]&0xFFFFFFFF | uint64(w)<<32
	}
}

func (p *Processor) directWord(w uint32) {
	p.direct[p.directWords] = w
	p.directWords++

	if p.directWords < 4 {
		return
	}

	if p.gif != nil {
		p.gif.Queue(regs.Path2, p.direct)
		p.directOwed = true
	}

	p.Stats.DirectQW++
	p.direct.Zero()
	p.directWords = 0
}

// kickPath2 starts path 2 on queued DIRECT data. While the pipeline
// belongs to another path the channel waits on the graphics input.
func (p *Processor) kickPath2() {
	if !p.directOwed {
		return
	}

	path2 := p.gif.Paths().Get(regs.Path2)
	path2.Execute(false, false)

	p.directOwed = !path2.Drained()
	p.ch.Stat.GatherWait = p.directOwed
}
