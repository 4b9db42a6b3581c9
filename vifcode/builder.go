package vifcode

import "github.com/sarchlab/fifoemu/vif"

// Microprogram memory sizes, in 64-bit units.
const (
	VIF0MicroMem = 512
	VIF1MicroMem = 2048
)

// A Builder can build command processors.
type Builder struct {
	gif  GIF
	vif1 bool
}

// MakeBuilder creates a builder for a VIF0 processor.
func MakeBuilder() Builder {
	return Builder{}
}

// WithGIF makes the processor a VIF1 processor that sends DIRECT data to g.
func (b Builder) WithGIF(g GIF) Builder {
	b.gif = g
	b.vif1 = true

	return b
}

// Build creates a processor and installs it on ch.
func (b Builder) Build(ch *vif.Channel) *Processor {
	if ch == nil {
		panic("channel must not be nil")
	}

	size := VIF0MicroMem
	if b.vif1 {
		size = VIF1MicroMem
	}

	p := &Processor{
		ch:       ch,
		gif:      b.gif,
		vif1:     b.vif1,
		MicroMem: make([]uint64, size),
	}

	ch.Processor = p

	return p
}
