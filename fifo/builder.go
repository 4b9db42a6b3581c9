package fifo

import (
	"log"

	"github.com/sarchlab/fifoemu/gif"
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/queueing"
	"github.com/sarchlab/fifoemu/regs"
	"github.com/sarchlab/fifoemu/renderer"
	"github.com/sarchlab/fifoemu/vif"
)

// A Builder can build handler contexts.
type Builder struct {
	vif0, vif1       *vif.Channel
	vif0Proc         vif.CommandProcessor
	vif1Proc         vif.CommandProcessor
	gifStat          *regs.GIFStat
	paths            gif.PathSet
	pipeline         gif.Pipeline
	renderer         renderer.Renderer
	logger           *log.Logger
	debug            bool
	softFIFOCapacity int
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		softFIFOCapacity: queueing.DefaultCapacity,
	}
}

// WithVIF0 uses an existing channel as VIF0.
func (b Builder) WithVIF0(ch *vif.Channel) Builder {
	b.vif0 = ch
	return b
}

// WithVIF1 uses an existing channel as VIF1.
func (b Builder) WithVIF1(ch *vif.Channel) Builder {
	b.vif1 = ch
	return b
}

// WithVIF0Processor sets the command processor of VIF0.
func (b Builder) WithVIF0Processor(p vif.CommandProcessor) Builder {
	b.vif0Proc = p
	return b
}

// WithVIF1Processor sets the command processor of VIF1.
func (b Builder) WithVIF1Processor(p vif.CommandProcessor) Builder {
	b.vif1Proc = p
	return b
}

// WithGIFStat sets the arbiter status register.
func (b Builder) WithGIFStat(stat *regs.GIFStat) Builder {
	b.gifStat = stat
	return b
}

// WithPaths sets the three graphics-input paths.
func (b Builder) WithPaths(paths gif.PathSet) Builder {
	b.paths = paths
	return b
}

// WithPipeline sets the pipeline path 3 data enters through.
func (b Builder) WithPipeline(p gif.Pipeline) Builder {
	b.pipeline = p
	return b
}

// WithUnit wires a reference graphics-input unit as pipeline, paths and
// status register.
func (b Builder) WithUnit(u *gif.Unit) Builder {
	b.pipeline = u
	b.paths = u.Paths()
	b.gifStat = u.Stat()

	return b
}

// WithRenderer sets the renderer the read handler synchronizes with.
func (b Builder) WithRenderer(r renderer.Renderer) Builder {
	b.renderer = r
	return b
}

// WithLogger sets where advisories are written.
func (b Builder) WithLogger(l *log.Logger) Builder {
	b.logger = l
	return b
}

// WithDebug turns advisories on or off.
func (b Builder) WithDebug(debug bool) Builder {
	b.debug = debug
	return b
}

// WithSoftFIFOCapacity overrides the capacity of the software FIFO.
func (b Builder) WithSoftFIFOCapacity(n int) Builder {
	b.softFIFOCapacity = n
	return b
}

// Build creates the context. The paths, the pipeline and the renderer
// must be set.
func (b Builder) Build(name string) *Context {
	if name == "" {
		panic("context name must not be empty")
	}

	b.pathsMustBeComplete()

	if b.pipeline == nil {
		panic("pipeline is not set")
	}

	if b.renderer == nil {
		panic("renderer is not set")
	}

	ctx := &Context{
		name:     name,
		VIF0:     b.vif0,
		VIF1:     b.vif1,
		GIFStat:  b.gifStat,
		Paths:    b.paths,
		Pipeline: b.pipeline,
		Renderer: b.renderer,
		Logger:   b.logger,
		Debug:    b.debug,
		SoftFIFO: queueing.NewBuffer[qword.Quadword](
			name+".SoftFIFO", b.softFIFOCapacity),
	}

	if ctx.VIF0 == nil {
		ctx.VIF0 = vif.NewChannel(name + ".VIF0")
	}

	if ctx.VIF1 == nil {
		ctx.VIF1 = vif.NewChannel(name + ".VIF1")
	}

	if b.vif0Proc != nil {
		ctx.VIF0.Processor = b.vif0Proc
	}

	if b.vif1Proc != nil {
		ctx.VIF1.Processor = b.vif1Proc
	}

	if ctx.GIFStat == nil {
		ctx.GIFStat = &regs.GIFStat{}
	}

	if ctx.Logger == nil {
		ctx.Logger = log.Default()
	}

	return ctx
}

func (b Builder) pathsMustBeComplete() {
	for i, p := range b.paths {
		if p == nil {
			log.Panicf("path %d is not set", i+1)
		}

		if p.ID() != regs.PathID(i+1) {
			log.Panicf("path in slot %d reports id %d", i+1, p.ID())
		}
	}
}
