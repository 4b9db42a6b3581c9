package mmio

import (
	"github.com/sarchlab/fifoemu/fifo"
)

// A Builder can build buses.
type Builder struct {
	ctx        *fifo.Context
	ipu        IPU
	supervisor Supervisor
}

// MakeBuilder creates a builder. Without a supervisor, the bus aborts on
// the first fault.
func MakeBuilder() Builder {
	return Builder{}
}

// WithContext sets the handler context the bus routes to.
func (b Builder) WithContext(ctx *fifo.Context) Builder {
	b.ctx = ctx
	return b
}

// WithIPU sets the unit behind the IPU window.
func (b Builder) WithIPU(ipu IPU) Builder {
	b.ipu = ipu
	return b
}

// WithSupervisor sets who handles faults.
func (b Builder) WithSupervisor(s Supervisor) Builder {
	b.supervisor = s
	return b
}

// Build creates the bus.
func (b Builder) Build(name string) *Bus {
	if name == "" {
		panic("bus name must not be empty")
	}

	if b.ctx == nil {
		panic("handler context is not set")
	}

	bus := &Bus{
		name:       name,
		ctx:        b.ctx,
		ipu:        b.ipu,
		supervisor: b.supervisor,
	}

	if bus.supervisor == nil {
		bus.supervisor = AbortSupervisor{Logger: b.ctx.Logger}
	}

	return bus
}
