// Package mmio decodes accesses to the memory-mapped FIFO ports and status
// registers and routes them to the FIFO handlers.
package mmio

import (
	"errors"
	"fmt"

	"github.com/sarchlab/fifoemu/fifo"
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
)

var (
	// ErrUnmapped is returned for addresses outside every window.
	ErrUnmapped = errors.New("address is not mapped")

	// ErrNotReadable is returned for reads of a write-only port.
	ErrNotReadable = errors.New("port is not readable")

	// ErrNotWritable is returned for writes to a read-only port.
	ErrNotWritable = errors.New("port is not writable")
)

// IPU is the image-processing unit behind the IPU window.
type IPU interface {
	ReadOutFIFO(out *qword.Quadword)
	WriteInFIFO(q qword.Quadword)
}

// Bus routes quadword accesses by address.
type Bus struct {
	name       string
	ctx        *fifo.Context
	ipu        IPU
	supervisor Supervisor
}

// Name returns the name of the bus.
func (b *Bus) Name() string {
	return b.name
}

// Context returns the handler context behind the bus.
func (b *Bus) Context() *fifo.Context {
	return b.ctx
}

// WriteQuadword writes q to the FIFO port at addr. Faults raised by the
// handler go to the supervisor; only decode errors are returned.
func (b *Bus) WriteQuadword(addr uint32, q qword.Quadword) error {
	var err error

	switch Decode(addr) {
	case WindowVIF0:
		err = fifo.WriteVIF0(b.ctx, q)
	case WindowVIF1:
		err = fifo.WriteVIF1(b.ctx, q)
	case WindowGIF:
		err = fifo.WriteGIF(b.ctx, q)
	case WindowIPU:
		return b.writeIPU(addr, q)
	default:
		return fmt.Errorf("write 0x%08X: %w", addr, ErrUnmapped)
	}

	return b.supervise(err)
}

// ReadQuadword reads the FIFO port at addr into out.
func (b *Bus) ReadQuadword(addr uint32, out *qword.Quadword) error {
	switch Decode(addr) {
	case WindowVIF1:
		return b.supervise(fifo.ReadVIF1(b.ctx, out))
	case WindowIPU:
		return b.readIPU(addr, out)
	case WindowVIF0, WindowGIF:
		return fmt.Errorf("read 0x%08X: %w", addr, ErrNotReadable)
	default:
		return fmt.Errorf("read 0x%08X: %w", addr, ErrUnmapped)
	}
}

// ReadStat returns the raw value of the status register at addr.
func (b *Bus) ReadStat(addr uint32) (uint32, error) {
	var (
		raw uint32
		err error
	)

	switch addr {
	case VIF0Stat:
		raw, err = b.ctx.VIF0.Stat.EncodeFor(regs.VIF0)
	case VIF1Stat:
		raw, err = b.ctx.VIF1.Stat.Encode()
	case GIFStat:
		raw, err = b.ctx.GIFStat.Encode()
	default:
		return 0, fmt.Errorf("stat 0x%08X: %w", addr, ErrUnmapped)
	}

	if err != nil {
		return 0, fmt.Errorf("stat 0x%08X: %w", addr, err)
	}

	return raw, nil
}

func (b *Bus) writeIPU(addr uint32, q qword.Quadword) error {
	if !isIPUIn(addr) {
		return fmt.Errorf("write 0x%08X: %w", addr, ErrNotWritable)
	}

	if b.ipu == nil {
		b.ctx.Advise(fifo.HandlerIPUWrite, "no IPU, dropping %s", q)
		return nil
	}

	b.ipu.WriteInFIFO(q)

	return nil
}

func (b *Bus) readIPU(addr uint32, out *qword.Quadword) error {
	if isIPUIn(addr) {
		return fmt.Errorf("read 0x%08X: %w", addr, ErrNotReadable)
	}

	out.Zero()

	if b.ipu != nil {
		b.ipu.ReadOutFIFO(out)
	}

	return nil
}

func (b *Bus) supervise(err error) error {
	if err == nil {
		return nil
	}

	if f, ok := fifo.AsFault(err); ok {
		b.supervisor.HandleFault(f)
		return nil
	}

	return err
}
