// Package fifo implements the FIFO register handlers: the two vector-channel
// write ports, the vector-channel read port, and the graphics-input write
// port with its path arbitration.
//
// Every handler takes an explicit *Context that holds all the registers and
// collaborators it touches. Handlers are not safe for concurrent use; a
// single emulation thread drives them.
package fifo

import (
	"fmt"
	"log"

	"github.com/sarchlab/fifoemu/gif"
	"github.com/sarchlab/fifoemu/hooking"
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/queueing"
	"github.com/sarchlab/fifoemu/regs"
	"github.com/sarchlab/fifoemu/renderer"
	"github.com/sarchlab/fifoemu/vif"
)

// Handler names a FIFO register handler.
type Handler string

// The handlers.
const (
	HandlerVIF0Write Handler = "vif0.write"
	HandlerVIF1Write Handler = "vif1.write"
	HandlerVIF1Read  Handler = "vif1.read"
	HandlerGIFWrite  Handler = "gif.write"
	HandlerIPURead   Handler = "ipu.read"
	HandlerIPUWrite  Handler = "ipu.write"
)

// Hook positions of the handlers.
var (
	// HookPosWrite fires when a write handler receives a quadword. The item
	// is an Access.
	HookPosWrite = &hooking.HookPos{Name: "FIFO Write"}

	// HookPosRead fires when a read handler returns a quadword. The item is
	// an Access.
	HookPosRead = &hooking.HookPos{Name: "FIFO Read"}

	// HookPosAdvisory fires for debug advisories. The item is an Advisory.
	HookPosAdvisory = &hooking.HookPos{Name: "FIFO Advisory"}

	// HookPosFault fires when a handler raises a fault. The item is the
	// *Fault.
	HookPosFault = &hooking.HookPos{Name: "FIFO Fault"}

	// HookPosDispatch fires when the arbiter releases a path. The item is a
	// Dispatch.
	HookPosDispatch = &hooking.HookPos{Name: "FIFO Dispatch"}
)

// Access describes one quadword crossing a FIFO port.
type Access struct {
	Handler Handler
	Data    qword.Quadword
}

// Advisory is a non-fatal warning about caller misuse.
type Advisory struct {
	Handler Handler
	Message string
}

// Dispatch records an arbiter release and the path that ran after it.
type Dispatch struct {
	Handler    Handler
	Released   regs.PathID
	Dispatched regs.PathID
}

// Context is the emulation state shared by the handlers.
type Context struct {
	hooking.HookableBase

	name string

	VIF0 *vif.Channel
	VIF1 *vif.Channel

	GIFStat  *regs.GIFStat
	Paths    gif.PathSet
	Pipeline gif.Pipeline
	SoftFIFO *queueing.Buffer[qword.Quadword]

	Renderer renderer.Renderer

	// Logger receives advisories.
	Logger *log.Logger

	// Debug turns advisories on.
	Debug bool
}

// Name returns the name of the context.
func (ctx *Context) Name() string {
	return ctx.name
}

// Advise reports a non-fatal warning on behalf of h. It does nothing unless
// Debug is set.
func (ctx *Context) Advise(h Handler, format string, args ...any) {
	ctx.advise(h, format, args...)
}

func (ctx *Context) advise(h Handler, format string, args ...any) {
	if !ctx.Debug {
		return
	}

	msg := fmt.Sprintf(format, args...)
	ctx.Logger.Printf("%s: %s", h, msg)

	if ctx.NumHooks() > 0 {
		ctx.InvokeHook(hooking.HookCtx{
			Domain: ctx,
			Pos:    HookPosAdvisory,
			Item:   Advisory{Handler: h, Message: msg},
		})
	}
}

func (ctx *Context) fault(h Handler, err error, format string, args ...any) error {
	f := &Fault{
		Handler: h,
		Err:     err,
		Detail:  fmt.Sprintf(format, args...),
	}

	if ctx.NumHooks() > 0 {
		ctx.InvokeHook(hooking.HookCtx{
			Domain: ctx,
			Pos:    HookPosFault,
			Item:   f,
		})
	}

	return f
}

func (ctx *Context) access(pos *hooking.HookPos, h Handler, q qword.Quadword) {
	if ctx.NumHooks() == 0 {
		return
	}

	ctx.InvokeHook(hooking.HookCtx{
		Domain: ctx,
		Pos:    pos,
		Item:   Access{Handler: h, Data: q},
	})
}

// release frees the pipeline from path and runs the next eligible path.
func (ctx *Context) release(h Handler, path regs.PathID) {
	ctx.GIFStat.ReleasePath()

	next := gif.Dispatch(ctx.Paths, gif.ReleaseOrder)

	if ctx.NumHooks() > 0 {
		ctx.InvokeHook(hooking.HookCtx{
			Domain: ctx,
			Pos:    HookPosDispatch,
			Item: Dispatch{
				Handler:    h,
				Released:   path,
				Dispatched: next,
			},
		})
	}
}
