package gif

import (
	"github.com/sarchlab/fifoemu/hooking"
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
)

// HookPosDeliver fires for every quadword the unit hands downstream. The
// hook item is a Delivery.
var HookPosDeliver = &hooking.HookPos{Name: "GIF Deliver"}

// A Delivery records one quadword leaving the unit.
type Delivery struct {
	Path regs.PathID
	Data qword.Quadword
}

// Downstream consumes what the unit delivers, typically the renderer.
type Downstream interface {
	Deliver(path regs.PathID, q qword.Quadword)
}

// Unlimited disables the accept budget of a Unit.
const Unlimited = -1

// Unit is a reference graphics-input unit. It implements Pipeline for the
// direct-memory path and owns the three paths. Path 1 and path 2 data is
// queued with Queue and sent when the path executes.
type Unit struct {
	hooking.HookableBase

	name       string
	stat       *regs.GIFStat
	downstream Downstream
	budget     int
	paths      [3]*unitPath
}

// Name returns the name of the unit.
func (u *Unit) Name() string {
	return u.name
}

// Paths returns the paths of the unit.
func (u *Unit) Paths() PathSet {
	return PathSet{u.paths[0], u.paths[1], u.paths[2]}
}

// Stat returns the status register the unit updates.
func (u *Unit) Stat() *regs.GIFStat {
	return u.stat
}

// SetAcceptBudget limits how many buffered quadwords the pipeline accepts
// before it stops accepting. Unlimited removes the limit.
func (u *Unit) SetAcceptBudget(n int) {
	u.budget = n
}

// AcceptBudget returns the remaining accept budget.
func (u *Unit) AcceptBudget() int {
	return u.budget
}

// Pending returns how many quadwords are queued on a path.
func (u *Unit) Pending(id regs.PathID) int {
	return len(u.Paths().Get(id).(*unitPath).pending)
}

// MaskPath3 sets or clears the path 3 mask.
func (u *Unit) MaskPath3(masked bool) {
	u.stat.Path3Masked = masked
}

// SetPathState overrides the state of a path.
func (u *Unit) SetPathState(id regs.PathID, s PathState) {
	u.paths[id-1].state = s
}

// Queue stores data for path 1 or path 2. It goes out when the path runs.
func (u *Unit) Queue(id regs.PathID, data ...qword.Quadword) {
	p := u.paths[id-1]
	p.pending = append(p.pending, data...)

	switch id {
	case regs.Path1:
		u.stat.Path1Queued = true
	case regs.Path2:
		u.stat.Path2Queued = true
	case regs.Path3:
		u.stat.Path3Queued = true
	}
}

func (u *Unit) path3Blocked() bool {
	return u.stat.Path3Masked || u.stat.Path3MaskedByReg || u.stat.Paused
}

func (u *Unit) pipelineFree(id regs.PathID) bool {
	return u.stat.ActivePath == regs.PathNone || u.stat.ActivePath == id
}

// DirectAllowed implements Pipeline.
func (u *Unit) DirectAllowed() bool {
	return !u.path3Blocked() && u.pipelineFree(regs.Path3)
}

// Accepting implements Pipeline.
func (u *Unit) Accepting() bool {
	return u.DirectAllowed() && u.budget != 0
}

// Forward implements Pipeline.
func (u *Unit) Forward(q qword.Quadword) {
	if u.budget > 0 {
		u.budget--
	}

	u.deliverPath3(q)
}

// SendPacket implements Pipeline.
func (u *Unit) SendPacket(q qword.Quadword) {
	u.deliverPath3(q)
}

func (u *Unit) deliverPath3(q qword.Quadword) {
	p := u.paths[regs.Path3-1]

	u.stat.ActivePath = regs.Path3
	u.stat.OutputActive = true
	p.state = Transferring

	u.deliver(regs.Path3, q)

	p.state = Idle
}

func (u *Unit) deliver(id regs.PathID, q qword.Quadword) {
	if u.downstream != nil {
		u.downstream.Deliver(id, q)
	}

	if u.NumHooks() > 0 {
		u.InvokeHook(hooking.HookCtx{
			Domain: u,
			Pos:    HookPosDeliver,
			Item:   Delivery{Path: id, Data: q},
		})
	}
}

func (u *Unit) execute(p *unitPath) {
	if !u.pipelineFree(p.id) {
		return
	}

	u.stat.ActivePath = p.id
	u.stat.OutputActive = true
	p.state = Transferring

	for _, q := range p.pending {
		u.deliver(p.id, q)
	}

	p.pending = nil
	p.state = Idle

	switch p.id {
	case regs.Path1:
		u.stat.Path1Queued = false
		u.stat.ReleasePath()
	case regs.Path2:
		u.stat.Path2Queued = false
	case regs.Path3:
		u.stat.Path3Queued = false
	}
}

type unitPath struct {
	unit    *Unit
	id      regs.PathID
	state   PathState
	pending []qword.Quadword
}

func (p *unitPath) ID() regs.PathID {
	return p.id
}

func (p *unitPath) State() PathState {
	return p.state
}

func (p *unitPath) SetState(s PathState) {
	p.state = s
}

func (p *unitPath) Drained() bool {
	return p.state.Drained() && len(p.pending) == 0
}

func (p *unitPath) Enabled() bool {
	if len(p.pending) == 0 {
		return false
	}

	return p.id != regs.Path3 || !p.unit.path3Blocked()
}

func (p *unitPath) Execute(_, _ bool) {
	p.unit.execute(p)
}
