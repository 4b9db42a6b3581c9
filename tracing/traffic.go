// Package tracing records what crosses the FIFO ports.
package tracing

import (
	"fmt"

	"github.com/rs/xid"

	"github.com/sarchlab/fifoemu/datarecording"
	"github.com/sarchlab/fifoemu/fifo"
	"github.com/sarchlab/fifoemu/gif"
	"github.com/sarchlab/fifoemu/hooking"
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/queueing"
)

// EventTable is the table the traffic tracer writes to.
const EventTable = "fifo_events"

// Event kinds.
const (
	KindWrite    = "write"
	KindRead     = "read"
	KindAdvisory = "advisory"
	KindFault    = "fault"
	KindDispatch = "dispatch"
	KindDeliver  = "deliver"
	KindPush     = "push"
	KindPop      = "pop"
)

// Event is one row of the event table.
type Event struct {
	ID      string
	Seq     uint64
	Domain  string
	Kind    string
	Handler string
	Path    uint8
	Data    string
	Digest  uint8
	Message string
}

// NamedHookable is a component the tracer can attach to.
type NamedHookable interface {
	Name() string
	hooking.Hookable
}

// TrafficTracer is a hook that writes every FIFO event to a recorder.
type TrafficTracer struct {
	recorder datarecording.Recorder
	seq      uint64
	counts   map[string]uint64
	err      error
}

// NewTrafficTracer creates the event table and returns a tracer writing to
// it.
func NewTrafficTracer(r datarecording.Recorder) (*TrafficTracer, error) {
	if err := r.CreateTable(EventTable, Event{}); err != nil {
		return nil, err
	}

	t := &TrafficTracer{
		recorder: r,
		counts:   make(map[string]uint64),
	}

	return t, nil
}

// Attach registers the tracer on each domain.
func (t *TrafficTracer) Attach(domains ...NamedHookable) {
	for _, d := range domains {
		d.AcceptHook(t)
	}
}

// Counts returns how many events of each kind were seen.
func (t *TrafficTracer) Counts() map[string]uint64 {
	counts := make(map[string]uint64, len(t.counts))
	for k, v := range t.counts {
		counts[k] = v
	}

	return counts
}

// Err returns the first error the recorder reported.
func (t *TrafficTracer) Err() error {
	return t.err
}

// Func implements hooking.Hook.
func (t *TrafficTracer) Func(ctx hooking.HookCtx) {
	e, ok := t.event(ctx)
	if !ok {
		return
	}

	t.seq++
	e.ID = xid.New().String()
	e.Seq = t.seq

	if named, ok := ctx.Domain.(interface{ Name() string }); ok {
		e.Domain = named.Name()
	}

	t.counts[e.Kind]++

	if err := t.recorder.Insert(EventTable, e); err != nil && t.err == nil {
		t.err = err
	}
}

func (t *TrafficTracer) event(ctx hooking.HookCtx) (Event, bool) {
	switch item := ctx.Item.(type) {
	case fifo.Access:
		kind := KindWrite
		if ctx.Pos == fifo.HookPosRead {
			kind = KindRead
		}

		return withData(Event{Kind: kind, Handler: string(item.Handler)},
			item.Data), true
	case fifo.Advisory:
		return Event{
			Kind:    KindAdvisory,
			Handler: string(item.Handler),
			Message: item.Message,
		}, true
	case *fifo.Fault:
		return Event{
			Kind:    KindFault,
			Handler: string(item.Handler),
			Message: item.Error(),
		}, true
	case fifo.Dispatch:
		return Event{
			Kind:    KindDispatch,
			Handler: string(item.Handler),
			Path:    uint8(item.Dispatched),
			Message: fmt.Sprintf("released %s", item.Released),
		}, true
	case gif.Delivery:
		return withData(Event{Kind: KindDeliver, Path: uint8(item.Path)},
			item.Data), true
	case qword.Quadword:
		switch ctx.Pos {
		case queueing.HookPosBufPush:
			return withData(Event{Kind: KindPush}, item), true
		case queueing.HookPosBufPop:
			return withData(Event{Kind: KindPop}, item), true
		}
	}

	return Event{}, false
}

func withData(e Event, q qword.Quadword) Event {
	e.Data = q.String()
	e.Digest = q.Digest()

	return e
}
