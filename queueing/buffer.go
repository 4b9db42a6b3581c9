// Package queueing provides the bounded, ordered software FIFO that backs the
// direct-memory graphics input path.
package queueing

import (
	"errors"

	"github.com/sarchlab/fifoemu/hooking"
)

// DefaultCapacity matches the width of the queued-count field of the status
// registers, which can report at most 16 resident quadwords.
const DefaultCapacity = 16

// ErrBufferFull is returned when pushing into a buffer that has no room.
var ErrBufferFull = errors.New("buffer full")

// HookPosBufPush marks when an element is pushed into the buffer.
var HookPosBufPush = &hooking.HookPos{Name: "Buffer Push"}

// HookPosBufPop marks when an element leaves the buffer.
var HookPosBufPop = &hooking.HookPos{Name: "Buffer Pop"}

// A Sink receives elements drained from a buffer.
type Sink[T any] interface {
	// Accepting tells whether the sink takes another element right now.
	Accepting() bool

	// Forward hands one element to the sink.
	Forward(e T)
}

// A Buffer is a fifo queue with a fixed capacity.
type Buffer[T any] struct {
	hooking.HookableBase

	name     string
	capacity int
	elements []T
}

// NewBuffer creates a buffer. Capacity must be positive.
func NewBuffer[T any](name string, capacity int) *Buffer[T] {
	if name == "" {
		panic("buffer name must not be empty")
	}

	if capacity <= 0 {
		panic("buffer capacity must be positive")
	}

	return &Buffer[T]{
		name:     name,
		capacity: capacity,
		elements: make([]T, 0, capacity),
	}
}

// Name returns the name of the buffer.
func (b *Buffer[T]) Name() string {
	return b.name
}

// CanPush tells if there is room for another element.
func (b *Buffer[T]) CanPush() bool {
	return len(b.elements) < b.capacity
}

// Push appends e at the tail.
func (b *Buffer[T]) Push(e T) error {
	if len(b.elements) >= b.capacity {
		return ErrBufferFull
	}

	b.elements = append(b.elements, e)

	if b.NumHooks() > 0 {
		b.InvokeHook(hooking.HookCtx{
			Domain: b,
			Pos:    HookPosBufPush,
			Item:   e,
		})
	}

	return nil
}

// Pop removes and returns the head. The second result is false when the
// buffer is empty.
func (b *Buffer[T]) Pop() (T, bool) {
	var zero T

	if len(b.elements) == 0 {
		return zero, false
	}

	e := b.elements[0]
	b.elements[0] = zero
	b.elements = b.elements[1:]

	if len(b.elements) == 0 {
		b.elements = make([]T, 0, b.capacity)
	}

	if b.NumHooks() > 0 {
		b.InvokeHook(hooking.HookCtx{
			Domain: b,
			Pos:    HookPosBufPop,
			Item:   e,
		})
	}

	return e, true
}

// Peek returns the head without removing it.
func (b *Buffer[T]) Peek() (T, bool) {
	if len(b.elements) == 0 {
		var zero T
		return zero, false
	}

	return b.elements[0], true
}

// Drain forwards elements oldest-first while the sink accepts them and
// returns how many were forwarded. Elements the sink refuses stay in order
// for the next drain.
func (b *Buffer[T]) Drain(sink Sink[T]) int {
	n := 0

	for len(b.elements) > 0 && sink.Accepting() {
		e, _ := b.Pop()
		sink.Forward(e)
		n++
	}

	return n
}

// Elements returns a copy of the buffered elements, oldest first.
func (b *Buffer[T]) Elements() []T {
	out := make([]T, len(b.elements))
	copy(out, b.elements)

	return out
}

// Capacity returns the maximum number of elements.
func (b *Buffer[T]) Capacity() int {
	return b.capacity
}

// Size returns the number of buffered elements.
func (b *Buffer[T]) Size() int {
	return len(b.elements)
}

// Clear drops every element.
func (b *Buffer[T]) Clear() {
	b.elements = make([]T, 0, b.capacity)
}
