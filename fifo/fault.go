package fifo

import (
	"errors"
	"fmt"
)

// Invariant faults. Each one is a condition the hardware guarantees never to
// produce during correct operation; there is no local recovery.
var (
	// ErrEmptyFIFORead is raised when a FIFO read finds no queued quadword.
	ErrEmptyFIFORead = errors.New("queued count is zero on FIFO read")

	// ErrTransferRejected is raised when a command processor stalls on a
	// FIFO write. Resuming a stalled FIFO write is not implemented.
	ErrTransferRejected = errors.New("command processor rejected transfer")

	// ErrBufferOverflow is raised when the software FIFO has no room for a
	// quadword that routing sent to it.
	ErrBufferOverflow = errors.New("software FIFO overflow")
)

// A Fault is an invariant fault raised by a handler.
type Fault struct {
	Handler Handler
	Err     error
	Detail  string
}

func (f *Fault) Error() string {
	if f.Detail == "" {
		return fmt.Sprintf("%s: %v", f.Handler, f.Err)
	}

	return fmt.Sprintf("%s: %v (%s)", f.Handler, f.Err, f.Detail)
}

// Unwrap returns the sentinel error of the fault.
func (f *Fault) Unwrap() error {
	return f.Err
}

// AsFault extracts a Fault from err.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	ok := errors.As(err, &f)

	return f, ok
}
