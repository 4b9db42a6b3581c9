package mmio

import (
	"log"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/fifoemu/fifo"
)

// A Supervisor decides what happens after a handler raises a fault.
type Supervisor interface {
	HandleFault(f *fifo.Fault)
}

// AbortSupervisor logs the fault and terminates the process. Functions
// registered with atexit still run, so recorders get to flush.
type AbortSupervisor struct {
	Logger *log.Logger
}

// HandleFault implements Supervisor.
func (s AbortSupervisor) HandleFault(f *fifo.Fault) {
	l := s.Logger
	if l == nil {
		l = log.Default()
	}

	l.Printf("fatal FIFO fault: %v", f)
	atexit.Exit(1)
}

// RecordingSupervisor keeps faults and lets emulation continue.
type RecordingSupervisor struct {
	Faults []*fifo.Fault
}

// HandleFault implements Supervisor.
func (s *RecordingSupervisor) HandleFault(f *fifo.Fault) {
	s.Faults = append(s.Faults, f)
}
