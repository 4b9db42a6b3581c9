package renderer

// DefaultRingSize is the number of packets the ring holds before a producer
// blocks.
const DefaultRingSize = 1024

// A Builder can build renderer workers.
type Builder struct {
	ringSize int
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{ringSize: DefaultRingSize}
}

// WithRingSize sets the ring capacity. Zero makes every post a rendezvous
// with the worker.
func (b Builder) WithRingSize(n int) Builder {
	b.ringSize = n
	return b
}

// Build creates a worker. The worker does not run until Start is called.
func (b Builder) Build(name string) *Worker {
	if name == "" {
		panic("renderer name must not be empty")
	}

	if b.ringSize < 0 {
		panic("ring size must not be negative")
	}

	return &Worker{
		name: name,
		ring: make(chan packet, b.ringSize),
		done: make(chan struct{}),
	}
}
