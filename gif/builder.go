package gif

import "github.com/sarchlab/fifoemu/regs"

// A Builder can build graphics-input units.
type Builder struct {
	stat       *regs.GIFStat
	downstream Downstream
	budget     int
}

// MakeBuilder creates a builder with an unlimited accept budget.
func MakeBuilder() Builder {
	return Builder{budget: Unlimited}
}

// WithStat sets the status register the unit updates. Without it the unit
// owns a fresh register.
func (b Builder) WithStat(stat *regs.GIFStat) Builder {
	b.stat = stat
	return b
}

// WithDownstream sets where delivered quadwords go.
func (b Builder) WithDownstream(d Downstream) Builder {
	b.downstream = d
	return b
}

// WithAcceptBudget sets the initial accept budget.
func (b Builder) WithAcceptBudget(n int) Builder {
	b.budget = n
	return b
}

// Build creates the unit.
func (b Builder) Build(name string) *Unit {
	if name == "" {
		panic("unit name must not be empty")
	}

	stat := b.stat
	if stat == nil {
		stat = &regs.GIFStat{}
	}

	u := &Unit{
		name:       name,
		stat:       stat,
		downstream: b.downstream,
		budget:     b.budget,
	}

	for i := range u.paths {
		u.paths[i] = &unitPath{
			unit: u,
			id:   regs.PathID(i + 1),
		}
	}

	return u
}
