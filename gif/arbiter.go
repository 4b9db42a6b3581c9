package gif

import "github.com/sarchlab/fifoemu/regs"

// ReleaseOrder is the priority order used when the pipeline is released by
// path 2 or path 3. Path 2 is never restarted by a FIFO write.
var ReleaseOrder = []regs.PathID{regs.Path1, regs.Path3}

// Dispatch executes the first path in order that is both state-eligible and
// enabled. The call returns after the chosen path finished executing. It
// reports which path ran, or PathNone.
func Dispatch(paths PathSet, order []regs.PathID) regs.PathID {
	for _, id := range order {
		p := paths.Get(id)
		if !p.State().Eligible() || !p.Enabled() {
			continue
		}

		p.Execute(false, true)

		return id
	}

	return regs.PathNone
}
