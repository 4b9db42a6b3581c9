package monitoring

import (
	"github.com/sarchlab/fifoemu/fifo"
	"github.com/sarchlab/fifoemu/gif"
	"github.com/sarchlab/fifoemu/mmio"
	"github.com/sarchlab/fifoemu/regs"
	"github.com/sarchlab/fifoemu/renderer"
	"github.com/sarchlab/fifoemu/vif"
)

// The serializer walks structs, slices and maps only, so the views below
// carry no arrays and no functions.

type busView struct {
	Name    string
	Context string
}

type channelView struct {
	Name          string
	Stat          regs.VIFStat
	QWC           uint32
	DownloadCount uint32
	IRQOffset     uint32
	StallEnabled  bool
}

type contextView struct {
	Name             string
	VIF0             channelView
	VIF1             channelView
	GIF              regs.GIFStat
	SoftFIFO         []string
	SoftFIFOCapacity int
	Debug            bool
}

type pathView struct {
	ID      regs.PathID
	State   string
	Pending int
	Drained bool
}

type unitView struct {
	Name         string
	Stat         regs.GIFStat
	AcceptBudget int
	Paths        []pathView
}

// workerView only holds what the renderer published at its last barrier.
// The rest of the worker belongs to the worker goroutine.
type workerView struct {
	Name       string
	Delivered  []uint64 // path 1 to path 3
	Downloaded uint64
	Underruns  uint64
	Syncs      uint64
}

// view returns what the monitor serializes for c. It must be called with
// the monitor lock held.
func view(c Named) any {
	switch c := c.(type) {
	case *mmio.Bus:
		return busView{Name: c.Name(), Context: c.Context().Name()}
	case *fifo.Context:
		return viewContext(c)
	case *gif.Unit:
		return viewUnit(c)
	case *renderer.Worker:
		return viewWorker(c)
	}

	return c
}

func viewChannel(ch *vif.Channel) channelView {
	return channelView{
		Name:          ch.Name(),
		Stat:          ch.Stat,
		QWC:           ch.QWC,
		DownloadCount: ch.DownloadCount,
		IRQOffset:     ch.IRQOffset,
		StallEnabled:  ch.StallEnabled,
	}
}

func viewContext(ctx *fifo.Context) contextView {
	v := contextView{
		Name:             ctx.Name(),
		VIF0:             viewChannel(ctx.VIF0),
		VIF1:             viewChannel(ctx.VIF1),
		GIF:              *ctx.GIFStat,
		SoftFIFO:         []string{},
		SoftFIFOCapacity: ctx.SoftFIFO.Capacity(),
		Debug:            ctx.Debug,
	}

	for _, q := range ctx.SoftFIFO.Elements() {
		v.SoftFIFO = append(v.SoftFIFO, q.String())
	}

	return v
}

func viewUnit(u *gif.Unit) unitView {
	v := unitView{
		Name:         u.Name(),
		Stat:         *u.Stat(),
		AcceptBudget: u.AcceptBudget(),
	}

	for _, id := range []regs.PathID{regs.Path1, regs.Path2, regs.Path3} {
		p := u.Paths().Get(id)
		v.Paths = append(v.Paths, pathView{
			ID:      id,
			State:   p.State().String(),
			Pending: u.Pending(id),
			Drained: p.Drained(),
		})
	}

	return v
}

func viewWorker(w *renderer.Worker) workerView {
	stats := w.Stats()

	return workerView{
		Name: w.Name(),
		Delivered: []uint64{
			stats.Delivered[regs.Path1],
			stats.Delivered[regs.Path2],
			stats.Delivered[regs.Path3],
		},
		Downloaded: stats.Downloaded,
		Underruns:  stats.Underruns,
		Syncs:      stats.Syncs,
	}
}
