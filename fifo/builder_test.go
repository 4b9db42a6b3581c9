package fifo

import (
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fifoemu/gif"
	"github.com/sarchlab/fifoemu/renderer"
)

var _ = ginkgo.Describe("Builder", func() {
	ginkgo.It("should require a renderer", func() {
		unit := gif.MakeBuilder().Build("GIF")

		Expect(func() {
			MakeBuilder().WithUnit(unit).Build("FIFO")
		}).To(PanicWith("renderer is not set"))
	})

	ginkgo.It("should require a pipeline", func() {
		unit := gif.MakeBuilder().Build("GIF")

		Expect(func() {
			MakeBuilder().
				WithPaths(unit.Paths()).
				WithRenderer(renderer.MakeBuilder().Build("GS")).
				Build("FIFO")
		}).To(PanicWith("pipeline is not set"))
	})

	ginkgo.It("should build with a unit and a renderer", func() {
		unit := gif.MakeBuilder().Build("GIF")
		ctx := MakeBuilder().
			WithUnit(unit).
			WithRenderer(renderer.MakeBuilder().Build("GS")).
			Build("FIFO")

		Expect(ctx.Pipeline).To(BeIdenticalTo(unit))
		Expect(ctx.GIFStat).To(BeIdenticalTo(unit.Stat()))
		Expect(ctx.SoftFIFO.Capacity()).To(Equal(16))
	})
})
