package mmio

import (
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/fifoemu/fifo"
	"github.com/sarchlab/fifoemu/gif"
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
	"github.com/sarchlab/fifoemu/renderer"
)

type recordingProcessor struct {
	words [][4]uint32
}

func (p *recordingProcessor) Transfer(w [4]uint32) bool {
	p.words = append(p.words, w)
	return true
}

func (p *recordingProcessor) ActiveCommand() bool { return false }

func (p *recordingProcessor) CommandDone() bool { return false }

var _ = DescribeTable("Decode",
	func(addr uint32, want Window) {
		Expect(Decode(addr)).To(Equal(want))
	},
	Entry("VIF0 base", VIF0FIFO, WindowVIF0),
	Entry("VIF0 alias", uint32(0x10004FF0), WindowVIF0),
	Entry("VIF1 base", VIF1FIFO, WindowVIF1),
	Entry("GIF alias", uint32(0x10006010), WindowGIF),
	Entry("IPU out", IPUOut, WindowIPU),
	Entry("IPU in", IPUIn, WindowIPU),
	Entry("STAT page", VIF0Stat, WindowNone),
	Entry("other segment", uint32(0x12004000), WindowNone),
)

var _ = Describe("Bus", func() {
	var (
		mockCtrl   *gomock.Controller
		supervisor *MockSupervisor
		ipu        *MockIPU
		unit       *gif.Unit
		vif0, vif1 *recordingProcessor
		ctx        *fifo.Context
		bus        *Bus
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		supervisor = NewMockSupervisor(mockCtrl)
		ipu = NewMockIPU(mockCtrl)

		unit = gif.MakeBuilder().Build("GIF")
		vif0 = &recordingProcessor{}
		vif1 = &recordingProcessor{}
		ctx = fifo.MakeBuilder().
			WithUnit(unit).
			WithRenderer(renderer.MakeBuilder().Build("GS")).
			WithVIF0Processor(vif0).
			WithVIF1Processor(vif1).
			WithLogger(log.New(GinkgoWriter, "", 0)).
			Build("FIFO")

		bus = MakeBuilder().
			WithContext(ctx).
			WithIPU(ipu).
			WithSupervisor(supervisor).
			Build("Bus")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should route VIF writes to their channel", func() {
		Expect(bus.WriteQuadword(0x10004010, qword.Quadword{1})).To(Succeed())
		Expect(bus.WriteQuadword(0x10005000, qword.Quadword{2})).To(Succeed())

		Expect(vif0.words).To(Equal([][4]uint32{{1, 0, 0, 0}}))
		Expect(vif1.words).To(Equal([][4]uint32{{2, 0, 0, 0}}))
	})

	It("should route GIF writes to the pipeline", func() {
		Expect(bus.WriteQuadword(GIFFIFO, qword.Quadword{3})).To(Succeed())

		Expect(ctx.GIFStat.ActivePath).To(Equal(regs.PathNone))
		Expect(ctx.SoftFIFO.Size()).To(BeZero())
	})

	It("should hand faults to the supervisor", func() {
		supervisor.EXPECT().HandleFault(gomock.Any()).
			Do(func(f *fifo.Fault) {
				Expect(f.Handler).To(Equal(fifo.HandlerVIF1Read))
				Expect(f).To(MatchError(fifo.ErrEmptyFIFORead))
			})

		var out qword.Quadword
		Expect(bus.ReadQuadword(VIF1FIFO, &out)).To(Succeed())
	})

	It("should refuse reads of write-only ports", func() {
		var out qword.Quadword

		Expect(bus.ReadQuadword(VIF0FIFO, &out)).To(MatchError(ErrNotReadable))
		Expect(bus.ReadQuadword(GIFFIFO, &out)).To(MatchError(ErrNotReadable))
		Expect(bus.ReadQuadword(IPUIn, &out)).To(MatchError(ErrNotReadable))
	})

	It("should refuse unmapped addresses", func() {
		var out qword.Quadword

		Expect(bus.WriteQuadword(0x10008000, out)).To(MatchError(ErrUnmapped))
		Expect(bus.ReadQuadword(0x1000F000, &out)).To(MatchError(ErrUnmapped))
	})

	It("should route the IPU window by bit 4", func() {
		q := qword.Quadword{7, 7}
		ipu.EXPECT().WriteInFIFO(q)
		ipu.EXPECT().ReadOutFIFO(gomock.Any()).
			Do(func(out *qword.Quadword) { *out = q })

		Expect(bus.WriteQuadword(0x10007F10, q)).To(Succeed())
		Expect(bus.WriteQuadword(IPUOut, q)).To(MatchError(ErrNotWritable))

		var out qword.Quadword
		Expect(bus.ReadQuadword(0x10007020, &out)).To(Succeed())
		Expect(out).To(Equal(q))
	})

	It("should read zeros from a missing IPU", func() {
		bus = MakeBuilder().WithContext(ctx).Build("Bus")
		out := qword.Quadword{1, 2, 3, 4}

		Expect(bus.ReadQuadword(IPUOut, &out)).To(Succeed())
		Expect(out.IsZero()).To(BeTrue())
		Expect(bus.WriteQuadword(IPUIn, out)).To(Succeed())
	})

	It("should read encoded status registers", func() {
		ctx.VIF1.StartDownload(20)
		ctx.GIFStat.ActivePath = regs.Path2

		raw, err := bus.ReadStat(VIF1Stat)
		Expect(err).NotTo(HaveOccurred())
		Expect(regs.DecodeVIFStat(raw)).To(Equal(ctx.VIF1.Stat))

		raw, err = bus.ReadStat(GIFStat)
		Expect(err).NotTo(HaveOccurred())
		Expect(regs.DecodeGIFStat(raw)).To(Equal(*ctx.GIFStat))

		raw, err = bus.ReadStat(VIF0Stat)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(BeZero())

		_, err = bus.ReadStat(0x10003000)
		Expect(err).To(MatchError(ErrUnmapped))
	})

	It("should report a status register that cannot be encoded", func() {
		ctx.VIF0.Stat.Progress = regs.Progress(2)

		_, err := bus.ReadStat(VIF0Stat)
		Expect(err).To(MatchError(regs.ErrInvalidEncoding))
	})

	It("should encode VIF0 status with a four-bit queued count", func() {
		ctx.VIF0.Stat.QueuedCount = 15

		raw, err := bus.ReadStat(VIF0Stat)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(Equal(uint32(15 << 24)))

		ctx.VIF0.Stat.QueuedCount = 16

		_, err = bus.ReadStat(VIF0Stat)
		Expect(err).To(MatchError(regs.ErrInvalidEncoding))
	})

	It("should keep faults in a recording supervisor", func() {
		rec := &RecordingSupervisor{}
		bus = MakeBuilder().WithContext(ctx).WithSupervisor(rec).Build("Bus")

		var out qword.Quadword
		Expect(bus.ReadQuadword(VIF1FIFO, &out)).To(Succeed())
		Expect(bus.ReadQuadword(VIF1FIFO, &out)).To(Succeed())

		Expect(rec.Faults).To(HaveLen(2))
	})
})
