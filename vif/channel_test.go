package vif

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fifoemu/regs"
)

var _ = Describe("Channel", func() {
	var ch *Channel

	BeforeEach(func() {
		ch = NewChannel("VIF1")
	})

	It("should need a name", func() {
		Expect(func() { NewChannel("") }).To(Panic())
	})

	It("should clamp the queued count when a download starts", func() {
		ch.StartDownload(40)

		Expect(ch.Stat.Direction).To(Equal(regs.Download))
		Expect(ch.DownloadCount).To(Equal(uint32(40)))
		Expect(ch.Stat.QueuedCount).To(Equal(uint8(16)))
	})

	It("should return to upload when a download finishes", func() {
		ch.StartDownload(3)
		ch.FinishDownload()

		Expect(ch.Stat.Direction).To(Equal(regs.Upload))
		Expect(ch.Stat.QueuedCount).To(BeZero())
	})

	It("should not wrap QWC below zero", func() {
		ch.QWC = 1
		ch.ConsumeQuadword()
		ch.ConsumeQuadword()

		Expect(ch.QWC).To(BeZero())
	})
})
