package monitoring

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fifoemu/fifo"
	"github.com/sarchlab/fifoemu/gif"
	"github.com/sarchlab/fifoemu/mmio"
	"github.com/sarchlab/fifoemu/qword"
	"github.com/sarchlab/fifoemu/regs"
	"github.com/sarchlab/fifoemu/renderer"
)

type sampleBuffer struct {
	name      string
	size, cap int
}

func (b sampleBuffer) Name() string  { return b.name }
func (b sampleBuffer) Size() int     { return b.size }
func (b sampleBuffer) Capacity() int { return b.cap }

type sampleComponent struct {
	name  string
	Level int
}

func (c *sampleComponent) Name() string { return c.name }

var _ = Describe("Monitor", func() {
	var (
		m   *Monitor
		ctx *fifo.Context
		bus *mmio.Bus
	)

	get := func(url string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, url, nil)
		m.Handler().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		ctx = fifo.MakeBuilder().
			WithUnit(gif.MakeBuilder().Build("GIF")).
			WithRenderer(renderer.MakeBuilder().Build("GS")).
			WithLogger(log.New(GinkgoWriter, "", 0)).
			Build("FIFO")
		bus = mmio.MakeBuilder().
			WithContext(ctx).
			WithSupervisor(&mmio.RecordingSupervisor{}).
			Build("Bus")

		m = NewMonitor()
		m.RegisterBus(bus)
	})

	It("should report the status registers", func() {
		ctx.VIF1.StartDownload(3)
		ctx.GIFStat.ActivePath = regs.Path1

		rec := get("/api/registers")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp []struct {
			Name string `json:"name"`
			Addr uint32 `json:"addr"`
			Raw  uint32 `json:"raw"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(HaveLen(3))

		vif1Raw, _ := bus.ReadStat(mmio.VIF1Stat)
		gifRaw, _ := bus.ReadStat(mmio.GIFStat)

		Expect(rsp[0].Name).To(Equal("VIF0_STAT"))
		Expect(rsp[0].Raw).To(BeZero())
		Expect(rsp[1].Addr).To(Equal(mmio.VIF1Stat))
		Expect(rsp[1].Raw).To(Equal(vif1Raw))
		Expect(rsp[2].Raw).To(Equal(gifRaw))
	})

	It("should list components", func() {
		rec := get("/api/list_components")

		var names []string
		Expect(json.Unmarshal(rec.Body.Bytes(), &names)).To(Succeed())
		Expect(names).To(Equal([]string{"Bus", "FIFO"}))
	})

	It("should serialize a component", func() {
		m.RegisterComponent(&sampleComponent{name: "Sample", Level: 3})

		rec := get("/api/component/Sample")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	Context("with the emulation components", func() {
		var (
			worker *renderer.Worker
			unit   *gif.Unit
		)

		BeforeEach(func() {
			worker = renderer.MakeBuilder().Build("Renderer")
			worker.Start()

			unit = gif.MakeBuilder().WithDownstream(worker).Build("GIF")
			ctx = fifo.MakeBuilder().
				WithUnit(unit).
				WithRenderer(worker).
				WithLogger(log.New(GinkgoWriter, "", 0)).
				Build("FIFO")
			bus = mmio.MakeBuilder().
				WithContext(ctx).
				WithSupervisor(&mmio.RecordingSupervisor{}).
				Build("Bus")

			m = NewMonitor()
			m.RegisterBus(bus)
			m.RegisterComponent(unit)
			m.RegisterComponent(worker)

			unit.MaskPath3(true)
			Expect(fifo.WriteGIF(ctx, qword.Quadword{1})).To(Succeed())
			unit.Queue(regs.Path1, qword.Quadword{2})
			worker.Deliver(regs.Path2, qword.Quadword{3})
			worker.WaitUntilIdle(true)
		})

		AfterEach(func() {
			worker.Stop()
		})

		DescribeTable("should serialize",
			func(name string, fields ...string) {
				rec := get("/api/component/" + name)

				Expect(rec.Code).To(Equal(http.StatusOK))
				for _, f := range fields {
					Expect(rec.Body.String()).To(ContainSubstring(f))
				}
			},
			Entry("the bus", "Bus", `"Context"`),
			Entry("the handler context", "FIFO",
				`"VIF1"`, `"SoftFIFO"`, `"GIF"`),
			Entry("the graphics-input unit", "GIF",
				`"AcceptBudget"`, `"Paths"`),
			Entry("the renderer", "Renderer",
				`"Delivered"`, `"Syncs"`),
		)

		It("should serialize fields below a component", func() {
			for _, req := range []string{
				`{"comp_name":"FIFO","field_name":"VIF1"}`,
				`{"comp_name":"FIFO","field_name":"VIF1.Stat"}`,
				`{"comp_name":"FIFO","field_name":"SoftFIFO"}`,
				`{"comp_name":"GIF","field_name":"Paths"}`,
				`{"comp_name":"Renderer","field_name":"Delivered"}`,
			} {
				rec := get("/api/field/" + url.PathEscape(req))

				Expect(rec.Code).To(Equal(http.StatusOK), req)
			}
		})

		It("should show the renderer as of its last barrier", func() {
			v := view(worker).(workerView)
			Expect(v.Delivered).To(Equal([]uint64{0, 1, 0}))

			worker.Deliver(regs.Path2, qword.Quadword{4})
			Expect(view(worker).(workerView).Delivered[1]).To(Equal(uint64(1)))

			worker.WaitUntilIdle(true)
			Expect(view(worker).(workerView).Delivered[1]).To(Equal(uint64(2)))
		})

		It("should show buffered and queued data", func() {
			c := view(ctx).(contextView)
			Expect(c.SoftFIFO).To(Equal([]string{qword.Quadword{1}.String()}))
			Expect(c.SoftFIFOCapacity).To(Equal(16))

			u := view(unit).(unitView)
			Expect(u.Paths).To(HaveLen(3))
			Expect(u.Paths[0].Pending).To(Equal(1))
			Expect(u.Stat.Path3Masked).To(BeTrue())
		})
	})

	It("should answer 404 for unknown components", func() {
		rec := get("/api/component/Nope")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should reject a malformed field request", func() {
		rec := get("/api/field/notjson")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	Context("buffers", func() {
		BeforeEach(func() {
			m.RegisterBuffer(sampleBuffer{name: "A", size: 2, cap: 4})
			m.RegisterBuffer(sampleBuffer{name: "B", size: 3, cap: 12})
			Expect(ctx.SoftFIFO.Push(qword.Quadword{})).To(Succeed())
		})

		buffers := func(url string) []string {
			rec := get(url)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var rsp []bufferRsp
			Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())

			names := []string{}
			for _, b := range rsp {
				names = append(names, b.Buffer)
			}

			return names
		}

		It("should sort by fill percentage", func() {
			Expect(buffers("/api/buffers")).To(Equal(
				[]string{"A", "B", "FIFO.SoftFIFO"}))
		})

		It("should sort by level", func() {
			Expect(buffers("/api/buffers?sort=level")).To(Equal(
				[]string{"B", "A", "FIFO.SoftFIFO"}))
		})

		It("should page", func() {
			Expect(buffers("/api/buffers?limit=1&offset=1")).To(Equal(
				[]string{"B"}))
			Expect(buffers("/api/buffers?offset=9")).To(BeEmpty())
		})

		It("should reject bad parameters", func() {
			Expect(get("/api/buffers?sort=name").Code).
				To(Equal(http.StatusBadRequest))
			Expect(get("/api/buffers?limit=-1").Code).
				To(Equal(http.StatusBadRequest))
		})
	})

	It("should track progress bars", func() {
		bar := m.CreateProgressBar("script", 10)
		bar.IncrementFinished(4)

		var rsp []ProgressBar
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &rsp)).
			To(Succeed())
		Expect(rsp).To(HaveLen(1))
		Expect(rsp[0].Finished).To(Equal(uint64(4)))
		Expect(rsp[0].ID).NotTo(BeEmpty())

		m.CompleteProgressBar(bar)

		Expect(get("/api/progress").Body.String()).To(Equal("[]"))
	})

	It("should report process resources", func() {
		var rsp resourceRsp
		Expect(json.Unmarshal(get("/api/resource").Body.Bytes(), &rsp)).
			To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should serve the page", func() {
		rec := get("/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should fall back to a random port for reserved ports", func() {
		Expect(m.WithPortNumber(80).portNumber).To(BeZero())
		Expect(m.WithPortNumber(8080).portNumber).To(Equal(8080))
	})
})
