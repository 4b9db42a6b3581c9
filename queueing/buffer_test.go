package queueing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/fifoemu/hooking"
)

type limitedSink struct {
	budget    int
	forwarded []int
}

func (s *limitedSink) Accepting() bool {
	return s.budget > 0
}

func (s *limitedSink) Forward(e int) {
	s.budget--
	s.forwarded = append(s.forwarded, e)
}

type recordingHook struct {
	ctxs []hooking.HookCtx
}

func (h *recordingHook) Func(ctx hooking.HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

var _ = Describe("Buffer", func() {
	var (
		buf *Buffer[int]
	)

	BeforeEach(func() {
		buf = NewBuffer[int]("Buf", 2)
	})

	It("should allow push and pop", func() {
		Expect(buf.Capacity()).To(Equal(2))
		Expect(buf.CanPush()).To(BeTrue())

		Expect(buf.Push(1)).To(Succeed())
		Expect(buf.CanPush()).To(BeTrue())
		Expect(buf.Size()).To(Equal(1))

		Expect(buf.Push(2)).To(Succeed())
		Expect(buf.CanPush()).To(BeFalse())
		Expect(buf.Size()).To(Equal(2))
		Expect(buf.Push(3)).To(MatchError(ErrBufferFull))

		e, ok := buf.Peek()
		Expect(ok).To(BeTrue())
		Expect(e).To(Equal(1))

		e, ok = buf.Pop()
		Expect(ok).To(BeTrue())
		Expect(e).To(Equal(1))

		e, _ = buf.Pop()
		Expect(e).To(Equal(2))

		_, ok = buf.Pop()
		Expect(ok).To(BeFalse())
		_, ok = buf.Peek()
		Expect(ok).To(BeFalse())
	})

	It("should clear", func() {
		Expect(buf.Push(2)).To(Succeed())

		buf.Clear()

		Expect(buf.Size()).To(Equal(0))
	})

	It("should reject bad construction parameters", func() {
		Expect(func() { NewBuffer[int]("", 1) }).To(Panic())
		Expect(func() { NewBuffer[int]("B", 0) }).To(Panic())
	})

	It("should notify hooks on push and pop", func() {
		hook := &recordingHook{}
		buf.AcceptHook(hook)

		Expect(buf.Push(7)).To(Succeed())
		buf.Pop()

		Expect(hook.ctxs).To(HaveLen(2))
		Expect(hook.ctxs[0].Pos).To(Equal(HookPosBufPush))
		Expect(hook.ctxs[0].Item).To(Equal(7))
		Expect(hook.ctxs[1].Pos).To(Equal(HookPosBufPop))
	})

	Context("when draining", func() {
		BeforeEach(func() {
			buf = NewBuffer[int]("Buf", DefaultCapacity)
		})

		It("should do nothing on an empty buffer", func() {
			sink := &limitedSink{budget: 4}

			Expect(buf.Drain(sink)).To(Equal(0))
			Expect(sink.forwarded).To(BeEmpty())
			Expect(sink.budget).To(Equal(4))
		})

		It("should stop when the sink stops accepting", func() {
			for i := 1; i <= 4; i++ {
				Expect(buf.Push(i)).To(Succeed())
			}

			sink := &limitedSink{budget: 2}
			Expect(buf.Drain(sink)).To(Equal(2))

			Expect(sink.forwarded).To(Equal([]int{1, 2}))
			Expect(buf.Elements()).To(Equal([]int{3, 4}))
		})

		It("should keep order across partial drains", func() {
			for i := 1; i <= 5; i++ {
				Expect(buf.Push(i)).To(Succeed())
			}

			sink := &limitedSink{budget: 3}
			buf.Drain(sink)
			Expect(buf.Push(6)).To(Succeed())

			sink.budget = 10
			buf.Drain(sink)

			Expect(sink.forwarded).To(Equal([]int{1, 2, 3, 4, 5, 6}))
			Expect(buf.Size()).To(Equal(0))
		})
	})
})
