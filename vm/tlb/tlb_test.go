package tlb_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pagelab/vmsim/tracing"
	"github.com/pagelab/vmsim/vm"
	"github.com/pagelab/vmsim/vm/tlb"
)

// An opCollector keeps every op record it receives.
type opCollector struct {
	ops []tracing.Op
}

func (c *opCollector) RecordOp(op tracing.Op) {
	c.ops = append(c.ops, op)
}

func (c *opCollector) lastOp() tracing.Op {
	return c.ops[len(c.ops)-1]
}

var _ = Describe("TLB", func() {
	var (
		t         *tlb.Comp
		collector *opCollector
	)

	BeforeEach(func() {
		t = tlb.MakeBuilder().WithNumSlots(4).Build("TLB")

		collector = &opCollector{}
		tracing.CollectOps(t, collector)
	})

	It("should miss when empty", func() {
		_, found := t.Lookup(20)

		Expect(found).To(BeFalse())
		Expect(collector.lastOp().Kind).To(Equal(tracing.KindTLBLookup))
		Expect(collector.lastOp().Outcome).To(Equal(tracing.OutcomeMiss))
	})

	It("should hit after an insert", func() {
		t.Insert(20, 5)

		pfn, found := t.Lookup(20)

		Expect(found).To(BeTrue())
		Expect(pfn).To(Equal(vm.PFN(5)))
		Expect(collector.lastOp().Outcome).To(Equal(tracing.OutcomeHit))
	})

	It("should fill slots in order", func() {
		t.Insert(20, 5)
		t.Insert(30, 6)

		entries := t.Entries()

		Expect(entries[0].VPN).To(Equal(vm.VPN(20)))
		Expect(entries[1].VPN).To(Equal(vm.VPN(30)))
		Expect(t.ValidCount()).To(Equal(2))
	})

	It("should drop the insert when full", func() {
		t.Insert(10, 1)
		t.Insert(20, 2)
		t.Insert(30, 3)
		t.Insert(40, 4)

		t.Insert(50, 5)

		Expect(collector.lastOp().Kind).To(Equal(tracing.KindTLBInsert))
		Expect(collector.lastOp().Outcome).To(Equal(tracing.OutcomeDropped))

		_, found := t.Lookup(50)
		Expect(found).To(BeFalse())
		Expect(t.ValidCount()).To(Equal(4))
	})

	It("should reuse a slot freed by an invalidation", func() {
		t.Insert(10, 1)
		t.Insert(20, 2)

		t.Invalidate(10)
		t.Insert(30, 3)

		entries := t.Entries()
		Expect(entries[0].VPN).To(Equal(vm.VPN(30)))

		_, found := t.Lookup(10)
		Expect(found).To(BeFalse())
	})

	It("should invalidate every slot that matches the vpn", func() {
		t.Insert(10, 1)
		t.Insert(10, 2)

		t.Invalidate(10)

		Expect(t.ValidCount()).To(Equal(0))
	})

	It("should flush all slots", func() {
		t.Insert(10, 1)
		t.Insert(20, 2)

		t.Flush()

		Expect(t.ValidCount()).To(Equal(0))
		Expect(collector.lastOp().Kind).To(Equal(tracing.KindTLBFlush))

		_, found := t.Lookup(10)
		Expect(found).To(BeFalse())
	})

	It("should zero the contents of flushed slots", func() {
		t.Insert(10, 1)

		t.Flush()

		entries := t.Entries()
		Expect(entries[0].VPN).To(Equal(vm.VPN(0)))
		Expect(entries[0].PFN).To(Equal(vm.PFN(0)))
		Expect(entries[0].Valid).To(BeFalse())
	})
})

var _ = Describe("Builder", func() {
	It("should build a TLB with the default slot count", func() {
		t := tlb.MakeBuilder().Build("TLB")

		Expect(t.NumSlots()).To(Equal(256))
		Expect(t.Name()).To(Equal("TLB"))
	})

	It("should reject a non-positive slot count", func() {
		Expect(func() {
			tlb.MakeBuilder().WithNumSlots(0).Build("TLB")
		}).To(Panic())
	})
})
