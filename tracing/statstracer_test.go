package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StatsTracer", func() {
	var tracer *StatsTracer

	BeforeEach(func() {
		tracer = NewStatsTracer()
	})

	It("should count ops by kind and outcome", func() {
		tracer.RecordOp(Op{Kind: KindTLBLookup, Outcome: OutcomeHit})
		tracer.RecordOp(Op{Kind: KindTLBLookup, Outcome: OutcomeHit})
		tracer.RecordOp(Op{Kind: KindTLBLookup, Outcome: OutcomeMiss})
		tracer.RecordOp(Op{Kind: KindFault, Outcome: OutcomeSplit})

		Expect(tracer.Count(KindTLBLookup, OutcomeHit)).To(Equal(uint64(2)))
		Expect(tracer.Count(KindTLBLookup, OutcomeMiss)).To(Equal(uint64(1)))
		Expect(tracer.Count(KindFault, OutcomeSplit)).To(Equal(uint64(1)))
		Expect(tracer.Count(KindFault, OutcomePromoted)).To(Equal(uint64(0)))
	})

	It("should report keys in first-seen order", func() {
		tracer.RecordOp(Op{Kind: KindSwitch, Outcome: OutcomeForked})
		tracer.RecordOp(Op{Kind: KindAlloc, Outcome: OutcomeOK})
		tracer.RecordOp(Op{Kind: KindSwitch, Outcome: OutcomeForked})

		Expect(tracer.Keys()).To(Equal([]string{
			"switch/forked",
			"alloc/ok",
		}))
	})

	It("should sum counts over a kind", func() {
		tracer.RecordOp(Op{Kind: KindFault, Outcome: OutcomeSplit})
		tracer.RecordOp(Op{Kind: KindFault, Outcome: OutcomePromoted})
		tracer.RecordOp(Op{Kind: KindFault, Outcome: OutcomeUnhandled})
		tracer.RecordOp(Op{Kind: KindAlloc, Outcome: OutcomeOK})

		Expect(tracer.KindCount(KindFault)).To(Equal(uint64(3)))
		Expect(tracer.KindCount(KindAlloc)).To(Equal(uint64(1)))
		Expect(tracer.KindCount(KindFree)).To(Equal(uint64(0)))
	})
})
