package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	gomock "go.uber.org/mock/gomock"

	"github.com/pagelab/vmsim/vm"
)

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl   *gomock.Controller
		tickTeller *MockTickTeller
		backend    *MockDataRecorder
		tracer     *DBTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tickTeller = NewMockTickTeller(mockCtrl)
		backend = NewMockDataRecorder(mockCtrl)

		backend.EXPECT().CreateTable("ops", gomock.Any())
		tracer = NewDBTracer(tickTeller, backend)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should stamp the record with the current tick", func() {
		tickTeller.EXPECT().CurrentTick().Return(vm.Tick(42))
		backend.EXPECT().InsertData("ops", opTableEntry{
			ID:       "op1",
			Tick:     42,
			PID:      7,
			Kind:     KindAlloc,
			VPN:      20,
			PFN:      3,
			Outcome:  OutcomeOK,
			Location: "MMU",
		})

		tracer.RecordOp(Op{
			ID:      "op1",
			PID:     7,
			Kind:    KindAlloc,
			VPN:     20,
			PFN:     3,
			Outcome: OutcomeOK,
			Where:   "MMU",
		})
	})

	It("should flush the backend on termination", func() {
		backend.EXPECT().Flush()

		tracer.Terminate()
	})
})
