package simulation

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/pagelab/vmsim/vm/tlb"
)

var _ = Describe("Simulation", func() {
	var (
		mockCtrl   *gomock.Controller
		simulation *Simulation
		comp       *MockComponent
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		simulation = MakeBuilder().WithoutMonitoring().Build()

		comp = NewMockComponent(mockCtrl)
		comp.EXPECT().Name().Return("comp").AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()

		simulation.Terminate()

		os.Remove("vmsim_" + simulation.ID() + ".sqlite3")
	})

	It("should register a component", func() {
		simulation.RegisterComponent(comp)

		Expect(simulation.GetComponentByName("comp")).To(Equal(comp))
	})

	It("should return all registered components", func() {
		simulation.RegisterComponent(comp)

		comps := simulation.Components()
		Expect(comps).To(HaveLen(1))
		Expect(comps[0]).To(Equal(comp))
	})

	It("should reject a component with a name already taken", func() {
		simulation.RegisterComponent(comp)

		other := NewMockComponent(mockCtrl)
		other.EXPECT().Name().Return("comp").AnyTimes()

		Expect(func() {
			simulation.RegisterComponent(other)
		}).To(Panic())
	})

	It("should return nil for an unknown component name", func() {
		Expect(simulation.GetComponentByName("nobody")).To(BeNil())
	})

	It("should attach the op tracer to hookable components", func() {
		tlbComp := tlb.MakeBuilder().Build("TLB")

		simulation.RegisterComponent(tlbComp)

		Expect(tlbComp.NumHooks()).To(Equal(1))
	})

	Context("Builder with custom output file", func() {
		var customSim *Simulation

		AfterEach(func() {
			if customSim != nil {
				customSim.Terminate()
				os.Remove("test_custom_output.sqlite3")
				customSim = nil
			}
		})

		It("should allow custom output file to be set", func() {
			builder := MakeBuilder().
				WithoutMonitoring().
				WithOutputFileName("test_custom_output")
			customSim = builder.Build()

			Expect(customSim).ToNot(BeNil())
			Expect(customSim.GetDataRecorder()).ToNot(BeNil())
		})
	})

	Context("Builder parameter validation", func() {
		It("should reject a monitor port without monitoring", func() {
			Expect(func() {
				MakeBuilder().
					WithoutMonitoring().
					WithMonitorPort(8080).
					Build()
			}).To(Panic())
		})
	})
})
