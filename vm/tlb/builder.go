package tlb

import "github.com/pagelab/vmsim/vm"

// A Builder can build TLBs.
type Builder struct {
	numSlots int
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		numSlots: 256,
	}
}

// WithNumSlots sets the number of slots of the TLB to build.
func (b Builder) WithNumSlots(n int) Builder {
	b.numSlots = n
	return b
}

// Build creates a new TLB.
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()

	tlb := &Comp{
		ComponentBase: vm.NewComponentBase(name),
		slots:         make([]slot, b.numSlots),
	}

	return tlb
}

func (b Builder) parametersMustBeValid() {
	if b.numSlots <= 0 {
		panic("tlb must have at least one slot")
	}
}
