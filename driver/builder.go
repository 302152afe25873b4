package driver

import (
	"log"

	"github.com/pagelab/vmsim/vm"
)

// A Builder can build trace drivers.
type Builder struct {
	machine  Machine
	tick     *vm.TickCounter
	logger   *log.Logger
	vpnSpace int
}

// MakeBuilder returns a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		vpnSpace: 256,
	}
}

// WithMachine sets the machine to drive.
func (b Builder) WithMachine(m Machine) Builder {
	b.machine = m
	return b
}

// WithTickCounter sets the counter that numbers the operations. Without one,
// the driver counts on its own.
func (b Builder) WithTickCounter(t *vm.TickCounter) Builder {
	b.tick = t
	return b
}

// WithLogger sets the logger that reports failed operations as they happen.
// Without a logger, failures only land in the summary.
func (b Builder) WithLogger(l *log.Logger) Builder {
	b.logger = l
	return b
}

// WithVPNSpace sets the number of virtual pages an operation may touch.
// Operations outside the range fail instead of reaching the machine.
func (b Builder) WithVPNSpace(n int) Builder {
	b.vpnSpace = n
	return b
}

// Build creates a driver with the given name.
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()

	c := &Comp{
		ComponentBase: vm.NewComponentBase(name),
		machine:       b.machine,
		tick:          b.tick,
		logger:        b.logger,
		vpnSpace:      b.vpnSpace,
	}

	if c.tick == nil {
		c.tick = vm.NewTickCounter()
	}

	return c
}

func (b Builder) parametersMustBeValid() {
	if b.machine == nil {
		panic("driver must have a machine")
	}

	if b.vpnSpace <= 0 {
		panic("vpn space must be positive")
	}
}
