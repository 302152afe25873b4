// Package simulation bundles the services a simulation needs: an operation
// counter, a data recorder, an op tracer, and a monitor.
package simulation

import (
	"github.com/pagelab/vmsim/datarecording"
	"github.com/pagelab/vmsim/monitoring"
	"github.com/pagelab/vmsim/tracing"
	"github.com/pagelab/vmsim/vm"
)

// A Simulation provides the services required to define a simulation.
type Simulation struct {
	id string

	tickCounter  *vm.TickCounter
	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	opTracer     *tracing.DBTracer

	components    []vm.Component
	compNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// TickCounter returns the counter that numbers the operations of the
// simulation.
func (s *Simulation) TickCounter() *vm.TickCounter {
	return s.tickCounter
}

// GetDataRecorder returns the data recorder used in the simulation.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when the
// simulation was built without monitoring.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetOpTracer returns the tracer that writes ops to the output database.
func (s *Simulation) GetOpTracer() *tracing.DBTracer {
	return s.opTracer
}

// RegisterComponent registers a component with the simulation. Components
// that can be hooked get the op tracer attached, so every op they record
// lands in the output database.
func (s *Simulation) RegisterComponent(c vm.Component) {
	compName := c.Name()
	if _, ok := s.compNameIndex[compName]; ok {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	if domain, ok := c.(tracing.NamedHookable); ok {
		tracing.CollectOps(domain, s.opTracer)
	}
}

// GetComponentByName returns the component with the given name, or nil when
// no such component is registered.
func (s *Simulation) GetComponentByName(name string) vm.Component {
	i, ok := s.compNameIndex[name]
	if !ok {
		return nil
	}

	return s.components[i]
}

// Components returns all registered components.
func (s *Simulation) Components() []vm.Component {
	return s.components
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() {
	s.dataRecorder.Close()
}
