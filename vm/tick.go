package vm

// A TickTeller can tell the current tick of the simulation. Tracers and the
// monitoring server use it to stamp their records.
type TickTeller interface {
	CurrentTick() Tick
}

// A TickCounter is the monotonic operation counter of a simulation. The
// driver advances it once per trace operation.
type TickCounter struct {
	now Tick
}

// NewTickCounter creates a counter that starts at zero.
func NewTickCounter() *TickCounter {
	return &TickCounter{}
}

// CurrentTick returns the current tick.
func (c *TickCounter) CurrentTick() Tick {
	return c.now
}

// Advance increments the counter and returns the new tick.
func (c *TickCounter) Advance() Tick {
	c.now++
	return c.now
}
