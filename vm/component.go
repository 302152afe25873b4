package vm

// Named is an object that has a name.
type Named interface {
	Name() string
}

// A Component is a named, hookable element of the simulated machine.
type Component interface {
	Named
	Hookable
}

// ComponentBase provides the name and the hook plumbing that all components
// share.
type ComponentBase struct {
	HookableBase

	name string
}

// NewComponentBase creates a new ComponentBase.
func NewComponentBase(name string) *ComponentBase {
	if name == "" {
		panic("component name must not be empty")
	}

	c := &ComponentBase{name: name}

	return c
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
