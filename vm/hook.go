package vm

// A HookPos names a place in a component's code where hooks fire. Components
// declare their positions as package variables, and a HookCtx carries a
// pointer to one of them, so positions compare by identity.
type HookPos struct {
	Name string
}

// A HookCtx describes one hook invocation: the component that raised it, the
// position in that component's code, and the item being acted on. Detail
// carries position-specific extras and is often nil.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// A Hookable is an object that hooks can attach to.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook
}

// A Hook is a piece of code a hookable object runs at its hook positions.
// Hooks observe the simulated machine without being part of it; the tracers
// are hooks.
type Hook interface {
	// Func runs when the hookable object reaches a hook position.
	Func(ctx HookCtx)
}

// A HookableBase implements Hookable and is meant to be embedded.
type HookableBase struct {
	hooks []Hook
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// AcceptHook registers a hook. Registering the same hook twice is a defect of
// the caller.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hookMustNotBeRegistered(hook)
	h.hooks = append(h.hooks, hook)
}

func (h *HookableBase) hookMustNotBeRegistered(hook Hook) {
	for _, registered := range h.hooks {
		if registered == hook {
			panic("hook is already registered")
		}
	}
}

// InvokeHook runs every registered hook with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
