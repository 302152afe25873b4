package tracing

import (
	"github.com/pagelab/vmsim/vm"
	"github.com/rs/xid"
)

// NamedHookable represent something both have a name and can be hooked
type NamedHookable interface {
	vm.Named
	vm.Hookable
	InvokeHook(vm.HookCtx)
}

// HookPosOp is the hook position components use to publish op records.
var HookPosOp = &vm.HookPos{Name: "HookPosOp"}

// RecordOp notifies the hooks that hook to the domain about one completed op.
// It fills in the ID and the location when the caller leaves them empty. When
// no hook is attached, the call returns immediately, so untraced runs pay
// almost nothing.
func RecordOp(domain NamedHookable, op Op) {
	if domain.NumHooks() == 0 {
		return
	}

	requiredFieldsMustNotBeEmpty(domain, op)

	if op.ID == "" {
		op.ID = xid.New().String()
	}

	if op.Where == "" {
		op.Where = domain.Name()
	}

	ctx := vm.HookCtx{
		Domain: domain,
		Item:   op,
		Pos:    HookPosOp,
	}
	domain.InvokeHook(ctx)
}

func requiredFieldsMustNotBeEmpty(domain NamedHookable, op Op) {
	if domain.Name() == "" {
		panic("domain must have a name")
	}

	if op.Kind == "" {
		panic("op kind must not be empty")
	}

	if op.Outcome == "" {
		panic("op outcome must not be empty")
	}
}
