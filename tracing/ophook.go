package tracing

import (
	"fmt"
	"reflect"

	"github.com/pagelab/vmsim/vm"
)

// CollectOps lets the tracer collect the op records of a domain.
func CollectOps(domain NamedHookable, tracer Tracer) {
	hooks := domain.Hooks()
	for _, hook := range hooks {
		hook, ok := hook.(*opHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	h := opHook{t: tracer}
	domain.AcceptHook(&h)
}

// An opHook is a hook that forwards op records to a tracer.
type opHook struct {
	t Tracer
}

// Func calls the tracer when the hook is triggered.
func (h *opHook) Func(ctx vm.HookCtx) {
	if ctx.Pos != HookPosOp {
		return
	}

	h.t.RecordOp(ctx.Item.(Op))
}
