// Package tracing provides the op-record API of the simulator. Components
// emit one Op per state-changing or translating action, and tracers consume
// the records for logging, counting, or storage.
package tracing

import "github.com/pagelab/vmsim/vm"

// An Op describes one action a component performed, together with its
// outcome. Fields that do not apply to a kind stay zero.
type Op struct {
	ID      string
	PID     vm.PID
	Kind    string
	VPN     vm.VPN
	PFN     vm.PFN
	Outcome string
	Where   string
}

// Kinds of op records.
const (
	KindTLBLookup     = "tlb_lookup"
	KindTLBInsert     = "tlb_insert"
	KindTLBInvalidate = "tlb_invalidate"
	KindTLBFlush      = "tlb_flush"
	KindAlloc         = "alloc"
	KindFree          = "free"
	KindFault         = "fault"
	KindSwitch        = "switch"
	KindTranslate     = "translate"
)

// Outcomes of op records.
const (
	OutcomeHit         = "hit"
	OutcomeMiss        = "miss"
	OutcomeOK          = "ok"
	OutcomeDropped     = "dropped"
	OutcomeNoOp        = "noop"
	OutcomePromoted    = "promoted"
	OutcomeSplit       = "split"
	OutcomeUnhandled   = "unhandled"
	OutcomeOutOfFrames = "out_of_frames"
	OutcomeResumed     = "resumed"
	OutcomeForked      = "forked"
	OutcomeSpawned     = "spawned"
	OutcomeTLBHit      = "tlb_hit"
	OutcomeWalkHit     = "walk_hit"
	OutcomeCOWResolved = "cow_resolved"
	OutcomeFailed      = "failed"
)
