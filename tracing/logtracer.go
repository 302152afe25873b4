package tracing

import (
	"log"

	"github.com/pagelab/vmsim/vm"
)

// A LogTracer writes op records to a logger, one line per op.
type LogTracer struct {
	*log.Logger

	tickTeller vm.TickTeller
}

// NewLogTracer creates a LogTracer that stamps each line with the current
// tick.
func NewLogTracer(logger *log.Logger, tickTeller vm.TickTeller) *LogTracer {
	t := &LogTracer{
		Logger:     logger,
		tickTeller: tickTeller,
	}

	return t
}

// RecordOp writes the op as one log line.
func (t *LogTracer) RecordOp(op Op) {
	t.Printf("%8d, %s, %s, pid=%d, vpn=%d, pfn=%d, %s",
		t.tickTeller.CurrentTick(),
		op.Where, op.Kind,
		op.PID, op.VPN, op.PFN,
		op.Outcome)
}
