package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagelab/vmsim/simulation"
	"github.com/pagelab/vmsim/tracing"
	"github.com/pagelab/vmsim/vm/mmu"
	"github.com/pagelab/vmsim/vm/tlb"
)

// buildMachine builds the TLB and the MMU from the flags and registers them
// with the simulation and the monitor.
func buildMachine(cmd *cobra.Command, s *simulation.Simulation) *mmu.Comp {
	frames, _ := cmd.Flags().GetInt("frames")
	tlbSlots, _ := cmd.Flags().GetInt("tlb-slots")
	vpnSpace, _ := cmd.Flags().GetInt("vpn-space")
	entriesPerTable, _ := cmd.Flags().GetInt("entries-per-table")

	tlbComp := tlb.MakeBuilder().
		WithNumSlots(tlbSlots).
		Build("TLB")

	mmuComp := mmu.MakeBuilder().
		WithNumFrames(frames).
		WithVPNSpace(vpnSpace).
		WithEntriesPerTable(entriesPerTable).
		WithTranslationCache(tlbComp).
		Build("MMU")

	s.RegisterComponent(tlbComp)
	s.RegisterComponent(mmuComp)

	if m := s.GetMonitor(); m != nil {
		m.RegisterTLB(tlbComp)
		m.RegisterMMU(mmuComp)
	}

	return mmuComp
}

// attachStatsTracer counts the ops of every registered component.
func attachStatsTracer(s *simulation.Simulation) *tracing.StatsTracer {
	stats := tracing.NewStatsTracer()

	for _, c := range s.Components() {
		if domain, ok := c.(tracing.NamedHookable); ok {
			tracing.CollectOps(domain, stats)
		}
	}

	return stats
}

// attachLogTracer logs the ops of every registered component to stderr.
func attachLogTracer(s *simulation.Simulation) {
	logger := log.New(os.Stderr, "", 0)
	opLogger := tracing.NewLogTracer(logger, s.TickCounter())

	for _, c := range s.Components() {
		if domain, ok := c.(tracing.NamedHookable); ok {
			tracing.CollectOps(domain, opLogger)
		}
	}
}
