package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/pagelab/vmsim/driver"
	"github.com/pagelab/vmsim/simulation"
	"github.com/pagelab/vmsim/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run [trace file]",
	Short: "Replay a page access trace.",
	Long: "`run` builds the virtual memory subsystem, replays the trace " +
		"against it, and reports what happened. Every op lands in the " +
		"output database.",
	Args: cobra.ExactArgs(1),
	Run:  runTrace,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("frames",
		envInt("VMSIM_FRAMES", 128),
		"Number of physical page frames")
	runCmd.Flags().Int("tlb-slots",
		envInt("VMSIM_TLB_SLOTS", 256),
		"Number of TLB slots")
	runCmd.Flags().Int("vpn-space",
		envInt("VMSIM_VPN_SPACE", 256),
		"Number of virtual pages per process")
	runCmd.Flags().Int("entries-per-table",
		envInt("VMSIM_ENTRIES_PER_TABLE", 16),
		"Number of entries in a second-level page table")
	runCmd.Flags().Bool("verbose", false,
		"Log every op to stderr as it happens")
	runCmd.Flags().Bool("no-monitor", false,
		"Do not start the monitoring server")
	runCmd.Flags().Int("monitor-port", 0,
		"Port for the monitoring server")
	runCmd.Flags().Bool("open", false,
		"Open the monitor in a browser and keep serving after the replay")
	runCmd.Flags().String("output", "",
		"Name of the output database file")
}

func runTrace(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	open, _ := cmd.Flags().GetBool("open")
	vpnSpace, _ := cmd.Flags().GetInt("vpn-space")

	ops := parseTraceFile(args[0])

	s := buildSimulation(cmd)
	machine := buildMachine(cmd, s)
	stats := attachStatsTracer(s)

	if verbose {
		attachLogTracer(s)
	}

	d := driver.MakeBuilder().
		WithMachine(machine).
		WithTickCounter(s.TickCounter()).
		WithVPNSpace(vpnSpace).
		WithLogger(log.New(os.Stderr, "vmsim: ", 0)).
		Build("Driver")
	s.RegisterComponent(d)

	if m := s.GetMonitor(); m != nil {
		m.RegisterStatsTracer(stats)

		if open {
			err := browser.OpenURL(m.URL())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening browser: %s\n", err)
			}
		}
	}

	summary := d.Run(ops)

	printSummary(summary, stats)

	s.Terminate()

	if open && s.GetMonitor() != nil {
		waitForInterrupt()
	}

	if summary.Audit != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func parseTraceFile(path string) []driver.TraceOp {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		atexit.Exit(1)
	}
	defer f.Close()

	ops, err := driver.ParseTrace(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		atexit.Exit(1)
	}

	return ops
}

func buildSimulation(cmd *cobra.Command) *simulation.Simulation {
	noMonitor, _ := cmd.Flags().GetBool("no-monitor")
	monitorPort, _ := cmd.Flags().GetInt("monitor-port")
	output, _ := cmd.Flags().GetString("output")

	b := simulation.MakeBuilder()

	if noMonitor {
		b = b.WithoutMonitoring()
	}

	if monitorPort > 0 {
		b = b.WithMonitorPort(monitorPort)
	}

	if output != "" {
		b = b.WithOutputFileName(output)
	}

	return b.Build()
}

func printSummary(s driver.Summary, stats *tracing.StatsTracer) {
	fmt.Printf("ops:      %d\n", s.Ops)
	fmt.Printf("allocs:   %d\n", s.Allocs)
	fmt.Printf("frees:    %d\n", s.Frees)
	fmt.Printf("reads:    %d\n", s.Reads)
	fmt.Printf("writes:   %d\n", s.Writes)
	fmt.Printf("switches: %d\n", s.Switches)
	fmt.Printf("failures: %d\n", len(s.Failures))

	for _, f := range s.Failures {
		fmt.Printf("  line %d (tick %d): %s\n", f.Line, f.Tick, f.Reason)
	}

	if s.Audit == nil {
		fmt.Printf("audit:    ok\n")
	} else {
		fmt.Printf("audit:    %s\n", s.Audit)
	}

	fmt.Println()

	for _, key := range stats.Keys() {
		fmt.Printf("%-26s %d\n", key, stats.CountKey(key))
	}
}

func waitForInterrupt() {
	fmt.Fprintln(os.Stderr, "Monitor still serving. Press Ctrl-C to exit.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
}

func envInt(name string, fallback int) int {
	value, exist := os.LookupEnv(name)
	if !exist {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return n
}
