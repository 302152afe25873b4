package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pagelab/vmsim/datarecording"
)

// opRow mirrors the columns of the ops table in the output database.
type opRow struct {
	ID       string
	Tick     uint64
	PID      uint32
	Kind     string
	VPN      uint64
	PFN      uint64
	Outcome  string
	Location string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [database file]",
	Short: "List the ops recorded in an output database.",
	Long: "`inspect` reads the ops table of a database a previous run " +
		"produced and lists the ops in tick order.",
	Args: cobra.ExactArgs(1),
	Run:  inspectDB,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("kind", "", "Only show ops of this kind")
	inspectCmd.Flags().Int("pid", -1, "Only show ops of this process")
	inspectCmd.Flags().Int("limit", 50, "Maximum number of ops to show")
	inspectCmd.Flags().Int("offset", 0, "Number of ops to skip")
}

func inspectDB(cmd *cobra.Command, args []string) {
	reader := datarecording.NewReader(args[0])
	defer reader.Close()

	reader.MapTable("ops", opRow{})

	params := datarecording.QueryParams{
		OrderBy: "Tick ASC, ID ASC",
	}
	params.Limit, _ = cmd.Flags().GetInt("limit")
	params.Offset, _ = cmd.Flags().GetInt("offset")
	params.Where, params.Args = inspectFilter(cmd)

	rows, total, err := reader.Query(context.Background(), "ops", params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICK\tPID\tKIND\tVPN\tPFN\tOUTCOME\tLOCATION")

	for _, row := range rows {
		op := row.(*opRow)
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%d\t%s\t%s\n",
			op.Tick, op.PID, op.Kind, op.VPN, op.PFN,
			op.Outcome, op.Location)
	}

	w.Flush()

	fmt.Printf("%d of %d ops\n", len(rows), total)
}

func inspectFilter(cmd *cobra.Command) (string, []any) {
	kind, _ := cmd.Flags().GetString("kind")
	pid, _ := cmd.Flags().GetInt("pid")

	where := ""

	var args []any

	if kind != "" {
		where = "Kind = ?"

		args = append(args, kind)
	}

	if pid >= 0 {
		if where != "" {
			where += " AND "
		}

		where += "PID = ?"

		args = append(args, pid)
	}

	return where, args
}
