package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/output"
)

var (
	historyLimit int

	historyCmd = &cobra.Command{
		Use:   "history [dataset]",
		Short: "List recorded mining runs",
		Long: `List recorded mining runs, newest first, optionally for one dataset only.

Each run records the engine, thresholds, number of frequent itemsets and rules,
the number of candidates counted and how long it took.`,
		Example: `  # Last 20 runs
  basketmine history

  # Every run over Amazon
  basketmine history Amazon --limit 0`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	name := ""
	if len(args) == 1 {
		name = args[0]
		if _, err := db.GetDataset(name); err != nil {
			return datasetError(name, err)
		}
	}

	runs, err := db.ListRuns(name, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderRunTable(runs))
	return nil
}
