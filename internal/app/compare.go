package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/analyzer"
	"github.com/blackwell-systems/basketmine/internal/compare"
	"github.com/blackwell-systems/basketmine/internal/mining"
	"github.com/blackwell-systems/basketmine/internal/output"
	"github.com/blackwell-systems/basketmine/internal/scanner"
)

var (
	compareAlgorithms    []string
	compareRepeat        int
	compareTolerance     float64
	compareMinSupport    string
	compareMinConfidence string
	compareStrictOrder   bool

	compareCmd = &cobra.Command{
		Use:   "compare <dataset|file.csv>",
		Short: "Benchmark the engines and check they agree",
		Long: `Run several mining engines over the same dataset, time them and check that
every engine finds the same frequent itemsets and rules as the first one.

Supports, confidences and lifts are compared within a tolerance. With
--strict-order the rules must also come back in the same order.

The command fails when any engine disagrees.`,
		Example: `  # Compare all engines once
  basketmine compare Amazon

  # Time apriori against fpgrowth over 10 runs
  basketmine compare Costco --algorithms apriori,fpgrowth --repeat 10`,
		Args: cobra.ExactArgs(1),
		RunE: runCompare,
	}
)

func init() {
	compareCmd.Flags().StringSliceVar(&compareAlgorithms, "algorithms", Algorithms, "engines to run; the first is the reference")
	compareCmd.Flags().IntVar(&compareRepeat, "repeat", 1, "runs per engine")
	compareCmd.Flags().Float64Var(&compareTolerance, "tolerance", -1, "largest allowed metric difference (default: configured tolerance)")
	compareCmd.Flags().StringVarP(&compareMinSupport, "min-support", "s", "", "minimum support, fraction or absolute count")
	compareCmd.Flags().StringVarP(&compareMinConfidence, "min-confidence", "c", "", "minimum confidence between 0 and 1")
	compareCmd.Flags().BoolVar(&compareStrictOrder, "strict-order", false, "also require rules in the same order")
}

func runCompare(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	params, err := resolveParams(c, compareMinSupport, compareMinConfidence)
	if err != nil {
		return err
	}

	tolerance := compareTolerance
	if tolerance < 0 {
		tolerance = c.Tolerance
	}

	if len(compareAlgorithms) < 2 {
		return fmt.Errorf("compare needs at least two algorithms, got %d", len(compareAlgorithms))
	}
	miners := make([]mining.Miner, 0, len(compareAlgorithms))
	for _, name := range compareAlgorithms {
		m, err := newMiner(name, c.MaxItems, nil)
		if err != nil {
			return err
		}
		miners = append(miners, m)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	name, err := resolveDataset(scanner.New(db), args[0])
	if err != nil {
		return err
	}

	txs, err := analyzer.New(db).LoadDatabase(name)
	if err != nil {
		return datasetError(name, err)
	}

	report, err := compare.Benchmark(txs, params, miners, compareRepeat, compare.Options{
		Tolerance:   tolerance,
		StrictOrder: compareStrictOrder,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d transactions · min support %s · min confidence %.2f\n\n",
		name, txs.Len(), params.MinSupport, params.MinConfidence)
	fmt.Fprint(out, output.RenderTimingTable(report.Timings))
	fmt.Fprintln(out)

	reference := report.Results[0].Algorithm
	for i, check := range report.Checks {
		fmt.Fprint(out, output.RenderComparison(reference, report.Results[i+1].Algorithm, check))
	}

	if !report.Equivalent() {
		return fmt.Errorf("engines disagree on %s", name)
	}
	return nil
}
