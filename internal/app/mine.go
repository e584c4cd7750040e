package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/analyzer"
	"github.com/blackwell-systems/basketmine/internal/dataset"
	"github.com/blackwell-systems/basketmine/internal/mining"
	"github.com/blackwell-systems/basketmine/internal/output"
	"github.com/blackwell-systems/basketmine/internal/rulefilter"
	"github.com/blackwell-systems/basketmine/internal/scanner"
	"github.com/blackwell-systems/basketmine/internal/store"
)

var (
	mineAlgorithm     string
	mineMinSupport    string
	mineMinConfidence string
	mineWhere         string
	mineTop           int
	mineMaxItems      int
	mineRulesCSV      string
	mineItemsetsCSV   string
	mineShowItemsets  bool
	mineAll           bool

	mineCmd = &cobra.Command{
		Use:   "mine [dataset|file.csv]",
		Short: "Mine frequent itemsets and association rules",
		Long: `Mine a dataset for frequent itemsets and association rules.

The argument is either the name of an imported dataset or the path of a CSV
file, which is imported first. Every run is recorded in the history.

Minimum support is a fraction of the transactions (0.4) or, written as a
whole number, an absolute transaction count (3). A candidate is frequent when
its support is at least the minimum; a rule is kept when its confidence is at
least the minimum confidence.

Rules are listed by support, then confidence, then lift, each descending, with
the antecedent and consequent as tie-breaks.`,
		Example: `  # Mine with the configured thresholds
  basketmine mine Amazon

  # Mine a CSV file at 40% support and 70% confidence
  basketmine mine baskets.csv --min-support 0.4 --min-confidence 0.7

  # Use FP-Growth and keep only rules with lift above 1.2
  basketmine mine Walmart --algorithm fpgrowth --where 'lift > 1.2'

  # Export every rule
  basketmine mine Target --top 0 --rules-csv target_rules.csv

  # Summarise every imported dataset
  basketmine mine --all`,
		RunE: runMine,
	}
)

func init() {
	mineCmd.Flags().StringVarP(&mineAlgorithm, "algorithm", "a", "", "mining engine: "+strings.Join(Algorithms, ", ")+" (default: configured algorithm)")
	mineCmd.Flags().StringVarP(&mineMinSupport, "min-support", "s", "", "minimum support, fraction or absolute count (default: configured min_support)")
	mineCmd.Flags().StringVarP(&mineMinConfidence, "min-confidence", "c", "", "minimum confidence between 0 and 1 (default: configured min_confidence)")
	mineCmd.Flags().StringVar(&mineWhere, "where", "", "only show rules matching this expression")
	mineCmd.Flags().IntVar(&mineTop, "top", 20, "number of rules to show (0 for all)")
	mineCmd.Flags().IntVar(&mineMaxItems, "max-items", -1, "largest item universe for bruteforce, 0 for no limit (default: configured max_items)")
	mineCmd.Flags().StringVar(&mineRulesCSV, "rules-csv", "", "write rules to this CSV file")
	mineCmd.Flags().StringVar(&mineItemsetsCSV, "itemsets-csv", "", "write frequent itemsets to this CSV file")
	mineCmd.Flags().BoolVar(&mineShowItemsets, "itemsets", false, "also show frequent itemsets")
	mineCmd.Flags().BoolVar(&mineAll, "all", false, "mine every imported dataset and print a summary")
}

func runMine(cmd *cobra.Command, args []string) error {
	if mineAll && len(args) > 0 {
		return fmt.Errorf("--all cannot be combined with a dataset argument")
	}
	if !mineAll && len(args) != 1 {
		return fmt.Errorf("missing dataset name or CSV file\nUsage: basketmine mine <dataset|file.csv>")
	}

	c, err := loadConfig()
	if err != nil {
		return err
	}

	params, err := resolveParams(c, mineMinSupport, mineMinConfidence)
	if err != nil {
		return err
	}

	algorithm := mineAlgorithm
	if algorithm == "" {
		algorithm = c.Algorithm
	}
	maxItems := mineMaxItems
	if maxItems < 0 {
		maxItems = c.MaxItems
	}

	var filter *rulefilter.Filter
	if mineWhere != "" {
		if filter, err = rulefilter.Compile(mineWhere); err != nil {
			return err
		}
	}

	// Reject a bad algorithm before touching the database.
	if _, err := newMiner(algorithm, maxItems, nil); err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	a := analyzer.New(db)
	out := cmd.OutOrStdout()

	if mineAll {
		return mineAllDatasets(out, db, a, algorithm, maxItems, params)
	}

	name, err := resolveDataset(scanner.New(db), args[0])
	if err != nil {
		return err
	}

	progress, finish := candidateProgress(false)
	miner, err := newMiner(algorithm, maxItems, progress)
	if err != nil {
		return err
	}

	res, run, err := a.Run(name, miner, params)
	finish()
	if err != nil {
		return datasetError(name, err)
	}

	rules := res.Rules
	if filter != nil {
		if rules, err = filter.Apply(rules); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, output.RenderSummary(name, res))
	fmt.Fprintf(out, "min support %s · min confidence %.2f · run %s\n", params.MinSupport, params.MinConfidence, shortID(run.ID))
	fmt.Fprintln(out, output.RenderTierSummary(output.CountTiers(rules)))
	fmt.Fprintln(out)

	if mineShowItemsets {
		fmt.Fprint(out, output.RenderItemsetTable(res.Frequent.Entries(), mineTop))
		fmt.Fprintln(out)
	}

	if filter != nil {
		fmt.Fprintf(out, "Rules matching %s: %d of %d\n", filter, len(rules), len(res.Rules))
	}
	fmt.Fprint(out, output.RenderRuleTable(rules, mineTop))

	if mineRulesCSV != "" {
		if err := writeFile(mineRulesCSV, func(w io.Writer) error {
			return dataset.WriteRulesCSV(w, rules)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n✓ Rules written to %s\n", mineRulesCSV)
	}
	if mineItemsetsCSV != "" {
		if err := writeFile(mineItemsetsCSV, func(w io.Writer) error {
			return dataset.WriteItemsetsCSV(w, res.Frequent)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Itemsets written to %s\n", mineItemsetsCSV)
	}

	return nil
}

func mineAllDatasets(out io.Writer, db *store.Store, a *analyzer.Analyzer, algorithm string, maxItems int, params mining.Params) error {
	datasets, err := db.ListDatasets()
	if err != nil {
		return err
	}
	if len(datasets) == 0 {
		fmt.Fprintln(out, "No datasets imported. Run 'basketmine generate' or 'basketmine scan' first.")
		return nil
	}

	var spinner *output.Spinner
	if stderrIsTTY() {
		spinner = output.NewSpinner("Mining")
		spinner.Start()
	}

	rows := make([]output.DatasetResult, 0, len(datasets))
	for _, ds := range datasets {
		if spinner != nil {
			spinner.UpdateMessage(fmt.Sprintf("Mining %s", ds.Name))
		}
		miner, err := newMiner(algorithm, maxItems, nil)
		if err == nil {
			var res *mining.Result
			if res, _, err = a.Run(ds.Name, miner, params); err == nil {
				rows = append(rows, output.DatasetResult{Dataset: ds.Name, Result: res})
			}
		}
		if err != nil {
			if spinner != nil {
				spinner.Stop()
			}
			return err
		}
	}
	if spinner != nil {
		spinner.Stop()
	}

	fmt.Fprintf(out, "%s · min support %s · min confidence %.2f\n\n", algorithm, params.MinSupport, params.MinConfidence)
	fmt.Fprint(out, output.RenderResultsTable(rows))
	return nil
}

// resolveDataset imports arg when it names an existing CSV file and returns
// the dataset name to mine.
func resolveDataset(s *scanner.Scanner, arg string) (string, error) {
	if !strings.EqualFold(filepath.Ext(arg), ".csv") {
		return arg, nil
	}
	if _, err := os.Stat(arg); err != nil {
		return "", fmt.Errorf("cannot read %s: %w", arg, err)
	}
	ds, _, err := s.ImportFile(arg)
	if err != nil {
		return "", err
	}
	return ds.Name, nil
}

// datasetError adds a hint when the dataset has not been imported.
func datasetError(name string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("dataset %q not found (run 'basketmine scan' or 'basketmine status' to list datasets)", name)
	}
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
