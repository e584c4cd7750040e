package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/analyzer"
	"github.com/blackwell-systems/basketmine/internal/output"
)

var (
	explainAlgorithm     string
	explainMinSupport    string
	explainMinConfidence string

	explainCmd = &cobra.Command{
		Use:   "explain <dataset> <item> [item...]",
		Short: "Show the support of an itemset and the rules that cover it",
		Long: `Show how often an itemset occurs in a dataset, the support of each of its
subsets, whether it is frequent under the minimum support and which mined
rules contain all of its items.

Items that never occur in the dataset are listed separately. The run is not
recorded in the history.`,
		Example: `  # Why is this pair (not) frequent?
  basketmine explain Amazon Laptop Mouse

  # At an absolute count of 5 transactions
  basketmine explain Walmart Milk Bread --min-support 5`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("missing dataset or item\nUsage: basketmine explain <dataset> <item> [item...]")
			}
			return nil
		},
		RunE: runExplain,
	}
)

func init() {
	explainCmd.Flags().StringVarP(&explainAlgorithm, "algorithm", "a", "", "engine used to derive rules (default: configured algorithm)")
	explainCmd.Flags().StringVarP(&explainMinSupport, "min-support", "s", "", "minimum support, fraction or absolute count")
	explainCmd.Flags().StringVarP(&explainMinConfidence, "min-confidence", "c", "", "minimum confidence between 0 and 1")
}

func runExplain(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	params, err := resolveParams(c, explainMinSupport, explainMinConfidence)
	if err != nil {
		return err
	}

	algorithm := explainAlgorithm
	if algorithm == "" {
		algorithm = c.Algorithm
	}
	miner, err := newMiner(algorithm, c.MaxItems, nil)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	name := args[0]
	exp, err := analyzer.New(db).Explain(name, args[1:], miner, params)
	if err != nil {
		return datasetError(name, err)
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderExplanation(exp))
	return nil
}
