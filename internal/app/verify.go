package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/compare"
	"github.com/blackwell-systems/basketmine/internal/output"
	"github.com/blackwell-systems/basketmine/internal/snapshots"
)

var (
	verifyAlgorithms []string

	verifyCmd = &cobra.Command{
		Use:   "verify <snapshot-id>",
		Short: "Re-mine a snapshot's dataset and compare against it",
		Long: `Re-mine the dataset of a saved snapshot with the snapshot's thresholds and
check that every engine reproduces it: the same frequent itemsets, the same
rules in the same order, and metrics within the configured tolerance.

The command fails when any engine disagrees with the snapshot.`,
		Example: `  # Check every engine against snapshot 1
  basketmine verify 1

  # Check only apriori
  basketmine verify 1 --algorithms apriori`,
		Args: cobra.ExactArgs(1),
		RunE: runVerify,
	}
)

func init() {
	verifyCmd.Flags().StringSliceVar(&verifyAlgorithms, "algorithms", Algorithms, "engines to verify")
}

func runVerify(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snapshot ID %q", args[0])
	}

	c, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	mgr := snapshots.New(db, getSnapshotDir(c))
	snap, _, err := mgr.LoadSnapshot(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Snapshot %d: %s · %s · support %s · confidence %.2f\n\n",
		snap.ID, snap.Dataset, snap.Algorithm, snap.MinSupport, snap.MinConfidence)

	failed := 0
	for _, name := range verifyAlgorithms {
		miner, err := newMiner(name, c.MaxItems, nil)
		if err != nil {
			return err
		}
		report, err := mgr.Verify(id, miner, compare.Options{Tolerance: c.Tolerance})
		if err != nil {
			return err
		}
		fmt.Fprint(out, output.RenderComparison(fmt.Sprintf("snapshot %d", id), miner.Name(), report))
		if !report.Equivalent() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d engines disagree with snapshot %d", failed, len(verifyAlgorithms), id)
	}
	return nil
}
