package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/analyzer"
	"github.com/blackwell-systems/basketmine/internal/output"
	"github.com/blackwell-systems/basketmine/internal/snapshots"
)

var (
	snapshotAlgorithm     string
	snapshotMinSupport    string
	snapshotMinConfidence string
	snapshotPruneDays     int

	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Manage golden mining results",
		Long: `Save mining results as golden snapshots and manage them.

A snapshot stores every frequent itemset and rule, in order, as a JSON file
together with the thresholds that produced it. 'basketmine verify' re-mines
the dataset and checks the fresh result against the snapshot.`,
	}

	snapshotCreateCmd = &cobra.Command{
		Use:   "create <dataset>",
		Short: "Mine a dataset and save the result as a snapshot",
		Example: `  # Snapshot Amazon with the configured thresholds
  basketmine snapshot create Amazon

  # Snapshot an FP-Growth run at a count threshold
  basketmine snapshot create Costco --algorithm fpgrowth --min-support 4`,
		Args: cobra.ExactArgs(1),
		RunE: runSnapshotCreate,
	}

	snapshotListCmd = &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		Args:  cobra.NoArgs,
		RunE:  runSnapshotList,
	}

	snapshotPruneCmd = &cobra.Command{
		Use:   "prune",
		Short: "Delete snapshot files older than a number of days",
		Example: `  # Remove snapshot files older than 30 days
  basketmine snapshot prune --days 30`,
		Args: cobra.NoArgs,
		RunE: runSnapshotPrune,
	}
)

func init() {
	snapshotCreateCmd.Flags().StringVarP(&snapshotAlgorithm, "algorithm", "a", "", "mining engine (default: configured algorithm)")
	snapshotCreateCmd.Flags().StringVarP(&snapshotMinSupport, "min-support", "s", "", "minimum support, fraction or absolute count")
	snapshotCreateCmd.Flags().StringVarP(&snapshotMinConfidence, "min-confidence", "c", "", "minimum confidence between 0 and 1")
	snapshotPruneCmd.Flags().IntVar(&snapshotPruneDays, "days", 30, "delete snapshot files older than this many days")

	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotPruneCmd)
}

func runSnapshotCreate(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	params, err := resolveParams(c, snapshotMinSupport, snapshotMinConfidence)
	if err != nil {
		return err
	}

	algorithm := snapshotAlgorithm
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
	res, _, err := analyzer.New(db).Run(name, miner, params)
	if err != nil {
		return datasetError(name, err)
	}

	mgr := snapshots.New(db, getSnapshotDir(c))
	id, err := mgr.CreateSnapshot(name, params, res)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Snapshot %d saved: %s\n", id, output.RenderSummary(name, res))
	fmt.Fprintf(out, "  Verify with: basketmine verify %d\n", id)
	return nil
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := snapshots.New(db, getSnapshotDir(c)).ListSnapshots()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), output.RenderSnapshotTable(list))
	return nil
}

func runSnapshotPrune(cmd *cobra.Command, args []string) error {
	if snapshotPruneDays < 0 {
		return fmt.Errorf("--days must not be negative, got %d", snapshotPruneDays)
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

	maxAge := time.Duration(snapshotPruneDays) * 24 * time.Hour
	deleted, err := snapshots.New(db, getSnapshotDir(c)).CleanupOldSnapshots(maxAge)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d snapshot files older than %d days\n", deleted, snapshotPruneDays)
	return nil
}
