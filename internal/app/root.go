package app

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/config"
)

var (
	dbPath    string
	configDir string
	verbose   bool

	// cfg is loaded once per invocation by loadConfig.
	cfg *config.Config

	// RootCmd is the root command for basketmine
	RootCmd = &cobra.Command{
		Use:   "basketmine",
		Short: "Frequent itemset and association rule mining for transaction data",
		Long: `basketmine finds items that are bought together. It counts the support of
every candidate itemset in a transaction database, keeps the frequent ones and
derives association rules ranked by support, confidence and lift.

Three engines produce identical results:
  • bruteforce: counts every non-empty subset of the item universe
  • apriori:    grows candidates level by level from frequent itemsets
  • fpgrowth:   mines a compressed prefix tree without candidate generation

Quick Start:
  1. basketmine generate          # write and import the sample stores
  2. basketmine mine Amazon       # mine one dataset
  3. basketmine compare Amazon    # check the engines agree

Examples:
  # Import every CSV in a directory
  basketmine scan ./data

  # Mine a CSV file directly with an absolute support count
  basketmine mine baskets.csv --min-support 3

  # Keep only strong rules that predict milk
  basketmine mine Walmart --where 'lift > 1 && Has("Milk")'

  # Save a golden result and re-check it later
  basketmine snapshot create Amazon
  basketmine verify 1`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "basketmine: frequent itemset and association rule mining")
			fmt.Fprintln(out)
			path, _ := getDBPath()
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(out, "Run 'basketmine generate' to create sample datasets.")
			} else {
				fmt.Fprintln(out, "Tip: Run 'basketmine status' to see imported datasets.")
				fmt.Fprintln(out, "     Run 'basketmine mine <dataset>' to mine rules.")
			}
			fmt.Fprintln(out, "Run 'basketmine --help' for all commands.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.basketmine/basketmine.db)")
	RootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: $XDG_CONFIG_HOME/basketmine)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(generateCmd)
	RootCmd.AddCommand(scanCmd)
	RootCmd.AddCommand(mineCmd)
	RootCmd.AddCommand(compareCmd)
	RootCmd.AddCommand(explainCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(snapshotCmd)
	RootCmd.AddCommand(verifyCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(watchCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// setup configures logging and loads the config before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	configureLogging(verbose)
	cfg = nil
	_, err := loadConfig()
	return err
}

func configureLogging(debug bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

// loadConfig returns the active config, reading the config file and
// environment on first use.
func loadConfig() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}

	dir := configDir
	if dir == "" {
		d, err := config.Dir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config directory: %w", err)
		}
		dir = d
	}

	loaded, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if err := loaded.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	log.Debugf("config loaded from %s", dir)
	cfg = loaded
	return cfg, nil
}

// getDBPath returns the database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	path, err := config.DefaultDBPath()
	if err != nil {
		return "", err
	}

	// Create .basketmine directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create basketmine directory: %w", err)
	}

	return path, nil
}

// getDefaultPIDFile returns the default PID file path
func getDefaultPIDFile() (string, error) {
	return homeFile("watch.pid")
}

// getDefaultLogFile returns the default log file path
func getDefaultLogFile() (string, error) {
	return homeFile("watch.log")
}

func homeFile(name string) (string, error) {
	dir, err := config.HomeDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create basketmine directory: %w", err)
	}
	return filepath.Join(dir, name), nil
}
