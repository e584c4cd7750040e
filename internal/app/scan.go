package app

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/output"
	"github.com/blackwell-systems/basketmine/internal/scanner"
)

var (
	scanQuiet bool

	scanCmd = &cobra.Command{
		Use:   "scan [dir]",
		Short: "Import transaction CSV files into the database",
		Long: `Import every *.csv file in a directory into the basketmine database.

Each file becomes a dataset named after the file: Amazon_transactions.csv is
stored as "Amazon". Files whose contents have not changed since the last import
are skipped. The file must have a header row with an Items column; items inside
that column are separated by commas.

The scan command should be run:
  • After adding or editing transaction files by hand
  • When the watcher is not running`,
		Example: `  # Scan the configured data directory
  basketmine scan

  # Scan a specific directory
  basketmine scan ./exports

  # Scan quietly (suppress output)
  basketmine scan --quiet`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
)

func init() {
	scanCmd.Flags().BoolVar(&scanQuiet, "quiet", false, "suppress output")
}

func runScan(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	var dir string
	if len(args) == 1 {
		dir = args[0]
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("cannot scan %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory (use 'basketmine mine %s' for a single file)", dir, dir)
		}
	} else if dir, err = getDataDir(c); err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	isTTY := isatty.IsTerminal(os.Stdout.Fd())

	var spinner *output.Spinner
	if !scanQuiet && isTTY {
		spinner = output.NewSpinner(fmt.Sprintf("Scanning %s...", dir))
		spinner.SetWriter(out)
		spinner.Start()
	}

	s := scanner.New(db)
	result, err := s.ScanDir(dir)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if scanQuiet {
		return nil
	}

	total := len(result.Imported) + len(result.Unchanged)
	if total == 0 {
		fmt.Fprintf(out, "No CSV files found in %s\n", dir)
		fmt.Fprintln(out, "Run 'basketmine generate' to create sample datasets.")
		return nil
	}
	if len(result.Imported) == 0 {
		fmt.Fprintf(out, "✓ Database up to date (%d datasets, 0 changes)\n", total)
		return nil
	}

	fmt.Fprintf(out, "✓ Imported %d datasets (%d unchanged)\n\n", len(result.Imported), len(result.Unchanged))

	datasets, err := s.GetInventory()
	if err != nil {
		return err
	}
	fmt.Fprint(out, output.RenderDatasetTable(datasets))
	return nil
}
