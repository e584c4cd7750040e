package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/dataset"
	"github.com/blackwell-systems/basketmine/internal/output"
	"github.com/blackwell-systems/basketmine/internal/scanner"
	"github.com/blackwell-systems/basketmine/internal/store"
)

var (
	generateDir          string
	generateTransactions int
	generateNoImport     bool

	generateCmd = &cobra.Command{
		Use:   "generate [store...]",
		Short: "Write the built-in sample store datasets",
		Long: `Write deterministic transaction CSVs for the built-in stores (Amazon, BestBuy,
Walmart, Target, Costco) and import them into the database.

Each transaction starts from one of the store's common purchase patterns and
adds a few catalogue items chosen from a hash of the store name and the
transaction number, so the files are identical on every run.`,
		Example: `  # Generate every store into the data directory
  basketmine generate

  # Generate two stores with 100 transactions each
  basketmine generate Amazon Costco -n 100

  # Write the files only
  basketmine generate --dir ./data --no-import`,
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().StringVar(&generateDir, "dir", "", "output directory (default: configured data_dir)")
	generateCmd.Flags().IntVarP(&generateTransactions, "transactions", "n", 0, "transactions per store (default: configured transactions)")
	generateCmd.Flags().BoolVar(&generateNoImport, "no-import", false, "write CSV files without importing them")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	dir := generateDir
	if dir == "" {
		if dir, err = getDataDir(c); err != nil {
			return err
		}
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	n := generateTransactions
	if n == 0 {
		n = c.Transactions
	}
	if n <= 0 {
		return fmt.Errorf("transactions must be positive, got %d", n)
	}

	stores := dataset.Catalog()
	if len(args) > 0 {
		stores = stores[:0]
		for _, name := range args {
			s, ok := dataset.LookupStore(name)
			if !ok {
				return fmt.Errorf("unknown store %q", name)
			}
			stores = append(stores, s)
		}
	}

	var paths []string
	for _, s := range stores {
		path := filepath.Join(dir, dataset.FileName(s.Name))
		if err := dataset.Save(path, dataset.Generate(s, n)); err != nil {
			return err
		}
		paths = append(paths, path)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Wrote %d datasets (%d transactions each) to %s\n", len(paths), n, dir)

	if generateNoImport {
		return nil
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	s := scanner.New(db)
	imported := make([]*store.Dataset, 0, len(paths))
	for _, path := range paths {
		ds, _, err := s.ImportFile(path)
		if err != nil {
			return err
		}
		imported = append(imported, ds)
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderDatasetTable(imported))
	return nil
}
