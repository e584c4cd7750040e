package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cast"

	"github.com/blackwell-systems/basketmine/internal/apriori"
	"github.com/blackwell-systems/basketmine/internal/config"
	"github.com/blackwell-systems/basketmine/internal/fpgrowth"
	"github.com/blackwell-systems/basketmine/internal/mining"
	"github.com/blackwell-systems/basketmine/internal/output"
	"github.com/blackwell-systems/basketmine/internal/store"
)

// Algorithms lists the engine names accepted by --algorithm.
var Algorithms = []string{mining.AlgorithmBruteForce, apriori.Name, fpgrowth.Name}

// openStore opens the database and makes sure the schema exists.
func openStore() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}

	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}

	return db, nil
}

// getDataDir returns the configured data directory, creating it if needed.
func getDataDir(c *config.Config) (string, error) {
	if c.DataDir == "" {
		return "", fmt.Errorf("no data directory configured")
	}
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return c.DataDir, nil
}

// getSnapshotDir returns the directory for snapshot storage.
// Uses $HOME/.basketmine/snapshots by default.
func getSnapshotDir(c *config.Config) string {
	if c.SnapshotDir != "" {
		return c.SnapshotDir
	}
	// Fallback to current directory
	return "snapshots"
}

// newMiner builds the named engine. maxItems bounds the brute-force universe
// and progress, when set, reports its candidate scan.
func newMiner(name string, maxItems int, progress func(done, total int)) (mining.Miner, error) {
	switch strings.ToLower(name) {
	case mining.AlgorithmBruteForce, "":
		return &mining.BruteForce{MaxItems: maxItems, Progress: progress}, nil
	case apriori.Name:
		return apriori.New(), nil
	case fpgrowth.Name:
		return fpgrowth.New(), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q (choose from %s)", name, strings.Join(Algorithms, ", "))
	}
}

// resolveParams applies flag overrides on top of the config thresholds.
// Empty flag values keep the configured ones.
func resolveParams(c *config.Config, minSupport, minConfidence string) (mining.Params, error) {
	p, err := c.Params()
	if err != nil {
		return mining.Params{}, err
	}

	if minSupport != "" {
		t, err := mining.ParseThreshold(minSupport)
		if err != nil {
			return mining.Params{}, fmt.Errorf("--min-support: %w", err)
		}
		p.MinSupport = t
	}

	if minConfidence != "" {
		f, err := cast.ToFloat64E(strings.TrimSpace(minConfidence))
		if err != nil {
			return mining.Params{}, fmt.Errorf("--min-confidence: %w: %q is not a number", mining.ErrInvalidParameter, minConfidence)
		}
		if err := mining.ValidateConfidence(f); err != nil {
			return mining.Params{}, fmt.Errorf("--min-confidence: %w", err)
		}
		p.MinConfidence = f
	}

	return p, nil
}

// stderrIsTTY reports whether progress output would reach a terminal.
func stderrIsTTY() bool {
	return isatty.IsTerminal(os.Stderr.Fd())
}

// candidateProgress returns a progress callback for long brute-force scans,
// or nil when stderr is not a terminal.
func candidateProgress(quiet bool) (func(done, total int), func()) {
	if quiet || !stderrIsTTY() {
		return nil, func() {}
	}
	bar := output.NewProgress(0, "Counting candidates")
	started := false
	return func(done, total int) {
			started = true
			bar.Update(done, total)
		}, func() {
			if started {
				bar.Finish()
			}
		}
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
