package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketmine/internal/config"
)

const basketCSV = `TransactionID,Items
T001,"A,B,C"
T002,"A,B"
T003,"A,C"
T004,"B,C"
T005,"A,B,C"
`

// setupTestEnv points the package globals at a temp database, config
// directory and data directory, and restores them when the test ends.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()

	oldDB, oldCfg, oldConfigDir := dbPath, cfg, configDir
	t.Cleanup(func() {
		dbPath, cfg, configDir = oldDB, oldCfg, oldConfigDir
	})

	dbPath = filepath.Join(tmp, "test.db")
	configDir = filepath.Join(tmp, "config")

	c := config.Default()
	c.DataDir = filepath.Join(tmp, "data")
	c.SnapshotDir = filepath.Join(tmp, "snapshots")
	cfg = c

	return tmp
}

// writeBasket writes the five-transaction basket used across the tests.
func writeBasket(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(basketCSV), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	return cmd, buf
}

// setString overrides a flag variable for the duration of the test.
func setString(t *testing.T, target *string, value string) {
	t.Helper()
	old := *target
	*target = value
	t.Cleanup(func() { *target = old })
}

func setBool(t *testing.T, target *bool, value bool) {
	t.Helper()
	old := *target
	*target = value
	t.Cleanup(func() { *target = old })
}

func setInt(t *testing.T, target *int, value int) {
	t.Helper()
	old := *target
	*target = value
	t.Cleanup(func() { *target = old })
}
