package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/basketmine/internal/dataset"
	"github.com/blackwell-systems/basketmine/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := st.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestDatasetName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"Amazon_transactions.csv", "Amazon"},
		{"/data/BestBuy_transactions.csv", "BestBuy"},
		{"baskets.csv", "baskets"},
		{"_transactions.csv", "_transactions"},
		{"dir/weekly.data.csv", "weekly.data"},
	}
	for _, tt := range tests {
		if got := DatasetName(tt.path); got != tt.want {
			t.Errorf("DatasetName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	if _, err := dataset.GenerateAll(dir, 10); err != nil {
		t.Fatalf("GenerateAll() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(setupTestStore(t))
	res, err := s.ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir() failed: %v", err)
	}
	if len(res.Imported) != 5 {
		t.Fatalf("imported %d datasets, want 5", len(res.Imported))
	}

	inventory, err := s.GetInventory()
	if err != nil {
		t.Fatalf("GetInventory() failed: %v", err)
	}
	want := []string{"Amazon", "BestBuy", "Costco", "Target", "Walmart"}
	for i, ds := range inventory {
		if ds.Name != want[i] {
			t.Errorf("inventory[%d] = %s, want %s", i, ds.Name, want[i])
		}
		if ds.Transactions != 10 {
			t.Errorf("%s has %d transactions, want 10", ds.Name, ds.Transactions)
		}
		if ds.Checksum == "" {
			t.Errorf("%s has no checksum", ds.Name)
		}
	}

	// A second scan finds nothing new
	res, err = s.ScanDir(dir)
	if err != nil {
		t.Fatalf("second ScanDir() failed: %v", err)
	}
	if len(res.Imported) != 0 || len(res.Unchanged) != 5 {
		t.Errorf("second scan imported %d, unchanged %d; want 0, 5", len(res.Imported), len(res.Unchanged))
	}
}

func TestImportFileReimportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Shop_transactions.csv")
	write := func(content string) {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	st := setupTestStore(t)
	s := New(st)

	write("TransactionID,Items\nT001,\"A,B\"\n")
	ds, changed, err := s.ImportFile(path)
	if err != nil || !changed {
		t.Fatalf("ImportFile() = %v, %v", changed, err)
	}
	if ds.Name != "Shop" || ds.Items != 2 {
		t.Errorf("dataset = %+v", ds)
	}

	write("TransactionID,Items\nT001,\"A,B\"\nT002,C\n")
	_, changed, err = s.ImportFile(path)
	if err != nil || !changed {
		t.Fatalf("ImportFile() after change = %v, %v", changed, err)
	}

	txs, err := st.GetTransactions("Shop")
	if err != nil {
		t.Fatalf("GetTransactions() failed: %v", err)
	}
	if len(txs) != 2 {
		t.Errorf("got %d transactions, want 2", len(txs))
	}
}

func TestImportFileErrors(t *testing.T) {
	dir := t.TempDir()
	s := New(setupTestStore(t))

	if _, _, err := s.ImportFile(filepath.Join(dir, "missing.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(bad, []byte("Products\nA\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.ImportFile(bad); !errors.Is(err, dataset.ErrMissingColumn) {
		t.Errorf("bad file error = %v, want ErrMissingColumn", err)
	}
}
