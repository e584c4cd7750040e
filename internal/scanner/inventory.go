package scanner

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/blackwell-systems/basketmine/internal/dataset"
	"github.com/blackwell-systems/basketmine/internal/store"
)

const transactionsSuffix = "_transactions"

// DatasetName derives a dataset name from a file path:
// "data/Amazon_transactions.csv" becomes "Amazon".
func DatasetName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if trimmed := strings.TrimSuffix(name, transactionsSuffix); trimmed != "" {
		name = trimmed
	}
	return name
}

// ImportFile loads a transaction CSV and stores it under DatasetName(path),
// replacing a previous import of the same name. An unchanged file is not
// re-imported; changed reports whether the store was written.
func (s *Scanner) ImportFile(path string) (ds *store.Dataset, changed bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	sum := sha256.Sum256(raw)
	checksum := hex.EncodeToString(sum[:])

	name := DatasetName(path)
	if existing, err := s.store.GetDataset(name); err == nil && existing.Checksum == checksum {
		log.Debugf("scanner: %s unchanged, skipping", path)
		return existing, false, nil
	}

	txs, err := dataset.Read(bytes.NewReader(raw))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	ds, err = s.ImportTransactions(name, abs, checksum, txs)
	if err != nil {
		return nil, false, err
	}
	return ds, true, nil
}

// ImportTransactions stores txs as the dataset name.
func (s *Scanner) ImportTransactions(name, source, checksum string, txs []dataset.Transaction) (*store.Dataset, error) {
	ds := &store.Dataset{
		Name:       name,
		SourcePath: source,
		Items:      len(dataset.Database(txs).Universe()),
		Checksum:   checksum,
	}
	if err := s.store.ReplaceDataset(ds, txs); err != nil {
		return nil, fmt.Errorf("failed to store dataset %s: %w", name, err)
	}

	log.WithFields(log.Fields{
		"dataset":      name,
		"transactions": ds.Transactions,
		"items":        ds.Items,
	}).Debug("dataset imported")

	return ds, nil
}

// ScanResult reports what ScanDir did with each file.
type ScanResult struct {
	Imported  []*store.Dataset
	Unchanged []*store.Dataset
}

// ScanDir imports every *.csv file in dir in name order. The first failing
// file stops the scan.
func (s *Scanner) ScanDir(dir string) (*ScanResult, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(paths)

	res := &ScanResult{}
	for _, path := range paths {
		ds, changed, err := s.ImportFile(path)
		if err != nil {
			return res, err
		}
		if changed {
			res.Imported = append(res.Imported, ds)
		} else {
			res.Unchanged = append(res.Unchanged, ds)
		}
	}
	return res, nil
}

// GetInventory returns the imported datasets from the database.
func (s *Scanner) GetInventory() ([]*store.Dataset, error) {
	datasets, err := s.store.ListDatasets()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return datasets, nil
}
