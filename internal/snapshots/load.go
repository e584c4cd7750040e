package snapshots

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackwell-systems/basketmine/internal/compare"
	"github.com/blackwell-systems/basketmine/internal/dataset"
	"github.com/blackwell-systems/basketmine/internal/mining"
	"github.com/blackwell-systems/basketmine/internal/store"
)

// LoadSnapshot returns the metadata and contents of a snapshot.
func (m *Manager) LoadSnapshot(id int64) (*store.Snapshot, *SnapshotData, error) {
	snapshot, err := m.store.GetSnapshot(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	data, err := loadSnapshotFile(snapshot.SnapshotPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshot file: %w", err)
	}

	return snapshot, data, nil
}

// Params returns the mining parameters the snapshot was taken with.
func (d *SnapshotData) Params() (mining.Params, error) {
	minSupport, err := mining.ParseThreshold(d.MinSupport)
	if err != nil {
		return mining.Params{}, err
	}
	p := mining.Params{MinSupport: minSupport, MinConfidence: d.MinConfidence}
	return p, p.Validate()
}

// Result rebuilds the mining result stored in the snapshot, keeping the
// stored rule order.
func (d *SnapshotData) Result() *mining.Result {
	entries := make([]mining.ItemsetSupport, 0, len(d.Itemsets))
	for _, is := range d.Itemsets {
		entries = append(entries, mining.ItemsetSupport{
			Itemset: mining.NewItemset(is.Items...),
			Count:   is.Count,
			Support: is.Support,
		})
	}

	rules := make([]mining.Rule, 0, len(d.Rules))
	for _, r := range d.Rules {
		rules = append(rules, mining.Rule{
			Antecedent: mining.NewItemset(r.Antecedent...),
			Consequent: mining.NewItemset(r.Consequent...),
			Count:      r.Count,
			Support:    r.Support,
			Confidence: r.Confidence,
			Lift:       r.Lift,
		})
	}

	return &mining.Result{
		Algorithm:    d.Algorithm,
		Transactions: d.Transactions,
		Items:        d.Items,
		Frequent:     mining.NewSupportRecord(d.Transactions, entries),
		Rules:        rules,
	}
}

// Verify re-mines the snapshot's dataset with miner under the snapshot's
// parameters and compares the fresh result against the stored one, rule
// order included.
func (m *Manager) Verify(id int64, miner mining.Miner, opts compare.Options) (*compare.Report, error) {
	snapshot, data, err := m.LoadSnapshot(id)
	if err != nil {
		return nil, err
	}

	params, err := data.Params()
	if err != nil {
		return nil, fmt.Errorf("snapshot %d has invalid parameters: %w", id, err)
	}

	txs, err := m.store.GetTransactions(snapshot.Dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", snapshot.Dataset, err)
	}

	fresh, err := miner.Mine(dataset.Database(txs), params)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", miner.Name(), snapshot.Dataset, err)
	}

	opts.StrictOrder = true
	return compare.Results(data.Result(), fresh, opts), nil
}

// loadSnapshotFile reads and parses a snapshot JSON file.
func loadSnapshotFile(path string) (*SnapshotData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var data SnapshotData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}

	return &data, nil
}
