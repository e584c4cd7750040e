package snapshots

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/basketmine/internal/mining"
	"github.com/blackwell-systems/basketmine/internal/store"
)

// CreateSnapshot writes res as a golden snapshot of datasetName and returns
// the snapshot ID.
func (m *Manager) CreateSnapshot(datasetName string, params mining.Params, res *mining.Result) (int64, error) {
	if res == nil || res.Frequent == nil {
		return 0, fmt.Errorf("no result to snapshot")
	}

	if err := os.MkdirAll(m.snapshotDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	now := time.Now()
	data := NewSnapshotData(datasetName, params, res)
	data.CreatedAt = now

	// Filename: <dataset>-<algorithm>-YYYYMMDD-HHMMSS.000000.json
	filename := fmt.Sprintf("%s-%s-%s.json", datasetName, res.Algorithm, now.Format("20060102-150405.000000"))
	path := filepath.Join(m.snapshotDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal snapshot data: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return 0, fmt.Errorf("failed to write snapshot file: %w", err)
	}

	id, err := m.store.InsertSnapshot(&store.Snapshot{
		CreatedAt:     now,
		Dataset:       datasetName,
		Algorithm:     res.Algorithm,
		MinSupport:    data.MinSupport,
		MinConfidence: data.MinConfidence,
		ItemsetCount:  len(data.Itemsets),
		RuleCount:     len(data.Rules),
		SnapshotPath:  path,
	})
	if err != nil {
		// Try to clean up the JSON file if DB insert fails
		os.Remove(path)
		return 0, fmt.Errorf("failed to insert snapshot into database: %w", err)
	}

	return id, nil
}

// NewSnapshotData converts a mining result into its file form.
func NewSnapshotData(datasetName string, params mining.Params, res *mining.Result) *SnapshotData {
	data := &SnapshotData{
		Dataset:       datasetName,
		Algorithm:     res.Algorithm,
		MinSupport:    params.MinSupport.String(),
		MinConfidence: params.MinConfidence,
		Transactions:  res.Transactions,
		Items:         res.Items,
		Itemsets:      make([]*ItemsetSnapshot, 0, res.Frequent.Len()),
		Rules:         make([]*RuleSnapshot, 0, len(res.Rules)),
	}
	for _, e := range res.Frequent.Entries() {
		data.Itemsets = append(data.Itemsets, &ItemsetSnapshot{
			Items:   e.Itemset.Clone(),
			Count:   e.Count,
			Support: e.Support,
		})
	}
	for _, r := range res.Rules {
		data.Rules = append(data.Rules, &RuleSnapshot{
			Antecedent: r.Antecedent.Clone(),
			Consequent: r.Consequent.Clone(),
			Count:      r.Count,
			Support:    r.Support,
			Confidence: r.Confidence,
			Lift:       r.Lift,
		})
	}
	return data
}

// ListSnapshots returns all snapshots from the database.
func (m *Manager) ListSnapshots() ([]*store.Snapshot, error) {
	snapshots, err := m.store.ListSnapshots()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// CleanupOldSnapshots removes snapshot files older than maxAge and returns
// how many were removed. Database entries are kept as a history.
func (m *Manager) CleanupOldSnapshots(maxAge time.Duration) (int, error) {
	snapshots, err := m.store.ListSnapshots()
	if err != nil {
		return 0, fmt.Errorf("failed to list snapshots: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	deleted := 0
	for _, snapshot := range snapshots {
		if !snapshot.CreatedAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(snapshot.SnapshotPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return deleted, fmt.Errorf("failed to delete snapshot file %s: %w", snapshot.SnapshotPath, err)
		}
		deleted++
	}

	return deleted, nil
}
