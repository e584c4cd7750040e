package snapshots

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/basketmine/internal/apriori"
	"github.com/blackwell-systems/basketmine/internal/compare"
	"github.com/blackwell-systems/basketmine/internal/dataset"
	"github.com/blackwell-systems/basketmine/internal/fpgrowth"
	"github.com/blackwell-systems/basketmine/internal/mining"
	"github.com/blackwell-systems/basketmine/internal/store"
)

var params = mining.Params{MinSupport: mining.SupportFraction(0.2), MinConfidence: 0.6}

func setup(t *testing.T) (*Manager, *store.Store, *mining.Result) {
	t.Helper()

	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.CreateSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	amazon, _ := dataset.LookupStore("Amazon")
	txs := dataset.Generate(amazon, dataset.DefaultTransactions)
	if err := db.ReplaceDataset(&store.Dataset{Name: "Amazon"}, txs); err != nil {
		t.Fatalf("Failed to insert dataset: %v", err)
	}

	res, err := (&mining.BruteForce{}).Mine(dataset.Database(txs), params)
	if err != nil {
		t.Fatalf("Mine() failed: %v", err)
	}

	return New(db, filepath.Join(t.TempDir(), "snapshots")), db, res
}

func TestCreateSnapshot(t *testing.T) {
	m, db, res := setup(t)

	id, err := m.CreateSnapshot("Amazon", params, res)
	if err != nil {
		t.Fatalf("CreateSnapshot() failed: %v", err)
	}

	snapshot, err := db.GetSnapshot(id)
	if err != nil {
		t.Fatalf("GetSnapshot() failed: %v", err)
	}
	if snapshot.ItemsetCount != 18 || snapshot.RuleCount != 15 {
		t.Errorf("snapshot counts = %d/%d, want 18/15", snapshot.ItemsetCount, snapshot.RuleCount)
	}
	if snapshot.MinSupport != "0.2" {
		t.Errorf("MinSupport = %q, want 0.2", snapshot.MinSupport)
	}
	if !strings.HasPrefix(filepath.Base(snapshot.SnapshotPath), "Amazon-bruteforce-") {
		t.Errorf("unexpected snapshot file name %s", snapshot.SnapshotPath)
	}

	raw, err := os.ReadFile(snapshot.SnapshotPath)
	if err != nil {
		t.Fatalf("Failed to read snapshot file: %v", err)
	}
	var data SnapshotData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("Snapshot file is not valid JSON: %v", err)
	}
	if data.Dataset != "Amazon" || len(data.Rules) != 15 {
		t.Errorf("snapshot data = %s with %d rules", data.Dataset, len(data.Rules))
	}
	if got := data.Rules[0]; got.Antecedent[0] != "HDMI_Cable" || got.Consequent[0] != "Router" {
		t.Errorf("first rule = %v -> %v", got.Antecedent, got.Consequent)
	}
}

func TestCreateSnapshotNoResult(t *testing.T) {
	m, _, _ := setup(t)
	if _, err := m.CreateSnapshot("Amazon", params, nil); err == nil {
		t.Error("CreateSnapshot(nil) should fail")
	}
}

func TestLoadSnapshotRoundTrip(t *testing.T) {
	m, _, res := setup(t)

	id, err := m.CreateSnapshot("Amazon", params, res)
	if err != nil {
		t.Fatalf("CreateSnapshot() failed: %v", err)
	}

	_, data, err := m.LoadSnapshot(id)
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}
	p, err := data.Params()
	if err != nil {
		t.Fatalf("Params() failed: %v", err)
	}
	if p != params {
		t.Errorf("Params() = %+v, want %+v", p, params)
	}

	report := compare.Results(res, data.Result(), compare.Options{StrictOrder: true})
	if !report.Equivalent() {
		t.Errorf("loaded result differs: %v", report.Differences())
	}
}

func TestVerify(t *testing.T) {
	m, _, res := setup(t)

	id, err := m.CreateSnapshot("Amazon", params, res)
	if err != nil {
		t.Fatalf("CreateSnapshot() failed: %v", err)
	}

	for _, miner := range []mining.Miner{&mining.BruteForce{}, apriori.New(), fpgrowth.New()} {
		report, err := m.Verify(id, miner, compare.Options{})
		if err != nil {
			t.Fatalf("Verify(%s) failed: %v", miner.Name(), err)
		}
		if !report.Equivalent() {
			t.Errorf("Verify(%s) differences: %v", miner.Name(), report.Differences())
		}
	}
}

func TestVerifyDetectsDrift(t *testing.T) {
	m, db, res := setup(t)

	id, err := m.CreateSnapshot("Amazon", params, res)
	if err != nil {
		t.Fatalf("CreateSnapshot() failed: %v", err)
	}

	// Re-import a different dataset under the same name
	walmart, _ := dataset.LookupStore("Walmart")
	if err := db.ReplaceDataset(&store.Dataset{Name: "Amazon"}, dataset.Generate(walmart, 25)); err != nil {
		t.Fatalf("ReplaceDataset() failed: %v", err)
	}

	report, err := m.Verify(id, &mining.BruteForce{MaxItems: 20}, compare.Options{})
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}
	if report.Equivalent() {
		t.Error("Verify() should report differences after the dataset changed")
	}
}

func TestListAndCleanupSnapshots(t *testing.T) {
	m, db, res := setup(t)

	if _, err := m.CreateSnapshot("Amazon", params, res); err != nil {
		t.Fatalf("CreateSnapshot() failed: %v", err)
	}

	old := filepath.Join(m.snapshotDir, "old.json")
	if err := os.WriteFile(old, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertSnapshot(&store.Snapshot{
		CreatedAt:    time.Now().AddDate(0, 0, -120),
		Dataset:      "Amazon",
		Algorithm:    "apriori",
		MinSupport:   "0.2",
		SnapshotPath: old,
	}); err != nil {
		t.Fatalf("InsertSnapshot() failed: %v", err)
	}

	list, err := m.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListSnapshots() returned %d, want 2", len(list))
	}

	deleted, err := m.CleanupOldSnapshots(90 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("CleanupOldSnapshots() failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted %d files, want 1", deleted)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old snapshot file should be removed")
	}
	if _, err := os.Stat(list[0].SnapshotPath); err != nil {
		t.Errorf("recent snapshot file should remain: %v", err)
	}
}
