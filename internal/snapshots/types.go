package snapshots

import (
	"time"

	"github.com/blackwell-systems/basketmine/internal/store"
)

// SnapshotData represents the JSON structure stored in snapshot files.
type SnapshotData struct {
	CreatedAt     time.Time          `json:"created_at"`
	Dataset       string             `json:"dataset"`
	Algorithm     string             `json:"algorithm"`
	MinSupport    string             `json:"min_support"`
	MinConfidence float64            `json:"min_confidence"`
	Transactions  int                `json:"transactions"`
	Items         int                `json:"items"`
	Itemsets      []*ItemsetSnapshot `json:"itemsets"`
	Rules         []*RuleSnapshot    `json:"rules"`
}

// ItemsetSnapshot is a frequent itemset in a snapshot file.
type ItemsetSnapshot struct {
	Items   []string `json:"items"`
	Count   int      `json:"count"`
	Support float64  `json:"support"`
}

// RuleSnapshot is an association rule in a snapshot file.
type RuleSnapshot struct {
	Antecedent []string `json:"antecedent"`
	Consequent []string `json:"consequent"`
	Count      int      `json:"count"`
	Support    float64  `json:"support"`
	Confidence float64  `json:"confidence"`
	Lift       float64  `json:"lift"`
}

// Manager manages snapshot creation, loading and verification.
type Manager struct {
	store       *store.Store
	snapshotDir string
}

// New creates a new snapshot Manager.
func New(store *store.Store, snapshotDir string) *Manager {
	return &Manager{
		store:       store,
		snapshotDir: snapshotDir,
	}
}
