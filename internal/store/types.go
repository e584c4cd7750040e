package store

import "time"

// Dataset describes an imported transaction database.
type Dataset struct {
	Name         string
	SourcePath   string
	ImportedAt   time.Time
	Transactions int
	Items        int    // distinct items
	Checksum     string // sha256 of the source file, empty when generated in memory
}

// Run records one mining pass over a dataset.
type Run struct {
	ID            string
	Dataset       string
	Algorithm     string
	MinSupport    string // threshold as entered, "0.4" or "3"
	MinConfidence float64
	Transactions  int
	Itemsets      int
	Rules         int
	Candidates    int
	Elapsed       time.Duration
	StartedAt     time.Time
}

// Snapshot is a saved mining result used as a golden reference.
type Snapshot struct {
	ID            int64
	CreatedAt     time.Time
	Dataset       string
	Algorithm     string
	MinSupport    string
	MinConfidence float64
	ItemsetCount  int
	RuleCount     int
	SnapshotPath  string
}
