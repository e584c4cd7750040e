package store

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
    name TEXT PRIMARY KEY,
    source_path TEXT,
    imported_at TIMESTAMP NOT NULL,
    transaction_count INTEGER NOT NULL,
    item_count INTEGER NOT NULL,
    checksum TEXT
);

CREATE TABLE IF NOT EXISTS transactions (
    dataset TEXT NOT NULL,
    position INTEGER NOT NULL,
    tx_id TEXT NOT NULL,
    items TEXT NOT NULL,
    PRIMARY KEY (dataset, position),
    FOREIGN KEY (dataset) REFERENCES datasets(name) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    dataset TEXT NOT NULL,
    algorithm TEXT NOT NULL,
    min_support TEXT NOT NULL,
    min_confidence REAL NOT NULL,
    transaction_count INTEGER NOT NULL,
    itemset_count INTEGER NOT NULL,
    rule_count INTEGER NOT NULL,
    candidate_count INTEGER NOT NULL,
    elapsed_ns INTEGER NOT NULL,
    started_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL,
    dataset TEXT NOT NULL,
    algorithm TEXT NOT NULL,
    min_support TEXT NOT NULL,
    min_confidence REAL NOT NULL,
    itemset_count INTEGER NOT NULL,
    rule_count INTEGER NOT NULL,
    snapshot_path TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_dataset ON transactions(dataset);
CREATE INDEX IF NOT EXISTS idx_runs_dataset ON runs(dataset);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_snapshots_dataset ON snapshots(dataset);
`
