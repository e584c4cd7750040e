package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/basketmine/internal/dataset"
)

// Dataset operations

// ReplaceDataset stores ds and its transactions, replacing any dataset of
// the same name along with its transactions.
func (s *Store) ReplaceDataset(ds *Dataset, txs []dataset.Transaction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM transactions WHERE dataset = ?", ds.Name); err != nil {
		return wrapErr(fmt.Sprintf("failed to clear transactions of %s", ds.Name), err)
	}

	query := `
		INSERT OR REPLACE INTO datasets
		(name, source_path, imported_at, transaction_count, item_count, checksum)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	importedAt := ds.ImportedAt
	if importedAt.IsZero() {
		importedAt = time.Now()
	}
	_, err = tx.Exec(query,
		ds.Name,
		ds.SourcePath,
		importedAt.Format(time.RFC3339),
		len(txs),
		ds.Items,
		ds.Checksum,
	)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to insert dataset %s", ds.Name), err)
	}

	stmt, err := tx.Prepare("INSERT INTO transactions (dataset, position, tx_id, items) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare transaction insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range txs {
		items := t.Items
		if items == nil {
			items = []string{}
		}
		itemsJSON, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("failed to marshal items of %s: %w", t.ID, err)
		}
		if _, err := stmt.Exec(ds.Name, i, t.ID, string(itemsJSON)); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset %s: %w", ds.Name, err)
	}

	ds.ImportedAt = importedAt
	ds.Transactions = len(txs)
	return nil
}

// GetDataset retrieves a dataset by name.
func (s *Store) GetDataset(name string) (*Dataset, error) {
	query := `
		SELECT name, source_path, imported_at, transaction_count, item_count, checksum
		FROM datasets
		WHERE name = ?
	`

	ds, err := scanDataset(s.db.QueryRow(query, name))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get dataset %s", name), err)
	}
	return ds, nil
}

// ListDatasets returns all datasets ordered by name.
func (s *Store) ListDatasets() ([]*Dataset, error) {
	query := `
		SELECT name, source_path, imported_at, transaction_count, item_count, checksum
		FROM datasets
		ORDER BY name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, wrapErr("failed to list datasets", err)
	}
	defer rows.Close()

	var datasets []*Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}
		datasets = append(datasets, ds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating datasets: %w", err)
	}

	return datasets, nil
}

// DeleteDataset removes a dataset and its transactions.
func (s *Store) DeleteDataset(name string) error {
	result, err := s.db.Exec("DELETE FROM datasets WHERE name = ?", name)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to delete dataset %s", name), err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dataset %s: %w", name, ErrNotFound)
	}

	return nil
}

// GetTransactions returns the transactions of a dataset in import order.
func (s *Store) GetTransactions(name string) ([]dataset.Transaction, error) {
	if _, err := s.GetDataset(name); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT tx_id, items FROM transactions WHERE dataset = ? ORDER BY position", name)
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get transactions of %s", name), err)
	}
	defer rows.Close()

	var txs []dataset.Transaction
	for rows.Next() {
		var t dataset.Transaction
		var itemsJSON string
		if err := rows.Scan(&t.ID, &itemsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &t.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items of %s: %w", t.ID, err)
		}
		if len(t.Items) == 0 {
			t.Items = nil
		}
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (*Dataset, error) {
	var ds Dataset
	var importedAt string
	var sourcePath, checksum sql.NullString

	err := row.Scan(
		&ds.Name,
		&sourcePath,
		&importedAt,
		&ds.Transactions,
		&ds.Items,
		&checksum,
	)
	if err != nil {
		return nil, err
	}
	ds.SourcePath = sourcePath.String
	ds.Checksum = checksum.String

	ds.ImportedAt, err = time.Parse(time.RFC3339, importedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse imported_at for %s: %w", ds.Name, err)
	}
	return &ds, nil
}

// Run operations

// runTimeLayout is fixed width so started_at sorts as text. It is only used
// for writing: the driver may hand the column back as a time value rendered
// with trailing zeros trimmed, so reads parse with time.RFC3339Nano.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// InsertRun records a mining run, assigning a new ID when run.ID is empty.
func (s *Store) InsertRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	query := `
		INSERT INTO runs
		(id, dataset, algorithm, min_support, min_confidence, transaction_count,
		 itemset_count, rule_count, candidate_count, elapsed_ns, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		run.ID,
		run.Dataset,
		run.Algorithm,
		run.MinSupport,
		run.MinConfidence,
		run.Transactions,
		run.Itemsets,
		run.Rules,
		run.Candidates,
		int64(run.Elapsed),
		run.StartedAt.UTC().Format(runTimeLayout),
	)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to insert run %s", run.ID), err)
	}

	return nil
}

const runColumns = `id, dataset, algorithm, min_support, min_confidence, transaction_count,
		 itemset_count, rule_count, candidate_count, elapsed_ns, started_at`

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	query := "SELECT " + runColumns + " FROM runs WHERE id = ?"

	run, err := scanRun(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get run %s", id), err)
	}
	return run, nil
}

// ListRuns returns runs newest first. An empty datasetName lists runs of
// every dataset; a limit of zero or less returns all of them.
func (s *Store) ListRuns(datasetName string, limit int) ([]*Run, error) {
	query := "SELECT " + runColumns + " FROM runs"
	var args []any
	if datasetName != "" {
		query += " WHERE dataset = ?"
		args = append(args, datasetName)
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapErr("failed to list runs", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var elapsed int64
	var startedAt string

	err := row.Scan(
		&run.ID,
		&run.Dataset,
		&run.Algorithm,
		&run.MinSupport,
		&run.MinConfidence,
		&run.Transactions,
		&run.Itemsets,
		&run.Rules,
		&run.Candidates,
		&elapsed,
		&startedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Elapsed = time.Duration(elapsed)

	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at for run %s: %w", run.ID, err)
	}
	return &run, nil
}

// GetRunCount returns the total number of runs recorded.
func (s *Store) GetRunCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	if err != nil {
		return 0, wrapErr("failed to get run count", err)
	}
	return count, nil
}

// GetLastRunTime returns when the most recent run started.
// Returns zero time if no runs exist.
func (s *Store) GetLastRunTime() (time.Time, error) {
	var timestamp sql.NullString
	err := s.db.QueryRow("SELECT MAX(started_at) FROM runs").Scan(&timestamp)
	if err == sql.ErrNoRows || (err == nil && !timestamp.Valid) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, wrapErr("failed to get last run time", err)
	}

	t, err := time.Parse(time.RFC3339Nano, timestamp.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	return t, nil
}

// Snapshot operations

// InsertSnapshot records a snapshot and returns its ID.
func (s *Store) InsertSnapshot(snap *Snapshot) (int64, error) {
	query := `
		INSERT INTO snapshots
		(created_at, dataset, algorithm, min_support, min_confidence, itemset_count, rule_count, snapshot_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := snap.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	result, err := s.db.Exec(query,
		createdAt.Format(time.RFC3339),
		snap.Dataset,
		snap.Algorithm,
		snap.MinSupport,
		snap.MinConfidence,
		snap.ItemsetCount,
		snap.RuleCount,
		snap.SnapshotPath,
	)
	if err != nil {
		return 0, wrapErr("failed to insert snapshot", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot ID: %w", err)
	}

	snap.ID = id
	snap.CreatedAt = createdAt
	return id, nil
}

const snapshotColumns = `id, created_at, dataset, algorithm, min_support, min_confidence,
		itemset_count, rule_count, snapshot_path`

// GetSnapshot retrieves a snapshot by ID.
func (s *Store) GetSnapshot(id int64) (*Snapshot, error) {
	query := "SELECT " + snapshotColumns + " FROM snapshots WHERE id = ?"

	snapshot, err := scanSnapshot(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get snapshot %d", id), err)
	}
	return snapshot, nil
}

// ListSnapshots returns all snapshots, newest first.
func (s *Store) ListSnapshots() ([]*Snapshot, error) {
	query := "SELECT " + snapshotColumns + " FROM snapshots ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, wrapErr("failed to list snapshots", err)
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var snapshot Snapshot
	var createdAt string

	err := row.Scan(
		&snapshot.ID,
		&createdAt,
		&snapshot.Dataset,
		&snapshot.Algorithm,
		&snapshot.MinSupport,
		&snapshot.MinConfidence,
		&snapshot.ItemsetCount,
		&snapshot.RuleCount,
		&snapshot.SnapshotPath,
	)
	if err != nil {
		return nil, err
	}

	snapshot.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for snapshot %d: %w", snapshot.ID, err)
	}
	return &snapshot, nil
}
