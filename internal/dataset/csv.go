// Package dataset reads and writes transaction CSV files, generates the
// deterministic store datasets and exports mining results.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

const (
	idColumn    = "TransactionID"
	itemsColumn = "Items"
	itemSep     = ","
)

var (
	// ErrMissingColumn is returned when the header has no Items column.
	ErrMissingColumn = errors.New("missing column")

	// ErrMalformedRow is returned for a row that cannot be parsed.
	ErrMalformedRow = errors.New("malformed row")
)

// Transaction is one row of a transaction file.
type Transaction struct {
	ID    string
	Items []mining.Item
}

// Read parses transactions from r. The header must name an Items column
// (case-insensitive); a TransactionID column is optional and rows without
// one are numbered T001, T002, ... Items are split on commas and trimmed,
// blanks are dropped, and a row with no items is kept as an empty
// transaction. Items containing control characters are rejected so they
// cannot collide with itemset keys.
func Read(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s (empty file)", ErrMissingColumn, itemsColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idCol, itemsCol := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case strings.EqualFold(name, itemsColumn):
			itemsCol = i
		case strings.EqualFold(name, idColumn):
			idCol = i
		}
	}
	if itemsCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, itemsColumn)
	}

	var txs []Transaction
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		if len(rec) <= itemsCol {
			return nil, fmt.Errorf("%w: line %d has %d fields, want at least %d",
				ErrMalformedRow, line, len(rec), itemsCol+1)
		}

		tx := Transaction{ID: transactionID(len(txs))}
		if idCol >= 0 && idCol < len(rec) && strings.TrimSpace(rec[idCol]) != "" {
			tx.ID = strings.TrimSpace(rec[idCol])
		}
		tx.Items = splitItems(rec[itemsCol])
		for _, it := range tx.Items {
			if strings.ContainsFunc(it, unicode.IsControl) {
				return nil, fmt.Errorf("%w: line %d: item %q contains a control character",
					ErrMalformedRow, line, it)
			}
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// Load reads the transaction file at path.
func Load(path string) ([]Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	txs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}

// Write encodes txs with a TransactionID,Items header.
func Write(w io.Writer, txs []Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{idColumn, itemsColumn}); err != nil {
		return err
	}
	for i, tx := range txs {
		id := tx.ID
		if id == "" {
			id = transactionID(i)
		}
		if err := cw.Write([]string{id, strings.Join(tx.Items, itemSep)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes txs to path, replacing any existing file.
func Save(path string, txs []Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, txs); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// Database converts txs into a mining database, keeping empty transactions.
func Database(txs []Transaction) *mining.Database {
	rows := make([][]mining.Item, len(txs))
	for i, tx := range txs {
		rows[i] = tx.Items
	}
	return mining.NewDatabase(rows)
}

func splitItems(cell string) []mining.Item {
	var items []mining.Item
	for _, it := range strings.Split(cell, itemSep) {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	return items
}

func transactionID(i int) string {
	return fmt.Sprintf("T%03d", i+1)
}
