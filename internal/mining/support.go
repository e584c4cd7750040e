package mining

import (
	"fmt"
	"sort"
)

// ItemsetSupport is the support of one itemset: the number of transactions
// containing it and that number as a fraction of the database size.
type ItemsetSupport struct {
	Itemset Itemset
	Count   int
	Support float64
}

// SupportRecord maps itemsets to their support. Entries are kept in size
// ascending, then lexicographic order. A record is never modified after it
// is built.
type SupportRecord struct {
	transactions int
	entries      []ItemsetSupport
	index        map[string]int
}

// NewSupportRecord builds a record from entries computed by any engine.
// Entries are put into canonical order; a repeated itemset keeps its first
// occurrence.
func NewSupportRecord(transactions int, entries []ItemsetSupport) *SupportRecord {
	sorted := make([]ItemsetSupport, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return canonicalLess(sorted[i].Itemset, sorted[j].Itemset)
	})
	return newSupportRecord(transactions, sorted)
}

// newSupportRecord keeps the given order.
func newSupportRecord(transactions int, entries []ItemsetSupport) *SupportRecord {
	r := &SupportRecord{
		transactions: transactions,
		entries:      make([]ItemsetSupport, 0, len(entries)),
		index:        make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		key := e.Itemset.Key()
		if _, dup := r.index[key]; dup {
			continue
		}
		r.index[key] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

// Transactions returns the database size the supports were computed against.
func (r *SupportRecord) Transactions() int {
	return r.transactions
}

// Len returns the number of itemsets in the record.
func (r *SupportRecord) Len() int {
	return len(r.entries)
}

// Entries returns the entries in canonical order. The itemsets are shared
// with the record and must not be modified.
func (r *SupportRecord) Entries() []ItemsetSupport {
	out := make([]ItemsetSupport, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup returns the entry for s, if present.
func (r *SupportRecord) Lookup(s Itemset) (ItemsetSupport, bool) {
	i, ok := r.index[s.Key()]
	if !ok {
		return ItemsetSupport{}, false
	}
	return r.entries[i], true
}

// OfSize returns the entries whose itemsets have exactly k items.
func (r *SupportRecord) OfSize(k int) []ItemsetSupport {
	var out []ItemsetSupport
	for _, e := range r.entries {
		if len(e.Itemset) == k {
			out = append(out, e)
		}
	}
	return out
}

// MaxSize returns the size of the largest itemset, or 0 for an empty record.
func (r *SupportRecord) MaxSize() int {
	if len(r.entries) == 0 {
		return 0
	}
	return len(r.entries[len(r.entries)-1].Itemset)
}

// CountSupport scans db once per candidate and records how many transactions
// contain it. Candidate order is preserved. With an empty database every
// support is zero and no scan is performed.
func CountSupport(db *Database, candidates []Itemset) (*SupportRecord, error) {
	return countSupport(db, candidates, nil)
}

func countSupport(db *Database, candidates []Itemset, progress func(done, total int)) (*SupportRecord, error) {
	total := db.Len()
	entries := make([]ItemsetSupport, 0, len(candidates))

	for i, c := range candidates {
		if len(c) == 0 {
			return nil, fmt.Errorf("%w: empty candidate at position %d", ErrDegenerateItemset, i)
		}

		e := ItemsetSupport{Itemset: c}
		if total > 0 {
			e.Count = db.Count(c)
			s, err := SupportOf(e.Count, total)
			if err != nil {
				return nil, err
			}
			e.Support = s
		}
		entries = append(entries, e)

		if progress != nil {
			progress(i+1, len(candidates))
		}
	}

	return newSupportRecord(total, entries), nil
}

// SupportOf divides count by the database size. A non-positive size is an
// invalid divisor.
func SupportOf(count, total int) (float64, error) {
	if total <= 0 {
		return 0, fmt.Errorf("%w: transaction count must be positive, got %d", ErrInvalidParameter, total)
	}
	return float64(count) / float64(total), nil
}
