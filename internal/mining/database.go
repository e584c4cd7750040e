package mining

// Database is an immutable, ordered collection of transactions together with
// the universe of distinct items observed in them. Empty transactions are
// kept and count toward Len.
type Database struct {
	transactions []Itemset
	universe     Itemset
}

// NewDatabase builds a Database from loader rows. Each row becomes a
// canonical transaction; duplicate items within a row collapse. The rows
// slice is not retained.
func NewDatabase(rows [][]Item) *Database {
	d := &Database{transactions: make([]Itemset, len(rows))}

	seen := make(map[Item]struct{})
	for i, row := range rows {
		tx := NewItemset(row...)
		d.transactions[i] = tx
		for _, it := range tx {
			seen[it] = struct{}{}
		}
	}

	items := make([]Item, 0, len(seen))
	for it := range seen {
		items = append(items, it)
	}
	d.universe = NewItemset(items...)

	return d
}

// Len returns the number of transactions, including empty ones.
func (d *Database) Len() int {
	return len(d.transactions)
}

// Universe returns the sorted set of distinct items.
func (d *Database) Universe() Itemset {
	return d.universe.Clone()
}

// Transaction returns a copy of the i-th transaction.
func (d *Database) Transaction(i int) Itemset {
	return d.transactions[i].Clone()
}

// Each calls fn for every transaction in order. fn must not modify the
// itemset it receives.
func (d *Database) Each(fn func(i int, tx Itemset)) {
	for i, tx := range d.transactions {
		fn(i, tx)
	}
}

// Count scans every transaction and returns how many contain all of s.
func (d *Database) Count(s Itemset) int {
	n := 0
	for _, tx := range d.transactions {
		if s.SubsetOf(tx) {
			n++
		}
	}
	return n
}
