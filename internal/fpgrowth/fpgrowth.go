// Package fpgrowth mines frequent itemsets without candidate generation. The
// database is compressed into an FP-tree once, then each item's conditional
// pattern base is turned into a smaller conditional tree and mined
// recursively.
package fpgrowth

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

// Name is the algorithm name reported in results.
const Name = "fpgrowth"

// Miner implements mining.Miner with FP-Growth.
type Miner struct{}

// New returns an FP-Growth miner.
func New() *Miner {
	return &Miner{}
}

// Name returns "fpgrowth".
func (m *Miner) Name() string {
	return Name
}

// BuildTree compresses db into an FP-tree holding only the items that meet
// minSupport.
func BuildTree(db *mining.Database, minSupport mining.Threshold) *Tree {
	total := db.Len()
	patterns := make([]pattern, 0, total)
	db.Each(func(_ int, tx mining.Itemset) {
		patterns = append(patterns, pattern{items: tx, count: 1})
	})
	return buildTree(patterns, func(count int) bool {
		return minSupport.Admits(count, total)
	})
}

// Mine returns the frequent itemsets and rules of db.
func (m *Miner) Mine(db *mining.Database, p mining.Params) (*mining.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if db == nil {
		db = mining.NewDatabase(nil)
	}

	start := time.Now()
	total := db.Len()
	res := &mining.Result{
		Algorithm:    Name,
		Transactions: total,
		Items:        len(db.Universe()),
	}
	if total == 0 {
		res.Frequent = mining.NewSupportRecord(0, nil)
		res.Stats.Elapsed = time.Since(start)
		return res, nil
	}

	tree := BuildTree(db, p.MinSupport)
	log.Debugf("fpgrowth: tree of %d nodes over %d frequent items", tree.Len(), len(tree.order))

	keep := func(count int) bool { return p.MinSupport.Admits(count, total) }
	var found []mining.ItemsetSupport
	var examined int
	if err := mineTree(tree, nil, total, keep, &found, &examined); err != nil {
		return nil, err
	}

	record := mining.NewSupportRecord(total, found)
	rules, err := mining.GenerateRules(record, p.MinConfidence)
	if err != nil {
		return nil, err
	}

	res.Frequent = record
	res.Rules = rules.Rules
	res.Stats = mining.Stats{
		Candidates: examined,
		RuleSplits: rules.Considered,
		Elapsed:    time.Since(start),
	}

	log.WithFields(log.Fields{
		"algorithm": Name,
		"itemsets":  record.Len(),
		"rules":     len(res.Rules),
		"elapsed":   res.Stats.Elapsed,
	}).Debug("mining pass complete")

	return res, nil
}

// mineTree emits suffix extended by every item of t, then recurses into the
// conditional tree of each item. Items are visited least frequent first.
func mineTree(t *Tree, suffix mining.Itemset, total int, keep func(int) bool, out *[]mining.ItemsetSupport, examined *int) error {
	for i := len(t.order) - 1; i >= 0; i-- {
		item := t.order[i]
		count := t.headers[item].count
		*examined++

		items := append(suffix.Clone(), item)
		support, err := mining.SupportOf(count, total)
		if err != nil {
			return err
		}
		set := mining.NewItemset(items...)
		*out = append(*out, mining.ItemsetSupport{Itemset: set, Count: count, Support: support})

		base := t.prefixPaths(item)
		if len(base) == 0 {
			continue
		}
		cond := buildTree(base, keep)
		if len(cond.order) > 0 {
			if err := mineTree(cond, set, total, keep, out, examined); err != nil {
				return err
			}
		}
	}
	return nil
}
