// Package apriori mines frequent itemsets level by level: frequent
// k-itemsets that share their first k-1 items are joined into
// (k+1)-candidates, and any candidate with an infrequent k-subset is pruned
// before its support is counted.
package apriori

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

// Name is the algorithm name reported in results.
const Name = "apriori"

// Miner implements mining.Miner with the Apriori algorithm.
type Miner struct {
	// MaxSize stops growing itemsets past this many items. Zero means no
	// limit.
	MaxSize int
}

// New returns an Apriori miner with no size limit.
func New() *Miner {
	return &Miner{}
}

// Name returns "apriori".
func (m *Miner) Name() string {
	return Name
}

// Mine returns the frequent itemsets and rules of db.
func (m *Miner) Mine(db *mining.Database, p mining.Params) (*mining.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if m.MaxSize < 0 {
		return nil, fmt.Errorf("%w: max size %d is negative", mining.ErrInvalidParameter, m.MaxSize)
	}
	if db == nil {
		db = mining.NewDatabase(nil)
	}

	start := time.Now()
	universe := db.Universe()
	res := &mining.Result{
		Algorithm:    Name,
		Transactions: db.Len(),
		Items:        len(universe),
	}
	total := db.Len()
	if total == 0 {
		res.Frequent = mining.NewSupportRecord(0, nil)
		res.Stats.Elapsed = time.Since(start)
		return res, nil
	}

	var frequent []mining.ItemsetSupport
	level := make([]mining.Itemset, 0, len(universe))
	for _, it := range universe {
		level = append(level, mining.Itemset{it})
	}

	for k := 1; len(level) > 0; k++ {
		res.Stats.Candidates += len(level)

		kept, err := countLevel(db, level, p.MinSupport)
		if err != nil {
			return nil, err
		}
		log.Debugf("apriori: level %d, %d candidates, %d frequent", k, len(level), len(kept))
		frequent = append(frequent, kept...)

		if m.MaxSize > 0 && k >= m.MaxSize {
			break
		}
		level = nextLevel(kept)
	}

	record := mining.NewSupportRecord(total, frequent)
	rules, err := mining.GenerateRules(record, p.MinConfidence)
	if err != nil {
		return nil, err
	}

	res.Frequent = record
	res.Rules = rules.Rules
	res.Stats.RuleSplits = rules.Considered
	res.Stats.Elapsed = time.Since(start)

	log.WithFields(log.Fields{
		"algorithm": Name,
		"itemsets":  record.Len(),
		"rules":     len(res.Rules),
		"elapsed":   res.Stats.Elapsed,
	}).Debug("mining pass complete")

	return res, nil
}

func countLevel(db *mining.Database, level []mining.Itemset, minSupport mining.Threshold) ([]mining.ItemsetSupport, error) {
	total := db.Len()
	kept := make([]mining.ItemsetSupport, 0)
	for _, c := range level {
		count := db.Count(c)
		if !minSupport.Admits(count, total) {
			continue
		}
		support, err := mining.SupportOf(count, total)
		if err != nil {
			return nil, err
		}
		kept = append(kept, mining.ItemsetSupport{Itemset: c, Count: count, Support: support})
	}
	return kept, nil
}
