package analyzer

import (
	"fmt"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

const maxExplainItems = 16

// Explain reports the support of items in the named dataset, whether it is
// frequent under params, the support of each of its subsets and the rules
// miner derives that cover all of its items. The run is not recorded.
func (a *Analyzer) Explain(name string, items []mining.Item, miner mining.Miner, params mining.Params) (*Explanation, error) {
	itemset := mining.NewItemset(items...)
	if itemset.Len() == 0 {
		return nil, fmt.Errorf("%w: no items to explain", mining.ErrInvalidParameter)
	}
	if itemset.Len() > maxExplainItems {
		return nil, fmt.Errorf("%w: cannot explain more than %d items", mining.ErrInvalidParameter, maxExplainItems)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	db, err := a.LoadDatabase(name)
	if err != nil {
		return nil, err
	}

	exp := &Explanation{
		Dataset:      name,
		Itemset:      itemset,
		Transactions: db.Len(),
		MinSupport:   params.MinSupport,
	}

	universe := db.Universe()
	for _, it := range itemset {
		if !universe.Contains(it) {
			exp.Unknown = append(exp.Unknown, it)
		}
	}

	subsets := mining.GenerateCandidates(itemset)
	record, err := mining.CountSupport(db, subsets)
	if err != nil {
		return nil, err
	}
	for _, e := range record.Entries() {
		if e.Itemset.Equal(itemset) {
			exp.Count = e.Count
			exp.Support = e.Support
			continue
		}
		exp.Subsets = append(exp.Subsets, e)
	}
	exp.Frequent = params.MinSupport.Admits(exp.Count, db.Len())

	if !exp.Frequent {
		return exp, nil
	}

	res, err := miner.Mine(db, params)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", miner.Name(), name, err)
	}
	for _, r := range res.Rules {
		if itemset.SubsetOf(r.Itemset()) {
			exp.Rules = append(exp.Rules, r)
		}
	}

	return exp, nil
}
