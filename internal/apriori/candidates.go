package apriori

import (
	"sort"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

// JoinPair merges two k-itemsets that agree on their first k-1 items into
// the (k+1)-itemset holding both last items. ok is false when the pair does
// not qualify.
func JoinPair(a, b mining.Itemset) (mining.Itemset, bool) {
	k := len(a)
	if k != len(b) || k == 0 {
		return nil, false
	}
	for i := 0; i < k-1; i++ {
		if a[i] != b[i] {
			return nil, false
		}
	}
	if a[k-1] == b[k-1] {
		return nil, false
	}
	return mining.NewItemset(append(a.Clone(), b[k-1])...), true
}

// GenerateCandidates joins the frequent k-itemsets of level pairwise and
// prunes every candidate that has an infrequent k-subset. The result is in
// canonical order with no duplicates.
func GenerateCandidates(level []mining.Itemset) []mining.Itemset {
	sorted := make([]mining.Itemset, len(level))
	copy(sorted, level)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Compare(sorted[j]) < 0
	})

	known := make(map[string]bool, len(sorted))
	for _, s := range sorted {
		known[s.Key()] = true
	}

	seen := make(map[string]bool)
	var out []mining.Itemset
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			c, ok := JoinPair(sorted[i], sorted[j])
			if !ok {
				// sorted order puts every partner of i directly after it
				break
			}
			if seen[c.Key()] || !allSubsetsKnown(c, known) {
				continue
			}
			seen[c.Key()] = true
			out = append(out, c)
		}
	}
	return out
}

func nextLevel(kept []mining.ItemsetSupport) []mining.Itemset {
	level := make([]mining.Itemset, len(kept))
	for i, e := range kept {
		level[i] = e.Itemset
	}
	return GenerateCandidates(level)
}

// allSubsetsKnown reports whether every subset of c with one item removed is
// in known.
func allSubsetsKnown(c mining.Itemset, known map[string]bool) bool {
	if len(c) <= 2 {
		return true
	}
	sub := make(mining.Itemset, len(c)-1)
	for skip := range c {
		sub = sub[:0]
		for i, it := range c {
			if i != skip {
				sub = append(sub, it)
			}
		}
		if !known[sub.Key()] {
			return false
		}
	}
	return true
}
