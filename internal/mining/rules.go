package mining

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
)

// maxSplitItems bounds the itemset size whose splits fit in a uint64 mask.
const maxSplitItems = 62

// Rule is an association rule Antecedent -> Consequent derived from a
// frequent itemset. Count is the number of transactions containing both
// sides.
type Rule struct {
	Antecedent Itemset
	Consequent Itemset
	Count      int
	Support    float64
	Confidence float64
	Lift       float64
}

// Itemset returns the frequent itemset the rule was split from.
func (r Rule) Itemset() Itemset {
	return r.Antecedent.Union(r.Consequent)
}

// Key identifies the rule by its two sides.
func (r Rule) Key() string {
	return r.Antecedent.Key() + ruleSep + r.Consequent.Key()
}

// String formats the rule as "{A} -> {B}".
func (r Rule) String() string {
	return r.Antecedent.String() + " -> " + r.Consequent.String()
}

// RuleSet holds the rules that passed the confidence cutoff and the number of
// antecedent/consequent splits examined to find them.
type RuleSet struct {
	Rules      []Rule
	Considered int
}

// GenerateRules splits every frequent itemset of two or more items into each
// ordered (antecedent, consequent) pair, 2^k - 2 per k-itemset, and keeps the
// rules whose confidence is at least minConfidence. Both sides must be present
// in frequent with positive support. Rules come back sorted by SortRules.
func GenerateRules(frequent *SupportRecord, minConfidence float64) (*RuleSet, error) {
	if err := ValidateConfidence(minConfidence); err != nil {
		return nil, err
	}

	set := &RuleSet{}
	if frequent == nil {
		return set, nil
	}

	for _, whole := range frequent.entries {
		k := len(whole.Itemset)
		if k < 2 {
			continue
		}
		if k > maxSplitItems {
			return nil, fmt.Errorf("%w: itemset of %d items is too large to split", ErrInvalidParameter, k)
		}

		full := uint64(1)<<uint(k) - 1
		for mask := uint64(1); mask < full; mask++ {
			set.Considered++

			antecedent, consequent := splitItemset(whole.Itemset, mask)
			rule, err := deriveRule(frequent, whole, antecedent, consequent)
			if err != nil {
				return nil, err
			}
			if rule.Confidence >= minConfidence {
				set.Rules = append(set.Rules, rule)
			}
		}
	}

	SortRules(set.Rules)
	log.Debugf("rules: %d of %d splits met confidence %v", len(set.Rules), set.Considered, minConfidence)

	return set, nil
}

// splitItemset puts the items whose bit is set in mask into the antecedent
// and the rest into the consequent. Both come out canonical.
func splitItemset(s Itemset, mask uint64) (Itemset, Itemset) {
	var antecedent, consequent Itemset
	for i, it := range s {
		if mask&(1<<uint(i)) != 0 {
			antecedent = append(antecedent, it)
		} else {
			consequent = append(consequent, it)
		}
	}
	return antecedent, consequent
}

func deriveRule(frequent *SupportRecord, whole ItemsetSupport, antecedent, consequent Itemset) (Rule, error) {
	ante, ok := frequent.Lookup(antecedent)
	if !ok || ante.Count <= 0 {
		return Rule{}, fmt.Errorf("%w: antecedent %s of %s has no support", ErrDegenerateItemset, antecedent, whole.Itemset)
	}
	cons, ok := frequent.Lookup(consequent)
	if !ok || cons.Count <= 0 || cons.Support <= 0 {
		return Rule{}, fmt.Errorf("%w: consequent %s of %s has no support", ErrDegenerateItemset, consequent, whole.Itemset)
	}

	confidence := float64(whole.Count) / float64(ante.Count)
	return Rule{
		Antecedent: antecedent,
		Consequent: consequent,
		Count:      whole.Count,
		Support:    whole.Support,
		Confidence: confidence,
		Lift:       confidence / cons.Support,
	}, nil
}

// SortRules orders rules by support, confidence and lift, all descending,
// then by antecedent and consequent lexicographically.
func SortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return ruleLess(rules[i], rules[j])
	})
}

func ruleLess(a, b Rule) bool {
	if a.Support != b.Support {
		return a.Support > b.Support
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Lift != b.Lift {
		return a.Lift > b.Lift
	}
	if c := a.Antecedent.Compare(b.Antecedent); c != 0 {
		return c < 0
	}
	return a.Consequent.Compare(b.Consequent) < 0
}
