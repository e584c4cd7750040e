package analyzer

import "github.com/blackwell-systems/basketmine/internal/mining"

// Rule strength tiers, from the lift and confidence of a rule.
const (
	TierStrong      = "strong"      // lift > 1 and confidence >= StrongConfidence
	TierPositive    = "positive"    // lift > 1
	TierIndependent = "independent" // lift within LiftEpsilon of 1
	TierNegative    = "negative"    // lift < 1
)

// Explanation describes how one itemset fares in a dataset.
type Explanation struct {
	Dataset      string
	Itemset      mining.Itemset
	Count        int
	Transactions int
	Support      float64
	MinSupport   mining.Threshold
	Frequent     bool
	Unknown      []mining.Item // items that never occur in the dataset

	// Subsets holds the support of every non-empty proper subset, in
	// canonical order.
	Subsets []mining.ItemsetSupport

	// Rules lists the mined rules whose items include the whole itemset.
	Rules []mining.Rule
}
