package mining

import "math"

// CandidateCount returns the number of non-empty subsets of an n-item
// universe, 2^n - 1. It saturates at math.MaxInt.
func CandidateCount(n int) int {
	if n <= 0 {
		return 0
	}
	if n >= 63 {
		return math.MaxInt
	}
	return 1<<uint(n) - 1
}

// EachCandidate enumerates every non-empty subset of universe: all 1-itemsets,
// then all 2-itemsets, and so on up to the whole universe. Within a size the
// subsets come in lexicographic order of item positions. Enumeration stops
// early if fn returns false.
func EachCandidate(universe Itemset, fn func(Itemset) bool) {
	universe = NewItemset(universe...)
	n := len(universe)

	idx := make([]int, n)
	for k := 1; k <= n; k++ {
		pos := idx[:k]
		for i := range pos {
			pos[i] = i
		}

		for {
			c := make(Itemset, k)
			for i, p := range pos {
				c[i] = universe[p]
			}
			if !fn(c) {
				return
			}

			// Advance to the next k-combination.
			i := k - 1
			for i >= 0 && pos[i] == n-k+i {
				i--
			}
			if i < 0 {
				break
			}
			pos[i]++
			for j := i + 1; j < k; j++ {
				pos[j] = pos[j-1] + 1
			}
		}
	}
}

// GenerateCandidates returns the full power set of universe minus the empty
// set, in the order described by EachCandidate.
func GenerateCandidates(universe Itemset) []Itemset {
	n := len(universe)
	var candidates []Itemset
	if n < 31 {
		candidates = make([]Itemset, 0, CandidateCount(n))
	}
	EachCandidate(universe, func(c Itemset) bool {
		candidates = append(candidates, c)
		return true
	})
	return candidates
}
