package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCandidatesOrder(t *testing.T) {
	got := GenerateCandidates(NewItemset("C", "A", "B"))

	want := []Itemset{
		{"A"}, {"B"}, {"C"},
		{"A", "B"}, {"A", "C"}, {"B", "C"},
		{"A", "B", "C"},
	}
	assert.Equal(t, want, got)
}

func TestGenerateCandidatesPowerSetSize(t *testing.T) {
	for n := 0; n <= 10; n++ {
		items := make([]Item, n)
		for i := range items {
			items[i] = string(rune('a' + i))
		}
		got := GenerateCandidates(NewItemset(items...))
		require.Len(t, got, CandidateCount(n), "n=%d", n)

		seen := make(map[string]bool, len(got))
		for i, c := range got {
			assert.NotEmpty(t, c)
			assert.False(t, seen[c.Key()], "duplicate candidate %s", c)
			seen[c.Key()] = true
			if i > 0 {
				assert.True(t, canonicalLess(got[i-1], c), "%s should sort before %s", got[i-1], c)
			}
		}
	}
}

func TestGenerateCandidatesEmptyUniverse(t *testing.T) {
	assert.Empty(t, GenerateCandidates(nil))
	assert.Equal(t, 0, CandidateCount(0))
}

func TestEachCandidateStopsEarly(t *testing.T) {
	var seen []Itemset
	EachCandidate(NewItemset("A", "B", "C"), func(c Itemset) bool {
		seen = append(seen, c)
		return len(seen) < 4
	})
	assert.Equal(t, []Itemset{{"A"}, {"B"}, {"C"}, {"A", "B"}}, seen)
}
