package mining

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountSupport(t *testing.T) {
	db := abcDatabase()
	record, err := CountSupport(db, GenerateCandidates(db.Universe()))
	require.NoError(t, err)

	assert.Equal(t, 5, record.Transactions())
	assert.Equal(t, 7, record.Len())

	tests := []struct {
		items []Item
		count int
	}{
		{[]Item{"A"}, 4},
		{[]Item{"B"}, 4},
		{[]Item{"C"}, 4},
		{[]Item{"A", "B"}, 3},
		{[]Item{"B", "C"}, 3},
		{[]Item{"A", "B", "C"}, 2},
	}
	for _, tt := range tests {
		e, ok := record.Lookup(NewItemset(tt.items...))
		require.True(t, ok, "missing %v", tt.items)
		assert.Equal(t, tt.count, e.Count, "%v", tt.items)
		assert.InDelta(t, float64(tt.count)/5, e.Support, 1e-12)
	}
}

func TestCountSupportEmptyDatabase(t *testing.T) {
	record, err := CountSupport(NewDatabase(nil), []Itemset{NewItemset("A")})
	require.NoError(t, err)
	e, ok := record.Lookup(NewItemset("A"))
	require.True(t, ok)
	assert.Equal(t, 0, e.Count)
	assert.Equal(t, 0.0, e.Support)
}

func TestCountSupportRejectsEmptyCandidate(t *testing.T) {
	_, err := CountSupport(abcDatabase(), []Itemset{nil})
	assert.True(t, errors.Is(err, ErrDegenerateItemset))
}

func TestSupportOfRejectsNonPositiveTotal(t *testing.T) {
	_, err := SupportOf(1, 0)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = SupportOf(1, -3)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestNewSupportRecordSortsAndDedups(t *testing.T) {
	record := NewSupportRecord(4, []ItemsetSupport{
		{Itemset: NewItemset("B", "C"), Count: 1, Support: 0.25},
		{Itemset: NewItemset("B"), Count: 2, Support: 0.5},
		{Itemset: NewItemset("A"), Count: 3, Support: 0.75},
		{Itemset: NewItemset("B"), Count: 9, Support: 1},
	})

	entries := record.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, Itemset{"A"}, entries[0].Itemset)
	assert.Equal(t, Itemset{"B"}, entries[1].Itemset)
	assert.Equal(t, 2, entries[1].Count)
	assert.Equal(t, Itemset{"B", "C"}, entries[2].Itemset)
	assert.Equal(t, 2, record.MaxSize())
	assert.Len(t, record.OfSize(1), 2)
}

func TestThresholdValidate(t *testing.T) {
	tests := []struct {
		name    string
		t       Threshold
		wantErr bool
	}{
		{"zero fraction", SupportFraction(0), false},
		{"one fraction", SupportFraction(1), false},
		{"mid fraction", SupportFraction(0.4), false},
		{"negative fraction", SupportFraction(-0.1), true},
		{"fraction above one", SupportFraction(1.01), true},
		{"nan", SupportFraction(math.NaN()), true},
		{"zero count", SupportCount(0), false},
		{"large count", SupportCount(1000), false},
		{"negative count", SupportCount(-1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.t.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidParameter), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestThresholdAdmitsInclusive(t *testing.T) {
	assert.True(t, SupportFraction(0.4).Admits(2, 5))
	assert.False(t, SupportFraction(0.4).Admits(1, 5))
	assert.True(t, SupportCount(2).Admits(2, 5))
	assert.False(t, SupportCount(3).Admits(2, 5))
	assert.False(t, SupportFraction(0).Admits(0, 5), "unobserved itemsets are never frequent")
	assert.False(t, SupportFraction(0).Admits(1, 0))
}

func TestThresholdString(t *testing.T) {
	assert.Equal(t, "0.4", SupportFraction(0.4).String())
	assert.Equal(t, "1.0", SupportFraction(1).String())
	assert.Equal(t, "0.0", SupportFraction(0).String())
	assert.Equal(t, "3", SupportCount(3).String())
}

func TestFilterFrequent(t *testing.T) {
	db := abcDatabase()
	all, err := CountSupport(db, GenerateCandidates(db.Universe()))
	require.NoError(t, err)

	frequent, err := FilterFrequent(all, SupportFraction(0.5))
	require.NoError(t, err)
	assert.Equal(t, 6, frequent.Len())
	_, ok := frequent.Lookup(NewItemset("A", "B", "C"))
	assert.False(t, ok)

	byCount, err := FilterFrequent(all, SupportCount(3))
	require.NoError(t, err)
	assert.Equal(t, frequent.Entries(), byCount.Entries())

	_, err = FilterFrequent(all, SupportFraction(2))
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestFilterFrequentPreservesOrder(t *testing.T) {
	db := abcDatabase()
	all, err := CountSupport(db, GenerateCandidates(db.Universe()))
	require.NoError(t, err)

	frequent, err := FilterFrequent(all, SupportFraction(0))
	require.NoError(t, err)
	entries := frequent.Entries()
	for i := 1; i < len(entries); i++ {
		assert.True(t, canonicalLess(entries[i-1].Itemset, entries[i].Itemset))
	}
}

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		in      string
		want    Threshold
		wantErr bool
	}{
		{"0.4", SupportFraction(0.4), false},
		{"1.0", SupportFraction(1), false},
		{"0", SupportFraction(0), false},
		{"1", SupportCount(1), false},
		{" 3 ", SupportCount(3), false},
		{"2e-1", SupportFraction(0.2), false},
		{"1.5", Threshold{}, true},
		{"-1", Threshold{}, true},
		{"abc", Threshold{}, true},
		{"", Threshold{}, true},
	}
	for _, tt := range tests {
		got, err := ParseThreshold(tt.in)
		if tt.wantErr {
			assert.True(t, errors.Is(err, ErrInvalidParameter), "%q: %v", tt.in, err)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		back, err := ParseThreshold(got.String())
		require.NoError(t, err)
		assert.Equal(t, got, back, "String() of %q must parse back", tt.in)
	}
}
