package apriori

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

func basket() *mining.Database {
	return mining.NewDatabase([][]mining.Item{
		{"A", "B", "C"},
		{"A", "B"},
		{"A", "C"},
		{"B", "C"},
		{"A", "B", "C"},
	})
}

func TestJoinPair(t *testing.T) {
	tests := []struct {
		a, b mining.Itemset
		want mining.Itemset
		ok   bool
	}{
		{mining.NewItemset("A"), mining.NewItemset("B"), mining.NewItemset("A", "B"), true},
		{mining.NewItemset("A", "B"), mining.NewItemset("A", "C"), mining.NewItemset("A", "B", "C"), true},
		{mining.NewItemset("A", "B"), mining.NewItemset("B", "C"), nil, false},
		{mining.NewItemset("A"), mining.NewItemset("A"), nil, false},
		{mining.NewItemset("A"), mining.NewItemset("A", "B"), nil, false},
	}
	for _, tt := range tests {
		got, ok := JoinPair(tt.a, tt.b)
		assert.Equal(t, tt.ok, ok, "%s + %s", tt.a, tt.b)
		assert.Equal(t, tt.want, got)
	}
}

func TestGenerateCandidatesPrunes(t *testing.T) {
	level := []mining.Itemset{
		mining.NewItemset("A", "B"),
		mining.NewItemset("A", "C"),
		mining.NewItemset("A", "D"),
		mining.NewItemset("B", "C"),
	}
	got := GenerateCandidates(level)

	// {A,B,D} and {A,C,D} need {B,D} and {C,D}, which are missing.
	assert.Equal(t, []mining.Itemset{mining.NewItemset("A", "B", "C")}, got)
}

func TestMineMatchesBruteForce(t *testing.T) {
	params := []mining.Params{
		{MinSupport: mining.SupportFraction(0.4), MinConfidence: 0.6},
		{MinSupport: mining.SupportFraction(0.5), MinConfidence: 0.6},
		{MinSupport: mining.SupportFraction(0), MinConfidence: 0},
		{MinSupport: mining.SupportFraction(1), MinConfidence: 0},
		{MinSupport: mining.SupportCount(2), MinConfidence: 0.5},
	}

	dbs := []*mining.Database{basket()}
	for seed := int64(1); seed <= 4; seed++ {
		r := rand.New(rand.NewSource(seed))
		rows := make([][]mining.Item, 30)
		for i := range rows {
			for j := 0; j < 8; j++ {
				if r.Intn(3) == 0 {
					rows[i] = append(rows[i], fmt.Sprintf("i%d", j))
				}
			}
		}
		dbs = append(dbs, mining.NewDatabase(rows))
	}

	for di, db := range dbs {
		for _, p := range params {
			want, err := (&mining.BruteForce{}).Mine(db, p)
			require.NoError(t, err)
			got, err := New().Mine(db, p)
			require.NoError(t, err)

			assert.Equal(t, want.Frequent.Entries(), got.Frequent.Entries(), "db %d support %s", di, p.MinSupport)
			assert.Equal(t, want.Rules, got.Rules, "db %d support %s", di, p.MinSupport)
			assert.Equal(t, want.Stats.RuleSplits, got.Stats.RuleSplits)
			assert.LessOrEqual(t, got.Stats.Candidates, want.Stats.Candidates)
		}
	}
}

func TestMineMaxSize(t *testing.T) {
	res, err := (&Miner{MaxSize: 1}).Mine(basket(), mining.Params{MinSupport: mining.SupportFraction(0.4), MinConfidence: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Frequent.Len())
	assert.Empty(t, res.Rules)
}

func TestMineInvalid(t *testing.T) {
	_, err := New().Mine(basket(), mining.Params{MinSupport: mining.SupportFraction(1.5)})
	assert.True(t, errors.Is(err, mining.ErrInvalidParameter))

	_, err = (&Miner{MaxSize: -1}).Mine(basket(), mining.Params{MinSupport: mining.SupportFraction(0.5)})
	assert.True(t, errors.Is(err, mining.ErrInvalidParameter))
}

func TestMineEmpty(t *testing.T) {
	res, err := New().Mine(mining.NewDatabase(nil), mining.Params{MinSupport: mining.SupportFraction(0.5)})
	require.NoError(t, err)
	assert.Equal(t, Name, res.Algorithm)
	assert.Zero(t, res.Frequent.Len())
}
