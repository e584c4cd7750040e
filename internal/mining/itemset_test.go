package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewItemsetCanonical(t *testing.T) {
	s := NewItemset("Milk", "Bread", "Milk", "", "Eggs")
	assert.Equal(t, Itemset{"Bread", "Eggs", "Milk"}, s)
	assert.Equal(t, 3, s.Len())
	assert.Nil(t, NewItemset())
}

func TestKeysDoNotCollide(t *testing.T) {
	assert.NotEqual(t, NewItemset("A", "B").Key(), NewItemset("A,B").Key())

	left := Rule{Antecedent: NewItemset("A=>B"), Consequent: NewItemset("C")}
	right := Rule{Antecedent: NewItemset("A"), Consequent: NewItemset("B=>C")}
	assert.NotEqual(t, left.Key(), right.Key())

	split := Rule{Antecedent: NewItemset("A"), Consequent: NewItemset("B", "C")}
	merged := Rule{Antecedent: NewItemset("A", "B"), Consequent: NewItemset("C")}
	assert.NotEqual(t, split.Key(), merged.Key())
}

func TestItemsetEqualityIgnoresOrder(t *testing.T) {
	a := NewItemset("C", "A", "B")
	b := NewItemset("B", "C", "A")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(NewItemset("A", "B")))
}

func TestItemsetCompare(t *testing.T) {
	tests := []struct {
		a, b Itemset
		want int
	}{
		{NewItemset("A"), NewItemset("B"), -1},
		{NewItemset("A"), NewItemset("A", "B"), -1},
		{NewItemset("A", "C"), NewItemset("A", "B"), 1},
		{NewItemset("A", "B"), NewItemset("A", "B"), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.a.Compare(tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func TestItemsetSetOperations(t *testing.T) {
	abc := NewItemset("A", "B", "C")
	ab := NewItemset("A", "B")

	assert.True(t, ab.SubsetOf(abc))
	assert.False(t, abc.SubsetOf(ab))
	assert.True(t, Itemset(nil).SubsetOf(ab))
	assert.False(t, NewItemset("A", "D").SubsetOf(abc))

	assert.Equal(t, Itemset{"C"}, abc.Minus(ab))
	assert.Equal(t, abc, ab.Union(NewItemset("B", "C")))
	assert.True(t, abc.Contains("B"))
	assert.False(t, abc.Contains("D"))
}

func TestItemsetString(t *testing.T) {
	assert.Equal(t, "{A, B}", NewItemset("B", "A").String())
	assert.Equal(t, "{}", Itemset(nil).String())
}

func TestDatabaseUniverseAndCount(t *testing.T) {
	db := NewDatabase([][]Item{
		{"B", "A", "A"},
		{},
		{"C"},
	})

	assert.Equal(t, 3, db.Len())
	assert.Equal(t, Itemset{"A", "B", "C"}, db.Universe())
	assert.Equal(t, Itemset{"A", "B"}, db.Transaction(0))
	assert.Equal(t, 1, db.Count(NewItemset("A")))
	assert.Equal(t, 0, db.Count(NewItemset("A", "C")))

	u := db.Universe()
	u[0] = "Z"
	assert.Equal(t, Itemset{"A", "B", "C"}, db.Universe(), "Universe must return a copy")
}
