package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

func TestRead(t *testing.T) {
	input := "TransactionID,Items\n" +
		"T001,\"Milk, Bread ,Eggs\"\n" +
		"T002,\"\"\n" +
		"T003,Cereal\n"

	txs, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, Transaction{ID: "T001", Items: []mining.Item{"Milk", "Bread", "Eggs"}}, txs[0])
	assert.Equal(t, "T002", txs[1].ID)
	assert.Empty(t, txs[1].Items)
	assert.Equal(t, []mining.Item{"Cereal"}, txs[2].Items)

	db := Database(txs)
	assert.Equal(t, 3, db.Len(), "empty transactions still count")
	assert.Equal(t, mining.Itemset{"Bread", "Cereal", "Eggs", "Milk"}, db.Universe())
}

func TestReadItemsColumnOnly(t *testing.T) {
	txs, err := Read(strings.NewReader("items\n\"A,B\"\nC\n"))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "T001", txs[0].ID)
	assert.Equal(t, "T002", txs[1].ID)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty file", "", ErrMissingColumn},
		{"no items column", "TransactionID,Products\nT001,A\n", ErrMissingColumn},
		{"short row", "TransactionID,Items\nT001\n", ErrMalformedRow},
		{"bad quoting", "TransactionID,Items\nT001,\"A\n", ErrMalformedRow},
		{"control character", "TransactionID,Items\nT001,\"Milk,Eggs\x1fBread\"\n", ErrMalformedRow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestShortRowReportsLine(t *testing.T) {
	_, err := Read(strings.NewReader("TransactionID,Items\nT001,A\nT002\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestWriteRoundTrip(t *testing.T) {
	txs := []Transaction{
		{ID: "T001", Items: []mining.Item{"A", "B"}},
		{Items: []mining.Item{"C"}},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, txs))
	assert.Equal(t, "TransactionID,Items\nT001,\"A,B\"\nT002,C\n", buf.String())
}

func TestGenerateMatchesReference(t *testing.T) {
	walmart, ok := LookupStore("walmart")
	require.True(t, ok)
	txs := Generate(walmart, DefaultTransactions)
	require.Len(t, txs, 25)

	assert.Equal(t, []mining.Item{"Milk", "Bread", "Eggs"}, txs[0].Items)
	assert.Equal(t, []mining.Item{"Butter", "Cheese", "Milk", "Pepper", "Chicken", "Beef"}, txs[1].Items)
	assert.Equal(t, []mining.Item{"Cereal", "Milk", "Coffee", "Tea"}, txs[2].Items)
	assert.Equal(t, []mining.Item{"Coffee", "Sugar", "Flour"}, txs[3].Items)
	assert.Equal(t, "T025", txs[24].ID)

	amazon, _ := LookupStore("Amazon")
	txs = Generate(amazon, 4)
	assert.Equal(t, []mining.Item{"Laptop", "Mouse", "Keyboard", "USB_Cable"}, txs[0].Items)
	assert.Equal(t, []mining.Item{"External_HDD", "USB_Cable", "Webcam"}, txs[3].Items)
}

func TestGenerateDeterministic(t *testing.T) {
	for _, s := range Catalog() {
		a := Generate(s, 30)
		b := Generate(s, 30)
		assert.Equal(t, a, b, s.Name)

		for i, tx := range a {
			pattern := s.Patterns[i%len(s.Patterns)]
			assert.Equal(t, pattern, tx.Items[:len(pattern)], "%s %s", s.Name, tx.ID)
			assert.LessOrEqual(t, len(tx.Items), len(pattern)+3)
			assert.Equal(t, len(tx.Items), mining.NewItemset(tx.Items...).Len(), "duplicate item in %s %s", s.Name, tx.ID)
		}
	}
	assert.Nil(t, Generate(Catalog()[0], 0))
}

func TestCatalogStores(t *testing.T) {
	names := make([]string, 0)
	for _, s := range Catalog() {
		names = append(names, s.Name)
		assert.Len(t, s.Patterns, 10)
	}
	assert.Equal(t, []string{"Amazon", "BestBuy", "Walmart", "Target", "Costco"}, names)

	_, ok := LookupStore("Nowhere")
	assert.False(t, ok)
}

func TestGenerateAll(t *testing.T) {
	dir := t.TempDir()
	paths, err := GenerateAll(dir, DefaultTransactions)
	require.NoError(t, err)
	require.Len(t, paths, 5)
	assert.Equal(t, filepath.Join(dir, "Amazon_transactions.csv"), paths[0])

	txs, err := Load(paths[0])
	require.NoError(t, err)
	amazon, _ := LookupStore("Amazon")
	assert.Equal(t, Generate(amazon, DefaultTransactions), txs)
}

func TestGeneratedAmazonMining(t *testing.T) {
	amazon, _ := LookupStore("Amazon")
	db := Database(Generate(amazon, DefaultTransactions))
	require.Equal(t, 15, len(db.Universe()))

	res, err := mining.Mine(db, mining.SupportFraction(0.2), 0.6)
	require.NoError(t, err)
	assert.Equal(t, 18, res.Frequent.Len())
	require.Len(t, res.Rules, 15)

	assert.Equal(t, "{HDMI_Cable} -> {Router}", res.Rules[0].String())
	assert.Equal(t, "{Router} -> {HDMI_Cable}", res.Rules[1].String())
	assert.Equal(t, "{Keyboard} -> {Laptop}", res.Rules[2].String())
	assert.Equal(t, "{Keyboard} -> {Laptop, Mouse}", res.Rules[3].String())
	assert.InDelta(t, 1.5, res.Rules[0].Lift, 1e-9)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWriteRulesCSV(t *testing.T) {
	rules := []mining.Rule{{
		Antecedent: mining.NewItemset("A", "B"),
		Consequent: mining.NewItemset("C"),
		Support:    0.4,
		Confidence: 2.0 / 3.0,
		Lift:       0.8333333,
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteRulesCSV(&buf, rules))
	assert.Equal(t,
		"Antecedent,Consequent,Support,Confidence,Lift\n\"A,B\",C,0.4000,0.6667,0.8333\n",
		buf.String())
}

func TestWriteItemsetsCSV(t *testing.T) {
	record := mining.NewSupportRecord(5, []mining.ItemsetSupport{
		{Itemset: mining.NewItemset("A", "B"), Count: 3, Support: 0.6},
		{Itemset: mining.NewItemset("A"), Count: 4, Support: 0.8},
	})
	var buf bytes.Buffer
	require.NoError(t, WriteItemsetsCSV(&buf, record))
	assert.Equal(t,
		"Itemset,Size,Count,Support\nA,1,4,0.8000\n\"A,B\",2,3,0.6000\n",
		buf.String())
}
