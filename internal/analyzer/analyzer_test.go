package analyzer

import (
	"errors"
	"testing"

	"github.com/blackwell-systems/basketmine/internal/dataset"
	"github.com/blackwell-systems/basketmine/internal/mining"
	"github.com/blackwell-systems/basketmine/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := st.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	txs := []dataset.Transaction{
		{ID: "T001", Items: []string{"A", "B", "C"}},
		{ID: "T002", Items: []string{"A", "B"}},
		{ID: "T003", Items: []string{"A", "C"}},
		{ID: "T004", Items: []string{"B", "C"}},
		{ID: "T005", Items: []string{"A", "B", "C"}},
	}
	if err := st.ReplaceDataset(&store.Dataset{Name: "abc", Items: 3}, txs); err != nil {
		t.Fatalf("failed to insert dataset: %v", err)
	}
	return st
}

var defaultParams = mining.Params{MinSupport: mining.SupportFraction(0.4), MinConfidence: 0.6}

func TestRunRecordsRun(t *testing.T) {
	st := setupTestStore(t)
	a := New(st)

	res, run, err := a.Run("abc", &mining.BruteForce{}, defaultParams)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.Frequent.Len() != 7 || len(res.Rules) != 9 {
		t.Errorf("Run() = %d itemsets, %d rules; want 7, 9", res.Frequent.Len(), len(res.Rules))
	}

	stored, err := st.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun() failed: %v", err)
	}
	if stored.Algorithm != mining.AlgorithmBruteForce || stored.MinSupport != "0.4" {
		t.Errorf("stored run = %+v", stored)
	}
	if stored.Itemsets != 7 || stored.Rules != 9 || stored.Candidates != 7 || stored.Transactions != 5 {
		t.Errorf("stored counts = %+v", stored)
	}
}

func TestRunUnknownDataset(t *testing.T) {
	a := New(setupTestStore(t))
	_, _, err := a.Run("missing", &mining.BruteForce{}, defaultParams)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Run(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRunInvalidParamsNotRecorded(t *testing.T) {
	st := setupTestStore(t)
	a := New(st)

	bad := mining.Params{MinSupport: mining.SupportFraction(1.5), MinConfidence: 0.5}
	if _, _, err := a.Run("abc", &mining.BruteForce{}, bad); !errors.Is(err, mining.ErrInvalidParameter) {
		t.Errorf("Run() error = %v, want ErrInvalidParameter", err)
	}
	if n, _ := st.GetRunCount(); n != 0 {
		t.Errorf("failed run was recorded (%d runs)", n)
	}
}

func TestExplain(t *testing.T) {
	a := New(setupTestStore(t))

	exp, err := a.Explain("abc", []mining.Item{"C", "A", "B"}, &mining.BruteForce{}, defaultParams)
	if err != nil {
		t.Fatalf("Explain() failed: %v", err)
	}
	if exp.Count != 2 || exp.Support != 0.4 || !exp.Frequent {
		t.Errorf("Explain() = count %d support %v frequent %v", exp.Count, exp.Support, exp.Frequent)
	}
	if len(exp.Subsets) != 6 {
		t.Errorf("got %d subsets, want 6", len(exp.Subsets))
	}
	if len(exp.Rules) != 3 {
		t.Errorf("got %d rules covering {A, B, C}, want 3", len(exp.Rules))
	}
	for _, r := range exp.Rules {
		if r.Itemset().Len() != 3 {
			t.Errorf("rule %s does not cover the itemset", r)
		}
	}
}

func TestExplainInfrequent(t *testing.T) {
	a := New(setupTestStore(t))

	params := mining.Params{MinSupport: mining.SupportFraction(0.5), MinConfidence: 0.6}
	exp, err := a.Explain("abc", []mining.Item{"A", "B", "C"}, &mining.BruteForce{}, params)
	if err != nil {
		t.Fatalf("Explain() failed: %v", err)
	}
	if exp.Frequent {
		t.Error("{A, B, C} should not be frequent at 0.5")
	}
	if len(exp.Rules) != 0 {
		t.Errorf("infrequent itemset should have no rules, got %d", len(exp.Rules))
	}

	exp, err = a.Explain("abc", []mining.Item{"A", "Z"}, &mining.BruteForce{}, params)
	if err != nil {
		t.Fatalf("Explain() failed: %v", err)
	}
	if len(exp.Unknown) != 1 || exp.Unknown[0] != "Z" || exp.Count != 0 {
		t.Errorf("Explain(A, Z) = %+v", exp)
	}
}

func TestExplainNoItems(t *testing.T) {
	a := New(setupTestStore(t))
	if _, err := a.Explain("abc", nil, &mining.BruteForce{}, defaultParams); !errors.Is(err, mining.ErrInvalidParameter) {
		t.Errorf("Explain(nil) error = %v, want ErrInvalidParameter", err)
	}
}

func TestClassifyRule(t *testing.T) {
	tests := []struct {
		lift, confidence float64
		want             string
	}{
		{1.5, 0.9, TierStrong},
		{1.5, 0.6, TierPositive},
		{1.02, 0.9, TierIndependent},
		{0.7, 0.9, TierNegative},
	}
	for _, tt := range tests {
		got := ClassifyRule(mining.Rule{Lift: tt.lift, Confidence: tt.confidence})
		if got != tt.want {
			t.Errorf("ClassifyRule(lift=%v, conf=%v) = %s, want %s", tt.lift, tt.confidence, got, tt.want)
		}
	}
}
