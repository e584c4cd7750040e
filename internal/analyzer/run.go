package analyzer

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/blackwell-systems/basketmine/internal/dataset"
	"github.com/blackwell-systems/basketmine/internal/mining"
	"github.com/blackwell-systems/basketmine/internal/store"
)

const (
	// StrongConfidence is the confidence a positive rule needs to be strong.
	StrongConfidence = 0.8

	// LiftEpsilon is how close to 1 a lift must be to count as independent.
	LiftEpsilon = 0.05
)

// LoadDatabase reads a stored dataset into a mining database.
func (a *Analyzer) LoadDatabase(name string) (*mining.Database, error) {
	txs, err := a.store.GetTransactions(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", name, err)
	}
	return dataset.Database(txs), nil
}

// Run mines the named dataset with miner and records the run.
func (a *Analyzer) Run(name string, miner mining.Miner, params mining.Params) (*mining.Result, *store.Run, error) {
	db, err := a.LoadDatabase(name)
	if err != nil {
		return nil, nil, err
	}
	return a.RunDatabase(name, db, miner, params)
}

// RunDatabase mines db and records the run under name.
func (a *Analyzer) RunDatabase(name string, db *mining.Database, miner mining.Miner, params mining.Params) (*mining.Result, *store.Run, error) {
	res, err := miner.Mine(db, params)
	if err != nil {
		return nil, nil, fmt.Errorf("%s on %s: %w", miner.Name(), name, err)
	}

	run := &store.Run{
		Dataset:       name,
		Algorithm:     res.Algorithm,
		MinSupport:    params.MinSupport.String(),
		MinConfidence: params.MinConfidence,
		Transactions:  res.Transactions,
		Itemsets:      res.Frequent.Len(),
		Rules:         len(res.Rules),
		Candidates:    res.Stats.Candidates,
		Elapsed:       res.Stats.Elapsed,
	}
	if err := a.store.InsertRun(run); err != nil {
		return nil, nil, fmt.Errorf("failed to record run: %w", err)
	}

	log.WithFields(log.Fields{
		"run":     run.ID,
		"dataset": name,
		"rules":   run.Rules,
	}).Debug("run recorded")

	return res, run, nil
}

// ClassifyRule returns the strength tier of r.
func ClassifyRule(r mining.Rule) string {
	switch {
	case math.Abs(r.Lift-1) <= LiftEpsilon:
		return TierIndependent
	case r.Lift < 1:
		return TierNegative
	case r.Confidence >= StrongConfidence:
		return TierStrong
	default:
		return TierPositive
	}
}
