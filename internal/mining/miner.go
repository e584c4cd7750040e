package mining

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// AlgorithmBruteForce is the name reported by BruteForce.
const AlgorithmBruteForce = "bruteforce"

// Params are the thresholds of a mining pass.
type Params struct {
	MinSupport    Threshold
	MinConfidence float64
}

// Validate checks both thresholds.
func (p Params) Validate() error {
	if err := p.MinSupport.Validate(); err != nil {
		return err
	}
	return ValidateConfidence(p.MinConfidence)
}

// Stats describes the work done by a mining pass.
type Stats struct {
	Candidates int // itemsets whose support was counted
	RuleSplits int // antecedent/consequent splits examined
	Elapsed    time.Duration
}

// Result is the output of a mining pass: the frequent itemsets and the rules
// derived from them.
type Result struct {
	Algorithm    string
	Transactions int
	Items        int
	Frequent     *SupportRecord
	Rules        []Rule
	Stats        Stats
}

// Miner is the contract shared by every mining engine. Given the same
// database and parameters, all implementations return set-equal frequent
// itemsets and rules.
type Miner interface {
	Name() string
	Mine(db *Database, p Params) (*Result, error)
}

// BruteForce mines by counting every non-empty subset of the item universe.
type BruteForce struct {
	// MaxItems rejects universes with more distinct items. Zero means no
	// limit.
	MaxItems int

	// Progress, when set, is called after each candidate is counted.
	Progress func(done, total int)
}

// Name returns AlgorithmBruteForce.
func (b *BruteForce) Name() string {
	return AlgorithmBruteForce
}

// Mine runs the full pipeline. Parameters are validated before any work. An
// empty database or universe yields an empty result.
func (b *BruteForce) Mine(db *Database, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if db == nil {
		db = NewDatabase(nil)
	}

	start := time.Now()
	universe := db.Universe()
	if b.MaxItems > 0 && len(universe) > b.MaxItems {
		return nil, fmt.Errorf("%w: %d distinct items exceeds the limit of %d (%d candidates)",
			ErrInvalidParameter, len(universe), b.MaxItems, CandidateCount(len(universe)))
	}

	res := &Result{
		Algorithm:    AlgorithmBruteForce,
		Transactions: db.Len(),
		Items:        len(universe),
	}
	if db.Len() == 0 || len(universe) == 0 {
		res.Frequent = newSupportRecord(db.Len(), nil)
		res.Stats.Elapsed = time.Since(start)
		return res, nil
	}

	candidates := GenerateCandidates(universe)
	log.Debugf("bruteforce: %d transactions, %d items, %d candidates",
		db.Len(), len(universe), len(candidates))

	all, err := countSupport(db, candidates, b.Progress)
	if err != nil {
		return nil, err
	}

	frequent, err := FilterFrequent(all, p.MinSupport)
	if err != nil {
		return nil, err
	}
	for k := 1; k <= frequent.MaxSize(); k++ {
		log.Debugf("bruteforce: %d frequent %d-itemsets", len(frequent.OfSize(k)), k)
	}

	rules, err := GenerateRules(frequent, p.MinConfidence)
	if err != nil {
		return nil, err
	}

	res.Frequent = frequent
	res.Rules = rules.Rules
	res.Stats = Stats{
		Candidates: len(candidates),
		RuleSplits: rules.Considered,
		Elapsed:    time.Since(start),
	}

	log.WithFields(log.Fields{
		"algorithm": AlgorithmBruteForce,
		"itemsets":  frequent.Len(),
		"rules":     len(res.Rules),
		"elapsed":   res.Stats.Elapsed,
	}).Debug("mining pass complete")

	return res, nil
}

// Mine runs the brute-force engine with no item limit.
func Mine(db *Database, minSupport Threshold, minConfidence float64) (*Result, error) {
	return (&BruteForce{}).Mine(db, Params{MinSupport: minSupport, MinConfidence: minConfidence})
}
