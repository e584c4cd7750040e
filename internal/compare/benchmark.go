package compare

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

// Timing summarises repeated runs of one engine.
type Timing struct {
	Algorithm string
	Runs      int
	Mean      time.Duration
	Median    time.Duration
	StdDev    time.Duration
	Min       time.Duration
	Max       time.Duration
	Itemsets  int
	Rules     int
}

// BenchmarkReport holds the timing of every engine and how each one
// compares with the first.
type BenchmarkReport struct {
	Timings []Timing
	Checks  []*Report
	Results []*mining.Result
}

// Equivalent reports whether every engine agreed with the first one.
func (b *BenchmarkReport) Equivalent() bool {
	for _, c := range b.Checks {
		if !c.Equivalent() {
			return false
		}
	}
	return true
}

// Benchmark mines db with each miner repeat times and records elapsed time
// statistics. The result of the last run of every miner after the first is
// compared against the first miner's.
func Benchmark(db *mining.Database, params mining.Params, miners []mining.Miner, repeat int, opts Options) (*BenchmarkReport, error) {
	if len(miners) == 0 {
		return nil, fmt.Errorf("%w: no miners to benchmark", mining.ErrInvalidParameter)
	}
	if repeat < 1 {
		return nil, fmt.Errorf("%w: repeat %d must be at least 1", mining.ErrInvalidParameter, repeat)
	}

	report := &BenchmarkReport{}
	for _, m := range miners {
		var last *mining.Result
		samples := make(stats.Float64Data, 0, repeat)
		for i := 0; i < repeat; i++ {
			start := time.Now()
			res, err := m.Mine(db, params)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", m.Name(), err)
			}
			samples = append(samples, float64(time.Since(start)))
			last = res
		}

		timing, err := summarise(m.Name(), samples)
		if err != nil {
			return nil, err
		}
		timing.Itemsets = last.Frequent.Len()
		timing.Rules = len(last.Rules)
		report.Timings = append(report.Timings, timing)
		report.Results = append(report.Results, last)

		log.WithFields(log.Fields{
			"algorithm": m.Name(),
			"runs":      repeat,
			"mean":      timing.Mean,
		}).Debug("benchmark complete")
	}

	for _, res := range report.Results[1:] {
		report.Checks = append(report.Checks, Results(report.Results[0], res, opts))
	}

	return report, nil
}

func summarise(algorithm string, samples stats.Float64Data) (Timing, error) {
	mean, err := stats.Mean(samples)
	if err != nil {
		return Timing{}, err
	}
	median, err := stats.Median(samples)
	if err != nil {
		return Timing{}, err
	}
	stddev, err := stats.StandardDeviation(samples)
	if err != nil {
		return Timing{}, err
	}
	fastest, err := stats.Min(samples)
	if err != nil {
		return Timing{}, err
	}
	slowest, err := stats.Max(samples)
	if err != nil {
		return Timing{}, err
	}

	return Timing{
		Algorithm: algorithm,
		Runs:      len(samples),
		Mean:      time.Duration(mean),
		Median:    time.Duration(median),
		StdDev:    time.Duration(stddev),
		Min:       time.Duration(fastest),
		Max:       time.Duration(slowest),
	}, nil
}
