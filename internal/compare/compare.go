// Package compare cross-checks the output of mining engines and times them.
package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

// DefaultTolerance is the metric difference accepted when none is given.
const DefaultTolerance = 1e-6

// Options control a comparison.
type Options struct {
	// Tolerance is the largest absolute difference allowed between two
	// support, confidence or lift values. Zero means DefaultTolerance.
	Tolerance float64

	// StrictOrder also requires both rule lists to be in the same order.
	StrictOrder bool
}

func (o Options) tolerance() float64 {
	if o.Tolerance <= 0 {
		return DefaultTolerance
	}
	return o.Tolerance
}

// Mismatch is a metric that differs beyond tolerance between two results.
type Mismatch struct {
	Subject string // itemset or rule
	Metric  string
	Left    float64
	Right   float64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %s: %.6f vs %.6f", m.Subject, m.Metric, m.Left, m.Right)
}

// Report lists every difference found between a left and right result.
type Report struct {
	Left  string
	Right string

	ItemsetsCompared int
	RulesCompared    int

	MissingItemsets []mining.Itemset // in left only
	ExtraItemsets   []mining.Itemset // in right only
	MissingRules    []mining.Rule    // in left only
	ExtraRules      []mining.Rule    // in right only
	Mismatches      []Mismatch

	// OrderDiffers is set when both sides hold the same rules in a
	// different order.
	OrderDiffers bool
	strictOrder  bool
}

// Equivalent reports whether the two results agree.
func (r *Report) Equivalent() bool {
	if len(r.MissingItemsets) > 0 || len(r.ExtraItemsets) > 0 {
		return false
	}
	if len(r.MissingRules) > 0 || len(r.ExtraRules) > 0 || len(r.Mismatches) > 0 {
		return false
	}
	return !(r.strictOrder && r.OrderDiffers)
}

// Differences returns a human-readable line per difference.
func (r *Report) Differences() []string {
	var lines []string
	for _, s := range r.MissingItemsets {
		lines = append(lines, fmt.Sprintf("itemset %s only in %s", s, r.Left))
	}
	for _, s := range r.ExtraItemsets {
		lines = append(lines, fmt.Sprintf("itemset %s only in %s", s, r.Right))
	}
	for _, rule := range r.MissingRules {
		lines = append(lines, fmt.Sprintf("rule %s only in %s", rule, r.Left))
	}
	for _, rule := range r.ExtraRules {
		lines = append(lines, fmt.Sprintf("rule %s only in %s", rule, r.Right))
	}
	for _, m := range r.Mismatches {
		lines = append(lines, m.String())
	}
	if r.OrderDiffers {
		lines = append(lines, "rules are in a different order")
	}
	return lines
}

// String summarises the report on one line.
func (r *Report) String() string {
	status := "equivalent"
	if !r.Equivalent() {
		status = fmt.Sprintf("%d differences", len(r.Differences()))
	}
	return fmt.Sprintf("%s vs %s: %d itemsets, %d rules, %s",
		r.Left, r.Right, r.ItemsetsCompared, r.RulesCompared, status)
}

// Results compares the frequent itemsets and rules of two mining results.
// Itemsets and rules are matched by their items; matched pairs are compared
// metric by metric within the tolerance.
func Results(left, right *mining.Result, opts Options) *Report {
	tol := opts.tolerance()
	r := &Report{
		Left:        name(left, "left"),
		Right:       name(right, "right"),
		strictOrder: opts.StrictOrder,
	}

	leftSets, rightSets := entries(left), entries(right)
	rightIndex := make(map[string]mining.ItemsetSupport, len(rightSets))
	for _, e := range rightSets {
		rightIndex[e.Itemset.Key()] = e
	}
	seen := make(map[string]bool, len(leftSets))
	for _, l := range leftSets {
		key := l.Itemset.Key()
		seen[key] = true
		rt, ok := rightIndex[key]
		if !ok {
			r.MissingItemsets = append(r.MissingItemsets, l.Itemset)
			continue
		}
		r.ItemsetsCompared++
		r.check(l.Itemset.String(), "support", l.Support, rt.Support, tol)
	}
	for _, e := range rightSets {
		if !seen[e.Itemset.Key()] {
			r.ExtraItemsets = append(r.ExtraItemsets, e.Itemset)
		}
	}

	leftRules, rightRules := rules(left), rules(right)
	rightRuleIndex := make(map[string]mining.Rule, len(rightRules))
	for _, rule := range rightRules {
		rightRuleIndex[rule.Key()] = rule
	}
	seenRules := make(map[string]bool, len(leftRules))
	for _, l := range leftRules {
		key := l.Key()
		seenRules[key] = true
		rt, ok := rightRuleIndex[key]
		if !ok {
			r.MissingRules = append(r.MissingRules, l)
			continue
		}
		r.RulesCompared++
		subject := l.String()
		r.check(subject, "support", l.Support, rt.Support, tol)
		r.check(subject, "confidence", l.Confidence, rt.Confidence, tol)
		r.check(subject, "lift", l.Lift, rt.Lift, tol)
	}
	for _, rule := range rightRules {
		if !seenRules[rule.Key()] {
			r.ExtraRules = append(r.ExtraRules, rule)
		}
	}

	if len(leftRules) == len(rightRules) && len(r.MissingRules) == 0 {
		for i := range leftRules {
			if leftRules[i].Key() != rightRules[i].Key() {
				r.OrderDiffers = true
				break
			}
		}
	}

	return r
}

func (r *Report) check(subject, metric string, left, right, tol float64) {
	if math.Abs(left-right) > tol || math.IsNaN(left) != math.IsNaN(right) {
		r.Mismatches = append(r.Mismatches, Mismatch{Subject: subject, Metric: metric, Left: left, Right: right})
	}
}

func name(res *mining.Result, fallback string) string {
	if res == nil || strings.TrimSpace(res.Algorithm) == "" {
		return fallback
	}
	return res.Algorithm
}

func entries(res *mining.Result) []mining.ItemsetSupport {
	if res == nil || res.Frequent == nil {
		return nil
	}
	return res.Frequent.Entries()
}

func rules(res *mining.Result) []mining.Rule {
	if res == nil {
		return nil
	}
	return res.Rules
}
