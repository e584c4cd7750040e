// Package rulefilter selects association rules with boolean expressions
// such as `lift > 1 && "Milk" in consequent`.
//
// Expressions see the fields of Env: support, confidence, lift, count,
// size, antecedent and consequent, and the method Has(item), which reports
// whether either side of the rule contains item.
package rulefilter

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

// ErrInvalidExpression is returned when an expression does not compile to a
// boolean program.
var ErrInvalidExpression = errors.New("invalid filter expression")

// Env is the evaluation environment of a single rule.
type Env struct {
	Support    float64  `expr:"support"`
	Confidence float64  `expr:"confidence"`
	Lift       float64  `expr:"lift"`
	Count      int      `expr:"count"`
	Size       int      `expr:"size"`
	Antecedent []string `expr:"antecedent"`
	Consequent []string `expr:"consequent"`
}

// NewEnv builds the environment for r.
func NewEnv(r mining.Rule) Env {
	return Env{
		Support:    r.Support,
		Confidence: r.Confidence,
		Lift:       r.Lift,
		Count:      r.Count,
		Size:       r.Antecedent.Len() + r.Consequent.Len(),
		Antecedent: r.Antecedent,
		Consequent: r.Consequent,
	}
}

// Has reports whether the antecedent or consequent contains item.
func (e Env) Has(item string) bool {
	return contains(e.Antecedent, item) || contains(e.Consequent, item)
}

// Filter is a compiled rule expression.
type Filter struct {
	source  string
	program *vm.Program
}

// Compile checks source against Env and compiles it. The expression must
// evaluate to a bool.
func Compile(source string) (*Filter, error) {
	options := []expr.Option{
		expr.Env(Env{}),
		expr.AsBool(),
	}

	program, err := expr.Compile(source, options...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return &Filter{source: source, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.source
}

// Match evaluates the filter against r.
func (f *Filter) Match(r mining.Rule) (bool, error) {
	out, err := expr.Run(f.program, NewEnv(r))
	if err != nil {
		return false, fmt.Errorf("evaluate %q on %s: %w", f.source, r, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply returns the rules that match, keeping their order.
func (f *Filter) Apply(rules []mining.Rule) ([]mining.Rule, error) {
	kept := make([]mining.Rule, 0, len(rules))
	for _, r := range rules {
		ok, err := f.Match(r)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

func contains(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}
