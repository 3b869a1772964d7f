// Package engine is the front door the CLI, the REPL, and tests go
// through: it takes preference rule text and a record batch, runs the
// full pipeline (parse, build, normalize, consistency check), and
// dispatches to one of the five evaluation strategies in
// internal/eval. Per the error-handling contract, malformed rule text
// returns an error and an inconsistent theory returns an empty result.
package engine

import (
	"fmt"
	"strings"

	"github.com/cprefsql/cprefengine/internal/eval"
	"github.com/cprefsql/cprefengine/internal/parser"
	"github.com/cprefsql/cprefengine/internal/record"
	"github.com/cprefsql/cprefengine/internal/theory"
)

// Strategy selects one of the five evaluation algorithms.
type Strategy int

const (
	Classical Strategy = iota
	Partition
	ExtendedPartition
	FormulaBTG
	MaxPref
)

// Strategies lists every strategy in declaration order, for CLI help
// text and evaluator-agreement tests.
var Strategies = []Strategy{Classical, Partition, ExtendedPartition, FormulaBTG, MaxPref}

func (s Strategy) String() string {
	switch s {
	case Classical:
		return "classical"
	case Partition:
		return "partition"
	case ExtendedPartition:
		return "extended"
	case FormulaBTG:
		return "formulas"
	default:
		return "maxpref"
	}
}

// ParseStrategy resolves a strategy name from the CLI.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies {
		if s.String() == strings.ToLower(name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q (want classical, partition, extended, formulas, or maxpref)", name)
}

func (s Strategy) evaluator() eval.Evaluator {
	switch s {
	case Classical:
		return eval.Classical{}
	case Partition:
		return eval.Partition{}
	case ExtendedPartition:
		return eval.ExtendedPartition{}
	case FormulaBTG:
		return eval.FormulaBTG{}
	default:
		return eval.MaxPref{}
	}
}

// Load parses preference text and builds the Theory from it. The
// returned theory is not yet normalized; callers that evaluate go
// through prepare instead.
func Load(prefText string) (*theory.Theory, error) {
	parsed, parseErrs := parser.ParseSource("<preferences>", prefText)
	if len(parseErrs) > 0 {
		return nil, parseErrs[0]
	}
	return theory.Build(parsed)
}

// prepare runs the shared pipeline prefix: load, normalize to
// disjoint intervals, and check consistency. ok is false for an
// inconsistent theory, in which case evaluation must produce an empty
// result rather than an error.
func prepare(prefText string) (*theory.Theory, bool, error) {
	t, err := Load(prefText)
	if err != nil {
		return nil, false, err
	}
	t.SplitRules()
	if !t.IsConsistent() {
		return nil, false, nil
	}
	return t, true, nil
}

// Best returns the non-dominated records under the given strategy.
func Best(s Strategy, prefText string, records []record.Record) ([]record.Record, error) {
	t, ok, err := prepare(prefText)
	if err != nil || !ok {
		return nil, err
	}
	return s.evaluator().Best(t, records), nil
}

// TopK returns the first k records in preference order under the
// given strategy.
func TopK(s Strategy, prefText string, records []record.Record, k int) ([]record.Record, error) {
	t, ok, err := prepare(prefText)
	if err != nil || !ok {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	return s.evaluator().TopK(t, records, k), nil
}
