// Package theory implements the Theory: the rule list plus its
// derived caches (formulas, maximal formulas,
// comparisons), consistency analysis (global and local, via
// internal/graph's cycle tests), rule splitting (normalization to
// disjoint intervals), and the two dominance evaluators every
// internal/eval strategy ultimately rests on.
//
// This is the hub where every layer meets: interval semantics
// (internal/interval) feed overlap tests used by
// rule splitting (internal/rule.SplitRule/SplitNeqRule), which feeds
// formula generation, which feeds comparison derivation, which feeds
// the five evaluators in internal/eval.
package theory

import (
	"sort"

	"github.com/cprefsql/cprefengine/internal/rule"
)

// Theory owns a rule list and the caches derived from it once
// SplitRules and Materialize have run. The lifecycle is: built from
// parsed rules, optionally normalized via SplitRules, then
// materialized (formulas+comparisons), after which it is immutable
// for evaluation.
type Theory struct {
	rules []rule.Rule

	built       bool
	formulas    []rule.Formula
	maximal     []rule.Formula
	comparisons []Comparison
}

// New builds a Theory that owns a copy of rules. The caller's slice is
// never aliased or mutated.
func New(rules []rule.Rule) *Theory {
	t := &Theory{rules: make([]rule.Rule, len(rules))}
	copy(t.rules, rules)
	return t
}

// Rules returns the theory's current rule list (post-split, if
// SplitRules has run). Callers must not mutate the returned slice.
func (t *Theory) Rules() []rule.Rule { return t.rules }

// Materialize builds (or rebuilds) the formula and comparison caches
// from the current rule list. Called automatically by Formulas,
// MaximalFormulas, and Comparisons on first access, and again whenever
// SplitRules mutates the rule list.
func (t *Theory) Materialize() {
	t.formulas = generateFormulas(t.rules)
	t.maximal = maximalFormulas(t.formulas)
	t.comparisons = deriveComparisons(t.rules, t.formulas)
	t.built = true
}

func (t *Theory) ensureBuilt() {
	if !t.built {
		t.Materialize()
	}
}

// Formulas returns the full derived formula pool, building it on
// first access.
func (t *Theory) Formulas() []rule.Formula {
	t.ensureBuilt()
	return t.formulas
}

// MaximalFormulas returns the subset of Formulas whose size equals the
// largest observed arity.
func (t *Theory) MaximalFormulas() []rule.Formula {
	t.ensureBuilt()
	return t.maximal
}

// Comparisons returns the derived, transitively-closed,
// essentiality-pruned comparison list, sorted by canonical string for
// deterministic iteration.
func (t *Theory) Comparisons() []Comparison {
	t.ensureBuilt()
	return t.comparisons
}

// sortedFormulaKeys returns the formula pool's Key() strings in sorted
// order.
func sortedFormulaKeys(formulas []rule.Formula) []string {
	keys := make([]string, len(formulas))
	for i, f := range formulas {
		keys[i] = f.Key()
	}
	sort.Strings(keys)
	return keys
}
