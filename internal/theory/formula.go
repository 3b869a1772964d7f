package theory

import (
	"sort"

	"github.com/cprefsql/cprefengine/internal/rule"
)

// replaceAt removes the rule at index i and appends parts in its
// place, preserving the relative order of everything else. Used by
// both splitting phases.
func replaceAt(rules []rule.Rule, i int, parts []rule.Rule) []rule.Rule {
	out := make([]rule.Rule, 0, len(rules)-1+len(parts))
	out = append(out, rules[:i]...)
	out = append(out, rules[i+1:]...)
	out = append(out, parts...)
	return out
}

// generateFormulas grows the formula pool: collect every atomic
// formula from every rule, then iteratively grow
// the pool — for each atomic predicate {att: interval}, for each
// formula not yet constrained on att, add an augmented copy — until a
// fixed point (no formula added) is reached. The result is closed
// under attribute-addition from the atomic predicates.
func generateFormulas(rules []rule.Rule) []rule.Formula {
	var atomics []rule.Formula
	for _, r := range rules {
		atomics = append(atomics, r.AtomicFormulas()...)
	}

	pool := map[string]rule.Formula{}
	var order []string
	add := func(f rule.Formula) bool {
		k := f.Key()
		if _, ok := pool[k]; ok {
			return false
		}
		pool[k] = f
		order = append(order, k)
		return true
	}
	for _, a := range atomics {
		add(a)
	}

	for {
		grew := false
		// Snapshot current formula keys so growth this round reads a
		// stable pool (new formulas from this round join next round).
		current := make([]string, len(order))
		copy(current, order)
		for _, k := range current {
			f := pool[k]
			for _, atom := range atomics {
				var att string
				var iv = atom
				for a := range iv {
					att = a
					break
				}
				if _, has := f[att]; has {
					continue
				}
				child := f.Clone()
				for a, v := range atom {
					child[a] = v
				}
				if add(child) {
					grew = true
				}
			}
		}
		if !grew {
			break
		}
	}

	sort.Strings(order)
	out := make([]rule.Formula, len(order))
	for i, k := range order {
		out[i] = pool[k]
	}
	return out
}

// maximalFormulas returns the subset of formulas whose size (attribute
// count) equals the largest size observed.
func maximalFormulas(formulas []rule.Formula) []rule.Formula {
	max := 0
	for _, f := range formulas {
		if len(f) > max {
			max = len(f)
		}
	}
	var out []rule.Formula
	for _, f := range formulas {
		if len(f) == max {
			out = append(out, f)
		}
	}
	return out
}
