package theory

import (
	"sort"
	"strings"

	"github.com/cprefsql/cprefengine/internal/interval"
	"github.com/cprefsql/cprefengine/internal/rule"
)

// Comparison is the derived triple (best_formula, worst_formula,
// indifferent_set), established either directly by a rule applied to
// a pair of formulas, or transitively by chaining two comparisons
// that share a middle formula.
type Comparison struct {
	Best   rule.Formula
	Worst  rule.Formula
	Indiff map[string]bool
}

// Key is the canonical string form used for dedup, the "more generic
// than" essentiality test's identity check, and deterministic sort
// order.
func (c Comparison) Key() string {
	atts := make([]string, 0, len(c.Indiff))
	for a := range c.Indiff {
		atts = append(atts, a)
	}
	sort.Strings(atts)
	return c.Best.Key() + ">" + c.Worst.Key() + "|" + strings.Join(atts, ",")
}

// moreGenericThan is the essentiality test: c is more generic than
// other iff c's best formula subsumes other's
// best formula, c's worst formula subsumes other's worst formula, and
// c's indifferent set is a subset of other's.
func (c Comparison) moreGenericThan(other Comparison) bool {
	if !c.Best.Subsumes(other.Best) || !c.Worst.Subsumes(other.Worst) {
		return false
	}
	for a := range c.Indiff {
		if !other.Indiff[a] {
			return false
		}
	}
	return true
}

func unionIndiff(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

// deriveComparisons runs comparison derivation in full: direct
// derivation from each rule applied to
// every ordered formula pair, Floyd-Warshall transitive closure over
// the formula index set, essentiality pruning, and a final
// canonical-string sort for deterministic iteration.
func deriveComparisons(rules []rule.Rule, formulas []rule.Formula) []Comparison {
	n := len(formulas)
	cell := make([][]map[string]Comparison, n)
	for i := range cell {
		cell[i] = make([]map[string]Comparison, n)
		for j := range cell[i] {
			cell[i][j] = map[string]Comparison{}
		}
	}
	put := func(i, j int, c Comparison) {
		cell[i][j][c.Key()] = c
	}

	// Direct derivation.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			f1, f2 := formulas[i], formulas[j]
			for _, r := range rules {
				if !r.DominatesFormula(f1, f2) {
					continue
				}
				prefAttr := r.Preference.Attr
				if interval.Intersect(f1[prefAttr], f2[prefAttr]) {
					continue
				}
				indiff := make(map[string]bool, len(r.Preference.Indiff))
				for a := range r.Preference.Indiff {
					indiff[a] = true
				}
				put(i, j, Comparison{Best: f1, Worst: f2, Indiff: indiff})
			}
		}
	}

	// Floyd-Warshall transitive closure: combine C[i][k] with C[k][j]
	// into C[i][j], unioning indifferent sets, for every intermediate k.
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if len(cell[i][k]) == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				if len(cell[k][j]) == 0 {
					continue
				}
				for _, c1 := range cell[i][k] {
					for _, c2 := range cell[k][j] {
						combined := Comparison{
							Best:   formulas[i],
							Worst:  formulas[j],
							Indiff: unionIndiff(c1.Indiff, c2.Indiff),
						}
						put(i, j, combined)
					}
				}
			}
		}
	}

	var all []Comparison
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for _, c := range cell[i][j] {
				all = append(all, c)
			}
		}
	}

	pruned := pruneEssential(all)

	sort.Slice(pruned, func(i, j int) bool { return pruned[i].Key() < pruned[j].Key() })
	return pruned
}

// pruneEssential removes any comparison that is strictly more generic
// than another distinct comparison in the list.
func pruneEssential(all []Comparison) []Comparison {
	// Dedup by key first so identical entries never "subsume" each other.
	seen := map[string]Comparison{}
	var order []string
	for _, c := range all {
		k := c.Key()
		if _, ok := seen[k]; !ok {
			seen[k] = c
			order = append(order, k)
		}
	}

	drop := make(map[string]bool, len(order))
	for _, ki := range order {
		ci := seen[ki]
		for _, kj := range order {
			if ki == kj {
				continue
			}
			if ci.moreGenericThan(seen[kj]) {
				drop[ki] = true
				break
			}
		}
	}

	out := make([]Comparison, 0, len(order))
	for _, k := range order {
		if !drop[k] {
			out = append(out, seen[k])
		}
	}
	return out
}
