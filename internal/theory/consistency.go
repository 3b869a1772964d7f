package theory

import (
	"github.com/cprefsql/cprefengine/internal/graph"
	"github.com/cprefsql/cprefengine/internal/rule"
)

// IsConsistent reports whether the theory passes both the global and
// the local (rule-rewriting) consistency checks.
func (t *Theory) IsConsistent() bool {
	return t.IsGloballyConsistent() && t.IsLocallyConsistent()
}

// IsGloballyConsistent builds one graph over attribute-name vertices,
// with edges cond_attr->pref_attr and pref_attr->indiff_attr for every
// rule, and requires it to be acyclic.
func (t *Theory) IsGloballyConsistent() bool {
	g := graph.New()
	for _, r := range t.rules {
		pref := graph.Attr(r.Preference.Attr)
		if r.Condition != nil {
			for _, att := range r.Condition.Attributes() {
				g.AddEdge(graph.Attr(att), pref)
			}
		}
		for att := range r.Preference.Indiff {
			g.AddEdge(pref, graph.Attr(att))
		}
	}
	return g.IsAcyclic()
}

// IsLocallyConsistent enumerates every maximal set of pairwise
// rule-compatible rules (see rule.IsCompatibleTo) and, for
// each such set, builds a graph over the rules' best/worst Intervals
// (edges best->worst), runs UpdateIntersections to materialize
// interval equivalence classes, and requires the result to be
// acyclic. The theory is locally consistent iff every maximal
// compatible set produces an acyclic graph.
func (t *Theory) IsLocallyConsistent() bool {
	for _, clique := range maximalCompatibleSets(t.rules) {
		g := graph.New()
		for _, idx := range clique {
			r := t.rules[idx]
			g.AddEdge(graph.Ivl(r.Preference.Best), graph.Ivl(r.Preference.Worst))
		}
		g.UpdateIntersections()
		if !g.IsAcyclic() {
			return false
		}
	}
	return true
}

// maximalCompatibleSets enumerates every maximal clique of the
// symmetric IsCompatibleTo relation over rule indices, via
// Bron-Kerbosch without pivoting. Rule counts in a CP-theory are small
// enough that the exponential worst case never matters in practice.
func maximalCompatibleSets(rules []rule.Rule) [][]int {
	n := len(rules)
	if n == 0 {
		return nil
	}
	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rules[i].IsCompatibleTo(rules[j]) {
				adj[i][j] = true
				adj[j][i] = true
			}
		}
	}

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	var cliques [][]int
	var bronKerbosch func(r, p, x []int)
	bronKerbosch = func(r, p, x []int) {
		if len(p) == 0 && len(x) == 0 {
			clique := make([]int, len(r))
			copy(clique, r)
			cliques = append(cliques, clique)
			return
		}
		pCopy := make([]int, len(p))
		copy(pCopy, p)
		for _, v := range pCopy {
			neighbors := func(set []int) []int {
				var out []int
				for _, u := range set {
					if adj[v][u] {
						out = append(out, u)
					}
				}
				return out
			}
			bronKerbosch(append(append([]int{}, r...), v), neighbors(p), neighbors(x))
			p = removeVal(p, v)
			x = append(x, v)
		}
	}
	bronKerbosch(nil, all, nil)
	return cliques
}

func removeVal(s []int, v int) []int {
	out := make([]int, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
