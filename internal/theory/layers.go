package theory

import (
	"github.com/cprefsql/cprefengine/internal/graph"
	"github.com/cprefsql/cprefengine/internal/rule"
)

// GetSortedFormulas is the theory-owned Better-Than-Graph helper the
// maxpref/HiFor evaluator goes through: a graph over the
// maximal formulas, edges best->worst for every Comparison relating
// two maximal formulas, reduced to topological layers (layer 0 most
// preferred). internal/eval's formulas/BTG evaluator builds an
// equivalent graph itself rather than calling this helper; the two
// code paths are deliberately independent renditions of the same
// layered score.
func (t *Theory) GetSortedFormulas() [][]rule.Formula {
	maximal := t.MaximalFormulas()
	keyed := make(map[string]rule.Formula, len(maximal))
	g := graph.New()
	for _, f := range maximal {
		keyed[f.Key()] = f
		g.AddVertex(graph.Attr(f.Key()))
	}
	for _, c := range t.Comparisons() {
		if _, ok := keyed[c.Best.Key()]; !ok {
			continue
		}
		if _, ok := keyed[c.Worst.Key()]; !ok {
			continue
		}
		g.AddEdge(graph.Attr(c.Best.Key()), graph.Attr(c.Worst.Key()))
	}

	raw := g.TopologicalLayers()
	out := make([][]rule.Formula, len(raw))
	for i, layer := range raw {
		for _, v := range layer {
			out[i] = append(out[i], keyed[v.Attr])
		}
	}
	return out
}
