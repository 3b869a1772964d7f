package eval

import (
	"github.com/cprefsql/cprefengine/internal/graph"
	"github.com/cprefsql/cprefengine/internal/record"
	"github.com/cprefsql/cprefengine/internal/rule"
	"github.com/cprefsql/cprefengine/internal/theory"
)

// FormulaBTG is the formulas/BTG evaluator: it
// builds its own Better-Than Graph over the theory's maximal formulas,
// independently of internal/theory.GetSortedFormulas, then classifies
// records by the resulting layers. The duplication is deliberate:
// formulas/BTG and maxpref/HiFor are two independent renditions of
// the same layered score.
type FormulaBTG struct{}

func (FormulaBTG) Best(t *theory.Theory, records []record.Record) []record.Record {
	return layeredBest(betterThanLayers(t), records)
}

func (FormulaBTG) TopK(t *theory.Theory, records []record.Record, k int) []record.Record {
	return layeredTopK(betterThanLayers(t), records, k)
}

// betterThanLayers builds a graph with one vertex per maximal formula
// and a best->worst edge per Comparison relating two maximal formulas,
// then reduces it to topological layers (layer 0 most preferred).
func betterThanLayers(t *theory.Theory) [][]rule.Formula {
	maximal := t.MaximalFormulas()
	keyed := make(map[string]rule.Formula, len(maximal))
	g := graph.New()
	for _, f := range maximal {
		keyed[f.Key()] = f
		g.AddVertex(graph.Attr(f.Key()))
	}
	for _, c := range t.Comparisons() {
		bk, wk := c.Best.Key(), c.Worst.Key()
		if _, ok := keyed[bk]; !ok {
			continue
		}
		if _, ok := keyed[wk]; !ok {
			continue
		}
		g.AddEdge(graph.Attr(bk), graph.Attr(wk))
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
