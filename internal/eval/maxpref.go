package eval

import (
	"github.com/cprefsql/cprefengine/internal/record"
	"github.com/cprefsql/cprefengine/internal/theory"
)

// MaxPref is the maxpref/HiFor evaluator:
// unlike FormulaBTG, which builds its own graph, this strategy goes
// straight through the theory's own GetSortedFormulas helper.
type MaxPref struct{}

func (MaxPref) Best(t *theory.Theory, records []record.Record) []record.Record {
	return layeredBest(t.GetSortedFormulas(), records)
}

func (MaxPref) TopK(t *theory.Theory, records []record.Record, k int) []record.Record {
	return layeredTopK(t.GetSortedFormulas(), records, k)
}
