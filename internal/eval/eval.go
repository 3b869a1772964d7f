// Package eval implements the five dominance evaluators: classical
// nested-loop search, partition, extended partition (MaxPref-style),
// formulas/BTG, and maxpref/HiFor.
// All five share the Evaluator interface and consume a normalized,
// materialized internal/theory.Theory plus a caller-owned record
// batch; none of them mutate the theory or the input records.
package eval

import (
	"github.com/cprefsql/cprefengine/internal/interval"
	"github.com/cprefsql/cprefengine/internal/record"
	"github.com/cprefsql/cprefengine/internal/rule"
	"github.com/cprefsql/cprefengine/internal/theory"
)

// Evaluator is the shared interface every strategy in this package
// implements: best (non-dominated) records, and the first k records
// in preference order.
type Evaluator interface {
	Best(t *theory.Theory, records []record.Record) []record.Record
	TopK(t *theory.Theory, records []record.Record, k int) []record.Record
}

// matchesFormula reports whether record r satisfies every
// attribute-interval predicate a Formula carries; attributes the
// formula doesn't mention impose no constraint.
func matchesFormula(r record.Record, f rule.Formula) bool {
	for att, iv := range f {
		v, ok := r[att]
		if !ok || !interval.ContainsValue(iv, v) {
			return false
		}
	}
	return true
}

// recordLayer returns the index of the first (most preferred) layer
// containing a formula r satisfies, and false if r matches nothing.
func recordLayer(r record.Record, layers [][]rule.Formula) (int, bool) {
	for i, layer := range layers {
		for _, f := range layer {
			if matchesFormula(r, f) {
				return i, true
			}
		}
	}
	return -1, false
}

// layeredBest/layeredTopK are shared by the two layer-scoring
// evaluators (formulas/BTG and maxpref/HiFor): given a pre-built
// best-to-worst layer list, classify every record, by minimum matched
// layer, then input order.

// scoredRecord pairs a record with the index of the layer it matched.
type scoredRecord struct {
	rec   record.Record
	layer int
}

func layeredBest(layers [][]rule.Formula, records []record.Record) []record.Record {
	var scoredRecs []scoredRecord
	minLayer := -1
	for _, r := range records {
		l, ok := recordLayer(r, layers)
		if !ok {
			continue
		}
		scoredRecs = append(scoredRecs, scoredRecord{r, l})
		if minLayer == -1 || l < minLayer {
			minLayer = l
		}
	}
	if minLayer == -1 {
		out := make([]record.Record, len(records))
		copy(out, records)
		return out
	}
	var best []record.Record
	for _, s := range scoredRecs {
		if s.layer == minLayer {
			best = append(best, s.rec)
		}
	}
	return best
}

func layeredTopK(layers [][]rule.Formula, records []record.Record, k int) []record.Record {
	var matched []scoredRecord
	var unmatched []record.Record
	for _, r := range records {
		l, ok := recordLayer(r, layers)
		if ok {
			matched = append(matched, scoredRecord{r, l})
		} else {
			unmatched = append(unmatched, r)
		}
	}
	if len(matched) == 0 {
		n := len(records)
		if k >= 0 && k < n {
			n = k
		}
		out := make([]record.Record, n)
		copy(out, records)
		return out
	}
	// Stable sort by layer only: matched is already in input order, so
	// a stable sort by layer alone preserves relative order within a
	// layer.
	stableSortByLayer(matched)

	var out []record.Record
	for _, s := range matched {
		out = append(out, s.rec)
		if len(out) == k {
			return out
		}
	}
	for _, r := range unmatched {
		out = append(out, r)
		if len(out) == k {
			return out
		}
	}
	return out
}

func stableSortByLayer(s []scoredRecord) {
	// Insertion sort: matched lists are small, and insertion sort is
	// naturally stable, which preserves input order within a layer.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].layer < s[j-1].layer; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
