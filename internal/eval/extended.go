package eval

import (
	"github.com/cprefsql/cprefengine/internal/record"
	"github.com/cprefsql/cprefengine/internal/theory"
)

// ExtendedPartition is the MaxPref-style partition evaluator: split
// the rule set to disjoint intervals first, then run the
// same bucket-and-drop procedure Partition uses against the split
// theory. Splitting is what lets a single bucket pass assign a
// definite dominant/dominated verdict even when the unsplit rules
// carry overlapping intervals.
type ExtendedPartition struct{}

func (ExtendedPartition) Best(t *theory.Theory, records []record.Record) []record.Record {
	best, _ := partitionOnce(splitCopy(t), records)
	return best
}

func (ExtendedPartition) TopK(t *theory.Theory, records []record.Record, k int) []record.Record {
	return partitionTopK(splitCopy(t), records, k)
}

// splitCopy builds a private, split, materialized copy of t so that
// ExtendedPartition never mutates the caller's theory.
func splitCopy(t *theory.Theory) *theory.Theory {
	s := theory.New(t.Rules())
	s.SplitRules()
	return s
}
