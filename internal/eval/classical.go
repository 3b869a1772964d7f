package eval

import (
	"github.com/cprefsql/cprefengine/internal/record"
	"github.com/cprefsql/cprefengine/internal/theory"
)

// Classical is the nested-loop evaluator: pop
// records into a worklist, compare each candidate against the
// remainder via theory.Dominates, accumulate non-dominated records
// into best and dominated records into worst.
type Classical struct{}

func (Classical) Best(t *theory.Theory, records []record.Record) []record.Record {
	best, _ := classicalSplit(t, records)
	return best
}

// TopK repeats the best extraction on the worst list until k records
// are collected.
func (Classical) TopK(t *theory.Theory, records []record.Record, k int) []record.Record {
	var result []record.Record
	remaining := records
	for len(result) < k && len(remaining) > 0 {
		best, worst := classicalSplit(t, remaining)
		if len(best) == 0 {
			// No progress possible (e.g. an inconsistent/empty theory);
			// stop rather than loop forever.
			result = append(result, worst...)
			break
		}
		result = append(result, best...)
		remaining = worst
	}
	if len(result) > k {
		result = result[:k]
	}
	return result
}

func classicalSplit(t *theory.Theory, records []record.Record) (best, worst []record.Record) {
	worklist := make([]record.Record, len(records))
	copy(worklist, records)

	for len(worklist) > 0 {
		cand := worklist[0]
		rest := worklist[1:]

		candDominated := false
		remaining := make([]record.Record, 0, len(rest))
		for _, other := range rest {
			switch {
			case t.Dominates(other, cand):
				candDominated = true
				remaining = append(remaining, other)
			case t.Dominates(cand, other):
				worst = append(worst, other)
			default:
				remaining = append(remaining, other)
			}
		}

		if candDominated {
			worst = append(worst, cand)
		} else {
			best = append(best, cand)
		}
		worklist = remaining
	}
	return best, worst
}
