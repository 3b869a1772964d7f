package eval

import (
	"sort"
	"strings"

	"github.com/cprefsql/cprefengine/internal/record"
	"github.com/cprefsql/cprefengine/internal/theory"
)

// Partition is the hash-bucket evaluator: for
// each Comparison, records are hashed by the attributes not in that
// comparison's indifferent set (and not among the comparison's
// formula attributes, which are exactly what's being compared); within
// a bucket, a record matching the worst formula is dropped whenever
// the same bucket also holds a record matching the best formula.
type Partition struct{}

func (Partition) Best(t *theory.Theory, records []record.Record) []record.Record {
	best, _ := partitionOnce(t, records)
	return best
}

func (Partition) TopK(t *theory.Theory, records []record.Record, k int) []record.Record {
	return partitionTopK(t, records, k)
}

// partitionTopK iterates the bucket-and-drop procedure on the
// residual dominated records until k records are collected. Shared
// with ExtendedPartition, which only differs in which theory it runs
// the procedure against.
func partitionTopK(t *theory.Theory, records []record.Record, k int) []record.Record {
	var result []record.Record
	remaining := records
	for len(result) < k && len(remaining) > 0 {
		best, worst := partitionOnce(t, remaining)
		if len(worst) == len(remaining) {
			// Every remaining record was dropped this round, so no best
			// record surfaced; further iteration would never terminate.
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

// partitionOnce runs one pass of the bucket-and-drop procedure over
// every Comparison in the theory, in canonical (deterministic) order.
func partitionOnce(t *theory.Theory, records []record.Record) (best, worst []record.Record) {
	dominated := make([]bool, len(records))

	allAttrs := map[string]bool{}
	for _, r := range records {
		for att := range r {
			allAttrs[att] = true
		}
	}

	for _, c := range t.Comparisons() {
		bucketAttrs := make([]string, 0, len(allAttrs))
		for att := range allAttrs {
			if c.Indiff[att] {
				continue
			}
			if _, inBest := c.Best[att]; inBest {
				continue
			}
			if _, inWorst := c.Worst[att]; inWorst {
				continue
			}
			bucketAttrs = append(bucketAttrs, att)
		}
		sort.Strings(bucketAttrs)

		buckets := map[string][]int{}
		for i, r := range records {
			if dominated[i] {
				continue
			}
			key := bucketKey(r, bucketAttrs)
			buckets[key] = append(buckets[key], i)
		}

		for _, idxs := range buckets {
			hasBest := false
			for _, i := range idxs {
				if matchesFormula(records[i], c.Best) {
					hasBest = true
					break
				}
			}
			if !hasBest {
				continue
			}
			for _, i := range idxs {
				if matchesFormula(records[i], c.Worst) {
					dominated[i] = true
				}
			}
		}
	}

	for i, r := range records {
		if dominated[i] {
			worst = append(worst, r)
		} else {
			best = append(best, r)
		}
	}
	return best, worst
}

func bucketKey(r record.Record, attrs []string) string {
	var b strings.Builder
	for _, att := range attrs {
		b.WriteString(att)
		b.WriteByte('=')
		if v, ok := r[att]; ok {
			b.WriteString(v.String())
		} else {
			b.WriteByte('?')
		}
		b.WriteByte(';')
	}
	return b.String()
}
