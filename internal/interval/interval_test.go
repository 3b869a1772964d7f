package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cprefsql/cprefengine/internal/value"
)

func vi(i int64) value.Value { return value.NewInteger(i) }

func pt(i int64) *value.Value {
	v := vi(i)
	return &v
}

func TestParseIntervalCanonicalForms(t *testing.T) {
	tests := []struct {
		name string
		op   RelOp
		want Interval
	}{
		{"eq", OpEQ, Interval{Lo: pt(7), Lop: EQ, Rop: EQ, Hi: pt(7)}},
		{"neq", OpNEQ, Interval{Lo: pt(7), Lop: NEQ, Rop: NEQ, Hi: pt(7)}},
		{"lt", OpLT, Interval{Lo: nil, Lop: LE, Rop: LT, Hi: pt(7)}},
		{"le", OpLE, Interval{Lo: nil, Lop: LE, Rop: LE, Hi: pt(7)}},
		{"gt", OpGT, Interval{Lo: pt(7), Lop: LT, Rop: LE, Hi: nil}},
		{"ge", OpGE, Interval{Lo: pt(7), Lop: LE, Rop: LE, Hi: nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInterval(tt.op, vi(7))
			assert.True(t, Equal(tt.want, got), "got %s", got)
		})
	}
}

func TestSplitNeq(t *testing.T) {
	parts := SplitNeq(Disequality(vi(3)))
	require.Len(t, parts, 2)

	left, right := parts[0], parts[1]
	assert.True(t, Equal(left, Interval{Lo: nil, Lop: LE, Rop: LT, Hi: pt(3)}))
	assert.True(t, Equal(right, Interval{Lo: pt(3), Lop: LT, Rop: LE, Hi: nil}))

	// The two halves are disjoint and neither contains the excluded point.
	assert.False(t, Intersect(left, right))
	assert.False(t, ContainsValue(left, vi(3)))
	assert.False(t, ContainsValue(right, vi(3)))
	assert.True(t, ContainsValue(left, vi(2)))
	assert.True(t, ContainsValue(right, vi(4)))

	// Non-disequalities yield nothing.
	assert.Nil(t, SplitNeq(Equality(vi(3))))
	assert.Nil(t, SplitNeq(ParseInterval(OpLT, vi(3))))
}

func TestContainsValue(t *testing.T) {
	rng := Range(pt(1), LE, LT, pt(5)) // [1, 5)
	assert.True(t, ContainsValue(rng, vi(1)))
	assert.True(t, ContainsValue(rng, vi(4)))
	assert.False(t, ContainsValue(rng, vi(5)))
	assert.False(t, ContainsValue(rng, vi(0)))

	open := Range(pt(1), LT, LE, pt(5)) // (1, 5]
	assert.False(t, ContainsValue(open, vi(1)))
	assert.True(t, ContainsValue(open, vi(5)))

	assert.True(t, ContainsValue(Equality(vi(2)), vi(2)))
	assert.False(t, ContainsValue(Equality(vi(2)), vi(3)))
	assert.True(t, ContainsValue(Disequality(vi(2)), vi(3)))
	assert.False(t, ContainsValue(Disequality(vi(2)), vi(2)))

	unbounded := Range(pt(3), LT, LE, nil) // (3, +inf)
	assert.True(t, ContainsValue(unbounded, vi(1000)))
	assert.False(t, ContainsValue(unbounded, vi(3)))
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical ranges", Range(pt(1), LE, LE, pt(5)), Range(pt(1), LE, LE, pt(5)), true},
		{"overlapping ranges", Range(pt(1), LE, LE, pt(5)), Range(pt(3), LE, LE, pt(9)), true},
		{"disjoint ranges", Range(pt(1), LE, LE, pt(2)), Range(pt(3), LE, LE, pt(4)), false},
		{"touching closed endpoints", Range(pt(1), LE, LE, pt(3)), Range(pt(3), LE, LE, pt(5)), true},
		{"touching open endpoint", Range(pt(1), LE, LT, pt(3)), Range(pt(3), LE, LE, pt(5)), false},
		{"equality inside range", Equality(vi(2)), Range(pt(1), LE, LE, pt(5)), true},
		{"equality outside range", Equality(vi(9)), Range(pt(1), LE, LE, pt(5)), false},
		{"equality at open boundary", Equality(vi(5)), Range(pt(1), LE, LT, pt(5)), false},
		{"two equal equalities", Equality(vi(2)), Equality(vi(2)), true},
		{"two distinct equalities", Equality(vi(2)), Equality(vi(3)), false},
		{"disequality vs same-point equality", Disequality(vi(2)), Equality(vi(2)), false},
		{"disequality vs other equality", Disequality(vi(2)), Equality(vi(3)), true},
		{"disequality vs range", Disequality(vi(2)), Range(pt(1), LE, LE, pt(5)), true},
		{"two disequalities", Disequality(vi(2)), Disequality(vi(3)), true},
		{"unbounded halves disjoint", Range(nil, LE, LT, pt(3)), Range(pt(3), LT, LE, nil), false},
		{"unbounded halves overlapping", Range(nil, LE, LE, pt(3)), Range(pt(3), LE, LE, nil), true},
		{"cross-kind values never overlap", Equality(vi(1)), Equality(value.NewString("1")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intersect(tt.a, tt.b))
			// Overlap symmetry holds for every pair.
			assert.Equal(t, Intersect(tt.a, tt.b), Intersect(tt.b, tt.a))
		})
	}
}

// samplePoints is a fine integer-ish probe grid around the endpoints
// used by the splitting tests below.
var samplePoints = []int64{-10, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 20}

func assertPartition(t *testing.T, s Interval, parts []Interval) {
	t.Helper()

	// Pairwise non-overlapping.
	for i := range parts {
		for j := i + 1; j < len(parts); j++ {
			assert.False(t, Intersect(parts[i], parts[j]),
				"parts %s and %s overlap", parts[i], parts[j])
		}
	}

	// Union equals s over the probe grid.
	for _, p := range samplePoints {
		v := vi(p)
		inParts := false
		for _, part := range parts {
			if ContainsValue(part, v) {
				inParts = true
				break
			}
		}
		assert.Equal(t, ContainsValue(s, v), inParts, "point %d", p)
	}
}

func TestSplitInterval(t *testing.T) {
	tests := []struct {
		name  string
		s, f  Interval
		parts int
	}{
		{"overlay strictly inside", Range(pt(0), LE, LE, pt(10)), Range(pt(3), LE, LE, pt(7)), 3},
		{"overlay covers left", Range(pt(0), LE, LE, pt(10)), Range(nil, LE, LE, pt(4)), 2},
		{"overlay covers right", Range(pt(0), LE, LE, pt(10)), Range(pt(6), LE, LE, nil), 2},
		{"point overlay", Range(pt(0), LE, LE, pt(10)), Equality(vi(5)), 3},
		{"overlay shares left endpoint", Range(pt(0), LE, LE, pt(10)), Range(pt(0), LE, LT, pt(5)), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := SplitInterval(tt.s, tt.f)
			require.Len(t, parts, tt.parts, "got %v", parts)
			assertPartition(t, tt.s, parts)
		})
	}
}

func TestSplitIntervalCollapsesSinglePoints(t *testing.T) {
	// Splitting [0,10] on the point 5 must yield an equality middle.
	parts := SplitInterval(Range(pt(0), LE, LE, pt(10)), Equality(vi(5)))
	require.Len(t, parts, 3)
	assert.True(t, parts[1].IsEquality())
	assert.True(t, ContainsValue(parts[1], vi(5)))

	// Splitting [0,10] on [9,10] leaves an overlap that reaches s's
	// right edge; no right remainder survives.
	parts = SplitInterval(Range(pt(0), LE, LE, pt(10)), Range(pt(9), LE, LE, pt(10)))
	require.Len(t, parts, 2)
	assertPartition(t, Range(pt(0), LE, LE, pt(10)), parts)
}

func TestSplitIntervalRefusesDegenerateTargets(t *testing.T) {
	assert.Nil(t, SplitInterval(Equality(vi(5)), Range(pt(0), LE, LE, pt(10))))
	assert.Nil(t, SplitInterval(Disequality(vi(5)), Range(pt(0), LE, LE, pt(10))))
	assert.Nil(t, SplitInterval(Range(pt(0), LE, LE, pt(10)), Disequality(vi(5))))
}

func TestStringForms(t *testing.T) {
	assert.Equal(t, "(5)", Equality(vi(5)).String())
	assert.Equal(t, "(<>5)", Disequality(vi(5)).String())
	assert.Equal(t, "(-inf,<=,<,5)", ParseInterval(OpLT, vi(5)).String())
}
