package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cprefsql/cprefengine/internal/interval"
	"github.com/cprefsql/cprefengine/internal/parser"
	"github.com/cprefsql/cprefengine/internal/record"
	"github.com/cprefsql/cprefengine/internal/value"
)

// load parses rule text and builds a theory, failing the test on any
// error; most theory tests read better in the literal grammar.
func load(t *testing.T, text string) *Theory {
	t.Helper()
	parsed, errs := parser.ParseSource("", text)
	require.Empty(t, errs)
	th, err := Build(parsed)
	require.NoError(t, err)
	return th
}

func rec(pairs map[string]int64) record.Record {
	out := make(record.Record, len(pairs))
	for k, v := range pairs {
		out[k] = value.NewInteger(v)
	}
	return out
}

func TestBuildRejectsMalformedRules(t *testing.T) {
	cases := map[string]string{
		"duplicate condition attribute": "IF B = 1 AND B = 2 THEN A = 1 BETTER A = 2",
		"preference attribute mismatch": "A = 1 BETTER B = 2",
		"self-contradicting rule":       "A < 5 BETTER A < 3",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			parsed, errs := parser.ParseSource("", text)
			require.Empty(t, errs)
			_, err := Build(parsed)
			assert.Error(t, err)
		})
	}
}

func TestGlobalConsistency(t *testing.T) {
	// Cyclic attribute dependency: A conditions B's preference and
	// B conditions A's.
	cyclic := load(t, "IF A = 1 THEN B = 1 BETTER B = 2 AND IF B = 1 THEN A = 1 BETTER A = 2")
	assert.False(t, cyclic.IsGloballyConsistent())
	assert.False(t, cyclic.IsConsistent())

	// One direction only is fine.
	dag := load(t, "IF A = 1 THEN B = 1 BETTER B = 2 AND A = 1 BETTER A = 2")
	assert.True(t, dag.IsGloballyConsistent())
	assert.True(t, dag.IsConsistent())
}

func TestLocalConsistency(t *testing.T) {
	// A single rule is consistent.
	one := load(t, "A > 1 BETTER A < 1")
	assert.True(t, one.IsConsistent())

	// Adding the inverted rule stays globally consistent but breaks
	// the local (rule-rewriting) check.
	both := load(t, "A > 1 BETTER A < 1 AND A < 1 BETTER A > 1")
	assert.True(t, both.IsGloballyConsistent())
	assert.False(t, both.IsLocallyConsistent())
	assert.False(t, both.IsConsistent())

	// Incompatible conditions shield inverted preferences from each
	// other: the rules never share a rewriting context.
	shielded := load(t, "IF B = 1 THEN A > 1 BETTER A < 1 AND IF B = 2 THEN A < 1 BETTER A > 1")
	assert.True(t, shielded.IsConsistent())
}

func TestSplitRulesDisequality(t *testing.T) {
	// `A <> 3 BETTER A = 3` splits into two rules with disjoint best
	// intervals (-inf,3) and (3,+inf).
	th := load(t, "A <> 3 BETTER A = 3")
	th.SplitRules()

	rules := th.Rules()
	require.Len(t, rules, 2)
	b0, b1 := rules[0].Preference.Best, rules[1].Preference.Best
	assert.False(t, b0.IsDisequality())
	assert.False(t, b1.IsDisequality())
	assert.False(t, interval.Intersect(b0, b1))
	assert.False(t, interval.ContainsValue(b0, value.NewInteger(3)))
	assert.False(t, interval.ContainsValue(b1, value.NewInteger(3)))
	for _, r := range rules {
		assert.True(t, r.Preference.Worst.IsEquality())
	}
}

func TestSplitRulesOverlap(t *testing.T) {
	// Overlapping best intervals on the same attribute get refined to
	// disjoint pieces.
	th := load(t, "A < 5 BETTER A >= 5 AND A < 3 BETTER A >= 5")
	th.SplitRules()

	for i, r1 := range th.Rules() {
		for j, r2 := range th.Rules() {
			if i == j {
				continue
			}
			assert.Nil(t, r1.SplitRule(r2), "rules %d and %d still split", i, j)
		}
	}
}

func TestSplitRulesIdempotent(t *testing.T) {
	th := load(t, "A <> 3 BETTER A = 3 AND A < 5 BETTER A >= 5 AND IF B = 1 THEN A < 2 BETTER A >= 5")
	th.SplitRules()

	first := make([]string, len(th.Rules()))
	for i, r := range th.Rules() {
		first[i] = r.String()
	}

	th.SplitRules()
	second := make([]string, len(th.Rules()))
	for i, r := range th.Rules() {
		second[i] = r.String()
	}

	assert.Equal(t, first, second)
}

func TestFormulaGeneration(t *testing.T) {
	th := load(t, "IF B = 1 THEN A = 1 BETTER A = 2")

	formulas := th.Formulas()
	// Atomics: {B=1}, {A=1}, {A=2}; grown: {A=1,B=1}, {A=2,B=1}.
	require.Len(t, formulas, 5)

	sizes := map[int]int{}
	for _, f := range formulas {
		sizes[len(f)]++
	}
	assert.Equal(t, 3, sizes[1])
	assert.Equal(t, 2, sizes[2])

	maximal := th.MaximalFormulas()
	require.Len(t, maximal, 2)
	for _, f := range maximal {
		assert.Len(t, f, 2)
	}
}

func TestDirectComparisons(t *testing.T) {
	th := load(t, "A = 1 BETTER A = 2")

	comparisons := th.Comparisons()
	require.Len(t, comparisons, 1)
	c := comparisons[0]
	assert.True(t, interval.Equal(c.Best["A"], interval.Equality(value.NewInteger(1))))
	assert.True(t, interval.Equal(c.Worst["A"], interval.Equality(value.NewInteger(2))))
	assert.Empty(t, c.Indiff)
}

func TestTransitiveComparisons(t *testing.T) {
	th := load(t, "A = 1 BETTER A = 2 AND A = 2 BETTER A = 3 [B]")

	// Direct 1>2 and 2>3, transitive 1>3 with the union of the
	// indifferent sets.
	var found bool
	for _, c := range th.Comparisons() {
		if interval.Equal(c.Best["A"], interval.Equality(value.NewInteger(1))) &&
			interval.Equal(c.Worst["A"], interval.Equality(value.NewInteger(3))) {
			found = true
			assert.True(t, c.Indiff["B"], "transitive comparison must union indifferent sets")
		}
	}
	assert.True(t, found, "missing transitive comparison 1>3")
}

func TestEssentialityPruning(t *testing.T) {
	// A comparison without the [B] exemption is more generic than the
	// same comparison carrying it (its indifferent set is a subset);
	// only non-generic survivors remain and the list is deterministic.
	th := load(t, "A = 1 BETTER A = 2 [B] AND IF B = 1 THEN A = 1 BETTER A = 2")

	comparisons := th.Comparisons()
	require.NotEmpty(t, comparisons)
	for i, c := range comparisons {
		for j, other := range comparisons {
			if i == j {
				continue
			}
			generic := c.Best.Subsumes(other.Best) && c.Worst.Subsumes(other.Worst)
			if generic {
				for a := range c.Indiff {
					if !other.Indiff[a] {
						generic = false
					}
				}
			}
			assert.False(t, generic && c.Key() != other.Key(),
				"comparison %s survives although more generic than %s", c.Key(), other.Key())
		}
	}

	// Sorted canonical order.
	for i := 1; i < len(comparisons); i++ {
		assert.Less(t, comparisons[i-1].Key(), comparisons[i].Key())
	}
}

func TestDominatesBySearch(t *testing.T) {
	th := load(t, "IF B = 1 THEN A = 1 BETTER A = 2 AND IF B = 2 THEN A = 2 BETTER A = 1")

	a11 := rec(map[string]int64{"A": 1, "B": 1})
	a21 := rec(map[string]int64{"A": 2, "B": 1})
	a12 := rec(map[string]int64{"A": 1, "B": 2})
	a22 := rec(map[string]int64{"A": 2, "B": 2})

	assert.True(t, th.Dominates(a11, a21))
	assert.False(t, th.Dominates(a21, a11))
	assert.True(t, th.Dominates(a22, a12))
	assert.False(t, th.Dominates(a12, a22))

	// Different condition contexts never dominate each other.
	assert.False(t, th.Dominates(a11, a12))
	assert.False(t, th.Dominates(a11, a22))
}

func TestDominatesChainsRules(t *testing.T) {
	th := load(t, "A = 1 BETTER A = 2 AND A = 2 BETTER A = 3")

	r1 := rec(map[string]int64{"A": 1})
	r3 := rec(map[string]int64{"A": 3})

	// Needs both rules: 1>2 then 2>3.
	assert.True(t, th.Dominates(r1, r3))
	assert.False(t, th.Dominates(r3, r1))
}

func TestDominanceIrreflexive(t *testing.T) {
	th := load(t, "A < 5 BETTER A >= 5 [B] AND A = 1 BETTER A = 2")

	for _, r := range []record.Record{
		rec(map[string]int64{"A": 1, "B": 1}),
		rec(map[string]int64{"A": 4, "B": 2}),
		rec(map[string]int64{"A": 9, "B": 3}),
	} {
		assert.False(t, th.Dominates(r, r))
	}
}

func TestGetSortedFormulas(t *testing.T) {
	th := load(t, "A = 1 BETTER A = 2 AND A = 2 BETTER A = 3")

	layers := th.GetSortedFormulas()
	require.Len(t, layers, 3)
	for i, want := range []int64{1, 2, 3} {
		require.Len(t, layers[i], 1)
		assert.True(t, interval.Equal(layers[i][0]["A"], interval.Equality(value.NewInteger(want))))
	}
}
