package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cprefsql/cprefengine/internal/ast"
)

func TestParseSimpleRule(t *testing.T) {
	theory, errs := ParseSource("", "price < 100 BETTER price >= 100")
	require.Empty(t, errs)
	require.Len(t, theory.Rules, 1)

	r := theory.Rules[0]
	assert.Nil(t, r.Condition)
	assert.Nil(t, r.Indiff)
	assert.Equal(t, "PRICE", r.Preference.Best.Attr)
	assert.Equal(t, "<", r.Preference.Best.Op)
	assert.Equal(t, ast.IntegerValue, r.Preference.Best.Value.Kind)
	assert.Equal(t, int64(100), r.Preference.Best.Value.Integer)
	assert.Equal(t, ">=", r.Preference.Worst.Op)
}

func TestParseConditionalRule(t *testing.T) {
	theory, errs := ParseSource("", "IF city = 'lisbon' AND stars >= 4 THEN price < 120 BETTER price >= 120 [rooms]")
	require.Empty(t, errs)
	require.Len(t, theory.Rules, 1)

	r := theory.Rules[0]
	require.NotNil(t, r.Condition)
	require.Len(t, r.Condition.Predicates, 2)
	assert.Equal(t, "CITY", r.Condition.Predicates[0].Attr)
	assert.Equal(t, ast.StringValue, r.Condition.Predicates[0].Value.Kind)
	assert.Equal(t, "lisbon", r.Condition.Predicates[0].Value.Text)
	assert.Equal(t, "STARS", r.Condition.Predicates[1].Attr)

	require.NotNil(t, r.Indiff)
	assert.Equal(t, []string{"ROOMS"}, r.Indiff.Attributes)
}

func TestParseRangePredicate(t *testing.T) {
	theory, errs := ParseSource("", "50 <= price < 120 BETTER price < 50")
	require.Empty(t, errs)

	best := theory.Rules[0].Preference.Best
	assert.True(t, best.IsRange())
	assert.Equal(t, "PRICE", best.Attr)
	assert.Equal(t, int64(50), best.LeftValue.Integer)
	assert.Equal(t, "<=", best.LeftOp)
	assert.Equal(t, "<", best.RightOp)
	assert.Equal(t, int64(120), best.RightValue.Integer)
}

func TestParseParenthesizedPredicateFlattens(t *testing.T) {
	theory, errs := ParseSource("", "((a <> 3)) BETTER (a = 3)")
	require.Empty(t, errs)

	best := theory.Rules[0].Preference.Best
	assert.False(t, best.IsRange())
	assert.Equal(t, "A", best.Attr)
	assert.Equal(t, "<>", best.Op)
}

func TestParseMultipleRules(t *testing.T) {
	theory, errs := ParseSource("", "a = 1 BETTER a = 2 AND IF b = 1 THEN a = 2 BETTER a = 3 (c)")
	require.Empty(t, errs)
	require.Len(t, theory.Rules, 2)
	assert.Nil(t, theory.Rules[0].Condition)
	require.NotNil(t, theory.Rules[1].Condition)
	assert.Equal(t, []string{"C"}, theory.Rules[1].Indiff.Attributes)
}

func TestParseValueKinds(t *testing.T) {
	theory, errs := ParseSource("", "temp > -4.5 BETTER temp <= -10 AND name = 'x' BETTER name = 'y'")
	require.Empty(t, errs)

	best := theory.Rules[0].Preference.Best
	assert.Equal(t, ast.FloatingValue, best.Value.Kind)
	assert.Equal(t, -4.5, best.Value.Floating)

	worst := theory.Rules[0].Preference.Worst
	assert.Equal(t, ast.IntegerValue, worst.Value.Kind)
	assert.Equal(t, int64(-10), worst.Value.Integer)

	name := theory.Rules[1].Preference.Best
	assert.Equal(t, ast.StringValue, name.Value.Kind)
	assert.Equal(t, "x", name.Value.Text)
}

func TestParseErrorsCarryPosition(t *testing.T) {
	theory, errs := ParseSource("bad.pref", "price < 100 BETTER\nprice >= ")
	assert.Nil(t, theory)
	require.Len(t, errs, 1)
	assert.Equal(t, "bad.pref", errs[0].Position.Filename)
	assert.Greater(t, errs[0].Position.Line, 0)
	assert.NotEmpty(t, errs[0].Message)
	assert.Contains(t, errs[0].Error(), "bad.pref")
}

func TestParseFileMissing(t *testing.T) {
	theory, errs := ParseFile("/nonexistent/path.pref")
	assert.Nil(t, theory)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "failed to read file")
}
