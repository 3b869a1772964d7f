package theory

import (
	"fmt"
	"strings"

	"github.com/cprefsql/cprefengine/internal/ast"
	"github.com/cprefsql/cprefengine/internal/interval"
	"github.com/cprefsql/cprefengine/internal/rule"
	"github.com/cprefsql/cprefengine/internal/value"
)

// Build converts a parsed AST theory (internal/parser's output) into
// a Theory of internal/rule.Rule values, translating each surface
// predicate form into its canonical Interval (single-sided forms via
// internal/interval.ParseInterval, ranges via interval.Range). This is
// the only place the AST and
// rule/interval packages meet; everything downstream of Build works
// purely in rule/interval/record terms.
func Build(t *ast.Theory) (*Theory, error) {
	rules := make([]rule.Rule, 0, len(t.Rules))
	for i, ar := range t.Rules {
		r, err := BuildRule(ar)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, r)
	}
	return New(rules), nil
}

// BuildRule converts one parsed rule; exported so tooling (the LSP
// diagnostics pass) can attribute a build failure to the specific
// rule's source position.
func BuildRule(ar *ast.Rule) (rule.Rule, error) {
	var cond *rule.Condition
	if ar.Condition != nil {
		preds := make(map[string]interval.Interval, len(ar.Condition.Predicates))
		for _, p := range ar.Condition.Predicates {
			att, iv, err := predicateToInterval(p)
			if err != nil {
				return rule.Rule{}, err
			}
			if _, dup := preds[att]; dup {
				return rule.Rule{}, fmt.Errorf("attribute %s appears twice in condition", att)
			}
			preds[att] = iv
		}
		cond = rule.NewCondition(preds)
	}

	bestAttr, bestIv, err := predicateToInterval(ar.Preference.Best)
	if err != nil {
		return rule.Rule{}, err
	}
	worstAttr, worstIv, err := predicateToInterval(ar.Preference.Worst)
	if err != nil {
		return rule.Rule{}, err
	}
	if bestAttr != worstAttr {
		return rule.Rule{}, fmt.Errorf("preference attributes differ: %s vs %s", bestAttr, worstAttr)
	}
	if interval.Intersect(bestIv, worstIv) {
		return rule.Rule{}, fmt.Errorf("self-contradicting rule on %s: best %s overlaps worst %s", bestAttr, bestIv, worstIv)
	}

	indiff := map[string]bool{}
	if ar.Indiff != nil {
		for _, a := range ar.Indiff.Attributes {
			indiff[strings.ToUpper(a)] = true
		}
	}

	return rule.Rule{
		Condition: cond,
		Preference: rule.Preference{
			Attr:   bestAttr,
			Best:   bestIv,
			Worst:  worstIv,
			Indiff: indiff,
		},
	}, nil
}

// predicateToInterval translates one AST predicate (either
// `attr cmp_op value` or `value int_op attr int_op value`) into its
// attribute name and canonical Interval: the single-sided form via
// interval.ParseInterval's conversion table, the range form via
// interval.Range.
func predicateToInterval(p *ast.Predicate) (string, interval.Interval, error) {
	if p.IsRange() {
		lo, err := literalToValue(p.LeftValue)
		if err != nil {
			return "", interval.Interval{}, err
		}
		hi, err := literalToValue(p.RightValue)
		if err != nil {
			return "", interval.Interval{}, err
		}
		lop, err := intOpToBound(p.LeftOp)
		if err != nil {
			return "", interval.Interval{}, err
		}
		rop, err := intOpToBound(p.RightOp)
		if err != nil {
			return "", interval.Interval{}, err
		}
		loPtr, hiPtr := lo, hi
		return strings.ToUpper(p.Attr), interval.Range(&loPtr, lop, rop, &hiPtr), nil
	}

	v, err := literalToValue(p.Value)
	if err != nil {
		return "", interval.Interval{}, err
	}
	op, err := cmpOpToRelOp(p.Op)
	if err != nil {
		return "", interval.Interval{}, err
	}
	return strings.ToUpper(p.Attr), interval.ParseInterval(op, v), nil
}

func literalToValue(v *ast.ValueLiteral) (value.Value, error) {
	switch v.Kind {
	case ast.IntegerValue:
		return value.NewInteger(v.Integer), nil
	case ast.FloatingValue:
		return value.NewFloating(v.Floating), nil
	case ast.StringValue:
		return value.NewString(v.Text), nil
	default:
		return value.Value{}, fmt.Errorf("unknown value literal kind")
	}
}

func cmpOpToRelOp(op string) (interval.RelOp, error) {
	switch op {
	case "<":
		return interval.OpLT, nil
	case "<=":
		return interval.OpLE, nil
	case ">":
		return interval.OpGT, nil
	case ">=":
		return interval.OpGE, nil
	case "=":
		return interval.OpEQ, nil
	case "<>":
		return interval.OpNEQ, nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", op)
	}
}

func intOpToBound(op string) (interval.Bound, error) {
	switch op {
	case "<":
		return interval.LT, nil
	case "<=":
		return interval.LE, nil
	default:
		return 0, fmt.Errorf("unknown range operator %q (must be < or <=)", op)
	}
}
