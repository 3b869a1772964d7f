package ast

import (
	"strconv"
	"strings"
)

// Theory is the root of a parsed CP-theory: a conjunction ("AND") of
// rules, matching the grammar's `theory := rule ("AND" rule)*`.
type Theory struct {
	Pos    Position
	EndPos Position
	Rules  []*Rule
}

func (t *Theory) String() string {
	parts := make([]string, len(t.Rules))
	for i, r := range t.Rules {
		parts[i] = r.String()
	}
	return strings.Join(parts, " AND ")
}

// Rule is a single `[IF cond] pref [indiff]` clause.
type Rule struct {
	Pos        Position
	EndPos     Position
	Condition  *Condition // nil if the rule has no IF clause
	Preference *Preference
	Indiff     *IndifferentSet // nil if the rule has no indifferent set
}

func (r *Rule) String() string {
	var b strings.Builder
	if r.Condition != nil {
		b.WriteString("IF ")
		b.WriteString(r.Condition.String())
		b.WriteString(" THEN ")
	}
	b.WriteString(r.Preference.String())
	if r.Indiff != nil {
		b.WriteString(" ")
		b.WriteString(r.Indiff.String())
	}
	return b.String()
}

// Condition is a conjunction of attribute predicates: `pred ("AND" pred)*`.
type Condition struct {
	Pos        Position
	EndPos     Position
	Predicates []*Predicate
}

func (c *Condition) String() string {
	parts := make([]string, len(c.Predicates))
	for i, p := range c.Predicates {
		parts[i] = p.String()
	}
	return strings.Join(parts, " AND ")
}

// Predicate is a single atomic comparison over one attribute, in one
// of two forms (parenthesised predicates are flattened by the parser):
//
//	attr cmp_op value            (Op != "")
//	value int_op attr int_op value  (LeftOp/RightOp != "", two-sided range)
type Predicate struct {
	Pos    Position
	EndPos Position
	Attr   string

	// Single-sided form: `attr Op Value`.
	Op    string
	Value *ValueLiteral

	// Double-sided range form: `LeftValue LeftOp attr RightOp RightValue`.
	LeftValue *ValueLiteral
	LeftOp    string
	RightOp   string
	RightValue *ValueLiteral
}

func (p *Predicate) IsRange() bool { return p.LeftOp != "" }

func (p *Predicate) String() string {
	if p.IsRange() {
		return p.LeftValue.String() + " " + p.LeftOp + " " + p.Attr + " " + p.RightOp + " " + p.RightValue.String()
	}
	return p.Attr + " " + p.Op + " " + p.Value.String()
}

// Preference is `pred ("BETTER"|">") pred`, both predicates over the
// same preference attribute.
type Preference struct {
	Pos    Position
	EndPos Position
	Best   *Predicate
	Worst  *Predicate
}

func (p *Preference) String() string {
	return p.Best.String() + " BETTER " + p.Worst.String()
}

// IndifferentSet is `"[" attr ("," attr)* "]"` or the parenthesized form.
type IndifferentSet struct {
	Pos        Position
	EndPos     Position
	Attributes []string
}

func (i *IndifferentSet) String() string {
	return "[" + strings.Join(i.Attributes, ",") + "]"
}

// ValueLiteral is an integer, float, or single-quoted string constant.
type ValueLiteral struct {
	Pos      Position
	EndPos   Position
	Kind     ValueKind
	Integer  int64
	Floating float64
	Text     string
}

type ValueKind int

const (
	IntegerValue ValueKind = iota
	FloatingValue
	StringValue
)

func (v *ValueLiteral) NodePos() Position    { return v.Pos }
func (v *ValueLiteral) NodeEndPos() Position { return v.EndPos }
func (*ValueLiteral) NodeType() NodeType     { return VALUE_LITERAL }

func (v *ValueLiteral) String() string {
	switch v.Kind {
	case IntegerValue:
		return strconv.FormatInt(v.Integer, 10)
	case FloatingValue:
		return strconv.FormatFloat(v.Floating, 'g', -1, 64)
	default:
		return "'" + v.Text + "'"
	}
}
