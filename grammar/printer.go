package grammar

import (
	"strings"
)

// String renders the parse tree back to canonical rule text: uppercase
// keywords, single spaces, bracket-form indifferent sets. Useful for
// echoing a normalized theory in the REPL and for parse round-trips in
// tests.
func (t *Theory) String() string {
	parts := make([]string, len(t.Rules))
	for i, r := range t.Rules {
		parts[i] = r.String()
	}
	return strings.Join(parts, " AND ")
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

func (c *Condition) String() string {
	parts := make([]string, len(c.Predicates))
	for i, p := range c.Predicates {
		parts[i] = p.String()
	}
	return strings.Join(parts, " AND ")
}

func (p *Preference) String() string {
	return p.Best.String() + " BETTER " + p.Worst.String()
}

func (p *Predicate) String() string {
	switch {
	case p.Paren != nil:
		return p.Paren.String()
	case p.Range != nil:
		return p.Range.String()
	default:
		return p.Simple.String()
	}
}

func (p *RangePredicate) String() string {
	return p.Lo.String() + " " + p.LoOp + " " + strings.ToUpper(p.Attr) + " " + p.HiOp + " " + p.Hi.String()
}

func (p *SimplePredicate) String() string {
	return strings.ToUpper(p.Attr) + " " + p.Op + " " + p.Value.String()
}

func (i *IndifferentSet) String() string {
	atts := make([]string, len(i.Attributes))
	for j, a := range i.Attributes {
		atts[j] = strings.ToUpper(a)
	}
	return "[" + strings.Join(atts, ",") + "]"
}

func (l *Literal) String() string {
	switch {
	case l.Str != nil:
		return *l.Str
	case l.Float != nil:
		return *l.Float
	default:
		return *l.Int
	}
}
