// Package rule implements the conditional preference rule model: a
// condition (conjunction of attribute intervals), a preference (best
// interval BETTER worst interval over one attribute, modulo an
// indifferent set), and the rule-splitting (normalization) primitives
// that keep a Theory's rules over pairwise-disjoint intervals.
package rule

import (
	"sort"
	"strings"

	"github.com/cprefsql/cprefengine/internal/interval"
	"github.com/cprefsql/cprefengine/internal/record"
	"github.com/cprefsql/cprefengine/internal/value"
)

func valueEqual(a, b value.Value) bool { return value.Equal(a, b) }

// Formula is a conjunction of attribute->interval predicates. Atomic
// formulas (one entry) are the base case; internal/theory grows them
// into larger conjunctions.
type Formula map[string]interval.Interval

// Clone returns an independent copy.
func (f Formula) Clone() Formula {
	out := make(Formula, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Key returns the canonical string form used for deduplication,
// equality, and deterministic sort order.
func (f Formula) Key() string {
	atts := make([]string, 0, len(f))
	for a := range f {
		atts = append(atts, a)
	}
	sort.Strings(atts)
	parts := make([]string, len(atts))
	for i, a := range atts {
		parts[i] = a + "=" + f[a].String()
	}
	return strings.Join(parts, "&")
}

// Subsumes reports whether f is more generic than other: every
// attribute f constrains, other constrains identically (f's predicate
// set is a subset of other's, values matching exactly). Used by
// essentiality pruning's "more generic than" test.
func (f Formula) Subsumes(other Formula) bool {
	for att, iv := range f {
		oiv, ok := other[att]
		if !ok || !interval.Equal(iv, oiv) {
			return false
		}
	}
	return true
}

// Condition is a conjunction of attribute->interval predicates.
type Condition struct {
	preds map[string]interval.Interval
}

func NewCondition(preds map[string]interval.Interval) *Condition {
	c := &Condition{preds: make(map[string]interval.Interval, len(preds))}
	for k, v := range preds {
		c.preds[k] = v
	}
	return c
}

func (c *Condition) Clone() *Condition {
	if c == nil {
		return nil
	}
	return NewCondition(c.preds)
}

func (c *Condition) Predicates() map[string]interval.Interval { return c.preds }

func (c *Condition) Attributes() []string {
	out := make([]string, 0, len(c.preds))
	for a := range c.preds {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// IsCompatible reports whether c and other overlap on every attribute
// they share.
func (c *Condition) IsCompatible(other *Condition) bool {
	if c == nil || other == nil {
		return true
	}
	for att, iv := range c.preds {
		if oiv, ok := other.preds[att]; ok && !interval.Intersect(iv, oiv) {
			return false
		}
	}
	return true
}

// IsSatisfiedBy reports whether every condition predicate overlaps the
// record's value for that attribute; a record missing a condition
// attribute fails to satisfy it.
func (c *Condition) IsSatisfiedBy(r record.Record) bool {
	if c == nil {
		return true
	}
	for att, iv := range c.preds {
		v, ok := r[att]
		if !ok || !interval.ContainsValue(iv, v) {
			return false
		}
	}
	return true
}

func (c *Condition) atomicFormulas() []Formula {
	if c == nil {
		return nil
	}
	out := make([]Formula, 0, len(c.preds))
	for att, iv := range c.preds {
		out = append(out, Formula{att: iv})
	}
	return out
}

func (c *Condition) String() string {
	if c == nil || len(c.preds) == 0 {
		return ""
	}
	atts := c.Attributes()
	parts := make([]string, len(atts))
	for i, a := range atts {
		parts[i] = a + " IN " + c.preds[a].String()
	}
	return strings.Join(parts, " AND ")
}

// Preference is `Attr in Best BETTER Attr in Worst`, modulo attributes
// in Indiff that are exempt from the dominance "all else equal" test.
type Preference struct {
	Attr   string
	Best   interval.Interval
	Worst  interval.Interval
	Indiff map[string]bool
}

func (p Preference) IsBestSatisfiedBy(r record.Record) bool {
	v, ok := r[p.Attr]
	return ok && interval.ContainsValue(p.Best, v)
}

func (p Preference) IsWorstSatisfiedBy(r record.Record) bool {
	v, ok := r[p.Attr]
	return ok && interval.ContainsValue(p.Worst, v)
}

func (p Preference) String() string {
	indiffAtts := make([]string, 0, len(p.Indiff))
	for a := range p.Indiff {
		indiffAtts = append(indiffAtts, a)
	}
	sort.Strings(indiffAtts)
	s := p.Attr + " IN " + p.Best.String() + " BETTER " + p.Attr + " IN " + p.Worst.String()
	if len(indiffAtts) > 0 {
		s += " [" + strings.Join(indiffAtts, ",") + "]"
	}
	return s
}

// Rule is a conditional preference rule: `IF Condition THEN Preference`.
type Rule struct {
	Condition  *Condition // nil means an unconditional rule
	Preference Preference
}

func (r Rule) Clone() Rule {
	indiff := make(map[string]bool, len(r.Preference.Indiff))
	for k, v := range r.Preference.Indiff {
		indiff[k] = v
	}
	return Rule{
		Condition: r.Condition.Clone(),
		Preference: Preference{
			Attr:   r.Preference.Attr,
			Best:   r.Preference.Best,
			Worst:  r.Preference.Worst,
			Indiff: indiff,
		},
	}
}

func (r Rule) String() string {
	if r.Condition != nil && len(r.Condition.preds) > 0 {
		return "IF " + r.Condition.String() + " THEN " + r.Preference.String()
	}
	return r.Preference.String()
}

// AttributeList returns every attribute this rule mentions: the
// condition's attributes, the indifferent set, and the preference
// attribute.
func (r Rule) AttributeList() []string {
	var out []string
	if r.Condition != nil {
		out = append(out, r.Condition.Attributes()...)
	}
	for a := range r.Preference.Indiff {
		out = append(out, a)
	}
	out = append(out, r.Preference.Attr)
	return out
}

// AtomicFormulas returns the atomic formulas a rule contributes: one
// per condition attribute, plus the best and worst preference
// formulas.
func (r Rule) AtomicFormulas() []Formula {
	out := r.Condition.atomicFormulas()
	out = append(out, Formula{r.Preference.Attr: r.Preference.Best})
	out = append(out, Formula{r.Preference.Attr: r.Preference.Worst})
	return out
}

// IsCompatibleTo reports whether r and other are rewritable against
// each other: same preference attribute, and compatible conditions
//.
func (r Rule) IsCompatibleTo(other Rule) bool {
	if r.Preference.Attr != other.Preference.Attr {
		return false
	}
	if r.Condition != nil && other.Condition != nil {
		return r.Condition.IsCompatible(other.Condition)
	}
	return true
}

// Dominates reports whether r justifies record1 being preferred to
// record2: record1 satisfies the best interval, record2 satisfies the
// worst interval, both satisfy r's condition, and every attribute
// other than the preference attribute and the indifferent set agrees
// between the two records.
func (r Rule) Dominates(record1, record2 record.Record) bool {
	pref := r.Preference
	if !pref.IsBestSatisfiedBy(record1) || !pref.IsWorstSatisfiedBy(record2) {
		return false
	}
	if r.Condition != nil {
		if !r.Condition.IsSatisfiedBy(record1) || !r.Condition.IsSatisfiedBy(record2) {
			return false
		}
	}
	seen := map[string]bool{pref.Attr: true}
	for a := range pref.Indiff {
		seen[a] = true
	}
	for att := range record1 {
		if seen[att] {
			continue
		}
		seen[att] = true
		v2, ok := record2[att]
		if !ok || !valueEqual(record1[att], v2) {
			return false
		}
	}
	for att := range record2 {
		if seen[att] {
			continue
		}
		if _, ok := record1[att]; !ok {
			return false
		}
	}
	return true
}

// SplitNeqRule rewrites the first disequality interval away: the
// first disequality found — checked in order: condition
// attributes (sorted), then best, then worst — is replaced by its two
// disjoint complements, producing two copies of r that differ only in
// that one interval. Returns nil if r carries no disequality.
func (r Rule) SplitNeqRule() []Rule {
	if r.Condition != nil {
		for _, att := range r.Condition.Attributes() {
			att := att
			iv := r.Condition.Predicates()[att]
			if !iv.IsDisequality() {
				continue
			}
			parts := interval.SplitNeq(iv)
			out := make([]Rule, 0, len(parts))
			for _, part := range parts {
				rc := r.Clone()
				rc.Condition.Predicates()[att] = part
				out = append(out, rc)
			}
			return out
		}
	}
	if r.Preference.Best.IsDisequality() {
		out := make([]Rule, 0, 2)
		for _, part := range interval.SplitNeq(r.Preference.Best) {
			rc := r.Clone()
			rc.Preference.Best = part
			out = append(out, rc)
		}
		return out
	}
	if r.Preference.Worst.IsDisequality() {
		out := make([]Rule, 0, 2)
		for _, part := range interval.SplitNeq(r.Preference.Worst) {
			rc := r.Clone()
			rc.Preference.Worst = part
			out = append(out, rc)
		}
		return out
	}
	return nil
}

// splitProbe is one candidate (target interval, overlay interval, and
// how to rebuild a Rule with a replaced target) in split_rule's fixed
// probe order.
type splitProbe struct {
	target  interval.Interval
	overlay interval.Interval
	rebuild func(interval.Interval) Rule
}

// SplitRule refines r against another rule: r's condition, best, and
// worst intervals are probed against other's
// condition/best/worst intervals in a fixed nine-probe priority
// order. The first attribute whose
// interval properly overlaps (overlaps but is not equal to) the
// overlay triggers the split and is returned immediately; later
// probes are never reached once one fires.
func (r Rule) SplitRule(other Rule) []Rule {
	var probes []splitProbe

	conditionReplace := func(att string) func(interval.Interval) Rule {
		return func(niv interval.Interval) Rule {
			rc := r.Clone()
			rc.Condition.Predicates()[att] = niv
			return rc
		}
	}
	bestReplace := func(niv interval.Interval) Rule {
		rc := r.Clone()
		rc.Preference.Best = niv
		return rc
	}
	worstReplace := func(niv interval.Interval) Rule {
		rc := r.Clone()
		rc.Preference.Worst = niv
		return rc
	}

	var otherCondAttrs []string
	if other.Condition != nil {
		otherCondAttrs = other.Condition.Attributes()
	}

	// (1) each condition attribute of other vs self.condition.
	if r.Condition != nil {
		for _, att := range otherCondAttrs {
			if iv, ok := r.Condition.Predicates()[att]; ok {
				probes = append(probes, splitProbe{iv, other.Condition.Predicates()[att], conditionReplace(att)})
			}
		}
	}

	// (2) other's preference attribute (best then worst) vs self.condition.
	if r.Condition != nil {
		if iv, ok := r.Condition.Predicates()[other.Preference.Attr]; ok {
			probes = append(probes, splitProbe{iv, other.Preference.Best, conditionReplace(other.Preference.Attr)})
			probes = append(probes, splitProbe{iv, other.Preference.Worst, conditionReplace(other.Preference.Attr)})
		}
	}

	// (3) each condition attribute of other vs self.best.
	for _, att := range otherCondAttrs {
		if att == r.Preference.Attr {
			probes = append(probes, splitProbe{r.Preference.Best, other.Condition.Predicates()[att], bestReplace})
		}
	}

	// (4) other's preference best/worst vs self.best.
	if other.Preference.Attr == r.Preference.Attr {
		probes = append(probes, splitProbe{r.Preference.Best, other.Preference.Best, bestReplace})
		probes = append(probes, splitProbe{r.Preference.Best, other.Preference.Worst, bestReplace})
	}

	// (5) repeat (3) and (4) against self.worst.
	for _, att := range otherCondAttrs {
		if att == r.Preference.Attr {
			probes = append(probes, splitProbe{r.Preference.Worst, other.Condition.Predicates()[att], worstReplace})
		}
	}
	if other.Preference.Attr == r.Preference.Attr {
		probes = append(probes, splitProbe{r.Preference.Worst, other.Preference.Best, worstReplace})
		probes = append(probes, splitProbe{r.Preference.Worst, other.Preference.Worst, worstReplace})
	}

	for _, p := range probes {
		if p.target.IsEquality() {
			continue // an atomic point can't be partitioned any further
		}
		if !interval.Intersect(p.target, p.overlay) || interval.Equal(p.target, p.overlay) {
			continue
		}
		parts := interval.SplitInterval(p.target, p.overlay)
		if len(parts) < 2 {
			continue
		}
		out := make([]Rule, 0, len(parts))
		for _, part := range parts {
			out = append(out, p.rebuild(part))
		}
		return out
	}
	return nil
}

// DominatesFormula is the Formula-level analogue of Dominates, used by
// internal/theory's direct comparison derivation:
// same structure as Dominates, but attribute satisfaction is tested by
// interval overlap instead of value equality, and "all else equal"
// becomes "all else the identical interval" (formulas are conjunctions
// of interval constraints, not concrete attribute values).
func (r Rule) DominatesFormula(f1, f2 Formula) bool {
	pref := r.Preference
	iv1, ok1 := f1[pref.Attr]
	iv2, ok2 := f2[pref.Attr]
	if !ok1 || !ok2 {
		return false
	}
	if !interval.Intersect(iv1, pref.Best) || !interval.Intersect(iv2, pref.Worst) {
		return false
	}
	if r.Condition != nil {
		for att, civ := range r.Condition.Predicates() {
			fiv1, ok := f1[att]
			if !ok || !interval.Intersect(fiv1, civ) {
				return false
			}
			fiv2, ok := f2[att]
			if !ok || !interval.Intersect(fiv2, civ) {
				return false
			}
		}
	}
	seen := map[string]bool{pref.Attr: true}
	for a := range pref.Indiff {
		seen[a] = true
	}
	for att, iv := range f1 {
		if seen[att] {
			continue
		}
		seen[att] = true
		other, ok := f2[att]
		if !ok || !interval.Equal(iv, other) {
			return false
		}
	}
	for att := range f2 {
		if seen[att] {
			continue
		}
		if _, ok := f1[att]; !ok {
			return false
		}
	}
	return true
}

// ChangeRecord generates the dominated ("worse") counterpart of
// record under r, if r applies to it: record's preference attribute
// must satisfy the best interval, after which the attribute's value is
// replaced by r's worst interval and every indifferent attribute is
// dropped. ok is false when r
// does not apply.
func ChangeRecord(r Rule, rec record.Generalized) (record.Generalized, bool) {
	if r.Condition != nil {
		plain := make(record.Record, len(rec))
		allValues := true
		for k, s := range rec {
			if s.IsInterval {
				allValues = false
				break
			}
			plain[k] = s.Value
		}
		if allValues && !r.Condition.IsSatisfiedBy(plain) {
			return nil, false
		}
	}
	slot, ok := rec[r.Preference.Attr]
	if !ok || !record.Overlaps(record.IntervalSlot(r.Preference.Best), slot) {
		return nil, false
	}
	out := rec.Clone()
	out[r.Preference.Attr] = record.IntervalSlot(r.Preference.Worst)
	for att := range r.Preference.Indiff {
		delete(out, att)
	}
	return out, true
}
