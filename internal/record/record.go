// Package record implements the record model: a mapping from
// attribute name (uppercase) to a scalar, plus the "generalized
// record" extension the dominance-by-search algorithm needs, where
// the preference attribute's slot can hold either a concrete
// value.Value or an interval.Interval (the shape rule.ChangeRecord
// produces).
package record

import (
	"sort"

	"github.com/cprefsql/cprefengine/internal/interval"
	"github.com/cprefsql/cprefengine/internal/value"
)

// Record is a plain attribute->Value mapping, the form record batches
// arrive in from a relational source.
type Record map[string]value.Value

// Clone returns a shallow copy (Values are themselves immutable, so a
// shallow copy is a full copy).
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Attrs returns the record's attribute names in sorted order, for
// deterministic iteration (equality comparisons between every other
// non-indifferent attribute, formula generation, etc. all need a
// stable attribute order).
func (r Record) Attrs() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Slot is either a value.Value or an interval.Interval: the
// generalized-record cell type that rule.ChangeRecord produces when
// it replaces a record's preference-attribute value with the rule's
// worst interval mid-search.
type Slot struct {
	IsInterval bool
	Value      value.Value
	Interval   interval.Interval
}

func ValueSlot(v value.Value) Slot       { return Slot{Value: v} }
func IntervalSlot(i interval.Interval) Slot { return Slot{IsInterval: true, Interval: i} }

// Generalized is a record whose cells may be concrete values or
// intervals, used only inside dominates_by_search's recursive probing.
type Generalized map[string]Slot

// FromRecord lifts a plain Record into a Generalized one, one ValueSlot
// per attribute.
func FromRecord(r Record) Generalized {
	out := make(Generalized, len(r))
	for k, v := range r {
		out[k] = ValueSlot(v)
	}
	return out
}

// Clone returns a shallow copy.
func (g Generalized) Clone() Generalized {
	out := make(Generalized, len(g))
	for k, v := range g {
		out[k] = v
	}
	return out
}

// Overlaps is the Slot-Slot overlap dispatcher the dominance search
// leans on: interval.Intersect, interval.ContainsValue, or plain
// value.Equal, depending on which sides carry an Interval.
func Overlaps(a, b Slot) bool {
	switch {
	case a.IsInterval && b.IsInterval:
		return interval.Intersect(a.Interval, b.Interval)
	case a.IsInterval && !b.IsInterval:
		return interval.ContainsValue(a.Interval, b.Value)
	case !a.IsInterval && b.IsInterval:
		return interval.ContainsValue(b.Interval, a.Value)
	default:
		return value.Equal(a.Value, b.Value)
	}
}

// Equal reports attribute-for-attribute equality between two plain
// records restricted to a given attribute set — the "all other
// non-indifferent attributes must be equal" half of rule dominance.
func Equal(a, b Record, attrs []string) bool {
	for _, attr := range attrs {
		av, aok := a[attr]
		bv, bok := b[attr]
		if aok != bok {
			return false
		}
		if aok && !value.Equal(av, bv) {
			return false
		}
	}
	return true
}
