package theory

import (
	"github.com/cprefsql/cprefengine/internal/record"
	"github.com/cprefsql/cprefengine/internal/rule"
	"github.com/cprefsql/cprefengine/internal/value"
)

// Dominates is dominance by search: record a dominates b iff,
// starting from a generalized view of a, some sequence of rule
// applications (ChangeRecord, each rule usable at most once per
// branch) widens a into a generalized record that b satisfies.
// Irreflexive because the identical-input case is short-circuited
// explicitly: without it, the zero-step goal test would report that a
// record dominates its own identical copy.
func (t *Theory) Dominates(a, b record.Record) bool {
	if identical(a, b) {
		return false
	}
	available := make([]int, len(t.rules))
	for i := range available {
		available[i] = i
	}
	return t.dominatesBySearch(record.FromRecord(a), b, available)
}

// dominatesBySearch is the recursive search: goal_reached(gen, b) is
// the base case, and each branch removes the rule it just applied from
// the available set before recursing, which bounds recursion depth by
// the rule count.
func (t *Theory) dominatesBySearch(gen record.Generalized, b record.Record, available []int) bool {
	if goalReached(gen, b) {
		return true
	}
	for pos, idx := range available {
		r := t.rules[idx]
		next, ok := rule.ChangeRecord(r, gen)
		if !ok {
			continue
		}
		remaining := make([]int, 0, len(available)-1)
		remaining = append(remaining, available[:pos]...)
		remaining = append(remaining, available[pos+1:]...)
		if t.dominatesBySearch(next, b, remaining) {
			return true
		}
	}
	return false
}

// goalReached reports whether every attribute gen still constrains is
// satisfied by b's corresponding value: attributes gen doesn't
// mention (dropped by an indifferent set, or never present) impose no
// constraint.
func goalReached(gen record.Generalized, b record.Record) bool {
	for att, slot := range gen {
		v, ok := b[att]
		if !ok || !record.Overlaps(slot, record.ValueSlot(v)) {
			return false
		}
	}
	return true
}

func identical(a, b record.Record) bool {
	if len(a) != len(b) {
		return false
	}
	for att, v := range a {
		bv, ok := b[att]
		if !ok || !value.Equal(v, bv) {
			return false
		}
	}
	return true
}
