// Package interval implements the closed/open bounded interval
// algebra that CP-theory rules are built from: parsing relational
// operators into canonical interval shapes, overlap
// ("intersect") testing, disequality splitting, and interval
// splitting against a fixed overlay — the primitive rule-splitting
// (normalization) in internal/theory rests entirely on this package.
//
// Following the Design Notes' "Interval as sum type" guidance, Bound
// is a small enum rather than a stringly-typed operator, and the three
// canonical shapes (equality, disequality, general range) are
// distinguished by the Bound pair on an Interval rather than by a
// separate tag field.
package interval

import (
	"fmt"

	"github.com/cprefsql/cprefengine/internal/value"
)

// Bound is one of the four comparison operators that can appear at an
// interval endpoint.
type Bound int

const (
	LT Bound = iota // <
	LE              // <=
	EQ              // = (only ever appears as both endpoint ops of an equality interval)
	NEQ             // <> (only ever appears as both endpoint ops of a disequality interval)
)

func (b Bound) String() string {
	switch b {
	case LT:
		return "<"
	case LE:
		return "<="
	case EQ:
		return "="
	default:
		return "<>"
	}
}

// RelOp is the full set of comparison operators the grammar accepts in
// a single-sided predicate (`attr cmp_op value`); GT/GE have no direct
// Bound counterpart since canonical intervals only ever store LT/LE/EQ/NEQ.
type RelOp int

const (
	OpLT RelOp = iota
	OpLE
	OpGT
	OpGE
	OpEQ
	OpNEQ
)

// Interval is the 4-tuple (lo, lop, rop, hi). A nil Lo means -∞; a
// nil Hi means +∞. -∞/+∞ only ever appear on
// general range intervals (equality and disequality intervals always
// carry a concrete value on both ends).
type Interval struct {
	Lo  *value.Value
	Lop Bound
	Rop Bound
	Hi  *value.Value
}

func point(v value.Value) *value.Value { return &v }

// Equality constructs the canonical `(v,=,=,v)` form.
func Equality(v value.Value) Interval {
	p := point(v)
	return Interval{Lo: p, Lop: EQ, Rop: EQ, Hi: p}
}

// Disequality constructs the canonical `(v,<>,<>,v)` form.
func Disequality(v value.Value) Interval {
	p := point(v)
	return Interval{Lo: p, Lop: NEQ, Rop: NEQ, Hi: p}
}

// Range constructs a general range interval `(lo,lop,rop,hi)`; either
// bound may be nil for ±∞. lop/rop must be LT or LE.
func Range(lo *value.Value, lop Bound, rop Bound, hi *value.Value) Interval {
	return Interval{Lo: lo, Lop: lop, Rop: rop, Hi: hi}
}

// ParseInterval converts a single-sided relational predicate
// (`attr op value`) into its canonical Interval shape: equality and
// disequality become degenerate point forms, the four order operators
// become half-bounded ranges.
func ParseInterval(op RelOp, v value.Value) Interval {
	switch op {
	case OpEQ:
		return Equality(v)
	case OpNEQ:
		return Disequality(v)
	case OpLT:
		return Interval{Lo: nil, Lop: LE, Rop: LT, Hi: point(v)}
	case OpLE:
		return Interval{Lo: nil, Lop: LE, Rop: LE, Hi: point(v)}
	case OpGT:
		return Interval{Lo: point(v), Lop: LT, Rop: LE, Hi: nil}
	case OpGE:
		return Interval{Lo: point(v), Lop: LE, Rop: LE, Hi: nil}
	default:
		return Interval{Lo: nil, Lop: LE, Rop: LE, Hi: nil}
	}
}

func (i Interval) IsEquality() bool   { return i.Lop == EQ && i.Rop == EQ }
func (i Interval) IsDisequality() bool { return i.Lop == NEQ && i.Rop == NEQ }

func (i Interval) String() string {
	lo := "-inf"
	if i.Lo != nil {
		lo = i.Lo.String()
	}
	hi := "+inf"
	if i.Hi != nil {
		hi = i.Hi.String()
	}
	if i.IsEquality() {
		return fmt.Sprintf("(%s)", lo)
	}
	if i.IsDisequality() {
		return fmt.Sprintf("(<>%s)", lo)
	}
	return fmt.Sprintf("(%s,%s,%s,%s)", lo, i.Lop, i.Rop, hi)
}

// Equal reports whether a and b are the identical 4-tuple (same
// endpoint values, same operators). This is structural equality, used
// both for canonical-string identity and as the first overlap check.
func Equal(a, b Interval) bool {
	return endpointEqual(a.Lo, b.Lo) && a.Lop == b.Lop && a.Rop == b.Rop && endpointEqual(a.Hi, b.Hi)
}

func endpointEqual(a, b *value.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return value.Equal(*a, *b)
}

// ContainsValue reports whether v lies within interval i (the
// Interval-vs-Value overload of the intersect family).
func ContainsValue(i Interval, v value.Value) bool {
	if i.IsEquality() {
		return value.Equal(*i.Lo, v)
	}
	if i.IsDisequality() {
		return !value.Equal(*i.Lo, v)
	}
	if i.Lo != nil {
		if i.Lop == LE {
			if !value.LessEqual(*i.Lo, v) {
				return false
			}
		} else if !value.Less(*i.Lo, v) {
			return false
		}
	}
	if i.Hi != nil {
		if i.Rop == LE {
			if !value.LessEqual(v, *i.Hi) {
				return false
			}
		} else if !value.Less(v, *i.Hi) {
			return false
		}
	}
	return true
}

// Intersect is the Interval-vs-Interval overlap test.
func Intersect(a, b Interval) bool {
	if Equal(a, b) {
		return true
	}
	// Values of incompatible kinds (string vs numeric) are unordered, so
	// intervals over them never overlap.
	for _, x := range []*value.Value{a.Lo, a.Hi} {
		for _, y := range []*value.Value{b.Lo, b.Hi} {
			if x != nil && y != nil && (x.Kind() == value.String) != (y.Kind() == value.String) {
				return false
			}
		}
	}
	if a.IsDisequality() || b.IsDisequality() {
		if a.IsDisequality() && b.IsEquality() {
			return !value.Equal(*a.Lo, *b.Lo)
		}
		if b.IsDisequality() && a.IsEquality() {
			return !value.Equal(*b.Lo, *a.Lo)
		}
		// Two disequalities, or a disequality against a general range,
		// always overlap: the complement of one point can't be disjoint
		// from an infinite range or from the complement of another point.
		return true
	}
	return !entirelyLeft(a, b) && !entirelyLeft(b, a)
}

// entirelyLeft reports whether every point of x is strictly before
// every point of y, treating EQ endpoints as closed boundaries for the
// purpose of this generic endpoint math (equality intervals are just
// degenerate closed ranges with lo==hi).
func entirelyLeft(x, y Interval) bool {
	if x.Hi == nil || y.Lo == nil {
		return false
	}
	if value.Less(*x.Hi, *y.Lo) {
		return true
	}
	if value.Equal(*x.Hi, *y.Lo) {
		return !(closedRight(x.Rop) && closedLeft(y.Lop))
	}
	return false
}

func closedLeft(b Bound) bool  { return b == LE || b == EQ }
func closedRight(b Bound) bool { return b == LE || b == EQ }

// SplitNeq implements `split_neq`: a disequality
// `(v,<>,<>,v)` is rewritten into its two disjoint complements; any
// other interval yields nothing.
func SplitNeq(i Interval) []Interval {
	if !i.IsDisequality() {
		return nil
	}
	v := *i.Lo
	return []Interval{
		{Lo: nil, Lop: LE, Rop: LT, Hi: point(v)},
		{Lo: point(v), Lop: LT, Rop: LE, Hi: nil},
	}
}

// complement flips an endpoint operator across a split point: the
// part on one side of a cut gets the opposite openness of the part
// that now owns the boundary exactly.
func complement(b Bound) Bound {
	if b == LT {
		return LE
	}
	return LT
}

// effective maps EQ to LE for the purposes of the generic lo/hi
// combination math below (an equality interval's endpoint behaves
// like a closed range boundary coincident with its single point).
func effective(b Bound) Bound {
	if b == EQ {
		return LE
	}
	return b
}

// maxLo returns the more restrictive of two lower bounds (the lower
// bound of their intersection): the larger value, with an exclusive
// (LT) operator winning ties.
func maxLo(aLo *value.Value, aOp Bound, bLo *value.Value, bOp Bound) (*value.Value, Bound) {
	aOp, bOp = effective(aOp), effective(bOp)
	if aLo == nil {
		return bLo, bOp
	}
	if bLo == nil {
		return aLo, aOp
	}
	if value.Less(*aLo, *bLo) {
		return bLo, bOp
	}
	if value.Less(*bLo, *aLo) {
		return aLo, aOp
	}
	if aOp == LT || bOp == LT {
		return aLo, LT
	}
	return aLo, LE
}

// minHi returns the more restrictive of two upper bounds, mirroring maxLo.
func minHi(aHi *value.Value, aOp Bound, bHi *value.Value, bOp Bound) (*value.Value, Bound) {
	aOp, bOp = effective(aOp), effective(bOp)
	if aHi == nil {
		return bHi, bOp
	}
	if bHi == nil {
		return aHi, aOp
	}
	if value.Less(*aHi, *bHi) {
		return aHi, aOp
	}
	if value.Less(*bHi, *aHi) {
		return bHi, bOp
	}
	if aOp == LT || bOp == LT {
		return aHi, LT
	}
	return aHi, LE
}

// normalize builds an Interval from raw endpoints, collapsing a
// coincident lo==hi with two closed operators to equality form and
// reporting ok=false for anything else that would be empty.
func normalize(lo *value.Value, lop Bound, rop Bound, hi *value.Value) (Interval, bool) {
	if lo != nil && hi != nil {
		if value.Less(*hi, *lo) {
			return Interval{}, false
		}
		if value.Equal(*lo, *hi) {
			if lop == LE && rop == LE {
				return Equality(*lo), true
			}
			return Interval{}, false
		}
	}
	return Interval{Lo: lo, Lop: lop, Rop: rop, Hi: hi}, true
}

// SplitInterval implements `split_interval`: s is
// the target interval, f is a fixed overlay known to overlap s (but
// not equal it). The result is the partition of s into up to three
// disjoint pieces: the part of s left of f, the s∩f overlap, and the
// part of s right of f. Neither s nor f may be a disequality interval
// (those are normalized away first via SplitNeq).
func SplitInterval(s, f Interval) []Interval {
	if s.IsEquality() || s.IsDisequality() || f.IsDisequality() {
		// A single point can't be further partitioned, and disequalities
		// are split out by SplitNeq before splitting ever reaches here.
		return nil
	}

	loVal, loOp := maxLo(s.Lo, s.Lop, f.Lo, f.Lop)
	hiVal, hiOp := minHi(s.Hi, s.Rop, f.Hi, f.Rop)

	var parts []Interval

	// Nothing lies left of -inf or right of +inf: a remainder piece
	// only exists when the cut point is finite.
	if loVal != nil {
		if left, ok := normalize(s.Lo, s.Lop, complement(loOp), loVal); ok {
			parts = append(parts, left)
		}
	}
	if mid, ok := normalize(loVal, loOp, hiOp, hiVal); ok {
		parts = append(parts, mid)
	}
	if hiVal != nil {
		if right, ok := normalize(hiVal, complement(hiOp), s.Rop, s.Hi); ok {
			parts = append(parts, right)
		}
	}

	return parts
}
