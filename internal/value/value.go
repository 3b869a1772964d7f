// Package value implements the scalar domain that CP-theory
// intervals and records range over: a tagged variant of integer,
// floating, and string, each totally ordered within its own
// kind. Cross-kind comparisons are defined to be "not ordered" rather
// than panicking.
package value

import "fmt"

// Kind discriminates the Value variants.
type Kind int

const (
	Integer Kind = iota
	Floating
	String
)

// Value is a scalar belonging to exactly one Kind. The zero Value is
// the integer 0; always construct through the New* helpers.
type Value struct {
	kind     Kind
	integer  int64
	floating float64
	text     string
}

func NewInteger(i int64) Value  { return Value{kind: Integer, integer: i} }
func NewFloating(f float64) Value { return Value{kind: Floating, floating: f} }
func NewString(s string) Value  { return Value{kind: String, text: s} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) Integer() int64    { return v.integer }
func (v Value) Floating() float64 { return v.floating }
func (v Value) Text() string      { return v.text }

// asFloat widens integer and floating values onto a common axis for
// cross-numeric comparison (integer vs floating is well-formed; a
// CP-theory record never mixes integer and string for one attribute).
func (v Value) asFloat() float64 {
	if v.kind == Integer {
		return float64(v.integer)
	}
	return v.floating
}

func (v Value) isNumeric() bool { return v.kind == Integer || v.kind == Floating }

// comparable reports whether a and b belong to compatible kinds: both
// numeric (integer/floating may mix), or both string.
func comparable(a, b Value) bool {
	if a.kind == String || b.kind == String {
		return a.kind == String && b.kind == String
	}
	return a.isNumeric() && b.isNumeric()
}

// Equal reports whether a and b are the same scalar. Cross-kind values
// (e.g. integer vs string) are never equal.
func Equal(a, b Value) bool {
	if !comparable(a, b) {
		return false
	}
	if a.kind == String {
		return a.text == b.text
	}
	return a.asFloat() == b.asFloat()
}

// Less reports whether a orders strictly before b. Cross-kind values
// report false in both directions: the order between them is
// undefined, and well-formed inputs never compare them.
func Less(a, b Value) bool {
	if !comparable(a, b) {
		return false
	}
	if a.kind == String {
		return a.text < b.text
	}
	return a.asFloat() < b.asFloat()
}

// LessEqual reports a <= b under the same rules as Less.
func LessEqual(a, b Value) bool {
	return Less(a, b) || Equal(a, b)
}

func (v Value) String() string {
	switch v.kind {
	case Integer:
		return fmt.Sprintf("%d", v.integer)
	case Floating:
		return fmt.Sprintf("%g", v.floating)
	default:
		return fmt.Sprintf("%q", v.text)
	}
}
