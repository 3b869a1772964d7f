// Package grammar holds the participle struct-tag grammar for
// CP-theory rule text:
//
//	theory   := rule ("AND" rule)*
//	rule     := [ "IF" pred ("AND" pred)* "THEN" ] pref [ indiff ]
//	pref     := pred ("BETTER" | ">") pred
//	pred     := attr cmp_op value
//	          | value int_op attr int_op value
//	          | "(" pred ")"
//	indiff   := "[" attr ("," attr)* "]" | "(" attr ("," attr)* ")"
//
// Keywords are case-insensitive, whitespace is insignificant, and
// values are integers, floats, or single-quoted strings. The parse
// tree here is the raw surface form; internal/parser lowers it into
// internal/ast nodes for the rest of the engine.
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type Theory struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Rules  []*Rule `@@ ( "AND" @@ )*`
}

type Rule struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Condition  *Condition      `[ "IF" @@ "THEN" ]`
	Preference *Preference     `@@`
	Indiff     *IndifferentSet `[ @@ ]`
}

type Condition struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Predicates []*Predicate `@@ ( "AND" @@ )*`
}

type Preference struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Best   *Predicate `@@`
	Worst  *Predicate `( "BETTER" | ">" ) @@`
}

// Predicate is one of the three surface predicate forms. The
// parenthesized variant nests so `((A = 1))` parses too.
type Predicate struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Paren  *Predicate       `  "(" @@ ")"`
	Range  *RangePredicate  `| @@`
	Simple *SimplePredicate `| @@`
}

// RangePredicate is the two-sided form `value int_op attr int_op value`.
type RangePredicate struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Lo     *Literal `@@`
	LoOp   string   `@("<=" | "<")`
	Attr   string   `@Ident`
	HiOp   string   `@("<=" | "<")`
	Hi     *Literal `@@`
}

// SimplePredicate is the one-sided form `attr cmp_op value`.
type SimplePredicate struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Attr   string   `@Ident`
	Op     string   `@("<=" | ">=" | "<>" | "<" | ">" | "=")`
	Value  *Literal `@@`
}

type IndifferentSet struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Attributes []string `( "[" @Ident ( "," @Ident )* "]" | "(" @Ident ( "," @Ident )* ")" )`
}

// Literal is an integer, float, or single-quoted string constant,
// captured raw; internal/parser converts it to a value.Value.
type Literal struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Str    *string `  @String`
	Float  *string `| @Float`
	Int    *string `| @Integer`
}
