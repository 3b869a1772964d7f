// Package parser wraps the participle grammar in grammar/ and lowers
// its surface parse tree into internal/ast nodes — the AST contract
// internal/theory builds from. Per the engine's scope note, any PEG or
// recursive-descent parser could sit behind this package; only the
// ast.Theory it produces matters downstream.
package parser

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/cprefsql/cprefengine/grammar"
	"github.com/cprefsql/cprefengine/internal/ast"
)

var theoryParser = buildParser()

func buildParser() *participle.Parser[grammar.Theory] {
	p, err := participle.Build[grammar.Theory](
		participle.Lexer(grammar.TheoryLexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Keyword"),
		participle.UseLookahead(4),
	)
	if err != nil {
		panic(fmt.Errorf("failed to build theory parser: %w", err))
	}
	return p
}

// ParseError is one malformed-rule-text diagnostic, carrying the
// offending position so front ends (CLI caret output, LSP
// diagnostics) can point at the line.
type ParseError struct {
	Position ast.Position
	Message  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Position.Filename, e.Position.Line, e.Position.Column, e.Message)
}

// ParseFile reads and parses a preferences file.
func ParseFile(path string) (*ast.Theory, []ParseError) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, []ParseError{{
			Position: ast.Position{Filename: path, Line: 1, Column: 1},
			Message:  fmt.Sprintf("failed to read file: %v", err),
		}}
	}
	return ParseSource(path, string(source))
}

// ParseSource parses CP-theory rule text into the ast.Theory contract.
// A nil theory with a non-empty error list means the text was
// malformed; evaluation must halt with an empty result.
func ParseSource(sourceName, source string) (*ast.Theory, []ParseError) {
	surface, err := theoryParser.ParseString(sourceName, source)
	if err != nil {
		return nil, []ParseError{toParseError(sourceName, err)}
	}
	return lowerTheory(surface), nil
}

func toParseError(sourceName string, err error) ParseError {
	if pe, ok := err.(participle.Error); ok {
		pos := pe.Position()
		return ParseError{
			Position: ast.Position{Filename: pos.Filename, Offset: pos.Offset, Line: pos.Line, Column: pos.Column},
			Message:  pe.Message(),
		}
	}
	return ParseError{
		Position: ast.Position{Filename: sourceName, Line: 1, Column: 1},
		Message:  err.Error(),
	}
}

func position(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func lowerTheory(t *grammar.Theory) *ast.Theory {
	out := &ast.Theory{
		Pos:    position(t.Pos),
		EndPos: position(t.EndPos),
		Rules:  make([]*ast.Rule, len(t.Rules)),
	}
	for i, r := range t.Rules {
		out.Rules[i] = lowerRule(r)
	}
	return out
}

func lowerRule(r *grammar.Rule) *ast.Rule {
	out := &ast.Rule{
		Pos:    position(r.Pos),
		EndPos: position(r.EndPos),
		Preference: &ast.Preference{
			Pos:    position(r.Preference.Pos),
			EndPos: position(r.Preference.EndPos),
			Best:   lowerPredicate(r.Preference.Best),
			Worst:  lowerPredicate(r.Preference.Worst),
		},
	}
	if r.Condition != nil {
		cond := &ast.Condition{
			Pos:        position(r.Condition.Pos),
			EndPos:     position(r.Condition.EndPos),
			Predicates: make([]*ast.Predicate, len(r.Condition.Predicates)),
		}
		for i, p := range r.Condition.Predicates {
			cond.Predicates[i] = lowerPredicate(p)
		}
		out.Condition = cond
	}
	if r.Indiff != nil {
		atts := make([]string, len(r.Indiff.Attributes))
		for i, a := range r.Indiff.Attributes {
			atts[i] = strings.ToUpper(a)
		}
		out.Indiff = &ast.IndifferentSet{
			Pos:        position(r.Indiff.Pos),
			EndPos:     position(r.Indiff.EndPos),
			Attributes: atts,
		}
	}
	return out
}

// lowerPredicate flattens parenthesized nesting and case-folds the
// attribute to upper.
func lowerPredicate(p *grammar.Predicate) *ast.Predicate {
	for p.Paren != nil {
		p = p.Paren
	}
	if p.Range != nil {
		return &ast.Predicate{
			Pos:        position(p.Pos),
			EndPos:     position(p.EndPos),
			Attr:       strings.ToUpper(p.Range.Attr),
			LeftValue:  lowerLiteral(p.Range.Lo),
			LeftOp:     p.Range.LoOp,
			RightOp:    p.Range.HiOp,
			RightValue: lowerLiteral(p.Range.Hi),
		}
	}
	return &ast.Predicate{
		Pos:    position(p.Pos),
		EndPos: position(p.EndPos),
		Attr:   strings.ToUpper(p.Simple.Attr),
		Op:     p.Simple.Op,
		Value:  lowerLiteral(p.Simple.Value),
	}
}

func lowerLiteral(l *grammar.Literal) *ast.ValueLiteral {
	out := &ast.ValueLiteral{Pos: position(l.Pos), EndPos: position(l.EndPos)}
	switch {
	case l.Str != nil:
		out.Kind = ast.StringValue
		out.Text = strings.Trim(*l.Str, "'")
	case l.Float != nil:
		out.Kind = ast.FloatingValue
		out.Floating, _ = strconv.ParseFloat(*l.Float, 64)
	default:
		out.Kind = ast.IntegerValue
		out.Integer, _ = strconv.ParseInt(*l.Int, 10, 64)
	}
	return out
}
