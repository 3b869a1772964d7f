package lsp

import (
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/cprefsql/cprefengine/grammar"
	"github.com/cprefsql/cprefengine/token"
)

// SemanticToken represents a single LSP semantic token entry.
// Line and StartChar are 0-based positions; TokenType is an index
// into SemanticTokenTypes; TokenModifiers is a bitmask over
// SemanticTokenModifiers.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

// CollectSemanticTokens classifies every lexeme of a theory document.
// Unlike a compiler's AST walk, rule text is flat enough that the
// lexer stream alone carries all the classification the editor needs:
// the grammar lexer tokenizes, and package token's keyword table
// decides keyword-vs-attribute for identifiers.
func CollectSemanticTokens(path, source string) []SemanticToken {
	lx, err := grammar.TheoryLexer.LexString(path, source)
	if err != nil {
		return nil
	}

	symbols := symbolNames()

	var tokens []SemanticToken
	for {
		tok, err := lx.Next()
		if err != nil || tok.EOF() {
			break
		}
		kind, ok := classify(symbols[tok.Type], tok.Value)
		if !ok {
			continue
		}
		tokens = append(tokens, SemanticToken{
			Line:      zeroBased(tok.Pos.Line),
			StartChar: zeroBased(tok.Pos.Column),
			Length:    uint32(len(tok.Value)),
			TokenType: indexOf(kind, SemanticTokenTypes),
		})
	}
	return tokens
}

// classify maps a lexer token to an LSP semantic token type name;
// whitespace and punctuation carry no highlight.
func classify(symbol, value string) (string, bool) {
	switch symbol {
	case "Keyword":
		return "keyword", true
	case "Ident":
		if token.IsKeyword(value) {
			return "keyword", true
		}
		return "variable", true
	case "Integer", "Float":
		return "number", true
	case "String":
		return "string", true
	case "Operator":
		return "operator", true
	default:
		return "", false
	}
}

// documentAttributes returns the distinct attribute names mentioned in
// a theory document, uppercased and sorted, for completion.
func documentAttributes(source string) []string {
	lx, err := grammar.TheoryLexer.LexString("", source)
	if err != nil {
		return nil
	}

	symbols := symbolNames()
	seen := map[string]bool{}
	for {
		tok, err := lx.Next()
		if err != nil || tok.EOF() {
			break
		}
		if symbols[tok.Type] != "Ident" || token.IsKeyword(tok.Value) {
			continue
		}
		seen[strings.ToUpper(tok.Value)] = true
	}

	attrs := make([]string, 0, len(seen))
	for a := range seen {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)
	return attrs
}

// symbolNames inverts the lexer's symbol table so token types resolve
// back to their rule names.
func symbolNames() map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string)
	for name, typ := range grammar.TheoryLexer.Symbols() {
		out[typ] = name
	}
	return out
}

// indexOf returns the index of a string in a list, or -1 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return -1
}
