package errors

import (
	"fmt"
	"strings"

	"github.com/cprefsql/cprefengine/internal/ast"
)

// ErrorBuilder provides a fluent interface for creating engine errors
// with suggestions
type ErrorBuilder struct {
	err EngineError
}

// NewError creates a new error builder
func NewError(code, message string, pos ast.Position) *ErrorBuilder {
	return &ErrorBuilder{
		err: EngineError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos ast.Position) *ErrorBuilder {
	return &ErrorBuilder{
		err: EngineError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *ErrorBuilder) WithLength(length int) *ErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *ErrorBuilder) WithSuggestion(message string) *ErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, message)
	return b
}

// WithNote adds a note to the error
func (b *ErrorBuilder) WithNote(note string) *ErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *ErrorBuilder) WithHelp(help string) *ErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed engine error
func (b *ErrorBuilder) Build() EngineError {
	return b.err
}

// Common error constructors with suggestions

// SyntaxError creates an error for malformed rule text
func SyntaxError(message string, pos ast.Position) EngineError {
	return NewError(ErrorSyntax, message, pos).
		WithSuggestion("rules follow: [IF pred AND ... THEN] pred BETTER pred [attr list]").
		WithNote("keywords IF, THEN, AND, and BETTER are case-insensitive").
		Build()
}

// DuplicateConditionAttribute creates an error for an attribute that
// appears twice in one rule's condition
func DuplicateConditionAttribute(attr string, pos ast.Position) EngineError {
	return NewError(ErrorDuplicateConditionAttribute,
		fmt.Sprintf("attribute '%s' appears twice in the rule's condition", attr), pos).
		WithLength(len(attr)).
		WithSuggestion("combine the two predicates into a single interval predicate").
		WithNote("a condition is a conjunction; each attribute may be constrained once").
		Build()
}

// PreferenceAttributeMismatch creates an error for a BETTER clause
// whose two sides constrain different attributes
func PreferenceAttributeMismatch(best, worst string, pos ast.Position) EngineError {
	return NewError(ErrorPreferenceAttributeMismatch,
		fmt.Sprintf("preference compares '%s' against '%s'", best, worst), pos).
		WithSuggestion(fmt.Sprintf("make both sides of BETTER constrain '%s'", best)).
		WithNote("a preference orders two intervals of a single attribute").
		Build()
}

// SelfContradictingRule creates an error for a rule whose best and
// worst intervals overlap
func SelfContradictingRule(attr, best, worst string, pos ast.Position) EngineError {
	return NewError(ErrorSelfContradictingRule,
		fmt.Sprintf("rule on '%s' prefers %s over %s, but the intervals overlap", attr, best, worst), pos).
		WithSuggestion("tighten one side so the best and worst intervals are disjoint").
		WithHelp("a record could satisfy both sides at once, making the rule self-contradicting").
		Build()
}

// GloballyInconsistent creates an error for a cyclic attribute
// dependency across the whole theory
func GloballyInconsistent(pos ast.Position) EngineError {
	return NewError(ErrorGloballyInconsistent,
		"rules form a cyclic dependency between attributes", pos).
		WithSuggestion("break the cycle: some rule's condition attribute is another rule's preference attribute, and vice versa").
		WithNote("condition attributes must form a DAG over preference attributes").
		Build()
}

// LocallyInconsistent creates an error for a cyclic interval
// preference among pairwise-compatible rules
func LocallyInconsistent(attr string, pos ast.Position) EngineError {
	return NewError(ErrorLocallyInconsistent,
		fmt.Sprintf("compatible rules on '%s' prefer each interval over the other", attr), pos).
		WithSuggestion("remove or restrict one of the conflicting rules").
		WithNote("two rules with overlapping conditions must not invert each other's preference").
		Build()
}

// UnknownTable creates an error for a table missing from the
// relational source, with did-you-mean suggestions
func UnknownTable(name string, pos ast.Position, available []string) EngineError {
	builder := NewError(ErrorUnknownTable, fmt.Sprintf("unknown table '%s'", name), pos).
		WithLength(len(name))

	similar := findSimilarNames(name, available)
	if len(similar) == 1 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	} else if len(similar) > 1 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	}
	if len(available) > 0 {
		builder = builder.WithNote(fmt.Sprintf("available tables: %s", strings.Join(available, ", ")))
	}
	return builder.Build()
}

// UnmatchedAttribute creates a warning for a rule attribute no input
// record carries, with did-you-mean suggestions from the record schema
func UnmatchedAttribute(attr string, pos ast.Position, recordAttrs []string) EngineError {
	builder := NewWarning(WarningUnmatchedAttribute,
		fmt.Sprintf("no input record carries attribute '%s'", attr), pos).
		WithLength(len(attr))

	similar := findSimilarNames(attr, recordAttrs)
	if len(similar) == 1 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	} else if len(similar) > 1 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	} else {
		builder = builder.WithSuggestion("rules over a missing attribute never apply to any record")
	}
	return builder.Build()
}

// Helper functions

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if levenshteinDistance(strings.ToUpper(target), strings.ToUpper(candidate)) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create matrix
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	// Initialize first row and column
	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	// Fill the matrix
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
