package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cprefsql/cprefengine/internal/ast"
)

func TestErrorReporter(t *testing.T) {
	source := `PRICE < 100 BETTER PRICE >= 100 [STARS]
AND IF STARS = 5 THEN PRICE < 200 BETTER PRICE >= 200`

	reporter := NewErrorReporter("hotels.pref", source)

	err := SelfContradictingRule("PRICE", "(-inf,<=,<,200)", "(100,<=,<=,+inf)", ast.Position{Line: 2, Column: 19})
	formatted := reporter.FormatError(err)

	// Should contain error level, code, and category
	assert.Contains(t, formatted, "error["+ErrorSelfContradictingRule+"]")
	assert.Contains(t, formatted, "(Theory Analysis)")
	assert.Contains(t, formatted, "intervals overlap")

	// Should contain location and the offending rule line
	assert.Contains(t, formatted, "hotels.pref:2:19")
	assert.Contains(t, formatted, "AND IF STARS = 5")

	// Should contain the suggestion as a trailer
	assert.Contains(t, formatted, "disjoint")
}

func TestSyntaxError(t *testing.T) {
	err := SyntaxError("unexpected token 'BETTRE'", ast.Position{Line: 1, Column: 13})
	assert.Equal(t, ErrorSyntax, err.Code)
	assert.Equal(t, Error, err.Level)
	assert.Contains(t, err.Message, "BETTRE")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Notes[0], "case-insensitive")
}

func TestDuplicateConditionAttributeError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 4}

	err := DuplicateConditionAttribute("STARS", pos)
	assert.Equal(t, ErrorDuplicateConditionAttribute, err.Code)
	assert.Contains(t, err.Message, "STARS")
	assert.Equal(t, len("STARS"), err.Length)
	assert.Len(t, err.Suggestions, 1)
}

func TestUnknownTableError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 1}

	err := UnknownTable("hotles", pos, []string{"hotels", "flights"})
	assert.Equal(t, ErrorUnknownTable, err.Code)
	assert.Contains(t, err.Message, "hotles")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0], "did you mean 'hotels'")
	assert.Len(t, err.Notes, 1)
	assert.Contains(t, err.Notes[0], "available tables: hotels, flights")
}

func TestWarningFormatting(t *testing.T) {
	source := `PRICE < 100 BETTER PRICE >= 100`
	reporter := NewErrorReporter("hotels.pref", source)

	err := UnmatchedAttribute("PRICE", ast.Position{Line: 1, Column: 1}, []string{"PRIZE", "STARS"})
	formatted := reporter.FormatError(err)

	// Should be formatted as warning with a did-you-mean suggestion
	assert.Contains(t, formatted, "warning[W0001]")
	assert.Contains(t, formatted, "no input record")
	assert.Contains(t, formatted, "did you mean 'PRIZE'")
}

func TestCaretUnderline(t *testing.T) {
	source := `STARS = 5 BETTER STARS = 4`
	reporter := NewErrorReporter("hotels.pref", source)

	formatted := reporter.FormatError(EngineError{
		Level:    Error,
		Message:  "boom",
		Position: ast.Position{Line: 1, Column: 18},
		Length:   len("STARS = 4"),
	})

	// The underline sits under the worst predicate, one caret per
	// character of its span.
	assert.Equal(t, len("STARS = 4"), strings.Count(formatted, "^"))
	assert.Contains(t, formatted, "STARS = 5 BETTER STARS = 4")
}

func TestCaretUnderlineClampsToLine(t *testing.T) {
	source := `A = 1 BETTER A = 2`
	reporter := NewErrorReporter("short.pref", source)

	// Length far past the end of the line must not overrun it.
	formatted := reporter.FormatError(EngineError{
		Level:    Error,
		Message:  "boom",
		Position: ast.Position{Line: 1, Column: 14},
		Length:   500,
	})
	assert.Equal(t, len("A = 2"), strings.Count(formatted, "^"))

	// A position outside the source still renders the header and
	// location without panicking.
	formatted = reporter.FormatError(EngineError{
		Level:    Error,
		Message:  "boom",
		Position: ast.Position{Line: 9, Column: 3},
	})
	assert.Contains(t, formatted, "short.pref:9:3")
	assert.Zero(t, strings.Count(formatted, "^"))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSimilarNameFinding(t *testing.T) {
	candidates := []string{"PRICE", "STARS", "ROOMS", "PRIZE", "XY"}

	// Should find close names, case-insensitively
	similar := findSimilarNames("price", candidates)
	assert.Contains(t, similar, "PRICE")
	assert.Contains(t, similar, "PRIZE")
	assert.NotContains(t, similar, "STARS")

	// Should not find names if none are close enough
	similar = findSimilarNames("verydifferent", candidates)
	assert.Empty(t, similar)
}

func TestErrorLevels(t *testing.T) {
	source := `test`
	reporter := NewErrorReporter("hotels.pref", source)
	pos := ast.Position{Line: 1, Column: 1}

	errorErr := EngineError{Level: Error, Message: "test error", Position: pos}
	warningErr := EngineError{Level: Warning, Message: "test warning", Position: pos}

	errorFormatted := reporter.FormatError(errorErr)
	warningFormatted := reporter.FormatError(warningErr)

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}

func TestCodeClassification(t *testing.T) {
	assert.True(t, IsWarning(WarningUnmatchedAttribute))
	assert.False(t, IsWarning(ErrorSyntax))
	assert.Equal(t, "Parser", GetErrorCategory(ErrorSyntax))
	assert.Equal(t, "Consistency", GetErrorCategory(ErrorLocallyInconsistent))
	assert.Equal(t, "Warning", GetErrorCategory(WarningCrossKindComparison))
}
