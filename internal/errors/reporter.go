package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/cprefsql/cprefengine/internal/ast"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// EngineError represents a structured error with suggestions and context
type EngineError struct {
	Level       ErrorLevel
	Code        string       // Error code like E0100
	Message     string       // Primary error message
	Position    ast.Position // Location in the rule text
	Length      int          // Length of the problematic region
	Suggestions []string     // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string       // Help text for the error
}

var levelColors = map[ErrorLevel]*color.Color{
	Error:   color.New(color.FgRed, color.Bold),
	Warning: color.New(color.FgYellow, color.Bold),
	Note:    color.New(color.FgBlue, color.Bold),
	Help:    color.New(color.FgGreen, color.Bold),
}

var trailerColors = map[string]*color.Color{
	"help": color.New(color.FgCyan),
	"note": color.New(color.FgBlue),
}

// ErrorReporter renders EngineErrors against the preferences source
// they point into.
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a preferences file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatError renders one diagnostic in the compact shape rule text
// calls for: a header carrying level, code, and code category, the
// offending rule line with a caret underline clamped to the line, and
// the suggestions and notes as indented trailers. Theories are
// line-oriented (one rule rarely spans lines), so no surrounding
// context is printed.
func (er *ErrorReporter) FormatError(err EngineError) string {
	var b strings.Builder

	b.WriteString(er.header(err))
	b.WriteString(er.offendingLine(err))
	for _, s := range err.Suggestions {
		b.WriteString(trailer("help", s))
	}
	for _, n := range err.Notes {
		b.WriteString(trailer("note", n))
	}
	if err.HelpText != "" {
		b.WriteString(trailer("help", err.HelpText))
	}
	b.WriteString("\n")
	return b.String()
}

// header is `level[code] (category): message`, or `level: message`
// for code-less diagnostics.
func (er *ErrorReporter) header(err EngineError) string {
	lc, ok := levelColors[err.Level]
	if !ok {
		lc = levelColors[Error]
	}
	if err.Code == "" {
		return fmt.Sprintf("%s: %s\n", lc.Sprint(string(err.Level)), err.Message)
	}
	return fmt.Sprintf("%s[%s] (%s): %s\n",
		lc.Sprint(string(err.Level)), err.Code, GetErrorCategory(err.Code), err.Message)
}

// offendingLine prints the location, the rule line, and a caret
// underline. The underline starts at the error column and never runs
// past the end of the line, whatever Length claims — a range
// predicate's span is clamped to the text that is actually there.
func (er *ErrorReporter) offendingLine(err EngineError) string {
	pos := err.Position
	location := fmt.Sprintf("  at %s:%d:%d\n", er.filename, pos.Line, pos.Column)
	if pos.Line < 1 || pos.Line > len(er.lines) {
		return location
	}

	// Tabs would throw the caret column off; render them as spaces.
	line := strings.ReplaceAll(er.lines[pos.Line-1], "\t", " ")

	col := pos.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}
	width := err.Length
	if width < 1 {
		width = 1
	}
	if rest := len(line) - col + 1; rest > 0 && width > rest {
		width = rest
	}

	mc, ok := levelColors[err.Level]
	if !ok {
		mc = levelColors[Error]
	}
	underline := strings.Repeat(" ", col-1) + mc.Sprint(strings.Repeat("^", width))
	return location + "    " + line + "\n    " + underline + "\n"
}

// trailer is one `= help: ...` / `= note: ...` line.
func trailer(label, text string) string {
	return fmt.Sprintf("    = %s %s\n", trailerColors[label].Sprintf("%s:", label), text)
}
