package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/cprefsql/cprefengine/internal/ast"
	"github.com/cprefsql/cprefengine/internal/errors"
	"github.com/cprefsql/cprefengine/internal/parser"
	"github.com/cprefsql/cprefengine/internal/rule"
	"github.com/cprefsql/cprefengine/internal/theory"
)

// CollectDiagnostics runs the full analysis ladder over one theory
// document: syntax first, then per-rule construction, then theory
// consistency. Each stage only runs when the previous one is clean,
// mirroring how evaluation itself halts at the first failing stage.
func CollectDiagnostics(path, source string) []protocol.Diagnostic {
	parsed, parseErrs := parser.ParseSource(path, source)
	if len(parseErrs) > 0 {
		return convertParseErrors(parseErrs)
	}

	var diagnostics []protocol.Diagnostic
	rules := make([]rule.Rule, 0, len(parsed.Rules))
	for _, ar := range parsed.Rules {
		r, err := theory.BuildRule(ar)
		if err != nil {
			diagnostics = append(diagnostics, ruleDiagnostic(ar, err.Error()))
			continue
		}
		rules = append(rules, r)
	}
	if len(diagnostics) > 0 {
		return diagnostics
	}

	t := theory.New(rules)
	t.SplitRules()
	if !t.IsGloballyConsistent() {
		diagnostics = append(diagnostics, consistencyDiagnostic(parsed,
			errors.ErrorGloballyInconsistent,
			"theory is globally inconsistent: rules form a cyclic dependency between attributes"))
	} else if !t.IsLocallyConsistent() {
		diagnostics = append(diagnostics, consistencyDiagnostic(parsed,
			errors.ErrorLocallyInconsistent,
			"theory is locally inconsistent: compatible rules prefer each interval over the other"))
	}
	return diagnostics
}

// convertParseErrors transforms parser errors into LSP diagnostics for
// IDE display: missing THEN, stray operators, unterminated strings.
func convertParseErrors(parseErrors []parser.ParseError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	for _, parseErr := range parseErrors {
		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{
					Line:      zeroBased(parseErr.Position.Line),
					Character: zeroBased(parseErr.Position.Column),
				},
				End: protocol.Position{
					Line:      zeroBased(parseErr.Position.Line),
					Character: zeroBased(parseErr.Position.Column) + 6, // Rough span for visibility
				},
			},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("cpref-parser"),
			Message:  parseErr.Message,
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

// ruleDiagnostic marks one malformed rule (duplicate condition
// attribute, mismatched preference attributes, self-contradiction)
// across the rule's full source span.
func ruleDiagnostic(ar *ast.Rule, message string) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{
				Line:      zeroBased(ar.Pos.Line),
				Character: zeroBased(ar.Pos.Column),
			},
			End: protocol.Position{
				Line:      zeroBased(ar.EndPos.Line),
				Character: zeroBased(ar.EndPos.Column),
			},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("cpref-theory"),
		Message:  message,
	}
}

// consistencyDiagnostic flags the whole theory; the cycle has no
// single offending rule, so the first rule anchors the warning.
func consistencyDiagnostic(parsed *ast.Theory, code, message string) protocol.Diagnostic {
	pos := parsed.Pos
	if len(parsed.Rules) > 0 {
		pos = parsed.Rules[0].Pos
	}
	c := code
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: zeroBased(pos.Line), Character: zeroBased(pos.Column)},
			End:   protocol.Position{Line: zeroBased(pos.Line), Character: zeroBased(pos.Column) + 6},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityWarning),
		Code:     &protocol.IntegerOrString{Value: c},
		Source:   ptrString("cpref-theory"),
		Message:  message,
	}
}

// zeroBased converts 1-based parser positions to LSP's 0-based
// indexing, clamping at zero for synthetic positions.
func zeroBased(n int) uint32 {
	if n <= 0 {
		return 0
	}
	return uint32(n - 1)
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
