package errors

// Error codes for the preference engine. The codes appear in error
// messages and diagnostics to give consistent identification across
// the CLI, the REPL, and the language server.
//
// Error code ranges:
// E0001-E0099: Theory analysis errors (rule construction)
// E0100-E0199: Parser errors
// E0200-E0299: Consistency errors
// E0300-E0399: Record/relation errors
// W0001-W0099: Warning codes (IsWarning also accepts E0800-E0899)

const (
	// Theory analysis errors (E0001-E0005)

	// E0001: The same attribute appears twice in one rule's condition
	ErrorDuplicateConditionAttribute = "E0001"

	// E0002: A preference's best and worst predicates name different attributes
	ErrorPreferenceAttributeMismatch = "E0002"

	// E0003: A rule's best and worst intervals overlap (self-contradiction)
	ErrorSelfContradictingRule = "E0003"

	// E0004: Value literal cannot be interpreted
	ErrorInvalidValueLiteral = "E0004"

	// E0005: Unknown comparison or range operator
	ErrorInvalidOperator = "E0005"

	// Parser errors (E0100-E0199)

	// E0100: Malformed rule text
	ErrorSyntax = "E0100"

	// Consistency errors (E0200-E0299)

	// E0200: Cyclic attribute dependency across rules (global check)
	ErrorGloballyInconsistent = "E0200"

	// E0201: Cyclic interval preference within compatible rules (local check)
	ErrorLocallyInconsistent = "E0201"

	// Record/relation errors (E0300-E0399)

	// E0300: Requested table not found in the relational source
	ErrorUnknownTable = "E0300"

	// Warning codes

	// W0001: Rules reference an attribute no input record carries
	WarningUnmatchedAttribute = "W0001"

	// W0002: Values of incompatible kinds were compared (treated as unordered)
	WarningCrossKindComparison = "W0002"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorDuplicateConditionAttribute:
		return "An attribute may appear at most once in a rule's condition"
	case ErrorPreferenceAttributeMismatch:
		return "Both sides of BETTER must constrain the same attribute"
	case ErrorSelfContradictingRule:
		return "A rule's best and worst intervals must not overlap"
	case ErrorInvalidValueLiteral:
		return "Value literal is not an integer, float, or quoted string"
	case ErrorInvalidOperator:
		return "Operator is not valid in this predicate position"
	case ErrorSyntax:
		return "Rule text does not match the preference grammar"
	case ErrorGloballyInconsistent:
		return "Rules form a cyclic dependency between attributes"
	case ErrorLocallyInconsistent:
		return "Compatible rules form a cyclic preference over intervals"
	case ErrorUnknownTable:
		return "Table does not exist in the relational source"
	case WarningUnmatchedAttribute:
		return "Rules reference an attribute absent from every input record"
	case WarningCrossKindComparison:
		return "Cross-kind value comparison is undefined and treated as unordered"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the code represents a warning rather than an error
func IsWarning(code string) bool {
	return code >= "E0800" && code < "E0900" || code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Theory Analysis"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0200" && code < "E0300":
		return "Consistency"
	case code >= "E0300" && code < "E0400":
		return "Records"
	case code >= "E0800" && code < "E0900":
		return "Warning"
	case code[0] == 'W':
		return "Warning"
	default:
		return "Unknown"
	}
}
