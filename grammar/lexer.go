package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// TheoryLexer tokenizes CP-theory rule text. Keywords are matched
// case-insensitively and must win over Ident; operators are ordered
// longest-first so `<=` and `<>` never lex as `<` followed by junk.
var TheoryLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "String", Pattern: `'[^']*'`},
		{Name: "Float", Pattern: `-?\d+\.\d+`},
		{Name: "Integer", Pattern: `-?\d+`},
		{Name: "Keyword", Pattern: `(?i)\b(IF|THEN|AND|BETTER)\b`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Operator", Pattern: `<=|>=|<>|<|>|=`},
		{Name: "Punct", Pattern: `[\[\](),]`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	},
})
