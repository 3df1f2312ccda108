package parser

import (
	"github.com/dhamidi/jfront/java/diag"
	"github.com/dhamidi/jfront/java/symtab"
)

// Tokenize is the one lexing entry point every pass shares. It drops
// whitespace, comments and the trailing EOF, and turns every unrecognized
// character into a Lexical diagnostic. When table is non-nil the lexer
// registers declarations into it while scanning.
func Tokenize(src []byte, file string, table *symtab.Table) ([]Token, diag.List) {
	lexer := NewLexer(src, file)
	if table != nil {
		lexer.TrackDeclarations(table)
	}
	var tokens []Token
	var diags diag.List
	for {
		tok := lexer.NextToken()
		switch tok.Kind {
		case TokenEOF:
			return tokens, diags
		case TokenWhitespace, TokenComment, TokenLineComment:
			continue
		case TokenError:
			diags = append(diags, diag.Diagnostic{
				Kind:    diag.Lexical,
				Message: "unrecognized character " + quoteChar(tok.Literal),
				Line:    tok.Span.Start.Line,
				Col:     tok.Span.Start.Column,
				Start:   tok.Span.Start.Offset,
				Length:  tok.Span.Len(),
			})
			continue
		}
		tokens = append(tokens, tok)
	}
}

func quoteChar(s string) string {
	if s == "'" {
		return `"'"`
	}
	return "'" + s + "'"
}
