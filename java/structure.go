package java

import (
	"github.com/dhamidi/jfront/java/diag"
	"github.com/dhamidi/jfront/java/parser"
)

// checkPrintSemicolons reports System.out.print(...) and
// System.out.println(...) calls whose closing parenthesis is not followed
// by a semicolon. The finding points just past the parenthesis.
func checkPrintSemicolons(tokens []parser.Token) diag.List {
	var diags diag.List
	for i := 0; i+5 < len(tokens); i++ {
		if !isPrintCall(tokens[i:]) {
			continue
		}
		closing := closingParen(tokens, i+5)
		if closing < 0 {
			continue
		}
		if closing+1 < len(tokens) && tokens[closing+1].Kind == parser.TokenSemicolon {
			i = closing + 1
			continue
		}
		end := tokens[closing].Span.End
		diags = append(diags, diag.Diagnostic{
			Kind:    diag.Structural,
			Message: "missing ';' after System.out." + tokens[i+4].Literal + "(...)",
			Line:    end.Line,
			Col:     end.Column,
			Start:   end.Offset,
			Length:  1,
		})
		i = closing
	}
	return diags
}

func isPrintCall(toks []parser.Token) bool {
	return toks[0].Kind == parser.TokenSystem &&
		toks[1].Kind == parser.TokenDot &&
		toks[2].Kind == parser.TokenOut &&
		toks[3].Kind == parser.TokenDot &&
		(toks[4].Kind == parser.TokenPrint || toks[4].Kind == parser.TokenPrintln) &&
		toks[5].Kind == parser.TokenLParen
}

// closingParen returns the index of the parenthesis closing the one at
// open, or -1.
func closingParen(tokens []parser.Token, open int) int {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case parser.TokenLParen:
			depth++
		case parser.TokenRParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
