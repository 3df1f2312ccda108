package parser

import "github.com/dhamidi/jfront/java/symtab"

// declTracker is the lexer's declaration-mode state machine. A type token
// enters declaration mode, the next identifier leaves it by declaring
// itself, and ';' always resets. After "name =" the next literal becomes
// the symbol's value.
type declTracker struct {
	table *symtab.Table

	declType  string
	declaring bool

	expectClassName bool
	lastIdent       string

	valueTarget   string
	awaitingValue bool
}

func (d *declTracker) observe(tok Token) {
	switch tok.Kind {
	case TokenWhitespace, TokenComment, TokenLineComment, TokenError, TokenEOF:
		return
	case TokenLBrace:
		d.table.OpenBlock()
		return
	case TokenRBrace:
		d.table.CloseBlock()
		return
	case TokenSemicolon:
		d.declaring = false
		d.awaitingValue = false
		d.valueTarget = ""
		return
	case TokenAssign:
		if d.lastIdent != "" && !d.awaitingValue {
			d.awaitingValue = true
			d.valueTarget = d.lastIdent
		}
		return
	}

	if tok.Kind.IsLiteral() {
		if d.awaitingValue && d.valueTarget != "" {
			d.table.SetValue(d.valueTarget, tok.Value())
			d.awaitingValue = false
			d.valueTarget = ""
		}
		return
	}

	switch {
	case tok.Kind.IsPrimitiveType():
		d.declType = tok.Literal
		d.declaring = true
	case tok.Kind == TokenIdent && d.declaring:
		d.table.Declare(tok.Literal, d.declType, tok.Line(), nil)
		d.declaring = false
		d.lastIdent = tok.Literal
	case tok.Kind == TokenIdent:
		d.lastIdent = tok.Literal
		d.table.MarkUsed(tok.Literal)
	}

	switch {
	case tok.Kind == TokenClass:
		d.expectClassName = true
	case tok.Kind == TokenIdent && d.expectClassName:
		d.expectClassName = false
		d.table.Declare(tok.Literal, symtab.KindClass, tok.Line(), nil)
	case tok.Kind == TokenMain:
		d.table.EnterScope(symtab.ScopeMain)
		d.table.Declare("main", symtab.KindMethod, tok.Line(), nil)
	}
}
