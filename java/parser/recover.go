package parser

import (
	"fmt"

	"github.com/dhamidi/jfront/java/diag"
)

type recovery int

const (
	recovered recovery = iota
	fatal
)

// errorNode reports the current token as unexpected, resynchronizes and
// returns an error node describing what the production wanted.
func (p *Parser) errorNode(message string) *Node {
	tok := p.peek()
	node := &Node{
		Kind:  KindError,
		Span:  tok.Span,
		Error: &Error{Message: message, Got: &tok},
	}
	if tok.Kind == TokenEOF {
		p.unexpectedEOF()
		p.halted = true
		return node
	}
	p.reportUnexpected(tok)
	if p.resync() == fatal {
		p.halted = true
	}
	node.Span.End = p.lastEnd(node.Span.End)
	return node
}

func (p *Parser) lastEnd(fallback Position) Position {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return fallback
}

func (p *Parser) reportUnexpected(tok Token) {
	var body string
	switch tok.Kind {
	case TokenIdent:
		body = fmt.Sprintf("'%s' might need to be declared first", tok.Literal)
	case TokenLBracket, TokenRBracket:
		if p.inMainParams {
			return
		}
		body = "incorrect use of brackets '[]'"
	case TokenLParen, TokenRParen:
		body = "unbalanced parentheses '()'"
	case TokenLBrace, TokenRBrace:
		body = "unbalanced braces '{}'"
	case TokenSemicolon:
		body = "unexpected or missing semicolon ';'"
	default:
		body = fmt.Sprintf("unexpected token '%s' of kind %s", tok.Literal, tok.Kind)
	}
	p.report(diag.Syntactic, tok, "syntax error at line %d: %s", tok.Line(), body)
}

func (p *Parser) unexpectedEOF() {
	if p.eofReported {
		return
	}
	p.eofReported = true
	p.report(diag.Syntactic, p.eofToken(), "syntax error: unexpected end of file")
}

// resync discards tokens until the parser is back at a statement boundary.
// A ';' or ')' is consumed, a '}' is left for the enclosing block to close.
func (p *Parser) resync() recovery {
	switch p.peek().Kind {
	case TokenEOF:
		p.unexpectedEOF()
		return fatal
	case TokenSemicolon:
		p.advance()
		return recovered
	case TokenRBrace:
		return recovered
	}

	p.advance()
	for {
		switch p.peek().Kind {
		case TokenEOF:
			p.unexpectedEOF()
			return fatal
		case TokenSemicolon, TokenRParen:
			p.advance()
			return recovered
		case TokenRBrace:
			return recovered
		}
		p.advance()
	}
}

// done reports whether member and statement loops should stop: the input
// is exhausted or recovery ran into the end of file.
func (p *Parser) done() bool {
	return p.halted || p.atEOF()
}

// ensureProgress consumes one token when a loop body made no progress, so
// a stray '}' left behind by resync cannot stall the caller.
func (p *Parser) ensureProgress(before int) {
	if p.pos == before && !p.atEOF() {
		p.advance()
	}
}
