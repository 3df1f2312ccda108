package ir

import (
	"strings"

	"github.com/dhamidi/jfront/java/parser"
)

type stmtKind int

const (
	stmtOther stmtKind = iota
	stmtHeader
	stmtDecl
	stmtAssign
	stmtCompound
	stmtFor
	stmtWhile
	stmtDo
	stmtIf
	stmtPrint
	stmtIncDec
	stmtCall
)

type declarator struct {
	name  parser.Token
	value []parser.Token
}

// statement is one recognized shape in a token slice. Which fields are
// set depends on kind.
type statement struct {
	kind stmtKind
	end  int

	target []parser.Token
	op     parser.Token
	value  []parser.Token
	decls  []declarator

	init, cond, update []parser.Token
	body, elseBody     []parser.Token
	hasElse            bool

	callee string
	args   [][]parser.Token
}

func kindAt(toks []parser.Token, i int) parser.TokenKind {
	if i < 0 || i >= len(toks) {
		return parser.TokenEOF
	}
	return toks[i].Kind
}

// matching returns the index of the bracket closing the one at open, or
// len(toks) when it is never closed.
func matching(toks []parser.Token, open int) int {
	var closer parser.TokenKind
	switch kindAt(toks, open) {
	case parser.TokenLParen:
		closer = parser.TokenRParen
	case parser.TokenLBracket:
		closer = parser.TokenRBracket
	case parser.TokenLBrace:
		closer = parser.TokenRBrace
	default:
		return open
	}
	opener := toks[open].Kind
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].Kind {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks)
}

// topLevel returns the first index at or after start where kind appears
// outside any brackets, or len(toks).
func topLevel(toks []parser.Token, start int, kind parser.TokenKind) int {
	depth := 0
	for i := start; i < len(toks); i++ {
		k := toks[i].Kind
		if depth == 0 && k == kind {
			return i
		}
		switch k {
		case parser.TokenLParen, parser.TokenLBracket, parser.TokenLBrace:
			depth++
		case parser.TokenRParen, parser.TokenRBracket, parser.TokenRBrace:
			depth--
		}
	}
	return len(toks)
}

// split cuts toks at every top-level occurrence of sep.
func split(toks []parser.Token, sep parser.TokenKind) [][]parser.Token {
	if len(toks) == 0 {
		return nil
	}
	var parts [][]parser.Token
	start := 0
	for {
		at := topLevel(toks, start, sep)
		parts = append(parts, toks[start:at])
		if at >= len(toks) {
			return parts
		}
		start = at + 1
	}
}

// statementEnd returns the index just past the statement starting at i,
// following nested if, else, loops and blocks.
func statementEnd(toks []parser.Token, i int) int {
	if i >= len(toks) {
		return len(toks)
	}
	switch toks[i].Kind {
	case parser.TokenLBrace:
		return min(matching(toks, i)+1, len(toks))
	case parser.TokenIf:
		end := statementEnd(toks, matching(toks, i+1)+1)
		if kindAt(toks, end) == parser.TokenElse {
			end = statementEnd(toks, end+1)
		}
		return end
	case parser.TokenFor, parser.TokenWhile:
		return statementEnd(toks, matching(toks, i+1)+1)
	case parser.TokenDo:
		end := statementEnd(toks, i+1)
		if kindAt(toks, end) == parser.TokenWhile {
			end = matching(toks, end+1) + 1
			if kindAt(toks, end) == parser.TokenSemicolon {
				end++
			}
		}
		return min(end, len(toks))
	}
	return min(topLevel(toks, i, parser.TokenSemicolon)+1, len(toks))
}

// body strips the braces of a block statement.
func body(toks []parser.Token) []parser.Token {
	if len(toks) >= 2 && toks[0].Kind == parser.TokenLBrace && matching(toks, 0) == len(toks)-1 {
		return toks[1 : len(toks)-1]
	}
	return toks
}

// text renders a token span as source text, separating adjacent words.
func text(toks []parser.Token) string {
	var b strings.Builder
	for i, tok := range toks {
		if i > 0 && isWord(toks[i-1].Kind) && isWord(tok.Kind) {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Literal)
	}
	return b.String()
}

func isWord(kind parser.TokenKind) bool {
	return kind == parser.TokenIdent || kind.IsLiteral() || kind.IsKeyword()
}

// stripParens removes one pair of parentheses enclosing the whole span.
func stripParens(toks []parser.Token) ([]parser.Token, bool) {
	if len(toks) >= 2 && toks[0].Kind == parser.TokenLParen && matching(toks, 0) == len(toks)-1 {
		return toks[1 : len(toks)-1], true
	}
	return toks, false
}

// splitBinary finds the operator an expression divides at: the rightmost
// binary operator outside parentheses on the weakest level present. An
// operator at the start or right after another operator is unary and is
// never chosen.
func splitBinary(toks []parser.Token) (int, Op, bool) {
	for _, level := range levels {
		depth := 0
		for i := len(toks) - 1; i > 0; i-- {
			k := toks[i].Kind
			switch k {
			case parser.TokenRParen, parser.TokenRBracket, parser.TokenRBrace:
				depth++
				continue
			case parser.TokenLParen, parser.TokenLBracket, parser.TokenLBrace:
				depth--
				continue
			}
			if depth != 0 || !inLevel(k, level) || !isOperand(toks[i-1].Kind) {
				continue
			}
			op, _ := binaryOp(k)
			return i, op, true
		}
	}
	return 0, 0, false
}

func inLevel(kind parser.TokenKind, level []parser.TokenKind) bool {
	for _, k := range level {
		if k == kind {
			return true
		}
	}
	return false
}

// isOperand reports whether a token can end an operand, which makes the
// operator after it binary.
func isOperand(kind parser.TokenKind) bool {
	switch kind {
	case parser.TokenRParen, parser.TokenRBracket, parser.TokenIncrement, parser.TokenDecrement:
		return true
	}
	return kind == parser.TokenIdent || kind.IsLiteral() || kind == parser.TokenThis ||
		kind == parser.TokenString || kind == parser.TokenOut || kind == parser.TokenMain
}

// callShape recognizes "name(args)" and "a.b.name(args)" spanning all of
// toks.
func callShape(toks []parser.Token) (string, [][]parser.Token, bool) {
	i := 0
	if kindAt(toks, i) != parser.TokenIdent {
		return "", nil, false
	}
	for kindAt(toks, i+1) == parser.TokenDot && kindAt(toks, i+2) == parser.TokenIdent {
		i += 2
	}
	open := i + 1
	if kindAt(toks, open) != parser.TokenLParen || matching(toks, open) != len(toks)-1 {
		return "", nil, false
	}
	return text(toks[:open]), split(toks[open+1:len(toks)-1], parser.TokenComma), true
}

// classify recognizes the statement starting at toks[i]. Unknown shapes
// come back as stmtOther covering one token.
func classify(toks []parser.Token, i int) statement {
	other := statement{kind: stmtOther, end: i + 1}
	tok := toks[i]

	switch tok.Kind {
	case parser.TokenFor:
		return classifyFor(toks, i)
	case parser.TokenWhile:
		if kindAt(toks, i+1) != parser.TokenLParen {
			return other
		}
		closing := matching(toks, i+1)
		end := statementEnd(toks, closing+1)
		return statement{kind: stmtWhile, end: end, cond: toks[i+2 : closing], body: body(toks[min(closing+1, end):end])}
	case parser.TokenDo:
		return classifyDo(toks, i)
	case parser.TokenIf:
		return classifyIf(toks, i)
	case parser.TokenSystem:
		return classifyPrint(toks, i)
	case parser.TokenIncrement, parser.TokenDecrement:
		if kindAt(toks, i+1) == parser.TokenIdent {
			end := statementEnd(toks, i)
			return statement{kind: stmtIncDec, end: end, op: tok, target: toks[i+1 : i+2]}
		}
		return other
	}

	if st, ok := classifyHeader(toks, i); ok {
		return st
	}
	if st, ok := classifyDecl(toks, i); ok {
		return st
	}
	if tok.Kind == parser.TokenIdent {
		if st, ok := classifyTarget(toks, i); ok {
			return st
		}
	}
	return other
}

func classifyFor(toks []parser.Token, i int) statement {
	if kindAt(toks, i+1) != parser.TokenLParen {
		return statement{kind: stmtOther, end: i + 1}
	}
	closing := matching(toks, i+1)
	header := split(toks[i+2:closing], parser.TokenSemicolon)
	for len(header) < 3 {
		header = append(header, nil)
	}
	end := statementEnd(toks, closing+1)
	return statement{
		kind:   stmtFor,
		end:    end,
		init:   header[0],
		cond:   header[1],
		update: header[2],
		body:   body(toks[min(closing+1, end):end]),
	}
}

func classifyDo(toks []parser.Token, i int) statement {
	bodyEnd := statementEnd(toks, i+1)
	if kindAt(toks, bodyEnd) != parser.TokenWhile || kindAt(toks, bodyEnd+1) != parser.TokenLParen {
		return statement{kind: stmtOther, end: i + 1}
	}
	closing := matching(toks, bodyEnd+1)
	end := closing + 1
	if kindAt(toks, end) == parser.TokenSemicolon {
		end++
	}
	return statement{
		kind: stmtDo,
		end:  min(end, len(toks)),
		body: body(toks[i+1 : bodyEnd]),
		cond: toks[bodyEnd+2 : closing],
	}
}

func classifyIf(toks []parser.Token, i int) statement {
	if kindAt(toks, i+1) != parser.TokenLParen {
		return statement{kind: stmtOther, end: i + 1}
	}
	closing := matching(toks, i+1)
	thenEnd := statementEnd(toks, closing+1)
	st := statement{
		kind: stmtIf,
		end:  thenEnd,
		cond: toks[i+2 : closing],
		body: body(toks[min(closing+1, thenEnd):thenEnd]),
	}
	if kindAt(toks, thenEnd) == parser.TokenElse {
		st.hasElse = true
		st.end = statementEnd(toks, thenEnd+1)
		st.elseBody = body(toks[thenEnd+1 : st.end])
	}
	return st
}

func classifyPrint(toks []parser.Token, i int) statement {
	if kindAt(toks, i+1) != parser.TokenDot || kindAt(toks, i+2) != parser.TokenOut ||
		kindAt(toks, i+3) != parser.TokenDot || kindAt(toks, i+5) != parser.TokenLParen {
		return statement{kind: stmtOther, end: i + 1}
	}
	if k := kindAt(toks, i+4); k != parser.TokenPrint && k != parser.TokenPrintln {
		return statement{kind: stmtOther, end: i + 1}
	}
	closing := matching(toks, i+5)
	end := closing + 1
	if kindAt(toks, end) == parser.TokenSemicolon {
		end++
	}
	return statement{
		kind:   stmtPrint,
		end:    min(end, len(toks)),
		callee: toks[i+4].Literal,
		args:   split(toks[i+6:closing], parser.TokenComma),
	}
}

// classifyHeader skips class and method headers up to their opening
// brace. Abstract methods end at their semicolon.
func classifyHeader(toks []parser.Token, i int) (statement, bool) {
	j := i
	for j < len(toks) && toks[j].Kind.IsModifier() {
		j++
	}
	isHeader := false
	switch kindAt(toks, j) {
	case parser.TokenClass:
		isHeader = true
	case parser.TokenVoid:
		isHeader = true
	default:
		if isTypeStart(kindAt(toks, j)) {
			name := j + 1
			for kindAt(toks, name) == parser.TokenLBracket && kindAt(toks, name+1) == parser.TokenRBracket {
				name += 2
			}
			k := kindAt(toks, name)
			isHeader = (k == parser.TokenIdent || k == parser.TokenMain) && kindAt(toks, name+1) == parser.TokenLParen
		}
	}
	if !isHeader {
		return statement{}, false
	}
	for k := j; k < len(toks); k++ {
		switch toks[k].Kind {
		case parser.TokenLBrace:
			return statement{kind: stmtHeader, end: k + 1}, true
		case parser.TokenSemicolon:
			return statement{kind: stmtHeader, end: k + 1}, true
		}
	}
	return statement{kind: stmtHeader, end: len(toks)}, true
}

func isTypeStart(kind parser.TokenKind) bool {
	return kind.IsPrimitiveType() || kind == parser.TokenIdent
}

// classifyDecl recognizes "[final] T[] a = e, b, c = e;".
func classifyDecl(toks []parser.Token, i int) (statement, bool) {
	j := i
	for j < len(toks) && toks[j].Kind.IsModifier() {
		j++
	}
	if !isTypeStart(kindAt(toks, j)) {
		return statement{}, false
	}
	j++
	for kindAt(toks, j) == parser.TokenLBracket && kindAt(toks, j+1) == parser.TokenRBracket {
		j += 2
	}
	if kindAt(toks, j) != parser.TokenIdent {
		return statement{}, false
	}
	semi := topLevel(toks, j, parser.TokenSemicolon)
	st := statement{kind: stmtDecl, end: min(semi+1, len(toks))}
	for _, part := range split(toks[j:semi], parser.TokenComma) {
		if len(part) == 0 || part[0].Kind != parser.TokenIdent {
			continue
		}
		d := declarator{name: part[0]}
		if eq := topLevel(part, 1, parser.TokenAssign); eq < len(part) {
			d.value = part[eq+1:]
		}
		st.decls = append(st.decls, d)
	}
	return st, true
}

// classifyTarget handles statements that start with an identifier:
// assignments to a variable or array element, increments and calls.
func classifyTarget(toks []parser.Token, i int) (statement, bool) {
	j := i + 1
	for kindAt(toks, j) == parser.TokenLBracket {
		j = matching(toks, j) + 1
	}
	target := toks[i:min(j, len(toks))]
	op := kindAt(toks, j)
	semi := topLevel(toks, j, parser.TokenSemicolon)
	end := min(semi+1, len(toks))

	switch {
	case op == parser.TokenAssign:
		return statement{kind: stmtAssign, end: end, target: target, op: toks[j], value: toks[j+1 : semi]}, true
	case op.IsCompoundAssignment():
		return statement{kind: stmtCompound, end: end, target: target, op: toks[j], value: toks[j+1 : semi]}, true
	case op == parser.TokenIncrement || op == parser.TokenDecrement:
		return statement{kind: stmtIncDec, end: end, target: target, op: toks[j]}, true
	}

	if name, args, ok := callShape(toks[i:semi]); ok {
		return statement{kind: stmtCall, end: end, callee: name, args: args}, true
	}
	return statement{}, false
}
