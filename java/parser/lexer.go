package parser

import (
	"bytes"
	"unicode/utf8"

	"github.com/dhamidi/jfront/java/symtab"
)

type Lexer struct {
	input   []byte
	file    string
	pos     int
	line    int
	column  int
	tracker *declTracker
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

// TrackDeclarations makes the lexer register declarations into table as it
// scans: a type token followed by an identifier declares that identifier,
// any other identifier is marked used when it resolves.
func (l *Lexer) TrackDeclarations(table *symtab.Table) *Lexer {
	l.tracker = &declTracker{table: table}
	return l
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// advanceRune consumes one whole UTF-8 encoded character.
func (l *Lexer) advanceRune() {
	_, size := utf8.DecodeRune(l.input[l.pos:])
	if size < 1 {
		size = 1
	}
	l.pos += size
	l.column++
}

// NextToken returns the next token, trivia included. Unrecognized input
// yields a TokenError covering exactly one character.
func (l *Lexer) NextToken() Token {
	tok := l.scan()
	if l.tracker != nil {
		l.tracker.observe(tok)
	}
	return tok
}

func (l *Lexer) scan() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' && l.blockCommentTerminated() {
		return l.scanBlockComment(startPos)
	}

	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
		return l.scanWhitespace(startPos)
	}

	if isJavaLetter(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	if ch == '\'' {
		return l.scanCharLiteral(startPos)
	}

	if ch == '"' {
		return l.scanStringLiteral(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
		} else {
			break
		}
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) blockCommentTerminated() bool {
	return bytes.Contains(l.input[l.pos+2:], []byte("*/"))
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isJavaLetterOrDigit(l.peek()) {
		l.advance()
	}
	end := l.Position()
	literal := string(l.input[start.Offset:end.Offset])
	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

// scanNumber recognizes decimals (digits '.' digits) before integers. A
// trailing dot without digits is not part of the number.
func (l *Lexer) scanNumber(start Position) Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
		return l.token(TokenDecimalLiteral, start)
	}
	return l.token(TokenIntLiteral, start)
}

// scanCharLiteral accepts a single character or a single escape between
// quotes. Anything else leaves the quote unrecognized.
func (l *Lexer) scanCharLiteral(start Position) Token {
	switch {
	case l.peekN(1) == '\\' && l.peekN(2) != 0 && l.peekN(3) == '\'':
		l.advanceN(4)
		return l.token(TokenCharLiteral, start)
	case l.peekN(1) != '\'' && l.peekN(1) != 0 && l.peekN(1) < utf8.RuneSelf && l.peekN(2) == '\'':
		l.advanceN(3)
		return l.token(TokenCharLiteral, start)
	}
	return l.errorToken(start)
}

// scanStringLiteral takes everything up to the next double quote, newlines
// included. Without a closing quote the opening quote is unrecognized.
func (l *Lexer) scanStringLiteral(start Position) Token {
	closing := bytes.IndexByte(l.input[l.pos+1:], '"')
	if closing < 0 {
		return l.errorToken(start)
	}
	l.advanceN(closing + 2)
	return l.token(TokenStringLiteral, start)
}

// operators is ordered so that every operator comes before its own
// prefixes; the first match is the longest one.
var operators = []struct {
	text string
	kind TokenKind
}{
	{">>>=", TokenUShrAssign},
	{">>>", TokenUShr},
	{"<<=", TokenShlAssign},
	{">>=", TokenShrAssign},
	{"<<", TokenShl},
	{">>", TokenShr},
	{"==", TokenEQ},
	{"!=", TokenNE},
	{"<=", TokenLE},
	{">=", TokenGE},
	{"&&", TokenAnd},
	{"||", TokenOr},
	{"++", TokenIncrement},
	{"--", TokenDecrement},
	{"+=", TokenPlusAssign},
	{"-=", TokenMinusAssign},
	{"*=", TokenStarAssign},
	{"/=", TokenSlashAssign},
	{"%=", TokenPercentAssign},
	{"&=", TokenAndAssign},
	{"|=", TokenOrAssign},
	{"^=", TokenXorAssign},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{";", TokenSemicolon},
	{",", TokenComma},
	{".", TokenDot},
	{":", TokenColon},
	{"?", TokenQuestion},
	{"@", TokenAt},
	{"=", TokenAssign},
	{"<", TokenLT},
	{">", TokenGT},
	{"!", TokenNot},
	{"~", TokenBitNot},
	{"&", TokenBitAnd},
	{"|", TokenBitOr},
	{"^", TokenBitXor},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"%", TokenPercent},
}

func (l *Lexer) scanOperator(start Position) Token {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if bytes.HasPrefix(rest, []byte(op.text)) {
			l.advanceN(len(op.text))
			return l.token(op.kind, start)
		}
	}
	return l.errorToken(start)
}

func (l *Lexer) errorToken(start Position) Token {
	l.advanceRune()
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isJavaLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isJavaLetterOrDigit(ch byte) bool {
	return isJavaLetter(ch) || isDigit(ch)
}
