package parser

import (
	"fmt"

	"github.com/dhamidi/jfront/java/diag"
	"github.com/dhamidi/jfront/java/symtab"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// WithSymbols makes the parser declare into table instead of a fresh one.
func WithSymbols(table *symtab.Table) Option {
	return func(p *Parser) {
		p.table = table
	}
}

// WithoutWarnings suppresses the unused-variable warnings appended after a
// parse.
func WithoutWarnings() Option {
	return func(p *Parser) {
		p.skipWarnings = true
	}
}

// Parser validates a token stream against the grammar of the language
// subset. Declarations and identifier uses fire semantic actions against a
// symbol table; syntax errors are reported and recovered from in panic
// mode so a single run reports every error it can find.
type Parser struct {
	file         string
	tokens       []Token
	pos          int
	table        *symtab.Table
	skipWarnings bool

	diags        diag.List
	blocks       []*block
	methods      map[string]bool
	inMainParams bool
	eofReported  bool
	halted       bool
}

// block tracks the names declared in one open brace pair. The flat symbol
// table cannot tell sibling blocks apart, so redeclaration checks use these
// instead.
type block struct {
	names    map[string]int
	boundary bool
}

// New prepares a parser over tokens as returned by Tokenize.
func New(tokens []Token, opts ...Option) *Parser {
	p := &Parser{tokens: tokens}
	for _, opt := range opts {
		opt(p)
	}
	if p.table == nil {
		p.table = symtab.New()
	}
	return p
}

// ParseSource tokenizes src without declaration tracking and parses it.
// Lexical diagnostics are returned ahead of the parser's own.
func ParseSource(src []byte, opts ...Option) (*Node, *Parser) {
	p := New(nil, opts...)
	tokens, lexical := Tokenize(src, p.file, nil)
	p.tokens = tokens
	tree := p.Parse()
	p.diags = append(lexical, p.diags...)
	return tree, p
}

func (p *Parser) Diagnostics() diag.List {
	return p.diags
}

func (p *Parser) Symbols() *symtab.Table {
	return p.table
}

// Parse runs the grammar over the whole token stream and returns the
// syntax tree. Diagnostics accumulate on the parser.
func (p *Parser) Parse() *Node {
	p.pos = 0
	p.diags = nil
	p.blocks = nil
	p.eofReported = false

	root := p.parseProgram()

	if !p.skipWarnings {
		for _, sym := range p.table.Unused() {
			p.diags = append(p.diags, diag.Diagnostic{
				Kind:    diag.Warning,
				Message: fmt.Sprintf("variable '%s' declared on line %d is never used", sym.Name, sym.Line),
				Line:    sym.Line,
				Col:     1,
			})
		}
	}
	return root
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.eofToken()
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.eofToken()
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) eofToken() Token {
	if len(p.tokens) == 0 {
		return Token{Kind: TokenEOF, Span: Span{Start: Position{File: p.file, Line: 1, Column: 1}}}
	}
	last := p.tokens[len(p.tokens)-1].Span.End
	return Token{Kind: TokenEOF, Span: Span{Start: last, End: last}}
}

// advance consumes one token. Braces adjust the symbol table's block depth
// whenever they are consumed, including during recovery.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
		switch tok.Kind {
		case TokenLBrace:
			p.table.OpenBlock()
		case TokenRBrace:
			p.table.CloseBlock()
		}
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) atEOF() bool {
	return p.check(TokenEOF)
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else if len(p.tokens) > 0 {
		n.Span.End = p.tokens[len(p.tokens)-1].Span.End
	}
	return n
}

func (p *Parser) tokenNode(kind NodeKind) *Node {
	tok := p.advance()
	return &Node{Kind: kind, Span: tok.Span, Token: &tok}
}

func (p *Parser) report(kind diag.Kind, tok Token, format string, args ...any) {
	length := tok.Span.Len()
	if length == 0 {
		length = 1
	}
	p.diags = append(p.diags, diag.Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Span.Start.Line,
		Col:     tok.Span.Start.Column,
		Start:   tok.Span.Start.Offset,
		Length:  length,
	})
}

func (p *Parser) parseProgram() *Node {
	node := p.startNode(KindProgram)

	if len(p.tokens) == 0 {
		p.report(diag.Syntactic, p.peek(), "no code to analyze")
		return node
	}
	if !p.containsClass() {
		p.report(diag.Syntactic, p.tokens[0], "the code does not look like a Java program: it must contain a class")
		return node
	}

	for !p.done() {
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		if p.isClassStart() {
			node.AddChild(p.parseClassDecl())
			continue
		}
		before := p.pos
		node.AddChild(p.errorNode("expected class declaration"))
		p.ensureProgress(before)
	}
	return p.finishNode(node)
}

func (p *Parser) containsClass() bool {
	for _, tok := range p.tokens {
		if tok.Kind == TokenClass {
			return true
		}
	}
	return false
}

func (p *Parser) isClassStart() bool {
	i := 0
	for p.peekN(i).Kind.IsModifier() {
		i++
	}
	return p.peekN(i).Kind == TokenClass
}

func (p *Parser) parseModifiers() *Node {
	if !p.peek().Kind.IsModifier() {
		return nil
	}
	node := p.startNode(KindModifiers)
	for p.peek().Kind.IsModifier() {
		node.AddChild(p.tokenNode(KindIdentifier))
	}
	return p.finishNode(node)
}

func (p *Parser) parseClassDecl() *Node {
	node := p.startNode(KindClassDecl)
	node.AddChild(p.parseModifiers())

	p.expect(TokenClass)
	name := p.peek()
	if name.Kind != TokenIdent {
		return p.wrapError(node, p.errorNode("expected class name"))
	}
	p.advance()
	node.Token = &name
	p.declare(name, symtab.KindClass)
	p.collectMethods()

	if p.expect(TokenLBrace) == nil {
		return p.wrapError(node, p.errorNode("expected '{' after class name"))
	}
	p.pushBlock(false)
	defer p.popBlock()

	for !p.check(TokenRBrace) && !p.done() {
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		before := p.pos
		node.AddChild(p.parseClassMember())
		p.ensureProgress(before)
	}
	if p.expect(TokenRBrace) == nil {
		p.unexpectedEOF()
	}
	return p.finishNode(node)
}

func (p *Parser) parseClassMember() *Node {
	start := p.peek()
	mods := p.parseModifiers()

	var typeNode *Node
	if p.check(TokenVoid) {
		typeNode = p.tokenNode(KindType)
	} else if p.isTypeStart() {
		typeNode = p.parseType()
	} else {
		return p.errorNode("expected field or method declaration")
	}

	name := p.peek()
	if name.Kind != TokenIdent && name.Kind != TokenMain {
		return p.errorNode("expected member name")
	}

	if p.peekN(1).Kind == TokenLParen {
		return p.parseMethodDecl(start, mods, typeNode)
	}
	if name.Kind == TokenMain {
		return p.errorNode("expected '(' after main")
	}

	node := &Node{Kind: KindFieldDecl, Span: Span{Start: start.Span.Start}}
	node.AddChild(mods)
	node.AddChild(typeNode)
	if err := p.parseDeclarators(node, typeNode); err != nil {
		return p.wrapError(node, err)
	}
	if p.expect(TokenSemicolon) == nil {
		return p.wrapError(node, p.errorNode("expected ';' after field declaration"))
	}
	return p.finishNode(node)
}

func (p *Parser) parseMethodDecl(start Token, mods, typeNode *Node) *Node {
	node := &Node{Kind: KindMethodDecl, Span: Span{Start: start.Span.Start}}
	node.AddChild(mods)
	node.AddChild(typeNode)

	name := p.advance()
	node.Token = &name
	isMain := name.Kind == TokenMain
	if isMain {
		p.table.EnterScope(symtab.ScopeMain)
	}
	p.declare(name, symtab.KindMethod)

	p.pushBlock(true)
	defer p.popBlock()

	p.inMainParams = isMain
	params := p.parseParameters()
	p.inMainParams = false
	node.AddChild(params)
	if !p.check(TokenLBrace) {
		if params.IsError() {
			return p.finishNode(node)
		}
		return p.wrapError(node, p.errorNode("expected method body"))
	}
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	for !p.check(TokenRParen) {
		if len(node.Children) > 0 && p.expect(TokenComma) == nil {
			return p.errorNode("expected ',' or ')' in parameter list")
		}
		param := p.startNode(KindParameter)
		if !p.isTypeStart() {
			return p.errorNode("expected parameter type")
		}
		typeNode := p.parseType()
		param.AddChild(typeNode)
		name := p.peek()
		if name.Kind != TokenIdent {
			return p.errorNode("expected parameter name")
		}
		p.advance()
		param.Token = &name
		if p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
			p.advance()
			p.advance()
			typeNode = arrayOf(typeNode)
		}
		p.declareTyped(name, typeName(typeNode))
		node.AddChild(p.finishNode(param))
	}
	p.advance()
	return p.finishNode(node)
}

// isTypeStart reports whether the upcoming tokens begin a type used in a
// declaration: a primitive, String, or a user type followed by a name.
func (p *Parser) isTypeStart() bool {
	tok := p.peek()
	if tok.Kind.IsPrimitiveType() {
		return true
	}
	if tok.Kind != TokenIdent {
		return false
	}
	next := p.peekN(1)
	if next.Kind == TokenIdent || next.Kind == TokenMain {
		return true
	}
	return next.Kind == TokenLBracket && p.peekN(2).Kind == TokenRBracket && p.peekN(3).Kind == TokenIdent
}

func (p *Parser) parseType() *Node {
	node := p.tokenNode(KindType)
	if p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
		node = arrayOf(node)
		node.Span.End = p.tokens[p.pos-1].Span.End
	}
	return node
}

func arrayOf(elem *Node) *Node {
	return &Node{Kind: KindArrayType, Span: elem.Span, Children: []*Node{elem}}
}

func typeName(n *Node) string {
	if n.Kind == KindArrayType && len(n.Children) > 0 {
		return typeName(n.Children[0]) + "[]"
	}
	return n.TokenLiteral()
}

// parseDeclarators parses "name [= init] {, name [= init]}" and declares
// every name with the given type.
func (p *Parser) parseDeclarators(parent, typeNode *Node) *Node {
	for {
		decl := p.startNode(KindVarDeclarator)
		name := p.peek()
		if name.Kind != TokenIdent {
			return p.errorNode("expected variable name")
		}
		p.advance()
		decl.Token = &name
		t := typeNode
		if p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
			p.advance()
			p.advance()
			t = arrayOf(typeNode)
		} else if p.check(TokenLBracket) {
			// int a[5];
			p.advance()
			size := p.parseExpression()
			if size.IsError() {
				return size
			}
			if p.expect(TokenRBracket) == nil {
				return p.errorNode("expected ']'")
			}
			t = arrayOf(typeNode)
			decl.AddChild(size)
		}
		p.declareTyped(name, typeName(t))

		if p.expect(TokenAssign) != nil {
			var init *Node
			if p.check(TokenLBrace) {
				init = p.parseArrayInit()
			} else {
				init = p.parseExpression()
			}
			if init.IsError() {
				return init
			}
			decl.AddChild(init)
			p.recordValue(name.Literal, init)
		}
		parent.AddChild(p.finishNode(decl))

		if p.expect(TokenComma) == nil {
			return nil
		}
	}
}

func (p *Parser) parseArrayInit() *Node {
	node := p.startNode(KindArrayInit)
	p.advance()
	for !p.check(TokenRBrace) {
		if len(node.Children) > 0 && p.expect(TokenComma) == nil {
			return p.errorNode("expected ',' or '}' in array initializer")
		}
		elem := p.parseExpression()
		if elem.IsError() {
			return elem
		}
		node.AddChild(elem)
	}
	p.advance()
	return p.finishNode(node)
}

func (p *Parser) wrapError(parent, err *Node) *Node {
	parent.AddChild(err)
	return p.finishNode(parent)
}

func (p *Parser) pushBlock(boundary bool) {
	p.blocks = append(p.blocks, &block{names: make(map[string]int), boundary: boundary})
}

func (p *Parser) popBlock() {
	if len(p.blocks) > 0 {
		p.blocks = p.blocks[:len(p.blocks)-1]
	}
}

// visibleDeclaration finds name among the blocks a new local would clash
// with: every open block up to the enclosing method boundary.
func (p *Parser) visibleDeclaration(name string) (int, bool) {
	for i := len(p.blocks) - 1; i >= 0; i-- {
		if line, ok := p.blocks[i].names[name]; ok {
			return line, true
		}
		if p.blocks[i].boundary {
			break
		}
	}
	return 0, false
}

func (p *Parser) declare(name Token, kind string) {
	p.declareTyped(name, kind)
}

// declareTyped is the semantic action shared by every declaring
// production.
func (p *Parser) declareTyped(name Token, typeName string) {
	if line, ok := p.visibleDeclaration(name.Literal); ok {
		p.report(diag.Semantic, name, "'%s' is already declared on line %d", name.Literal, line)
		return
	}
	if len(p.blocks) > 0 {
		p.blocks[len(p.blocks)-1].names[name.Literal] = name.Line()
	}
	// A collision here means the earlier declaration lives in a block that
	// has already closed and only the flat bucket remembers it.
	p.table.Declare(name.Literal, typeName, name.Line(), nil)
}

// use is the semantic action for identifier references.
func (p *Parser) use(name Token) {
	if !p.table.MarkUsed(name.Literal) {
		p.report(diag.Semantic, name, "%s not declared", name.Literal)
	}
}

// call is the semantic action for unqualified method calls. Methods may be
// called before their declaration, so the pre-collected names count too.
func (p *Parser) call(name Token) {
	if p.table.MarkUsed(name.Literal) || p.methods[name.Literal] {
		return
	}
	p.report(diag.Semantic, name, "%s not declared", name.Literal)
}

// recordValue stores a literal initializer as the symbol's value.
func (p *Parser) recordValue(name string, init *Node) {
	if init.Kind == KindLiteral && init.Token != nil {
		p.table.SetValue(name, init.Token.Value())
	}
}

// collectMethods records every "type name (" pattern in the class body
// ahead of parsing it.
func (p *Parser) collectMethods() {
	p.methods = make(map[string]bool)
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		switch tok.Kind {
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
			if depth <= 0 {
				return
			}
		case TokenIdent, TokenMain:
			if depth != 1 || i == 0 || i+1 >= len(p.tokens) || p.tokens[i+1].Kind != TokenLParen {
				continue
			}
			prev := p.tokens[i-1].Kind
			if prev == TokenVoid || prev == TokenIdent || prev == TokenRBracket || prev.IsPrimitiveType() {
				p.methods[tok.Literal] = true
			}
		}
	}
}
