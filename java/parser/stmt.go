package parser

import "github.com/dhamidi/jfront/java/diag"

func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	if p.expect(TokenLBrace) == nil {
		return p.errorNode("expected '{'")
	}
	p.pushBlock(false)
	defer p.popBlock()

	p.parseStatementsUntil(node, TokenRBrace)
	if p.expect(TokenRBrace) == nil {
		p.unexpectedEOF()
	}
	return p.finishNode(node)
}

func (p *Parser) parseStatementsUntil(parent *Node, stop ...TokenKind) {
	for !p.match(stop...) && !p.done() {
		before := p.pos
		parent.AddChild(p.parseStatement())
		p.ensureProgress(before)
	}
}

func (p *Parser) parseStatement() *Node {
	switch p.peek().Kind {
	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		return p.tokenNode(KindEmptyStmt)
	case TokenIf:
		return p.parseIf()
	case TokenFor:
		return p.parseFor()
	case TokenWhile:
		return p.parseWhile()
	case TokenDo:
		return p.parseDo()
	case TokenSwitch:
		return p.parseSwitch()
	case TokenReturn:
		return p.parseReturn()
	case TokenBreak:
		return p.parseJump(KindBreakStmt)
	case TokenContinue:
		return p.parseJump(KindContinueStmt)
	case TokenSystem:
		if p.isPrintStatement() {
			return p.parsePrint()
		}
	case TokenFinal:
		return p.parseLocalVarDecl()
	}
	if p.isTypeStart() {
		return p.parseLocalVarDecl()
	}
	return p.parseExprStmt()
}

func (p *Parser) parseLocalVarDecl() *Node {
	node := p.startNode(KindLocalVarDecl)
	node.AddChild(p.parseModifiers())
	if !p.isTypeStart() {
		return p.wrapError(node, p.errorNode("expected variable type"))
	}
	if tok := p.peek(); tok.Kind == TokenIdent {
		p.report(diag.Syntactic, tok, "invalid variable type '%s'", tok.Literal)
	}
	typeNode := p.parseType()
	node.AddChild(typeNode)
	if err := p.parseDeclarators(node, typeNode); err != nil {
		return p.wrapError(node, err)
	}
	if p.expect(TokenSemicolon) == nil {
		return p.wrapError(node, p.errorNode("expected ';' after variable declaration"))
	}
	return p.finishNode(node)
}

func (p *Parser) parseExprStmt() *Node {
	node := p.startNode(KindExprStmt)
	expr := p.parseExpression()
	if expr.IsError() {
		return p.wrapError(node, expr)
	}
	node.AddChild(expr)
	if p.expect(TokenSemicolon) == nil {
		return p.wrapError(node, p.errorNode("expected ';' after expression"))
	}
	return p.finishNode(node)
}

// parseCondition parses "( expr )".
func (p *Parser) parseCondition() *Node {
	if p.expect(TokenLParen) == nil {
		return p.errorNode("expected '('")
	}
	cond := p.parseExpression()
	if cond.IsError() {
		return cond
	}
	if p.expect(TokenRParen) == nil {
		return p.errorNode("expected ')'")
	}
	return cond
}

// parseIf binds a dangling else to the nearest if.
func (p *Parser) parseIf() *Node {
	node := p.startNode(KindIfStmt)
	p.advance()
	cond := p.parseCondition()
	node.AddChild(cond)
	if cond.IsError() {
		return p.finishNode(node)
	}
	node.AddChild(p.parseStatement())
	if p.expect(TokenElse) != nil {
		node.AddChild(p.parseStatement())
	}
	return p.finishNode(node)
}

func (p *Parser) parseFor() *Node {
	node := p.startNode(KindForStmt)
	p.advance()
	p.pushBlock(false)
	defer p.popBlock()

	if p.expect(TokenLParen) == nil {
		return p.wrapError(node, p.errorNode("expected '(' after for"))
	}

	init := p.startNode(KindForInit)
	if !p.check(TokenSemicolon) {
		if p.isTypeStart() {
			typeNode := p.parseType()
			init.AddChild(typeNode)
			if err := p.parseDeclarators(init, typeNode); err != nil {
				return p.wrapError(node, err)
			}
		} else if err := p.parseExpressionList(init); err != nil {
			return p.wrapError(node, err)
		}
	}
	node.AddChild(p.finishNode(init))
	if p.expect(TokenSemicolon) == nil {
		return p.wrapError(node, p.errorNode("expected ';' in for header"))
	}

	if !p.check(TokenSemicolon) {
		cond := p.parseExpression()
		if cond.IsError() {
			return p.wrapError(node, cond)
		}
		node.AddChild(cond)
	}
	if p.expect(TokenSemicolon) == nil {
		return p.wrapError(node, p.errorNode("expected ';' in for header"))
	}

	update := p.startNode(KindForUpdate)
	if !p.check(TokenRParen) {
		if err := p.parseExpressionList(update); err != nil {
			return p.wrapError(node, err)
		}
	}
	node.AddChild(p.finishNode(update))
	if p.expect(TokenRParen) == nil {
		return p.wrapError(node, p.errorNode("expected ')' after for header"))
	}

	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseExpressionList(parent *Node) *Node {
	for {
		expr := p.parseExpression()
		if expr.IsError() {
			return expr
		}
		parent.AddChild(expr)
		if p.expect(TokenComma) == nil {
			return nil
		}
	}
}

func (p *Parser) parseWhile() *Node {
	node := p.startNode(KindWhileStmt)
	p.advance()
	cond := p.parseCondition()
	node.AddChild(cond)
	if cond.IsError() {
		return p.finishNode(node)
	}
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseDo() *Node {
	node := p.startNode(KindDoStmt)
	p.advance()
	node.AddChild(p.parseStatement())
	if p.expect(TokenWhile) == nil {
		return p.wrapError(node, p.errorNode("expected 'while' after do body"))
	}
	cond := p.parseCondition()
	node.AddChild(cond)
	if cond.IsError() {
		return p.finishNode(node)
	}
	if p.expect(TokenSemicolon) == nil {
		return p.wrapError(node, p.errorNode("expected ';' after do-while"))
	}
	return p.finishNode(node)
}

func (p *Parser) parseSwitch() *Node {
	node := p.startNode(KindSwitchStmt)
	p.advance()
	sel := p.parseCondition()
	node.AddChild(sel)
	if sel.IsError() {
		return p.finishNode(node)
	}
	if p.expect(TokenLBrace) == nil {
		return p.wrapError(node, p.errorNode("expected '{' after switch"))
	}
	p.pushBlock(false)
	defer p.popBlock()

	for !p.check(TokenRBrace) && !p.done() {
		before := p.pos
		node.AddChild(p.parseSwitchCase())
		p.ensureProgress(before)
	}
	if p.expect(TokenRBrace) == nil {
		p.unexpectedEOF()
	}
	return p.finishNode(node)
}

func (p *Parser) parseSwitchCase() *Node {
	node := p.startNode(KindSwitchCase)
	for p.match(TokenCase, TokenDefault) {
		label := p.startNode(KindSwitchLabel)
		tok := p.advance()
		label.Token = &tok
		if tok.Kind == TokenCase {
			value := p.parseExpression()
			if value.IsError() {
				return p.wrapError(node, value)
			}
			label.AddChild(value)
		}
		if p.expect(TokenColon) == nil {
			return p.wrapError(node, p.errorNode("expected ':' after case label"))
		}
		node.AddChild(p.finishNode(label))
	}
	if len(node.Children) == 0 {
		return p.errorNode("expected 'case' or 'default'")
	}
	p.parseStatementsUntil(node, TokenCase, TokenDefault, TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseReturn() *Node {
	node := p.startNode(KindReturnStmt)
	p.advance()
	if !p.check(TokenSemicolon) {
		value := p.parseExpression()
		if value.IsError() {
			return p.wrapError(node, value)
		}
		node.AddChild(value)
	}
	if p.expect(TokenSemicolon) == nil {
		return p.wrapError(node, p.errorNode("expected ';' after return"))
	}
	return p.finishNode(node)
}

func (p *Parser) parseJump(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	if p.expect(TokenSemicolon) == nil {
		return p.wrapError(node, p.errorNode("expected ';'"))
	}
	return p.finishNode(node)
}

func (p *Parser) isPrintStatement() bool {
	return p.peekN(1).Kind == TokenDot &&
		p.peekN(2).Kind == TokenOut &&
		p.peekN(3).Kind == TokenDot &&
		(p.peekN(4).Kind == TokenPrint || p.peekN(4).Kind == TokenPrintln)
}

// parsePrint parses System.out.print(...) and System.out.println(...).
// The node's token is the print or println keyword.
func (p *Parser) parsePrint() *Node {
	node := p.startNode(KindPrintStmt)
	for i := 0; i < 4; i++ {
		p.advance()
	}
	method := p.advance()
	node.Token = &method

	if p.expect(TokenLParen) == nil {
		return p.wrapError(node, p.errorNode("expected '(' after "+method.Literal))
	}
	if !p.check(TokenRParen) {
		if err := p.parseExpressionList(node); err != nil {
			return p.wrapError(node, err)
		}
	}
	if p.expect(TokenRParen) == nil {
		return p.wrapError(node, p.errorNode("expected ')'"))
	}
	if p.expect(TokenSemicolon) == nil {
		return p.wrapError(node, p.errorNode("expected ';' after print statement"))
	}
	return p.finishNode(node)
}
