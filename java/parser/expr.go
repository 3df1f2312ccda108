package parser

import (
	"unicode"

	"github.com/dhamidi/jfront/java/diag"
)

const assignmentPrecedence = 1

// binaryPrecedence returns the binding strength of an infix operator.
// Higher binds tighter.
func binaryPrecedence(kind TokenKind) (int, bool) {
	if kind.IsAssignment() {
		return assignmentPrecedence, true
	}
	switch kind {
	case TokenOr:
		return 3, true
	case TokenAnd:
		return 4, true
	case TokenBitOr:
		return 5, true
	case TokenBitXor:
		return 6, true
	case TokenBitAnd:
		return 7, true
	case TokenEQ, TokenNE:
		return 8, true
	case TokenLT, TokenGT, TokenLE, TokenGE, TokenInstanceof:
		return 9, true
	case TokenShl, TokenShr, TokenUShr:
		return 10, true
	case TokenPlus, TokenMinus:
		return 11, true
	case TokenStar, TokenSlash, TokenPercent:
		return 12, true
	}
	return 0, false
}

// parseExpression reduces an infix expression with an operand stack and an
// operator stack. Operands are unary expressions, so prefix and postfix
// operators never reach the stacks.
func (p *Parser) parseExpression() *Node {
	first := p.parseUnary()
	if first.IsError() {
		return first
	}
	operands := []*Node{first}
	var operators []Token

	reduce := func() {
		op := operators[len(operators)-1]
		operators = operators[:len(operators)-1]
		right := operands[len(operands)-1]
		left := operands[len(operands)-2]
		operands = operands[:len(operands)-2]
		operands = append(operands, p.combine(op, left, right))
	}

	for {
		op := p.peek()
		prec, ok := binaryPrecedence(op.Kind)
		if !ok {
			break
		}
		for len(operators) > 0 {
			top, _ := binaryPrecedence(operators[len(operators)-1].Kind)
			if top > prec || (top == prec && prec != assignmentPrecedence) {
				reduce()
				continue
			}
			break
		}
		p.advance()
		operators = append(operators, op)

		operand := p.parseUnary()
		if operand.IsError() {
			return operand
		}
		operands = append(operands, operand)
	}

	for len(operators) > 0 {
		reduce()
	}
	return operands[0]
}

func (p *Parser) combine(op Token, left, right *Node) *Node {
	kind := KindBinaryExpr
	if op.Kind.IsAssignment() {
		kind = KindAssignExpr
		switch left.Kind {
		case KindIdentifier, KindFieldAccess, KindArrayAccess:
		default:
			p.report(diag.Syntactic, op, "syntax error at line %d: invalid assignment target", op.Line())
		}
		if op.Kind == TokenAssign && left.Kind == KindIdentifier {
			p.recordValue(left.TokenLiteral(), right)
		}
	}
	return &Node{
		Kind:     kind,
		Span:     Span{Start: left.Span.Start, End: right.Span.End},
		Children: []*Node{left, right},
		Token:    &op,
	}
}

func (p *Parser) parseUnary() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenNot, TokenBitNot, TokenMinus, TokenPlus, TokenIncrement, TokenDecrement:
		p.advance()
		operand := p.parseUnary()
		if operand.IsError() {
			return operand
		}
		return &Node{
			Kind:     KindUnaryExpr,
			Span:     Span{Start: tok.Span.Start, End: operand.Span.End},
			Children: []*Node{operand},
			Token:    &tok,
		}
	case TokenLParen:
		if p.isCast() {
			return p.parseCast()
		}
	}
	primary := p.parsePrimary()
	if primary.IsError() {
		return primary
	}
	return p.parsePostfix(primary)
}

// isCast recognizes "(primitive)" and "(primitive[])" ahead of an operand.
func (p *Parser) isCast() bool {
	if !p.peekN(1).Kind.IsPrimitiveType() {
		return false
	}
	if p.peekN(2).Kind == TokenRParen {
		return true
	}
	return p.peekN(2).Kind == TokenLBracket && p.peekN(3).Kind == TokenRBracket && p.peekN(4).Kind == TokenRParen
}

func (p *Parser) parseCast() *Node {
	node := p.startNode(KindCastExpr)
	p.advance()
	node.AddChild(p.parseType())
	p.advance()
	operand := p.parseUnary()
	if operand.IsError() {
		return operand
	}
	node.AddChild(operand)
	return p.finishNode(node)
}

func (p *Parser) parsePrimary() *Node {
	tok := p.peek()
	switch {
	case tok.Kind.IsLiteral():
		return p.tokenNode(KindLiteral)

	case tok.Kind == TokenIdent:
		if p.peekN(1).Kind == TokenLParen {
			p.call(tok)
			callee := p.tokenNode(KindIdentifier)
			return p.parseCall(callee)
		}
		if p.peekN(1).Kind == TokenDot && isTypeName(tok.Literal) {
			if _, declared := p.table.Resolve(tok.Literal); !declared {
				return p.tokenNode(KindIdentifier)
			}
		}
		p.use(tok)
		return p.tokenNode(KindIdentifier)

	case tok.Kind == TokenThis, tok.Kind == TokenSuper,
		tok.Kind == TokenSystem, tok.Kind == TokenString:
		return p.tokenNode(KindIdentifier)

	case tok.Kind == TokenLParen:
		node := p.startNode(KindParenExpr)
		p.advance()
		inner := p.parseExpression()
		if inner.IsError() {
			return inner
		}
		node.AddChild(inner)
		if p.expect(TokenRParen) == nil {
			return p.errorNode("expected ')'")
		}
		return p.finishNode(node)

	case tok.Kind == TokenNew:
		return p.parseNew()
	}
	return p.errorNode("expected expression")
}

// isTypeName reports whether an identifier is spelled like a class, the
// only way to tell Math.max from a qualified variable without imports.
func isTypeName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

func (p *Parser) parseCall(callee *Node) *Node {
	node := &Node{Kind: KindCallExpr, Span: Span{Start: callee.Span.Start}}
	node.AddChild(callee)
	p.advance()
	if !p.check(TokenRParen) {
		if err := p.parseExpressionList(node); err != nil {
			return err
		}
	}
	if p.expect(TokenRParen) == nil {
		return p.errorNode("expected ')' after arguments")
	}
	return p.finishNode(node)
}

// parsePostfix applies member access, calls, indexing and postfix
// increments, which bind tighter than every prefix operator.
func (p *Parser) parsePostfix(operand *Node) *Node {
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenDot:
			p.advance()
			member := p.peek()
			if member.Kind != TokenIdent && !member.Kind.IsKeyword() {
				return p.errorNode("expected member name after '.'")
			}
			p.advance()
			operand = &Node{
				Kind:     KindFieldAccess,
				Span:     Span{Start: operand.Span.Start, End: member.Span.End},
				Children: []*Node{operand},
				Token:    &member,
			}
			if p.check(TokenLParen) {
				operand = p.parseCall(operand)
				if operand.IsError() {
					return operand
				}
			}
		case TokenLBracket:
			p.advance()
			index := p.parseExpression()
			if index.IsError() {
				return index
			}
			if p.expect(TokenRBracket) == nil {
				return p.errorNode("expected ']'")
			}
			operand = p.finishNode(&Node{
				Kind:     KindArrayAccess,
				Span:     Span{Start: operand.Span.Start},
				Children: []*Node{operand, index},
			})
		case TokenIncrement, TokenDecrement:
			p.advance()
			operand = &Node{
				Kind:     KindPostfixExpr,
				Span:     Span{Start: operand.Span.Start, End: tok.Span.End},
				Children: []*Node{operand},
				Token:    &tok,
			}
		default:
			return operand
		}
	}
}

func (p *Parser) parseNew() *Node {
	start := p.peek()
	p.advance()
	typeTok := p.peek()
	if typeTok.Kind != TokenIdent && !typeTok.Kind.IsPrimitiveType() {
		return p.errorNode("expected type after 'new'")
	}
	typeNode := p.tokenNode(KindType)

	switch p.peek().Kind {
	case TokenLParen:
		node := &Node{Kind: KindNewExpr, Span: Span{Start: start.Span.Start}}
		node.AddChild(typeNode)
		call := p.parseCall(&Node{Kind: KindIdentifier, Span: typeNode.Span, Token: typeNode.Token})
		if call.IsError() {
			return call
		}
		node.Children = append(node.Children, call.Children[1:]...)
		return p.finishNode(node)

	case TokenLBracket:
		node := &Node{Kind: KindNewArrayExpr, Span: Span{Start: start.Span.Start}}
		node.AddChild(typeNode)
		for p.check(TokenLBracket) {
			p.advance()
			if p.expect(TokenRBracket) != nil {
				if p.check(TokenLBrace) {
					init := p.parseArrayInit()
					if init.IsError() {
						return init
					}
					node.AddChild(init)
				}
				return p.finishNode(node)
			}
			size := p.parseExpression()
			if size.IsError() {
				return size
			}
			node.AddChild(size)
			if p.expect(TokenRBracket) == nil {
				return p.errorNode("expected ']'")
			}
		}
		return p.finishNode(node)
	}
	return p.errorNode("expected '(' or '[' after type")
}
