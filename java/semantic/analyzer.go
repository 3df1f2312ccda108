// Package semantic is a second, independent pass over the token stream.
// It keeps its own brace-driven scope stack, infers approximate expression
// types and checks declarations, uses and assignment compatibility. It
// never builds a tree; every rule is a token pattern.
package semantic

import (
	"fmt"

	"github.com/dhamidi/jfront/java/diag"
	"github.com/dhamidi/jfront/java/parser"
)

type declaration struct {
	typeName string
	line     int
}

type scope map[string]declaration

type param struct {
	name     parser.Token
	typeName string
}

// forFrame tracks the scope a for header opened until its body ends.
type forFrame struct {
	scopes     int
	parens     int
	headerDone bool
	braced     bool
	bodyKnown  bool
}

type Analyzer struct {
	tokens  []parser.Token
	scopes  []scope
	classes map[string]bool
	frames  []*forFrame

	pendingParams []param
	awaitingBody  bool

	diags diag.List
}

// Analyze runs the semantic pass over tokens as produced by
// parser.Tokenize.
func Analyze(tokens []parser.Token) diag.List {
	a := &Analyzer{
		tokens:  tokens,
		scopes:  []scope{{}},
		classes: make(map[string]bool),
	}
	a.run()
	return a.diags
}

// AnalyzeSource tokenizes src and analyzes it. Lexical errors are not
// reported here.
func AnalyzeSource(src []byte) diag.List {
	tokens, _ := parser.Tokenize(src, "", nil)
	return Analyze(tokens)
}

func (a *Analyzer) peek(i, n int) parser.Token {
	j := i + n
	if j < 0 || j >= len(a.tokens) {
		return parser.Token{Kind: parser.TokenEOF}
	}
	return a.tokens[j]
}

func (a *Analyzer) report(tok parser.Token, format string, args ...any) {
	length := tok.Span.Len()
	if length == 0 {
		length = 1
	}
	a.diags = append(a.diags, diag.Diagnostic{
		Kind:    diag.Semantic,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Span.Start.Line,
		Col:     tok.Span.Start.Column,
		Start:   tok.Span.Start.Offset,
		Length:  length,
	})
}

func (a *Analyzer) pushScope() {
	a.scopes = append(a.scopes, scope{})
}

func (a *Analyzer) popScope() {
	if len(a.scopes) > 1 {
		a.scopes = a.scopes[:len(a.scopes)-1]
	}
}

func (a *Analyzer) declare(name parser.Token, typeName string) {
	current := a.scopes[len(a.scopes)-1]
	if prev, ok := current[name.Literal]; ok {
		a.report(name, "'%s' is already declared on line %d", name.Literal, prev.line)
		return
	}
	current[name.Literal] = declaration{typeName: typeName, line: name.Line()}
}

func (a *Analyzer) resolve(name string) (declaration, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if d, ok := a.scopes[i][name]; ok {
			return d, true
		}
	}
	return declaration{}, false
}

func (a *Analyzer) isMemberAccess(i int) bool {
	return a.peek(i, -1).Kind == parser.TokenDot || a.peek(i, 1).Kind == parser.TokenDot
}

func (a *Analyzer) isCall(i int) bool {
	return a.peek(i, 1).Kind == parser.TokenLParen
}

func (a *Analyzer) run() {
	i := 0
	for i < len(a.tokens) {
		a.trackFor(i)
		i = a.step(i)
	}
}

// step handles the token at i and returns the index of the next token to
// look at.
func (a *Analyzer) step(i int) int {
	tok := a.tokens[i]

	switch tok.Kind {
	case parser.TokenLBrace:
		a.pushScope()
		if a.awaitingBody {
			for _, p := range a.pendingParams {
				a.declare(p.name, p.typeName)
			}
			a.pendingParams = nil
			a.awaitingBody = false
		}
		return i + 1

	case parser.TokenRBrace:
		a.popScope()
		a.closeBracedFor()
		return i + 1

	case parser.TokenSemicolon:
		a.closeUnbracedFor()
		return i + 1

	case parser.TokenFor:
		a.pushScope()
		a.frames = append(a.frames, &forFrame{scopes: len(a.scopes)})
		return i + 1

	case parser.TokenClass:
		if name := a.peek(i, 1); name.Kind == parser.TokenIdent {
			a.classes[name.Literal] = true
			return i + 2
		}
		return i + 1
	}

	if next, ok := a.methodSignature(i); ok {
		return next
	}
	if isTypeToken(tok.Kind) {
		if next, ok := a.declaration(i); ok {
			return next
		}
	}
	if tok.Kind == parser.TokenIdent {
		return a.identifier(i)
	}
	return i + 1
}

// methodSignature recognizes "modifiers (type | void) name (" and
// collects the parameters for the body brace that follows.
func (a *Analyzer) methodSignature(i int) (int, bool) {
	j := i
	for j < len(a.tokens) && a.tokens[j].Kind.IsModifier() {
		j++
	}
	ret := a.peek(j, 0)
	if !isTypeToken(ret.Kind) && ret.Kind != parser.TokenVoid {
		return 0, false
	}
	nameAt := j + 1
	if a.peek(j, 1).Kind == parser.TokenLBracket && a.peek(j, 2).Kind == parser.TokenRBracket {
		nameAt = j + 3
	}
	name := a.peek(nameAt, 0)
	if name.Kind != parser.TokenIdent && name.Kind != parser.TokenMain {
		return 0, false
	}
	if a.peek(nameAt, 1).Kind != parser.TokenLParen {
		return 0, false
	}
	params, next := a.parameters(nameAt + 1)
	a.pendingParams = params
	a.awaitingBody = true
	return next, true
}

// parameters reads "( T name, T[] name, T name[] )" starting at the
// opening parenthesis and returns the index after the closing one.
func (a *Analyzer) parameters(open int) ([]param, int) {
	var params []param
	depth := 1
	i := open + 1
	for i < len(a.tokens) && depth > 0 {
		tok := a.tokens[i]
		switch tok.Kind {
		case parser.TokenLParen:
			depth++
			i++
			continue
		case parser.TokenRParen:
			depth--
			i++
			continue
		}

		if isTypeToken(tok.Kind) {
			typeName := declaredTypeName(tok)
			nameAt := i + 1
			if a.peek(i, 1).Kind == parser.TokenLBracket && a.peek(i, 2).Kind == parser.TokenRBracket {
				typeName += "[]"
				nameAt = i + 3
			}
			name := a.peek(nameAt, 0)
			if name.Kind == parser.TokenIdent {
				i = nameAt + 1
				if a.peek(i, 0).Kind == parser.TokenLBracket && a.peek(i, 1).Kind == parser.TokenRBracket {
					typeName += "[]"
					i += 2
				}
				params = append(params, param{name: name, typeName: typeName})
				continue
			}
		}
		i++
	}
	return params, i
}

// declaration handles "T name", "T[] name" and "T name[]", with an
// optional initializer whose type is checked against T.
func (a *Analyzer) declaration(i int) (int, bool) {
	typeName := declaredTypeName(a.tokens[i])
	nameAt := i + 1
	if a.peek(i, 1).Kind == parser.TokenLBracket && a.peek(i, 2).Kind == parser.TokenRBracket {
		typeName += "[]"
		nameAt = i + 3
	}
	name := a.peek(nameAt, 0)
	if name.Kind != parser.TokenIdent {
		return 0, false
	}
	next := nameAt + 1
	if a.peek(next, 0).Kind == parser.TokenLBracket && a.peek(next, 1).Kind == parser.TokenRBracket {
		typeName += "[]"
		next += 2
	}
	a.declare(name, typeName)

	op := a.peek(next, 0)
	if !op.Kind.IsAssignment() {
		return next, true
	}
	value, stop := a.exprType(next + 1)
	if op.Kind == parser.TokenAssign {
		a.checkAssign(op, typeName, value)
	} else {
		a.checkCompound(op, typeName, value)
	}
	return max(next+1, stop), true
}

// identifier checks a bare identifier use or an assignment target.
func (a *Analyzer) identifier(i int) int {
	tok := a.tokens[i]
	name := tok.Literal

	if a.classes[name] || a.isMemberAccess(i) || a.isCall(i) {
		return i + 1
	}

	op := a.peek(i, 1)
	if op.Kind.IsAssignment() {
		target, declared := a.resolve(name)
		if !declared && name != "args" {
			a.report(tok, "%s not declared", name)
		}
		value, stop := a.exprType(i + 2)
		if declared {
			if op.Kind == parser.TokenAssign {
				a.checkAssign(op, target.typeName, value)
			} else {
				a.checkCompound(op, target.typeName, value)
			}
		}
		return max(i+2, stop)
	}

	if _, ok := a.resolve(name); !ok && name != "args" {
		a.report(tok, "%s not declared", name)
	}
	return i + 1
}

// trackFor follows the header parentheses of the innermost for loop and
// notes whether its body is a block.
func (a *Analyzer) trackFor(i int) {
	if len(a.frames) == 0 {
		return
	}
	f := a.frames[len(a.frames)-1]
	tok := a.tokens[i]
	switch {
	case !f.headerDone:
		switch tok.Kind {
		case parser.TokenLParen:
			f.parens++
		case parser.TokenRParen:
			f.parens--
			if f.parens == 0 {
				f.headerDone = true
			}
		}
	case !f.bodyKnown:
		f.bodyKnown = true
		f.braced = tok.Kind == parser.TokenLBrace
	}
}

// closeBracedFor pops a for scope once its block body has closed.
func (a *Analyzer) closeBracedFor() {
	if len(a.frames) == 0 {
		return
	}
	f := a.frames[len(a.frames)-1]
	if f.braced && len(a.scopes) == f.scopes {
		a.popScope()
		a.frames = a.frames[:len(a.frames)-1]
		a.closeUnbracedFor()
	}
}

// closeUnbracedFor pops for scopes whose single statement body just ended.
func (a *Analyzer) closeUnbracedFor() {
	for len(a.frames) > 0 {
		f := a.frames[len(a.frames)-1]
		if !f.headerDone || !f.bodyKnown || f.braced || len(a.scopes) != f.scopes {
			return
		}
		a.popScope()
		a.frames = a.frames[:len(a.frames)-1]
	}
}
