package ir

import (
	"fmt"
	"strconv"

	"github.com/dhamidi/jfront/java/parser"
)

type quadGen struct {
	out    []Quadruple
	labels labels
	temps  int
}

// GenerateQuadruples lowers src to quadruples. Every computed value lands
// in a fresh temporary tN; control flow uses named labels.
func GenerateQuadruples(src []byte) []Quadruple {
	tokens, _ := parser.Tokenize(src, "", nil)
	return QuadruplesFromTokens(tokens)
}

func QuadruplesFromTokens(tokens []parser.Token) []Quadruple {
	g := &quadGen{}
	g.statements(tokens)
	return g.out
}

func (g *quadGen) temp() string {
	g.temps++
	return fmt.Sprintf("t%d", g.temps)
}

func (g *quadGen) emit(op Op, arg1, arg2, result string) {
	g.out = append(g.out, Quadruple{Index: len(g.out), Op: op, Arg1: arg1, Arg2: arg2, Result: result})
}

func (g *quadGen) statements(toks []parser.Token) {
	for i := 0; i < len(toks); {
		st := classify(toks, i)
		g.statement(st)
		i = max(st.end, i+1)
	}
}

func (g *quadGen) statement(st statement) {
	switch st.kind {
	case stmtDecl:
		for _, d := range st.decls {
			if len(d.value) > 0 {
				g.emit(OpAssign, g.expr(d.value), "", d.name.Literal)
			}
		}
	case stmtAssign:
		g.emit(OpAssign, g.expr(st.value), "", text(st.target))
	case stmtCompound:
		op, _ := binaryOp(st.op.Kind.CompoundBase())
		target := text(st.target)
		value := g.expr(st.value)
		t := g.temp()
		g.emit(op, target, value, t)
		g.emit(OpAssign, t, "", target)
	case stmtIncDec:
		// Pre and post forms lower identically.
		op := OpAdd
		if st.op.Kind == parser.TokenDecrement {
			op = OpSub
		}
		target := text(st.target)
		t := g.temp()
		g.emit(op, target, "1", t)
		g.emit(OpAssign, t, "", target)
	case stmtFor:
		g.clause(st.init)
		start, end := g.labels.forPair()
		g.loop(start, end, st.cond, st.body, st.update)
	case stmtWhile:
		start, end := g.labels.whilePair()
		g.loop(start, end, st.cond, st.body, nil)
	case stmtDo:
		g.doLoop(st)
	case stmtIf:
		g.ifElse(st)
	case stmtPrint:
		arg := ""
		if len(st.args) > 0 {
			arg = g.expr(st.args[0])
		}
		g.emit(OpPrint, arg, "", "")
	case stmtCall:
		g.call(st.callee, st.args, false)
	case stmtHeader, stmtOther:
	}
}

func (g *quadGen) clause(toks []parser.Token) {
	if len(toks) == 0 {
		return
	}
	if st, ok := classifyDecl(toks, 0); ok {
		g.statement(st)
		return
	}
	for _, part := range split(toks, parser.TokenComma) {
		g.statements(part)
	}
}

func (g *quadGen) loop(start, end string, cond, body, update []parser.Token) {
	g.emit(OpLabel, "", "", start)
	test := "true"
	if len(cond) > 0 {
		test = g.expr(cond)
	}
	g.emit(OpIfFalse, test, "", end)
	g.statements(body)
	g.clause(update)
	g.emit(OpGoto, "", "", start)
	g.emit(OpLabel, "", "", end)
}

// doLoop uses two generic labels: one before the body and one after the
// loop.
func (g *quadGen) doLoop(st statement) {
	start, end := g.labels.next(), g.labels.next()
	g.emit(OpLabel, "", "", start)
	g.statements(st.body)
	g.emit(OpIfFalse, g.expr(st.cond), "", end)
	g.emit(OpGoto, "", "", start)
	g.emit(OpLabel, "", "", end)
}

func (g *quadGen) ifElse(st statement) {
	elseLabel, finLabel := g.labels.ifPair()
	g.emit(OpIfFalse, g.expr(st.cond), "", elseLabel)
	g.statements(st.body)
	g.emit(OpGoto, "", "", finLabel)
	g.emit(OpLabel, "", "", elseLabel)
	if st.hasElse {
		g.statements(st.elseBody)
	}
	g.emit(OpLabel, "", "", finLabel)
}

// call passes each argument with PARAM. When the value is wanted it is
// stored in a temporary allocated after the arguments.
func (g *quadGen) call(name string, args [][]parser.Token, wantValue bool) string {
	for _, arg := range args {
		g.emit(OpParam, g.expr(arg), "", "")
	}
	result := ""
	if wantValue {
		result = g.temp()
	}
	g.emit(OpCall, name, strconv.Itoa(len(args)), result)
	return result
}

// expr linearizes an expression into quadruples and returns the variable,
// literal or temporary holding its value.
func (g *quadGen) expr(toks []parser.Token) string {
	if len(toks) == 0 {
		return ""
	}
	if at, op, ok := splitBinary(toks); ok {
		left := g.expr(toks[:at])
		right := g.expr(toks[at+1:])
		t := g.temp()
		g.emit(op, left, right, t)
		return t
	}
	if inner, ok := stripParens(toks); ok {
		return g.expr(inner)
	}
	if op, ok := unaryOp(toks[0].Kind); ok && len(toks) > 1 {
		operand := g.expr(toks[1:])
		t := g.temp()
		g.emit(op, operand, "", t)
		return t
	}
	if toks[0].Kind == parser.TokenPlus && len(toks) > 1 {
		return g.expr(toks[1:])
	}
	if name, args, ok := callShape(toks); ok {
		return g.call(name, args, true)
	}
	return text(toks)
}
