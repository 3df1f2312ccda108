package ir

import (
	"strconv"

	"github.com/dhamidi/jfront/java/parser"
)

type tripleGen struct {
	out    []Triple
	labels labels

	// assigned maps a variable to the index of the last "=" triple that
	// wrote it.
	assigned map[string]int
}

// GenerateTriples lowers src to triples. Assignments are "= value name";
// any later read of name refers to that triple by index.
func GenerateTriples(src []byte) []Triple {
	tokens, _ := parser.Tokenize(src, "", nil)
	return TriplesFromTokens(tokens)
}

func TriplesFromTokens(tokens []parser.Token) []Triple {
	g := &tripleGen{assigned: make(map[string]int)}
	g.statements(tokens)
	return g.out
}

func (g *tripleGen) emit(op Op, arg1, arg2 string) int {
	index := len(g.out)
	g.out = append(g.out, Triple{Index: index, Op: op, Arg1: arg1, Arg2: arg2})
	if op == OpAssign && !isRef(arg2) {
		g.assigned[arg2] = index
	}
	return index
}

func (g *tripleGen) statements(toks []parser.Token) {
	for i := 0; i < len(toks); {
		st := classify(toks, i)
		g.statement(st)
		i = max(st.end, i+1)
	}
}

func (g *tripleGen) statement(st statement) {
	switch st.kind {
	case stmtDecl:
		for _, d := range st.decls {
			if len(d.value) > 0 {
				g.emit(OpAssign, g.expr(d.value), d.name.Literal)
			}
		}
	case stmtAssign:
		g.emit(OpAssign, g.expr(st.value), text(st.target))
	case stmtCompound:
		op, _ := binaryOp(st.op.Kind.CompoundBase())
		target := text(st.target)
		k := g.emit(op, g.operand(target), g.expr(st.value))
		g.emit(OpAssign, ref(k), target)
	case stmtIncDec:
		op := OpAdd
		if st.op.Kind == parser.TokenDecrement {
			op = OpSub
		}
		target := text(st.target)
		k := g.emit(op, g.operand(target), "1")
		g.emit(OpAssign, ref(k), target)
	case stmtFor:
		g.forLoop(st)
	case stmtWhile:
		g.loop(st.cond, st.body, nil)
	case stmtDo:
		g.doLoop(st)
	case stmtIf:
		g.ifElse(st)
	case stmtPrint:
		g.emit(OpPrint, g.args(st.args), "")
	case stmtCall:
		g.call(st.callee, st.args)
	case stmtHeader, stmtOther:
	}
}

// forLoop emits the initializer and then the loop shared with while.
func (g *tripleGen) forLoop(st statement) {
	g.clause(st.init)
	g.loop(st.cond, st.body, st.update)
}

// clause lowers a for initializer or update: either one declaration or a
// comma-separated list of expression statements.
func (g *tripleGen) clause(toks []parser.Token) {
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

// loop emits the condition at a recorded index, an IF_FALSE whose target
// is patched once the loop's end is known, the body, the update and a
// jump back to the condition.
func (g *tripleGen) loop(cond, body, update []parser.Token) {
	start := len(g.out)
	test := "true"
	if len(cond) > 0 {
		test = g.expr(cond)
	}
	exit := g.emit(OpIfFalse, test, "")
	g.statements(body)
	g.clause(update)
	g.emit(OpGoto, ref(start), "")
	g.out[exit].Arg2 = ref(len(g.out))
}

// doLoop runs the body first and jumps back while the condition holds.
func (g *tripleGen) doLoop(st statement) {
	start := len(g.out)
	g.statements(st.body)
	exit := g.emit(OpIfFalse, g.expr(st.cond), "")
	g.emit(OpGoto, ref(start), "")
	g.out[exit].Arg2 = ref(len(g.out))
}

func (g *tripleGen) ifElse(st statement) {
	elseLabel, finLabel := g.labels.ifPair()
	g.emit(OpIfFalse, g.expr(st.cond), elseLabel)
	g.statements(st.body)
	g.emit(OpGoto, finLabel, "")
	g.emit(OpLabel, elseLabel, "")
	if st.hasElse {
		g.statements(st.elseBody)
	}
	g.emit(OpLabel, finLabel, "")
}

func (g *tripleGen) args(args [][]parser.Token) string {
	if len(args) == 0 {
		return ""
	}
	return g.expr(args[0])
}

func (g *tripleGen) call(name string, args [][]parser.Token) int {
	for _, arg := range args {
		g.emit(OpParam, g.expr(arg), "")
	}
	return g.emit(OpCall, name, strconv.Itoa(len(args)))
}

// operand names a plain value, substituting the triple that last
// assigned a variable.
func (g *tripleGen) operand(name string) string {
	if k, ok := g.assigned[name]; ok {
		return ref(k)
	}
	return name
}

// expr linearizes an expression and returns the operand naming its
// value.
func (g *tripleGen) expr(toks []parser.Token) string {
	if len(toks) == 0 {
		return ""
	}
	if inner, ok := stripParens(toks); ok {
		return g.expr(inner)
	}
	if at, op, ok := splitBinary(toks); ok {
		left := g.expr(toks[:at])
		right := g.expr(toks[at+1:])
		return ref(g.emit(op, left, right))
	}
	if op, ok := unaryOp(toks[0].Kind); ok && len(toks) > 1 {
		return ref(g.emit(op, g.expr(toks[1:]), ""))
	}
	if toks[0].Kind == parser.TokenPlus && len(toks) > 1 {
		return g.expr(toks[1:])
	}
	if name, args, ok := callShape(toks); ok {
		return ref(g.call(name, args))
	}
	if len(toks) == 1 && toks[0].Kind == parser.TokenIdent {
		return g.operand(toks[0].Literal)
	}
	return text(toks)
}
