package ir

import "fmt"

// Instruction is one line of the pseudo assembly quadruples lower to. A
// label line has only Label set.
type Instruction struct {
	Label   string `json:"label,omitempty"`
	Opcode  string `json:"opcode,omitempty"`
	Operand string `json:"operand,omitempty"`
}

func (in Instruction) String() string {
	switch {
	case in.Label != "":
		return in.Label + ":"
	case in.Operand == "":
		return "    " + in.Opcode
	}
	return fmt.Sprintf("    %-6s %s", in.Opcode, in.Operand)
}

var mnemonics = map[Op]string{
	OpAdd:    "ADD",
	OpSub:    "SUB",
	OpMul:    "MUL",
	OpDiv:    "DIV",
	OpMod:    "MOD",
	OpAnd:    "AND",
	OpOr:     "OR",
	OpBitAnd: "BAND",
	OpBitOr:  "BOR",
	OpBitXor: "BXOR",
	OpShl:    "SHL",
	OpShr:    "SHR",
	OpUShr:   "USHR",
	OpNeg:    "NEG",
	OpNot:    "NOT",
	OpBitNot: "BNOT",
	OpLT:     "LT",
	OpGT:     "GT",
	OpLE:     "LE",
	OpGE:     "GE",
	OpEQ:     "EQ",
	OpNE:     "NE",
}

// ObjectCode lowers quadruples to an accumulator machine: operands are
// loaded, combined and the accumulator is stored into the result.
// Comparisons leave 1 or 0 in the accumulator.
func ObjectCode(quads []Quadruple) []Instruction {
	var out []Instruction
	emit := func(opcode, operand string) {
		out = append(out, Instruction{Opcode: opcode, Operand: operand})
	}

	for _, q := range quads {
		switch q.Op {
		case OpAssign:
			emit("LOAD", q.Arg1)
			emit("STORE", q.Result)
		case OpAdd, OpSub, OpMul, OpDiv, OpMod,
			OpAnd, OpOr, OpBitAnd, OpBitOr, OpBitXor, OpShl, OpShr, OpUShr:
			emit("LOAD", q.Arg1)
			emit(mnemonics[q.Op], q.Arg2)
			emit("STORE", q.Result)
		case OpLT, OpGT, OpLE, OpGE, OpEQ, OpNE:
			emit("LOAD", q.Arg1)
			emit("CMP", q.Arg2)
			emit("SET"+mnemonics[q.Op], "")
			emit("STORE", q.Result)
		case OpNeg, OpNot, OpBitNot:
			emit("LOAD", q.Arg1)
			emit(mnemonics[q.Op], "")
			emit("STORE", q.Result)
		case OpLabel:
			out = append(out, Instruction{Label: q.Result})
		case OpGoto:
			emit("JMP", q.Result)
		case OpIfFalse:
			emit("LOAD", q.Arg1)
			emit("JMPF", q.Result)
		case OpPrint:
			emit("PRINT", q.Arg1)
		case OpParam:
			emit("PUSH", q.Arg1)
		case OpCall:
			emit("CALL", q.Arg1)
			if q.Result != "" {
				emit("STORE", q.Result)
			}
		}
	}
	return out
}
