// Package ir lowers Java source into two linear intermediate forms:
// triples, which reference earlier results by index, and quadruples,
// which name every intermediate result with a temporary. Both generators
// work directly on the token stream and accept any input; text they do
// not recognize is skipped.
package ir

import (
	"fmt"

	"github.com/dhamidi/jfront/java/parser"
)

type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLT
	OpGT
	OpLE
	OpGE
	OpEQ
	OpNE
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpUShr
	OpNeg
	OpNot
	OpBitNot
	OpAssign
	OpLabel
	OpGoto
	OpIfFalse
	OpPrint
	OpParam
	OpCall
)

var opNames = [...]string{
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
	OpLT:      "<",
	OpGT:      ">",
	OpLE:      "<=",
	OpGE:      ">=",
	OpEQ:      "==",
	OpNE:      "!=",
	OpAnd:     "&&",
	OpOr:      "||",
	OpBitAnd:  "&",
	OpBitOr:   "|",
	OpBitXor:  "^",
	OpShl:     "<<",
	OpShr:     ">>",
	OpUShr:    ">>>",
	OpNeg:     "NEG",
	OpNot:     "NOT",
	OpBitNot:  "BITNOT",
	OpAssign:  "=",
	OpLabel:   "LABEL",
	OpGoto:    "GOTO",
	OpIfFalse: "IF_FALSE",
	OpPrint:   "PRINT",
	OpParam:   "PARAM",
	OpCall:    "CALL",
}

func (op Op) String() string {
	if op >= 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return "?"
}

func (op Op) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

func (op *Op) UnmarshalText(text []byte) error {
	for i, name := range opNames {
		if name == string(text) {
			*op = Op(i)
			return nil
		}
	}
	return fmt.Errorf("unknown operator %q", text)
}

// Class groups operators the way the statistics and the object code
// lowering see them.
func (op Op) Class() string {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return "arithmetic"
	case OpLT, OpGT, OpLE, OpGE, OpEQ, OpNE:
		return "relational"
	case OpAnd, OpOr:
		return "logical"
	case OpBitAnd, OpBitOr, OpBitXor, OpShl, OpShr, OpUShr:
		return "bitwise"
	case OpNeg, OpNot, OpBitNot:
		return "unary"
	case OpAssign:
		return "assignment"
	case OpLabel, OpGoto, OpIfFalse:
		return "control"
	case OpPrint, OpParam, OpCall:
		return "call"
	}
	return "unknown"
}

// Computes reports whether op produces a value from its operands.
func (op Op) Computes() bool {
	switch op.Class() {
	case "arithmetic", "relational", "logical", "bitwise", "unary":
		return true
	}
	return false
}

func (op Op) IsJump() bool {
	return op == OpGoto || op == OpIfFalse
}

// binaryOp maps an infix token to its operator.
func binaryOp(kind parser.TokenKind) (Op, bool) {
	switch kind {
	case parser.TokenPlus:
		return OpAdd, true
	case parser.TokenMinus:
		return OpSub, true
	case parser.TokenStar:
		return OpMul, true
	case parser.TokenSlash:
		return OpDiv, true
	case parser.TokenPercent:
		return OpMod, true
	case parser.TokenLT:
		return OpLT, true
	case parser.TokenGT:
		return OpGT, true
	case parser.TokenLE:
		return OpLE, true
	case parser.TokenGE:
		return OpGE, true
	case parser.TokenEQ:
		return OpEQ, true
	case parser.TokenNE:
		return OpNE, true
	case parser.TokenAnd:
		return OpAnd, true
	case parser.TokenOr:
		return OpOr, true
	case parser.TokenBitAnd:
		return OpBitAnd, true
	case parser.TokenBitOr:
		return OpBitOr, true
	case parser.TokenBitXor:
		return OpBitXor, true
	case parser.TokenShl:
		return OpShl, true
	case parser.TokenShr:
		return OpShr, true
	case parser.TokenUShr:
		return OpUShr, true
	}
	return 0, false
}

func unaryOp(kind parser.TokenKind) (Op, bool) {
	switch kind {
	case parser.TokenMinus:
		return OpNeg, true
	case parser.TokenNot:
		return OpNot, true
	case parser.TokenBitNot:
		return OpBitNot, true
	}
	return 0, false
}

// levels lists binary operators from the weakest binding to the
// strongest.
var levels = [][]parser.TokenKind{
	{parser.TokenOr},
	{parser.TokenAnd},
	{parser.TokenBitOr},
	{parser.TokenBitXor},
	{parser.TokenBitAnd},
	{parser.TokenEQ, parser.TokenNE},
	{parser.TokenLT, parser.TokenGT, parser.TokenLE, parser.TokenGE},
	{parser.TokenShl, parser.TokenShr, parser.TokenUShr},
	{parser.TokenPlus, parser.TokenMinus},
	{parser.TokenStar, parser.TokenSlash, parser.TokenPercent},
}
