package semantic

import (
	"strings"

	"github.com/dhamidi/jfront/java/parser"
)

// Approximate expression categories.
const (
	TypeString  = "String"
	TypeBoolean = "boolean"
	TypeChar    = "char"
	TypeNumeric = "numeric"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeUnknown = "unknown"
)

var numericTypes = map[string]bool{
	"byte": true, "short": true, "int": true, "long": true, "float": true, "double": true,
	TypeNumeric: true,
}

func isNumeric(typeName string) bool {
	return numericTypes[typeName]
}

func isArray(typeName string) bool {
	return strings.HasSuffix(typeName, "[]")
}

// declaredTypeName maps a type token to the name a declaration records:
// the primitive keyword, String, or the identifier of a user type.
func declaredTypeName(tok parser.Token) string {
	if tok.Kind.IsPrimitiveType() || tok.Kind == parser.TokenIdent {
		return tok.Literal
	}
	return TypeUnknown
}

func isTypeToken(kind parser.TokenKind) bool {
	return kind.IsPrimitiveType() || kind == parser.TokenIdent
}

func isArithmetic(kind parser.TokenKind) bool {
	switch kind {
	case parser.TokenPlus, parser.TokenMinus, parser.TokenStar, parser.TokenSlash, parser.TokenPercent,
		parser.TokenBitAnd, parser.TokenBitOr, parser.TokenBitXor, parser.TokenBitNot,
		parser.TokenShl, parser.TokenShr, parser.TokenUShr:
		return true
	}
	return false
}

func isLogical(kind parser.TokenKind) bool {
	switch kind {
	case parser.TokenAnd, parser.TokenOr, parser.TokenNot,
		parser.TokenEQ, parser.TokenNE, parser.TokenLT, parser.TokenGT, parser.TokenLE, parser.TokenGE:
		return true
	}
	return false
}

// exprType scans tokens[start:] up to the first top-level ';' or the ')'
// closing an enclosing call and returns the approximate category of what
// it saw together with the index it stopped at. The first category seen
// from String, boolean, char, numeric, object wins in that order.
func (a *Analyzer) exprType(start int) (string, int) {
	var seenString, seenBoolean, seenChar, seenNumeric, seenNew bool
	depth := 0

	if start < len(a.tokens) && a.tokens[start].Kind == parser.TokenLBrace {
		return TypeArray, a.skipInitializer(start)
	}

	i := start
	for ; i < len(a.tokens); i++ {
		tok := a.tokens[i]
		switch tok.Kind {
		case parser.TokenSemicolon:
			if depth == 0 {
				return categorize(seenString, seenBoolean, seenChar, seenNumeric, seenNew), i
			}
		case parser.TokenRParen:
			if depth == 0 {
				return categorize(seenString, seenBoolean, seenChar, seenNumeric, seenNew), i
			}
			depth--
		case parser.TokenLParen:
			depth++
		case parser.TokenIntLiteral, parser.TokenDecimalLiteral:
			seenNumeric = true
		case parser.TokenStringLiteral:
			seenString = true
		case parser.TokenCharLiteral:
			seenChar = true
		case parser.TokenTrue, parser.TokenFalse:
			seenBoolean = true
		case parser.TokenIdent:
			if a.isMemberAccess(i) || a.isCall(i) {
				continue
			}
			declared, ok := a.resolve(tok.Literal)
			if !ok {
				continue
			}
			switch {
			case declared.typeName == TypeString:
				seenString = true
			case declared.typeName == TypeBoolean:
				seenBoolean = true
			case declared.typeName == TypeChar:
				seenChar = true
			case isNumeric(declared.typeName):
				seenNumeric = true
			}
		case parser.TokenNew:
			seenNew = true
			if a.peek(i, 2).Kind == parser.TokenLBracket {
				return TypeArray, a.skipToStatementEnd(i)
			}
			if a.peek(i, 1).Kind == parser.TokenString {
				seenString = true
			}
		default:
			switch {
			case tok.Kind == parser.TokenPlus && seenString:
			case isArithmetic(tok.Kind):
				seenNumeric = true
			case isLogical(tok.Kind):
				seenBoolean = true
			}
		}
	}
	return categorize(seenString, seenBoolean, seenChar, seenNumeric, seenNew), i
}

func categorize(seenString, seenBoolean, seenChar, seenNumeric, seenNew bool) string {
	switch {
	case seenString:
		return TypeString
	case seenBoolean:
		return TypeBoolean
	case seenChar:
		return TypeChar
	case seenNumeric:
		return TypeNumeric
	case seenNew:
		return TypeObject
	}
	return TypeUnknown
}

// skipInitializer returns the index of the ';' after a braced array
// initializer starting at start.
func (a *Analyzer) skipInitializer(start int) int {
	depth := 0
	for i := start; i < len(a.tokens); i++ {
		switch a.tokens[i].Kind {
		case parser.TokenLBrace:
			depth++
		case parser.TokenRBrace:
			depth--
		case parser.TokenSemicolon:
			if depth <= 0 {
				return i
			}
		}
	}
	return len(a.tokens)
}

func (a *Analyzer) skipToStatementEnd(start int) int {
	depth := 0
	for i := start; i < len(a.tokens); i++ {
		switch a.tokens[i].Kind {
		case parser.TokenLParen:
			depth++
		case parser.TokenRParen:
			if depth == 0 {
				return i
			}
			depth--
		case parser.TokenSemicolon:
			if depth == 0 {
				return i
			}
		}
	}
	return len(a.tokens)
}

// checkAssign reports an '=' whose value category cannot be stored in a
// target of the declared type.
func (a *Analyzer) checkAssign(op parser.Token, target, value string) {
	if value == TypeUnknown {
		return
	}
	switch {
	case isArray(target):
		if value != TypeArray && value != TypeObject {
			a.report(op, "type mismatch: expected '%s' but got '%s'", target, value)
		}
	case target == TypeString, target == TypeBoolean, target == TypeChar:
		if value != target {
			a.report(op, "type mismatch: expected '%s' but got '%s'", target, value)
		}
	case isNumeric(target):
		if !isNumeric(value) {
			a.report(op, "type mismatch: expected a numeric type but got '%s'", value)
		}
	}
}

// checkCompound validates compound assignments. String += accepts text and
// numbers, every other form needs numbers on both sides.
func (a *Analyzer) checkCompound(op parser.Token, target, value string) {
	if value == TypeUnknown {
		return
	}
	if target == TypeString && op.Kind == parser.TokenPlusAssign {
		if value != TypeString && !isNumeric(value) {
			a.report(op, "type mismatch: 'String' cannot concatenate '%s'", value)
		}
		return
	}
	if !isNumeric(target) || !isNumeric(value) {
		a.report(op, "type mismatch: operator '%s' requires numeric operands", op.Literal)
	}
}
