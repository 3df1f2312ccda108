package parser

import (
	"fmt"
	"strconv"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// Len is the number of bytes the span covers.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenDecimalLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenAbstract
	TokenAssert
	TokenBoolean
	TokenBreak
	TokenByte
	TokenCase
	TokenCatch
	TokenChar
	TokenClass
	TokenConst
	TokenContinue
	TokenDefault
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFloat
	TokenFor
	TokenIf
	TokenImplements
	TokenImport
	TokenInstanceof
	TokenInt
	TokenInterface
	TokenLong
	TokenNative
	TokenNew
	TokenPackage
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReturn
	TokenShort
	TokenStatic
	TokenStrictfp
	TokenSuper
	TokenSwitch
	TokenSynchronized
	TokenThis
	TokenThrow
	TokenThrows
	TokenTransient
	TokenTry
	TokenVoid
	TokenVolatile
	TokenWhile

	// Pseudo-keywords: library names the language subset treats as reserved
	TokenString
	TokenSystem
	TokenOut
	TokenPrint
	TokenPrintln
	TokenMain

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenAt
	TokenQuestion
	TokenColon

	TokenAssign
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenUShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenIncrement
	TokenDecrement
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:            "EOF",
	TokenError:          "Error",
	TokenWhitespace:     "Whitespace",
	TokenComment:        "Comment",
	TokenLineComment:    "LineComment",
	TokenIdent:          "Identifier",
	TokenIntLiteral:     "IntLiteral",
	TokenDecimalLiteral: "DecimalLiteral",
	TokenCharLiteral:    "CharLiteral",
	TokenStringLiteral:  "StringLiteral",
	TokenTrue:           "true",
	TokenFalse:          "false",
	TokenNull:           "null",
	TokenAbstract:       "abstract",
	TokenAssert:         "assert",
	TokenBoolean:        "boolean",
	TokenBreak:          "break",
	TokenByte:           "byte",
	TokenCase:           "case",
	TokenCatch:          "catch",
	TokenChar:           "char",
	TokenClass:          "class",
	TokenConst:          "const",
	TokenContinue:       "continue",
	TokenDefault:        "default",
	TokenDo:             "do",
	TokenDouble:         "double",
	TokenElse:           "else",
	TokenEnum:           "enum",
	TokenExtends:        "extends",
	TokenFinal:          "final",
	TokenFinally:        "finally",
	TokenFloat:          "float",
	TokenFor:            "for",
	TokenIf:             "if",
	TokenImplements:     "implements",
	TokenImport:         "import",
	TokenInstanceof:     "instanceof",
	TokenInt:            "int",
	TokenInterface:      "interface",
	TokenLong:           "long",
	TokenNative:         "native",
	TokenNew:            "new",
	TokenPackage:        "package",
	TokenPrivate:        "private",
	TokenProtected:      "protected",
	TokenPublic:         "public",
	TokenReturn:         "return",
	TokenShort:          "short",
	TokenStatic:         "static",
	TokenStrictfp:       "strictfp",
	TokenSuper:          "super",
	TokenSwitch:         "switch",
	TokenSynchronized:   "synchronized",
	TokenThis:           "this",
	TokenThrow:          "throw",
	TokenThrows:         "throws",
	TokenTransient:      "transient",
	TokenTry:            "try",
	TokenVoid:           "void",
	TokenVolatile:       "volatile",
	TokenWhile:          "while",
	TokenString:         "String",
	TokenSystem:         "System",
	TokenOut:            "out",
	TokenPrint:          "print",
	TokenPrintln:        "println",
	TokenMain:           "main",
	TokenLParen:         "(",
	TokenRParen:         ")",
	TokenLBrace:         "{",
	TokenRBrace:         "}",
	TokenLBracket:       "[",
	TokenRBracket:       "]",
	TokenSemicolon:      ";",
	TokenComma:          ",",
	TokenDot:            ".",
	TokenAt:             "@",
	TokenQuestion:       "?",
	TokenColon:          ":",
	TokenAssign:         "=",
	TokenEQ:             "==",
	TokenNE:             "!=",
	TokenLT:             "<",
	TokenLE:             "<=",
	TokenGT:             ">",
	TokenGE:             ">=",
	TokenAnd:            "&&",
	TokenOr:             "||",
	TokenNot:            "!",
	TokenBitAnd:         "&",
	TokenBitOr:          "|",
	TokenBitXor:         "^",
	TokenBitNot:         "~",
	TokenShl:            "<<",
	TokenShr:            ">>",
	TokenUShr:           ">>>",
	TokenPlus:           "+",
	TokenMinus:          "-",
	TokenStar:           "*",
	TokenSlash:          "/",
	TokenPercent:        "%",
	TokenIncrement:      "++",
	TokenDecrement:      "--",
	TokenPlusAssign:     "+=",
	TokenMinusAssign:    "-=",
	TokenStarAssign:     "*=",
	TokenSlashAssign:    "/=",
	TokenPercentAssign:  "%=",
	TokenAndAssign:      "&=",
	TokenOrAssign:       "|=",
	TokenXorAssign:      "^=",
	TokenShlAssign:      "<<=",
	TokenShrAssign:      ">>=",
	TokenUShrAssign:     ">>>=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Class groups kinds the way diagnostics and the token table talk about
// them.
func (k TokenKind) Class() string {
	switch {
	case k == TokenIdent:
		return "identifier"
	case k.IsLiteral():
		return "literal"
	case k.IsKeyword():
		return "reserved"
	case k.IsOperator():
		return "operator"
	case k >= TokenLParen && k <= TokenColon:
		return "delimiter"
	}
	return "other"
}

func (k TokenKind) IsLiteral() bool {
	return k >= TokenIntLiteral && k <= TokenNull
}

func (k TokenKind) IsKeyword() bool {
	return k >= TokenAbstract && k <= TokenMain
}

func (k TokenKind) IsOperator() bool {
	return k >= TokenAssign && k <= TokenUShrAssign
}

// IsPrimitiveType reports whether k names one of the types a variable may
// be declared with. String counts.
func (k TokenKind) IsPrimitiveType() bool {
	switch k {
	case TokenInt, TokenLong, TokenShort, TokenByte, TokenFloat, TokenDouble,
		TokenChar, TokenBoolean, TokenString:
		return true
	}
	return false
}

func (k TokenKind) IsAssignment() bool {
	return k == TokenAssign || k.IsCompoundAssignment()
}

func (k TokenKind) IsCompoundAssignment() bool {
	return k >= TokenPlusAssign && k <= TokenUShrAssign
}

// CompoundBase maps a compound assignment to the binary operator it
// applies, for example += to +.
func (k TokenKind) CompoundBase() TokenKind {
	switch k {
	case TokenPlusAssign:
		return TokenPlus
	case TokenMinusAssign:
		return TokenMinus
	case TokenStarAssign:
		return TokenStar
	case TokenSlashAssign:
		return TokenSlash
	case TokenPercentAssign:
		return TokenPercent
	case TokenAndAssign:
		return TokenBitAnd
	case TokenOrAssign:
		return TokenBitOr
	case TokenXorAssign:
		return TokenBitXor
	case TokenShlAssign:
		return TokenShl
	case TokenShrAssign:
		return TokenShr
	case TokenUShrAssign:
		return TokenUShr
	}
	return TokenError
}

func (k TokenKind) IsModifier() bool {
	switch k {
	case TokenPublic, TokenPrivate, TokenProtected, TokenStatic, TokenFinal,
		TokenAbstract, TokenNative, TokenStrictfp, TokenSynchronized,
		TokenTransient, TokenVolatile:
		return true
	}
	return false
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) Line() int {
	return t.Span.Start.Line
}

// Value returns the typed value of a literal token: int64 for integers,
// float64 for decimals, the unquoted contents for strings, a rune for
// chars, bool for true and false. Every other token yields its lexeme.
func (t Token) Value() any {
	switch t.Kind {
	case TokenIntLiteral:
		if n, err := strconv.ParseInt(t.Literal, 10, 64); err == nil {
			return n
		}
	case TokenDecimalLiteral:
		if f, err := strconv.ParseFloat(t.Literal, 64); err == nil {
			return f
		}
	case TokenStringLiteral:
		if len(t.Literal) >= 2 {
			return t.Literal[1 : len(t.Literal)-1]
		}
	case TokenCharLiteral:
		body := t.Literal
		if len(body) >= 3 {
			body = body[1 : len(body)-1]
			if r, _, _, err := strconv.UnquoteChar(body, '\''); err == nil {
				return r
			}
			return []rune(body)[0]
		}
	case TokenTrue:
		return true
	case TokenFalse:
		return false
	case TokenNull:
		return nil
	}
	return t.Literal
}

var keywords = map[string]TokenKind{
	"abstract":     TokenAbstract,
	"assert":       TokenAssert,
	"boolean":      TokenBoolean,
	"break":        TokenBreak,
	"byte":         TokenByte,
	"case":         TokenCase,
	"catch":        TokenCatch,
	"char":         TokenChar,
	"class":        TokenClass,
	"const":        TokenConst,
	"continue":     TokenContinue,
	"default":      TokenDefault,
	"do":           TokenDo,
	"double":       TokenDouble,
	"else":         TokenElse,
	"enum":         TokenEnum,
	"extends":      TokenExtends,
	"final":        TokenFinal,
	"finally":      TokenFinally,
	"float":        TokenFloat,
	"for":          TokenFor,
	"if":           TokenIf,
	"implements":   TokenImplements,
	"import":       TokenImport,
	"instanceof":   TokenInstanceof,
	"int":          TokenInt,
	"interface":    TokenInterface,
	"long":         TokenLong,
	"native":       TokenNative,
	"new":          TokenNew,
	"package":      TokenPackage,
	"private":      TokenPrivate,
	"protected":    TokenProtected,
	"public":       TokenPublic,
	"return":       TokenReturn,
	"short":        TokenShort,
	"static":       TokenStatic,
	"strictfp":     TokenStrictfp,
	"super":        TokenSuper,
	"switch":       TokenSwitch,
	"synchronized": TokenSynchronized,
	"this":         TokenThis,
	"throw":        TokenThrow,
	"throws":       TokenThrows,
	"transient":    TokenTransient,
	"try":          TokenTry,
	"void":         TokenVoid,
	"volatile":     TokenVolatile,
	"while":        TokenWhile,
	"true":         TokenTrue,
	"false":        TokenFalse,
	"null":         TokenNull,
	"String":       TokenString,
	"System":       TokenSystem,
	"out":          TokenOut,
	"print":        TokenPrint,
	"println":      TokenPrintln,
	"main":         TokenMain,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

// Keywords returns every reserved word, pseudo-keywords included.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for word := range keywords {
		out = append(out, word)
	}
	return out
}
