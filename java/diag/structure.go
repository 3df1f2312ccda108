package diag

type opening struct {
	offset int
	ch     byte
}

// ScanStructure walks the raw source one byte at a time and reports
// unbalanced parentheses, brackets and braces, unterminated string and char
// literals, and unterminated block comments. Comments and literals are
// skipped so their contents never count towards the balance.
func ScanStructure(src []byte) List {
	c := NewCollector(src)

	var parens, braces, brackets []opening
	var (
		inLineComment  bool
		inBlockComment bool
		inString       bool
		inChar         bool
		literalStart   = -1
		commentStart   = -1
	)

	n := len(src)
	for i := 0; i < n; i++ {
		ch := src[i]
		var next byte
		if i+1 < n {
			next = src[i+1]
		}

		switch {
		case inLineComment:
			if ch == '\n' {
				inLineComment = false
			}
			continue
		case inBlockComment:
			if ch == '*' && next == '/' {
				inBlockComment = false
				i++
			}
			continue
		case inString:
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inString = false
			}
			continue
		case inChar:
			if ch == '\\' {
				i++
			} else if ch == '\'' {
				inChar = false
			}
			continue
		}

		switch ch {
		case '/':
			if next == '/' {
				inLineComment = true
				i++
			} else if next == '*' {
				inBlockComment = true
				commentStart = i
				i++
			}
		case '"':
			inString = true
			literalStart = i
		case '\'':
			inChar = true
			literalStart = i
		case '(':
			parens = append(parens, opening{i, ch})
		case '{':
			braces = append(braces, opening{i, ch})
		case '[':
			brackets = append(brackets, opening{i, ch})
		case ')':
			if len(parens) == 0 {
				c.At(Structural, i, 1, "closing parenthesis ')' without a matching '('")
			} else {
				parens = parens[:len(parens)-1]
			}
		case '}':
			if len(braces) == 0 {
				c.At(Structural, i, 1, "closing brace '}' without a matching '{'")
			} else {
				braces = braces[:len(braces)-1]
			}
		case ']':
			if len(brackets) == 0 {
				c.At(Structural, i, 1, "closing bracket ']' without a matching '['")
			} else {
				brackets = brackets[:len(brackets)-1]
			}
		}
	}

	if inString {
		c.At(Structural, literalStart, 1, "unterminated string literal (missing '\"')")
	}
	if inChar {
		c.At(Structural, literalStart, 1, "unterminated char literal (missing \"'\")")
	}
	if inBlockComment {
		c.At(Structural, commentStart, 2, "unterminated block comment (missing '*/')")
	}
	for _, o := range parens {
		c.At(Structural, o.offset, 1, "opening parenthesis '(' is never closed")
	}
	for _, o := range braces {
		c.At(Structural, o.offset, 1, "opening brace '{' is never closed")
	}
	for _, o := range brackets {
		c.At(Structural, o.offset, 1, "opening bracket '[' is never closed")
	}
	return c.List()
}
