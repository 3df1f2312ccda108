package ir

import (
	"fmt"
	"strings"
)

// Empty is how an unused operand slot is displayed.
const Empty = "∅"

func show(s string) string {
	if s == "" {
		return Empty
	}
	return s
}

// Triple is one three-address instruction without a result slot. Its
// value is referred to by later triples as "(Index)".
type Triple struct {
	Index int    `json:"index"`
	Op    Op     `json:"op"`
	Arg1  string `json:"arg1"`
	Arg2  string `json:"arg2"`
}

func (t Triple) String() string {
	return fmt.Sprintf("(%d) %s %s %s", t.Index, t.Op, show(t.Arg1), show(t.Arg2))
}

// Ref returns how later triples refer to t.
func (t Triple) Ref() string {
	return ref(t.Index)
}

func ref(index int) string {
	return fmt.Sprintf("(%d)", index)
}

// isRef reports whether s is a "(N)" back-reference.
func isRef(s string) bool {
	return strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && !strings.ContainsAny(s[1:len(s)-1], "() ")
}

type Quadruple struct {
	Index  int    `json:"index"`
	Op     Op     `json:"op"`
	Arg1   string `json:"arg1"`
	Arg2   string `json:"arg2"`
	Result string `json:"result"`
}

func (q Quadruple) String() string {
	return fmt.Sprintf("%d: %s %s %s %s", q.Index, q.Op, show(q.Arg1), show(q.Arg2), show(q.Result))
}

// isTemp reports whether s names a quadruple temporary.
func isTemp(s string) bool {
	if len(s) < 2 || s[0] != 't' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// labels hands out label names from one counter per family. Each
// family's counter starts at 1 and pairs share a number.
type labels struct {
	ifs, fors, whiles, general int
}

func (l *labels) ifPair() (elseLabel, finLabel string) {
	l.ifs++
	return fmt.Sprintf("if_else_%d", l.ifs), fmt.Sprintf("if_fin_%d", l.ifs)
}

func (l *labels) forPair() (start, end string) {
	l.fors++
	return fmt.Sprintf("for_inicio_%d", l.fors), fmt.Sprintf("for_fin_%d", l.fors)
}

func (l *labels) whilePair() (start, end string) {
	l.whiles++
	return fmt.Sprintf("while_inicio_%d", l.whiles), fmt.Sprintf("while_fin_%d", l.whiles)
}

func (l *labels) next() string {
	l.general++
	return fmt.Sprintf("etiqueta_%d", l.general)
}
