// Package symtab implements the scope-limited symbol table shared by the
// lexer's declaration tracking and the parser's semantic actions.
//
// Scoping is deliberately flat. A table knows three buckets: global, main
// and local. Everything declared outside the main method lands in global.
// Inside main, a brace depth of one (the class body) means the main bucket
// and anything deeper means local. Blocks do not get buckets of their own,
// so two sibling blocks inside main share the local bucket.
package symtab

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

const (
	ScopeGlobal = "global"
	ScopeMain   = "main"
	ScopeLocal  = "local"
)

// Type names reserved for non-variable entries.
const (
	KindClass  = "CLASS"
	KindMethod = "METHOD"
)

var ErrRedeclared = errors.New("symbol already declared in this scope")

type Symbol struct {
	Name          string `json:"name"`
	QualifiedName string `json:"qualifiedName"`
	TypeName      string `json:"type"`
	Line          int    `json:"line"`
	Value         any    `json:"value,omitempty"`
	Scope         string `json:"scope"`
	Used          bool   `json:"used"`

	seq int
}

// IsVariable reports whether the symbol names a variable rather than a
// class or method.
func (s *Symbol) IsVariable() bool {
	return s.TypeName != KindClass && s.TypeName != KindMethod
}

// DisplayValue renders Value the way it was written in source: strings in
// double quotes, chars in single quotes, nothing for a missing value.
func (s *Symbol) DisplayValue() string {
	return FormatValue(s.Value)
}

func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return strconv.Quote(v)
	case rune:
		return "'" + string(v) + "'"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

type Table struct {
	symbols  map[string]*Symbol
	stack    []string
	depth    int
	inMethod bool
	seq      int
}

func New() *Table {
	t := &Table{}
	t.Reset()
	return t
}

// Reset clears every symbol and returns the table to the global scope.
func (t *Table) Reset() {
	t.symbols = make(map[string]*Symbol)
	t.stack = []string{ScopeGlobal}
	t.depth = 0
	t.inMethod = false
	t.seq = 0
}

// EnterScope pushes a named scope. Entering main switches the table into
// method mode, which is what makes the main and local buckets reachable.
func (t *Table) EnterScope(name string) {
	t.stack = append(t.stack, name)
	if name == ScopeMain {
		t.inMethod = true
	}
}

// ExitScope pops the innermost scope. The global scope is never popped.
func (t *Table) ExitScope() {
	if len(t.stack) <= 1 {
		return
	}
	closed := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if closed == ScopeMain {
		t.inMethod = false
	}
}

func (t *Table) OpenBlock() {
	t.depth++
}

// CloseBlock decrements the brace depth. Falling back to depth zero while
// inside a method leaves the method.
func (t *Table) CloseBlock() {
	if t.depth > 0 {
		t.depth--
	}
	if t.depth == 0 && t.inMethod {
		t.ExitScope()
	}
}

func (t *Table) Depth() int {
	return t.depth
}

// Scope returns the bucket new declarations go into.
func (t *Table) Scope() string {
	if !t.inMethod {
		return ScopeGlobal
	}
	if t.depth > 1 {
		return ScopeLocal
	}
	if len(t.stack) > 1 {
		return t.stack[len(t.stack)-1]
	}
	return ScopeGlobal
}

func qualify(scope, name string) string {
	if scope == ScopeGlobal {
		return name
	}
	return scope + "." + name
}

// Declare inserts name into the current scope. A second declaration of the
// same name in the same scope leaves the first symbol untouched and returns
// an error wrapping ErrRedeclared together with the existing symbol.
func (t *Table) Declare(name, typeName string, line int, value any) (*Symbol, error) {
	scope := t.Scope()
	qualified := qualify(scope, name)
	if existing, ok := t.symbols[qualified]; ok {
		return existing, fmt.Errorf("%w: %s (first declared on line %d)", ErrRedeclared, name, existing.Line)
	}
	t.seq++
	sym := &Symbol{
		Name:          name,
		QualifiedName: qualified,
		TypeName:      typeName,
		Line:          line,
		Value:         value,
		Scope:         scope,
		seq:           t.seq,
	}
	t.symbols[qualified] = sym
	return sym, nil
}

// Resolve looks name up from the innermost active scope outwards and then
// falls back to the local and main buckets, which are not always on the
// scope stack.
func (t *Table) Resolve(name string) (*Symbol, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if sym, ok := t.symbols[qualify(t.stack[i], name)]; ok {
			return sym, true
		}
	}
	for _, scope := range []string{ScopeLocal, ScopeMain, ScopeGlobal} {
		if sym, ok := t.symbols[qualify(scope, name)]; ok {
			return sym, true
		}
	}
	return nil, false
}

func (t *Table) MarkUsed(name string) bool {
	sym, ok := t.Resolve(name)
	if !ok {
		return false
	}
	sym.Used = true
	return true
}

func (t *Table) SetValue(name string, value any) bool {
	sym, ok := t.Resolve(name)
	if !ok {
		return false
	}
	sym.Value = value
	return true
}

// Symbols returns every symbol in declaration order.
func (t *Table) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(t.symbols))
	for _, sym := range t.symbols {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Unused returns declared variables that were never referenced. Classes,
// methods and the main parameter args are never reported.
func (t *Table) Unused() []*Symbol {
	var out []*Symbol
	for _, sym := range t.Symbols() {
		if sym.Used || !sym.IsVariable() || sym.Name == "args" {
			continue
		}
		out = append(out, sym)
	}
	return out
}

// Row is one line of a symbol table snapshot.
type Row struct {
	QualifiedName string `json:"qualifiedName"`
	Type          string `json:"type"`
	Line          int    `json:"line"`
	Value         string `json:"value"`
	Scope         string `json:"scope"`
	Used          bool   `json:"used"`
}

func (t *Table) Snapshot() []Row {
	syms := t.Symbols()
	rows := make([]Row, len(syms))
	for i, sym := range syms {
		rows[i] = Row{
			QualifiedName: sym.QualifiedName,
			Type:          sym.TypeName,
			Line:          sym.Line,
			Value:         sym.DisplayValue(),
			Scope:         sym.Scope,
			Used:          sym.Used,
		}
	}
	return rows
}

// Names returns the distinct unqualified names in the table, sorted.
func (t *Table) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, sym := range t.symbols {
		if !seen[sym.Name] {
			seen[sym.Name] = true
			names = append(names, sym.Name)
		}
	}
	sort.Strings(names)
	return names
}
