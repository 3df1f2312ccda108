package format

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/jfront/java"
	"github.com/dhamidi/jfront/java/diag"
	"github.com/dhamidi/jfront/java/ir"
	"github.com/dhamidi/jfront/java/parser"
	"github.com/dhamidi/jfront/java/scanner"
	"github.com/dhamidi/jfront/java/symtab"
)

type jsonToken struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Class  string `json:"class"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func Tokens(tokens []parser.Token) *Document {
	doc := &Document{
		Title:   "Tokens",
		Headers: []string{"#", "Line", "Col", "Class", "Kind", "Lexeme"},
	}
	values := make([]jsonToken, len(tokens))
	for i, tok := range tokens {
		values[i] = jsonToken{
			Index:  i,
			Kind:   tok.Kind.String(),
			Class:  tok.Kind.Class(),
			Lexeme: tok.Literal,
			Line:   tok.Span.Start.Line,
			Column: tok.Span.Start.Column,
		}
		doc.Rows = append(doc.Rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(tok.Span.Start.Line),
			strconv.Itoa(tok.Span.Start.Column),
			values[i].Class,
			values[i].Kind,
			tok.Literal,
		})
	}
	doc.Value = values
	return doc
}

func Diagnostics(diags diag.List) *Document {
	doc := &Document{
		Title:   "Diagnostics",
		Headers: []string{"Line", "Col", "Kind", "Message"},
		Value:   nonNil(diags),
	}
	for _, d := range diags {
		doc.Rows = append(doc.Rows, []string{
			strconv.Itoa(d.Line),
			strconv.Itoa(d.Col),
			d.Kind.String(),
			d.Message,
		})
	}
	return doc
}

func Symbols(rows []symtab.Row) *Document {
	doc := &Document{
		Title:   "Symbols",
		Headers: []string{"Name", "Type", "Line", "Value", "Scope", "Used"},
		Value:   nonNil(rows),
	}
	for _, r := range rows {
		doc.Rows = append(doc.Rows, []string{
			r.QualifiedName,
			r.Type,
			strconv.Itoa(r.Line),
			r.Value,
			r.Scope,
			strconv.FormatBool(r.Used),
		})
	}
	return doc
}

func Triples(triples []ir.Triple) *Document {
	doc := &Document{
		Title:   "Triples",
		Headers: []string{"#", "Op", "Arg1", "Arg2"},
		Value:   nonNil(triples),
	}
	for _, t := range triples {
		doc.Rows = append(doc.Rows, []string{
			"(" + strconv.Itoa(t.Index) + ")",
			t.Op.String(),
			orEmpty(t.Arg1),
			orEmpty(t.Arg2),
		})
	}
	return doc
}

func Quadruples(quads []ir.Quadruple) *Document {
	doc := &Document{
		Title:   "Quadruples",
		Headers: []string{"#", "Op", "Arg1", "Arg2", "Result"},
		Value:   nonNil(quads),
	}
	for _, q := range quads {
		doc.Rows = append(doc.Rows, []string{
			strconv.Itoa(q.Index),
			q.Op.String(),
			orEmpty(q.Arg1),
			orEmpty(q.Arg2),
			orEmpty(q.Result),
		})
	}
	return doc
}

func ObjectCode(code []ir.Instruction) *Document {
	doc := &Document{
		Title:   "Object code",
		Headers: []string{"Label", "Opcode", "Operand"},
		Value:   nonNil(code),
	}
	for _, in := range code {
		label := in.Label
		if label != "" {
			label += ":"
		}
		doc.Rows = append(doc.Rows, []string{label, in.Opcode, in.Operand})
	}
	return doc
}

// Stats lists the counters of s followed by one row per operator, sorted
// by symbol.
func Stats(s ir.Stats) *Document {
	doc := &Document{
		Title:   "Statistics",
		Headers: []string{"Metric", "Value"},
		Value:   s,
		Rows: [][]string{
			{"instructions", strconv.Itoa(s.Instructions)},
			{"temporaries", strconv.Itoa(s.Temporaries)},
			{"labels", strconv.Itoa(s.Labels)},
			{"jumps", strconv.Itoa(s.Jumps)},
			{"variables", strconv.Itoa(s.Variables)},
		},
	}
	ops := make([]string, 0, len(s.Ops))
	for op := range s.Ops {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		doc.Rows = append(doc.Rows, []string{"op " + op, strconv.Itoa(s.Ops[op])})
	}
	return doc
}

// Classes outlines class models one member per row: the class itself,
// then its fields, then its methods.
func Classes(models []*java.ClassModel) *Document {
	doc := &Document{
		Title:   "Classes",
		Headers: []string{"Kind", "Name", "Type", "Visibility", "Modifiers", "Line"},
		Value:   nonNil(models),
	}
	for _, m := range models {
		doc.Rows = append(doc.Rows, []string{
			"class", m.Name, "", string(m.Visibility),
			modifiers(map[string]bool{"final": m.IsFinal, "abstract": m.IsAbstract}),
			strconv.Itoa(m.Line),
		})
		for _, f := range m.Fields {
			doc.Rows = append(doc.Rows, []string{
				"field", f.Name, f.Type.String(), string(f.Visibility),
				modifiers(map[string]bool{"static": f.IsStatic, "final": f.IsFinal}),
				strconv.Itoa(f.Line),
			})
		}
		for _, meth := range m.Methods {
			doc.Rows = append(doc.Rows, []string{
				"method", meth.Name + "(" + parameters(meth.Parameters) + ")",
				meth.ReturnType.String(), string(meth.Visibility),
				modifiers(map[string]bool{"static": meth.IsStatic, "final": meth.IsFinal, "abstract": meth.IsAbstract}),
				strconv.Itoa(meth.Line),
			})
		}
	}
	return doc
}

// Tree flattens a syntax tree into one row per node, indenting the kind
// by depth.
func Tree(root *parser.Node) *Document {
	doc := &Document{
		Title:   "Syntax tree",
		Headers: []string{"Node", "Token", "Start", "End"},
		Value:   root,
	}
	var visit func(n *parser.Node, depth int)
	visit = func(n *parser.Node, depth int) {
		kind := strings.Repeat("  ", depth) + n.Kind.String()
		if n.Error != nil {
			kind += " ERROR: " + n.Error.Message
		}
		doc.Rows = append(doc.Rows, []string{
			kind, n.TokenLiteral(), n.Span.Start.String(), n.Span.End.String(),
		})
		for _, child := range n.Children {
			visit(child, depth+1)
		}
	}
	if root != nil {
		visit(root, 0)
	}
	return doc
}

// Problems lists validation errors one per row.
func Problems(errs []error) *Document {
	doc := &Document{
		Title:   "Problems",
		Headers: []string{"Problem"},
	}
	messages := []string{}
	for _, err := range errs {
		messages = append(messages, err.Error())
		doc.Rows = append(doc.Rows, []string{err.Error()})
	}
	doc.Value = messages
	return doc
}

var scanKinds = []diag.Kind{diag.Lexical, diag.Structural, diag.Syntactic, diag.Semantic, diag.Warning}

// Scan prints one row per file with its diagnostic counts by kind.
// Files that could not be read show the read error in place of the
// classes.
func Scan(result *scanner.Result) *Document {
	doc := &Document{
		Title:   "Scan " + result.ID,
		Headers: []string{"File"},
		Value:   result,
	}
	for _, kind := range scanKinds {
		doc.Headers = append(doc.Headers, kind.String())
	}
	doc.Headers = append(doc.Headers, "Classes")

	for _, f := range result.Files {
		row := []string{f.Path}
		for _, kind := range scanKinds {
			row = append(row, strconv.Itoa(f.Counts[kind.String()]))
		}
		switch {
		case f.Error != "":
			row = append(row, "error: "+f.Error)
		case f.Gated:
			row = append(row, "(gated)")
		default:
			row = append(row, strings.Join(f.Classes, ","))
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc
}

var modifierOrder = []string{"abstract", "static", "final"}

func modifiers(set map[string]bool) string {
	var mods []string
	for _, m := range modifierOrder {
		if set[m] {
			mods = append(mods, m)
		}
	}
	return strings.Join(mods, ",")
}

func parameters(params []java.ParameterModel) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type.String()
	}
	return strings.Join(parts, ",")
}

func orEmpty(s string) string {
	if s == "" {
		return ir.Empty
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
