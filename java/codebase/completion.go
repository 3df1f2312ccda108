package codebase

import (
	"strings"
)

type CompletionKind int

const (
	CompletionKindKeyword CompletionKind = iota
	CompletionKindSnippet
	CompletionKindVariable
	CompletionKindMethod
	CompletionKindField
	CompletionKindClass
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
	IsSnippet  bool
}

var keywords = []string{
	"if", "else", "for", "while", "do", "switch", "case", "default",
	"break", "continue", "return", "try", "catch", "finally", "throw", "throws",
	"public", "private", "protected", "static", "final", "abstract",
	"native", "strictfp", "synchronized", "transient", "volatile",
	"class", "interface", "enum", "extends", "implements",
	"void", "int", "long", "short", "byte", "float", "double", "boolean", "char", "String",
	"new", "this", "super", "package", "import", "instanceof",
	"true", "false", "null",
}

var printMembers = []string{"print", "println", "printf"}

type snippet struct {
	label, body string
}

var snippets = []snippet{
	{"sout", "System.out.println($0);"},
	{"soutf", "System.out.printf($0);"},
	{"psvm", "public static void main(String[] args) {\n    $0\n}"},
	{"fori", "for (int i = 0; i < $0; i++) {\n}"},
	{"if", "if ($0) {\n}"},
	{"else", "else {\n    $0\n}"},
	{"!", "public class Main {\n    public static void main(String[] args) {\n        $0\n    }\n}"},
}

// CompletionsAtPoint offers completions for the word ending at line and
// column (1-based, column pointing just past the word). After
// "System.out." it offers the print methods; otherwise snippets,
// keywords, the file's symbol names and the members of known classes.
// A snippet wins over the keyword of the same name.
// Candidates starting with the typed prefix come before candidates that
// merely contain it.
func (c *Codebase) CompletionsAtPoint(path string, line, column int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	before := textBefore(f.Content, line, column)
	prefix := wordPrefix(before)

	if strings.HasSuffix(strings.TrimSuffix(before, prefix), "System.out.") {
		var items []CompletionItem
		for _, m := range printMembers {
			items = append(items, CompletionItem{Label: m, Kind: CompletionKindMethod, Detail: "PrintStream", InsertText: m + "($0)", IsSnippet: true})
		}
		return rank(items, prefix)
	}

	var items []CompletionItem
	for _, s := range snippets {
		items = append(items, CompletionItem{Label: s.label, Kind: CompletionKindSnippet, Detail: firstLine(s.body), InsertText: s.body, IsSnippet: true})
	}
	for _, kw := range keywords {
		items = append(items, CompletionItem{Label: kw, Kind: CompletionKindKeyword, InsertText: kw})
	}
	for _, name := range f.Names {
		items = append(items, CompletionItem{Label: name, Kind: CompletionKindVariable, InsertText: name})
	}
	for _, cls := range c.AllClasses() {
		items = append(items, CompletionItem{Label: cls.Name, Kind: CompletionKindClass, InsertText: cls.Name})
		for _, m := range cls.Methods {
			items = append(items, CompletionItem{Label: m.Name, Kind: CompletionKindMethod, Detail: m.ReturnType.String(), InsertText: m.Name + "($0)", IsSnippet: true})
		}
		for _, fld := range cls.Fields {
			items = append(items, CompletionItem{Label: fld.Name, Kind: CompletionKindField, Detail: fld.Type.String(), InsertText: fld.Name})
		}
	}
	return rank(items, prefix)
}

// rank drops duplicate labels and candidates that do not contain prefix
// (case-insensitively), then orders prefix matches first. Within each
// group the original order is kept.
func rank(items []CompletionItem, prefix string) []CompletionItem {
	pref := strings.ToLower(prefix)
	seen := make(map[string]bool)
	var begins, contains []CompletionItem
	for _, item := range items {
		if seen[item.Label] {
			continue
		}
		label := strings.ToLower(item.Label)
		switch {
		case strings.HasPrefix(label, pref):
			begins = append(begins, item)
		case strings.Contains(label, pref):
			contains = append(contains, item)
		default:
			continue
		}
		seen[item.Label] = true
	}
	return append(begins, contains...)
}

// textBefore returns the part of line (1-based) before column (1-based).
func textBefore(content []byte, line, column int) string {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}
	text := lines[line-1]
	end := min(max(column-1, 0), len(text))
	return text[:end]
}

func wordPrefix(text string) string {
	i := len(text)
	for i > 0 && isWordByte(text[i-1]) {
		i--
	}
	return text[i:]
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
