// Package java is the entry point to the front end. Every function takes
// source text, builds its own lexer, symbol table and counters, and
// returns plain values, so calls never share state.
package java

import (
	"github.com/dhamidi/jfront/java/diag"
	"github.com/dhamidi/jfront/java/ir"
	"github.com/dhamidi/jfront/java/parser"
	"github.com/dhamidi/jfront/java/semantic"
	"github.com/dhamidi/jfront/java/symtab"
)

type config struct {
	file           string
	warnings       bool
	structuralGate bool
}

type Option func(*config)

// WithFile names the source in token positions.
func WithFile(path string) Option {
	return func(c *config) {
		c.file = path
	}
}

// WithWarnings controls the unused-variable warnings appended after a
// parse. They are on by default.
func WithWarnings(on bool) Option {
	return func(c *config) {
		c.warnings = on
	}
}

// WithStructuralGate controls whether Check stops after the structural
// scan when it found problems. It is on by default.
func WithStructuralGate(on bool) Option {
	return func(c *config) {
		c.structuralGate = on
	}
}

func newConfig(opts []Option) *config {
	c := &config{warnings: true, structuralGate: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *config) parserOptions(table *symtab.Table) []parser.Option {
	opts := []parser.Option{parser.WithFile(c.file), parser.WithSymbols(table)}
	if !c.warnings {
		opts = append(opts, parser.WithoutWarnings())
	}
	return opts
}

type TokenizeResult struct {
	Tokens      []parser.Token `json:"tokens"`
	Diagnostics diag.List      `json:"diagnostics"`
	Symbols     []symtab.Row   `json:"symbols"`
}

// Tokenize lexes src and collects the declarations the lexer sees on
// the way.
func Tokenize(src []byte, opts ...Option) *TokenizeResult {
	c := newConfig(opts)
	table := symtab.New()
	tokens, diags := parser.Tokenize(src, c.file, table)
	return &TokenizeResult{Tokens: tokens, Diagnostics: diags, Symbols: table.Snapshot()}
}

// CheckStructure runs the character scan for unbalanced delimiters and
// unterminated literals or comments, plus the check for print statements
// missing their semicolon.
func CheckStructure(src []byte) diag.List {
	diags := diag.ScanStructure(src)
	tokens, _ := parser.Tokenize(src, "", nil)
	return append(diags, checkPrintSemicolons(tokens)...)
}

type ParseResult struct {
	Tree        *parser.Node `json:"tree"`
	Diagnostics diag.List    `json:"diagnostics"`
	Symbols     []symtab.Row `json:"symbols"`
	Unused      []string     `json:"unused,omitempty"`
}

// Parse checks src against the grammar. Lexical diagnostics come first,
// then syntactic and semantic ones in source order, then warnings.
func Parse(src []byte, opts ...Option) *ParseResult {
	c := newConfig(opts)
	table := symtab.New()
	tree, p := parser.ParseSource(src, c.parserOptions(table)...)

	result := &ParseResult{
		Tree:        tree,
		Diagnostics: p.Diagnostics(),
		Symbols:     table.Snapshot(),
	}
	for _, sym := range table.Unused() {
		result.Unused = append(result.Unused, sym.Name)
	}
	return result
}

// AnalyzeSemantics runs the token-level semantic pass on its own.
func AnalyzeSemantics(src []byte) diag.List {
	return semantic.AnalyzeSource(src)
}

func GenerateTriples(src []byte) []ir.Triple {
	return ir.GenerateTriples(src)
}

func GenerateQuadruples(src []byte) []ir.Quadruple {
	return ir.GenerateQuadruples(src)
}

// Report is the outcome of the full pipeline.
type Report struct {
	Diagnostics diag.List    `json:"diagnostics"`
	Symbols     []symtab.Row `json:"symbols"`
	Tree        *parser.Node `json:"tree,omitempty"`

	// Gated is set when structural problems stopped the run before the
	// parser.
	Gated bool `json:"gated"`
}

func (r *Report) HasErrors() bool {
	return r.Diagnostics.HasErrors()
}

// Check runs the structural scan, then the parser and the semantic pass.
// When the structural scan reports anything and the gate is on, only its
// findings are returned. Diagnostics the semantic pass shares with the
// parser (same kind, line and message) are reported once.
func Check(src []byte, opts ...Option) *Report {
	c := newConfig(opts)
	structural := CheckStructure(src)
	if len(structural) > 0 && c.structuralGate {
		return &Report{Diagnostics: structural, Gated: true}
	}

	parsed := Parse(src, opts...)
	diags := append(structural, parsed.Diagnostics...)
	diags = append(diags, merge(parsed.Diagnostics, semantic.AnalyzeSource(src))...)
	return &Report{
		Diagnostics: diags,
		Symbols:     parsed.Symbols,
		Tree:        parsed.Tree,
	}
}

type diagKey struct {
	kind    diag.Kind
	line    int
	message string
}

// merge returns the diagnostics of extra that seen does not already hold.
func merge(seen, extra diag.List) diag.List {
	known := make(map[diagKey]bool, len(seen))
	for _, d := range seen {
		known[diagKey{d.Kind, d.Line, d.Message}] = true
	}
	var out diag.List
	for _, d := range extra {
		if !known[diagKey{d.Kind, d.Line, d.Message}] {
			out = append(out, d)
		}
	}
	return out
}
