// Package diag defines the diagnostics every analysis pass reports and the
// character-level structural scan that runs before any of them.
package diag

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Kind int

const (
	Lexical Kind = iota
	Structural
	Syntactic
	Semantic
	Warning
)

var kindNames = map[Kind]string{
	Lexical:    "lexical",
	Structural: "structural",
	Syntactic:  "syntactic",
	Semantic:   "semantic",
	Warning:    "warning",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown diagnostic kind %q", s)
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Diagnostic is one finding of an analysis run. Line and Col are 1-based,
// Start is the byte offset into the source and Length the number of bytes
// the finding covers.
type Diagnostic struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Start   int    `json:"start"`
	Length  int    `json:"length"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Col, d.Kind, d.Message)
}

// IsError reports whether d should fail a run. Warnings never do.
func (d Diagnostic) IsError() bool {
	return d.Kind != Warning
}

type List []Diagnostic

func (l List) Count(kind Kind) int {
	n := 0
	for _, d := range l {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func (l List) Filter(kinds ...Kind) List {
	var out List
	for _, d := range l {
		for _, k := range kinds {
			if d.Kind == k {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func (l List) HasErrors() bool {
	for _, d := range l {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Collector accumulates diagnostics for a single run.
type Collector struct {
	src   []byte
	items List
}

func NewCollector(src []byte) *Collector {
	return &Collector{src: src}
}

// At records a diagnostic at a byte offset, deriving line and column from
// the source.
func (c *Collector) At(kind Kind, offset, length int, format string, args ...any) {
	line, col := LineCol(c.src, offset)
	c.items = append(c.items, Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Col:     col,
		Start:   offset,
		Length:  length,
	})
}

func (c *Collector) Add(d Diagnostic) {
	c.items = append(c.items, d)
}

func (c *Collector) List() List {
	return c.items
}

func (c *Collector) Len() int {
	return len(c.items)
}

// LineCol converts a byte offset into a 1-based line and column.
func LineCol(src []byte, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
