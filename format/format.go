// Package format renders analysis results for people and programs: as
// text tables, as tab-separated lines or as JSON.
package format

import (
	"fmt"
	"io"
)

// Document is one renderable result. Table and line encoders print
// Headers and Rows; the JSON encoder prints Value.
type Document struct {
	Title   string
	Headers []string
	Rows    [][]string
	Value   any
}

type Encoder interface {
	Encode(doc *Document) error
	Marshal(doc *Document) ([]byte, error)
}

// Names lists the encoders New understands.
var Names = []string{"table", "line", "json"}

// New returns the encoder called name writing to w. width bounds the
// table encoder; zero means DefaultWidth.
func New(name string, w io.Writer, width int) (Encoder, error) {
	switch name {
	case "table", "":
		return NewTableEncoder(w, width), nil
	case "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s (expected table, line or json)", name)
}

func write(w io.Writer, text []byte, err error) error {
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
