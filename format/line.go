package format

import (
	"io"
	"strings"
)

// LineEncoder prints one tab-separated line per row, without headers,
// for grep and cut. Empty cells become "-".
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(doc *Document) error {
	text, err := e.Marshal(doc)
	return write(e.w, text, err)
}

func (e *LineEncoder) Marshal(doc *Document) ([]byte, error) {
	var sb strings.Builder
	for _, row := range doc.Rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteByte('\t')
			}
			if cell == "" {
				cell = "-"
			}
			sb.WriteString(strings.ReplaceAll(cell, "\t", " "))
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}
