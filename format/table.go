package format

import (
	"io"

	"github.com/dekarrin/rosed"
)

const DefaultWidth = 100

type TableEncoder struct {
	w     io.Writer
	width int
}

func NewTableEncoder(w io.Writer, width int) *TableEncoder {
	if width <= 0 {
		width = DefaultWidth
	}
	return &TableEncoder{w: w, width: width}
}

func (e *TableEncoder) Encode(doc *Document) error {
	text, err := e.Marshal(doc)
	return write(e.w, text, err)
}

// Marshal draws a bordered table with a header row. An empty document
// prints "(none)" under its title.
func (e *TableEncoder) Marshal(doc *Document) ([]byte, error) {
	var out string
	if doc.Title != "" {
		out = doc.Title + "\n"
	}
	if len(doc.Rows) == 0 {
		return []byte(out + "(none)\n"), nil
	}

	data := make([][]string, 0, len(doc.Rows)+1)
	data = append(data, doc.Headers)
	for _, row := range doc.Rows {
		data = append(data, padRow(row, len(doc.Headers)))
	}

	table := rosed.Edit("").
		InsertTableOpts(0, data, e.width, rosed.Options{
			TableHeaders:             true,
			TableBorders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
	return []byte(out + table + "\n"), nil
}

// padRow gives every row at least as many cells as the header.
func padRow(row []string, n int) []string {
	if len(row) >= n {
		return row
	}
	padded := make([]string, n)
	copy(padded, row)
	return padded
}
