package format

import (
	"encoding/json"
	"io"
)

type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(doc *Document) error {
	text, err := e.Marshal(doc)
	return write(e.w, text, err)
}

// Marshal indents doc.Value and ends it with a newline. A nil slice is
// printed as an empty array so consumers never see null.
func (e *JSONEncoder) Marshal(doc *Document) ([]byte, error) {
	value := doc.Value
	if value == nil {
		value = []struct{}{}
	}
	text, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}
