package parser

import "encoding/json"

type jsonNode struct {
	Kind      string      `json:"kind"`
	Span      *jsonSpan   `json:"span,omitempty"`
	Token     string      `json:"token,omitempty"`
	TokenKind string      `json:"tokenKind,omitempty"`
	Error     *jsonError  `json:"error,omitempty"`
	Children  []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

type jsonError struct {
	Message string `json:"message"`
	Got     string `json:"got,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{Kind: n.Kind.String()}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		jn.Span = &jsonSpan{
			Start: toJSONPosition(n.Span.Start),
			End:   toJSONPosition(n.Span.End),
		}
	}

	if n.Token != nil {
		jn.Token = n.Token.Literal
		jn.TokenKind = n.Token.Kind.String()
	}

	if n.Error != nil {
		jn.Error = &jsonError{Message: n.Error.Message}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.Literal
		}
	}

	for _, child := range n.Children {
		jn.Children = append(jn.Children, child.toJSON())
	}
	return jn
}

func toJSONPosition(p Position) jsonPosition {
	return jsonPosition{Line: p.Line, Column: p.Column, Offset: p.Offset}
}
