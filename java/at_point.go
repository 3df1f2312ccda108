package java

import (
	"github.com/dhamidi/jfront/java/parser"
)

// NodeAtPoint returns the innermost node whose span contains pos. Only
// line and column of pos are compared.
func NodeAtPoint(root *parser.Node, pos parser.Position) *parser.Node {
	if root == nil || !positionInSpan(pos, root.Span) {
		return nil
	}
	for _, child := range root.Children {
		if found := NodeAtPoint(child, pos); found != nil {
			return found
		}
	}
	return root
}

// TypeAtPoint returns the declared type of the identifier at pos, for
// example "int[]" for an array local. Locals declared before pos shadow
// parameters, which shadow fields. It returns "" when the name is not a
// variable.
func TypeAtPoint(root *parser.Node, pos parser.Position) string {
	node := NodeAtPoint(root, pos)
	if node == nil || node.Kind != parser.KindIdentifier || node.Token == nil {
		return ""
	}
	typ, ok := resolveVariableType(root, node.Token.Literal, pos)
	if !ok {
		return ""
	}
	return typ.String()
}

func resolveVariableType(root *parser.Node, name string, pos parser.Position) (TypeModel, bool) {
	class := findEnclosing(root, pos, parser.KindClassDecl)
	if class == nil {
		return TypeModel{}, false
	}
	if method := findEnclosing(class, pos, parser.KindMethodDecl); method != nil && method.Token != nil {
		model := methodModelFromMethodDecl(method)
		found := false
		var local LocalModel
		for _, l := range model.Locals {
			if l.Name == name && l.Line <= pos.Line {
				local, found = l, true
			}
		}
		if found {
			return local.Type, true
		}
		for _, p := range model.Parameters {
			if p.Name == name {
				return p.Type, true
			}
		}
	}
	if class.Token == nil {
		return TypeModel{}, false
	}
	for _, f := range classModelFromClassDecl(class).Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return TypeModel{}, false
}

// findEnclosing returns the outermost node of kind below root that
// contains pos.
func findEnclosing(root *parser.Node, pos parser.Position, kind parser.NodeKind) *parser.Node {
	var found *parser.Node
	root.Walk(func(n *parser.Node) bool {
		if found != nil || !positionInSpan(pos, n.Span) {
			return false
		}
		if n.Kind == kind {
			found = n
			return false
		}
		return true
	})
	return found
}

func positionInSpan(pos parser.Position, span parser.Span) bool {
	return !positionBefore(pos, span.Start) && positionBefore(pos, span.End)
}

func positionBefore(a, b parser.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}
