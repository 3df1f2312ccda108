package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	KindProgram

	// Declarations
	KindClassDecl
	KindFieldDecl
	KindMethodDecl
	KindModifiers
	KindType
	KindArrayType
	KindParameters
	KindParameter
	KindVarDeclarator

	// Statements
	KindBlock
	KindEmptyStmt
	KindExprStmt
	KindIfStmt
	KindForStmt
	KindForInit
	KindForUpdate
	KindWhileStmt
	KindDoStmt
	KindSwitchStmt
	KindSwitchCase
	KindSwitchLabel
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindLocalVarDecl
	KindPrintStmt

	// Expressions
	KindAssignExpr
	KindBinaryExpr
	KindUnaryExpr
	KindPostfixExpr
	KindCastExpr
	KindCallExpr
	KindFieldAccess
	KindArrayAccess
	KindNewExpr
	KindNewArrayExpr
	KindArrayInit
	KindParenExpr
	KindLiteral
	KindIdentifier
)

var nodeKindNames = map[NodeKind]string{
	KindError:         "Error",
	KindProgram:       "Program",
	KindClassDecl:     "ClassDecl",
	KindFieldDecl:     "FieldDecl",
	KindMethodDecl:    "MethodDecl",
	KindModifiers:     "Modifiers",
	KindType:          "Type",
	KindArrayType:     "ArrayType",
	KindParameters:    "Parameters",
	KindParameter:     "Parameter",
	KindVarDeclarator: "VarDeclarator",
	KindBlock:         "Block",
	KindEmptyStmt:     "EmptyStmt",
	KindExprStmt:      "ExprStmt",
	KindIfStmt:        "IfStmt",
	KindForStmt:       "ForStmt",
	KindForInit:       "ForInit",
	KindForUpdate:     "ForUpdate",
	KindWhileStmt:     "WhileStmt",
	KindDoStmt:        "DoStmt",
	KindSwitchStmt:    "SwitchStmt",
	KindSwitchCase:    "SwitchCase",
	KindSwitchLabel:   "SwitchLabel",
	KindReturnStmt:    "ReturnStmt",
	KindBreakStmt:     "BreakStmt",
	KindContinueStmt:  "ContinueStmt",
	KindLocalVarDecl:  "LocalVarDecl",
	KindPrintStmt:     "PrintStmt",
	KindAssignExpr:    "AssignExpr",
	KindBinaryExpr:    "BinaryExpr",
	KindUnaryExpr:     "UnaryExpr",
	KindPostfixExpr:   "PostfixExpr",
	KindCastExpr:      "CastExpr",
	KindCallExpr:      "CallExpr",
	KindFieldAccess:   "FieldAccess",
	KindArrayAccess:   "ArrayAccess",
	KindNewExpr:       "NewExpr",
	KindNewArrayExpr:  "NewArrayExpr",
	KindArrayInit:     "ArrayInit",
	KindParenExpr:     "ParenExpr",
	KindLiteral:       "Literal",
	KindIdentifier:    "Identifier",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Error describes what a production expected when it met Got instead.
type Error struct {
	Message string
	Got     *Token
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *Error
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n != nil && n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// Walk calls fn for n and every descendant in depth-first order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Errors collects every error node in the tree.
func (n *Node) Errors() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.IsError() {
			out = append(out, c)
		}
		return true
	})
	return out
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, true)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}
