package parser

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindError, "Error"},
		{KindProgram, "Program"},
		{KindClassDecl, "ClassDecl"},
		{KindMethodDecl, "MethodDecl"},
		{KindLocalVarDecl, "LocalVarDecl"},
		{KindPrintStmt, "PrintStmt"},
		{KindDoStmt, "DoStmt"},
		{KindAssignExpr, "AssignExpr"},
		{KindNewArrayExpr, "NewArrayExpr"},
		{NodeKind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("NodeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestNodeAddChild(t *testing.T) {
	parent := &Node{Kind: KindClassDecl}
	child1 := &Node{Kind: KindMethodDecl}
	child2 := &Node{Kind: KindFieldDecl}

	parent.AddChild(child1)
	parent.AddChild(child2)
	parent.AddChild(nil)

	if len(parent.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(parent.Children))
	}
	if parent.Children[0] != child1 || parent.Children[1] != child2 {
		t.Error("children out of order")
	}
}

func TestNodeIsError(t *testing.T) {
	var missing *Node
	if missing.IsError() {
		t.Error("nil node reported as error")
	}
	if !(&Node{Kind: KindError}).IsError() {
		t.Error("Expected IsError() to be true for error node")
	}
	if (&Node{Kind: KindClassDecl}).IsError() {
		t.Error("Expected IsError() to be false for non-error node")
	}
}

func TestNodeChildLookup(t *testing.T) {
	method1 := &Node{Kind: KindMethodDecl, Token: &Token{Literal: "method1"}}
	method2 := &Node{Kind: KindMethodDecl, Token: &Token{Literal: "method2"}}
	field := &Node{Kind: KindFieldDecl}
	parent := &Node{Kind: KindClassDecl, Children: []*Node{field, method1, method2}}

	t.Run("first of kind", func(t *testing.T) {
		if got := parent.FirstChildOfKind(KindMethodDecl); got != method1 {
			t.Error("Expected to find first method")
		}
		if got := parent.FirstChildOfKind(KindIfStmt); got != nil {
			t.Error("Expected nil for non-existent kind")
		}
	})

	t.Run("all of kind", func(t *testing.T) {
		if got := parent.ChildrenOfKind(KindMethodDecl); len(got) != 2 {
			t.Errorf("Expected 2 methods, got %d", len(got))
		}
		if got := parent.ChildrenOfKind(KindIfStmt); len(got) != 0 {
			t.Errorf("Expected no matches, got %d", len(got))
		}
	})
}

func TestNodeWalk(t *testing.T) {
	leaf := &Node{Kind: KindIdentifier}
	skipped := &Node{Kind: KindBlock, Children: []*Node{{Kind: KindLiteral}}}
	root := &Node{Kind: KindProgram, Children: []*Node{leaf, skipped}}

	var seen []NodeKind
	root.Walk(func(n *Node) bool {
		seen = append(seen, n.Kind)
		return n.Kind != KindBlock
	})

	want := []NodeKind{KindProgram, KindIdentifier, KindBlock}
	if len(seen) != len(want) {
		t.Fatalf("visited %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("visit %d = %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestNodeErrors(t *testing.T) {
	bad := &Node{Kind: KindError, Error: &Error{Message: "expected expression"}}
	root := &Node{Kind: KindProgram, Children: []*Node{
		{Kind: KindClassDecl, Children: []*Node{bad}},
	}}

	errs := root.Errors()
	if len(errs) != 1 || errs[0] != bad {
		t.Errorf("Errors() = %v, want the one error node", errs)
	}
}

func TestNodeString(t *testing.T) {
	root := &Node{Kind: KindClassDecl, Token: &Token{Literal: "Main"}, Children: []*Node{
		{Kind: KindError, Error: &Error{Message: "expected member name"}},
	}}

	got := root.String()
	want := "ClassDecl Main\n  Error ERROR: expected member name\n"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNodeMarshalJSON(t *testing.T) {
	tok := Token{Kind: TokenIdent, Literal: "x", Span: Span{
		Start: Position{Line: 1, Column: 5, Offset: 4},
		End:   Position{Line: 1, Column: 6, Offset: 5},
	}}
	node := &Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span}

	data, err := json.Marshal(node)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(data)
	for _, want := range []string{`"kind":"Identifier"`, `"token":"x"`, `"tokenKind":"Identifier"`, `"offset":4`} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON %s does not contain %s", got, want)
		}
	}
}
