package java

import (
	"testing"

	"github.com/dhamidi/jfront/java/parser"
)

func TestTypeAtPoint(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		line     int
		column   int
		wantType string
	}{
		{
			name: "local variable",
			source: `public class Example {
  public static void main(String[] args) {
    int count = 1;
    count = count + 1;
  }
}`,
			line:     4,
			column:   5, // on 'c' of count
			wantType: "int",
		},
		{
			name: "main parameter",
			source: `public class Example {
  public static void main(String[] args) {
    int n = args.length;
  }
}`,
			line:     3,
			column:   13, // on 'a' of args
			wantType: "String[]",
		},
		{
			name: "field",
			source: `public class Example {
  static double rate = 0.5;
  static void f() {
    rate = 1.0;
  }
}`,
			line:     4,
			column:   5,
			wantType: "double",
		},
		{
			name: "local shadows field",
			source: `public class Example {
  static double v;
  static void f() {
    String v = "x";
    v = "y";
  }
}`,
			line:     5,
			column:   5,
			wantType: "String",
		},
		{
			name: "loop variable",
			source: `public class Example {
  static void f() {
    for (int i = 0; i < 2; i++) {
      i = i;
    }
  }
}`,
			line:     4,
			column:   7,
			wantType: "int",
		},
		{
			name: "not an identifier",
			source: `public class Example {
  static void f() {
    int x = 42;
  }
}`,
			line:     3,
			column:   13, // on the literal
			wantType: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse([]byte(tt.source)).Tree
			got := TypeAtPoint(tree, parser.Position{Line: tt.line, Column: tt.column})
			if got != tt.wantType {
				t.Errorf("TypeAtPoint() = %q, want %q", got, tt.wantType)
			}
		})
	}
}

func TestNodeAtPoint(t *testing.T) {
	tree := Parse([]byte("class A {\n  void f() { int x = 1; }\n}")).Tree
	node := NodeAtPoint(tree, parser.Position{Line: 2, Column: 22})
	if node == nil || node.Kind != parser.KindLiteral {
		t.Fatalf("Expected literal, got %v", node)
	}
	if NodeAtPoint(tree, parser.Position{Line: 9, Column: 1}) != nil {
		t.Error("Expected no node past the end")
	}
}
