package parser

import (
	"strings"
	"testing"

	"github.com/dhamidi/jfront/java/diag"
)

func parse(t *testing.T, src string) (*Node, diag.List) {
	t.Helper()
	tree, p := ParseSource([]byte(src), WithFile("Test.java"))
	if tree == nil {
		t.Fatal("ParseSource returned a nil tree")
	}
	return tree, p.Diagnostics()
}

func messages(diags diag.List) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}

func mainProgram(body string) string {
	return "public class T {\n    public static void main(String[] args) {\n" + body + "\n    }\n}\n"
}

func TestParseMinimalProgram(t *testing.T) {
	_, diags := parse(t, `public class Main { public static void main(String[] args) { int x = 5; } }`)

	for _, kind := range []diag.Kind{diag.Lexical, diag.Structural, diag.Syntactic, diag.Semantic} {
		if n := diags.Count(kind); n != 0 {
			t.Errorf("got %d %v diagnostics: %v", n, kind, messages(diags))
		}
	}
	if diags.Count(diag.Warning) != 1 {
		t.Errorf("want one unused warning, got %v", messages(diags))
	}
}

func TestParseCompleteProgram(t *testing.T) {
	src := `public class Calc {
    static int total = 0;

    static int square(int n) {
        return n * n;
    }

    public static void main(String[] args) {
        int[] values = new int[3];
        double ratio = 2.5;
        char grade = 'A';
        boolean done = false;
        String label = "sum";
        for (int i = 0; i < values.length; i++) {
            values[i] = square(i);
            total += values[i];
        }
        int k = 0;
        while (k < 3) {
            k++;
        }
        do {
            k--;
        } while (k > 0);
        switch (grade) {
            case 'A':
                System.out.println("top");
                break;
            default:
                System.out.println("other");
        }
        if (!done && ratio > 1.0) {
            System.out.println(label + total);
        } else {
            System.out.print(label);
        }
        int casted = (int) ratio;
        System.out.println(Math.max(casted, k));
    }
}`
	tree, diags := parse(t, src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", messages(diags))
	}
	if errs := tree.Errors(); len(errs) != 0 {
		t.Errorf("tree has %d error nodes", len(errs))
	}

	class := tree.FirstChildOfKind(KindClassDecl)
	if class == nil || class.TokenLiteral() != "Calc" {
		t.Fatalf("missing class Calc:\n%s", tree)
	}
	if got := len(class.ChildrenOfKind(KindMethodDecl)); got != 2 {
		t.Errorf("got %d methods, want 2", got)
	}
	if got := len(class.ChildrenOfKind(KindFieldDecl)); got != 1 {
		t.Errorf("got %d fields, want 1", got)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		lines []int
		want  []string
	}{
		{
			name:  "missing semicolon",
			body:  "        int x = 5\n        System.out.println(x);",
			lines: []int{4},
			want:  []string{"unexpected token 'System'"},
		},
		{
			name:  "errors on separate statements",
			body:  "        int x = ;\n        int y = );\n        x = y;",
			lines: []int{3, 4},
			want:  []string{"unexpected or missing semicolon ';'", "unbalanced parentheses '()'"},
		},
		{
			name:  "stray identifier",
			body:  "        int x = 1;\n        x = 1 y;\n        x = 2;",
			lines: []int{4},
			want:  []string{"'y' might need to be declared first"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := parse(t, mainProgram(tt.body))
			syntax := diags.Filter(diag.Syntactic)
			if len(syntax) != len(tt.want) {
				t.Fatalf("got %d syntax errors, want %d: %v", len(syntax), len(tt.want), messages(syntax))
			}
			for i, d := range syntax {
				if d.Line != tt.lines[i] {
					t.Errorf("error %d on line %d, want %d", i, d.Line, tt.lines[i])
				}
				if !strings.Contains(d.Message, tt.want[i]) {
					t.Errorf("error %d = %q, want it to contain %q", i, d.Message, tt.want[i])
				}
				if !strings.HasPrefix(d.Message, "syntax error at line ") {
					t.Errorf("error %d = %q lacks the line prefix", i, d.Message)
				}
			}
		})
	}
}

func TestParseUnexpectedEOF(t *testing.T) {
	tests := []string{
		"public class A { ",
		"public class A { public static void main(String[] args) { int x = 5;",
		"public class A { void f() { if (",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, diags := parse(t, src)
			count := 0
			for _, d := range diags {
				if strings.Contains(d.Message, "unexpected end of file") {
					count++
				}
			}
			if count != 1 {
				t.Errorf("got %d end-of-file errors, want 1: %v", count, messages(diags))
			}
		})
	}
}

func TestParsePrechecks(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", "no code to analyze"},
		{"only comments", "// nothing here\n", "no code to analyze"},
		{"no class", "int x = 5;", "must contain a class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := parse(t, tt.src)
			if len(diags) != 1 || !strings.Contains(diags[0].Message, tt.want) {
				t.Errorf("got %v, want one diagnostic containing %q", messages(diags), tt.want)
			}
		})
	}
}

func TestParseSemanticActions(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		semantic []string
	}{
		{
			name:     "redeclaration in one block",
			src:      mainProgram("        int x = 1;\n        int x = 2;\n        System.out.println(x);"),
			semantic: []string{"'x' is already declared on line 3"},
		},
		{
			name:     "sequential loops reuse their counter",
			src:      mainProgram("        for (int i = 0; i < 3; i++) { System.out.println(i); }\n        for (int i = 0; i < 3; i++) { System.out.println(i); }"),
			semantic: nil,
		},
		{
			name:     "undeclared variable",
			src:      mainProgram("        int x = 5;\n        y = x;"),
			semantic: []string{"y not declared"},
		},
		{
			name:     "undeclared method",
			src:      mainProgram("        missing();"),
			semantic: []string{"missing not declared"},
		},
		{
			name: "method called before its declaration",
			src: `public class A {
    public static void main(String[] args) { helper(); }
    static void helper() { }
}`,
			semantic: nil,
		},
		{
			name:     "parameter shadowed in body",
			src:      "public class A {\n    static int f(int n) {\n        int n = 2;\n        return n;\n    }\n}",
			semantic: []string{"'n' is already declared on line 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := parse(t, tt.src)
			if n := diags.Count(diag.Syntactic); n != 0 {
				t.Errorf("unexpected syntax errors: %v", messages(diags))
			}
			got := messages(diags.Filter(diag.Semantic))
			if len(got) != len(tt.semantic) {
				t.Fatalf("semantic diagnostics = %v, want %v", got, tt.semantic)
			}
			for i := range got {
				if got[i] != tt.semantic[i] {
					t.Errorf("semantic %d = %q, want %q", i, got[i], tt.semantic[i])
				}
			}
		})
	}
}

func TestParseInvalidVariableType(t *testing.T) {
	_, diags := parse(t, mainProgram("        Scanner sc = null;\n        System.out.println(sc);"))
	syntax := diags.Filter(diag.Syntactic)
	if len(syntax) != 1 || syntax[0].Message != "invalid variable type 'Scanner'" {
		t.Errorf("got %v", messages(syntax))
	}
}

func TestParseMainBracketsSuppressed(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"main parameter", "public class A { public static void main(String[ args) { } }", false},
		{"other method with String", "public class A { static void f(String[ args) { } }", true},
		{"other method with int", "public class A { static void f(int[ a) { } }", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := parse(t, tt.src)
			got := false
			for _, d := range diags {
				if strings.Contains(d.Message, "incorrect use of brackets") {
					got = true
				}
			}
			if got != tt.want {
				t.Errorf("bracket error reported = %v, want %v: %v", got, tt.want, messages(diags))
			}
		})
	}
}

func TestParseBodyAfterParameterError(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		syntax int
	}{
		{
			name:   "main",
			src:    `public class A {
    public static void main(String[ args) {
        int x = 1;
        System.out.println(x);
    }
}
`,
			syntax: 0,
		},
		{
			name:   "other method",
			src:    `public class A {
    static void f(String[ args) {
        int x = 1;
        System.out.println(x);
    }
}
`,
			syntax: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, diags := parse(t, tt.src)
			if n := diags.Count(diag.Syntactic); n != tt.syntax {
				t.Errorf("got %d syntax errors, want %d: %v", n, tt.syntax, messages(diags))
			}
			for _, d := range diags {
				if strings.Contains(d.Message, "braces") || strings.Contains(d.Message, "'System'") {
					t.Errorf("body parsed as class members: %q", d.Message)
				}
			}

			class := tree.FirstChildOfKind(KindClassDecl)
			if class == nil {
				t.Fatalf("missing class:\n%s", tree)
			}
			methods := class.ChildrenOfKind(KindMethodDecl)
			if len(methods) != 1 {
				t.Fatalf("got %d methods, want 1", len(methods))
			}
			if len(methods[0].ChildrenOfKind(KindBlock)) != 1 {
				t.Error("method body was not parsed")
			}
		})
	}
}

func TestParseHaltsAtEndOfFile(t *testing.T) {
	_, p := ParseSource([]byte("public class A { void f() { int x = (1 + "))
	if !p.halted {
		t.Error("recovery that reaches the end of file should halt the parser")
	}

	_, p = ParseSource([]byte(mainProgram(`        int x = ;
        System.out.println(x);`)))
	if p.halted {
		t.Error("recovery at a semicolon should not halt the parser")
	}
}

func TestParseUnusedWarning(t *testing.T) {
	_, diags := parse(t, mainProgram("        int unused = 1;"))
	warnings := diags.Filter(diag.Warning)
	if len(warnings) != 1 {
		t.Fatalf("got %v, want one warning", messages(diags))
	}
	if want := "variable 'unused' declared on line 3 is never used"; warnings[0].Message != want {
		t.Errorf("warning = %q, want %q", warnings[0].Message, want)
	}
}

func TestParseWithoutWarnings(t *testing.T) {
	_, p := ParseSource([]byte(mainProgram("        int unused = 1;")), WithoutWarnings())
	if n := p.Diagnostics().Count(diag.Warning); n != 0 {
		t.Errorf("got %d warnings", n)
	}
}

// render prints an expression fully parenthesized.
func render(n *Node) string {
	switch n.Kind {
	case KindBinaryExpr, KindAssignExpr:
		return "(" + render(n.Children[0]) + n.TokenLiteral() + render(n.Children[1]) + ")"
	case KindUnaryExpr:
		return "(" + n.TokenLiteral() + render(n.Children[0]) + ")"
	case KindPostfixExpr:
		return "(" + render(n.Children[0]) + n.TokenLiteral() + ")"
	case KindParenExpr:
		return render(n.Children[0])
	}
	return n.TokenLiteral()
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"2 + 3 * 4", "(2+(3*4))"},
		{"10 - 4 - 3", "((10-4)-3)"},
		{"a || b && c", "(a||(b&&c))"},
		{"-a * b", "((-a)*b)"},
		{"a++ + b", "((a++)+b)"},
		{"a == b | c", "((a==b)|c)"},
		{"a << 1 + b", "(a<<(1+b))"},
		{"(a + b) * c", "((a+b)*c)"},
		{"a = b = c", "(a=(b=c))"},
		{"!a && b", "((!a)&&b)"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			src := mainProgram("        int a = 1;\n        int b = 2;\n        int c = 3;\n        int r = " + tt.expr + ";")
			tree, diags := parse(t, src)
			if n := diags.Count(diag.Syntactic); n != 0 {
				t.Fatalf("syntax errors: %v", messages(diags))
			}

			var init *Node
			tree.Walk(func(n *Node) bool {
				if n.Kind == KindVarDeclarator && n.TokenLiteral() == "r" && len(n.Children) > 0 {
					init = n.Children[0]
				}
				return true
			})
			if init == nil {
				t.Fatalf("declarator r not found:\n%s", tree)
			}
			if got := render(init); got != tt.want {
				t.Errorf("render = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseRecordsLiteralValues(t *testing.T) {
	_, p := ParseSource([]byte(mainProgram("        int x = 5;\n        x = 7;\n        System.out.println(x);")))
	sym, ok := p.Symbols().Resolve("x")
	if !ok {
		t.Fatal("x not in table")
	}
	if sym.Value != int64(7) {
		t.Errorf("Value = %#v, want 7", sym.Value)
	}
}
