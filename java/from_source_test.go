package java

import (
	"testing"
)

const calculator = `public class Calc {
    private static int total = 10;
    final String label;

    static int twice(int n, int[] xs) {
        return n * 2;
    }

    public static void main(String[] args) {
        int x = 5;
        for (int i = 0; i < 3; i++) {
            double d = 1.5;
        }
    }
}
`

func findMethod(cls *ClassModel, name string) *MethodModel {
	for i := range cls.Methods {
		if cls.Methods[i].Name == name {
			return &cls.Methods[i]
		}
	}
	return nil
}

func TestClassModelsFromSource(t *testing.T) {
	models := ClassModelsFromSource([]byte(calculator))
	if len(models) != 1 {
		t.Fatalf("Expected 1 class model, got %d", len(models))
	}
	cls := models[0]

	t.Run("class", func(t *testing.T) {
		if cls.Name != "Calc" {
			t.Errorf("Expected class name Calc, got %q", cls.Name)
		}
		if cls.Visibility != VisibilityPublic {
			t.Errorf("Expected public class, got %s", cls.Visibility)
		}
		if cls.Line != 1 || cls.EndLine != 15 {
			t.Errorf("Expected lines 1-15, got %d-%d", cls.Line, cls.EndLine)
		}
	})

	t.Run("fields", func(t *testing.T) {
		if len(cls.Fields) != 2 {
			t.Fatalf("Expected 2 fields, got %d", len(cls.Fields))
		}
		total := cls.Fields[0]
		if total.Name != "total" || total.Type.String() != "int" || !total.IsStatic {
			t.Errorf("Unexpected field %+v", total)
		}
		if total.Visibility != VisibilityPrivate {
			t.Errorf("Expected private, got %s", total.Visibility)
		}
		if total.Value != int64(10) {
			t.Errorf("Expected value 10, got %v", total.Value)
		}
		label := cls.Fields[1]
		if label.Visibility != VisibilityPackage || !label.IsFinal || label.Value != nil {
			t.Errorf("Unexpected field %+v", label)
		}
	})

	t.Run("method parameters", func(t *testing.T) {
		twice := findMethod(cls, "twice")
		if twice == nil {
			t.Fatal("Expected to find twice")
		}
		if twice.ReturnType.String() != "int" {
			t.Errorf("Expected int return, got %s", twice.ReturnType)
		}
		if len(twice.Parameters) != 2 {
			t.Fatalf("Expected 2 parameters, got %d", len(twice.Parameters))
		}
		if twice.Parameters[1].Name != "xs" || !twice.Parameters[1].Type.IsArray() {
			t.Errorf("Unexpected parameter %+v", twice.Parameters[1])
		}
		if twice.IsMain() {
			t.Error("twice is not main")
		}
	})

	t.Run("main and locals", func(t *testing.T) {
		main := findMethod(cls, "main")
		if main == nil {
			t.Fatal("Expected to find main")
		}
		if !main.IsMain() {
			t.Error("Expected main to be the entry point")
		}
		var names []string
		for _, l := range main.Locals {
			names = append(names, l.Name+":"+l.Type.String())
		}
		want := []string{"x:int", "i:int", "d:double"}
		if len(names) != len(want) {
			t.Fatalf("Expected locals %v, got %v", want, names)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("local %d: expected %s, got %s", i, want[i], names[i])
			}
		}
	})
}

func TestClassModelsSkipBrokenMembers(t *testing.T) {
	models := ClassModelsFromSource([]byte("class A {\n    int x = ;\n    void f() { }\n}"))
	if len(models) != 1 {
		t.Fatalf("Expected 1 class model, got %d", len(models))
	}
	if findMethod(models[0], "f") == nil {
		t.Error("Expected f to survive the broken field")
	}
}

func TestTypeModel(t *testing.T) {
	tests := []struct {
		typ       TypeModel
		str       string
		primitive bool
	}{
		{TypeModel{Name: "int"}, "int", true},
		{TypeModel{Name: "int", ArrayDepth: 2}, "int[][]", false},
		{TypeModel{Name: "String"}, "String", false},
		{TypeModel{Name: "void"}, "void", false},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := tt.typ.IsPrimitive(); got != tt.primitive {
				t.Errorf("IsPrimitive() = %v, want %v", got, tt.primitive)
			}
		})
	}
}
