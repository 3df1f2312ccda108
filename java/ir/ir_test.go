package ir

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inMain(body string) []byte {
	return []byte("public class T {\n    public static void main(String[] args) {\n" + body + "\n    }\n}\n")
}

func quadStrings(quads []Quadruple) []string {
	var out []string
	for _, q := range quads {
		out = append(out, q.String())
	}
	return out
}

func tripleStrings(triples []Triple) []string {
	var out []string
	for _, t := range triples {
		out = append(out, t.String())
	}
	return out
}

func arith(op Op, a, b int64) int64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpMod:
		return a % b
	}
	panic("not arithmetic: " + op.String())
}

// runQuads evaluates straight-line integer quadruples.
func runQuads(t *testing.T, quads []Quadruple) map[string]int64 {
	t.Helper()
	env := make(map[string]int64)
	value := func(s string) int64 {
		if v, ok := env[s]; ok {
			return v
		}
		n, err := strconv.ParseInt(s, 10, 64)
		require.NoError(t, err, "operand %q", s)
		return n
	}
	for _, q := range quads {
		switch q.Op {
		case OpAssign:
			env[q.Result] = value(q.Arg1)
		case OpNeg:
			env[q.Result] = -value(q.Arg1)
		default:
			env[q.Result] = arith(q.Op, value(q.Arg1), value(q.Arg2))
		}
	}
	return env
}

// runTriples evaluates straight-line integer triples.
func runTriples(t *testing.T, triples []Triple) map[string]int64 {
	t.Helper()
	results := make(map[string]int64)
	vars := make(map[string]int64)
	value := func(s string) int64 {
		if v, ok := results[s]; ok {
			return v
		}
		n, err := strconv.ParseInt(s, 10, 64)
		require.NoError(t, err, "operand %q", s)
		return n
	}
	for _, tr := range triples {
		switch tr.Op {
		case OpAssign:
			v := value(tr.Arg1)
			vars[tr.Arg2] = v
			results[tr.Ref()] = v
		case OpNeg:
			results[tr.Ref()] = -value(tr.Arg1)
		default:
			results[tr.Ref()] = arith(tr.Op, value(tr.Arg1), value(tr.Arg2))
		}
	}
	return vars
}

func TestQuadruplesFollowPrecedence(t *testing.T) {
	quads := GenerateQuadruples(inMain("        int r = 2 + 3 * 4 - 1;"))
	assert.Equal(t, []string{
		"0: * 3 4 t1",
		"1: + 2 t1 t2",
		"2: - t2 1 t3",
		"3: = t3 ∅ r",
	}, quadStrings(quads))
	assert.Equal(t, int64(13), runQuads(t, quads)["r"])
}

func TestArithmeticEvaluation(t *testing.T) {
	tests := []struct {
		expr      string
		want      int64
		operators int
	}{
		{"2 + 3 * 4 - 1", 13, 3},
		{"(2 + 3) * 4", 20, 2},
		{"10 - 4 - 3", 3, 2},
		{"100 / 10 / 5", 2, 2},
		{"2 * 3 + 4 * 5", 26, 3},
		{"8 - (2 - 1)", 7, 2},
		{"((7))", 7, 0},
		{"17 % 5 * 2", 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			src := inMain("        int r = " + tt.expr + ";")

			quads := GenerateQuadruples(src)
			assert.Equal(t, tt.want, runQuads(t, quads)["r"])
			assert.Equal(t, tt.operators, QuadrupleStats(quads).Temporaries)

			triples := GenerateTriples(src)
			assert.Equal(t, tt.want, runTriples(t, triples)["r"])
			assert.Len(t, triples, tt.operators+1)
		})
	}
}

func TestUnaryMinus(t *testing.T) {
	quads := GenerateQuadruples(inMain("        int r = -3 + 5 * -2;"))
	assert.Equal(t, []string{
		"0: NEG 3 ∅ t1",
		"1: NEG 2 ∅ t2",
		"2: * 5 t2 t3",
		"3: + t1 t3 t4",
		"4: = t4 ∅ r",
	}, quadStrings(quads))
	assert.Equal(t, int64(-13), runQuads(t, quads)["r"])
}

func TestQuadruplesIfElse(t *testing.T) {
	quads := GenerateQuadruples(inMain("        int x = 1;\n        int y = 0;\n        if (x == 1) { y = 2; } else { y = 3; }"))
	assert.Equal(t, []string{
		"0: = 1 ∅ x",
		"1: = 0 ∅ y",
		"2: == x 1 t1",
		"3: IF_FALSE t1 ∅ if_else_1",
		"4: = 2 ∅ y",
		"5: GOTO ∅ ∅ if_fin_1",
		"6: LABEL ∅ ∅ if_else_1",
		"7: = 3 ∅ y",
		"8: LABEL ∅ ∅ if_fin_1",
	}, quadStrings(quads))
	assert.Empty(t, ValidateQuadruples(quads))
}

func TestQuadruplesLoops(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "for",
			body: "        for (int i = 0; i < 3; i++) { System.out.println(i); }",
			want: []string{
				"0: = 0 ∅ i",
				"1: LABEL ∅ ∅ for_inicio_1",
				"2: < i 3 t1",
				"3: IF_FALSE t1 ∅ for_fin_1",
				"4: PRINT i ∅ ∅",
				"5: + i 1 t2",
				"6: = t2 ∅ i",
				"7: GOTO ∅ ∅ for_inicio_1",
				"8: LABEL ∅ ∅ for_fin_1",
			},
		},
		{
			name: "while",
			body: "        int n = 3;\n        while (n > 0) n -= 1;",
			want: []string{
				"0: = 3 ∅ n",
				"1: LABEL ∅ ∅ while_inicio_1",
				"2: > n 0 t1",
				"3: IF_FALSE t1 ∅ while_fin_1",
				"4: - n 1 t2",
				"5: = t2 ∅ n",
				"6: GOTO ∅ ∅ while_inicio_1",
				"7: LABEL ∅ ∅ while_fin_1",
			},
		},
		{
			name: "do while",
			body: "        int n = 0;\n        do { n++; } while (n < 2);",
			want: []string{
				"0: = 0 ∅ n",
				"1: LABEL ∅ ∅ etiqueta_1",
				"2: + n 1 t1",
				"3: = t1 ∅ n",
				"4: < n 2 t2",
				"5: IF_FALSE t2 ∅ etiqueta_2",
				"6: GOTO ∅ ∅ etiqueta_1",
				"7: LABEL ∅ ∅ etiqueta_2",
			},
		},
		{
			name: "sequential loops number their labels",
			body: "        for (int i = 0; i < 1; i++) { }\n        for (int i = 0; i < 1; i++) { }",
			want: []string{
				"0: = 0 ∅ i",
				"1: LABEL ∅ ∅ for_inicio_1",
				"2: < i 1 t1",
				"3: IF_FALSE t1 ∅ for_fin_1",
				"4: + i 1 t2",
				"5: = t2 ∅ i",
				"6: GOTO ∅ ∅ for_inicio_1",
				"7: LABEL ∅ ∅ for_fin_1",
				"8: = 0 ∅ i",
				"9: LABEL ∅ ∅ for_inicio_2",
				"10: < i 1 t3",
				"11: IF_FALSE t3 ∅ for_fin_2",
				"12: + i 1 t4",
				"13: = t4 ∅ i",
				"14: GOTO ∅ ∅ for_inicio_2",
				"15: LABEL ∅ ∅ for_fin_2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quads := GenerateQuadruples(inMain(tt.body))
			assert.Equal(t, tt.want, quadStrings(quads))
			assert.Empty(t, ValidateQuadruples(quads))
		})
	}
}

func TestIncrementFormsLowerIdentically(t *testing.T) {
	forms := []string{"i++;", "++i;"}
	var got [][]string
	for _, form := range forms {
		got = append(got, quadStrings(GenerateQuadruples(inMain("        int i = 0;\n        "+form))))
	}
	assert.Equal(t, got[0], got[1])
	assert.Equal(t, []string{"0: = 0 ∅ i", "1: + i 1 t1", "2: = t1 ∅ i"}, got[0])

	dec := quadStrings(GenerateQuadruples(inMain("        int i = 0;\n        --i;")))
	assert.Equal(t, "1: - i 1 t1", dec[1])
}

func TestQuadruplesStatements(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"compound assignment", "        x *= y + 1;", []string{"0: + y 1 t1", "1: * x t1 t2", "2: = t2 ∅ x"}},
		{"print without arguments", "        System.out.println();", []string{"0: PRINT ∅ ∅ ∅"}},
		{"print keeps string quotes", `        System.out.print("n=" + n);`, []string{`0: + "n=" n t1`, "1: PRINT t1 ∅ ∅"}},
		{"several declarators", "        int a = 1, b, c = a;", []string{"0: = 1 ∅ a", "1: = a ∅ c"}},
		{"array element", "        a[i] = 4;", []string{"0: = 4 ∅ a[i]"}},
		{"call statement", "        report(a, 2);", []string{"0: PARAM a ∅ ∅", "1: PARAM 2 ∅ ∅", "2: CALL report 2 ∅"}},
		{"call value", "        int r = Math.max(n + 1, 3);", []string{
			"0: + n 1 t1",
			"1: PARAM t1 ∅ ∅",
			"2: PARAM 3 ∅ ∅",
			"3: CALL Math.max 2 t2",
			"4: = t2 ∅ r",
		}},
		{"logical operators", "        boolean ok = a < b && !done;", []string{
			"0: < a b t1",
			"1: NOT done ∅ t2",
			"2: && t1 t2 t3",
			"3: = t3 ∅ ok",
		}},
		{"declaration without value", "        int x;", nil},
		{"return is skipped", "        return;", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quadStrings(GenerateQuadruples(inMain(tt.body))))
		})
	}
}

func TestQuadruplesFields(t *testing.T) {
	src := []byte("public class T {\n    static int count = 0;\n    static void bump() { count += 2; }\n}")
	assert.Equal(t, []string{
		"0: = 0 ∅ count",
		"1: + count 2 t1",
		"2: = t1 ∅ count",
	}, quadStrings(GenerateQuadruples(src)))
}

func TestTriplesReferenceAssignments(t *testing.T) {
	triples := GenerateTriples(inMain("        int a = 5;\n        int b = a * 2;\n        a = b + a;"))
	assert.Equal(t, []string{
		"(0) = 5 a",
		"(1) * (0) 2",
		"(2) = (1) b",
		"(3) + (2) (0)",
		"(4) = (3) a",
	}, tripleStrings(triples))
}

func TestTriplesForBackPatch(t *testing.T) {
	triples := GenerateTriples(inMain("        for (int i = 0; i < 3; i++) { System.out.println(i); }"))
	assert.Equal(t, []string{
		"(0) = 0 i",
		"(1) < (0) 3",
		"(2) IF_FALSE (1) (7)",
		"(3) PRINT (0) ∅",
		"(4) + (0) 1",
		"(5) = (4) i",
		"(6) GOTO (1) ∅",
	}, tripleStrings(triples))
}

func TestTriplesIfElseUsesLabels(t *testing.T) {
	triples := GenerateTriples(inMain("        if (x == 1) y = 2;\n        else y = 3;"))
	assert.Equal(t, []string{
		"(0) == x 1",
		"(1) IF_FALSE (0) if_else_1",
		"(2) = 2 y",
		"(3) GOTO if_fin_1 ∅",
		"(4) LABEL if_else_1 ∅",
		"(5) = 3 y",
		"(6) LABEL if_fin_1 ∅",
	}, tripleStrings(triples))
}

func TestTriplesNestedStatements(t *testing.T) {
	triples := GenerateTriples(inMain("        int s = 0;\n        for (int i = 0; i < 4; i++)\n            if (i % 2 == 0) s += i;\n        System.out.println(s);"))
	ops := make(map[Op]int)
	for _, tr := range triples {
		ops[tr.Op]++
	}
	assert.Equal(t, 2, ops[OpLabel])
	assert.Equal(t, 2, ops[OpIfFalse])
	assert.Equal(t, 2, ops[OpGoto])
	assert.Equal(t, OpPrint, triples[len(triples)-1].Op)
}

func TestGeneratorsTolerateBrokenInput(t *testing.T) {
	inputs := []string{
		"",
		"for (",
		"if (x",
		"while",
		"do",
		"do x = 1; while (",
		"System.out.println(",
		"x += ",
		"a[",
		"int x = (",
		"x = a + ;",
		"x = 1 + + 2;",
		"}}}{{{",
		"public class",
		"else x = 1;",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.NotPanics(t, func() {
				GenerateTriples([]byte(in))
				GenerateQuadruples([]byte(in))
			})
		})
	}
}
