package ir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectCode(t *testing.T) {
	quads := GenerateQuadruples(inMain("        int r = 2 + 3;\n        if (r > 4) System.out.println(r);"))
	var got []string
	for _, in := range ObjectCode(quads) {
		got = append(got, in.String())
	}
	assert.Equal(t, []string{
		"    LOAD   2",
		"    ADD    3",
		"    STORE  t1",
		"    LOAD   t1",
		"    STORE  r",
		"    LOAD   r",
		"    CMP    4",
		"    SETGT",
		"    STORE  t2",
		"    LOAD   t2",
		"    JMPF   if_else_1",
		"    PRINT  r",
		"    JMP    if_fin_1",
		"if_else_1:",
		"if_fin_1:",
	}, got)
}

func TestObjectCodeCalls(t *testing.T) {
	code := ObjectCode([]Quadruple{
		{Op: OpParam, Arg1: "x"},
		{Op: OpCall, Arg1: "f", Arg2: "1", Result: "t1"},
		{Op: OpCall, Arg1: "g", Arg2: "0"},
		{Op: OpNot, Arg1: "t1", Result: "t2"},
	})
	assert.Equal(t, []Instruction{
		{Opcode: "PUSH", Operand: "x"},
		{Opcode: "CALL", Operand: "f"},
		{Opcode: "STORE", Operand: "t1"},
		{Opcode: "CALL", Operand: "g"},
		{Opcode: "LOAD", Operand: "t1"},
		{Opcode: "NOT"},
		{Opcode: "STORE", Operand: "t2"},
	}, code)
}

func TestStats(t *testing.T) {
	src := inMain("        for (int i = 0; i < 3; i++) { System.out.println(i); }")

	quads := QuadrupleStats(GenerateQuadruples(src))
	assert.Equal(t, 9, quads.Instructions)
	assert.Equal(t, 2, quads.Temporaries)
	assert.Equal(t, 2, quads.Labels)
	assert.Equal(t, 2, quads.Jumps)
	assert.Equal(t, 1, quads.Variables)
	assert.Equal(t, 2, quads.Ops["="])

	triples := TripleStats(GenerateTriples(src))
	assert.Equal(t, 7, triples.Instructions)
	assert.Equal(t, 2, triples.Temporaries)
	assert.Equal(t, 0, triples.Labels)
	assert.Equal(t, 2, triples.Jumps)
	assert.Equal(t, 1, triples.Variables)
}

func TestValidateQuadruples(t *testing.T) {
	tests := []struct {
		name  string
		quads []Quadruple
		want  []error
	}{
		{
			name: "undefined label",
			quads: []Quadruple{
				{Index: 0, Op: OpGoto, Result: "nowhere"},
			},
			want: []error{ErrUndefinedLabel},
		},
		{
			name: "duplicate label",
			quads: []Quadruple{
				{Index: 0, Op: OpLabel, Result: "a"},
				{Index: 1, Op: OpLabel, Result: "a"},
			},
			want: []error{ErrDuplicateLabel},
		},
		{
			name: "temporary read first",
			quads: []Quadruple{
				{Index: 0, Op: OpAssign, Arg1: "t1", Result: "x"},
				{Index: 1, Op: OpAdd, Arg1: "1", Arg2: "2", Result: "t1"},
			},
			want: []error{ErrUnsetTemporary},
		},
		{
			name: "well formed",
			quads: []Quadruple{
				{Index: 0, Op: OpLabel, Result: "top"},
				{Index: 1, Op: OpLT, Arg1: "i", Arg2: "3", Result: "t1"},
				{Index: 2, Op: OpIfFalse, Arg1: "t1", Result: "end"},
				{Index: 3, Op: OpGoto, Result: "top"},
				{Index: 4, Op: OpLabel, Result: "end"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateQuadruples(tt.quads)
			require.Len(t, errs, len(tt.want))
			for i, err := range errs {
				assert.True(t, errors.Is(err, tt.want[i]), "got %v", err)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	errs := ValidateQuadruples([]Quadruple{{Index: 4, Op: OpGoto, Result: "gone"}})
	require.Len(t, errs, 1)
	assert.Equal(t, "quadruple 4: jump to undefined label: gone", errs[0].Error())
}

func TestOpClasses(t *testing.T) {
	for op := OpAdd; op <= OpCall; op++ {
		assert.NotEqual(t, "unknown", op.Class(), "class of %s", op)
		assert.NotEqual(t, "?", op.String())
	}
	assert.True(t, OpIfFalse.IsJump())
	assert.False(t, OpLabel.IsJump())
	assert.True(t, OpBitNot.Computes())
	assert.False(t, OpPrint.Computes())
}
