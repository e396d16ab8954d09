package testkit

import (
	"strings"
	"testing"

	"exprc/internal/emit"
	"exprc/internal/numeric"
	"exprc/internal/opcode"
)

func TestCheckStreamAcceptsValidSequence(t *testing.T) {
	s := emit.NewStream()
	s.EmitOp(opcode.ICONST_2)
	s.EmitOp(opcode.I2D)
	if err := s.LoadConst(emit.Const{Kind: emit.ConstDouble, Float: 1.5}); err != nil {
		t.Fatal(err)
	}
	s.EmitOp(opcode.DMUL)
	if err := CheckStream(s.Instrs(), s.Consts(), numeric.Float64, s.MaxStack()); err != nil {
		t.Fatalf("CheckStream: %v", err)
	}
}

func TestCheckStreamRejects(t *testing.T) {
	narrow := []emit.Const{{Kind: emit.ConstInt, Int: 70000}}
	cases := []struct {
		name   string
		instrs []emit.Instr
		consts []emit.Const
		result numeric.Type
		max    int
		want   string
	}{
		{"underflow", []emit.Instr{{Op: opcode.IADD}}, nil, numeric.Int32, 0, "underflow"},
		{"unknown", []emit.Instr{{Op: opcode.Opcode(0xfe)}}, nil, numeric.Int32, 0, "unknown opcode"},
		{"max", []emit.Instr{{Op: opcode.ICONST_1}}, nil, numeric.Int32, 2, "max stack"},
		{"leftover", []emit.Instr{{Op: opcode.ICONST_1}, {Op: opcode.ICONST_1}}, nil, numeric.Int32, 2, "final stack depth"},
		{"range", []emit.Instr{{Op: opcode.LDC, Arg: 3}}, narrow, numeric.Int32, 1, "out of range"},
		{"wide", []emit.Instr{{Op: opcode.LDC2_W, Arg: 0}}, narrow, numeric.Int64, 2, "narrow constant"},
		{"unused", []emit.Instr{{Op: opcode.ICONST_1}}, narrow, numeric.Int32, 1, "never loaded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckStream(tc.instrs, tc.consts, tc.result, tc.max)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}
