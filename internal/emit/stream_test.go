package emit

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"exprc/internal/opcode"
)

func TestConstPoolInterns(t *testing.T) {
	p := NewConstPool()
	a, _ := p.Add(Const{Kind: ConstDouble, Float: 2.0})
	b, _ := p.Add(Const{Kind: ConstInt, Int: 100000})
	c, _ := p.Add(Const{Kind: ConstDouble, Float: 2.0})
	d, _ := p.Add(Const{Kind: ConstFloat, Float: 2.0})
	if a != c {
		t.Fatalf("equal constants got different indices %d and %d", a, c)
	}
	if a == b || a == d {
		t.Fatalf("distinct constants share an index")
	}
	nan1, _ := p.Add(Const{Kind: ConstDouble, Float: math.NaN()})
	nan2, _ := p.Add(Const{Kind: ConstDouble, Float: math.NaN()})
	if nan1 != nan2 {
		t.Fatalf("NaN constants should intern by bit pattern")
	}
	if p.Len() != 4 {
		t.Fatalf("pool has %d entries, want 4", p.Len())
	}
}

func TestStreamTracksStack(t *testing.T) {
	s := NewStream()
	if err := s.LoadConst(Const{Kind: ConstDouble, Float: 2.5}); err != nil {
		t.Fatal(err)
	}
	s.EmitOp(opcode.ICONST_3)
	s.EmitOp(opcode.I2D)
	s.EmitOp(opcode.DMUL)
	if s.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", s.Depth())
	}
	if s.MaxStack() != 4 {
		t.Fatalf("max stack = %d, want 4", s.MaxStack())
	}
	if got := s.Instrs()[0]; got.Op != opcode.LDC2_W || got.Arg != 0 {
		t.Fatalf("first instruction = %s", got)
	}
}

func TestLoadConstUsesWideIndexForm(t *testing.T) {
	s := NewStream()
	for i := 0; i < 300; i++ {
		if err := s.LoadConst(Const{Kind: ConstInt, Int: int64(1_000_000 + i)}); err != nil {
			t.Fatal(err)
		}
	}
	instrs := s.Instrs()
	if instrs[255].Op != opcode.LDC {
		t.Fatalf("index 255 should use LDC, got %s", instrs[255].Op)
	}
	if instrs[256].Op != opcode.LDC_W {
		t.Fatalf("index 256 should use LDC_W, got %s", instrs[256].Op)
	}
}

func TestDisassemble(t *testing.T) {
	s := NewStream()
	_ = s.LoadConst(Const{Kind: ConstString, Str: "x"})
	s.Emit(Instr{Op: opcode.BIPUSH, Arg: 42})
	s.Emit(Instr{Op: opcode.ILOAD, Arg: 1})
	var buf bytes.Buffer
	if err := Disassemble(&buf, s.Instrs(), s.Consts()); err != nil {
		t.Fatal(err)
	}
	want := []string{
		`   0: LDC #0  // "x"`,
		`   1: BIPUSH 42`,
		`   2: ILOAD 1`,
	}
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(got), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}
