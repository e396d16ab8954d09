package artifact

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"exprc/internal/emit"
	"exprc/internal/opcode"
)

func sample() *File {
	return &File{
		Unit:   "geometry",
		Target: "jvm",
		Locals: []Local{{Name: "w", Descriptor: "I", Slot: 0}},
		Exprs: []Expr{{
			Name:       "scaled",
			Descriptor: "D",
			MaxStack:   4,
			Instrs: []emit.Instr{
				{Op: opcode.LDC2_W, Arg: 0},
				{Op: opcode.ILOAD, Arg: 0},
				{Op: opcode.I2D},
				{Op: opcode.DMUL},
			},
			Consts: []emit.Const{{Kind: emit.ConstDouble, Float: 2.5}},
		}},
		MaxLocs: 1,
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "geometry"+Ext)
	if err := WriteFile(path, sample()); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Schema != SchemaVersion || got.Unit != "geometry" || len(got.Exprs) != 1 {
		t.Fatalf("decoded %+v", got)
	}
	e := got.Exprs[0]
	if len(e.Instrs) != 4 || e.Instrs[3].Op != opcode.DMUL || e.Consts[0].Float != 2.5 {
		t.Fatalf("expression decoded as %+v", e)
	}
}

func TestDecodeRejectsOtherSchema(t *testing.T) {
	f := sample()
	f.Schema = SchemaVersion + 1
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(f); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(&buf); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestDump(t *testing.T) {
	f := sample()
	f.Schema = SchemaVersion
	var buf bytes.Buffer
	if err := Dump(&buf, f); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"unit geometry (target jvm, schema 1)",
		"local 0: w I",
		"expr scaled -> D  (max_stack=4, max_locals=1)",
		"   0: LDC2_W #0  // 2.5",
		"   3: DMUL",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}
