package arith

import (
	"testing"

	"exprc/internal/numeric"
	"exprc/internal/opcode"
)

func TestJVMTablesAreComplete(t *testing.T) {
	want := map[Op][numeric.Count]opcode.Opcode{
		Add: {opcode.IADD, opcode.LADD, opcode.FADD, opcode.DADD},
		Sub: {opcode.ISUB, opcode.LSUB, opcode.FSUB, opcode.DSUB},
		Mul: {opcode.IMUL, opcode.LMUL, opcode.FMUL, opcode.DMUL},
		Div: {opcode.IDIV, opcode.LDIV, opcode.FDIV, opcode.DDIV},
		Rem: {opcode.IREM, opcode.LREM, opcode.FREM, opcode.DREM},
	}
	for op, codes := range want {
		table := TableFor(TargetJVM, op)
		if table.Op() != op {
			t.Fatalf("table for %s reports op %s", op, table.Op())
		}
		for i, typ := range numeric.All() {
			got, ok := table.Lookup(typ)
			if !ok || got != codes[i] {
				t.Errorf("%s/%s = %s, %v; want %s", op, typ, got, ok, codes[i])
			}
			byDesc, ok := table.LookupDescriptor(typ.Descriptor())
			if !ok || byDesc != got {
				t.Errorf("%s descriptor lookup %q = %s, %v", op, typ.Descriptor(), byDesc, ok)
			}
		}
	}
}

func TestPortableRemainderIsIntegralOnly(t *testing.T) {
	table := TableFor(TargetPortable, Rem)
	supported := table.Supported()
	if len(supported) != 2 || supported[0] != numeric.Int32 || supported[1] != numeric.Int64 {
		t.Fatalf("portable %% supports %v", supported)
	}
	for _, typ := range []numeric.Type{numeric.Float32, numeric.Float64} {
		if op, ok := table.Lookup(typ); ok {
			t.Fatalf("portable %% over %s must miss, got %s", typ, op)
		}
	}
	// the other operators stay complete
	if got := len(TableFor(TargetPortable, Div).Supported()); got != numeric.Count {
		t.Fatalf("portable / supports %d types", got)
	}
}

func TestLookupMisses(t *testing.T) {
	table := TableFor(TargetJVM, Mul)
	if _, ok := table.Lookup(numeric.Invalid); ok {
		t.Fatalf("invalid type must miss")
	}
	if _, ok := table.LookupDescriptor("Ljava/lang/String;"); ok {
		t.Fatalf("reference descriptor must miss")
	}
	if _, ok := TableFor(Target(42), Mul).Lookup(numeric.Int32); ok {
		t.Fatalf("unknown target must miss")
	}
}

func TestParseOpAndTarget(t *testing.T) {
	for _, op := range Ops() {
		bySym, err := ParseOp(op.Symbol())
		if err != nil || bySym != op {
			t.Fatalf("ParseOp(%q) = %v, %v", op.Symbol(), bySym, err)
		}
		byName, err := ParseOp(op.String())
		if err != nil || byName != op {
			t.Fatalf("ParseOp(%q) = %v, %v", op.String(), byName, err)
		}
	}
	if _, err := ParseOp("=="); err == nil {
		t.Fatalf("comparison is not an arithmetic operator")
	}
	if tgt, err := ParseTarget(""); err != nil || tgt != TargetJVM {
		t.Fatalf("empty target = %v, %v", tgt, err)
	}
	if tgt, err := ParseTarget("Portable"); err != nil || tgt != TargetPortable {
		t.Fatalf("portable target = %v, %v", tgt, err)
	}
	if _, err := ParseTarget("x86"); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}
