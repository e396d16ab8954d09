package expr

import (
	"errors"
	"strings"
	"testing"

	"exprc/internal/arith"
	"exprc/internal/emit"
	"exprc/internal/numeric"
	"exprc/internal/opcode"
	"exprc/internal/symbols"
	"exprc/internal/testkit"
	"exprc/internal/types"
)

func ops(instrs []emit.Instr) []opcode.Opcode {
	out := make([]opcode.Opcode, len(instrs))
	for i, in := range instrs {
		out[i] = in.Op
	}
	return out
}

func sameOps(got []emit.Instr, want ...opcode.Opcode) bool {
	g := ops(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func testSymbols(t *testing.T) *symbols.Table {
	t.Helper()
	tbl := symbols.NewTable()
	for _, d := range []struct{ name, typ string }{
		{"i", "int"},
		{"l", "long"},
		{"f", "float"},
		{"d", "double"},
		{"s", "string"},
		{"o", "java.lang.Object"},
	} {
		typ, err := types.Parse(d.typ)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tbl.Declare(d.name, typ); err != nil {
			t.Fatal(err)
		}
	}
	tbl.Freeze()
	return tbl
}

func TestMulIntLiterals(t *testing.T) {
	res, err := Compile(Mul(IntLit(3), IntLit(4)), Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if res.Type != numeric.Int32 {
		t.Fatalf("type = %s, want int", res.Type)
	}
	if !sameOps(res.Instrs, opcode.ICONST_3, opcode.ICONST_4, opcode.IMUL) {
		t.Fatalf("instrs = %v", ops(res.Instrs))
	}
}

func TestMulPromotesToDouble(t *testing.T) {
	res, err := Compile(Mul(DoubleLit(2.0), IntLit(3)), Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if res.Type != numeric.Float64 {
		t.Fatalf("type = %s, want double", res.Type)
	}
	// 2.0 has no DCONST form and goes through the constant pool
	if !sameOps(res.Instrs, opcode.LDC2_W, opcode.ICONST_3, opcode.I2D, opcode.DMUL) {
		t.Fatalf("instrs = %v", ops(res.Instrs))
	}
	if len(res.Consts) != 1 || res.Consts[0].Kind != emit.ConstDouble || res.Consts[0].Float != 2.0 {
		t.Fatalf("consts = %+v", res.Consts)
	}
	if res.MaxStack != 4 {
		t.Fatalf("max stack = %d, want 4", res.MaxStack)
	}
}

func TestMulStringOperandFails(t *testing.T) {
	left := StringLit("x")
	_, err := Compile(Mul(left, IntLit(1)), Options{})
	var tre *TypeResolutionError
	if !errors.As(err, &tre) {
		t.Fatalf("expected TypeResolutionError, got %v", err)
	}
	if tre.Node != left {
		t.Fatalf("error points at %v, want the string literal", tre.Node)
	}
	if tre.Type.Kind != types.KindString {
		t.Fatalf("error type = %s", tre.Type)
	}
	if !strings.Contains(tre.Error(), "Ljava/lang/String;") {
		t.Fatalf("message should carry the descriptor: %q", tre.Error())
	}
}

func TestEveryOperatorEmitsLeftRightOp(t *testing.T) {
	syms := testSymbols(t)
	vars := map[numeric.Type]string{
		numeric.Int32: "i", numeric.Int64: "l", numeric.Float32: "f", numeric.Float64: "d",
	}
	loads := map[numeric.Type]opcode.Opcode{
		numeric.Int32: opcode.ILOAD, numeric.Int64: opcode.LLOAD,
		numeric.Float32: opcode.FLOAD, numeric.Float64: opcode.DLOAD,
	}
	for _, op := range arith.Ops() {
		table := arith.TableFor(arith.TargetJVM, op)
		for _, typ := range table.Supported() {
			want, _ := table.Lookup(typ)
			node := NewBinary(op, Var(vars[typ]), Var(vars[typ]))
			res, err := Compile(node, Options{Symbols: syms})
			if err != nil {
				t.Fatalf("%s over %s: %v", op, typ, err)
			}
			if !sameOps(res.Instrs, loads[typ], loads[typ], want) {
				t.Fatalf("%s over %s emitted %v", op, typ, ops(res.Instrs))
			}
		}
	}
}

func TestNestedOrder(t *testing.T) {
	// (i - 7) * (l + 100000)
	node := Mul(Sub(Var("i"), IntLit(7)), Add(Var("l"), IntLit(100000)))
	res, err := Compile(node, Options{Symbols: testSymbols(t)})
	if err != nil {
		t.Fatal(err)
	}
	want := []opcode.Opcode{
		opcode.ILOAD, opcode.BIPUSH, opcode.ISUB, opcode.I2L,
		opcode.LLOAD, opcode.LDC, opcode.I2L, opcode.LADD,
		opcode.LMUL,
	}
	if !sameOps(res.Instrs, want...) {
		t.Fatalf("instrs = %v, want %v", ops(res.Instrs), want)
	}
	if res.Type != numeric.Int64 {
		t.Fatalf("type = %s", res.Type)
	}
	if res.Instrs[1].Arg != 7 {
		t.Fatalf("BIPUSH operand = %d", res.Instrs[1].Arg)
	}
	if res.Instrs[4].Arg != 1 {
		t.Fatalf("l lives in slot 1, got %d", res.Instrs[4].Arg)
	}
}

func TestWideningForEveryMixedPair(t *testing.T) {
	lits := map[numeric.Type]Node{
		numeric.Int32:   IntLit(9),
		numeric.Int64:   LongLit(9),
		numeric.Float32: FloatLit(9),
		numeric.Float64: DoubleLit(9),
	}
	for _, a := range numeric.All() {
		for _, b := range numeric.All() {
			res, err := Compile(Add(lits[a], lits[b]), Options{})
			if err != nil {
				t.Fatalf("%s + %s: %v", a, b, err)
			}
			result := numeric.Promote(a, b)
			want := []opcode.Opcode{res.Instrs[0].Op}
			if conv, ok := opcode.Widen(a, result); ok {
				want = append(want, conv)
			}
			want = append(want, res.Instrs[len(want)].Op)
			if conv, ok := opcode.Widen(b, result); ok {
				want = append(want, conv)
			}
			add, _ := arith.TableFor(arith.TargetJVM, arith.Add).Lookup(result)
			want = append(want, add)
			if !sameOps(res.Instrs, want...) {
				t.Fatalf("%s + %s emitted %v, want %v", a, b, ops(res.Instrs), want)
			}
		}
	}
}

func TestLeftErrorWinsForEveryOperator(t *testing.T) {
	syms := testSymbols(t)
	for _, op := range arith.Ops() {
		left, right := Var("s"), BoolLit(true)
		_, err := Compile(NewBinary(op, left, right), Options{Symbols: syms})
		var tre *TypeResolutionError
		if !errors.As(err, &tre) {
			t.Fatalf("%s: expected TypeResolutionError, got %v", op, err)
		}
		if tre.Node != left {
			t.Fatalf("%s: error from %v, want left operand", op, tre.Node)
		}
	}
}

func TestRightErrorWhenLeftValid(t *testing.T) {
	right := Var("missing")
	_, err := Compile(Div(IntLit(1), right), Options{Symbols: testSymbols(t)})
	f, ok := AsFailure(err)
	if !ok || f.Origin() != right {
		t.Fatalf("expected failure at right operand, got %v", err)
	}
	if !strings.Contains(err.Error(), "undefined variable missing") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestReferenceVariableFails(t *testing.T) {
	_, err := Compile(Add(Var("o"), IntLit(1)), Options{Symbols: testSymbols(t)})
	var tre *TypeResolutionError
	if !errors.As(err, &tre) || tre.Type.Kind != types.KindReference {
		t.Fatalf("expected reference type failure, got %v", err)
	}
	if !strings.Contains(tre.Error(), "Ljava/lang/Object;") {
		t.Fatalf("message = %q", tre.Error())
	}
}

func TestUnsupportedOperation(t *testing.T) {
	for _, typ := range []numeric.Type{numeric.Float32, numeric.Float64} {
		lit := map[numeric.Type]Node{numeric.Float32: FloatLit(5.5), numeric.Float64: DoubleLit(5.5)}[typ]
		node := Rem(lit, IntLit(2))
		_, err := Compile(node, Options{Target: arith.TargetPortable})
		var uoe *UnsupportedOperationError
		if !errors.As(err, &uoe) {
			t.Fatalf("%s: expected UnsupportedOperationError, got %v", typ, err)
		}
		if uoe.Type != typ || uoe.Op != arith.Rem || uoe.Node != node {
			t.Fatalf("error fields = %+v", uoe)
		}
		want := "'%' operation can not be applied to " + typ.String() + " (" + typ.Descriptor() + ")"
		if uoe.Error() != want {
			t.Fatalf("message = %q, want %q", uoe.Error(), want)
		}
	}
	// the same tree is fine on the jvm target
	if _, err := Compile(Rem(DoubleLit(5.5), IntLit(2)), Options{Target: arith.TargetJVM}); err != nil {
		t.Fatalf("jvm target: %v", err)
	}
}

func TestUnsupportedBeforeAnyEmission(t *testing.T) {
	ctx := NewContext(Options{Target: arith.TargetPortable})
	if err := Rem(FloatLit(1.5), FloatLit(2.5)).Compile(ctx); err == nil {
		t.Fatalf("expected failure")
	}
	if ctx.Out.Len() != 0 {
		t.Fatalf("operands emitted before dispatch failed: %v", ops(ctx.Out.Instrs()))
	}
}

func TestResolveIsPure(t *testing.T) {
	syms := testSymbols(t)
	node := Add(Mul(Var("f"), IntLit(2)), Var("l"))
	first := NewContext(Options{Symbols: syms})
	second := NewContext(Options{Symbols: syms})
	a, err := node.ResolveType(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := node.ResolveType(second)
	if err != nil {
		t.Fatal(err)
	}
	if a != b || a != numeric.Float32 {
		t.Fatalf("resolved %s then %s", a, b)
	}
	if first.Out.Len() != 0 || second.Out.Len() != 0 {
		t.Fatalf("resolution emitted instructions")
	}
}

func TestCompileTwiceIsIndependent(t *testing.T) {
	node := Sub(LongLit(40), IntLit(2))
	r1, err := Compile(node, Options{})
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Compile(node, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(r1.Instrs) != len(r2.Instrs) {
		t.Fatalf("second compile emitted %d instrs, first %d", len(r2.Instrs), len(r1.Instrs))
	}
	for i := range r1.Instrs {
		if r1.Instrs[i] != r2.Instrs[i] {
			t.Fatalf("instr %d differs: %s vs %s", i, r1.Instrs[i], r2.Instrs[i])
		}
	}
}

func TestBinaryOpcode(t *testing.T) {
	ctx := NewContext(Options{})
	code, err := Div(LongLit(8), FloatLit(2)).Opcode(ctx)
	if err != nil || code != opcode.FDIV {
		t.Fatalf("Opcode = %s, %v; want FDIV", code, err)
	}
}

func TestPaths(t *testing.T) {
	inner := Add(IntLit(1), Var("x"))
	root := Mul(inner, IntLit(2))
	paths := Paths(root, "area")
	if paths[root] != "area" || paths[inner] != "area.left" || paths[inner.Right] != "area.left.right" {
		t.Fatalf("paths = %v", paths)
	}
	count := 0
	Walk(root, func(Node) bool { count++; return true })
	if count != 5 {
		t.Fatalf("walk visited %d nodes", count)
	}
	if got := root.String(); got != "((1 + x) * 2)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestCompiledStreamsAreWellFormed(t *testing.T) {
	syms := testSymbols(t)
	trees := []Node{
		Mul(IntLit(2), IntLit(3)),
		Mul(DoubleLit(2.5), IntLit(7)),
		Add(Var("i"), Mul(Var("l"), LongLit(1<<40))),
		Div(Sub(Var("f"), IntLit(100000)), Var("d")),
		Rem(Add(Var("i"), Var("i")), Sub(LongLit(-1), Var("l"))),
		Add(Add(DoubleLit(2.5), Var("d")), DoubleLit(2.5)),
	}
	for _, tree := range trees {
		res, err := Compile(tree, Options{Symbols: syms, Target: arith.TargetJVM})
		if err != nil {
			t.Fatalf("%s: %v", tree, err)
		}
		if err := testkit.CheckStream(res.Instrs, res.Consts, res.Type, res.MaxStack); err != nil {
			t.Errorf("%s: %v", tree, err)
		}
	}
}
