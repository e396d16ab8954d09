package expr

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"exprc/internal/emit"
	"exprc/internal/numeric"
	"exprc/internal/opcode"
	"exprc/internal/types"
)

func (l *Literal) ResolveType(*Context) (numeric.Type, error) {
	if t, ok := l.Type.Numeric(); ok {
		return t, nil
	}
	return numeric.Invalid, &TypeResolutionError{
		Node: l,
		Type: l.Type,
		Msg:  fmt.Sprintf("%s literal %s is not numeric (%s)", l.Type, l, l.Type.Descriptor()),
	}
}

func (l *Literal) Compile(ctx *Context) error {
	out := ctx.Out
	switch l.Type.Kind {
	case types.KindInt:
		if l.Type.Width == types.Width64 {
			return l.compileLong(out)
		}
		return l.compileInt(out)
	case types.KindFloat:
		if l.Type.Width == types.Width32 {
			return l.compileFloat(out)
		}
		return l.compileDouble(out)
	case types.KindString:
		return l.wrap(out.LoadConst(emit.Const{Kind: emit.ConstString, Str: l.Str}))
	case types.KindBool:
		if l.Bool {
			out.EmitOp(opcode.ICONST_1)
		} else {
			out.EmitOp(opcode.ICONST_0)
		}
		return nil
	case types.KindNull:
		out.EmitOp(opcode.ACONST_NULL)
		return nil
	default:
		return &EmitError{Node: l, Err: fmt.Errorf("no load for %s literal", l.Type)}
	}
}

func (l *Literal) wrap(err error) error {
	if err != nil {
		return &EmitError{Node: l, Err: err}
	}
	return nil
}

func (l *Literal) compileInt(out *emit.Stream) error {
	v, err := safecast.Conv[int32](l.Int)
	if err != nil {
		return &EmitError{Node: l, Err: err}
	}
	switch {
	case v >= -1 && v <= 5:
		out.EmitOp(opcode.ICONST_M1 + opcode.Opcode(v+1))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		out.Emit(emit.Instr{Op: opcode.BIPUSH, Arg: v})
	case v >= math.MinInt16 && v <= math.MaxInt16:
		out.Emit(emit.Instr{Op: opcode.SIPUSH, Arg: v})
	default:
		return l.wrap(out.LoadConst(emit.Const{Kind: emit.ConstInt, Int: int64(v)}))
	}
	return nil
}

func (l *Literal) compileLong(out *emit.Stream) error {
	switch l.Int {
	case 0:
		out.EmitOp(opcode.LCONST_0)
	case 1:
		out.EmitOp(opcode.LCONST_1)
	default:
		return l.wrap(out.LoadConst(emit.Const{Kind: emit.ConstLong, Int: l.Int}))
	}
	return nil
}

func (l *Literal) compileFloat(out *emit.Stream) error {
	v := float32(l.Float)
	if !math.Signbit(float64(v)) {
		switch v {
		case 0:
			out.EmitOp(opcode.FCONST_0)
			return nil
		case 1:
			out.EmitOp(opcode.FCONST_1)
			return nil
		case 2:
			out.EmitOp(opcode.FCONST_2)
			return nil
		}
	}
	return l.wrap(out.LoadConst(emit.Const{Kind: emit.ConstFloat, Float: float64(v)}))
}

func (l *Literal) compileDouble(out *emit.Stream) error {
	if !math.Signbit(l.Float) {
		switch l.Float {
		case 0:
			out.EmitOp(opcode.DCONST_0)
			return nil
		case 1:
			out.EmitOp(opcode.DCONST_1)
			return nil
		}
	}
	return l.wrap(out.LoadConst(emit.Const{Kind: emit.ConstDouble, Float: l.Float}))
}

func (v *VarRef) lookup(ctx *Context) (types.Type, uint16, error) {
	sym, ok := ctx.Symbols.Lookup(v.Name)
	if !ok {
		return types.Type{}, 0, &TypeResolutionError{
			Node: v,
			Msg:  fmt.Sprintf("undefined variable %s", v.Name),
		}
	}
	return sym.Type, sym.Slot, nil
}

func (v *VarRef) ResolveType(ctx *Context) (numeric.Type, error) {
	typ, _, err := v.lookup(ctx)
	if err != nil {
		return numeric.Invalid, err
	}
	if t, ok := typ.Numeric(); ok {
		return t, nil
	}
	return numeric.Invalid, &TypeResolutionError{
		Node: v,
		Type: typ,
		Msg:  fmt.Sprintf("variable %s of type %s is not numeric (%s)", v.Name, typ, typ.Descriptor()),
	}
}

func (v *VarRef) Compile(ctx *Context) error {
	typ, slot, err := v.lookup(ctx)
	if err != nil {
		return err
	}
	n, _ := typ.Numeric()
	ctx.Out.Emit(emit.Instr{Op: opcode.Load(n), Arg: int32(slot)})
	return nil
}
