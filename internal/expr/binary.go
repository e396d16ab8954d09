package expr

import (
	"exprc/internal/arith"
	"exprc/internal/numeric"
	"exprc/internal/opcode"
)

// operandTypes resolves both operands. Both sides are always resolved; when
// both fail, the left error is returned.
func (b *Binary) operandTypes(ctx *Context) (numeric.Type, numeric.Type, error) {
	left, lerr := b.Left.ResolveType(ctx)
	right, rerr := b.Right.ResolveType(ctx)
	if lerr != nil {
		return numeric.Invalid, numeric.Invalid, lerr
	}
	if rerr != nil {
		return numeric.Invalid, numeric.Invalid, rerr
	}
	return left, right, nil
}

func (b *Binary) ResolveType(ctx *Context) (numeric.Type, error) {
	left, right, err := b.operandTypes(ctx)
	if err != nil {
		return numeric.Invalid, err
	}
	return numeric.Promote(left, right), nil
}

// Opcode selects the instruction for the node's resolved type.
func (b *Binary) Opcode(ctx *Context) (opcode.Opcode, error) {
	result, err := b.ResolveType(ctx)
	if err != nil {
		return opcode.NOP, err
	}
	return b.dispatch(ctx, result)
}

func (b *Binary) dispatch(ctx *Context, result numeric.Type) (opcode.Opcode, error) {
	table := arith.TableFor(ctx.Target, b.Op)
	code, ok := table.LookupDescriptor(numeric.DescriptorOf(result))
	if !ok {
		return opcode.NOP, &UnsupportedOperationError{
			Node:   b,
			Op:     b.Op,
			Type:   result,
			Target: ctx.Target,
		}
	}
	return code, nil
}

func (b *Binary) Compile(ctx *Context) error {
	left, right, err := b.operandTypes(ctx)
	if err != nil {
		return err
	}
	result := numeric.Promote(left, right)
	code, err := b.dispatch(ctx, result)
	if err != nil {
		return err
	}
	if err := compileOperand(ctx, b.Left, left, result); err != nil {
		return err
	}
	if err := compileOperand(ctx, b.Right, right, result); err != nil {
		return err
	}
	ctx.Out.EmitOp(code)
	return nil
}

// compileOperand emits n and, when n is narrower than the operation type,
// the widening conversion that completes its value.
func compileOperand(ctx *Context, n Node, have, want numeric.Type) error {
	if err := n.Compile(ctx); err != nil {
		return err
	}
	if conv, ok := opcode.Widen(have, want); ok {
		ctx.Out.EmitOp(conv)
	}
	return nil
}
