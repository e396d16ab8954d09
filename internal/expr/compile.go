package expr

import (
	"exprc/internal/emit"
	"exprc/internal/numeric"
)

// Result is the output of a successful compile call.
type Result struct {
	Type     numeric.Type
	Instrs   []emit.Instr
	Consts   []emit.Const
	MaxStack int
}

// Compile resolves and compiles root in a fresh Context. On failure the
// partially filled stream is dropped and only the error is returned.
func Compile(root Node, opts Options) (*Result, error) {
	ctx := NewContext(opts)
	typ, err := root.ResolveType(ctx)
	if err != nil {
		return nil, err
	}
	if err := root.Compile(ctx); err != nil {
		return nil, err
	}
	return &Result{
		Type:     typ,
		Instrs:   ctx.Out.Instrs(),
		Consts:   ctx.Out.Consts(),
		MaxStack: ctx.Out.MaxStack(),
	}, nil
}
