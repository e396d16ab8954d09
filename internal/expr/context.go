package expr

import (
	"exprc/internal/arith"
	"exprc/internal/emit"
	"exprc/internal/symbols"
)

// Options configure one compile call.
type Options struct {
	Symbols *symbols.Table // read-only during compilation; may be nil
	Target  arith.Target
}

// Context is owned by a single compile call and passed to every node.
// It must not be shared between goroutines.
type Context struct {
	Symbols *symbols.Table
	Target  arith.Target
	Out     *emit.Stream
}

// NewContext returns a context with a fresh emission stream.
func NewContext(opts Options) *Context {
	return &Context{
		Symbols: opts.Symbols,
		Target:  opts.Target,
		Out:     emit.NewStream(),
	}
}
