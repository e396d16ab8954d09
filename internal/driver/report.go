package driver

import (
	"errors"
	"fmt"

	"exprc/internal/diag"
	"exprc/internal/expr"
	"exprc/internal/unit"
)

// reportFailure turns a compile error into a diagnostic anchored at the
// failing sub-expression. The message is the compiler's, verbatim.
func reportFailure(rep diag.Reporter, u *unit.Unit, e *unit.Expr, err error) {
	root := diag.Origin{Unit: u.Name, Expr: e.Name, Node: e.Name}

	f, ok := expr.AsFailure(err)
	if !ok {
		diag.ReportError(rep, diag.ExprEmitFailed, root, err.Error()).Emit()
		return
	}

	origin := root
	origin.Node = e.Path(f.Origin())
	b := diag.ReportError(rep, f.Code(), origin, f.Error())

	var unsupported *expr.UnsupportedOperationError
	if errors.As(err, &unsupported) {
		b.WithNote(origin, fmt.Sprintf("target %s has no %s instruction for %s",
			unsupported.Target, unsupported.Op, unsupported.Type.Descriptor()))
	}
	if origin.Node != root.Node {
		b.WithNote(root, "in "+e.Root.String())
	}
	b.Emit()
}
