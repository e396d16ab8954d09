package expr

import (
	"errors"
	"fmt"

	"exprc/internal/arith"
	"exprc/internal/diag"
	"exprc/internal/numeric"
	"exprc/internal/types"
)

// TypeResolutionError reports an operand whose value is not one of the
// numeric types, or a variable that is not declared.
type TypeResolutionError struct {
	Node Node
	Type types.Type // KindInvalid for undeclared variables
	Msg  string
}

func (e *TypeResolutionError) Error() string { return e.Msg }

// Origin returns the node whose type could not be resolved.
func (e *TypeResolutionError) Origin() Node { return e.Node }

// Code returns the diagnostic code for this error.
func (e *TypeResolutionError) Code() diag.Code { return diag.ExprTypeResolution }

// UnsupportedOperationError reports a resolved numeric type that has no entry
// in the operator's dispatch table on the current target.
type UnsupportedOperationError struct {
	Node   *Binary
	Op     arith.Op
	Type   numeric.Type
	Target arith.Target
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("'%s' operation can not be applied to %s (%s)",
		e.Op.Symbol(), e.Type, numeric.DescriptorOf(e.Type))
}

// Origin returns the operator node.
func (e *UnsupportedOperationError) Origin() Node { return e.Node }

// Code returns the diagnostic code for this error.
func (e *UnsupportedOperationError) Code() diag.Code { return diag.ExprUnsupportedOperation }

// EmitError wraps a failure of the emitter itself (constant pool overflow,
// out-of-range literal payload).
type EmitError struct {
	Node Node
	Err  error
}

func (e *EmitError) Error() string { return fmt.Sprintf("emit %s: %v", e.Node, e.Err) }

func (e *EmitError) Unwrap() error { return e.Err }

// Origin returns the node being emitted.
func (e *EmitError) Origin() Node { return e.Node }

// Code returns the diagnostic code for this error.
func (e *EmitError) Code() diag.Code { return diag.ExprEmitFailed }

// Failure is implemented by every error the compiler produces.
type Failure interface {
	error
	Origin() Node
	Code() diag.Code
}

// AsFailure extracts the compiler failure from err, if any.
func AsFailure(err error) (Failure, bool) {
	var f Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
