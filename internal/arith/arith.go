// Package arith holds the arithmetic operator family and the per-operator
// dispatch tables that map a resolved numeric type to an instruction.
package arith

import (
	"fmt"
	"strings"
)

// Op enumerates binary arithmetic operators.
type Op uint8

const (
	// Add represents the addition operator (+).
	Add Op = iota
	// Sub represents the subtraction operator (-).
	Sub
	// Mul represents the multiplication operator (*).
	Mul
	// Div represents the division operator (/).
	Div
	// Rem represents the remainder operator (%).
	Rem
)

const opCount = int(Rem) + 1

// Symbol returns the operator as written in source, used in diagnostics.
func (op Op) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Rem:
		return "%"
	default:
		return fmt.Sprintf("Op(%d)", op)
	}
}

func (op Op) String() string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Rem:
		return "rem"
	default:
		return fmt.Sprintf("Op(%d)", op)
	}
}

// Ops returns every operator of the family.
func Ops() []Op {
	return []Op{Add, Sub, Mul, Div, Rem}
}

// ParseOp accepts either the symbol (+) or the name (add).
func ParseOp(s string) (Op, error) {
	s = strings.TrimSpace(s)
	for _, op := range Ops() {
		if s == op.Symbol() || strings.EqualFold(s, op.String()) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown arithmetic operator %q (expected + - * / %%)", s)
}

// Target selects a family of dispatch tables.
type Target uint8

const (
	// TargetJVM supports every operator over every numeric type.
	TargetJVM Target = iota
	// TargetPortable drops floating-point remainder, which has no single
	// instruction on many machines.
	TargetPortable
)

func (t Target) String() string {
	switch t {
	case TargetJVM:
		return "jvm"
	case TargetPortable:
		return "portable"
	default:
		return fmt.Sprintf("Target(%d)", t)
	}
}

// ParseTarget converts a target name; the empty string selects TargetJVM.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jvm":
		return TargetJVM, nil
	case "portable":
		return TargetPortable, nil
	default:
		return TargetJVM, fmt.Errorf("invalid target: %q (expected: jvm|portable)", s)
	}
}
