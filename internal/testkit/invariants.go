// Package testkit holds invariant checks shared by tests of the compiler
// and of the build driver.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"exprc/internal/emit"
	"exprc/internal/numeric"
	"exprc/internal/opcode"
)

// CheckStream verifies a compiled instruction sequence:
// 1) every opcode is known and the operand stack never underflows
// 2) the tracked maximum matches maxStack
// 3) exactly the result value (result.Slots() slots) is left on the stack
// 4) constant operands point into consts with the matching LDC form
// 5) every pool entry is referenced
func CheckStream(instrs []emit.Instr, consts []emit.Const, result numeric.Type, maxStack int) error {
	depth, peak := 0, 0
	used := make([]bool, len(consts))
	for i, in := range instrs {
		if !in.Op.Known() {
			return fmt.Errorf("instr %d: unknown opcode %s", i, in.Op)
		}
		depth += in.Op.StackDelta()
		if depth < 0 {
			return fmt.Errorf("instr %d (%s): stack underflow", i, in)
		}
		peak = max(peak, depth)

		switch in.Op.Operand() {
		case opcode.OperandConst:
			idx, err := safecast.Conv[uint16](in.Arg)
			if err != nil || int(idx) >= len(consts) {
				return fmt.Errorf("instr %d (%s): constant index out of range (pool size %d)", i, in, len(consts))
			}
			c := consts[idx]
			switch {
			case in.Op == opcode.LDC2_W && !c.Kind.Wide():
				return fmt.Errorf("instr %d: LDC2_W loads narrow constant %s", i, c)
			case in.Op != opcode.LDC2_W && c.Kind.Wide():
				return fmt.Errorf("instr %d: %s loads wide constant %s", i, in.Op, c)
			case in.Op == opcode.LDC && idx > 0xff:
				return fmt.Errorf("instr %d: LDC index %d needs LDC_W", i, idx)
			}
			used[idx] = true
		case opcode.OperandLocal:
			if _, err := safecast.Conv[uint16](in.Arg); err != nil {
				return fmt.Errorf("instr %d (%s): bad local slot", i, in)
			}
		}
	}
	if peak != maxStack {
		return fmt.Errorf("max stack %d, recomputed %d", maxStack, peak)
	}
	if want := result.Slots(); depth != want {
		return fmt.Errorf("final stack depth %d, want %d for %s", depth, want, result)
	}
	for idx, ok := range used {
		if !ok {
			return fmt.Errorf("constant #%d %s is never loaded", idx, consts[idx])
		}
	}
	return nil
}
