// Package emit is the sequencing target of expression compilation: an
// ordered instruction stream with its constant pool and operand stack
// bookkeeping. It selects nothing by itself; callers decide what to emit.
package emit

import (
	"fmt"
	"io"

	"exprc/internal/opcode"
)

// Instr is one instruction with at most one operand.
type Instr struct {
	Op  opcode.Opcode `msgpack:"op"`
	Arg int32         `msgpack:"a,omitempty"` // immediate, constant index or local slot
}

func (in Instr) String() string {
	switch in.Op.Operand() {
	case opcode.OperandImm:
		return fmt.Sprintf("%s %d", in.Op, in.Arg)
	case opcode.OperandConst:
		return fmt.Sprintf("%s #%d", in.Op, in.Arg)
	case opcode.OperandLocal:
		return fmt.Sprintf("%s %d", in.Op, in.Arg)
	default:
		return in.Op.String()
	}
}

// Stream collects instructions in evaluation order.
type Stream struct {
	instrs []Instr
	pool   *ConstPool
	depth  int
	max    int
}

// NewStream returns an empty stream with its own constant pool.
func NewStream() *Stream {
	return &Stream{pool: NewConstPool()}
}

// Emit appends in and updates the operand stack depth.
func (s *Stream) Emit(in Instr) {
	s.instrs = append(s.instrs, in)
	s.depth += in.Op.StackDelta()
	if s.depth > s.max {
		s.max = s.depth
	}
}

// EmitOp appends an operand-less instruction.
func (s *Stream) EmitOp(op opcode.Opcode) {
	s.Emit(Instr{Op: op})
}

// LoadConst interns c and emits the matching LDC form.
func (s *Stream) LoadConst(c Const) error {
	idx, err := s.pool.Add(c)
	if err != nil {
		return err
	}
	op := opcode.LDC
	switch {
	case c.Kind.Wide():
		op = opcode.LDC2_W
	case idx > 0xff:
		op = opcode.LDC_W
	}
	s.Emit(Instr{Op: op, Arg: int32(idx)})
	return nil
}

// Instrs returns the emitted instructions; the slice must not be modified.
func (s *Stream) Instrs() []Instr { return s.instrs }

// Len returns the number of emitted instructions.
func (s *Stream) Len() int { return len(s.instrs) }

// Consts returns the constant pool entries referenced by the stream.
func (s *Stream) Consts() []Const { return s.pool.Items() }

// Depth is the current operand stack height in slots.
func (s *Stream) Depth() int { return s.depth }

// MaxStack is the highest operand stack height reached, in slots.
func (s *Stream) MaxStack() int { return s.max }

// Disassemble writes one instruction per line, resolving constant operands.
func Disassemble(w io.Writer, instrs []Instr, consts []Const) error {
	for i, in := range instrs {
		line := fmt.Sprintf("%4d: %s", i, in)
		if in.Op.Operand() == opcode.OperandConst && int(in.Arg) < len(consts) && in.Arg >= 0 {
			line += "  // " + consts[in.Arg].String()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
