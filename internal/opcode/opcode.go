// Package opcode lists the stack-machine instructions the expression backend
// selects. Values match the JVM encoding so a downstream assembler can write
// them as-is.
package opcode

import (
	"fmt"

	"exprc/internal/numeric"
)

// Opcode is an opaque instruction identifier.
type Opcode uint8

const (
	NOP         Opcode = 0x00
	ACONST_NULL Opcode = 0x01
	ICONST_M1   Opcode = 0x02
	ICONST_0    Opcode = 0x03
	ICONST_1    Opcode = 0x04
	ICONST_2    Opcode = 0x05
	ICONST_3    Opcode = 0x06
	ICONST_4    Opcode = 0x07
	ICONST_5    Opcode = 0x08
	LCONST_0    Opcode = 0x09
	LCONST_1    Opcode = 0x0a
	FCONST_0    Opcode = 0x0b
	FCONST_1    Opcode = 0x0c
	FCONST_2    Opcode = 0x0d
	DCONST_0    Opcode = 0x0e
	DCONST_1    Opcode = 0x0f
	BIPUSH      Opcode = 0x10
	SIPUSH      Opcode = 0x11
	LDC         Opcode = 0x12
	LDC_W       Opcode = 0x13
	LDC2_W      Opcode = 0x14
	ILOAD       Opcode = 0x15
	LLOAD       Opcode = 0x16
	FLOAD       Opcode = 0x17
	DLOAD       Opcode = 0x18
	ALOAD       Opcode = 0x19

	IADD Opcode = 0x60
	LADD Opcode = 0x61
	FADD Opcode = 0x62
	DADD Opcode = 0x63
	ISUB Opcode = 0x64
	LSUB Opcode = 0x65
	FSUB Opcode = 0x66
	DSUB Opcode = 0x67
	IMUL Opcode = 0x68
	LMUL Opcode = 0x69
	FMUL Opcode = 0x6a
	DMUL Opcode = 0x6b
	IDIV Opcode = 0x6c
	LDIV Opcode = 0x6d
	FDIV Opcode = 0x6e
	DDIV Opcode = 0x6f
	IREM Opcode = 0x70
	LREM Opcode = 0x71
	FREM Opcode = 0x72
	DREM Opcode = 0x73

	I2L Opcode = 0x85
	I2F Opcode = 0x86
	I2D Opcode = 0x87
	L2F Opcode = 0x89
	L2D Opcode = 0x8a
	F2D Opcode = 0x8d
)

// OperandKind tells what the single operand of an instruction means.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandImm              // BIPUSH/SIPUSH immediate
	OperandConst            // constant pool index
	OperandLocal            // local variable slot
)

type info struct {
	name    string
	operand OperandKind
	delta   int8 // operand stack effect in slots
}

var table = map[Opcode]info{
	NOP:         {"NOP", OperandNone, 0},
	ACONST_NULL: {"ACONST_NULL", OperandNone, 1},
	ICONST_M1:   {"ICONST_M1", OperandNone, 1},
	ICONST_0:    {"ICONST_0", OperandNone, 1},
	ICONST_1:    {"ICONST_1", OperandNone, 1},
	ICONST_2:    {"ICONST_2", OperandNone, 1},
	ICONST_3:    {"ICONST_3", OperandNone, 1},
	ICONST_4:    {"ICONST_4", OperandNone, 1},
	ICONST_5:    {"ICONST_5", OperandNone, 1},
	LCONST_0:    {"LCONST_0", OperandNone, 2},
	LCONST_1:    {"LCONST_1", OperandNone, 2},
	FCONST_0:    {"FCONST_0", OperandNone, 1},
	FCONST_1:    {"FCONST_1", OperandNone, 1},
	FCONST_2:    {"FCONST_2", OperandNone, 1},
	DCONST_0:    {"DCONST_0", OperandNone, 2},
	DCONST_1:    {"DCONST_1", OperandNone, 2},
	BIPUSH:      {"BIPUSH", OperandImm, 1},
	SIPUSH:      {"SIPUSH", OperandImm, 1},
	LDC:         {"LDC", OperandConst, 1},
	LDC_W:       {"LDC_W", OperandConst, 1},
	LDC2_W:      {"LDC2_W", OperandConst, 2},
	ILOAD:       {"ILOAD", OperandLocal, 1},
	LLOAD:       {"LLOAD", OperandLocal, 2},
	FLOAD:       {"FLOAD", OperandLocal, 1},
	DLOAD:       {"DLOAD", OperandLocal, 2},
	ALOAD:       {"ALOAD", OperandLocal, 1},

	IADD: {"IADD", OperandNone, -1},
	LADD: {"LADD", OperandNone, -2},
	FADD: {"FADD", OperandNone, -1},
	DADD: {"DADD", OperandNone, -2},
	ISUB: {"ISUB", OperandNone, -1},
	LSUB: {"LSUB", OperandNone, -2},
	FSUB: {"FSUB", OperandNone, -1},
	DSUB: {"DSUB", OperandNone, -2},
	IMUL: {"IMUL", OperandNone, -1},
	LMUL: {"LMUL", OperandNone, -2},
	FMUL: {"FMUL", OperandNone, -1},
	DMUL: {"DMUL", OperandNone, -2},
	IDIV: {"IDIV", OperandNone, -1},
	LDIV: {"LDIV", OperandNone, -2},
	FDIV: {"FDIV", OperandNone, -1},
	DDIV: {"DDIV", OperandNone, -2},
	IREM: {"IREM", OperandNone, -1},
	LREM: {"LREM", OperandNone, -2},
	FREM: {"FREM", OperandNone, -1},
	DREM: {"DREM", OperandNone, -2},

	I2L: {"I2L", OperandNone, 1},
	I2F: {"I2F", OperandNone, 0},
	I2D: {"I2D", OperandNone, 1},
	L2F: {"L2F", OperandNone, -1},
	L2D: {"L2D", OperandNone, 0},
	F2D: {"F2D", OperandNone, 1},
}

// Known reports whether op is part of the instruction set.
func (op Opcode) Known() bool {
	_, ok := table[op]
	return ok
}

func (op Opcode) String() string {
	if in, ok := table[op]; ok {
		return in.name
	}
	return fmt.Sprintf("OP_%#02x", uint8(op))
}

// Operand returns what the instruction's operand refers to.
func (op Opcode) Operand() OperandKind {
	return table[op].operand
}

// StackDelta is the net change of the operand stack, in slots.
func (op Opcode) StackDelta() int {
	return int(table[op].delta)
}

// Parse looks an opcode up by mnemonic.
func Parse(name string) (Opcode, bool) {
	for op, in := range table {
		if in.name == name {
			return op, true
		}
	}
	return NOP, false
}

// Widen returns the conversion from a narrower numeric type to a wider one.
// ok is false when from == to or when the pair is not a widening.
func Widen(from, to numeric.Type) (Opcode, bool) {
	switch {
	case from == numeric.Int32 && to == numeric.Int64:
		return I2L, true
	case from == numeric.Int32 && to == numeric.Float32:
		return I2F, true
	case from == numeric.Int32 && to == numeric.Float64:
		return I2D, true
	case from == numeric.Int64 && to == numeric.Float32:
		return L2F, true
	case from == numeric.Int64 && to == numeric.Float64:
		return L2D, true
	case from == numeric.Float32 && to == numeric.Float64:
		return F2D, true
	}
	return NOP, false
}

// Load returns the local-variable load for a value of the given slot kind.
// Non-numeric values load as references.
func Load(t numeric.Type) Opcode {
	switch t {
	case numeric.Int32:
		return ILOAD
	case numeric.Int64:
		return LLOAD
	case numeric.Float32:
		return FLOAD
	case numeric.Float64:
		return DLOAD
	default:
		return ALOAD
	}
}
