package arith

import (
	"exprc/internal/numeric"
	"exprc/internal/opcode"
)

type entry struct {
	op opcode.Opcode
	ok bool
}

// Table maps numeric types to the instruction of one operator. A type
// without an entry is a miss; there is no default instruction.
type Table struct {
	op      Op
	entries [numeric.Count + 1]entry
}

// NewTable builds a table for op from explicit entries.
func NewTable(op Op, entries map[numeric.Type]opcode.Opcode) Table {
	t := Table{op: op}
	for typ, code := range entries {
		if !typ.Valid() {
			continue
		}
		t.entries[typ] = entry{op: code, ok: true}
	}
	return t
}

// Op returns the operator the table belongs to.
func (t Table) Op() Op { return t.op }

// Lookup returns the instruction for typ.
func (t Table) Lookup(typ numeric.Type) (opcode.Opcode, bool) {
	if !typ.Valid() {
		return opcode.NOP, false
	}
	e := t.entries[typ]
	return e.op, e.ok
}

// LookupDescriptor is Lookup keyed by the type descriptor tag.
func (t Table) LookupDescriptor(desc string) (opcode.Opcode, bool) {
	typ, ok := numeric.FromDescriptor(desc)
	if !ok {
		return opcode.NOP, false
	}
	return t.Lookup(typ)
}

// Supported lists the types present in the table in rank order.
func (t Table) Supported() []numeric.Type {
	out := make([]numeric.Type, 0, numeric.Count)
	for _, typ := range numeric.All() {
		if t.entries[typ].ok {
			out = append(out, typ)
		}
	}
	return out
}

var full = [opCount]map[numeric.Type]opcode.Opcode{
	Add: {numeric.Int32: opcode.IADD, numeric.Int64: opcode.LADD, numeric.Float32: opcode.FADD, numeric.Float64: opcode.DADD},
	Sub: {numeric.Int32: opcode.ISUB, numeric.Int64: opcode.LSUB, numeric.Float32: opcode.FSUB, numeric.Float64: opcode.DSUB},
	Mul: {numeric.Int32: opcode.IMUL, numeric.Int64: opcode.LMUL, numeric.Float32: opcode.FMUL, numeric.Float64: opcode.DMUL},
	Div: {numeric.Int32: opcode.IDIV, numeric.Int64: opcode.LDIV, numeric.Float32: opcode.FDIV, numeric.Float64: opcode.DDIV},
	Rem: {numeric.Int32: opcode.IREM, numeric.Int64: opcode.LREM, numeric.Float32: opcode.FREM, numeric.Float64: opcode.DREM},
}

// tables is built once and only read afterwards.
var tables = func() map[Target][opCount]Table {
	var jvm, portable [opCount]Table
	for _, op := range Ops() {
		jvm[op] = NewTable(op, full[op])
		portable[op] = jvm[op]
	}
	portable[Rem] = NewTable(Rem, map[numeric.Type]opcode.Opcode{
		numeric.Int32: opcode.IREM,
		numeric.Int64: opcode.LREM,
	})
	return map[Target][opCount]Table{
		TargetJVM:      jvm,
		TargetPortable: portable,
	}
}()

// TableFor returns the dispatch table of op on target. Unknown targets and
// operators yield an empty table, so every lookup misses.
func TableFor(target Target, op Op) Table {
	set, ok := tables[target]
	if !ok || int(op) >= opCount {
		return Table{op: op}
	}
	return set[op]
}
