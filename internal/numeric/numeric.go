// Package numeric is the registry of primitive numeric kinds an arithmetic
// operation can execute in, together with their promotion order.
package numeric

import "fmt"

// Type is one member of the closed numeric set.
// The zero value is Invalid and never participates in promotion.
type Type uint8

const (
	Invalid Type = iota
	Int32
	Int64
	Float32
	Float64
)

// Count is the number of valid numeric types.
const Count = 4

type info struct {
	name       string
	short      string
	descriptor string
	slots      int
}

// индекс совпадает со значением Type, ранг равен индексу
var registry = [Count + 1]info{
	Invalid: {name: "invalid", short: "invalid", descriptor: "", slots: 0},
	Int32:   {name: "int", short: "i32", descriptor: "I", slots: 1},
	Int64:   {name: "long", short: "i64", descriptor: "J", slots: 2},
	Float32: {name: "float", short: "f32", descriptor: "F", slots: 1},
	Float64: {name: "double", short: "f64", descriptor: "D", slots: 2},
}

var all = [Count]Type{Int32, Int64, Float32, Float64}

// All returns every valid type in ascending rank order.
func All() []Type {
	out := all
	return out[:]
}

// Valid reports whether t belongs to the numeric set.
func (t Type) Valid() bool {
	return t >= Int32 && t <= Float64
}

// Rank is the position of t in the promotion order; Invalid has rank 0.
func (t Type) Rank() int {
	if !t.Valid() {
		return 0
	}
	return int(t)
}

// Slots is the number of operand-stack (and local) slots a value occupies.
func (t Type) Slots() int {
	if !t.Valid() {
		return 0
	}
	return registry[t].slots
}

// IsFloat reports whether t is a floating-point type.
func (t Type) IsFloat() bool {
	return t == Float32 || t == Float64
}

// Descriptor returns the external type tag used by dispatch tables.
func (t Type) Descriptor() string {
	if !t.Valid() {
		return ""
	}
	return registry[t].descriptor
}

func (t Type) String() string {
	if int(t) < len(registry) {
		return registry[t].name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Promote returns the higher-ranked of a and b.
func Promote(a, b Type) Type {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// DescriptorOf is the free-function form of Type.Descriptor.
func DescriptorOf(t Type) string {
	return t.Descriptor()
}

// FromDescriptor maps a descriptor tag back to its type.
func FromDescriptor(desc string) (Type, bool) {
	for _, t := range all {
		if registry[t].descriptor == desc {
			return t, true
		}
	}
	return Invalid, false
}

// Parse accepts both display names (int, long, float, double) and the short
// forms (i32, i64, f32, f64).
func Parse(name string) (Type, bool) {
	for _, t := range all {
		if registry[t].name == name || registry[t].short == name {
			return t, true
		}
	}
	return Invalid, false
}
