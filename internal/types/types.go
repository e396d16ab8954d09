package types

import (
	"fmt"
	"strings"

	"exprc/internal/numeric"
)

// Kind enumerates the static kinds a leaf value can have.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindReference
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindReference:
		return "reference"
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats.
type Width uint8

const (
	WidthAny Width = 0
	Width32  Width = 32
	Width64  Width = 64
)

const stringClass = "java/lang/String"

// Type is a compact descriptor for the static type of a value.
type Type struct {
	Kind  Kind
	Width Width  // for numeric primitives
	Class string // internal class name for references, e.g. java/lang/Object
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakeReference describes an object reference to the named class.
// Dotted names are converted to the internal slash form.
func MakeReference(class string) Type {
	class = strings.ReplaceAll(class, ".", "/")
	if class == stringClass {
		return String()
	}
	return Type{Kind: KindReference, Class: class}
}

// Bool describes the boolean type.
func Bool() Type { return Type{Kind: KindBool} }

// String describes java/lang/String.
func String() Type { return Type{Kind: KindString, Class: stringClass} }

// Null describes the type of the null literal.
func Null() Type { return Type{Kind: KindNull} }

// FromNumeric lifts a numeric registry type into a static type.
func FromNumeric(t numeric.Type) Type {
	switch t {
	case numeric.Int32:
		return MakeInt(Width32)
	case numeric.Int64:
		return MakeInt(Width64)
	case numeric.Float32:
		return MakeFloat(Width32)
	case numeric.Float64:
		return MakeFloat(Width64)
	default:
		return Type{}
	}
}

// Numeric maps t to the numeric registry. Only 32/64-bit ints and floats
// qualify; everything else reports false.
func (t Type) Numeric() (numeric.Type, bool) {
	switch {
	case t.Kind == KindInt && t.Width == Width32:
		return numeric.Int32, true
	case t.Kind == KindInt && t.Width == Width64:
		return numeric.Int64, true
	case t.Kind == KindFloat && t.Width == Width32:
		return numeric.Float32, true
	case t.Kind == KindFloat && t.Width == Width64:
		return numeric.Float64, true
	default:
		return numeric.Invalid, false
	}
}

// Slots is the number of local/stack slots a value of t occupies.
func (t Type) Slots() int {
	if n, ok := t.Numeric(); ok {
		return n.Slots()
	}
	if t.Kind == KindInvalid {
		return 0
	}
	return 1
}

// Descriptor renders the JVM field descriptor of t.
func (t Type) Descriptor() string {
	if n, ok := t.Numeric(); ok {
		return n.Descriptor()
	}
	switch t.Kind {
	case KindBool:
		return "Z"
	case KindString, KindReference:
		return "L" + t.Class + ";"
	case KindNull:
		return "null"
	default:
		return "?"
	}
}

func (t Type) String() string {
	if n, ok := t.Numeric(); ok {
		return n.String()
	}
	switch t.Kind {
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindReference:
		return strings.ReplaceAll(t.Class, "/", ".")
	case KindNull:
		return "null"
	default:
		return t.Kind.String()
	}
}

// Parse resolves a declared type name. Numeric names follow numeric.Parse;
// "boolean"/"bool" and "string"/"String" are builtin; any other Java-style
// identifier is taken as a reference type.
func Parse(name string) (Type, error) {
	name = strings.TrimSpace(name)
	if n, ok := numeric.Parse(name); ok {
		return FromNumeric(n), nil
	}
	switch name {
	case "":
		return Type{}, fmt.Errorf("empty type name")
	case "boolean", "bool":
		return Bool(), nil
	case "string", "String":
		return String(), nil
	}
	for _, seg := range strings.Split(name, ".") {
		if !isIdent(seg) {
			return Type{}, fmt.Errorf("invalid type name %q", name)
		}
	}
	return MakeReference(name), nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
