package emit

import (
	"fmt"
	"math"
	"strconv"

	"fortio.org/safecast"
)

// ConstKind enumerates constant pool entry kinds.
type ConstKind uint8

const (
	ConstInt ConstKind = iota + 1
	ConstLong
	ConstFloat
	ConstDouble
	ConstString
)

func (k ConstKind) String() string {
	switch k {
	case ConstInt:
		return "int"
	case ConstLong:
		return "long"
	case ConstFloat:
		return "float"
	case ConstDouble:
		return "double"
	case ConstString:
		return "string"
	default:
		return "unknown"
	}
}

// Wide reports whether the constant takes two slots (LDC2_W).
func (k ConstKind) Wide() bool {
	return k == ConstLong || k == ConstDouble
}

// Const is one constant pool entry.
type Const struct {
	Kind  ConstKind `msgpack:"k"`
	Int   int64     `msgpack:"i,omitempty"`
	Float float64   `msgpack:"f,omitempty"`
	Str   string    `msgpack:"s,omitempty"`
}

func (c Const) String() string {
	switch c.Kind {
	case ConstInt:
		return strconv.FormatInt(c.Int, 10)
	case ConstLong:
		return strconv.FormatInt(c.Int, 10) + "L"
	case ConstFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 32) + "f"
	case ConstDouble:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case ConstString:
		return strconv.Quote(c.Str)
	default:
		return "?"
	}
}

// constKey compares floats by bit pattern so NaN constants intern too.
type constKey struct {
	kind ConstKind
	bits uint64
	str  string
}

func keyOf(c Const) constKey {
	switch c.Kind {
	case ConstFloat, ConstDouble:
		return constKey{kind: c.Kind, bits: math.Float64bits(c.Float)}
	case ConstString:
		return constKey{kind: c.Kind, str: c.Str}
	default:
		return constKey{kind: c.Kind, bits: uint64(c.Int)}
	}
}

// ConstPool interns constants and hands out stable indices.
type ConstPool struct {
	items []Const
	index map[constKey]uint16
}

// NewConstPool returns an empty pool.
func NewConstPool() *ConstPool {
	return &ConstPool{index: make(map[constKey]uint16)}
}

// Add returns the index of c, appending it when not yet present.
func (p *ConstPool) Add(c Const) (uint16, error) {
	k := keyOf(c)
	if idx, ok := p.index[k]; ok {
		return idx, nil
	}
	idx, err := safecast.Conv[uint16](len(p.items))
	if err != nil {
		return 0, fmt.Errorf("constant pool overflow: %w", err)
	}
	p.items = append(p.items, c)
	p.index[k] = idx
	return idx, nil
}

// Len returns the number of entries.
func (p *ConstPool) Len() int { return len(p.items) }

// Items возвращает read-only срез констант.
func (p *ConstPool) Items() []Const { return p.items }
