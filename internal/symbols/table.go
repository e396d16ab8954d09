package symbols

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"exprc/internal/types"
)

var (
	// ErrRedeclared is returned when a name is declared twice.
	ErrRedeclared = errors.New("variable redeclared")
	// ErrFrozen is returned when declaring into a frozen table.
	ErrFrozen = errors.New("symbol table is frozen")
)

// Symbol is a declared variable with its local slot.
type Symbol struct {
	Name string
	Type types.Type
	Slot uint16
}

// Table maps variable names to their static types and local slots.
// Once frozen it is read-only and may be shared by concurrent compilations.
type Table struct {
	syms   []Symbol
	byName map[string]int
	next   int
	frozen bool
}

// NewTable returns an empty table whose first local is slot 0.
func NewTable() *Table {
	return &Table{byName: make(map[string]int)}
}

// Normalize returns the canonical (NFC, trimmed) spelling of a name.
func Normalize(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Declare allocates the next local slot(s) for name.
// long and double take two slots.
func (t *Table) Declare(name string, typ types.Type) (Symbol, error) {
	if t.frozen {
		return Symbol{}, ErrFrozen
	}
	key := Normalize(name)
	if key == "" {
		return Symbol{}, fmt.Errorf("empty variable name")
	}
	if typ.Kind == types.KindInvalid {
		return Symbol{}, fmt.Errorf("variable %q has invalid type", key)
	}
	if _, ok := t.byName[key]; ok {
		return Symbol{}, fmt.Errorf("%w: %s", ErrRedeclared, key)
	}
	slot, err := safecast.Conv[uint16](t.next)
	if err != nil {
		return Symbol{}, fmt.Errorf("too many locals declaring %q: %w", key, err)
	}
	sym := Symbol{Name: key, Type: typ, Slot: slot}
	t.byName[key] = len(t.syms)
	t.syms = append(t.syms, sym)
	t.next += typ.Slots()
	return sym, nil
}

// Lookup finds name after normalisation.
func (t *Table) Lookup(name string) (Symbol, bool) {
	if t == nil {
		return Symbol{}, false
	}
	idx, ok := t.byName[Normalize(name)]
	if !ok {
		return Symbol{}, false
	}
	return t.syms[idx], true
}

// Freeze forbids further declarations.
func (t *Table) Freeze() { t.frozen = true }

// Frozen reports whether Freeze was called.
func (t *Table) Frozen() bool { return t.frozen }

// Len returns the number of declared symbols.
func (t *Table) Len() int { return len(t.syms) }

// MaxLocals is the number of local slots used by all declarations.
func (t *Table) MaxLocals() int { return t.next }

// Symbols returns the declarations in order; the slice must not be modified.
func (t *Table) Symbols() []Symbol { return t.syms }
