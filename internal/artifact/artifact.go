// Package artifact defines the on-disk form of a compiled unit.
package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"exprc/internal/emit"
)

// SchemaVersion is bumped whenever File changes shape.
const SchemaVersion uint16 = 1

// Ext is the artifact file suffix.
const Ext = ".exo"

// ErrSchema is returned for artifacts written by another schema version.
var ErrSchema = errors.New("artifact schema mismatch")

// File is one compiled unit.
type File struct {
	Schema  uint16   `msgpack:"schema"`
	Unit    string   `msgpack:"unit"`
	Target  string   `msgpack:"target"`
	Hash    [32]byte `msgpack:"hash"` // sha256 of the unit file content
	Locals  []Local  `msgpack:"locals"`
	Exprs   []Expr   `msgpack:"exprs"`
	MaxLocs int      `msgpack:"max_locals"`
}

// Local describes a declared variable slot.
type Local struct {
	Name       string `msgpack:"name"`
	Descriptor string `msgpack:"desc"`
	Slot       uint16 `msgpack:"slot"`
}

// Expr is one compiled expression.
type Expr struct {
	Name       string       `msgpack:"name"`
	Descriptor string       `msgpack:"desc"` // result type
	MaxStack   int          `msgpack:"max_stack"`
	Instrs     []emit.Instr `msgpack:"code"`
	Consts     []emit.Const `msgpack:"consts"`
}

// Encode writes f in msgpack form, stamping the current schema.
func Encode(w io.Writer, f *File) error {
	if f == nil {
		return fmt.Errorf("nil artifact")
	}
	f.Schema = SchemaVersion
	return msgpack.NewEncoder(w).Encode(f)
}

// Decode reads an artifact and rejects foreign schemas.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if f.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, f.Schema, SchemaVersion)
	}
	return &f, nil
}

// WriteFile atomically replaces path with the encoded artifact.
func WriteFile(path string, f *File) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "tmp-*"+Ext)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if err = Encode(tmp, f); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp.Name(), path)
}

// ReadFile decodes the artifact stored at path.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Decode(fh)
}

// Dump writes a human readable listing of f.
func Dump(w io.Writer, f *File) error {
	if _, err := fmt.Fprintf(w, "unit %s (target %s, schema %d)\n", f.Unit, f.Target, f.Schema); err != nil {
		return err
	}
	for _, l := range f.Locals {
		if _, err := fmt.Fprintf(w, "  local %d: %s %s\n", l.Slot, l.Name, l.Descriptor); err != nil {
			return err
		}
	}
	for _, e := range f.Exprs {
		if _, err := fmt.Fprintf(w, "\nexpr %s -> %s  (max_stack=%d, max_locals=%d)\n", e.Name, e.Descriptor, e.MaxStack, f.MaxLocs); err != nil {
			return err
		}
		if err := emit.Disassemble(w, e.Instrs, e.Consts); err != nil {
			return err
		}
	}
	return nil
}
