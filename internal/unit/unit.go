// Package unit loads expression trees and their variable declarations from
// TOML unit files. Trees arrive already structured; nothing is parsed from
// expression source text.
package unit

import (
	"crypto/sha256"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"exprc/internal/arith"
	"exprc/internal/diag"
	"exprc/internal/expr"
	"exprc/internal/symbols"
	"exprc/internal/types"
)

// Ext is the conventional unit file suffix.
const Ext = ".unit.toml"

// Expr is one named expression tree of a unit.
type Expr struct {
	Name  string
	Root  expr.Node
	Paths map[expr.Node]string
}

// Path returns the dotted origin path of n, or the expression name.
func (e *Expr) Path(n expr.Node) string {
	if p, ok := e.Paths[n]; ok {
		return p
	}
	return e.Name
}

// Unit is a loaded unit file. Symbols is frozen.
type Unit struct {
	Name    string
	Path    string
	Target  string // empty when the file does not override the build target
	Symbols *symbols.Table
	Exprs   []*Expr
	Hash    [32]byte
	Broken  bool // a load error was reported
}

// NameFromPath strips the directory and the unit suffix.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, Ext):
		return strings.TrimSuffix(base, Ext)
	default:
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
}

// Load reads and decodes a unit file. Only I/O failures are returned as
// errors; content problems are reported through rep.
func Load(path string, rep diag.Reporter) (*Unit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit %s: %w", path, err)
	}
	u := Parse(NameFromPath(path), content, rep)
	u.Path = path
	return u, nil
}

// Parse decodes unit content. The returned unit is never nil.
func Parse(name string, content []byte, rep diag.Reporter) *Unit {
	l := &loader{
		rep: rep,
		unit: &Unit{
			Name:    name,
			Symbols: symbols.NewTable(),
			Hash:    sha256.Sum256(content),
		},
	}
	l.load(content)
	l.unit.Symbols.Freeze()
	return l.unit
}

type loader struct {
	rep  diag.Reporter
	unit *Unit
}

func (l *loader) errorf(code diag.Code, o diag.Origin, format string, args ...any) {
	l.unit.Broken = true
	diag.ReportError(l.rep, code, o, fmt.Sprintf(format, args...)).Emit()
}

func (l *loader) origin(exprName, node string) diag.Origin {
	return diag.Origin{Unit: l.unit.Name, Expr: exprName, Node: node}
}

func (l *loader) load(content []byte) {
	var doc fileDoc
	md, err := toml.Decode(string(content), &doc)
	if err != nil {
		l.errorf(diag.UnitSyntax, l.origin("", ""), "failed to parse TOML: %v", err)
		return
	}
	for _, key := range md.Undecoded() {
		diag.ReportWarning(l.rep, diag.UnitUnknownKey, l.origin("", key.String()),
			fmt.Sprintf("unknown key %q ignored", key.String())).Emit()
	}
	if name := strings.TrimSpace(doc.Name); name != "" {
		l.unit.Name = name
	}
	if doc.Target != "" {
		if _, err := arith.ParseTarget(doc.Target); err != nil {
			l.errorf(diag.UnitBadNode, l.origin("", "target"), "%v", err)
		} else {
			l.unit.Target = doc.Target
		}
	}
	l.declareVars(md, doc.Vars)
	l.buildExprs(doc.Expr)
	if len(l.unit.Exprs) == 0 && !l.unit.Broken {
		diag.ReportWarning(l.rep, diag.UnitEmpty, l.origin("", ""), "unit declares no expressions").Emit()
	}
}

// declareVars allocates slots in document order so builds are reproducible.
func (l *loader) declareVars(md toml.MetaData, vars map[string]string) {
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "vars" {
			continue
		}
		name := key[1]
		typeName, ok := vars[name]
		if !ok {
			continue
		}
		o := l.origin("", "vars."+name)
		typ, err := types.Parse(typeName)
		if err != nil {
			l.errorf(diag.UnitUnknownType, o, "variable %s: %v", name, err)
			continue
		}
		if _, err := l.unit.Symbols.Declare(name, typ); err != nil {
			l.errorf(diag.UnitDuplicateVar, o, "%v", err)
		}
	}
}

func (l *loader) buildExprs(docs []exprDoc) {
	seen := make(map[string]bool, len(docs))
	for i, es := range docs {
		name := strings.TrimSpace(es.Name)
		if name == "" {
			l.errorf(diag.UnitBadNode, l.origin("", fmt.Sprintf("expr[%d]", i)), "expression #%d has no name", i+1)
			continue
		}
		if seen[name] {
			l.errorf(diag.UnitDuplicateExpr, l.origin(name, name), "expression %q declared twice", name)
			continue
		}
		seen[name] = true
		if es.Tree == nil {
			l.errorf(diag.UnitBadNode, l.origin(name, name), "expression %q has no tree", name)
			continue
		}
		b := &treeBuilder{loader: l, exprName: name, paths: make(map[expr.Node]string)}
		root, ok := b.node(es.Tree, name)
		if !ok {
			continue
		}
		l.unit.Exprs = append(l.unit.Exprs, &Expr{Name: name, Root: root, Paths: b.paths})
	}
}

type treeBuilder struct {
	*loader
	exprName string
	paths    map[expr.Node]string
}

func (b *treeBuilder) node(doc *nodeDoc, path string) (expr.Node, bool) {
	o := b.origin(b.exprName, path)
	if doc == nil {
		b.errorf(diag.UnitBadNode, o, "%s: missing operand", path)
		return nil, false
	}
	leaves := doc.leafKeys()
	if doc.Op != "" {
		if len(leaves) > 0 {
			b.errorf(diag.UnitBadNode, o, "%s: operator node must not carry leaf keys %v", path, leaves)
			return nil, false
		}
		return b.binary(doc, path)
	}
	if len(leaves) != 1 {
		b.errorf(diag.UnitBadNode, o, "%s: expected op or exactly one of int, long, float, double, string, bool, null, var; got %v", path, leaves)
		return nil, false
	}
	n, ok := b.leaf(doc, leaves[0], path)
	if ok {
		b.paths[n] = path
	}
	return n, ok
}

func (b *treeBuilder) binary(doc *nodeDoc, path string) (expr.Node, bool) {
	op, err := arith.ParseOp(doc.Op)
	if err != nil {
		b.errorf(diag.UnitUnknownOp, b.origin(b.exprName, path), "%s: %v", path, err)
		return nil, false
	}
	left, lok := b.node(doc.Left, path+".left")
	right, rok := b.node(doc.Right, path+".right")
	if !lok || !rok {
		return nil, false
	}
	n := expr.NewBinary(op, left, right)
	b.paths[n] = path
	return n, true
}

func (b *treeBuilder) leaf(doc *nodeDoc, key, path string) (expr.Node, bool) {
	o := b.origin(b.exprName, path)
	switch key {
	case "int":
		v, err := safecast.Conv[int32](*doc.Int)
		if err != nil {
			b.errorf(diag.UnitLiteralRange, o, "%s: int literal %d out of range: %v", path, *doc.Int, err)
			return nil, false
		}
		return expr.IntLit(v), true
	case "long":
		return expr.LongLit(*doc.Long), true
	case "float":
		v := *doc.Float
		if !math.IsInf(v, 0) && !math.IsNaN(v) && math.Abs(v) > math.MaxFloat32 {
			b.errorf(diag.UnitLiteralRange, o, "%s: float literal %g out of range", path, v)
			return nil, false
		}
		return expr.FloatLit(float32(v)), true
	case "double":
		return expr.DoubleLit(*doc.Double), true
	case "string":
		return expr.StringLit(*doc.String), true
	case "bool":
		return expr.BoolLit(*doc.Bool), true
	case "null":
		if !*doc.Null {
			b.errorf(diag.UnitBadNode, o, "%s: null must be written as null = true", path)
			return nil, false
		}
		return expr.NullLit(), true
	case "var":
		name := symbols.Normalize(*doc.Var)
		if name == "" {
			b.errorf(diag.UnitBadNode, o, "%s: empty variable name", path)
			return nil, false
		}
		return expr.Var(name), true
	}
	b.errorf(diag.UnitBadNode, o, "%s: unsupported leaf %q", path, key)
	return nil, false
}
