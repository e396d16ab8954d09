package diag

import "strings"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Origin pinpoints the sub-expression a diagnostic is about.
// Expression trees arrive pre-parsed, so there are no byte offsets:
// Node is a dotted path from the expression root (area.left.right).
type Origin struct {
	Unit string
	Expr string
	Node string
}

func (o Origin) String() string {
	parts := make([]string, 0, 2)
	if o.Unit != "" {
		parts = append(parts, o.Unit)
	}
	switch {
	case o.Node != "":
		parts = append(parts, o.Node)
	case o.Expr != "":
		parts = append(parts, o.Expr)
	}
	return strings.Join(parts, ":")
}

type Note struct {
	Origin Origin
	Msg    string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Origin
	Notes    []Note
}

// WithNote returns a copy of d with an extra note.
func (d Diagnostic) WithNote(o Origin, msg string) Diagnostic {
	d.Notes = append(append([]Note(nil), d.Notes...), Note{Origin: o, Msg: msg})
	return d
}
