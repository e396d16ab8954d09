package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"exprc/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.ExprUnsupportedOperation,
		Message:  "'%' operation can not be applied to float (F)",
		Primary:  diag.Origin{Unit: "geometry", Expr: "ratio", Node: "ratio"},
		Notes: []diag.Note{{
			Origin: diag.Origin{Unit: "geometry", Expr: "ratio", Node: "ratio.left"},
			Msg:    "left operand is float (F)",
		}},
	})
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.UnitEmpty,
		Message:  "unit declares no expressions",
		Primary:  diag.Origin{Unit: "empty"},
	})
	return bag
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{ShowNotes: true, Summary: true}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"ERROR EXP3002: '%' operation can not be applied to float (F)",
		"  --> geometry:ratio",
		"  note: geometry:ratio.left: left operand is float (F)",
		"WARNING UNT1007: unit declares no expressions",
		"  --> empty",
		"1 error, 1 warning",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("pretty output mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestPrettyWidthAndColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{Width: 10}); err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.HasSuffix(first, "'%' opera…") {
		t.Fatalf("truncated line = %q", first)
	}
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes must be hidden without ShowNotes")
	}

	buf.Reset()
	if err := Pretty(&buf, sampleBag(), PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes in colored output: %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{Max: 1, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 || out.Omitted != 1 {
		t.Fatalf("count = %d, omitted = %d", out.Count, out.Omitted)
	}
	d := out.Diagnostics[0]
	if d.Code != "EXP3002" || d.Origin.Node != "ratio" || len(d.Notes) != 1 || d.Notes[0].Origin.Node != "ratio.left" {
		t.Fatalf("diagnostic = %+v", d)
	}
}

func TestPrettyMax(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{Max: 1, Summary: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "UNT1007") || !strings.Contains(out, "... and 1 more\n1 error, 1 warning\n") {
		t.Fatalf("output = %q", out)
	}
}

func TestPrettyCountsDiagnosticsPastBagLimit(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.ProjCacheCorrupt, Message: "bad entry", Primary: diag.Origin{Unit: "b"}})
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.ExprUnsupportedOperation, Primary: diag.Origin{Unit: "b", Expr: "x"}})
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.ExprUnsupportedOperation, Primary: diag.Origin{Unit: "b", Expr: "y"}})

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, PrettyOpts{Summary: true}); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.HasSuffix(out, "... and 2 more\n2 errors, 1 warning\n") {
		t.Fatalf("output = %q", out)
	}

	buf.Reset()
	if err := JSON(&buf, bag, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.Omitted != 2 {
		t.Fatalf("count = %d, omitted = %d", out.Count, out.Omitted)
	}
}
