package diag

import (
	"sync"
	"testing"
)

func TestBagLimitAndSeverity(t *testing.T) {
	b := NewBag(2)
	r := BagReporter{Bag: b}
	ReportWarning(r, UnitEmpty, Origin{Unit: "a"}, "no expressions").Emit()
	if b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected only warnings")
	}
	ReportError(r, ExprTypeResolution, Origin{Unit: "a", Expr: "e", Node: "e.left"}, "bad").Emit()
	if b.Add(Diagnostic{Severity: SevError}) {
		t.Fatalf("bag must reject items past its limit")
	}
	if b.Len() != 2 || !b.HasErrors() {
		t.Fatalf("len=%d errors=%v", b.Len(), b.HasErrors())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(10)
	rb := ReportError(BagReporter{Bag: b}, ExprUnsupportedOperation, Origin{Expr: "x"}, "no").
		WithNote(Origin{Expr: "x", Node: "x.left"}, "left operand is double")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("builder emitted %d times", b.Len())
	}
	if got := b.Items()[0].Notes; len(got) != 1 || got[0].Origin.Node != "x.left" {
		t.Fatalf("notes = %+v", got)
	}
}

func TestSortAndDedup(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Severity: SevWarning, Code: UnitEmpty, Primary: Origin{Unit: "b"}})
	b.Add(Diagnostic{Severity: SevError, Code: ExprTypeResolution, Primary: Origin{Unit: "a", Expr: "z"}})
	b.Add(Diagnostic{Severity: SevError, Code: ExprTypeResolution, Primary: Origin{Unit: "a", Expr: "z"}})
	b.Add(Diagnostic{Severity: SevError, Code: UnitBadNode, Primary: Origin{Unit: "a", Expr: "m"}})
	b.Dedup()
	b.Sort()
	items := b.Items()
	if len(items) != 3 {
		t.Fatalf("dedup kept %d items", len(items))
	}
	order := []string{"a:m", "a:z", "b"}
	for i, want := range order {
		if got := items[i].Primary.String(); got != want {
			t.Errorf("item %d origin = %q, want %q", i, got, want)
		}
	}
}

func TestBagConcurrentAdd(t *testing.T) {
	b := NewBag(1000)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Add(Diagnostic{Severity: SevInfo})
			}
		}()
	}
	wg.Wait()
	if b.Len() != 400 {
		t.Fatalf("len = %d, want 400", b.Len())
	}
}

func TestMergeGrowsLimit(t *testing.T) {
	a, other := NewBag(1), NewBag(5)
	a.Add(Diagnostic{Code: UnitBadNode})
	other.Add(Diagnostic{Code: UnitLiteralRange})
	other.Add(Diagnostic{Code: UnitUnknownOp})
	a.Merge(other)
	if a.Len() != 3 || a.Cap() != 3 {
		t.Fatalf("len=%d cap=%d after merge", a.Len(), a.Cap())
	}
}

func TestDroppedCountsSurviveMerge(t *testing.T) {
	unitBag := NewBag(1)
	unitBag.Add(Diagnostic{Severity: SevWarning, Code: ProjCacheCorrupt})
	if unitBag.Add(Diagnostic{Severity: SevError, Code: ExprTypeResolution}) {
		t.Fatal("second diagnostic must be rejected")
	}
	unitBag.Add(Diagnostic{Severity: SevError, Code: ExprUnsupportedOperation})
	if unitBag.Len() != 1 || unitBag.Dropped() != 2 {
		t.Fatalf("len=%d dropped=%d", unitBag.Len(), unitBag.Dropped())
	}
	if !unitBag.HasErrors() || unitBag.Count(SevError) != 2 || unitBag.Count(SevWarning) != 1 {
		t.Fatalf("errors=%v count=%d", unitBag.HasErrors(), unitBag.Count(SevError))
	}

	all := NewBag(1)
	all.Merge(unitBag)
	if all.Count(SevError) != 2 || all.Dropped() != 2 || !all.HasErrors() {
		t.Fatalf("merged: errors=%d dropped=%d", all.Count(SevError), all.Dropped())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		UnitBadNode:              "UNT1001",
		ExprTypeResolution:       "EXP3001",
		ExprUnsupportedOperation: "EXP3002",
		ProjBadManifest:          "PRJ5001",
		UnknownCode:              "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}
