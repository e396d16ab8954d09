package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerBeginEnd(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "3 units")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 1 || r.Phases[0].Name != "load" || r.Phases[0].Note != "3 units" {
		t.Fatalf("report = %+v", r)
	}
	if !strings.Contains(tm.Summary(), "// 3 units") {
		t.Fatalf("summary = %q", tm.Summary())
	}
}

func TestTimerAddAggregates(t *testing.T) {
	tm := NewTimer()
	tm.End(tm.Begin("compile"), "")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("unit", time.Millisecond)
		}()
	}
	wg.Wait()

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %+v", r.Phases)
	}
	unit := r.Phases[1]
	if unit.Count != 8 || unit.DurationMS < 8 {
		t.Fatalf("unit phase = %+v", unit)
	}
	if r.TotalMS >= unit.DurationMS {
		t.Fatalf("aggregated phase must not count toward total: %+v", r)
	}
}

func TestEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.Phases != nil || r.TotalMS != 0 {
		t.Fatalf("empty report = %+v", r)
	}
}
