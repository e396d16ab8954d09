package ui

import (
	"errors"
	"strings"
	"testing"

	"exprc/internal/buildpipeline"
)

func newModel(files ...string) *progressModel {
	return NewProgressModel("build", files, nil).(*progressModel)
}

func TestApplyEventTracksStages(t *testing.T) {
	m := newModel("a.unit.toml", "b.unit.toml")

	m.applyEvent(buildpipeline.Event{File: "a.unit.toml", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusWorking})
	if m.items[0].status != "compiling" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	m.applyEvent(buildpipeline.Event{File: "a.unit.toml", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "b.unit.toml", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusError, Err: errors.New("boom")})
	// поздние события не отменяют ошибку
	m.applyEvent(buildpipeline.Event{File: "b.unit.toml", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusWorking})
	if m.items[1].status != "error" {
		t.Fatalf("error status overwritten: %q", m.items[1].status)
	}
	if got := m.percent(); got != 1.0 {
		t.Fatalf("percent = %v", got)
	}

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusWorking})
	if m.stageLabel != "writing" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
	m.applyEvent(buildpipeline.Event{File: "unknown", Stage: buildpipeline.StageLoad, Status: buildpipeline.StatusDone})
}

func TestPercentIsMonotonicAcrossStages(t *testing.T) {
	steps := []fileItem{
		{state: buildpipeline.StatusQueued},
		{stage: buildpipeline.StageLoad, state: buildpipeline.StatusWorking},
		{stage: buildpipeline.StageLoad, state: buildpipeline.StatusDone},
		{stage: buildpipeline.StageCompile, state: buildpipeline.StatusWorking},
		{stage: buildpipeline.StageCompile, state: buildpipeline.StatusDone},
		{stage: buildpipeline.StageWrite, state: buildpipeline.StatusWorking},
		{stage: buildpipeline.StageWrite, state: buildpipeline.StatusDone},
	}
	prev := -1.0
	for i, it := range steps {
		p := itemProgress(it)
		if p < prev {
			t.Fatalf("step %d: progress %v < %v", i, p, prev)
		}
		prev = p
	}
	if prev != 1.0 {
		t.Fatalf("final progress = %v", prev)
	}
}

func TestViewListsUnits(t *testing.T) {
	m := newModel("geometry.unit.toml")
	m.applyEvent(buildpipeline.Event{File: "geometry.unit.toml", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusError, Err: errors.New("bad tree")})
	view := m.View()
	for _, want := range []string{"build", "geometry.unit.toml", "error", "bad tree", "1 of 1 units failed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}
	if newModel().View() != "" {
		t.Fatal("empty model must render nothing")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
}
