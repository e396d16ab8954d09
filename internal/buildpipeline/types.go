package buildpipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageLoad decodes unit files.
	StageLoad Stage = "load"
	// StageCompile compiles expression trees.
	StageCompile Stage = "compile"
	// StageWrite writes artifacts.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a unit file (or for the overall pipeline when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Done renders the stage in past tense for summaries.
func (s Stage) Done() string {
	switch s {
	case StageLoad:
		return "loaded"
	case StageCompile:
		return "compiled"
	case StageWrite:
		return "wrote"
	default:
		return string(s)
	}
}

type stageTiming struct {
	stage Stage
	dur   time.Duration
}

// Timings records stage durations in the order the stages finished.
// The zero value is empty and ready to use.
type Timings struct {
	entries []stageTiming
}

// Set records dur for stage, replacing an earlier value in place.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	for i := range t.entries {
		if t.entries[i].stage == stage {
			t.entries[i].dur = dur
			return
		}
	}
	t.entries = append(t.entries, stageTiming{stage: stage, dur: dur})
}

// Has reports whether stage finished.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.lookup(stage)
	return ok
}

// Duration returns the recorded duration for stage, or zero.
func (t Timings) Duration(stage Stage) time.Duration {
	d, _ := t.lookup(stage)
	return d
}

// Sum adds up the durations of the given stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.Duration(stage)
	}
	return total
}

// Each visits recorded stages in completion order.
func (t Timings) Each(fn func(Stage, time.Duration)) {
	for _, e := range t.entries {
		fn(e.stage, e.dur)
	}
}

func (t Timings) lookup(stage Stage) (time.Duration, bool) {
	for _, e := range t.entries {
		if e.stage == stage {
			return e.dur, true
		}
	}
	return 0, false
}
