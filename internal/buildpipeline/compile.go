// Package buildpipeline orchestrates the compilation process and reports
// per-unit progress to an optional sink.
package buildpipeline

import (
	"context"
	"fmt"
	"time"

	"exprc/internal/arith"
	"exprc/internal/diag"
	"exprc/internal/driver"
	"exprc/internal/observ"
)

// CompileRequest configures the shared load + compile pipeline.
type CompileRequest struct {
	Files          []string
	BaseDir        string // progress paths are shown relative to it
	Target         arith.Target
	Jobs           int
	MaxDiagnostics int
	Cache          *driver.DiskCache
	Timer          *observ.Timer
	Progress       ProgressSink
}

// CompileResult captures per-unit outcomes, every diagnostic and stage timings.
type CompileResult struct {
	Units   []driver.UnitResult
	Bag     *diag.Bag
	Timings Timings
}

// Compile loads and compiles every requested unit file.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing compile request")
	}
	if len(req.Files) == 0 {
		return result, fmt.Errorf("no unit files to compile")
	}

	var sink ProgressSink
	if req.Progress != nil {
		sink = &lockedSink{sink: req.Progress}
	}
	files := ProgressFiles(req.Files, req.BaseDir)
	emitQueued(sink, files)

	phase := &phaseObserver{sink: sink, baseDir: req.BaseDir}
	opts := &driver.Options{
		Target:         req.Target,
		Jobs:           req.Jobs,
		MaxDiagnostics: req.MaxDiagnostics,
		Cache:          req.Cache,
		Timer:          req.Timer,
		PhaseObserver:  phase.OnPhase,
	}

	loadStart := time.Now()
	loaded, err := driver.LoadUnits(ctx, req.Files, opts)
	if err != nil {
		emitStage(sink, files, StageLoad, StatusError, err, time.Since(loadStart))
		return result, err
	}
	result.Timings.Set(StageLoad, time.Since(loadStart))

	compileStart := time.Now()
	compiled, err := driver.Compile(ctx, loaded.Units, opts)
	if err != nil {
		emitStage(sink, files, StageCompile, StatusError, err, time.Since(compileStart))
		return result, err
	}
	result.Timings.Set(StageCompile, time.Since(compileStart))

	result.Units = compiled.Units
	maxDiag := req.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 100
	}
	result.Bag = diag.NewBag(maxDiag)
	result.Bag.Merge(loaded.Bag)
	result.Bag.Merge(compiled.Bag)
	result.Bag.Sort()
	return result, nil
}

type phaseObserver struct {
	sink    ProgressSink
	baseDir string
}

// OnPhase converts driver phase events into progress events.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	if p == nil || p.sink == nil {
		return
	}
	var stage Stage
	switch ev.Name {
	case "load":
		stage = StageLoad
	case "compile":
		stage = StageCompile
	default:
		return
	}
	status := StatusWorking
	switch ev.Status {
	case driver.PhaseEnd:
		status = StatusDone
	case driver.PhaseFailed:
		status = StatusError
	}
	file := ""
	if ev.Unit != "" {
		file = DisplayPath(ev.Unit, p.baseDir)
	}
	p.sink.OnEvent(Event{File: file, Stage: stage, Status: status, Elapsed: ev.Elapsed})
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageLoad, Status: StatusQueued})
	}
}

func emitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}
