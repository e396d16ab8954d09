package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"exprc/internal/artifact"
	"exprc/internal/diag"
	"exprc/internal/trace"
)

// BuildRequest configures artifact output for a compilation.
type BuildRequest struct {
	CompileRequest
	OutDir string
}

// BuildResult captures the written artifact paths next to the compile result.
type BuildResult struct {
	CompileResult
	Outputs     []string
	WriteErrors int
}

// Build compiles the requested units and writes one artifact per unit that
// compiled cleanly. Units with errors are skipped; their diagnostics are in
// the result bag. Only pipeline failures are returned as errors.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	compileRes, err := Compile(ctx, &req.CompileRequest)
	result.CompileResult = compileRes
	if err != nil {
		return result, err
	}

	outDir := req.OutDir
	if outDir == "" {
		outDir = "build"
	}

	var sink ProgressSink
	if req.Progress != nil {
		sink = &lockedSink{sink: req.Progress}
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "write", trace.CurrentSpan(ctx))
	defer span.End("")

	writeStart := time.Now()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		err = fmt.Errorf("failed to create output directory: %w", err)
		emitStage(sink, nil, StageWrite, StatusError, err, 0)
		return result, err
	}
	emitStage(sink, nil, StageWrite, StatusWorking, nil, 0)

	rep := diag.BagReporter{Bag: result.Bag}
	for _, ur := range result.Units {
		if ur.Artifact == nil {
			continue
		}
		file := DisplayPath(ur.Unit.Path, req.BaseDir)
		if sink != nil {
			sink.OnEvent(Event{File: file, Stage: StageWrite, Status: StatusWorking})
		}
		out := filepath.Join(outDir, ur.Unit.Name+artifact.Ext)
		if werr := artifact.WriteFile(out, ur.Artifact); werr != nil {
			result.WriteErrors++
			diag.ReportError(rep, diag.ProjWriteFailed, diag.Origin{Unit: ur.Unit.Name}, werr.Error()).Emit()
			trace.Error(tracer, trace.ScopeUnit, "write:"+ur.Unit.Name, werr.Error(), span.ID())
			if sink != nil {
				sink.OnEvent(Event{File: file, Stage: StageWrite, Status: StatusError, Err: werr})
			}
			continue
		}
		trace.Point(tracer, trace.ScopeUnit, "write:"+ur.Unit.Name, out, span.ID())
		result.Outputs = append(result.Outputs, out)
		if sink != nil {
			sink.OnEvent(Event{File: file, Stage: StageWrite, Status: StatusDone})
		}
	}
	result.Bag.Sort()

	elapsed := time.Since(writeStart)
	result.Timings.Set(StageWrite, elapsed)
	if req.Timer != nil {
		req.Timer.Add("write", elapsed)
	}
	emitStage(sink, nil, StageWrite, StatusDone, nil, elapsed)
	return result, nil
}
