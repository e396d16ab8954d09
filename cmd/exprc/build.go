package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"exprc/internal/buildpipeline"
	"exprc/internal/observ"
	"exprc/internal/trace"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [unit.toml|directory ...]",
	Short: "Compile unit files into .exo artifacts",
	Long: `Compile every expression of the given unit files (or of the units listed in
exprc.toml) and write one .exo artifact per unit that compiled cleanly`,
	RunE: runBuild,
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] [unit.toml|directory ...]",
	Short: "Type-check unit files without writing artifacts",
	RunE:  runCheck,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "", "artifact directory (default [build].out_dir or ./build)")
	addFormatFlag(buildCmd)
	addFormatFlag(checkCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd, args)
	if err != nil {
		return err
	}
	ctx, span := commandSpan(cmd.Context(), "build")
	defer span.End("")

	timer := observ.NewTimer()
	req := &buildpipeline.BuildRequest{
		CompileRequest: compileRequest(cmd, s, timer),
		OutDir:         s.outDir,
	}

	useUI, err := wantUI(cmd, s)
	if err != nil {
		return err
	}
	var res buildpipeline.BuildResult
	if useUI {
		res, err = runWithUI("build", buildpipeline.ProgressFiles(s.files, s.baseDir), func(sink buildpipeline.ProgressSink) (buildpipeline.BuildResult, error) {
			r := *req
			r.Progress = sink
			return buildpipeline.Build(ctx, &r)
		})
	} else {
		res, err = buildpipeline.Build(ctx, req)
	}
	if err != nil {
		return err
	}

	if err := printDiagnostics(cmd, res.Bag, s.maxDiagnostics); err != nil {
		return err
	}
	if s.timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings, true)
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d of %d artifacts to %s%s\n",
			len(res.Outputs), len(res.Units), s.outDir, cachedSuffix(res.CompileResult))
	}
	if n := errorCount(res.Bag); n > 0 || res.WriteErrors > 0 {
		return fmt.Errorf("build failed with %d error(s)", max(n, res.WriteErrors))
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd, args)
	if err != nil {
		return err
	}
	ctx, span := commandSpan(cmd.Context(), "check")
	defer span.End("")

	timer := observ.NewTimer()
	req := compileRequest(cmd, s, timer)

	useUI, err := wantUI(cmd, s)
	if err != nil {
		return err
	}
	var res buildpipeline.CompileResult
	if useUI {
		res, err = runWithUI("check", buildpipeline.ProgressFiles(s.files, s.baseDir), func(sink buildpipeline.ProgressSink) (buildpipeline.CompileResult, error) {
			r := req
			r.Progress = sink
			return buildpipeline.Compile(ctx, &r)
		})
	} else {
		res, err = buildpipeline.Compile(ctx, &req)
	}
	if err != nil {
		return err
	}

	if err := printDiagnostics(cmd, res.Bag, s.maxDiagnostics); err != nil {
		return err
	}
	if s.timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings, false)
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if n := errorCount(res.Bag); n > 0 {
		return fmt.Errorf("check failed with %d error(s)", n)
	}
	if !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "checked %d units%s\n", len(res.Units), cachedSuffix(res))
	}
	return nil
}

func compileRequest(cmd *cobra.Command, s *buildSettings, timer *observ.Timer) buildpipeline.CompileRequest {
	return buildpipeline.CompileRequest{
		Files:          s.files,
		BaseDir:        s.baseDir,
		Target:         s.target,
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiagnostics,
		Cache:          openCache(s, cmd),
		Timer:          timer,
	}
}

func wantUI(cmd *cobra.Command, s *buildSettings) (bool, error) {
	if s.quiet {
		return false, nil
	}
	uiFlag, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return false, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return false, err
	}
	return shouldUseTUI(mode), nil
}

// commandSpan opens the driver-scope span of one CLI command.
func commandSpan(ctx context.Context, name string) (context.Context, *trace.Span) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, name, 0)
	return trace.WithSpan(ctx, span), span
}

func cachedSuffix(res buildpipeline.CompileResult) string {
	cached := 0
	for _, u := range res.Units {
		if u.Cached {
			cached++
		}
	}
	if cached == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d cached)", cached)
}
