package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exprc/internal/arith"
	"exprc/internal/driver"
	"exprc/internal/project"
)

const noManifestMessage = "no exprc.toml found\nplease name the unit files explicitly, e.g.:\n  exprc build shapes.unit.toml"

// buildSettings merges exprc.toml with command-line flags; flags win.
type buildSettings struct {
	files          []string
	baseDir        string
	target         arith.Target
	jobs           int
	maxDiagnostics int
	outDir         string
	cache          bool
	quiet          bool
	timings        bool
	manifest       *project.Manifest
}

func resolveSettings(cmd *cobra.Command, args []string) (*buildSettings, error) {
	flags := cmd.Root().PersistentFlags()

	manifest, found, err := project.Load(".")
	if err != nil {
		return nil, err
	}
	s := &buildSettings{baseDir: ".", outDir: "build", cache: true, maxDiagnostics: 100}
	if found {
		s.manifest = manifest
		s.baseDir = manifest.Root
		s.outDir = manifest.OutDir()
		s.cache = manifest.CacheEnabled()
		if manifest.Config.Build.MaxDiagnostics > 0 {
			s.maxDiagnostics = manifest.Config.Build.MaxDiagnostics
		}
		s.jobs = manifest.Config.Build.Jobs
	}

	s.files, err = resolveUnitFiles(args, manifest)
	if err != nil {
		return nil, err
	}

	targetName := ""
	if found {
		targetName = manifest.Config.Build.Target
	}
	if flags.Changed("target") {
		if targetName, err = flags.GetString("target"); err != nil {
			return nil, fmt.Errorf("failed to get target flag: %w", err)
		}
	}
	if s.target, err = arith.ParseTarget(targetName); err != nil {
		return nil, err
	}

	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("max-diagnostics") || !found || manifest.Config.Build.MaxDiagnostics == 0 {
		if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if noCache {
		s.cache = false
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if out := cmd.Flags().Lookup("out"); out != nil && out.Changed {
		s.outDir = out.Value.String()
	}
	return s, nil
}

// resolveUnitFiles expands explicit arguments (files or directories), or
// falls back to the manifest's unit list.
func resolveUnitFiles(args []string, manifest *project.Manifest) ([]string, error) {
	if len(args) == 0 {
		if manifest == nil {
			return nil, fmt.Errorf("%s", noManifestMessage)
		}
		files, err := manifest.UnitFiles()
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("%s: no unit files match [build].units", manifest.Path)
		}
		return files, nil
	}
	var files []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !st.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := project.ListUnits(arg)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no unit files in %s", arg)
		}
		files = append(files, found...)
	}
	return files, nil
}

// openCache opens the persistent cache, or returns nil when disabled.
// A cache that cannot be opened only disables caching.
func openCache(s *buildSettings, cmd *cobra.Command) *driver.DiskCache {
	if !s.cache {
		return nil
	}
	cache, err := driver.OpenDiskCache("exprc")
	if err != nil {
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", err)
		}
		return nil
	}
	return cache
}
