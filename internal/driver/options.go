// Package driver runs the expression compiler over whole unit files:
// loading them in parallel, compiling every expression tree concurrently,
// and turning compiler failures into diagnostics.
package driver

import (
	"runtime"

	"exprc/internal/arith"
	"exprc/internal/observ"
)

// Options configure LoadUnits and Compile.
type Options struct {
	// Target applies to units that do not name their own.
	Target         arith.Target
	Jobs           int // <= 0 means GOMAXPROCS
	MaxDiagnostics int
	Cache          *DiskCache // nil disables caching
	Timer          *observ.Timer
	PhaseObserver  PhaseObserver
}

func (o *Options) jobs(n int) int {
	jobs := 0
	if o != nil {
		jobs = o.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

func (o *Options) maxDiagnostics() int {
	if o == nil || o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

func (o *Options) timer() *observ.Timer {
	if o == nil {
		return nil
	}
	return o.Timer
}

func (o *Options) observer() PhaseObserver {
	if o == nil {
		return nil
	}
	return o.PhaseObserver
}
