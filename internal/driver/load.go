package driver

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"exprc/internal/diag"
	"exprc/internal/trace"
	"exprc/internal/unit"
)

// LoadResult holds the decoded units, in path order, and their load diagnostics.
type LoadResult struct {
	Units []*unit.Unit
	Bag   *diag.Bag
}

// LoadUnits reads unit files in parallel. Content problems become
// diagnostics; an unreadable file aborts the load.
func LoadUnits(ctx context.Context, paths []string, opts *Options) (*LoadResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	files := append([]string(nil), paths...)
	sort.Strings(files)

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "load", trace.CurrentSpan(ctx))
	defer span.End("")

	timer := opts.timer()
	phase := -1
	if timer != nil {
		phase = timer.Begin("load")
	}
	obs := opts.observer()
	obs.notify(PhaseEvent{Name: "load", Status: PhaseStart})
	started := time.Now()

	maxDiag := opts.maxDiagnostics()
	units := make([]*unit.Unit, len(files))
	bags := make([]*diag.Bag, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			obs.notify(PhaseEvent{Name: "load", Unit: path, Status: PhaseStart})
			unitStart := time.Now()

			bag := diag.NewBag(maxDiag)
			u, err := unit.Load(path, diag.BagReporter{Bag: bag})
			if err != nil {
				trace.Error(tracer, trace.ScopeUnit, "load:"+path, err.Error(), span.ID())
				return err
			}
			units[i], bags[i] = u, bag

			status := PhaseEnd
			if u.Broken {
				status = PhaseFailed
			}
			trace.Point(tracer, trace.ScopeUnit, "unit:"+u.Name, fmt.Sprintf("%d exprs, %d vars", len(u.Exprs), u.Symbols.Len()), span.ID())
			obs.notify(PhaseEvent{Name: "load", Unit: path, Status: status, Elapsed: time.Since(unitStart)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		obs.notify(PhaseEvent{Name: "load", Status: PhaseFailed, Elapsed: time.Since(started)})
		return nil, err
	}

	out := &LoadResult{Units: units, Bag: diag.NewBag(maxDiag)}
	for _, b := range bags {
		out.Bag.Merge(b)
	}
	checkDuplicateNames(units, diag.BagReporter{Bag: out.Bag})
	out.Bag.Sort()

	if timer != nil {
		timer.End(phase, fmt.Sprintf("%d units", len(units)))
	}
	obs.notify(PhaseEvent{Name: "load", Status: PhaseEnd, Elapsed: time.Since(started)})
	return out, nil
}

// checkDuplicateNames rejects two files that would write the same artifact.
// The later unit in path order is marked broken.
func checkDuplicateNames(units []*unit.Unit, rep diag.Reporter) {
	seen := make(map[string]*unit.Unit, len(units))
	for _, u := range units {
		if first, ok := seen[u.Name]; ok {
			u.Broken = true
			diag.ReportError(rep, diag.ProjDuplicateUnit, diag.Origin{Unit: u.Name},
				fmt.Sprintf("unit name %s is used by both %s and %s", u.Name, first.Path, u.Path)).Emit()
			continue
		}
		seen[u.Name] = u
	}
}
