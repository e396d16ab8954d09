package driver

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"exprc/internal/arith"
	"exprc/internal/artifact"
	"exprc/internal/diag"
	"exprc/internal/expr"
	"exprc/internal/trace"
	"exprc/internal/unit"
)

// UnitResult is the outcome for one unit.
type UnitResult struct {
	Unit     *unit.Unit
	Target   arith.Target
	Artifact *artifact.File // nil when the unit has errors
	Cached   bool
}

// Result collects every unit outcome and the sorted compile diagnostics.
type Result struct {
	Units []UnitResult
	Bag   *diag.Bag
}

// Failed reports whether any unit produced no artifact.
func (r *Result) Failed() bool {
	if r == nil {
		return false
	}
	for _, u := range r.Units {
		if u.Artifact == nil {
			return true
		}
	}
	return false
}

type exprJob struct {
	unit int
	expr int
}

type exprOutcome struct {
	res *expr.Result
	err error
}

// Compile compiles every expression of every unit concurrently. Each tree
// gets its own expr.Context; symbol tables are frozen and shared read-only.
// Only context cancellation is returned as an error.
func Compile(ctx context.Context, units []*unit.Unit, opts *Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "compile", trace.CurrentSpan(ctx))
	defer span.End("")

	timer := opts.timer()
	phase := -1
	if timer != nil {
		phase = timer.Begin("compile")
	}
	obs := opts.observer()
	obs.notify(PhaseEvent{Name: "compile", Status: PhaseStart})
	started := time.Now()

	defTarget := arith.TargetJVM
	var cache *DiskCache
	if opts != nil {
		defTarget = opts.Target
		cache = opts.Cache
	}
	maxDiag := opts.maxDiagnostics()

	result := &Result{Units: make([]UnitResult, len(units)), Bag: diag.NewBag(maxDiag)}
	bags := make([]*diag.Bag, len(units))
	outcomes := make([][]exprOutcome, len(units))
	jobs := make([]exprJob, 0, len(units))

	for i, u := range units {
		target := unitTarget(u, defTarget)
		result.Units[i] = UnitResult{Unit: u, Target: target}
		bags[i] = diag.NewBag(maxDiag)

		if !u.Broken && cache != nil {
			var payload DiskPayload
			hit, err := cache.Get(CacheKey(u, target), &payload)
			if err != nil {
				diag.ReportWarning(diag.BagReporter{Bag: bags[i]}, diag.ProjCacheCorrupt,
					diag.Origin{Unit: u.Name}, err.Error()).Emit()
			}
			if hit {
				result.Units[i].Artifact = payload.File
				result.Units[i].Cached = true
				trace.Point(tracer, trace.ScopeUnit, "unit:"+u.Name, "cached", span.ID())
				obs.notify(PhaseEvent{Name: "compile", Unit: u.Path, Status: PhaseEnd})
				continue
			}
		}

		outcomes[i] = make([]exprOutcome, len(u.Exprs))
		for j := range u.Exprs {
			jobs = append(jobs, exprJob{unit: i, expr: j})
		}
		obs.notify(PhaseEvent{Name: "compile", Unit: u.Path, Status: PhaseStart})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(jobs)))
	for _, job := range jobs {
		g.Go(func() error {
			// отмена проверяется между выражениями, не внутри дерева
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			u := units[job.unit]
			e := u.Exprs[job.expr]
			exprStart := time.Now()
			res, err := expr.Compile(e.Root, expr.Options{
				Symbols: u.Symbols,
				Target:  result.Units[job.unit].Target,
			})
			if timer != nil {
				timer.Add("expr", time.Since(exprStart))
			}
			// индекс уникален для каждой горутины, мьютекс не нужен
			outcomes[job.unit][job.expr] = exprOutcome{res: res, err: err}
			if err != nil {
				trace.Error(tracer, trace.ScopeExpr, u.Name+"."+e.Name, err.Error(), span.ID())
				reportFailure(diag.BagReporter{Bag: bags[job.unit]}, u, e, err)
				return nil
			}
			trace.Point(tracer, trace.ScopeExpr, u.Name+"."+e.Name,
				fmt.Sprintf("%d instrs, max stack %d", len(res.Instrs), res.MaxStack), span.ID())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		obs.notify(PhaseEvent{Name: "compile", Status: PhaseFailed, Elapsed: time.Since(started)})
		return nil, err
	}

	for i, u := range units {
		ur := &result.Units[i]
		if ur.Cached {
			result.Bag.Merge(bags[i])
			continue
		}
		// провал решают результаты, а не bag: он ограничен и может терять ошибки
		status := PhaseFailed
		if art, ok := assemble(u, ur.Target, outcomes[i]); ok {
			status = PhaseEnd
			ur.Artifact = art
			if cache != nil {
				payload := &DiskPayload{Unit: u.Name, Target: ur.Target.String(), File: ur.Artifact}
				if err := cache.Put(CacheKey(u, ur.Target), payload); err != nil {
					trace.Error(tracer, trace.ScopeUnit, "cache:"+u.Name, err.Error(), span.ID())
				}
			}
		}
		result.Bag.Merge(bags[i])
		obs.notify(PhaseEvent{Name: "compile", Unit: u.Path, Status: status})
	}
	result.Bag.Sort()

	if timer != nil {
		timer.End(phase, fmt.Sprintf("%d exprs", len(jobs)))
	}
	obs.notify(PhaseEvent{Name: "compile", Status: PhaseEnd, Elapsed: time.Since(started)})
	return result, nil
}

// unitTarget returns the unit's own target when it names one.
// The loader has already rejected invalid names.
func unitTarget(u *unit.Unit, def arith.Target) arith.Target {
	if u.Target == "" {
		return def
	}
	t, err := arith.ParseTarget(u.Target)
	if err != nil {
		return def
	}
	return t
}

// assemble builds the unit artifact. It reports false when the unit is
// broken or any expression has no compiled result.
func assemble(u *unit.Unit, target arith.Target, outcomes []exprOutcome) (*artifact.File, bool) {
	if u.Broken || len(outcomes) != len(u.Exprs) {
		return nil, false
	}
	for _, o := range outcomes {
		if o.err != nil || o.res == nil {
			return nil, false
		}
	}
	f := &artifact.File{
		Unit:    u.Name,
		Target:  target.String(),
		Hash:    u.Hash,
		MaxLocs: u.Symbols.MaxLocals(),
	}
	for _, s := range u.Symbols.Symbols() {
		f.Locals = append(f.Locals, artifact.Local{Name: s.Name, Descriptor: s.Type.Descriptor(), Slot: s.Slot})
	}
	for j, e := range u.Exprs {
		res := outcomes[j].res
		f.Exprs = append(f.Exprs, artifact.Expr{
			Name:       e.Name,
			Descriptor: res.Type.Descriptor(),
			MaxStack:   res.MaxStack,
			Instrs:     res.Instrs,
			Consts:     res.Consts,
		})
	}
	return f, true
}
