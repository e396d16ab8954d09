// Package trace is the structured event log of the exprc build driver.
//
// Enable it from the command line:
//
//	exprc build --trace=- --trace-level=detail
//
// # Levels
//
//   - LevelOff: nothing is recorded
//   - LevelError: failures only
//   - LevelPhase: build and phase boundaries
//   - LevelDetail: per-unit events
//   - LevelDebug: everything, including every compiled expression
//
// # Scopes
//
//   - ScopeDriver: one CLI command
//   - ScopePass: load, compile, write phases
//   - ScopeUnit: one unit file
//   - ScopeExpr: one expression tree
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "compile", 0)
//	defer span.End("")
//
// The expression compiler itself never traces; only the driver does.
package trace
