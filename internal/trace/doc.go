// Package trace records what the compiler is doing while it does it.
//
// A Tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "pass:jssrc", 0)
//	defer span.End("")
//
// Verbosity is a Level; each event carries a Scope (driver, pass, template,
// call) and the level decides which scopes are written. Stream tracers write
// text or NDJSON as events happen; ring tracers keep the most recent events
// for dumping after a failed compile.
package trace
