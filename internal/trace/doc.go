// Package trace records what a bracecheck run is doing.
//
// Tracing is off unless requested on the command line:
//
//	bracecheck check --trace=- --trace-level=detail src/
//
// Tracers:
//
//   - Nop: disabled, zero overhead
//   - StreamTracer: writes every event to a file or stderr
//   - RingTracer: keeps the last events in memory and dumps them on failure
//   - MultiTracer: fans out to several tracers
//
// Levels select scopes: phase emits driver and pass events, detail and debug
// add one span per checked file.
//
// The tracer travels through the driver in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "collect", 0)
//	defer span.End("")
package trace
