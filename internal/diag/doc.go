// Package diag defines the diagnostic model shared by the brace scanner, the
// driver and the formatters.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     while scanning a file (stray closing braces, end-of-file verdicts) and
//     while loading it (I/O and decoding failures).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any IO or CLI integration. Rendering lives in
// internal/diagfmt and orchestration in internal/driver. The only formatting
// here is the single-line golden form used by tests and the short CLI output.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//
// There are no fix suggestions: the scanner reports the depth delta and
// nothing more.
//
// # Emitting diagnostics
//
// Producers use a diag.Reporter. ReportError/ReportWarning/ReportInfo return a
// ReportBuilder that can be decorated with WithNote before calling Emit.
// BagReporter aggregates diagnostics into a Bag, which supports sorting,
// deduplication, filtering and a size limit.
package diag
