// Package fuzztests houses Go fuzz harnesses for the brace scanner. Inputs are
// loaded into a FileSet and scanned; the harness checks the depth invariant
// and guards against panics on arbitrary bytes.
//
// Does not: generate corpora, write files, or run the CLI.
//
// Dependencies: internal/source, internal/brace, internal/diag.
package fuzztests
