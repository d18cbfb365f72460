// Package brace counts curly braces in a source file and reports where the
// running balance goes negative.
//
// The scan keeps one integer depth per file: '{' adds one, '}' subtracts one,
// every other byte is ignored. Whenever a '}' leaves the depth below zero an
// Excess is recorded with the depth right after the decrement. The depth is
// never reset, so a run of stray closers yields increasingly negative values.
// After the last line the final depth is classified into a Verdict.
//
// The scanner knows nothing about brace kinds, strings or comments.
package brace
