package brace

import (
	"fmt"

	"fortio.org/safecast"
)

// Excess records a closing brace that drove the depth below zero.
type Excess struct {
	Line   uint32 // 1-based
	Column uint32 // 1-based, in bytes
	Offset uint32 // byte offset of the '}' in the file
	Depth  int    // depth right after the decrement, always negative
}

// Verdict classifies the final depth of a scan.
type Verdict uint8

const (
	// Balanced means the final depth is zero.
	Balanced Verdict = iota
	// Missing means more '{' than '}' were seen.
	Missing
	// Extra means more '}' than '{' were seen.
	Extra
)

func (v Verdict) String() string {
	switch v {
	case Balanced:
		return "balanced"
	case Missing:
		return "missing"
	case Extra:
		return "extra"
	}
	return "unknown"
}

// Result is the outcome of scanning one file.
type Result struct {
	Excess []Excess
	Depth  int    // final depth: opens - closes
	Lines  uint32 // number of lines scanned
	Opens  int
	Closes int
}

// Verdict classifies the final depth.
func (r Result) Verdict() Verdict {
	switch {
	case r.Depth > 0:
		return Missing
	case r.Depth < 0:
		return Extra
	default:
		return Balanced
	}
}

// Count is the number of missing or extra closing braces (|Depth|).
func (r Result) Count() int {
	if r.Depth < 0 {
		return -r.Depth
	}
	return r.Depth
}

// Counter is the incremental form of the scan. Feed lines in order with Line
// and call Finish once. The zero value is ready to use.
type Counter struct {
	depth    int
	line     uint32
	opens    int
	closes   int
	excess   []Excess
	finished bool
}

// NewCounter returns a Counter with depth 0.
func NewCounter() *Counter {
	return &Counter{}
}

// Line scans the next line. start is the byte offset of the line within the
// file and only affects Excess.Offset. The returned slice holds the excursions
// found on this line and aliases the counter's storage.
func (c *Counter) Line(text []byte, start uint32) []Excess {
	if c.finished {
		panic("brace: Line called after Finish")
	}
	c.line++
	first := len(c.excess)
	for i, ch := range text {
		switch ch {
		case '{':
			c.depth++
			c.opens++
		case '}':
			c.depth--
			c.closes++
			if c.depth < 0 {
				col, err := safecast.Conv[uint32](i)
				if err != nil {
					panic(fmt.Errorf("column overflow: %w", err))
				}
				c.excess = append(c.excess, Excess{
					Line:   c.line,
					Column: col + 1,
					Offset: start + col,
					Depth:  c.depth,
				})
			}
		}
	}
	return c.excess[first:]
}

// Depth returns the current depth.
func (c *Counter) Depth() int {
	return c.depth
}

// Finish ends the scan and returns the result.
func (c *Counter) Finish() Result {
	c.finished = true
	return Result{
		Excess: c.excess,
		Depth:  c.depth,
		Lines:  c.line,
		Opens:  c.opens,
		Closes: c.closes,
	}
}
