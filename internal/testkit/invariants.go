// Package testkit holds checks shared by the brace tests and fuzz targets.
package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"bracecheck/internal/brace"
	"bracecheck/internal/source"
)

// CheckResultInvariants verifies a scan result against the file it came from:
// 1) Depth == Opens - Closes and both counts match the content
// 2) every excursion points at a '}' on the reported line and column
// 3) excursion depths are negative and offsets strictly increase
// 4) Lines matches the line count of the file
func CheckResultInvariants(res brace.Result, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	content := sf.Content

	// 1) counts
	opens := bytes.Count(content, []byte("{"))
	closes := bytes.Count(content, []byte("}"))
	if res.Opens != opens || res.Closes != closes {
		return fmt.Errorf("counts %d/%d, content has %d/%d", res.Opens, res.Closes, opens, closes)
	}
	if res.Depth != opens-closes {
		return fmt.Errorf("depth %d != opens-closes %d", res.Depth, opens-closes)
	}

	lenContent, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	// 2) and 3) excursions
	for i, ex := range res.Excess {
		if ex.Offset >= lenContent {
			return fmt.Errorf("excursion %d offset %d beyond content %d", i, ex.Offset, lenContent)
		}
		if content[ex.Offset] != '}' {
			return fmt.Errorf("excursion %d offset %d holds %q", i, ex.Offset, content[ex.Offset])
		}
		if ex.Depth >= 0 {
			return fmt.Errorf("excursion %d has non-negative depth %d", i, ex.Depth)
		}
		if i > 0 && ex.Offset <= res.Excess[i-1].Offset {
			return fmt.Errorf("excursion %d offset %d not after %d", i, ex.Offset, res.Excess[i-1].Offset)
		}
		line := sf.GetLine(ex.Line)
		if ex.Column == 0 || int(ex.Column) > len(line) || line[ex.Column-1] != '}' {
			return fmt.Errorf("excursion %d at %d:%d does not match line %q", i, ex.Line, ex.Column, line)
		}
	}

	// 4) lines
	var lines uint32
	for range sf.Lines() {
		lines++
	}
	if res.Lines != lines {
		return fmt.Errorf("result has %d lines, file has %d", res.Lines, lines)
	}
	return nil
}
