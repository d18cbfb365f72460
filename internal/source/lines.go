package source

import (
	"iter"
)

// Line is one line of a File without its terminator.
type Line struct {
	Num   uint32 // 1-based
	Start uint32 // byte offset of the first byte of the line
	Text  []byte
}

// LineCount returns the number of lines in the file. A trailing line
// terminator does not start a new line, so "a\nb\n" has two lines and an
// empty file has none.
func (f *File) LineCount() uint32 {
	n := uint32(len(f.LineIdx))
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

// Lines iterates over the lines of the file in order.
// Text aliases Content and must not be modified.
func (f *File) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		var start uint32
		var num uint32
		for _, nl := range f.LineIdx {
			num++
			if !yield(Line{Num: num, Start: start, Text: f.Content[start:nl]}) {
				return
			}
			start = nl + 1
		}
		if int(start) < len(f.Content) {
			num++
			yield(Line{Num: num, Start: start, Text: f.Content[start:]})
		}
	}
}
