package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the zero value and never emitted on purpose.
	UnknownCode Code = 0

	// brace balance
	BraceInfo         Code = 1000
	BraceExtraClosing Code = 1001
	BraceMissingAtEOF Code = 1002
	BraceExtraAtEOF   Code = 1003
	BraceBalanced     Code = 1004

	// input/output
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002

	// observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:       "Unknown error",
		BraceInfo:         "Brace information",
		BraceExtraClosing: "Extra closing brace",
		BraceMissingAtEOF: "Missing closing braces at end of file",
		BraceExtraAtEOF:   "Extra closing braces at end of file",
		BraceBalanced:     "Braces are balanced",
		IOInfo:            "I/O information",
		IOLoadFileError:   "I/O load file error",
		IODecodeError:     "File content cannot be decoded",
		ObsInfo:           "Observability information",
		ObsTimings:        "Pipeline timings",
	}
)

// Codes returns every known code except UnknownCode in ascending order.
func Codes() []Code {
	return []Code{
		BraceInfo, BraceExtraClosing, BraceMissingAtEOF, BraceExtraAtEOF, BraceBalanced,
		IOInfo, IOLoadFileError, IODecodeError,
		ObsInfo, ObsTimings,
	}
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("BRC%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
