package main

import (
	"fmt"
	"io"
	"strings"
)

// triState is the auto|on|off value shared by --ui and --color.
type triState string

const (
	modeAuto triState = "auto"
	modeOn   triState = "on"
	modeOff  triState = "off"
)

func readTriState(flag, value string) (triState, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return modeAuto, nil
	case "on":
		return modeOn, nil
	case "off":
		return modeOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// enabled resolves auto against whether w is a terminal.
func (m triState) enabled(w io.Writer) bool {
	switch m {
	case modeOn:
		return true
	case modeOff:
		return false
	default:
		return isTerminal(w)
	}
}
