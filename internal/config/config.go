// Package config loads the project settings file, .bracecheck.toml or
// .bracecheck.yaml, found by walking up from the working directory.
package config

import (
	"errors"
	"fmt"
	"strings"

	"bracecheck/internal/diagfmt"
	"bracecheck/internal/source"
)

// File names probed in every directory, in order.
const (
	TOMLName = ".bracecheck.toml"
	YAMLName = ".bracecheck.yaml"
	YMLName  = ".bracecheck.yml"
)

// Config is the whole settings file.
type Config struct {
	Check CheckConfig `toml:"check" yaml:"check"`

	// Path is the file the settings came from; empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// CheckConfig mirrors the flags of the check command.
type CheckConfig struct {
	Format         string   `toml:"format" yaml:"format"`
	Color          string   `toml:"color" yaml:"color"`
	Jobs           int      `toml:"jobs" yaml:"jobs"`
	Encoding       string   `toml:"encoding" yaml:"encoding"`
	MaxDiagnostics int      `toml:"max_diagnostics" yaml:"max_diagnostics"`
	Extensions     []string `toml:"extensions" yaml:"extensions"`
	Exclude        []string `toml:"exclude" yaml:"exclude"`
	ExitCode       bool     `toml:"exit_code" yaml:"exit_code"`
	Cache          bool     `toml:"cache" yaml:"cache"`
	UI             string   `toml:"ui" yaml:"ui"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Check: CheckConfig{
			Format:     string(diagfmt.FormatLegacy),
			Color:      "auto",
			Encoding:   string(source.EncodingUTF8),
			Extensions: []string{},
			Exclude:    []string{},
			UI:         "off",
		},
	}
}

// Validate checks every value and joins all problems into one error.
func (c *Config) Validate() error {
	var errs []error
	chk := c.Check
	if _, err := diagfmt.ParseFormat(chk.Format); err != nil {
		errs = append(errs, fmt.Errorf("check.format: %w", err))
	}
	if !isTriState(chk.Color) {
		errs = append(errs, fmt.Errorf("check.color: expected auto|on|off, got %q", chk.Color))
	}
	if !isTriState(chk.UI) {
		errs = append(errs, fmt.Errorf("check.ui: expected auto|on|off, got %q", chk.UI))
	}
	if chk.Jobs < 0 {
		errs = append(errs, fmt.Errorf("check.jobs: must be >= 0, got %d", chk.Jobs))
	}
	if chk.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("check.max_diagnostics: must be >= 0, got %d", chk.MaxDiagnostics))
	}
	if _, err := source.ParseEncoding(chk.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("check.encoding: %w", err))
	}
	err := errors.Join(errs...)
	if err != nil && c.Path != "" {
		return fmt.Errorf("%s: %w", c.Path, err)
	}
	return err
}

func isTriState(s string) bool {
	switch strings.ToLower(s) {
	case "", "auto", "on", "off":
		return true
	}
	return false
}
