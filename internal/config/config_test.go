package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), TOMLName)
	write(t, path, `
[check]
format = "pretty"
jobs = 4
extensions = ["kt", ".java"]
exclude = ["build/*"]
exit_code = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "pretty", cfg.Check.Format)
	assert.Equal(t, 4, cfg.Check.Jobs)
	assert.Equal(t, []string{"kt", ".java"}, cfg.Check.Extensions)
	assert.Equal(t, []string{"build/*"}, cfg.Check.Exclude)
	assert.True(t, cfg.Check.ExitCode)
	// untouched keys keep their defaults
	assert.Equal(t, "auto", cfg.Check.Color)
	assert.Equal(t, "utf-8", cfg.Check.Encoding)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), YAMLName)
	write(t, path, "check:\n  format: json\n  max_diagnostics: 10\n  cache: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Check.Format)
	assert.Equal(t, 10, cfg.Check.MaxDiagnostics)
	assert.True(t, cfg.Check.Cache)
}

func TestLoadEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), YMLName)
	write(t, path, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Check, cfg.Check)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, TOMLName)
	write(t, tomlPath, "[check]\nformat = \"short\"\ncolour = \"on\"\n")
	_, err := Load(tomlPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check.colour")

	yamlPath := filepath.Join(dir, YAMLName)
	write(t, yamlPath, "check:\n  colour: on\n")
	_, err = Load(yamlPath)
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), TOMLName)
	write(t, path, "[check]\nformat = \"xml\"\njobs = -1\nencoding = \"ebcdic\"\n")

	_, err := Load(path)
	require.Error(t, err)
	for _, key := range []string{"check.format", "check.jobs", "check.encoding"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	write(t, filepath.Join(root, YAMLName), "check:\n  ui: on\n")

	path, ok, err := Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, YAMLName), path)

	write(t, filepath.Join(root, "a", TOMLName), "[check]\n")
	path, ok, err = Find(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "a", TOMLName), path)

	cfg, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, "off", cfg.Check.UI)
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, TOMLName), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Check, cfg.Check)

	_, err = WriteDefault(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
}
