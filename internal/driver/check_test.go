package driver

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bracecheck/internal/brace"
	"bracecheck/internal/diag"
	"bracecheck/internal/observ"
	"bracecheck/internal/trace"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) count(status Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ev := range s.events {
		if ev.File != "" && ev.Status == status {
			n++
		}
	}
	return n
}

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestCheckPaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.kt":     "fun a() {\n}\n",
		"b.kt":     "class B {\n",
		"sub/c.kt": "}\n{{\n}\n",
		"bad.kt":   "{\xff}\n",
	})
	missing := filepath.Join(root, "gone.kt")

	sink := &recordingSink{}
	timer := observ.NewTimer()
	report, err := CheckPaths(context.Background(), []string{root, missing}, Options{
		Jobs:     2,
		Progress: sink,
		Timer:    timer,
	})
	require.NoError(t, err)
	require.Len(t, report.Files, 5)
	assert.True(t, report.Failed())

	byName := make(map[string]FileResult)
	for _, f := range report.Files {
		byName[filepath.Base(f.Path)] = f
	}

	a := byName["a.kt"]
	require.NoError(t, a.Err)
	assert.Equal(t, brace.Balanced, a.Result.Verdict())
	assert.Equal(t, []string{"BRC1004"}, codes(a.Bag))
	assert.False(t, a.Failed())

	b := byName["b.kt"]
	assert.Equal(t, brace.Missing, b.Result.Verdict())
	assert.Equal(t, []string{"BRC1002"}, codes(b.Bag))

	c := byName["c.kt"]
	assert.Equal(t, 0, c.Result.Depth)
	require.Len(t, c.Result.Excess, 1)
	assert.Equal(t, uint32(1), c.Result.Excess[0].Line)
	assert.Equal(t, []string{"BRC1001", "BRC1004"}, codes(c.Bag))

	bad := byName["bad.kt"]
	require.Error(t, bad.Err)
	assert.Equal(t, []string{"IO4002"}, codes(bad.Bag))

	gone := byName["gone.kt"]
	require.ErrorIs(t, gone.Err, fs.ErrNotExist)
	assert.Equal(t, []string{"IO4001"}, codes(gone.Bag))
	assert.Equal(t, missing, report.FileSet.Get(gone.FileID).Path)

	assert.Equal(t, 5, sink.count(StatusQueued))
	assert.Equal(t, 3, sink.count(StatusDone))
	assert.Equal(t, 2, sink.count(StatusError))

	phases := timer.Report().Phases
	require.Len(t, phases, 2)
	assert.Equal(t, "collect", phases[0].Name)
	assert.Equal(t, "check", phases[1].Name)

	assert.Equal(t, 6, report.Bag().Len())
}

func TestCheckPathsOrderIsSorted(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"z.txt": "", "m.txt": "", "a.txt": ""})

	report, err := CheckPaths(context.Background(), []string{root}, Options{Jobs: 3})
	require.NoError(t, err)
	var names []string
	for _, f := range report.Files {
		names = append(names, filepath.Base(f.Path))
	}
	assert.Equal(t, []string{"a.txt", "m.txt", "z.txt"}, names)
	assert.False(t, report.Failed())
}

func TestCheckPathsUsesCache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"x.kt": "}}\n{\n"})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	opts := Options{Cache: cache}

	first, err := CheckPaths(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	require.False(t, first.Files[0].Cached)

	second, err := CheckPaths(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	require.True(t, second.Files[0].Cached)
	assert.Equal(t, first.Files[0].Result, second.Files[0].Result)
	assert.Equal(t, codes(first.Files[0].Bag), codes(second.Files[0].Bag))
}

func TestCheckPathsMaxDiagnostics(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"x.kt": "}}}}\n"})

	report, err := CheckPaths(context.Background(), []string{root}, Options{MaxDiagnostics: 2})
	require.NoError(t, err)
	bag := report.Files[0].Bag
	assert.Equal(t, 2, bag.Len())
	assert.Equal(t, 3, bag.Dropped())
	assert.Equal(t, -4, report.Files[0].Result.Depth)
}

func TestCheckPathsCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"x.kt": "{}"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CheckPaths(ctx, []string{root}, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckPathsTraces(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"x.kt": "{"})
	var buf bytes.Buffer
	ctx := trace.WithTracer(context.Background(), trace.NewStreamTracer(&buf, trace.LevelDetail, trace.FormatText))

	_, err := CheckPaths(ctx, []string{root}, Options{})
	require.NoError(t, err)
	out := buf.String()
	for _, want := range []string{"→ check", "→ collect", "→ scan", "file:", "verdict=missing"} {
		assert.True(t, strings.Contains(out, want), "trace missing %q:\n%s", want, out)
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.kt")
	require.NoError(t, os.WriteFile(path, []byte("{\r\n}\r}\n"), 0o600))

	res, fset, err := CheckFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), res.Result.Lines)
	require.Len(t, res.Result.Excess, 1)
	assert.Equal(t, uint32(3), res.Result.Excess[0].Line)
	assert.Equal(t, path, fset.Get(res.FileID).Path)

	_, _, err = CheckFile(context.Background(), filepath.Join(dir, "nope.kt"), Options{})
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCheckFilesSkipsCollection(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"keep.kt": "{", "skip.kt": "}"})

	timer := observ.NewTimer()
	report, err := CheckFiles(context.Background(), []string{filepath.Join(root, "keep.kt")}, Options{Timer: timer})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Equal(t, brace.Missing, report.Files[0].Result.Verdict())
	require.Len(t, timer.Report().Phases, 1)
	assert.Equal(t, "check", timer.Report().Phases[0].Name)
}
