package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bracecheck/internal/brace"
	"bracecheck/internal/diag"
	"bracecheck/internal/observ"
	"bracecheck/internal/source"
	"bracecheck/internal/trace"
)

// Options controls a check run.
type Options struct {
	Encoding       source.Encoding
	Jobs           int // 0 means GOMAXPROCS
	MaxDiagnostics int // per file, 0 means unlimited
	Extensions     []string
	Exclude        []string
	Cache          *DiskCache    // nil disables caching
	Progress       ProgressSink  // may be nil
	Timer          *observ.Timer // may be nil
	BaseDir        string        // for relative paths; working directory when empty
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Result brace.Result
	Bag    *diag.Bag
	Err    error // load or decode failure; Result is zero then
	Cached bool
}

// Failed reports whether the file could not be loaded or is unbalanced.
func (r *FileResult) Failed() bool {
	return r.Err != nil || r.Result.Verdict() != brace.Balanced
}

// Report is the outcome of CheckPaths. Files follow the sorted path order.
type Report struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Failed reports whether any file failed.
func (r *Report) Failed() bool {
	for i := range r.Files {
		if r.Files[i].Failed() {
			return true
		}
	}
	return false
}

// LoadErrors counts files that could not be read or decoded.
func (r *Report) LoadErrors() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Err != nil {
			n++
		}
	}
	return n
}

// Bag merges the per-file diagnostics in file order.
func (r *Report) Bag() *diag.Bag {
	bag := diag.NewBag(0)
	for i := range r.Files {
		if r.Files[i].Bag != nil {
			bag.Merge(r.Files[i].Bag)
		}
	}
	return bag
}

// CheckFile loads and scans a single file into a fresh FileSet. Unlike
// CheckPaths, a load failure is returned as the error.
func CheckFile(ctx context.Context, path string, opts Options) (*FileResult, *source.FileSet, error) {
	fs := newFileSet(opts)
	c := &checker{fs: fs, opts: opts}
	res := c.check(ctx, path, trace.CurrentSpan(ctx))
	if res.Err != nil {
		return nil, nil, res.Err
	}
	return &res, fs, nil
}

// CheckPaths expands paths with CollectPaths and checks the result with
// CheckFiles. The returned error is reserved for collection failures and
// cancellation.
func CheckPaths(ctx context.Context, paths []string, opts Options) (*Report, error) {
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx))
	defer root.End("")
	ctx = trace.WithSpan(ctx, root)

	done := opts.Timer.Track("collect")
	collectSpan := trace.Begin(tracer, trace.ScopePass, "collect", root.ID())
	files, err := CollectPaths(paths, opts.Extensions, opts.Exclude)
	collectSpan.WithExtra("files", fmt.Sprint(len(files))).End("")
	done(fmt.Sprintf("%d files", len(files)))
	if err != nil {
		trace.Error(tracer, trace.ScopePass, "collect", err, root.ID())
		return nil, err
	}
	return checkFiles(ctx, files, opts)
}

// CheckFiles checks an already collected file list on up to opts.Jobs
// goroutines. Per-file load failures become IO diagnostics on that file.
func CheckFiles(ctx context.Context, files []string, opts Options) (*Report, error) {
	root := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "check", trace.CurrentSpan(ctx))
	defer root.End("")
	return checkFiles(trace.WithSpan(ctx, root), files, opts)
}

func checkFiles(ctx context.Context, files []string, opts Options) (*Report, error) {
	report := &Report{FileSet: newFileSet(opts), Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return report, nil
	}
	emitQueued(opts.Progress, files)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	done := opts.Timer.Track("check")
	passSpan := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "scan", trace.CurrentSpan(ctx))
	c := &checker{fs: report.FileSet, opts: opts}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// each index is written by exactly one goroutine
			report.Files[i] = c.check(gctx, path, passSpan.ID())
			return nil
		})
	}
	err := g.Wait()
	passSpan.WithExtra("jobs", fmt.Sprint(jobs)).End("")
	done(fmt.Sprintf("%d jobs", jobs))
	if err != nil {
		return nil, err
	}
	emit(opts.Progress, Event{Stage: StageScan, Status: StatusDone})
	return report, nil
}

func newFileSet(opts Options) *source.FileSet {
	if opts.BaseDir != "" {
		return source.NewFileSetWithBase(opts.BaseDir)
	}
	return source.NewFileSet()
}

// checker serializes FileSet mutation; reading, decoding and scanning run
// outside the lock.
type checker struct {
	mu   sync.Mutex
	fs   *source.FileSet
	opts Options
}

func (c *checker) addFile(path string, content []byte, flags source.FileFlags) source.File {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.fs.AddFile(path, content, flags, c.encoding())
	return *c.fs.Get(id)
}

func (c *checker) addFailed(path string) source.FileID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fs.AddVirtual(path, nil)
}

func (c *checker) encoding() source.Encoding {
	if c.opts.Encoding == "" {
		return source.EncodingUTF8
	}
	return c.opts.Encoding
}

func (c *checker) check(ctx context.Context, path string, parent uint64) FileResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+filepath.ToSlash(path), parent)
	started := time.Now()
	out := FileResult{Path: path, Bag: diag.NewBag(c.opts.MaxDiagnostics)}

	emit(c.opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	content, flags, err := source.ReadFile(path, c.encoding())
	if err != nil {
		out.Err = err
		out.FileID = c.addFailed(path)
		reportLoadError(out.Bag, out.FileID, err)
		trace.Error(tracer, trace.ScopeFile, "load", err, span.ID())
		span.WithExtra("error", err.Error()).End("")
		emit(c.opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return out
	}

	file := c.addFile(path, content, flags)
	out.FileID = file.ID

	emit(c.opts.Progress, Event{File: path, Stage: StageScan, Status: StatusWorking})
	key := KeyFor(c.encoding(), file.Content)
	if res, ok, cerr := c.opts.Cache.Get(key); cerr == nil && ok {
		out.Result, out.Cached = res, true
		trace.Point(tracer, trace.ScopeFile, "cache-hit", path, span.ID())
	} else {
		out.Result = brace.Scan(&file)
		if c.opts.Cache != nil {
			if perr := c.opts.Cache.Put(key, out.Result); perr != nil {
				trace.Error(tracer, trace.ScopeFile, "cache-put", perr, span.ID())
			}
		}
	}
	brace.Report(&file, out.Result, diag.BagReporter{Bag: out.Bag})
	out.Bag.Sort()

	span.WithExtra("verdict", out.Result.Verdict().String()).
		WithExtra("depth", fmt.Sprint(out.Result.Depth)).
		End("")
	emit(c.opts.Progress, Event{File: path, Stage: StageScan, Status: StatusDone, Elapsed: time.Since(started)})
	return out
}

func reportLoadError(bag *diag.Bag, id source.FileID, err error) {
	sp := source.Span{File: id}
	var decErr *source.DecodeError
	if errors.As(err, &decErr) {
		diag.ReportError(diag.BagReporter{Bag: bag}, diag.IODecodeError, sp, err.Error()).Emit()
		return
	}
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, sp, err.Error()).Emit()
}
