package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"bracecheck/internal/brace"
	"bracecheck/internal/source"
)

// diskCacheSchemaVersion is part of every key; bump it when CachedResult changes.
const diskCacheSchemaVersion uint16 = 1

// Digest is a cache key.
type Digest [32]byte

// DiskCache stores scan results on disk keyed by file content.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedResult is the msgpack payload for one scanned file.
type CachedResult struct {
	Schema uint16
	Depth  int
	Lines  uint32
	Opens  int
	Closes int
	Excess []CachedExcess
}

type CachedExcess struct {
	Line   uint32
	Column uint32
	Offset uint32
	Depth  int
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/<app>, falling back
// to ~/.cache/<app>.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// KeyFor derives the cache key from the schema version, the source encoding
// and the decoded content.
func KeyFor(enc source.Encoding, content []byte) Digest {
	h := sha256.New()
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	h.Write(schema[:])
	h.Write([]byte(enc))
	h.Write([]byte{0})
	h.Write(content)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// two-level fan-out keeps directories small
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put writes res under key. The file is replaced atomically.
func (c *DiskCache) Put(key Digest, res brace.Result) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(toCached(res)); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the result stored under key. A missing entry or one written with
// another schema is a miss, not an error.
func (c *DiskCache) Get(key Digest) (brace.Result, bool, error) {
	if c == nil {
		return brace.Result{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return brace.Result{}, false, nil
		}
		return brace.Result{}, false, err
	}
	defer f.Close()

	var payload CachedResult
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return brace.Result{}, false, err
	}
	if payload.Schema != diskCacheSchemaVersion {
		return brace.Result{}, false, nil
	}
	return fromCached(payload), true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// move the tree aside, then delete it
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func toCached(res brace.Result) CachedResult {
	out := CachedResult{
		Schema: diskCacheSchemaVersion,
		Depth:  res.Depth,
		Lines:  res.Lines,
		Opens:  res.Opens,
		Closes: res.Closes,
	}
	if len(res.Excess) > 0 {
		out.Excess = make([]CachedExcess, len(res.Excess))
		for i, ex := range res.Excess {
			out.Excess[i] = CachedExcess(ex)
		}
	}
	return out
}

func fromCached(p CachedResult) brace.Result {
	res := brace.Result{
		Depth:  p.Depth,
		Lines:  p.Lines,
		Opens:  p.Opens,
		Closes: p.Closes,
	}
	if len(p.Excess) > 0 {
		res.Excess = make([]brace.Excess, len(p.Excess))
		for i, ex := range p.Excess {
			res.Excess[i] = brace.Excess(ex)
		}
	}
	return res
}
