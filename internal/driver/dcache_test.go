package driver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bracecheck/internal/brace"
	"bracecheck/internal/source"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)

	fs := source.NewFileSet()
	content := []byte("{\n}}\n")
	res := brace.Scan(fs.Get(fs.AddVirtual("a.txt", content)))
	key := KeyFor(source.EncodingUTF8, content)

	_, ok, err := cache.Get(key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Put(key, res))
	got, ok, err := cache.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, res, got)

	require.NoError(t, cache.DropAll())
	_, ok, err = cache.Get(key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKeyForDependsOnEncoding(t *testing.T) {
	content := []byte("{}")
	require.NotEqual(t, KeyFor(source.EncodingUTF8, content), KeyFor(source.EncodingLatin1, content))
	require.Equal(t, KeyFor(source.EncodingUTF8, content), KeyFor(source.EncodingUTF8, []byte("{}")))
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	require.NoError(t, cache.Put(Digest{}, brace.Result{}))
	_, ok, err := cache.Get(Digest{})
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, cache.DropAll())
}
