package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key([]byte("%PDF-1.4 agenda"), "pdf")
	assert.Equal(t, a, Key([]byte("%PDF-1.4 agenda"), "pdf"))
	assert.NotEqual(t, a, Key([]byte("%PDF-1.4 agenda"), "hocr"))
	assert.NotEqual(t, a, Key([]byte("%PDF-1.4 agend"), "apdf"))
	assert.Regexp(t, `^agendapdf:v1:[0-9a-f]{64}$`, a)
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("k", []byte("v"), 0))
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete("k"))
	_, ok = c.Get("k")
	assert.False(t, ok)

	require.NoError(t, c.Set("a", []byte("1"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok, "expired")

	require.NoError(t, c.Set("b", []byte("2"), 0))
	require.NoError(t, c.Clear())
	assert.Zero(t, c.Len())
}

func TestDiskCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)
	key := Key([]byte("doc"), "pdf")

	require.NoError(t, c.Set(key, []byte("result"), 0))
	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, []byte("result"), got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.NotContains(t, entries[0].Name(), ":")

	require.NoError(t, c.Set("old", []byte("x"), -time.Second))
	_, ok = c.Get("old")
	assert.False(t, ok)
	_, err = os.Stat(filepath.Join(dir, "old.cache"))
	assert.True(t, os.IsNotExist(err), "expired entry removed on read")

	require.NoError(t, c.Delete(key))
	require.NoError(t, c.Delete(key))
	_, ok = c.Get(key)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cache"), []byte("{"), 0644))
	_, ok = c.Get("bad")
	assert.False(t, ok)
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	key := Key([]byte("doc"), "pdf")

	first := NewLayeredCache(time.Minute, time.Minute, dir, time.Hour)
	require.NoError(t, first.Set(key, []byte("result"), 0))

	// A fresh process only has the disk layer
	second := NewLayeredCache(time.Minute, time.Minute, dir, time.Hour)
	got, ok := second.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("result"), got)

	got, ok = second.memory.Get(key)
	assert.True(t, ok)
	assert.Equal(t, []byte("result"), got)

	require.NoError(t, second.Delete(key))
	_, ok = second.Get(key)
	assert.False(t, ok)
	require.NoError(t, second.Clear())
}

func TestNew(t *testing.T) {
	assert.IsType(t, &MemoryCache{}, New(time.Minute, time.Minute, ""))
	assert.IsType(t, &LayeredCache{}, New(time.Minute, time.Minute, t.TempDir()))
}
