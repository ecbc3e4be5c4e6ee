package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from document content and the options that shaped its parse.
// The same bytes parsed with another source or layout get another key.
func Key(content []byte, variant string) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte{0})
	h.Write([]byte(variant))
	return "agendapdf:v1:" + hex.EncodeToString(h.Sum(nil))
}

// New returns a memory cache, layered over a disk cache when dir is set
func New(ttl, cleanup time.Duration, dir string) Cache {
	if dir == "" {
		return NewMemoryCache(ttl, cleanup)
	}
	return NewLayeredCache(ttl, cleanup, dir, ttl)
}
