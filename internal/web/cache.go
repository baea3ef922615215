package web

import (
	"context"
	"io"
	"time"

	"github.com/bluele/gcache"
)

// LRUCache is a fixed-size byte cache with optional per-entry expiry.
type LRUCache struct {
	c gcache.Cache
}

func NewLRUCache(numEntries int) *LRUCache {
	return &LRUCache{c: gcache.New(numEntries).LRU().Build()}
}

func (l *LRUCache) AddWithExpire(key string, data []byte, exp time.Duration) error {
	return l.c.SetWithExpire(key, data, exp)
}

func (l *LRUCache) Get(key string) ([]byte, bool) {
	d, err := l.c.Get(key)
	if err != nil {
		return nil, false
	}
	return d.([]byte), true
}

// cachedStore remembers file lengths for a while so remote stores are not
// asked for the size on every request. Exists is never cached: a file that
// disappears must turn into a 404 on the next request.
type cachedStore struct {
	FileStore
	lengths gcache.Cache
	ttl     time.Duration
}

// NewCachedFileStore wraps store with a length cache. A non-positive ttl
// returns store unchanged.
func NewCachedFileStore(store FileStore, ttl time.Duration) FileStore {
	if ttl <= 0 {
		return store
	}
	return &cachedStore{
		FileStore: store,
		lengths:   gcache.New(64).LRU().Build(),
		ttl:       ttl,
	}
}

func (c *cachedStore) Length(ctx context.Context, name string) (int64, error) {
	if v, err := c.lengths.Get(name); err == nil {
		return v.(int64), nil
	}

	n, err := c.FileStore.Length(ctx, name)
	if err != nil {
		return 0, err
	}
	_ = c.lengths.SetWithExpire(name, n, c.ttl)
	return n, nil
}

func (c *cachedStore) OpenRangeReader(ctx context.Context, name string, start, length int64) (io.ReadCloser, error) {
	rc, err := c.FileStore.OpenRangeReader(ctx, name, start, length)
	if IsNotFound(err) {
		c.lengths.Remove(name)
	}
	return rc, err
}
