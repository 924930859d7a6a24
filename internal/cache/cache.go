package cache

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/vongohren/fpl-ai-assist/internal/logging"
)

// Entry is one cached value with its lifetime bounds. Values are stored
// serialized so a decode failure on read degrades to a miss, never an
// error.
type Entry struct {
	Value     []byte    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Stats is a point-in-time view of the cache table.
type Stats struct {
	Entries int    `json:"entries"`
	Expired int    `json:"expired"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// Cache is a string-keyed TTL table with a single-file snapshot. An entry
// whose expiry is at or before the read time is logically absent whether
// or not it has been physically deleted.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	path    string
	log     *logging.Logger
	flight  singleFlight
	hits    uint64
	misses  uint64

	// now is swappable for tests.
	now func() time.Time
}

// New builds a cache backed by the snapshot file at snapshotPath. A
// missing or unreadable snapshot starts the cache empty; the file is not
// part of any externally-visible contract.
func New(snapshotPath string, log *logging.Logger) *Cache {
	if log == nil {
		log = logging.NewNop()
	}
	c := &Cache{
		entries: make(map[string]Entry),
		path:    snapshotPath,
		log:     log,
		now:     time.Now,
	}
	c.load()
	return c
}

// Get returns the stored value while it is still live.
func (c *Cache) Get(key string) ([]byte, bool) {
	return c.get(key, true)
}

// get reads one entry; count=false leaves the hit/miss counters alone so
// internal re-checks do not inflate them.
func (c *Cache) get(key string, count bool) ([]byte, bool) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !e.ExpiresAt.After(now) {
		if count {
			c.misses++
		}
		return nil, false
	}
	if count {
		c.hits++
	}
	return e.Value, true
}

// Set stores value under key, overwriting any existing entry and
// refreshing both timestamps.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	now := c.now()
	c.mu.Lock()
	c.entries[key] = Entry{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	c.mu.Unlock()
	c.persist()
}

// Invalidate removes a single entry immediately.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	c.persist()
}

// InvalidatePattern removes every entry whose key matches the glob.
func (c *Cache) InvalidatePattern(glob string) error {
	c.mu.Lock()
	for key := range c.entries {
		ok, err := path.Match(glob, key)
		if err != nil {
			c.mu.Unlock()
			return errors.Wrapf(err, "cache: bad pattern %q", glob)
		}
		if ok {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	c.persist()
	return nil
}

// Clear drops the whole table.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()
	c.persist()
}

// Cleanup eagerly deletes physically-expired entries. Called at startup;
// safe anytime, it changes storage only, never Get semantics.
func (c *Cache) Cleanup() int {
	now := c.now()
	removed := 0
	c.mu.Lock()
	for key, e := range c.entries {
		if !e.ExpiresAt.After(now) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()
	if removed > 0 {
		c.persist()
	}
	return removed
}

// Stats reports table size, expired-but-present count and hit/miss totals.
func (c *Cache) Stats() Stats {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
	for _, e := range c.entries {
		if !e.ExpiresAt.After(now) {
			s.Expired++
		}
	}
	return s
}

// Through returns the cached value for key if present and unexpired,
// otherwise invokes fetch once, stores the result and returns it. The
// fetch phase is guarded per key so concurrent callers share one upstream
// call. A stored value that no longer decodes is treated as a miss.
func Through[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if v, ok := decodeHit[T](c, key, true); ok {
		return v, nil
	}

	got, err, _ := c.flight.Do(key, func() (any, error) {
		// Re-check without counting: the caller's miss is already on the
		// books, and a value filled in by a concurrent flight is not a
		// second lookup.
		if v, ok := decodeHit[T](c, key, false); ok {
			return v, nil
		}
		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := sonic.Marshal(fetched)
		if err != nil {
			return nil, errors.Wrapf(err, "cache: encode %q", key)
		}
		c.Set(key, raw, ttl)
		return fetched, nil
	})
	if err != nil {
		return zero, err
	}
	v, ok := got.(T)
	if !ok {
		return zero, errors.Newf("cache: unexpected value type for %q", key)
	}
	return v, nil
}

func decodeHit[T any](c *Cache, key string, count bool) (T, bool) {
	var v T
	raw, ok := c.get(key, count)
	if !ok {
		return v, false
	}
	if err := sonic.Unmarshal(raw, &v); err != nil {
		c.log.Warn("cache entry undecodable, treating as miss", "key", key, "err", err)
		c.Invalidate(key)
		var zero T
		return zero, false
	}
	return v, true
}

type snapshot struct {
	Entries map[string]Entry `json:"entries"`
}

func (c *Cache) load() {
	if c.path == "" {
		return
	}
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.log.Warn("cache snapshot unreadable, starting empty", "path", c.path, "err", err)
		}
		return
	}
	var snap snapshot
	if err := sonic.Unmarshal(raw, &snap); err != nil {
		c.log.Warn("cache snapshot corrupt, starting empty", "path", c.path, "err", err)
		return
	}
	if snap.Entries != nil {
		c.entries = snap.Entries
	}
	c.log.Debug("cache snapshot loaded", "path", c.path, "entries", len(c.entries))
}

// persist writes the snapshot best-effort; a write failure is logged and
// the in-memory table stays authoritative.
func (c *Cache) persist() {
	if c.path == "" {
		return
	}
	c.mu.Lock()
	snap := snapshot{Entries: make(map[string]Entry, len(c.entries))}
	for k, e := range c.entries {
		snap.Entries[k] = e
	}
	c.mu.Unlock()

	raw, err := sonic.Marshal(snap)
	if err != nil {
		c.log.Warn("cache snapshot encode failed", "err", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		c.log.Warn("cache snapshot dir", "path", c.path, "err", err)
		return
	}
	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		c.log.Warn("cache snapshot write failed", "path", c.path, "err", err)
	}
}
