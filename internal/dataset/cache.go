package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadObserver receives the outcome of every load performed by a Cache.
type LoadObserver interface {
	RecordDatasetLoad(ctx context.Context, rows int, duration time.Duration, err error)
}

// cacheKey identifies one version of the dataset file.
type cacheKey struct {
	path    string
	modTime time.Time
	size    int64
}

func (k cacheKey) String() string {
	return k.path + "@" + strconv.FormatInt(k.modTime.UnixNano(), 10) + ":" + strconv.FormatInt(k.size, 10)
}

// CacheStats reports cache activity.
type CacheStats struct {
	Hits     int64     `json:"hits"`
	Misses   int64     `json:"misses"`
	Loads    int64     `json:"loads"`
	Rows     int       `json:"rows"`
	LastLoad time.Time `json:"last_load"`
	Cached   bool      `json:"cached"`
}

// Cache holds the loaded Dataset for one file, keyed by path, modification
// time and size. A changed file is reloaded on the next Get.
type Cache struct {
	path     string
	loader   *Loader
	observer LoadObserver
	logger   *slog.Logger

	mu        sync.RWMutex
	key       cacheKey
	data      *Dataset
	stats     CacheStats
	listeners []func(*Dataset)

	group singleflight.Group
}

// NewCache creates a cache for the dataset file at path.
func NewCache(path string, loader *Loader, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if loader == nil {
		loader = NewLoader(logger)
	}
	return &Cache{
		path:   path,
		loader: loader,
		logger: logger.With(slog.String("component", "dataset_cache")),
	}
}

// SetObserver installs a load observer, typically the metrics recorder.
func (c *Cache) SetObserver(o LoadObserver) {
	c.mu.Lock()
	c.observer = o
	c.mu.Unlock()
}

// OnReload registers fn to run after every successful load.
func (c *Cache) OnReload(fn func(*Dataset)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Path returns the file backing this cache.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached Dataset, loading it when absent or when the file changed.
func (c *Cache) Get(ctx context.Context) (*Dataset, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, c.path, err)
	}
	key := cacheKey{path: c.path, modTime: info.ModTime(), size: info.Size()}

	c.mu.Lock()
	if c.data != nil && c.key == key {
		c.stats.Hits++
		ds := c.data
		c.mu.Unlock()
		return ds, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		return c.load(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// Invalidate drops the cached Dataset; the next Get reloads from disk.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.data = nil
	c.key = cacheKey{}
	c.mu.Unlock()
	c.logger.Info("dataset cache invalidated", slog.String("path", c.path))
}

// Reload invalidates and loads immediately.
func (c *Cache) Reload(ctx context.Context) (*Dataset, error) {
	c.Invalidate()
	return c.Get(ctx)
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Cached = c.data != nil
	return s
}

func (c *Cache) load(ctx context.Context, key cacheKey) (*Dataset, error) {
	start := time.Now()
	ds, err := c.loader.Load(c.path)
	elapsed := time.Since(start)

	c.mu.RLock()
	observer := c.observer
	c.mu.RUnlock()
	if observer != nil {
		observer.RecordDatasetLoad(ctx, ds.Len(), elapsed, err)
	}

	if err != nil {
		c.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("path", c.path),
			slog.String("error", err.Error()))
		return nil, err
	}

	c.mu.Lock()
	c.key = key
	c.data = ds
	c.stats.Loads++
	c.stats.Rows = ds.Len()
	c.stats.LastLoad = ds.LoadedAt
	listeners := append([]func(*Dataset){}, c.listeners...)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", c.path),
		slog.Int("rows", ds.Len()),
		slog.Duration("duration", elapsed))

	for _, fn := range listeners {
		fn(ds)
	}
	return ds, nil
}
