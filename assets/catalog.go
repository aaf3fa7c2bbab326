package assets

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/sirupsen/logrus"
)

// Catalog loads tilesets from a directory of an fs.FS and caches the parsed
// tables by path. Tables are immutable, so callers share the cached pointer.
type Catalog struct {
	fsys  fs.FS
	dir   string
	cache *ristretto.Cache[string, *tileset.Tileset]
	log   logrus.FieldLogger

	mu     sync.RWMutex
	byName map[string]string           // tileset name -> path
	last   map[string]*tileset.Tileset // path -> last table that loaded
}

// CatalogOptions tunes the cache. Zero values select the defaults.
type CatalogOptions struct {
	NumCounters int64
	MaxCost     int64
	Logger      logrus.FieldLogger
}

// NewCatalog creates a catalog over dir inside fsys. Nothing is read until
// LoadAll or Get is called.
func NewCatalog(fsys fs.FS, dir string, opts CatalogOptions) (*Catalog, error) {
	if opts.NumCounters <= 0 {
		opts.NumCounters = 1000
	}
	if opts.MaxCost <= 0 {
		opts.MaxCost = 1 << 20
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	cache, err := ristretto.NewCache[string, *tileset.Tileset](&ristretto.Config[string, *tileset.Tileset]{
		NumCounters: opts.NumCounters,
		MaxCost:     opts.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("tileset cache: %w", err)
	}

	return &Catalog{
		fsys:   fsys,
		dir:    dir,
		cache:  cache,
		log:    opts.Logger,
		byName: make(map[string]string),
		last:   make(map[string]*tileset.Tileset),
	}, nil
}

// Close releases the cache.
func (c *Catalog) Close() {
	c.cache.Close()
}

// LoadAll parses every tileset in the catalog directory and indexes them by
// name. It fails on the first broken document.
func (c *Catalog) LoadAll() error {
	tables, stems, err := tileset.LoadAll(c.fsys, c.dir)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, stem := range stems {
		ts := tables[stem]
		p := path.Join(c.dir, stem+".tsx")
		c.store(p, ts)
		c.byName[ts.Name] = p
	}
	c.cache.Wait()
	return nil
}

// Get returns the table for a path inside the catalog filesystem. A path
// the catalog has loaded before is served from memory even after the cache
// drops it; only Reload reads it from disk again.
func (c *Catalog) Get(p string) (*tileset.Tileset, error) {
	if ts, ok := c.cache.Get(p); ok {
		return ts, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ts, ok := c.last[p]; ok {
		c.store(p, ts)
		return ts, nil
	}

	ts, err := tileset.LoadFile(c.fsys, p)
	if err != nil {
		return nil, err
	}
	c.store(p, ts)
	c.byName[ts.Name] = p
	return ts, nil
}

// ByName returns the table of the tileset with the given name attribute.
func (c *Catalog) ByName(name string) (*tileset.Tileset, bool) {
	c.mu.RLock()
	p, ok := c.byName[name]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	ts, err := c.Get(p)
	if err != nil {
		c.log.WithError(err).WithField("tileset", name).Warn("tileset unavailable")
		return nil, false
	}
	return ts, true
}

// Names returns the indexed tileset names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload parses p again and replaces the cached table. On error the previous
// table stays in place.
func (c *Catalog) Reload(p string) (*tileset.Tileset, error) {
	ts, err := tileset.LoadFile(c.fsys, p)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for name, known := range c.byName {
		if known == p && name != ts.Name {
			delete(c.byName, name)
		}
	}
	c.store(p, ts)
	c.byName[ts.Name] = p
	c.cache.Wait()
	return ts, nil
}

// Watch reloads tilesets from osDir, the on-disk directory backing the
// catalog directory, whenever a .tsx file changes. onReload, if not nil, is
// called from the watching goroutine after each successful reload. Watch
// blocks until ctx is done.
func (c *Catalog) Watch(ctx context.Context, osDir string, onReload func(*tileset.Tileset)) error {
	w, err := NewWatcher(osDir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", osDir, err)
	}
	defer w.Close()

	c.log.WithField("dir", osDir).Info("watching tilesets")
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			p := path.Join(c.dir, filepath.Base(name))
			ts, err := c.Reload(p)
			if err != nil {
				c.log.WithError(err).WithField("path", p).Warn("tileset reload failed, keeping previous table")
				continue
			}
			stats := ts.Stats()
			c.log.WithFields(logrus.Fields{
				"tileset": ts.Name,
				"records": stats.Records,
				"shapes":  stats.Shapes,
			}).Info("tileset reloaded")
			if onReload != nil {
				onReload(ts)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.WithError(err).Warn("tileset watcher error")
		}
	}
}

// store must be called with mu held.
func (c *Catalog) store(p string, ts *tileset.Tileset) {
	c.last[p] = ts
	cost := int64(ts.Stats().Shapes + 1)
	c.cache.Set(p, ts, cost)
}
