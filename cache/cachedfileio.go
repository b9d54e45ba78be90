// Package cache adds Redis-backed read-through caching on top of any
// fs.FileIO backend. Useful when the backend is remote (e.g. an S3 bucket)
// and the same entries get re-read often.
package cache

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"time"

	"github.com/sharedcode/geostore/fs"
	"github.com/sharedcode/geostore/redis"
)

type cachedFileIO struct {
	fileIO           fs.FileIO
	cache            redis.Cache
	refreshInterval  time.Duration
	cacheExpiry      time.Duration
	maxCacheableSize int
}

type cacheEntry struct {
	Data            []byte
	LastRefreshTime time.Time
}

// Now returns the current time and can be "synthesized" if needed.
var Now = time.Now

const keyPrefix = "geostore:fio:"

// NewCachedFileIO is synonymous to NewCachedFileIOExt but sets to use default values for the extended parameters.
func NewCachedFileIO(fileIO fs.FileIO, cache redis.Cache) fs.FileIO {
	return NewCachedFileIOExt(fileIO, cache, -1, -1, 0)
}

// NewCachedFileIOExt returns a FileIO that adds caching on top of the wrapped backend.
// Set refreshInterval to a decent re-read period (every 5 mins?) and cacheExpiry to a
// longer time (2 hrs?) or no expiry(0). maxCacheableSize defaults to 500MB.
//
// Exact-path cache entries are invalidated on WriteFile, Remove and Rename.
// RemoveAll of a folder cannot enumerate cached children; those only age out
// via refreshInterval/cacheExpiry, so keep both finite when folders get
// removed while readers are active.
func NewCachedFileIOExt(fileIO fs.FileIO, cache redis.Cache, refreshInterval time.Duration, cacheExpiry time.Duration, maxCacheableSize int) fs.FileIO {
	if fileIO == nil {
		fileIO = fs.NewFileIO()
	}
	// Minimum refresh interval is 5 seconds, if less then assign 5 minute refresh interval.
	if refreshInterval < 0 || (refreshInterval > 0 && refreshInterval < time.Duration(5*time.Second)) {
		refreshInterval = time.Duration(5 * time.Minute)
	}
	// Defaults to 2hr cache expiry.
	if cacheExpiry < 0 || (cacheExpiry > 0 && cacheExpiry < time.Duration(1*time.Minute)) {
		cacheExpiry = time.Duration(2 * time.Hour)
	}
	// Defaults cacheable size to 500MB.
	if maxCacheableSize <= 0 {
		maxCacheableSize = 500 * 1024 * 1024
	}
	return &cachedFileIO{
		fileIO:           fileIO,
		cache:            cache,
		refreshInterval:  refreshInterval,
		cacheExpiry:      cacheExpiry,
		maxCacheableSize: maxCacheableSize,
	}
}

func (c *cachedFileIO) formatKey(name string) string {
	return keyPrefix + name
}

// ReadFile returns the cached copy when it is within its refresh interval,
// otherwise reads through to the backend and recaches. Cache failures are
// tolerated with a warning; the backend stays authoritative.
func (c *cachedFileIO) ReadFile(ctx context.Context, name string) ([]byte, error) {
	k := c.formatKey(name)
	var t cacheEntry
	found, err := c.cache.GetStruct(ctx, k, &t)
	if err != nil {
		log.Warn(fmt.Sprintf("redis getstruct for key %s failed, details: %v", k, err))
	}
	if found && Now().Sub(t.LastRefreshTime) <= c.refreshInterval {
		return t.Data, nil
	}
	ba, err := c.fileIO.ReadFile(ctx, name)
	if err != nil {
		if found {
			// Drop the stale copy so the next read does not resurrect it.
			if _, derr := c.cache.Delete(ctx, []string{k}); derr != nil {
				log.Warn(fmt.Sprintf("redis delete for key %s failed, details: %v", k, derr))
			}
		}
		return nil, err
	}
	if len(ba) <= c.maxCacheableSize {
		cd := cacheEntry{
			Data:            ba,
			LastRefreshTime: Now(),
		}
		if serr := c.cache.SetStruct(ctx, k, cd, c.cacheExpiry); serr != nil {
			log.Warn(fmt.Sprintf("redis setstruct for key %s failed, details: %v", k, serr))
		}
	}
	return ba, nil
}

func (c *cachedFileIO) WriteFile(ctx context.Context, name string, data []byte, perm os.FileMode) error {
	if err := c.fileIO.WriteFile(ctx, name, data, perm); err != nil {
		return err
	}
	c.invalidate(ctx, name)
	return nil
}

func (c *cachedFileIO) Remove(ctx context.Context, name string) error {
	if err := c.fileIO.Remove(ctx, name); err != nil {
		return err
	}
	c.invalidate(ctx, name)
	return nil
}

func (c *cachedFileIO) Rename(ctx context.Context, src string, dst string) error {
	if err := c.fileIO.Rename(ctx, src, dst); err != nil {
		return err
	}
	c.invalidate(ctx, src, dst)
	return nil
}

func (c *cachedFileIO) Exists(ctx context.Context, path string) bool {
	return c.fileIO.Exists(ctx, path)
}

func (c *cachedFileIO) RemoveAll(ctx context.Context, path string) error {
	if err := c.fileIO.RemoveAll(ctx, path); err != nil {
		return err
	}
	c.invalidate(ctx, path)
	return nil
}

func (c *cachedFileIO) MkdirAll(ctx context.Context, path string, perm os.FileMode) error {
	return c.fileIO.MkdirAll(ctx, path, perm)
}

func (c *cachedFileIO) ReadDir(ctx context.Context, sourceDir string) ([]os.DirEntry, error) {
	return c.fileIO.ReadDir(ctx, sourceDir)
}

func (c *cachedFileIO) Separator() string {
	return c.fileIO.Separator()
}

func (c *cachedFileIO) invalidate(ctx context.Context, names ...string) {
	keys := make([]string, len(names))
	for i := range names {
		keys[i] = c.formatKey(names[i])
	}
	if _, err := c.cache.Delete(ctx, keys); err != nil {
		log.Warn(fmt.Sprintf("redis delete for keys %v failed, details: %v", keys, err))
	}
}
