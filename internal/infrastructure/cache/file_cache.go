// Package cache stores provider replies on disk so repeated identical
// requests skip the network round trip.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/okzu/shellm/internal/domain"
	"github.com/okzu/shellm/internal/ports"
)

// maxEntries bounds the cache directory; oldest files are evicted first.
const maxEntries = 100

// FileCache stores entries as JSON blobs addressed by digest key. Unreadable
// or expired entries count as misses, never as errors.
type FileCache struct {
	dir string
	ttl time.Duration
	mu  sync.Mutex
}

func NewFileCache(dir string, ttl time.Duration) *FileCache {
	return &FileCache{dir: dir, ttl: ttl}
}

// Get implements ports.CacheStore.
func (c *FileCache) Get(key string) (domain.CacheEntry, bool) {
	if key == "" {
		return domain.CacheEntry{}, false
	}
	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return domain.CacheEntry{}, false
	}
	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.CacheEntry{}, false
	}
	if c.ttl > 0 && time.Since(entry.CreatedAt) > c.ttl {
		_ = os.Remove(c.pathFor(key))
		return domain.CacheEntry{}, false
	}
	return entry, true
}

// Put implements ports.CacheStore.
func (c *FileCache) Put(entry domain.CacheEntry) error {
	if entry.Key == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.pathFor(entry.Key), data, 0o600); err != nil {
		return err
	}
	return c.evictIfNeeded()
}

// Clear removes all cached entries.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(c.dir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Len counts the stored entries.
func (c *FileCache) Len() int {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, f := range files {
		if !f.IsDir() {
			count++
		}
	}
	return count
}

func (c *FileCache) pathFor(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *FileCache) evictIfNeeded() error {
	files, err := os.ReadDir(c.dir)
	if err != nil || len(files) <= maxEntries {
		return nil
	}
	type fileInfo struct {
		name string
		mod  time.Time
	}
	var infos []fileInfo
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		infos = append(infos, fileInfo{name: f.Name(), mod: info.ModTime()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].mod.Before(infos[j].mod) })
	for len(infos) > maxEntries {
		_ = os.Remove(filepath.Join(c.dir, infos[0].name))
		infos = infos[1:]
	}
	return nil
}

var _ ports.CacheStore = (*FileCache)(nil)
