package cache

import (
	"os"
	"sync"
	"time"
)

// Fingerprint identifies one version of a sample file
type Fingerprint struct {
	Size    int64
	ModTime int64
}

// FingerprintOf returns the fingerprint of a stat result
func FingerprintOf(info os.FileInfo) Fingerprint {
	return Fingerprint{Size: info.Size(), ModTime: info.ModTime().UnixNano()}
}

// LabCacheEntry remembers the lab read from one version of a sample file
type LabCacheEntry struct {
	Lab          string
	Fingerprint  Fingerprint
	LastAccessed int64
}

// LabCache keeps the lab of every sample file between report runs. An entry
// is only served while the file's size and modification time are unchanged.
type LabCache struct {
	mu      sync.RWMutex
	entries map[string]*LabCacheEntry
}

func NewLabCache() *LabCache {
	return &LabCache{
		entries: make(map[string]*LabCacheEntry),
	}
}

func (lc *LabCache) Set(path string, fp Fingerprint, lab string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	lc.entries[path] = &LabCacheEntry{
		Lab:          lab,
		Fingerprint:  fp,
		LastAccessed: time.Now().Unix(),
	}
}

// Get returns the cached lab for path if the file still matches fp
func (lc *LabCache) Get(path string, fp Fingerprint) (string, bool) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	entry, ok := lc.entries[path]
	if !ok {
		return "", false
	}
	if entry.Fingerprint != fp {
		delete(lc.entries, path)
		return "", false
	}
	entry.LastAccessed = time.Now().Unix()
	return entry.Lab, true
}

// Invalidate drops the entry for path
func (lc *LabCache) Invalidate(path string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	delete(lc.entries, path)
}

// Retain drops every entry whose path is not in keep, and returns how many
// entries were dropped.
func (lc *LabCache) Retain(keep map[string]struct{}) int {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	dropped := 0
	for path := range lc.entries {
		if _, ok := keep[path]; !ok {
			delete(lc.entries, path)
			dropped++
		}
	}
	return dropped
}

func (lc *LabCache) Len() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()

	return len(lc.entries)
}
