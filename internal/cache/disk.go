package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
)

const (
	indexFile = "clips.index"

	// Values smaller than this are stored as is.
	minCompressSize = 1024
)

// DiskCache is a persistent clip cache with optional zstd compression.
type DiskCache struct {
	dir      string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index  map[string]*entry
	stats  Stats
	closed bool

	mu sync.Mutex
}

type entry struct {
	Key        string
	File       string // name inside the cache directory
	Size       int64  // bytes on disk
	RawSize    int64
	Compressed bool
	Created    time.Time
	LastAccess time.Time
	Hits       int64
}

// NewDiskCache opens the cache in dir, creating it if needed. A level of 0
// disables compression; other values are zstd levels.
func NewDiskCache(dir string, capacity int64, level int) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dc := &DiskCache{
		dir:      dir,
		capacity: capacity,
		index:    make(map[string]*entry),
	}

	if level > 0 {
		var err error
		dc.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
	}
	// Entries written with compression stay readable after it is turned off.
	var err error
	dc.decoder, err = zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	if err := dc.loadIndex(); err != nil {
		log.Warn("clip cache index unreadable, starting empty", "dir", dir, "err", err)
		dc.index = make(map[string]*entry)
	}
	for _, e := range dc.index {
		dc.size += e.Size
	}
	return dc, nil
}

// Get returns the cached value for key.
func (dc *DiskCache) Get(key string) ([]byte, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	e, ok := dc.index[key]
	if !ok || dc.closed {
		dc.stats.Misses++
		return nil, false
	}

	data, err := os.ReadFile(filepath.Join(dc.dir, e.File))
	if err == nil && e.Compressed {
		data, err = dc.decoder.DecodeAll(data, nil)
	}
	if err != nil {
		log.Debug("dropping unreadable clip", "key", key, "err", err)
		dc.remove(key)
		dc.stats.Misses++
		return nil, false
	}

	now := time.Now()
	e.LastAccess = now
	e.Hits++
	dc.stats.Hits++
	dc.stats.LastAccess = now
	return data, true
}

// Put stores value under key, evicting the least recently used entries when
// the cache would exceed its capacity.
func (dc *DiskCache) Put(key string, value []byte) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.closed {
		return ErrClosed
	}

	data, compressed := value, false
	if dc.encoder != nil && len(value) > minCompressSize {
		if c := dc.encoder.EncodeAll(value, nil); len(c) < len(value) {
			data, compressed = c, true
		}
	}

	size := int64(len(data))
	if size > dc.capacity {
		return ErrItemTooLarge
	}

	if _, ok := dc.index[key]; ok {
		dc.remove(key)
	}
	for dc.size+size > dc.capacity && len(dc.index) > 0 {
		dc.evictOldest()
	}

	name := fileName(key)
	if err := writeFileAtomic(filepath.Join(dc.dir, name), data); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	now := time.Now()
	dc.index[key] = &entry{
		Key:        key,
		File:       name,
		Size:       size,
		RawSize:    int64(len(value)),
		Compressed: compressed,
		Created:    now,
		LastAccess: now,
	}
	dc.size += size
	return nil
}

// Contains reports whether key is cached without touching its access time.
func (dc *DiskCache) Contains(key string) bool {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	_, ok := dc.index[key]
	return ok
}

// Delete removes key from the cache.
func (dc *DiskCache) Delete(key string) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.remove(key)
}

// Clear removes every entry.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	for key := range dc.index {
		dc.remove(key)
	}
	return dc.saveIndex()
}

// Prune removes entries created more than maxAge ago and returns how many
// were removed.
func (dc *DiskCache) Prune(maxAge time.Duration) int {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, e := range dc.index {
		if e.Created.Before(cutoff) {
			dc.remove(key)
			removed++
		}
	}
	return removed
}

// Keys returns the cached keys, least recently used first.
func (dc *DiskCache) Keys() []string {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entries := make([]*entry, 0, len(dc.index))
	for _, e := range dc.index {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastAccess.Before(entries[j].LastAccess)
	})

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Size returns the bytes used on disk.
func (dc *DiskCache) Size() int64 {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.size
}

// Stats returns a snapshot of the cache counters.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	s := dc.stats
	s.Capacity = dc.capacity
	s.Size = dc.size
	s.Items = len(dc.index)
	return s
}

// Close saves the index. The cache cannot be used afterwards.
func (dc *DiskCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.closed {
		return nil
	}
	dc.closed = true
	if dc.encoder != nil {
		dc.encoder.Close()
	}
	defer dc.decoder.Close()
	return dc.saveIndex()
}

func (dc *DiskCache) remove(key string) {
	e, ok := dc.index[key]
	if !ok {
		return
	}
	_ = os.Remove(filepath.Join(dc.dir, e.File))
	delete(dc.index, key)
	dc.size -= e.Size
}

func (dc *DiskCache) evictOldest() {
	var oldest *entry
	for _, e := range dc.index {
		if oldest == nil || e.LastAccess.Before(oldest.LastAccess) {
			oldest = e
		}
	}
	if oldest != nil {
		log.Debug("evicting clip", "key", oldest.Key, "size", oldest.Size)
		dc.remove(oldest.Key)
		dc.stats.Evictions++
	}
}

func (dc *DiskCache) loadIndex() error {
	f, err := os.Open(filepath.Join(dc.dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(&dc.index)
}

func (dc *DiskCache) saveIndex() error {
	path := filepath.Join(dc.dir, indexFile)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = gob.NewEncoder(f).Encode(dc.index)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func fileName(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16]) + ".clip"
}

// writeFileAtomic writes to a temporary file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
