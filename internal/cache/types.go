package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when an item exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrClosed is returned when the cache is used after Close
	ErrClosed = errors.New("cache is closed")
)

// Stats holds cache counters.
type Stats struct {
	Capacity  int64 // bytes
	Size      int64 // bytes on disk
	Items     int
	Hits      int64
	Misses    int64
	Evictions int64

	LastAccess time.Time
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	if s.Hits+s.Misses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Hits+s.Misses)
}

// Key identifies a clip by everything that affects the synthesized audio.
type Key struct {
	Engine string
	Voice  string
	Speed  float64
	Text   string
}

// String returns the hashed cache key.
func (k Key) String() string {
	return GenerateCacheKey(k.Engine+"|"+k.Text, k.Voice, k.Speed)
}

// GenerateCacheKey hashes text, voice and speed into a short hex key.
func GenerateCacheKey(text, voice string, speed float64) string {
	data := fmt.Sprintf("%s|%s|%.2f", text, voice, speed)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}
