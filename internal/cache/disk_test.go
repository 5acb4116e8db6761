package cache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T, capacity int64, level int) (*DiskCache, string) {
	t.Helper()
	dir := t.TempDir()
	dc, err := NewDiskCache(dir, capacity, level)
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	t.Cleanup(func() { _ = dc.Close() })
	return dc, dir
}

func TestDiskCache_PutGet(t *testing.T) {
	tests := []struct {
		name  string
		level int
		value []byte
	}{
		{"small uncompressed", 3, []byte("tiny")},
		{"large compressed", 3, bytes.Repeat([]byte("pcm "), 4096)},
		{"compression off", 0, bytes.Repeat([]byte("pcm "), 4096)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc, _ := newTestCache(t, 1<<20, tt.level)

			if err := dc.Put("k", tt.value); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			got, ok := dc.Get("k")
			if !ok {
				t.Fatal("Expected a hit")
			}
			if !bytes.Equal(got, tt.value) {
				t.Error("Value changed in the cache")
			}

			if tt.level > 0 && len(tt.value) > minCompressSize && dc.Size() >= int64(len(tt.value)) {
				t.Errorf("Expected compressed size below %d, got %d", len(tt.value), dc.Size())
			}
		})
	}
}

func TestDiskCache_Miss(t *testing.T) {
	dc, _ := newTestCache(t, 1024, 0)

	if _, ok := dc.Get("absent"); ok {
		t.Error("Expected a miss")
	}
	if err := dc.Put("present", []byte("x")); err != nil {
		t.Fatal(err)
	}
	dc.Get("present")

	s := dc.Stats()
	if s.Hits != 1 || s.Misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d/%d", s.Hits, s.Misses)
	}
	if s.HitRate() != 0.5 {
		t.Errorf("Expected hit rate 0.5, got %.2f", s.HitRate())
	}
}

func TestDiskCache_EvictsLeastRecentlyUsed(t *testing.T) {
	dc, _ := newTestCache(t, 30, 0)

	for _, k := range []string{"a", "b", "c"} {
		if err := dc.Put(k, bytes.Repeat([]byte(k), 10)); err != nil {
			t.Fatalf("Put %s failed: %v", k, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	// Touch "a" so "b" becomes the oldest.
	if _, ok := dc.Get("a"); !ok {
		t.Fatal("Expected a hit for a")
	}
	time.Sleep(2 * time.Millisecond)

	if err := dc.Put("d", bytes.Repeat([]byte("d"), 10)); err != nil {
		t.Fatalf("Put d failed: %v", err)
	}

	if dc.Contains("b") {
		t.Error("Expected b to be evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if !dc.Contains(k) {
			t.Errorf("Expected %s to be kept", k)
		}
	}
	if s := dc.Stats(); s.Evictions != 1 || s.Size != 30 {
		t.Errorf("Expected 1 eviction at 30 bytes, got %d at %d", s.Evictions, s.Size)
	}
}

func TestDiskCache_TooLarge(t *testing.T) {
	dc, _ := newTestCache(t, 8, 0)
	if err := dc.Put("big", make([]byte, 9)); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("Expected ErrItemTooLarge, got %v", err)
	}
}

func TestDiskCache_Persists(t *testing.T) {
	dir := t.TempDir()

	dc, err := NewDiskCache(dir, 1<<20, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := dc.Put("clip", []byte("audio bytes")); err != nil {
		t.Fatal(err)
	}
	if err := dc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := dc.Put("late", []byte("x")); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}

	reopened, err := NewDiskCache(dir, 1<<20, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, ok := reopened.Get("clip")
	if !ok || string(got) != "audio bytes" {
		t.Errorf("Expected persisted clip, got %q (%v)", got, ok)
	}
}

func TestDiskCache_MissingFileDropsEntry(t *testing.T) {
	dc, dir := newTestCache(t, 1024, 0)
	if err := dc.Put("k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, fileName("k"))); err != nil {
		t.Fatal(err)
	}

	if _, ok := dc.Get("k"); ok {
		t.Error("Expected a miss for a deleted file")
	}
	if dc.Contains("k") || dc.Size() != 0 {
		t.Error("Expected the entry to be dropped")
	}
}

func TestDiskCache_PruneAndClear(t *testing.T) {
	dc, _ := newTestCache(t, 1024, 0)
	for _, k := range []string{"x", "y"} {
		if err := dc.Put(k, []byte(k)); err != nil {
			t.Fatal(err)
		}
	}

	if n := dc.Prune(time.Hour); n != 0 {
		t.Errorf("Expected nothing pruned, got %d", n)
	}
	if n := dc.Prune(-time.Second); n != 2 {
		t.Errorf("Expected 2 pruned, got %d", n)
	}

	if err := dc.Put("z", []byte("z")); err != nil {
		t.Fatal(err)
	}
	if err := dc.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if len(dc.Keys()) != 0 {
		t.Errorf("Expected empty cache, got %v", dc.Keys())
	}
}

func TestGenerateCacheKey(t *testing.T) {
	base := Key{Engine: "piper", Voice: "amy", Speed: 1.0, Text: "Hello world"}

	variants := []Key{
		{Engine: "gtts", Voice: "amy", Speed: 1.0, Text: "Hello world"},
		{Engine: "piper", Voice: "ryan", Speed: 1.0, Text: "Hello world"},
		{Engine: "piper", Voice: "amy", Speed: 1.5, Text: "Hello world"},
		{Engine: "piper", Voice: "amy", Speed: 1.0, Text: "Hello there"},
	}

	same := base
	if same.String() != base.String() {
		t.Error("Expected keys to be stable")
	}
	if len(base.String()) != 32 {
		t.Errorf("Expected 32 hex characters, got %d", len(base.String()))
	}
	for _, v := range variants {
		if v.String() == base.String() {
			t.Errorf("Expected %+v to produce a different key", v)
		}
	}
}
