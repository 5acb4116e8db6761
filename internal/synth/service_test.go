package synth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dgnsrekt/sampler/internal/cache"
	"github.com/dgnsrekt/sampler/reader"
)

type fakeEngine struct {
	format string
	audio  []byte
	err    error

	mu        sync.Mutex
	calls     int
	lastText  string
	lastVoice string
	lastSpeed float64
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Format() string {
	if e.format == "" {
		return "wav"
	}
	return e.format
}

func (e *fakeEngine) Synthesize(_ context.Context, text, voice string, speed float64) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.lastText, e.lastVoice, e.lastSpeed = text, voice, speed
	if e.err != nil {
		return nil, e.err
	}
	return e.audio, nil
}

func newTestService(t *testing.T, engine Engine, withCache bool) (*Service, string) {
	t.Helper()

	out := t.TempDir()
	cfg := DefaultConfig()
	cfg.OutputDir = out
	cfg.Voice = "amy"
	cfg.Speed = 1.25

	var dc *cache.DiskCache
	if withCache {
		var err error
		dc, err = cache.NewDiskCache(t.TempDir(), 1<<20, 3)
		if err != nil {
			t.Fatalf("NewDiskCache: %v", err)
		}
	}
	s := NewService(engine, dc, cfg)
	t.Cleanup(func() { _ = s.Close() })
	return s, out
}

func TestServiceValidate(t *testing.T) {
	s, _ := newTestService(t, &fakeEngine{}, false)

	tests := []struct {
		name    string
		req     reader.Request
		wantErr bool
	}{
		{"valid", reader.Request{Text: "quick brown fox", Start: 4, End: 19}, false},
		{"multibyte", reader.Request{Text: "wörld", Start: 6, End: 11}, false},
		{"negative start", reader.Request{Text: "abc", Start: -1, End: 2}, true},
		{"empty range", reader.Request{Text: "", Start: 5, End: 5}, true},
		{"reversed", reader.Request{Text: "abc", Start: 8, End: 5}, true},
		{"blank text", reader.Request{Text: "   ", Start: 0, End: 3}, true},
		{"length mismatch", reader.Request{Text: "abc", Start: 0, End: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(tt.req)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestServiceGenerate(t *testing.T) {
	audio := encodeWAV(make([]byte, 44100), 22050)
	engine := &fakeEngine{audio: audio}
	s, out := newTestService(t, engine, false)

	req := reader.Request{DocumentID: "abc123", Text: "quick brown fox", Start: 4, End: 19}
	clip, err := s.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := filepath.Join(out, "abc123-4-19.wav")
	if clip.Path != want {
		t.Errorf("path = %q, want %q", clip.Path, want)
	}
	if clip.Format != "wav" {
		t.Errorf("format = %q", clip.Format)
	}
	if clip.Bytes != int64(len(audio)) {
		t.Errorf("bytes = %d, want %d", clip.Bytes, len(audio))
	}
	if clip.Duration.Seconds() != 1 {
		t.Errorf("duration = %v, want 1s", clip.Duration)
	}
	if clip.Cached {
		t.Error("first generation should not be cached")
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("clip not written: %v", err)
	}
	if len(data) != len(audio) {
		t.Errorf("written %d bytes, want %d", len(data), len(audio))
	}

	if engine.lastVoice != "amy" {
		t.Errorf("default voice not used, got %q", engine.lastVoice)
	}
	if engine.lastSpeed != 1.25 {
		t.Errorf("speed = %.2f, want 1.25", engine.lastSpeed)
	}
}

func TestServiceGenerateVoiceOverride(t *testing.T) {
	engine := &fakeEngine{audio: []byte("mp3"), format: "mp3"}
	s, _ := newTestService(t, engine, false)

	clip, err := s.Generate(context.Background(), reader.Request{Text: "hello", Start: 0, End: 5, Voice: "de"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if engine.lastVoice != "de" {
		t.Errorf("voice = %q, want de", engine.lastVoice)
	}
	if clip.Duration != 0 {
		t.Errorf("mp3 duration should be unknown, got %v", clip.Duration)
	}
	if filepath.Base(clip.Path) != "clip-0-5.mp3" {
		t.Errorf("unexpected name %q", filepath.Base(clip.Path))
	}
}

func TestServiceGenerateCached(t *testing.T) {
	engine := &fakeEngine{audio: []byte("some audio data")}
	s, _ := newTestService(t, engine, true)

	req := reader.Request{DocumentID: "doc", Text: "hello", Start: 0, End: 5}
	if _, err := s.Generate(context.Background(), req); err != nil {
		t.Fatalf("first Generate: %v", err)
	}

	// same text at another position hits the cache
	req.Start, req.End = 100, 105
	clip, err := s.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if !clip.Cached {
		t.Error("expected a cache hit")
	}
	if engine.calls != 1 {
		t.Errorf("engine called %d times, want 1", engine.calls)
	}
	if filepath.Base(clip.Path) != "doc-100-105.wav" {
		t.Errorf("unexpected name %q", filepath.Base(clip.Path))
	}

	// a different voice misses
	req.Voice = "other"
	if clip, err = s.Generate(context.Background(), req); err != nil {
		t.Fatalf("third Generate: %v", err)
	}
	if clip.Cached || engine.calls != 2 {
		t.Errorf("voice change should miss the cache (cached=%v calls=%d)", clip.Cached, engine.calls)
	}
}

func TestServiceGenerateErrors(t *testing.T) {
	engineErr := &EngineError{Engine: "fake", Err: ErrNoAudio}
	engine := &fakeEngine{err: engineErr}
	s, out := newTestService(t, engine, false)

	_, err := s.Generate(context.Background(), reader.Request{Text: "hello", Start: 0, End: 5})
	if !errors.Is(err, ErrNoAudio) {
		t.Errorf("expected ErrNoAudio, got %v", err)
	}
	var ee *EngineError
	if !errors.As(err, &ee) || ee.Engine != "fake" {
		t.Errorf("expected an EngineError, got %v", err)
	}

	entries, _ := os.ReadDir(out)
	if len(entries) != 0 {
		t.Errorf("failed generation wrote %d files", len(entries))
	}

	if _, err := s.Generate(context.Background(), reader.Request{Text: "", Start: 0, End: 0}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
	if engine.calls != 1 {
		t.Errorf("invalid request reached the engine")
	}
}

func TestNewDisabled(t *testing.T) {
	if _, err := New(DefaultConfig()); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestNewWithCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine = EngineGTTS
	cfg.OutputDir = t.TempDir()
	cfg.Cache.Dir = t.TempDir()
	cfg.Cache.MaxSize = 1

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if s.Engine() != EngineGTTS {
		t.Errorf("engine = %q", s.Engine())
	}
	if s.cache == nil {
		t.Error("expected the cache to be opened")
	}
}
