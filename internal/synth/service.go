package synth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/sampler/internal/cache"
	"github.com/dgnsrekt/sampler/reader"
)

// Service generates clips for committed selections. It implements
// reader.Generator.
type Service struct {
	engine    Engine
	cache     *cache.DiskCache
	outputDir string
	voice     string
	speed     float64
}

var _ reader.Generator = (*Service)(nil)

// New creates a service from cfg. It returns ErrDisabled when no engine is
// configured. A cache that cannot be opened is skipped with a warning.
func New(cfg Config) (*Service, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	var dc *cache.DiskCache
	if cfg.Cache.MaxSize > 0 {
		dc, err = cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.MaxSize*1024*1024, cfg.Cache.Compression)
		if err != nil {
			log.Warn("clip cache disabled", "dir", cfg.Cache.Dir, "err", err)
			dc = nil
		} else if cfg.Cache.MaxAge > 0 {
			if n := dc.Prune(cfg.Cache.MaxAge); n > 0 {
				log.Debug("pruned stale clips", "count", n, "max_age", cfg.Cache.MaxAge)
			}
		}
	}
	return NewService(engine, dc, cfg), nil
}

// NewService wires an engine and an optional cache.
func NewService(engine Engine, dc *cache.DiskCache, cfg Config) *Service {
	speed := cfg.Speed
	if speed <= 0 {
		speed = 1
	}
	return &Service{
		engine:    engine,
		cache:     dc,
		outputDir: cfg.OutputDir,
		voice:     cfg.Voice,
		speed:     speed,
	}
}

// Engine returns the name of the underlying engine.
func (s *Service) Engine() string { return s.engine.Name() }

// Validate checks that req describes a real, non-empty span whose text
// matches its offsets.
func (s *Service) Validate(req reader.Request) error {
	switch {
	case req.Start < 0:
		return fmt.Errorf("%w: negative start %d", ErrInvalidRequest, req.Start)
	case req.End <= req.Start:
		return fmt.Errorf("%w: end %d is not after start %d", ErrInvalidRequest, req.End, req.Start)
	case strings.TrimSpace(req.Text) == "":
		return fmt.Errorf("%w: no text selected", ErrInvalidRequest)
	}
	if n := utf8.RuneCountInString(req.Text); n != req.End-req.Start {
		return fmt.Errorf("%w: text has %d characters but the range spans %d", ErrInvalidRequest, n, req.End-req.Start)
	}
	return nil
}

// Generate implements reader.Generator. The clip is served from the cache
// when the same text was synthesized before with the same voice and speed.
func (s *Service) Generate(ctx context.Context, req reader.Request) (reader.Clip, error) {
	if err := s.Validate(req); err != nil {
		return reader.Clip{}, err
	}

	voice := req.Voice
	if voice == "" {
		voice = s.voice
	}
	text := strings.TrimSpace(req.Text)
	key := cache.Key{Engine: s.engine.Name(), Voice: voice, Speed: s.speed, Text: text}.String()

	started := time.Now()
	audio, cached := s.lookup(key)
	if !cached {
		var err error
		audio, err = s.engine.Synthesize(ctx, text, voice, s.speed)
		if err != nil {
			return reader.Clip{}, fmt.Errorf("synthesize: %w", err)
		}
		if s.cache != nil {
			if err := s.cache.Put(key, audio); err != nil {
				log.Debug("clip not cached", "key", key, "err", err)
			}
		}
	}

	path := s.ClipPath(req)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return reader.Clip{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return reader.Clip{}, fmt.Errorf("write clip: %w", err)
	}

	clip := reader.Clip{
		Path:   path,
		Format: s.engine.Format(),
		Bytes:  int64(len(audio)),
		Cached: cached,
	}
	if clip.Format == "wav" {
		clip.Duration = wavDuration(audio)
	}

	log.Info("clip generated", "engine", s.engine.Name(), "path", path,
		"bytes", clip.Bytes, "cached", cached, "took", time.Since(started))
	return clip, nil
}

// ClipPath returns where the clip for req is written:
// <output dir>/<document id>-<start>-<end>.<format>.
func (s *Service) ClipPath(req reader.Request) string {
	id := req.DocumentID
	if id == "" {
		id = "clip"
	}
	name := fmt.Sprintf("%s-%d-%d.%s", id, req.Start, req.End, s.engine.Format())
	return filepath.Join(s.outputDir, name)
}

// Close releases the cache.
func (s *Service) Close() error {
	if s.cache == nil {
		return nil
	}
	st := s.cache.Stats()
	log.Debug("clip cache", "items", st.Items, "bytes", st.Size,
		"hit_rate", fmt.Sprintf("%.2f", st.HitRate()), "evictions", st.Evictions)
	return s.cache.Close()
}

func (s *Service) lookup(key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}
