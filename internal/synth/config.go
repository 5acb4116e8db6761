package synth

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Engine names accepted in the configuration.
const (
	EnginePiper = "piper"
	EngineGTTS  = "gtts"
)

// Config contains the audio generation settings.
type Config struct {
	// Engine selects the speech engine; empty disables generation.
	Engine    string  `yaml:"engine"`
	Voice     string  `yaml:"voice"`
	Speed     float64 `yaml:"speed"`
	OutputDir string  `yaml:"output_dir"`

	Piper PiperConfig `yaml:"piper"`
	GTTS  GTTSConfig  `yaml:"gtts"`
	Cache CacheConfig `yaml:"cache"`
}

// PiperConfig contains Piper engine settings.
type PiperConfig struct {
	Binary     string        `yaml:"binary"`
	Model      string        `yaml:"model"`
	ConfigPath string        `yaml:"config_path"`
	SampleRate int           `yaml:"sample_rate"`
	Timeout    time.Duration `yaml:"timeout"`
}

// GTTSConfig contains gTTS engine settings.
type GTTSConfig struct {
	Binary            string        `yaml:"binary"`
	Language          string        `yaml:"language"`
	Slow              bool          `yaml:"slow"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout"`
}

// CacheConfig contains clip cache settings. A zero MaxSize disables the
// cache.
type CacheConfig struct {
	Dir         string `yaml:"dir"`
	MaxSize     int64  `yaml:"max_size"` // megabytes
	Compression int    `yaml:"compression"`
	// MaxAge drops clips not used for this long when the cache opens;
	// zero keeps them until evicted by size.
	MaxAge time.Duration `yaml:"max_age"`
}

// DefaultConfig returns a Config with sensible defaults. Generation is
// disabled until an engine is chosen.
func DefaultConfig() Config {
	return Config{
		Speed: 1.0,
		Piper: PiperConfig{
			Binary:     "piper",
			SampleRate: 22050,
			Timeout:    30 * time.Second,
		},
		GTTS: GTTSConfig{
			Binary:            "gtts-cli",
			Language:          "en",
			RequestsPerMinute: 50,
			Timeout:           30 * time.Second,
		},
		Cache: CacheConfig{
			MaxSize:     256,
			Compression: 3,
			MaxAge:      30 * 24 * time.Hour,
		},
	}
}

// Enabled reports whether an engine is configured.
func (c Config) Enabled() bool { return c.Engine != "" }

// Validate checks the configuration and normalizes the engine name.
func (c *Config) Validate() error {
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	valid := []string{"", EnginePiper, EngineGTTS}
	if !slices.Contains(valid, c.Engine) {
		return fmt.Errorf("invalid engine %q: must be one of %q or empty", c.Engine, valid[1:])
	}

	if c.Speed < 0.25 || c.Speed > 4.0 {
		return fmt.Errorf("speed must be between 0.25 and 4.0, got %.2f", c.Speed)
	}
	if c.Enabled() && c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	switch c.Engine {
	case EnginePiper:
		if err := c.Piper.Validate(); err != nil {
			return fmt.Errorf("piper config: %w", err)
		}
	case EngineGTTS:
		if err := c.GTTS.Validate(); err != nil {
			return fmt.Errorf("gtts config: %w", err)
		}
	}

	if c.Cache.MaxSize < 0 {
		return fmt.Errorf("cache max_size cannot be negative, got %d", c.Cache.MaxSize)
	}
	if c.Cache.Compression < 0 || c.Cache.Compression > 22 {
		return fmt.Errorf("cache compression must be between 0 and 22, got %d", c.Cache.Compression)
	}
	if c.Cache.MaxAge < 0 {
		return fmt.Errorf("cache max_age cannot be negative, got %v", c.Cache.MaxAge)
	}
	if c.Cache.MaxSize > 0 && c.Cache.Dir == "" && c.Enabled() {
		return fmt.Errorf("cache dir cannot be empty")
	}
	return nil
}

// Validate checks the Piper settings.
func (c *PiperConfig) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("piper binary cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("piper model cannot be empty")
	}
	if !slices.Contains([]int{16000, 22050, 24000, 44100, 48000}, c.SampleRate) {
		return fmt.Errorf("invalid sample rate %d", c.SampleRate)
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1 second, got %v", c.Timeout)
	}
	return nil
}

// Validate checks the gTTS settings.
func (c *GTTSConfig) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("gtts binary cannot be empty")
	}
	if c.Language == "" {
		return fmt.Errorf("gtts language cannot be empty")
	}
	if c.RequestsPerMinute < 1 || c.RequestsPerMinute > 600 {
		return fmt.Errorf("requests_per_minute must be between 1 and 600, got %d", c.RequestsPerMinute)
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1 second, got %v", c.Timeout)
	}
	return nil
}
