package synth

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

// LoadConfigFromViper loads the synth configuration from Viper, filling in
// defaults for anything unset, and validates it.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("synth.engine") {
		cfg.Engine = viper.GetString("synth.engine")
	}
	if viper.IsSet("synth.voice") {
		cfg.Voice = viper.GetString("synth.voice")
	}
	if viper.IsSet("synth.speed") {
		cfg.Speed = viper.GetFloat64("synth.speed")
	}
	if viper.IsSet("synth.output_dir") {
		cfg.OutputDir = viper.GetString("synth.output_dir")
	}

	if viper.IsSet("synth.piper.binary") {
		cfg.Piper.Binary = viper.GetString("synth.piper.binary")
	}
	if viper.IsSet("synth.piper.model") {
		cfg.Piper.Model = viper.GetString("synth.piper.model")
	}
	if viper.IsSet("synth.piper.config_path") {
		cfg.Piper.ConfigPath = viper.GetString("synth.piper.config_path")
	}
	if viper.IsSet("synth.piper.sample_rate") {
		cfg.Piper.SampleRate = viper.GetInt("synth.piper.sample_rate")
	}
	if viper.IsSet("synth.piper.timeout") {
		cfg.Piper.Timeout = viper.GetDuration("synth.piper.timeout")
	}

	if viper.IsSet("synth.gtts.binary") {
		cfg.GTTS.Binary = viper.GetString("synth.gtts.binary")
	}
	if viper.IsSet("synth.gtts.language") {
		cfg.GTTS.Language = viper.GetString("synth.gtts.language")
	}
	if viper.IsSet("synth.gtts.slow") {
		cfg.GTTS.Slow = viper.GetBool("synth.gtts.slow")
	}
	if viper.IsSet("synth.gtts.requests_per_minute") {
		cfg.GTTS.RequestsPerMinute = viper.GetInt("synth.gtts.requests_per_minute")
	}
	if viper.IsSet("synth.gtts.timeout") {
		cfg.GTTS.Timeout = viper.GetDuration("synth.gtts.timeout")
	}

	if viper.IsSet("synth.cache.dir") {
		cfg.Cache.Dir = viper.GetString("synth.cache.dir")
	}
	if viper.IsSet("synth.cache.max_size") {
		cfg.Cache.MaxSize = viper.GetInt64("synth.cache.max_size")
	}
	if viper.IsSet("synth.cache.compression") {
		cfg.Cache.Compression = viper.GetInt("synth.cache.compression")
	}
	if viper.IsSet("synth.cache.max_age") {
		cfg.Cache.MaxAge = viper.GetDuration("synth.cache.max_age")
	}

	if err := cfg.resolvePaths(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid synth configuration: %w", err)
	}
	return cfg, nil
}

// resolvePaths expands ~ and fills the output and cache directories with the
// per-user application directories when unset.
func (c *Config) resolvePaths() error {
	scope := gap.NewScope(gap.User, "sampler")

	if c.OutputDir == "" {
		dir, err := scope.DataPath("clips")
		if err != nil {
			return fmt.Errorf("resolve output dir: %w", err)
		}
		c.OutputDir = dir
	}
	if c.Cache.Dir == "" {
		dir, err := scope.CacheDir()
		if err != nil {
			return fmt.Errorf("resolve cache dir: %w", err)
		}
		c.Cache.Dir = filepath.Join(dir, "clips")
	}

	for _, p := range []*string{&c.OutputDir, &c.Cache.Dir, &c.Piper.Model, &c.Piper.ConfigPath} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}
