package synth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Upper bound for MP3 data accepted from gtts-cli.
const maxMP3Size = 50 * 1024 * 1024

// GTTSEngine uses gtts-cli (Google Translate TTS) to produce MP3 audio.
// Requests are rate limited to avoid being blocked.
type GTTSEngine struct {
	cfg     GTTSConfig
	limiter *rate.Limiter
}

// NewGTTSEngine creates a gTTS engine.
func NewGTTSEngine(cfg GTTSConfig) *GTTSEngine {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 50
	}
	return &GTTSEngine{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}
}

// Name implements Engine.
func (e *GTTSEngine) Name() string { return EngineGTTS }

// Format implements Engine.
func (e *GTTSEngine) Format() string { return "mp3" }

// Synthesize implements Engine. The voice, when set, is used as the
// language code; gTTS has no speed control beyond its slow flag.
func (e *GTTSEngine) Synthesize(ctx context.Context, text, voice string, _ float64) ([]byte, error) {
	if len(text) > maxTextSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTextTooLong, len(text), maxTextSize)
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	lang := e.cfg.Language
	if voice != "" {
		lang = voice
	}
	// "-" reads the text from stdin, keeping it off the process list
	args := []string{"-", "-l", lang, "-o", "-"}
	if e.cfg.Slow {
		args = append(args, "--slow")
	}

	mp3, err := runEngine(ctx, e.Name(), e.cfg.Timeout, strings.NewReader(text), e.cfg.Binary, args...)
	if err != nil {
		return nil, err
	}
	if len(mp3) > maxMP3Size {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrAudioTooLarge, len(mp3), maxMP3Size)
	}
	return mp3, nil
}
