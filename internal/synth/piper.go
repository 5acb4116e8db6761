package synth

import (
	"context"
	"fmt"
	"strings"
)

// Upper bound for raw PCM accepted from piper.
const maxPCMSize = 20 * 1024 * 1024

// PiperEngine runs the Piper offline synthesizer, one process per request,
// and wraps its raw PCM output in a WAV container.
type PiperEngine struct {
	cfg PiperConfig
}

// NewPiperEngine creates a Piper engine.
func NewPiperEngine(cfg PiperConfig) *PiperEngine {
	return &PiperEngine{cfg: cfg}
}

// Name implements Engine.
func (e *PiperEngine) Name() string { return EnginePiper }

// Format implements Engine.
func (e *PiperEngine) Format() string { return "wav" }

// Synthesize implements Engine. Speed maps to Piper's length scale, which
// is its inverse: 2.0 is twice as fast.
func (e *PiperEngine) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	if len(text) > maxTextSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTextTooLong, len(text), maxTextSize)
	}
	if speed <= 0 {
		speed = 1
	}

	args := []string{
		"--model", e.cfg.Model,
		"--output-raw",
		"--length-scale", fmt.Sprintf("%.2f", 1.0/speed),
	}
	if e.cfg.ConfigPath != "" {
		args = append(args, "--config", e.cfg.ConfigPath)
	}
	if voice != "" {
		args = append(args, "--speaker", voice)
	}

	pcm, err := runEngine(ctx, e.Name(), e.cfg.Timeout, strings.NewReader(text), e.cfg.Binary, args...)
	if err != nil {
		return nil, err
	}
	if len(pcm) > maxPCMSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrAudioTooLarge, len(pcm), maxPCMSize)
	}
	return encodeWAV(pcm, e.cfg.SampleRate), nil
}
