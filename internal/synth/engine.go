package synth

import "context"

// Engine synthesizes speech for a piece of text.
type Engine interface {
	// Name identifies the engine in cache keys and logs.
	Name() string
	// Format is the file extension of the produced audio.
	Format() string
	// Synthesize returns the encoded audio for text. An empty voice selects
	// the engine default.
	Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error)
}

// Maximum text accepted by the engines, in bytes.
const maxTextSize = 5000

// NewEngine creates the engine selected in cfg.
func NewEngine(cfg Config) (Engine, error) {
	switch cfg.Engine {
	case EnginePiper:
		return NewPiperEngine(cfg.Piper), nil
	case EngineGTTS:
		return NewGTTSEngine(cfg.GTTS), nil
	case "":
		return nil, ErrDisabled
	default:
		return nil, ErrEngineUnavailable
	}
}
