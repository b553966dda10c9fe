package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/evmar/whisper/internal/config"
)

// Engine turns a finished capture into an ordered transcript
type Engine interface {
	Transcribe(samples []float32) ([]Segment, error)
	Close() error
}

// Segment is one span of transcribed text
type Segment struct {
	Num   int
	Start time.Duration
	End   time.Duration
	Text  string
}

// EngineError reports a failed model load or decode
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

type whisperEngine struct {
	mu        sync.Mutex
	model     whisper.Model
	modelPath string
	language  string
	threads   int
}

// New loads the configured model, downloading it first when the file is
// missing and names a known model.
func New(ctx context.Context, cfg config.WhisperConfig) (Engine, error) {
	modelPath := cfg.ModelFile()

	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		if name, ok := fetchable(cfg); ok {
			if err := models.fetch(ctx, name, modelPath); err != nil {
				return nil, err
			}
		}
	}

	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, &EngineError{Op: "whisper_init_from_file", Err: fmt.Errorf("%s: %w", modelPath, err)}
	}

	return &whisperEngine{
		model:     model,
		modelPath: modelPath,
		language:  cfg.Language,
		threads:   cfg.Threads,
	}, nil
}

// Transcribe runs a full greedy decode of samples (16 kHz mono float32) and
// returns every segment in order. An empty capture has no segments.
func (w *whisperEngine) Transcribe(samples []float32) ([]Segment, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.model == nil {
		return nil, &EngineError{Op: "whisper_full", Err: errors.New("model closed")}
	}
	if len(samples) == 0 {
		return nil, nil
	}

	ctx, err := w.model.NewContext()
	if err != nil {
		return nil, &EngineError{Op: "whisper_init_state", Err: err}
	}

	if w.threads > 0 {
		ctx.SetThreads(uint(w.threads))
	}
	if w.language != "auto" && w.language != "" {
		if err := ctx.SetLanguage(w.language); err != nil {
			return nil, &EngineError{Op: "whisper_set_language", Err: err}
		}
	}
	ctx.SetTranslate(false)

	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		return nil, &EngineError{Op: "whisper_full", Err: err}
	}

	segments, err := collectSegments(func() (whisper.Segment, error) {
		return ctx.NextSegment()
	})
	if err != nil {
		return nil, &EngineError{Op: "whisper_full_get_segment_text", Err: err}
	}
	return segments, nil
}

// collectSegments drains next until io.EOF.
func collectSegments(next func() (whisper.Segment, error)) ([]Segment, error) {
	var segments []Segment
	for {
		seg, err := next()
		if err == io.EOF {
			return segments, nil
		}
		if err != nil {
			return nil, err
		}
		segments = append(segments, Segment{
			Num:   seg.Num,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
}

func (w *whisperEngine) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.model != nil {
		err := w.model.Close()
		w.model = nil
		return err
	}
	return nil
}
