package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/evmar/whisper/internal/audio"
	"github.com/evmar/whisper/internal/config"
	"github.com/evmar/whisper/internal/output"
	"github.com/evmar/whisper/internal/scratch"
	"github.com/evmar/whisper/internal/stopsignal"
	"github.com/evmar/whisper/internal/whisper"
)

// preallocate one minute of capture
const initialCapacity = audio.SampleRate * audio.Channels * 60

type Config struct {
	Backend audio.Backend
	Engine  whisper.Engine
	Stop    stopsignal.Trigger
	Output  output.Sink
	Config  *config.Config
	Logger  zerolog.Logger
}

// Pipeline records until the stop trigger fires, then transcribes the
// recording and emits the transcript.
type Pipeline struct {
	backend audio.Backend
	engine  whisper.Engine
	stop    stopsignal.Trigger
	out     output.Sink
	cfg     *config.Config
	log     zerolog.Logger
}

func New(cfg Config) *Pipeline {
	return &Pipeline{
		backend: cfg.Backend,
		engine:  cfg.Engine,
		stop:    cfg.Stop,
		out:     cfg.Output,
		cfg:     cfg.Config,
		log:     cfg.Logger,
	}
}

// Run executes the whole pipeline once. The first failing step aborts the
// rest and its error is returned.
func (p *Pipeline) Run(ctx context.Context) error {
	raw, err := p.record(ctx)
	if err != nil {
		return err
	}

	path := p.cfg.Scratch.Path
	if err := scratch.WriteRaw(path, raw); err != nil {
		return fmt.Errorf("failed to save capture: %w", err)
	}
	samples, err := scratch.ReadRaw(path)
	if err != nil {
		return fmt.Errorf("failed to load capture: %w", err)
	}

	if p.cfg.Scratch.WAV {
		wavPath := scratch.WAVPath(path)
		if err := scratch.WriteWAV(wavPath, samples, audio.SampleRate, audio.Channels); err != nil {
			return fmt.Errorf("failed to save capture: %w", err)
		}
		p.log.Debug().Str("path", wavPath).Msg("Wrote WAV copy of capture")
	}

	p.log.Info().Int("samples", len(samples)).Msg("Transcribing")
	segments, err := p.engine.Transcribe(samples)
	if err != nil {
		return fmt.Errorf("failed to transcribe: %w", err)
	}
	p.log.Debug().Int("segments", len(segments)).Msg("Transcription finished")

	if err := p.out.Emit(segments); err != nil {
		return fmt.Errorf("failed to emit transcript: %w", err)
	}
	return nil
}

// record captures from the default input device until the stop trigger
// fires, the context is canceled or the backend drops the device. The
// returned bytes are only read after the device is stopped.
func (p *Pipeline) record(ctx context.Context) ([]byte, error) {
	actx, err := audio.InitContext(p.backend)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	defer actx.Uninit()

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var disconnected atomic.Bool
	buf := audio.NewSampleBuffer(initialCapacity)

	cfg := audio.NewDeviceConfig(audio.Capture)
	cfg.SetFormat(audio.FormatF32)
	cfg.SetChannels(audio.Channels)
	cfg.SetSampleRate(audio.SampleRate)
	cfg.RegisterCallback(buf.Handler())
	cfg.OnDisconnect(func() {
		disconnected.Store(true)
		cancel()
	})

	dev, err := audio.InitDevice(actx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize capture device: %w", err)
	}
	defer dev.Uninit()

	if err := dev.Start(); err != nil {
		return nil, fmt.Errorf("failed to start capture: %w", err)
	}
	started := time.Now()
	p.log.Info().Str("backend", actx.Backend()).Msg("Recording, press any key to stop")

	err = p.stop.Wait(waitCtx)
	switch {
	case err == nil:
	case disconnected.Load():
		p.log.Warn().Msg("Capture device stopped by the backend")
	case ctx.Err() != nil:
		p.log.Info().Msg("Interrupted")
	default:
		if stopErr := dev.Stop(); stopErr != nil {
			p.log.Warn().Err(stopErr).Msg("Failed to stop capture")
		}
		return nil, fmt.Errorf("failed waiting for stop signal: %w", err)
	}

	if err := dev.Stop(); err != nil {
		return nil, fmt.Errorf("failed to stop capture: %w", err)
	}

	// device before context
	dev.Uninit()
	if err := actx.Uninit(); err != nil {
		return nil, fmt.Errorf("failed to release audio context: %w", err)
	}

	p.log.Info().
		Int("bytes", buf.Len()).
		Dur("elapsed", time.Since(started)).
		Msg("Recording stopped")

	return buf.Bytes(), nil
}
