package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/evmar/whisper/internal/app"
	"github.com/evmar/whisper/internal/audio"
	"github.com/evmar/whisper/internal/config"
	"github.com/evmar/whisper/internal/logging"
	"github.com/evmar/whisper/internal/output"
	"github.com/evmar/whisper/internal/permissions"
	"github.com/evmar/whisper/internal/stopsignal"
	"github.com/evmar/whisper/internal/whisper"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// Load config from XDG/Library/AppData
	cfg, err := config.Load()
	if err != nil {
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logging.NewWithLevel(cfg.LogLevel)
	log.Debug().Str("version", Version).Str("commit", Commit).Msg("Starting")

	// macOS requires explicit microphone approval before capture works
	if err := permissions.EnsurePermissions(); err != nil {
		log.Fatal().Err(err).Msg("Required permissions not granted")
	}

	backend, err := audio.BackendByName(cfg.Audio.Backend)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid audio config")
	}

	// The first SIGINT/SIGTERM stops recording; the second one kills the process
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()

	// Load the model up front so a bad model path fails before recording
	engine, err := whisper.New(ctx, cfg.Whisper)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize whisper")
	}
	defer engine.Close()

	pipeline := app.New(app.Config{
		Backend: backend,
		Engine:  engine,
		Stop:    stopsignal.Keypress(os.Stdin),
		Output:  output.New(os.Stdout, cfg.Output, log),
		Config:  cfg,
		Logger:  log,
	})

	if err := pipeline.Run(ctx); err != nil {
		engine.Close()
		log.Fatal().Err(err).Msg("Pipeline failed")
	}
}
