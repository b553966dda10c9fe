package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/evmar/whisper/internal/config"
	"github.com/evmar/whisper/internal/whisper"
)

// Sink receives the finished transcript
type Sink interface {
	Emit(segments []whisper.Segment) error
}

type printer struct {
	out  io.Writer
	cfg  config.OutputConfig
	log  zerolog.Logger
	copy func(string) error
}

// New returns a Sink that prints one line per segment to out and, when
// configured, copies the whole transcript to the clipboard.
func New(out io.Writer, cfg config.OutputConfig, log zerolog.Logger) Sink {
	return &printer{
		out:  out,
		cfg:  cfg,
		log:  log,
		copy: clipboard.WriteAll,
	}
}

func (p *printer) Emit(segments []whisper.Segment) error {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		line := strings.TrimSpace(seg.Text)
		if _, err := fmt.Fprintln(p.out, line); err != nil {
			return fmt.Errorf("failed to print segment %d: %w", seg.Num, err)
		}
		lines = append(lines, line)
	}

	if p.cfg.Clipboard && len(lines) > 0 {
		// clipboard errors are logged, never returned
		if err := p.copy(strings.Join(lines, " ")); err != nil {
			p.log.Warn().Err(err).Msg("Failed to copy transcript to clipboard")
		}
	}
	return nil
}
