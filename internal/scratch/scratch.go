// Package scratch persists a finished capture between the recording and
// transcription phases.
//
// The raw artifact is the capture buffer byte for byte: interleaved
// little-endian float32 samples, no header.
package scratch

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	pcm "github.com/evmar/whisper/internal/audio"
)

// IOError reports a failed read or write of a scratch artifact.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("scratch %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// WriteRaw replaces the file at path with the raw capture bytes.
func WriteRaw(path string, raw []byte) error {
	if len(raw)%4 != 0 {
		return &IOError{Op: "write", Path: path, Err: fmt.Errorf("%d bytes is not a whole number of samples", len(raw))}
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// ReadRaw loads a raw capture back as float32 samples.
func ReadRaw(path string) ([]float32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	if len(raw)%4 != 0 {
		return nil, &IOError{Op: "read", Path: path, Err: fmt.Errorf("%d bytes is not a whole number of samples", len(raw))}
	}
	return pcm.DecodeF32(raw), nil
}

// WAVPath returns the sidecar name for a raw artifact: out.raw -> out.wav.
func WAVPath(rawPath string) string {
	return strings.TrimSuffix(rawPath, ".raw") + ".wav"
}

// WriteWAV writes samples as a 16-bit PCM WAV file for listening back to a
// capture.
func WriteWAV(path string, samples []float32, sampleRate, channels int) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	defer f.Close()

	data := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	if err := enc.Write(buf); err != nil {
		return &IOError{Op: "write", Path: path, Err: fmt.Errorf("write wav: %w", err)}
	}
	if err := enc.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: fmt.Errorf("close wav encoder: %w", err)}
	}
	return nil
}
