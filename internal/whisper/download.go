package whisper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/evmar/whisper/internal/config"
)

// Models published as ggml-<name>.bin
var knownModels = map[string]bool{
	"tiny.en":        true,
	"base.en":        true,
	"small.en":       true,
	"medium.en":      true,
	"large-v3":       true,
	"large-v3-turbo": true,
}

type modelStore struct {
	baseURL string
	client  *http.Client
}

var models = modelStore{
	baseURL: "https://huggingface.co/ggerganov/whisper.cpp/resolve/main",
	client:  http.DefaultClient,
}

func (s modelStore) url(name string) (string, error) {
	if !knownModels[name] {
		return "", fmt.Errorf("unknown model: %s", name)
	}
	return s.baseURL + "/ggml-" + name + ".bin", nil
}

// fetchable returns the known model name behind the configured file. An
// explicit ModelPath counts when its base name is ggml-<known>.bin.
func fetchable(cfg config.WhisperConfig) (string, bool) {
	name := cfg.Model
	if cfg.ModelPath != "" {
		base := filepath.Base(cfg.ModelPath)
		if !strings.HasPrefix(base, "ggml-") || !strings.HasSuffix(base, ".bin") {
			return "", false
		}
		name = strings.TrimSuffix(strings.TrimPrefix(base, "ggml-"), ".bin")
	}
	return name, knownModels[name]
}

// fetch downloads model name to dest. dest only ever appears complete.
func (s modelStore) fetch(ctx context.Context, name, dest string) error {
	url, err := s.url(name)
	if err != nil {
		return &EngineError{Op: "model_download", Err: err}
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &EngineError{Op: "model_download", Err: fmt.Errorf("failed to create models directory: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &EngineError{Op: "model_download", Err: err}
	}
	log.Info().Str("model", name).Str("url", url).Str("path", dest).Msg("Downloading model")

	resp, err := s.client.Do(req)
	if err != nil {
		return &EngineError{Op: "model_download", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &EngineError{Op: "model_download", Err: fmt.Errorf("%s: HTTP %d", url, resp.StatusCode)}
	}

	tmp, err := os.CreateTemp(dir, "ggml-"+name+"-*.part")
	if err != nil {
		return &EngineError{Op: "model_download", Err: err}
	}
	defer os.Remove(tmp.Name())

	body := &progress{r: resp.Body, total: resp.ContentLength, model: name}
	n, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &EngineError{Op: "model_download", Err: fmt.Errorf("failed to write %s: %w", tmp.Name(), err)}
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return &EngineError{Op: "model_download", Err: err}
	}

	log.Info().Str("model", name).Float64("size_mb", float64(n)/1024/1024).Msg("Model downloaded")
	return nil
}

// progress logs every tenth of a download of known size.
type progress struct {
	r     io.Reader
	total int64
	read  int64
	step  int64
	model string
}

func (p *progress) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		if step := p.read * 10 / p.total; step > p.step {
			p.step = step
			log.Info().Str("model", p.model).Int64("percent", step*10).Msg("Downloading model")
		}
	}
	return n, err
}
