package whisper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/evmar/whisper/internal/config"
)

func TestCollectSegmentsKeepsOrder(t *testing.T) {
	src := []whisper.Segment{
		{Num: 0, Start: 0, End: 2 * time.Second, Text: " Hello"},
		{Num: 1, Start: 2 * time.Second, End: 4 * time.Second, Text: " world."},
	}
	i := 0
	next := func() (whisper.Segment, error) {
		if i == len(src) {
			return whisper.Segment{}, io.EOF
		}
		i++
		return src[i-1], nil
	}

	got, err := collectSegments(next)
	if err != nil {
		t.Fatalf("collectSegments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got))
	}
	for j, seg := range got {
		if seg.Num != j || seg.Text != src[j].Text || seg.End != src[j].End {
			t.Errorf("segment %d mismatch: %+v", j, seg)
		}
	}
}

func TestCollectSegmentsNone(t *testing.T) {
	got, err := collectSegments(func() (whisper.Segment, error) {
		return whisper.Segment{}, io.EOF
	})
	if err != nil {
		t.Fatalf("collectSegments: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no segments, got %d", len(got))
	}
}

func TestCollectSegmentsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := collectSegments(func() (whisper.Segment, error) {
		return whisper.Segment{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestEngineErrorUnwraps(t *testing.T) {
	cause := errors.New("decode failed")
	err := error(&EngineError{Op: "whisper_full", Err: cause})
	if !errors.Is(err, cause) {
		t.Fatal("expected EngineError to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "whisper_full") {
		t.Errorf("expected op in message, got %q", err.Error())
	}
}

func TestModelURL(t *testing.T) {
	url, err := models.url("small.en")
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	if !strings.HasSuffix(url, "/ggml-small.en.bin") {
		t.Errorf("unexpected url %s", url)
	}
	if _, err := models.url("huge"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestFetchable(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.WhisperConfig
		wantName string
		wantOK   bool
	}{
		{
			name:     "named model",
			cfg:      config.WhisperConfig{Model: "base.en"},
			wantName: "base.en",
			wantOK:   true,
		},
		{
			name: "unknown model",
			cfg:  config.WhisperConfig{Model: "huge"},
		},
		{
			name:     "model path names a known model",
			cfg:      config.WhisperConfig{Model: "small.en", ModelPath: "/opt/models/ggml-tiny.en.bin"},
			wantName: "tiny.en",
			wantOK:   true,
		},
		{
			name: "custom model path",
			cfg:  config.WhisperConfig{Model: "small.en", ModelPath: "/opt/models/finetuned.bin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := fetchable(tt.cfg)
			if ok != tt.wantOK || (ok && name != tt.wantName) {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.wantName, tt.wantOK, name, ok)
			}
		})
	}
}

func testStore(t *testing.T, h http.Handler) modelStore {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return modelStore{baseURL: srv.URL, client: srv.Client()}
}

func TestFetchModel(t *testing.T) {
	store := testStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ggml-tiny.en.bin" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ggml model bytes"))
	}))

	dir := filepath.Join(t.TempDir(), "models")
	dest := filepath.Join(dir, "ggml-tiny.en.bin")
	if err := store.fetch(context.Background(), "tiny.en", dest); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read model: %v", err)
	}
	if string(data) != "ggml model bytes" {
		t.Errorf("unexpected model contents %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the model in %s, got %d entries", dir, len(entries))
	}
}

func TestFetchModelHTTPError(t *testing.T) {
	store := testStore(t, http.NotFoundHandler())

	dir := t.TempDir()
	dest := filepath.Join(dir, "ggml-base.en.bin")
	err := store.fetch(context.Background(), "base.en", dest)

	var engErr *EngineError
	if !errors.As(err, &engErr) || engErr.Op != "model_download" {
		t.Fatalf("expected model_download EngineError, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no files after failed download, got %d", len(entries))
	}
}

func TestFetchModelCanceled(t *testing.T) {
	store := testStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("never"))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dest := filepath.Join(t.TempDir(), "ggml-tiny.en.bin")
	if err := store.fetch(ctx, "tiny.en", dest); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
