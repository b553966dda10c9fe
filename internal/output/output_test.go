package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/evmar/whisper/internal/config"
	"github.com/evmar/whisper/internal/whisper"
)

func TestEmitPrintsOneLinePerSegment(t *testing.T) {
	var out bytes.Buffer
	sink := New(&out, config.OutputConfig{}, zerolog.Nop())

	err := sink.Emit([]whisper.Segment{
		{Num: 0, Text: " And so my fellow Americans,"},
		{Num: 1, Text: " ask not what your country can do for you."},
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	want := "And so my fellow Americans,\nask not what your country can do for you.\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestEmitCopiesToClipboard(t *testing.T) {
	var out bytes.Buffer
	var copied string
	p := &printer{
		out:  &out,
		cfg:  config.OutputConfig{Clipboard: true},
		log:  zerolog.Nop(),
		copy: func(s string) error { copied = s; return nil },
	}

	p.Emit([]whisper.Segment{{Text: " one"}, {Text: " two"}})
	if copied != "one two" {
		t.Errorf("expected clipboard %q, got %q", "one two", copied)
	}
}

func TestEmitClipboardFailureIsNotFatal(t *testing.T) {
	var out bytes.Buffer
	p := &printer{
		out:  &out,
		cfg:  config.OutputConfig{Clipboard: true},
		log:  zerolog.Nop(),
		copy: func(string) error { return errors.New("no clipboard utilities available") },
	}

	if err := p.Emit([]whisper.Segment{{Text: "hi"}}); err != nil {
		t.Fatalf("expected clipboard failure to be ignored, got %v", err)
	}
	if out.String() != "hi\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestEmitSkipsClipboardWhenDisabled(t *testing.T) {
	called := false
	p := &printer{
		out:  &bytes.Buffer{},
		log:  zerolog.Nop(),
		copy: func(string) error { called = true; return nil },
	}
	p.Emit([]whisper.Segment{{Text: "hi"}})
	if called {
		t.Error("clipboard used while disabled")
	}
}
