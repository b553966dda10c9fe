package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestSampleBufferSamples(t *testing.T) {
	want := []float32{0, 0.5, -1, 0.25}
	raw := make([]byte, 0, len(want)*4)
	for _, v := range want {
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(v))
	}

	buf := NewSampleBuffer(len(want))
	handler := buf.Handler()
	handler(nil, raw[:8], 2)
	handler(nil, raw[8:], 2)

	got := buf.Samples()
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestDecodeF32IgnoresPartialSample(t *testing.T) {
	got := DecodeF32(make([]byte, 10))
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
}
