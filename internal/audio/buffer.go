package audio

import (
	"encoding/binary"
	"math"
)

// SampleBuffer accumulates raw interleaved samples. Append is meant to be called
// from a DataHandler while the device runs; Bytes and Samples only once the
// device is stopped.
type SampleBuffer struct {
	data []byte
}

// NewSampleBuffer preallocates room for the given number of float32 samples.
func NewSampleBuffer(samples int) *SampleBuffer {
	return &SampleBuffer{data: make([]byte, 0, samples*4)}
}

// Append copies a block of captured bytes into the buffer.
func (b *SampleBuffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// Handler returns a DataHandler that appends every captured block.
func (b *SampleBuffer) Handler() DataHandler {
	return func(_, input []byte, _ uint32) {
		b.Append(input)
	}
}

// Len returns the number of bytes captured.
func (b *SampleBuffer) Len() int {
	return len(b.data)
}

// Bytes returns the captured bytes without copying.
func (b *SampleBuffer) Bytes() []byte {
	return b.data
}

// Samples decodes the buffer as little-endian float32 samples. A trailing
// partial sample is ignored.
func (b *SampleBuffer) Samples() []float32 {
	return DecodeF32(b.data)
}

// DecodeF32 decodes little-endian float32 samples from raw bytes.
func DecodeF32(p []byte) []float32 {
	out := make([]float32, len(p)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	return out
}
