package audio

import (
	"runtime/cgo"
	"sync/atomic"
)

// callbackState is everything the trampolines need to reach user code. Native
// code only ever sees it as a cgo.Handle, so no Go pointer crosses the
// boundary and the state cannot move under the backend.
type callbackState struct {
	handler      DataHandler
	onDisconnect func()

	// bytes per frame, fixed at device init
	frameSize int

	// one of the run* values; Device.Stop and stopTrampoline race to move it
	// off runActive and only the winner acts
	run      atomic.Int32
	released bool
}

const (
	runActive int32 = iota
	runStopping
	runDisconnected
)

func (s *callbackState) release() {
	s.handler = nil
	s.onDisconnect = nil
	s.released = true
}

// dataTrampoline is the single entry point every Backend calls for audio data.
// It recovers the handler from the opaque user data and forwards the buffers
// trimmed to the configured frame size. It must not allocate.
func dataTrampoline(userData uintptr, output, input []byte, frameCount uint32) {
	s := cgo.Handle(userData).Value().(*callbackState)
	if s.handler == nil {
		return
	}
	n := int(frameCount) * s.frameSize
	s.handler(clip(output, n), clip(input, n), frameCount)
}

// stopTrampoline is called by a Backend whenever the device stops. Stops not
// requested through Device.Stop are reported as disconnects.
func stopTrampoline(userData uintptr) {
	s := cgo.Handle(userData).Value().(*callbackState)
	if !s.run.CompareAndSwap(runActive, runDisconnected) {
		return
	}
	if s.onDisconnect != nil {
		s.onDisconnect()
	}
}

func clip(b []byte, n int) []byte {
	if b == nil {
		return nil
	}
	if n > len(b) {
		n = len(b)
	}
	return b[:n:n]
}
