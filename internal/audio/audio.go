package audio

import "fmt"

// Capture profile used by the pipeline: mono, 32-bit float, 16 kHz.
const (
	SampleRate = 16000
	Channels   = 1
)

// DeviceType selects the direction of a device
type DeviceType int

const (
	Playback DeviceType = iota + 1
	Capture
	Duplex
)

func (t DeviceType) String() string {
	switch t {
	case Playback:
		return "playback"
	case Capture:
		return "capture"
	case Duplex:
		return "duplex"
	}
	return "unknown"
}

// Format is the sample format of a device
type Format int

const (
	FormatUnknown Format = iota
	FormatU8
	FormatS16
	FormatS24
	FormatS32
	FormatF32
)

// BytesPerSample returns the size of one sample, or 0 for FormatUnknown.
func (f Format) BytesPerSample() int {
	switch f {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatS24:
		return 3
	case FormatS32, FormatF32:
		return 4
	}
	return 0
}

// DataProc is the shape of the data callback every Backend invokes.
// userData is the opaque value passed in NativeDeviceConfig.
type DataProc func(userData uintptr, output, input []byte, frameCount uint32)

// StopProc is invoked by a Backend when the device stops.
type StopProc func(userData uintptr)

// NativeDeviceConfig is what a Backend receives when a device is created.
type NativeDeviceConfig struct {
	DeviceType   DeviceType
	Format       Format
	Channels     uint32
	SampleRate   uint32
	DataCallback DataProc
	StopCallback StopProc
	UserData     uintptr
}

// Backend is the native audio library boundary.
//
// Implementations must keep the native context and device at a fixed address
// until they are uninitialised, must serialize DataCallback invocations for a
// device, and must not invoke it again once NativeDevice.Stop has returned.
type Backend interface {
	Name() string
	InitContext() (NativeContext, error)
	InitDevice(ctx NativeContext, cfg NativeDeviceConfig) (NativeDevice, error)
}

// NativeContext is an initialised backend context
type NativeContext interface {
	Uninit() error
}

// NativeDevice is an initialised backend device
type NativeDevice interface {
	Start() error
	Stop() error
	Uninit()
}

// BackendByName returns the Backend registered under name. An empty name
// selects miniaudio.
func BackendByName(name string) (Backend, error) {
	switch name {
	case "", "miniaudio":
		return Miniaudio(), nil
	case "portaudio":
		return PortAudio(), nil
	}
	return nil, fmt.Errorf("unknown audio backend: %s", name)
}

// noCopy may be embedded into structs which must not be copied after first use.
// See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
