package audio

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/gordonklaus/portaudio"
)

// PortAudio only supports float32 capture here. It has no stop notification,
// so OnDisconnect hooks never fire with this backend.
type portAudioBackend struct{}

// PortAudio returns the Backend backed by PortAudio.
func PortAudio() Backend {
	return portAudioBackend{}
}

func (portAudioBackend) Name() string {
	return "portaudio"
}

func (portAudioBackend) InitContext() (NativeContext, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize PortAudio: %v", StatusNoBackend, err)
	}
	if _, err := portaudio.DefaultInputDevice(); err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: failed to get default input device: %v", StatusNoBackend, err)
	}
	return portAudioContext{}, nil
}

func (portAudioBackend) InitDevice(_ NativeContext, cfg NativeDeviceConfig) (NativeDevice, error) {
	if cfg.DeviceType != Capture {
		return nil, StatusDeviceTypeNotSupport
	}
	if cfg.Format != FormatF32 {
		return nil, StatusFormatNotSupported
	}

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, paStatus(err)
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: int(cfg.Channels),
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(cfg.SampleRate),
		FramesPerBuffer: portaudio.FramesPerBufferUnspecified,
	}

	var stream *portaudio.Stream
	if cfg.DataCallback != nil {
		data, userData, channels := cfg.DataCallback, cfg.UserData, int(cfg.Channels)
		stream, err = portaudio.OpenStream(params, func(in []float32) {
			if len(in) == 0 {
				return
			}
			raw := unsafe.Slice((*byte)(unsafe.Pointer(&in[0])), len(in)*4)
			data(userData, nil, raw, uint32(len(in)/channels))
		})
	} else {
		stream, err = portaudio.OpenStream(params, func(in []float32) {})
	}
	if err != nil {
		return nil, paStatus(err)
	}
	return &portAudioDevice{stream: stream}, nil
}

// paStatus keeps PortAudio's own error code as the native status.
func paStatus(err error) error {
	var pe portaudio.Error
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %v", Status(pe), err)
	}
	return fmt.Errorf("%w: %v", StatusError, err)
}

type portAudioContext struct{}

func (portAudioContext) Uninit() error {
	if err := portaudio.Terminate(); err != nil {
		return paStatus(err)
	}
	return nil
}

type portAudioDevice struct {
	stream *portaudio.Stream
}

func (d *portAudioDevice) Start() error {
	if err := d.stream.Start(); err != nil {
		return paStatus(err)
	}
	return nil
}

// Stop waits for pending buffers, so no callback runs after it returns.
func (d *portAudioDevice) Stop() error {
	if err := d.stream.Stop(); err != nil {
		return paStatus(err)
	}
	return nil
}

func (d *portAudioDevice) Uninit() {
	d.stream.Close()
}
