package audio

import (
	"errors"
	"fmt"

	"github.com/gen2brain/malgo"
)

// malgo allocates ma_context and ma_device in C memory, so both stay put for
// their whole lifetime.
type miniaudioBackend struct{}

// Miniaudio returns the Backend backed by miniaudio.
func Miniaudio() Backend {
	return miniaudioBackend{}
}

func (miniaudioBackend) Name() string {
	return "miniaudio"
}

// captureBackends is every miniaudio backend except the null one, which would
// otherwise be picked on hosts without audio hardware and record silence.
var captureBackends = []malgo.Backend{
	malgo.BackendWasapi,
	malgo.BackendDsound,
	malgo.BackendWinmm,
	malgo.BackendCoreaudio,
	malgo.BackendSndio,
	malgo.BackendAudio4,
	malgo.BackendOss,
	malgo.BackendPulseaudio,
	malgo.BackendAlsa,
	malgo.BackendJack,
	malgo.BackendAaudio,
	malgo.BackendOpensl,
	malgo.BackendWebaudio,
}

func (miniaudioBackend) InitContext() (NativeContext, error) {
	ctx, err := malgo.InitContext(captureBackends, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, maStatus(err)
	}
	if err := requireCaptureDevice(ctx.Devices(malgo.Capture)); err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, err
	}
	return &miniaudioContext{ctx: ctx}, nil
}

// requireCaptureDevice fails with StatusNoBackend unless the context can see
// at least one capture device.
func requireCaptureDevice(devices []malgo.DeviceInfo, err error) error {
	if err != nil {
		return fmt.Errorf("%w: failed to enumerate capture devices: %w", StatusNoBackend, err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("%w: no capture device attached", StatusNoBackend)
	}
	return nil
}

// maStatus keeps miniaudio's ma_result as the native status.
func maStatus(err error) error {
	var r malgo.Result
	if errors.As(err, &r) {
		return fmt.Errorf("%w: %w", Status(r), err)
	}
	return fmt.Errorf("%w: %w", StatusError, err)
}

func (miniaudioBackend) InitDevice(ctx NativeContext, cfg NativeDeviceConfig) (NativeDevice, error) {
	mc, ok := ctx.(*miniaudioContext)
	if !ok {
		return nil, fmt.Errorf("%w: context from another backend", StatusInvalidArgs)
	}

	deviceType, ok := miniaudioDeviceTypes[cfg.DeviceType]
	if !ok {
		return nil, StatusDeviceTypeNotSupport
	}
	format, ok := miniaudioFormats[cfg.Format]
	if !ok {
		return nil, StatusFormatNotSupported
	}

	dc := malgo.DefaultDeviceConfig(deviceType)
	dc.Capture.Format = format
	dc.Capture.Channels = cfg.Channels
	dc.Playback.Format = format
	dc.Playback.Channels = cfg.Channels
	dc.SampleRate = cfg.SampleRate

	var callbacks malgo.DeviceCallbacks
	if cfg.DataCallback != nil {
		data, stop, userData := cfg.DataCallback, cfg.StopCallback, cfg.UserData
		callbacks.Data = func(output, input []byte, frameCount uint32) {
			data(userData, output, input, frameCount)
		}
		if stop != nil {
			callbacks.Stop = func() {
				stop(userData)
			}
		}
	}

	dev, err := malgo.InitDevice(mc.ctx.Context, dc, callbacks)
	if err != nil {
		return nil, maStatus(err)
	}
	return &miniaudioDevice{dev: dev}, nil
}

var miniaudioDeviceTypes = map[DeviceType]malgo.DeviceType{
	Playback: malgo.Playback,
	Capture:  malgo.Capture,
	Duplex:   malgo.Duplex,
}

var miniaudioFormats = map[Format]malgo.FormatType{
	FormatU8:  malgo.FormatU8,
	FormatS16: malgo.FormatS16,
	FormatS24: malgo.FormatS24,
	FormatS32: malgo.FormatS32,
	FormatF32: malgo.FormatF32,
}

type miniaudioContext struct {
	ctx *malgo.AllocatedContext
}

func (c *miniaudioContext) Uninit() error {
	err := c.ctx.Uninit()
	c.ctx.Free()
	if err != nil {
		return maStatus(err)
	}
	return nil
}

type miniaudioDevice struct {
	dev *malgo.Device
}

func (d *miniaudioDevice) Start() error {
	if err := d.dev.Start(); err != nil {
		return maStatus(err)
	}
	return nil
}

func (d *miniaudioDevice) Stop() error {
	if err := d.dev.Stop(); err != nil {
		return maStatus(err)
	}
	return nil
}

func (d *miniaudioDevice) Uninit() {
	d.dev.Uninit()
}
