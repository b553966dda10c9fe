package audio

// DataHandler receives one block of samples from the backend's audio thread.
// output is the playback buffer to fill and input holds the captured samples;
// both are only valid for the duration of the call.
type DataHandler func(output, input []byte, frameCount uint32)

// DeviceConfig describes a device to create. It is consumed by InitDevice.
type DeviceConfig struct {
	deviceType DeviceType
	format     Format
	channels   uint32
	sampleRate uint32

	state    *callbackState
	consumed bool
}

// NewDeviceConfig returns a config for the given device type with the
// pipeline's capture profile as defaults.
func NewDeviceConfig(deviceType DeviceType) *DeviceConfig {
	return &DeviceConfig{
		deviceType: deviceType,
		format:     FormatF32,
		channels:   Channels,
		sampleRate: SampleRate,
	}
}

func (c *DeviceConfig) SetFormat(f Format) {
	c.format = f
}

func (c *DeviceConfig) SetChannels(n uint32) {
	c.channels = n
}

func (c *DeviceConfig) SetSampleRate(hz uint32) {
	c.sampleRate = hz
}

// RegisterCallback sets the handler invoked for every block of audio. The
// handler is owned by the device created from this config from then on.
func (c *DeviceConfig) RegisterCallback(handler DataHandler) {
	c.ensureState().handler = handler
}

// OnDisconnect sets a hook run from the backend's thread when the device
// stops without Stop being called.
func (c *DeviceConfig) OnDisconnect(fn func()) {
	c.ensureState().onDisconnect = fn
}

func (c *DeviceConfig) ensureState() *callbackState {
	if c.state == nil {
		c.state = &callbackState{}
	}
	return c.state
}

func (c *DeviceConfig) native(userData uintptr) NativeDeviceConfig {
	nc := NativeDeviceConfig{
		DeviceType: c.deviceType,
		Format:     c.format,
		Channels:   c.channels,
		SampleRate: c.sampleRate,
	}
	if c.state != nil {
		nc.DataCallback = dataTrampoline
		nc.StopCallback = stopTrampoline
		nc.UserData = userData
	}
	return nc
}
