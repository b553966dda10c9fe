package audio

import (
	"runtime/cgo"
	"sync"
)

// State is the lifecycle state of a Device
type State int

const (
	Uninitialized State = iota
	Initialized
	Started
	Stopped
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Device owns a native device bound to a Context and the callback state
// registered on the config it was created from. It must only be used through
// the pointer returned by InitDevice.
type Device struct {
	noCopy noCopy

	ctx    *Context
	native NativeDevice

	// state and handle live exactly as long as native does
	state  *callbackState
	handle cgo.Handle

	mu     sync.Mutex
	status State
	uninit sync.Once
}

// InitDevice creates a native device from cfg on ctx. Ownership of the
// config's callback state moves to the returned Device.
func InitDevice(ctx *Context, cfg *DeviceConfig) (*Device, error) {
	if cfg.consumed {
		return nil, &BackendError{Op: "device_init", Status: StatusInvalidArgs, Err: ErrConfigConsumed}
	}

	d := &Device{ctx: ctx}
	if err := ctx.bind(d); err != nil {
		return nil, err
	}

	var userData uintptr
	if cfg.state != nil {
		cfg.state.frameSize = int(cfg.channels) * cfg.format.BytesPerSample()
		d.handle = cgo.NewHandle(cfg.state)
		userData = uintptr(d.handle)
	}

	native, err := ctx.backend.InitDevice(ctx.native, cfg.native(userData))
	if err != nil {
		if d.handle != 0 {
			d.handle.Delete()
		}
		ctx.unbind(d)
		return nil, nativeError("device_init", err, StatusError)
	}

	d.native = native
	d.state = cfg.state
	d.status = Initialized
	cfg.state = nil
	cfg.consumed = true
	return d, nil
}

// State returns the current lifecycle state.
func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Start begins delivering audio to the registered handler.
func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status != Initialized && d.status != Stopped {
		return invalidState("device_start", d.status)
	}
	if d.state != nil {
		d.state.run.Store(runActive)
	}
	if err := d.native.Start(); err != nil {
		return nativeError("device_start", err, StatusError)
	}
	d.status = Started
	return nil
}

// Stop halts the device. Once it returns the handler will not be called again
// until the next Start.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status != Started {
		return invalidState("device_stop", d.status)
	}
	if d.state != nil && !d.state.run.CompareAndSwap(runActive, runStopping) {
		// the backend already stopped it
		d.status = Stopped
		return nil
	}
	if err := d.native.Stop(); err != nil {
		return nativeError("device_stop", err, StatusError)
	}
	d.status = Stopped
	return nil
}

// Uninit tears down the native device and then releases the callback state.
// Only the first call has any effect.
func (d *Device) Uninit() {
	d.uninit.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		if d.state != nil {
			d.state.run.Store(runStopping)
		}
		d.native.Uninit()
		d.status = Uninitialized

		if d.state != nil {
			d.handle.Delete()
			d.state.release()
			d.state = nil
		}
		d.ctx.unbind(d)
	})
}
