package audio

import (
	"sync"
)

// Context owns a backend's native context. It must only be used through the
// pointer returned by InitContext.
type Context struct {
	noCopy noCopy

	backend Backend
	native  NativeContext

	mu      sync.Mutex
	devices map[*Device]struct{}
	closed  bool
}

// InitContext initialises the backend with its default backend selection.
func InitContext(backend Backend) (*Context, error) {
	native, err := backend.InitContext()
	if err != nil {
		return nil, nativeError("context_init", err, StatusNoBackend)
	}
	return &Context{
		backend: backend,
		native:  native,
		devices: make(map[*Device]struct{}),
	}, nil
}

// Backend returns the name of the backend the context was created with.
func (c *Context) Backend() string {
	return c.backend.Name()
}

// Uninit tears down every device still bound to the context and then the
// native context itself. Calling it again is a no-op.
func (c *Context) Uninit() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	devices := make([]*Device, 0, len(c.devices))
	for d := range c.devices {
		devices = append(devices, d)
	}
	c.mu.Unlock()

	for _, d := range devices {
		d.Uninit()
	}

	if err := c.native.Uninit(); err != nil {
		return nativeError("context_uninit", err, StatusError)
	}
	return nil
}

func (c *Context) bind(d *Device) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return &BackendError{Op: "device_init", Status: StatusInvalidOperation, Err: ErrInvalidState}
	}
	c.devices[d] = struct{}{}
	return nil
}

func (c *Context) unbind(d *Device) {
	c.mu.Lock()
	delete(c.devices, d)
	c.mu.Unlock()
}
