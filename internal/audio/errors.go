package audio

import (
	"errors"
	"fmt"
)

// Status is a native result code. Zero is success.
type Status int32

// Result codes shared with miniaudio's ma_result.
const (
	StatusSuccess              Status = 0
	StatusError                Status = -1
	StatusInvalidArgs          Status = -2
	StatusInvalidOperation     Status = -3
	StatusOutOfMemory          Status = -4
	StatusBusy                 Status = -19
	StatusFormatNotSupported   Status = -200
	StatusDeviceTypeNotSupport Status = -201
	StatusNoBackend            Status = -203
	StatusNoDevice             Status = -204
)

var statusNames = map[Status]string{
	StatusSuccess:              "success",
	StatusError:                "error",
	StatusInvalidArgs:          "invalid args",
	StatusInvalidOperation:     "invalid operation",
	StatusOutOfMemory:          "out of memory",
	StatusBusy:                 "busy",
	StatusFormatNotSupported:   "format not supported",
	StatusDeviceTypeNotSupport: "device type not supported",
	StatusNoBackend:            "no backend",
	StatusNoDevice:             "no device",
}

func (s Status) Error() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status %d", int32(s))
}

var (
	// ErrNoBackend is returned when no capture backend could be initialised.
	ErrNoBackend = errors.New("no audio backend available")
	// ErrInvalidState is returned when an operation is not allowed in the device's current state.
	ErrInvalidState = errors.New("invalid device state")
	// ErrConfigConsumed is returned when a DeviceConfig is used for a second device.
	ErrConfigConsumed = errors.New("device config already consumed")
)

// BackendError reports a failed context or device call together with the
// native status code.
type BackendError struct {
	Op     string
	Status Status
	Err    error
}

func (e *BackendError) Error() string {
	if e.Err == nil || e.Err == e.Status {
		return fmt.Sprintf("%s failed: %v (status %d)", e.Op, e.Status, int32(e.Status))
	}
	return fmt.Sprintf("%s failed: %v (status %d)", e.Op, e.Err, int32(e.Status))
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a BackendError against the sentinel errors through
// its status code even when the backend wrapped something else.
func (e *BackendError) Is(target error) bool {
	switch target {
	case ErrNoBackend:
		return e.Status == StatusNoBackend
	case ErrInvalidState:
		return e.Status == StatusInvalidOperation
	}
	return false
}

// nativeError builds a BackendError from whatever a Backend returned.
func nativeError(op string, err error, fallback Status) *BackendError {
	status := fallback
	var s Status
	if errors.As(err, &s) {
		status = s
	}
	return &BackendError{Op: op, Status: status, Err: err}
}

func invalidState(op string, state State) *BackendError {
	return &BackendError{
		Op:     op,
		Status: StatusInvalidOperation,
		Err:    fmt.Errorf("%w: device is %s", ErrInvalidState, state),
	}
}
