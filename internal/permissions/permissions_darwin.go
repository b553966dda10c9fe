//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework AVFoundation
#import <AVFoundation/AVFoundation.h>

int microphoneStatus() {
    return (int)[AVCaptureDevice authorizationStatusForMediaType:AVMediaTypeAudio];
}

void requestMicrophone() {
    [AVCaptureDevice requestAccessForMediaType:AVMediaTypeAudio completionHandler:^(BOOL granted) {}];
}
*/
import "C"

import "errors"

// AVAuthorizationStatus values
const (
	PermissionNotDetermined = 0
	PermissionRestricted    = 1
	PermissionDenied        = 2
	PermissionAuthorized    = 3
)

// ErrMicrophoneDenied is returned when capture is not authorized. A prompt
// has been requested if the user was never asked.
var ErrMicrophoneDenied = errors.New("microphone permission not granted (System Settings → Privacy & Security → Microphone)")

// CheckMicrophone returns the current microphone permission status
func CheckMicrophone() int {
	return int(C.microphoneStatus())
}

// EnsurePermissions fails unless the process may capture from the microphone.
func EnsurePermissions() error {
	switch CheckMicrophone() {
	case PermissionAuthorized:
		return nil
	case PermissionNotDetermined:
		C.requestMicrophone()
	}
	return ErrMicrophoneDenied
}
