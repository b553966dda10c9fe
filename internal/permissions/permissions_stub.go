//go:build !darwin

package permissions

// EnsurePermissions is a no-op on non-macOS platforms: microphone access is
// governed by device file permissions, which the audio backend reports itself.
func EnsurePermissions() error {
	return nil
}
