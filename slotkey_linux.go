//go:build linux

package glcaps

import "golang.org/x/sys/unix"

// threadSlotKey identifies the calling OS thread. The value is stable only
// while the goroutine stays locked to its thread (runtime.LockOSThread),
// which graphics-context callers must do anyway.
func threadSlotKey() uint64 {
	return uint64(unix.Gettid())
}
