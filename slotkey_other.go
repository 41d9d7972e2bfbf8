//go:build !linux

package glcaps

// threadSlotKey has no portable thread identity to rely on here, so
// per-thread registries degrade to the single shared slot on non-Linux
// platforms. The slot stays visible across threads, same as [SharedSlot].
func threadSlotKey() uint64 {
	return 0
}
