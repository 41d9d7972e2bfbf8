//go:build !glcaps_sharedcurrent

package glcaps

// The default registry keeps independent per-thread current-context slots.
// Build with the glcaps_sharedcurrent tag to select the single shared slot
// instead.
const defaultSlotPolicy = PerThreadSlots
