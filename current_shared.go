//go:build glcaps_sharedcurrent

package glcaps

// Single shared current-context slot: a context made current on one thread
// is visible on all others. Selected by the glcaps_sharedcurrent build tag.
const defaultSlotPolicy = SharedSlot
