package glcaps

import "sync"

// SlotPolicy selects how a [Registry] scopes the "current" context.
type SlotPolicy int

const (
	// PerThreadSlots keeps one independent slot per calling OS thread: a
	// context made current on thread A is not visible on thread B. Callers
	// are expected to lock their goroutine to its thread
	// (runtime.LockOSThread), as working with a graphics context requires
	// anyway.
	PerThreadSlots SlotPolicy = iota

	// SharedSlot keeps one process-wide slot. A context made current on one
	// thread is visible on every other, documented as merely visible, not
	// a synchronization mechanism.
	SharedSlot
)

// Registry is a process-lifetime holder of "current" context slots. The zero
// state is empty; there is no persisted state across processes.
type Registry struct {
	// mu guards the map structure only. Per-thread slots are semantically
	// independent; the shared policy is documented as unsafe sharing.
	mu    sync.Mutex
	slots map[uint64]*Context
	key   func() uint64
}

// NewRegistry creates a registry with the given slot policy.
func NewRegistry(policy SlotPolicy) *Registry {
	if policy == PerThreadSlots {
		return NewRegistryKeyed(threadSlotKey)
	}
	return NewRegistryKeyed(func() uint64 { return 0 })
}

// NewRegistryKeyed creates a registry whose slot is selected by the given
// key function. This lets tests simulate independent threads without
// spawning them.
func NewRegistryKeyed(key func() uint64) *Registry {
	return &Registry{slots: make(map[uint64]*Context), key: key}
}

// MakeCurrent swaps the calling slot's occupant for ctx and returns the
// previous one (nil if the slot was empty). Passing nil releases the slot
// without installing a new context.
func (r *Registry) MakeCurrent(ctx *Context) *Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.key()
	prev := r.slots[k]
	if ctx == nil {
		delete(r.slots, k)
	} else {
		r.slots[k] = ctx
	}
	return prev
}

// HasCurrent reports whether the calling slot holds a context.
func (r *Registry) HasCurrent() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[r.key()] != nil
}

// Current returns the calling slot's context. Calling it with no context
// current is a programmer error and panics; check [Registry.HasCurrent]
// first on any path where absence is possible.
func (r *Registry) Current() *Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx := r.slots[r.key()]
	if ctx == nil {
		panic("glcaps: no context is current on this thread")
	}
	return ctx
}

// currentContexts is the package-level registry used by [NewContext] and the
// package-level wrappers. Its slot policy is fixed at build time, see
// defaultSlotPolicy.
var currentContexts = NewRegistry(defaultSlotPolicy)

// MakeCurrent swaps the calling thread's current context for ctx in the
// default registry and returns the previous one. Passing nil releases.
func MakeCurrent(ctx *Context) *Context { return currentContexts.MakeCurrent(ctx) }

// HasCurrent reports whether the calling thread has a current context in the
// default registry.
func HasCurrent() bool { return currentContexts.HasCurrent() }

// Current returns the calling thread's current context from the default
// registry, panicking if there is none.
func Current() *Context { return currentContexts.Current() }
