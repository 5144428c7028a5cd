package channel

import (
	"fmt"
	"sync"

	"github.com/bytedance/gg/gmap"
)

// DestinationError means a delivery named a destination with no registered
// channel. It is a client input error, reported back as a rejected request.
type DestinationError struct {
	Key string
}

func (e *DestinationError) Error() string {
	return fmt.Sprintf("no channel registered for destination %q", e.Key)
}

// Registry maps channel keys to independently guarded channel records. The
// key space is established at startup and is read-mostly afterwards; only
// the per-channel interiors (the token cell) mutate.
type Registry struct {
	entries map[string]*entry

	mu sync.RWMutex
}

// entry guards one channel. The mutex serializes concurrent deliveries to
// the same channel for the duration of dispatch plus reply, which also
// prevents duplicate token issuance on a cold channel.
type entry struct {
	ch *Channel

	mu sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry, 8),
	}
}

// Register inserts ch keyed by its identity. Registering the same key again
// replaces the previous channel: last write wins, silently.
func (r *Registry) Register(ch *Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// A fresh entry replaces any previous one wholesale; an in-flight
	// delivery holding the old entry finishes against the old channel.
	r.entries[ch.Key()] = &entry{ch: ch}
}

// Resolve locks the channel registered under key and returns a handle that
// grants exclusive access to it until Release. Resolves against different
// keys proceed independently; resolves against the same key serialize.
func (r *Registry) Resolve(key string) (*Handle, error) {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok {
		return nil, &DestinationError{Key: key}
	}
	e.mu.Lock()
	return &Handle{e: e}, nil
}

// Keys lists the registered channel keys.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return gmap.ToSlice(
		r.entries,
		func(k string, v *entry) string { return k },
	)
}

// Len reports the number of registered channels.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Handle is exclusive access to one channel for the duration of one request.
// It must be released on every path; at most one handle is held at a time,
// never nested, so the lock hierarchy stays flat.
type Handle struct {
	e        *entry
	released bool
}

// Channel returns the guarded channel.
func (h *Handle) Channel() *Channel {
	return h.e.ch
}

// Release unlocks the channel. Safe to call more than once.
func (h *Handle) Release() {
	if h.released {
		return
	}
	h.released = true
	h.e.mu.Unlock()
}
