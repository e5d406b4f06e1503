package connection

import (
	"context"
	"sync"
	"time"
)

// MemoryTracker is an in-process Tracker for single-node deployments
// and tests. Bindings do not survive a restart.
type MemoryTracker struct {
	mu       sync.RWMutex
	bindings map[string]Binding
	ttl      time.Duration // 0 = bindings never expire
}

// NewMemoryTracker creates an in-memory tracker.
// A zero ttl keeps bindings until explicitly overwritten.
func NewMemoryTracker(ttl time.Duration) *MemoryTracker {
	return &MemoryTracker{
		bindings: make(map[string]Binding),
		ttl:      ttl,
	}
}

// LastBinding returns the most recent binding for a device.
func (t *MemoryTracker) LastBinding(_ context.Context, deviceID string) (*Binding, error) {
	t.mu.RLock()
	binding, ok := t.bindings[deviceID]
	t.mu.RUnlock()

	if !ok {
		return nil, ErrNoBinding
	}
	if t.ttl > 0 && time.Since(binding.LastConnectedAt) > t.ttl {
		return nil, ErrNoBinding
	}

	b := binding
	return &b, nil
}

// Touch records a fresh connection for a device.
func (t *MemoryTracker) Touch(_ context.Context, deviceID string, transport Transport) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.bindings[deviceID] = Binding{
		DeviceID:        deviceID,
		Transport:       transport,
		LastConnectedAt: time.Now().UTC(),
	}
	return nil
}
