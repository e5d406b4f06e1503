package catalog

import (
	"context"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry provides catalog lookups with caching and thread safety.
// It wraps a Repository and adds an in-memory cache for fast lookups.
//
// Entries are immutable once published, so the cache never goes stale
// for existing entries; RefreshCache picks up newly published types.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cache   map[string]*Entry // Cached entries by type ID
	cacheMu sync.RWMutex      // Protects cache
	logger  Logger
}

// NewRegistry creates a new catalog registry.
// The repository is used for persistence; the registry adds caching.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		cache:  make(map[string]*Entry),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all entries from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	entries, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog entries: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*Entry, len(entries))
	for i := range entries {
		e := entries[i]
		r.cache[e.ID] = e.DeepCopy()
	}

	r.logger.Info("catalog cache refreshed", "count", len(entries))
	return nil
}

// GetEntry retrieves a component type entry by ID.
// Returns ErrEntryNotFound if the entry does not exist.
// The returned entry is a deep copy; callers can safely modify it.
func (r *Registry) GetEntry(ctx context.Context, id string) (*Entry, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		return cached.DeepCopy(), nil
	}

	// Fall back to repository (might be a new entry not yet cached)
	entry, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[id] = entry.DeepCopy()
	r.cacheMu.Unlock()

	return entry, nil
}

// ListEntries retrieves all published entries.
// The returned entries are deep copies; callers can safely modify them.
func (r *Registry) ListEntries(ctx context.Context) ([]Entry, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		entries := make([]Entry, 0, len(r.cache))
		for _, e := range r.cache {
			entries = append(entries, *e.DeepCopy())
		}
		return entries, nil
	}

	return r.repo.List(ctx)
}
