// Package backend handles federated backend registration: capability and
// dialect construction, profile/dialect consistency validation, endpoint
// identity resolution, and connection factory setup.
package backend

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/guileen/fedsql/capability"
	"github.com/guileen/fedsql/dialect"
	"github.com/guileen/fedsql/logger"
)

// Config declares one federated backend. Capabilities are static
// enumerations; there is no runtime discovery.
type Config struct {
	Name         string          `json:"name"`
	URL          string          `json:"url"`
	Dialect      string          `json:"dialect"`
	Capabilities capability.Spec `json:"capabilities"`

	// Factory overrides the default connection factory. Hosts inject
	// their own factories here; tests use it to avoid real pools.
	Factory ConnFactory `json:"-"`
}

// Backend is a registered federation target. All fields are immutable
// after registration.
type Backend struct {
	ID       uuid.UUID
	Name     string
	Profile  *capability.Profile
	Dialect  *dialect.Dialect
	Identity Identity
	Factory  ConnFactory
}

// Close releases the backend's connection factory
func (b *Backend) Close() {
	if b.Factory != nil {
		b.Factory.Close()
	}
}

// Registry holds registered backends keyed by name. Registrations of
// distinct backends do not interact; lookups are concurrent-safe.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]*Backend
}

// NewRegistry creates an empty backend registry
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]*Backend)}
}

// Register validates the configuration, resolves the backend identity and
// constructs the capability profile, dialect and connection factory. All
// validation failures are configuration errors fatal to this backend.
func (r *Registry) Register(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Name == "" {
		return nil, &ConfigError{Op: "register", Err: fmt.Errorf("backend name is required")}
	}
	if cfg.URL == "" {
		return nil, &ConfigError{Op: "register", Err: fmt.Errorf("backend %q: connection URL is required", cfg.Name)}
	}

	d, err := dialect.ByName(cfg.Dialect)
	if err != nil {
		return nil, &ConfigError{Op: "register", Err: err}
	}
	// Profile and dialect must stay consistent so translation never has
	// to re-check mappings
	if err := d.ValidateSpec(cfg.Capabilities); err != nil {
		return nil, &ConfigError{Op: "register", Err: err}
	}

	identity, err := ResolveIdentity(ctx, cfg.URL, d.DefaultPort())
	if err != nil {
		return nil, err
	}

	factory := cfg.Factory
	if factory == nil && d.Name() == "postgres" {
		factory, err = NewPoolFactory(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
	}

	b := &Backend{
		ID:       uuid.New(),
		Name:     cfg.Name,
		Profile:  capability.New(cfg.Capabilities),
		Dialect:  d,
		Identity: identity,
		Factory:  factory,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.backends[cfg.Name]; exists {
		if factory != nil && cfg.Factory == nil {
			factory.Close()
		}
		return nil, &ConfigError{Op: "register", Err: fmt.Errorf("%w: %q", ErrDuplicateName, cfg.Name)}
	}
	r.backends[cfg.Name] = b

	logger.Info("Backend registered",
		"backend_id", b.ID.String(),
		logger.Backend(b.Name),
		logger.Dialect(d.Name()),
		"endpoint", identity.String())
	return b, nil
}

// Get returns the named backend
func (r *Registry) Get(name string) (*Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// List returns all registered backends ordered by name
func (r *Registry) List() []*Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Backend, 0, len(r.backends))
	for _, b := range r.backends {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SameEndpoint reports whether two registered backends resolve to the
// same physical endpoint
func (r *Registry) SameEndpoint(a, b string) (bool, error) {
	ba, ok := r.Get(a)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNotFound, a)
	}
	bb, ok := r.Get(b)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNotFound, b)
	}
	return ba.Identity.FastEquals(bb.Identity), nil
}

// Close releases every backend's connection factory
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.backends {
		b.Close()
	}
}
