package recording

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrUnknownBackend is returned by NewBackend for unregistered names.
var ErrUnknownBackend = errors.New("recording: unknown backend")

// BackendFactory creates a fresh backend for one playback target.
type BackendFactory func() Backend

// registry maps backend names to factories.
type registry struct {
	mu        sync.RWMutex
	factories map[string]BackendFactory
}

func newRegistry() *registry {
	return &registry{factories: make(map[string]BackendFactory)}
}

func (r *registry) register(name string, f BackendFactory) {
	if f == nil {
		panic("recording: nil factory for backend " + name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.factories[name]; dup {
		panic("recording: backend " + name + " registered twice")
	}
	r.factories[name] = f
}

func (r *registry) create(name string) (Backend, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownBackend, name)
	}
	return f(), nil
}

func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

var backends = newRegistry()

// Register makes a backend available by name. Backend packages call it from
// init, the way database/sql drivers do:
//
//	func init() {
//	    recording.Register("raster", func() recording.Backend { return NewBackend() })
//	}
//
// Register panics on a nil factory or a duplicate name.
func Register(name string, factory BackendFactory) {
	backends.register(name, factory)
}

// NewBackend returns a new instance of the named backend. The error wraps
// ErrUnknownBackend when no package registered the name.
func NewBackend(name string) (Backend, error) {
	return backends.create(name)
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	return backends.names()
}
