package shortname

import (
	"reflect"
	"sync"
)

// Registry maps concrete types to short names derived at runtime.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	names map[reflect.Type]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[reflect.Type]string)}
}

// Install adds every type n covers to r: T and *T for a record, each variant
// and its pointer for a union. Reinstalling a type is harmless since its short
// name depends only on its name.
func Install[T any](r *Registry, n *Namer[T]) {
	names := n.names()

	r.mu.Lock()
	defer r.mu.Unlock()
	for t, name := range names {
		r.names[t] = name
	}
}

// Of returns the short name registered for v's dynamic type.
func (r *Registry) Of(v any) (string, bool) {
	t := reflect.TypeOf(v)
	if t == nil {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.names[t]
	return name, ok
}

// Len returns the number of registered types, counting T and *T separately.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Reset removes every registration.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = make(map[reflect.Type]string)
}
