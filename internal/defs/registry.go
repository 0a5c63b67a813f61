package defs

import "sort"

// Registry maps kind ids to values (shared kind attributes or factory
// functions), one registry per category. Registration is explicit and
// happens at process start; lookup of an unknown id returns the zero value
// and false rather than an error, which callers treat as a no-op.
type Registry[T any] struct {
	entries map[string]T
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]T)}
}

// Register adds or replaces the entry for id.
func (r *Registry[T]) Register(id string, v T) {
	r.entries[id] = v
}

// Lookup returns the entry for id, or the zero value and false.
func (r *Registry[T]) Lookup(id string) (T, bool) {
	v, ok := r.entries[id]
	return v, ok
}

// Has reports whether id is registered.
func (r *Registry[T]) Has(id string) bool {
	_, ok := r.entries[id]
	return ok
}

// IDs returns all registered ids, sorted.
func (r *Registry[T]) IDs() []string {
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	return len(r.entries)
}
