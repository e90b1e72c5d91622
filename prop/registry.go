package prop

import "sync"

// Registry maps property names to stable small integer ids.
//
// Ids are assigned first-seen and are scoped to one Graph instance: the
// coordinator owns the registry and hands a reference to every shard at
// construction time. The registry lives and dies with its Graph; it is
// never a process-wide singleton.
type Registry struct {
	mu    sync.RWMutex
	ids   map[string]int
	names []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]int)}
}

// ID resolves name to its id, registering it on first sight.
func (r *Registry) ID(name string) int {
	r.mu.RLock()
	id, ok := r.ids[name]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[name]; ok {
		return id
	}
	id = len(r.names)
	r.ids[name] = id
	r.names = append(r.names, name)
	return id
}

// Lookup resolves name without registering it.
func (r *Registry) Lookup(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.ids[name]
	return id, ok
}

// Name returns the name registered for id.
func (r *Registry) Name(id int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 0 || id >= len(r.names) {
		return "", false
	}
	return r.names[id], true
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
