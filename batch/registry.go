package batch

import "sync"

type registryEntry[F any] struct {
	id    uint64
	owner *Module
	fn    F
}

// registry keeps callbacks in registration order.
type registry[F any] struct {
	mu      sync.Mutex
	nextID  uint64
	entries []registryEntry[F]
}

func (r *registry[F]) add(owner *Module, fn F) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, registryEntry[F]{id: id, owner: owner, fn: fn})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, e := range r.entries {
			if e.id == id {
				r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
				return
			}
		}
	}
}

func (r *registry[F]) removeOwner(owner *Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]registryEntry[F], 0, len(r.entries))
	for _, e := range r.entries {
		if e.owner != owner {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

func (r *registry[F]) snapshot() []F {
	r.mu.Lock()
	defer r.mu.Unlock()

	fns := make([]F, len(r.entries))
	for i, e := range r.entries {
		fns[i] = e.fn
	}
	return fns
}

func (r *registry[F]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
