package server

import (
	"sort"
	"sync"

	"shp2svg/internal/geom"
)

// Registry holds loaded collections in memory, keyed by slug.
type Registry struct {
	mu   sync.RWMutex
	cols map[string]*geom.Collection
}

func NewRegistry() *Registry {
	return &Registry{cols: make(map[string]*geom.Collection)}
}

// Add stores c under its slug, replacing any collection with the same slug.
func (r *Registry) Add(c *geom.Collection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cols[c.Slug] = c
}

// Create stores c unless its slug is taken and reports whether it did.
func (r *Registry) Create(c *geom.Collection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cols[c.Slug]; ok {
		return false
	}
	r.cols[c.Slug] = c
	return true
}

func (r *Registry) Get(slug string) (*geom.Collection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cols[slug]
	return c, ok
}

// List returns all collections ordered by slug.
func (r *Registry) List() []*geom.Collection {
	r.mu.RLock()
	out := make([]*geom.Collection, 0, len(r.cols))
	for _, c := range r.cols {
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
