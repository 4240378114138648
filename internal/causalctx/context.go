// Package causalctx provides the shared mutable context consulted and
// mutated by context-aware causal functions.
//
// A Context is shared, not owned: multiple propagation chains may hold a
// handle to the same context concurrently. Access goes through a
// reader/writer lock with strictly scoped acquisition - the lock is taken
// and released inside each accessor, never held across a bind boundary,
// so evaluation of one node never blocks siblings that do not touch the
// context.
package causalctx

import (
	"fmt"
	"sync"
)

// Context is a lockable arena of contextoids: dense uint64 ids mapped to
// opaque payloads. The engine never interprets payloads; causal functions
// and their collaborators do.
type Context struct {
	id   uint64
	name string

	mu    sync.RWMutex
	slots map[uint64]any
}

// New creates an empty context with the given id and name.
func New(id uint64, name string) *Context {
	return &Context{
		id:    id,
		name:  name,
		slots: make(map[uint64]any),
	}
}

// ID returns the context's id, as referenced by ContextualLink values.
func (c *Context) ID() uint64 {
	return c.id
}

// Name returns the context's human-readable name.
func (c *Context) Name() string {
	return c.name
}

// Read returns the contextoid stored at id. Any number of readers may
// proceed concurrently.
func (c *Context) Read(id uint64) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.slots[id]
	return v, ok
}

// Write stores a contextoid at id, replacing any previous value.
// Writers exclude all readers for the duration of the store.
func (c *Context) Write(id uint64, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[id] = v
}

// Update applies f to the contextoid at id under the write lock and
// stores the result. f receives the current value (nil if absent) and
// runs while the lock is held; it must not call back into the context.
func (c *Context) Update(id uint64, f func(any) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[id] = f(c.slots[id])
}

// Delete removes the contextoid at id.
func (c *Context) Delete(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slots, id)
}

// Len returns the number of stored contextoids.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.slots)
}

// Registry maps context ids to contexts so that a ContextualLink
// (context id, contextoid id) pair is resolvable when a model spans more
// than one context.
type Registry struct {
	mu       sync.RWMutex
	contexts map[uint64]*Context
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{contexts: make(map[uint64]*Context)}
}

// Register adds a context. Registering a duplicate id is an error.
func (r *Registry) Register(c *Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.contexts[c.ID()]; exists {
		return fmt.Errorf("context %d already registered", c.ID())
	}
	r.contexts[c.ID()] = c
	return nil
}

// Get returns the context with the given id.
func (r *Registry) Get(id uint64) (*Context, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contexts[id]
	return c, ok
}

// Resolve performs the lazy fetch a ContextualLink describes: it looks up
// the context by id, then the contextoid within it.
func (r *Registry) Resolve(contextID, contextoidID uint64) (any, error) {
	c, ok := r.Get(contextID)
	if !ok {
		return nil, fmt.Errorf("context %d not registered", contextID)
	}
	v, ok := c.Read(contextoidID)
	if !ok {
		return nil, fmt.Errorf("contextoid %d not found in context %d", contextoidID, contextID)
	}
	return v, nil
}
