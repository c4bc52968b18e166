// Package directory provides actor directory implementations.
//
// A directory maps a logical actor name to a live, addressable instance with
// get-or-create semantics: resolving a name that has no instance yet creates
// one through the configured factory.
package directory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	mesh "github.com/armatrix/agent-mesh-go"
)

// Factory builds a new actor instance for a name being resolved for the
// first time.
type Factory func(id mesh.ActorID) (*mesh.Actor, error)

// Memory is an in-process directory holding live actor instances.
// It is concurrent-safe.
type Memory struct {
	mu      sync.RWMutex
	actors  map[mesh.ActorID]*mesh.Actor
	factory Factory
}

var _ mesh.Directory = (*Memory)(nil)

// NewMemory creates a directory. factory may be nil, in which case Resolve
// only finds actors added via Register.
func NewMemory(factory Factory) *Memory {
	return &Memory{
		actors:  make(map[mesh.ActorID]*mesh.Actor),
		factory: factory,
	}
}

// Register adds an existing actor instance under its own identity,
// replacing any prior instance with that name.
func (d *Memory) Register(a *mesh.Actor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actors[a.ID()] = a
}

// Resolve returns the live instance for id, creating one through the
// factory on first resolution.
func (d *Memory) Resolve(_ context.Context, id mesh.ActorID) (mesh.Handle, error) {
	d.mu.RLock()
	a, ok := d.actors[id]
	d.mu.RUnlock()
	if ok {
		return a, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Re-check under the write lock: another goroutine may have created it.
	if a, ok := d.actors[id]; ok {
		return a, nil
	}
	if d.factory == nil {
		return nil, fmt.Errorf("%w: %s", mesh.ErrActorNotFound, id)
	}
	a, err := d.factory(id)
	if err != nil {
		return nil, fmt.Errorf("directory: create %s: %w", id, err)
	}
	d.actors[id] = a
	return a, nil
}

// Deregister removes the instance for id, if any.
func (d *Memory) Deregister(id mesh.ActorID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.actors, id)
}

// Match returns the identities of registered actors whose name matches the
// doublestar glob pattern, sorted. It never creates instances.
func (d *Memory) Match(pattern string) ([]mesh.ActorID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []mesh.ActorID
	for id := range d.actors {
		ok, err := doublestar.Match(pattern, string(id))
		if err != nil {
			return nil, fmt.Errorf("directory: bad pattern %q: %w", pattern, err)
		}
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Len returns the number of live instances.
func (d *Memory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.actors)
}
