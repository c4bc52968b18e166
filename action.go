package mesh

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/armatrix/agent-mesh-go/internal/schema"
)

// ActionSpec describes a registered action type.
type ActionSpec struct {
	// Type selects this handler in an incoming envelope.
	Type string

	// Description is a human-readable summary, surfaced by Describe.
	Description string

	// Authenticated actions require the envelope token to match a token the
	// receiving actor issued for the envelope's source before the handler
	// runs.
	Authenticated bool
}

// ActionFunc is the type-erased handler signature stored in the registry.
type ActionFunc func(ctx context.Context, env *Envelope) error

// actionEntry is the type-erased wrapper stored in the registry.
type actionEntry struct {
	spec    ActionSpec
	schema  map[string]any
	execute ActionFunc
}

// ActionRegistry manages the typed action handlers of a receiving actor.
// It is concurrent-safe.
type ActionRegistry struct {
	mu      sync.RWMutex
	actions map[string]*actionEntry
	order   []string // preserve registration order
}

// NewActionRegistry creates a new empty ActionRegistry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{
		actions: make(map[string]*actionEntry),
	}
}

// RegisterAction registers a typed action handler. The payload type T is
// deserialized from the envelope payload and used to auto-generate a JSON
// Schema descriptor.
func RegisterAction[T any](r *ActionRegistry, spec ActionSpec, fn func(ctx context.Context, source ActorID, input T) error) {
	s := schema.Generate[T]()
	r.register(&actionEntry{
		spec:   spec,
		schema: s,
		execute: func(ctx context.Context, env *Envelope) error {
			var input T
			if len(env.Payload) > 0 {
				if err := json.Unmarshal(env.Payload, &input); err != nil {
					return fmt.Errorf("mesh: action %s: invalid payload: %w", spec.Type, err)
				}
			}
			return fn(ctx, env.SourceID, input)
		},
	})
}

// RegisterRaw registers a handler that receives the raw envelope. This is for
// dynamic action sources that don't use the generic form.
func (r *ActionRegistry) RegisterRaw(spec ActionSpec, fn ActionFunc) {
	r.register(&actionEntry{spec: spec, execute: fn})
}

func (r *ActionRegistry) register(entry *actionEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actions[entry.spec.Type]; !exists {
		r.order = append(r.order, entry.spec.Type)
	}
	r.actions[entry.spec.Type] = entry
}

// get returns the entry for an action type.
func (r *ActionRegistry) get(typ string) (*actionEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.actions[typ]
	return entry, ok
}

// Types returns the registered action types in registration order.
func (r *ActionRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, len(r.order))
	copy(types, r.order)
	return types
}

// ActionDescriptor describes one registered action for introspection.
type ActionDescriptor struct {
	Type          string         `json:"type"`
	Description   string         `json:"description,omitempty"`
	Authenticated bool           `json:"authenticated,omitempty"`
	Schema        map[string]any `json:"schema,omitempty"`
}

// Describe returns descriptors for all registered actions in registration
// order.
func (r *ActionRegistry) Describe() []ActionDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ActionDescriptor, 0, len(r.order))
	for _, typ := range r.order {
		entry := r.actions[typ]
		result = append(result, ActionDescriptor{
			Type:          entry.spec.Type,
			Description:   entry.spec.Description,
			Authenticated: entry.spec.Authenticated,
			Schema:        entry.schema,
		})
	}
	return result
}
