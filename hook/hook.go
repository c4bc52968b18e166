// Package hook defines public types for the actor lifecycle hook system.
//
// Hooks let users attach named handler sets to an actor instance. The
// execution engine fires an [Event] at defined lifecycle points (run start,
// run completion, action receipt) and every registration bound to that event
// runs in registration order. A [Registration] binds a name to a mapping of
// events to [Func] callbacks plus an optional set of tags.
package hook

import (
	"context"
	"encoding/json"
)

// Event identifies when a hook fires.
type Event string

const (
	RunStarted     Event = "RunStarted"
	RunCompleted   Event = "RunCompleted"
	ActionReceived Event = "ActionReceived"
	ActionFailed   Event = "ActionFailed"
	ChildSpawned   Event = "ChildSpawned"
)

// StateReader gives handlers read-only access to the hosting actor's durable
// key-value state.
type StateReader interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// Input is passed to hook functions. It is a read-only view of the hosting
// actor's execution context plus event-specific data.
type Input struct {
	ActorID string
	RunID   string
	Event   Event
	State   StateReader // nil when the actor has no state store

	// RunCompleted
	Final json.RawMessage // the run's final result

	// ActionReceived / ActionFailed
	ActionType string
	SourceID   string
	Err        error // ActionFailed

	// ChildSpawned
	ChildID string
}

// Func is the signature for hook callbacks. A returned error is logged by
// the pipeline and never propagated to the actor's own execution path or to
// sibling handlers.
type Func func(ctx context.Context, input *Input) error

// Registration attaches a named handler set to an actor instance.
// Re-registering under the same name replaces the prior registration.
type Registration struct {
	Name     string         // Unique per actor instance.
	Handlers map[Event]Func // Event to callback.
	Tags     []string       // Free-form labels for introspection.
}
