package mesh

import "context"

// StateGetter is the read-only half of [Store]. The reporting path only ever
// reads state, so it accepts this narrower interface.
type StateGetter interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// Store is the durable string-keyed state the execution engine exposes per
// actor. Implementations live in the state sub-package.
type Store interface {
	StateGetter

	// Put stores value under key, replacing any existing value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
