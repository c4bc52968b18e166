package mesh

import (
	"context"
	"fmt"
)

// ActorID is an opaque actor name, globally unique within a deployment. It is
// both the routing key for a [Directory] and the durable identity for
// persisted state. Immutable once assigned.
type ActorID string

// Handle is an addressable actor instance as seen by a sender. Deliver is
// the action entry point: it accepts one serialized [Envelope] and processes
// it as a discrete unit of work.
type Handle interface {
	ID() ActorID
	Deliver(ctx context.Context, data []byte) error
}

// Directory resolves a logical actor name to a live, addressable instance.
// Implementations may create the instance on first resolution (get-or-create
// semantics). This package consumes the interface; the directory sub-package
// provides an in-memory implementation.
type Directory interface {
	Resolve(ctx context.Context, id ActorID) (Handle, error)
}

// Sender implements the sending half of the action dispatch protocol: it
// resolves the target identity, serializes the envelope, and issues a single
// point-to-point delivery call. There is no retry policy at this layer.
type Sender struct {
	dir Directory
}

// NewSender creates a Sender that resolves targets through dir.
func NewSender(dir Directory) *Sender {
	return &Sender{dir: dir}
}

// Send delivers one envelope to the named target. The call completes or
// fails before returning; no acknowledgment beyond the delivery call itself
// is awaited.
func (s *Sender) Send(ctx context.Context, target ActorID, env *Envelope) error {
	handle, err := s.dir.Resolve(ctx, target)
	if err != nil {
		return fmt.Errorf("mesh: resolve %s: %w", target, err)
	}

	data, err := env.Encode()
	if err != nil {
		return err
	}

	if err := handle.Deliver(ctx, data); err != nil {
		return fmt.Errorf("mesh: deliver %s to %s: %w", env.Type, target, err)
	}
	return nil
}
