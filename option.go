package mesh

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/armatrix/agent-mesh-go/hook"
)

// ActorOption configures an Actor via the functional options pattern.
type ActorOption func(*actorOptions)

// actorOptions holds all configurable fields set via ActorOption functions.
type actorOptions struct {
	state       Store
	log         logrus.FieldLogger
	hooks       []hook.Registration
	hookTimeout time.Duration
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (o *actorOptions) applyDefaults() {
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}
}

// resolveOptions applies all option functions and fills defaults.
func resolveOptions(opts []ActorOption) actorOptions {
	var o actorOptions
	for _, fn := range opts {
		fn(&o)
	}
	o.applyDefaults()
	return o
}

// WithState sets the actor's durable key-value store.
func WithState(s Store) ActorOption {
	return func(o *actorOptions) { o.state = s }
}

// WithLogger sets the logger used by the actor and its hook pipeline.
func WithLogger(log logrus.FieldLogger) ActorOption {
	return func(o *actorOptions) { o.log = log }
}

// WithHooks attaches hook registrations at construction time.
func WithHooks(regs ...hook.Registration) ActorOption {
	return func(o *actorOptions) { o.hooks = append(o.hooks, regs...) }
}

// WithHookTimeout bounds the dispatch of a single lifecycle event across all
// handlers. Zero means the 30s default.
func WithHookTimeout(d time.Duration) ActorOption {
	return func(o *actorOptions) { o.hookTimeout = d }
}
