// Package hookrunner provides the internal pipeline that dispatches
// lifecycle events to registered hooks.
package hookrunner

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	pubhook "github.com/armatrix/agent-mesh-go/hook"
)

const defaultTimeout = 30 * time.Second

// Pipeline holds an ordered set of hook registrations for one actor
// instance and dispatches events to them.
type Pipeline struct {
	mu      sync.RWMutex
	regs    []pubhook.Registration
	index   map[string]int // name -> position in regs
	log     logrus.FieldLogger
	timeout time.Duration
}

// New creates an empty Pipeline. A zero timeout means the 30s default.
func New(log logrus.FieldLogger, timeout time.Duration) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Pipeline{
		index:   make(map[string]int),
		log:     log,
		timeout: timeout,
	}
}

// Register attaches a registration. When the name is already registered the
// prior registration is replaced in place, keeping its original order slot.
func (p *Pipeline) Register(reg pubhook.Registration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i, ok := p.index[reg.Name]; ok {
		p.regs[i] = reg
		return
	}
	p.index[reg.Name] = len(p.regs)
	p.regs = append(p.regs, reg)
}

// Names returns the registered names in registration order.
func (p *Pipeline) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.regs))
	for i, r := range p.regs {
		names[i] = r.Name
	}
	return names
}

// Fire invokes, in registration order, every handler bound to event. Each
// invocation is isolated: an error or panic is logged and never propagated
// to sibling handlers or to the caller. Fire returns only after all handlers
// have completed, so callers can rely on "report sent before run closed"
// style ordering.
func (p *Pipeline) Fire(ctx context.Context, event pubhook.Event, input *pubhook.Input) {
	p.mu.RLock()
	regs := make([]pubhook.Registration, len(p.regs))
	copy(regs, p.regs)
	p.mu.RUnlock()

	tctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	for _, reg := range regs {
		fn, ok := reg.Handlers[event]
		if !ok || fn == nil {
			continue
		}
		p.invoke(tctx, reg.Name, event, fn, input)
	}
}

// invoke runs one handler with panic recovery.
func (p *Pipeline) invoke(ctx context.Context, name string, event pubhook.Event, fn pubhook.Func, input *pubhook.Input) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithFields(logrus.Fields{
				"actor": input.ActorID,
				"run":   input.RunID,
				"event": event,
				"hook":  name,
				"panic": r,
			}).Error("hook handler panicked")
		}
	}()

	if err := fn(ctx, input); err != nil {
		p.log.WithFields(logrus.Fields{
			"actor": input.ActorID,
			"run":   input.RunID,
			"event": event,
			"hook":  name,
		}).WithError(err).Error("hook handler failed")
	}
}
