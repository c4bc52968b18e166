package mesh

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/armatrix/agent-mesh-go/hook"
	"github.com/armatrix/agent-mesh-go/internal/hookrunner"
)

// Actor is a single addressable instance: an identity, a durable key-value
// store, a set of typed action handlers, and a lifecycle hook pipeline.
//
// An actor executes one logical operation at a time with respect to its own
// state: Deliver, CompleteRun, and token issuance are serialized. Concurrency
// exists across actors, not within one.
type Actor struct {
	id      ActorID
	actions *ActionRegistry
	hooks   *hookrunner.Pipeline
	log     logrus.FieldLogger

	mu    sync.Mutex // serializes the actor's logical operations
	state Store
}

var _ Handle = (*Actor)(nil)

// NewActor creates an actor with the given identity.
func NewActor(id ActorID, opts ...ActorOption) *Actor {
	resolved := resolveOptions(opts)

	a := &Actor{
		id:      id,
		actions: NewActionRegistry(),
		hooks:   hookrunner.New(resolved.log.WithField("actor", string(id)), resolved.hookTimeout),
		log:     resolved.log.WithField("actor", string(id)),
		state:   resolved.state,
	}

	for _, reg := range resolved.hooks {
		a.hooks.Register(reg)
	}
	return a
}

// ID returns the actor's identity.
func (a *Actor) ID() ActorID {
	return a.id
}

// State returns the actor's durable store, or nil if none is configured.
func (a *Actor) State() Store {
	return a.state
}

// Actions returns the actor's action registry for registering handlers.
func (a *Actor) Actions() *ActionRegistry {
	return a.actions
}

// RegisterHook attaches a hook registration to this actor. Re-registering
// under the same name replaces the prior registration (idempotent attach).
func (a *Actor) RegisterHook(reg hook.Registration) {
	a.hooks.Register(reg)
}

// HookNames returns the names of attached hook registrations in order.
func (a *Actor) HookNames() []string {
	return a.hooks.Names()
}

// Deliver is the actor's action entry point. It decodes the envelope,
// validates the token for authenticated actions, and runs the matching
// handler as one unit of work.
//
// An unknown action type or a mismatched token is rejected without side
// effects: no handler runs and no hooks fire.
func (a *Actor) Deliver(ctx context.Context, data []byte) error {
	env, err := DecodeEnvelope(data)
	if err != nil {
		return err
	}

	entry, ok := a.actions.get(env.Type)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, env.Type)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if entry.spec.Authenticated {
		if err := a.authenticate(ctx, env); err != nil {
			return err
		}
	}

	if err := entry.execute(ctx, env); err != nil {
		a.hooks.Fire(ctx, hook.ActionFailed, &hook.Input{
			ActorID:    string(a.id),
			Event:      hook.ActionFailed,
			State:      a.stateReader(),
			ActionType: env.Type,
			SourceID:   string(env.SourceID),
			Err:        err,
		})
		return fmt.Errorf("mesh: action %s from %s: %w", env.Type, env.SourceID, err)
	}

	a.hooks.Fire(ctx, hook.ActionReceived, &hook.Input{
		ActorID:    string(a.id),
		Event:      hook.ActionReceived,
		State:      a.stateReader(),
		ActionType: env.Type,
		SourceID:   string(env.SourceID),
	})
	return nil
}

// authenticate checks the envelope token against the token this actor issued
// for the envelope's source. Must be called with mu held.
func (a *Actor) authenticate(ctx context.Context, env *Envelope) error {
	tokens, err := a.childTokens(ctx)
	if err != nil {
		return err
	}
	issued, ok := tokens[env.SourceID]
	if !ok || !issued.Equal(env.Token) {
		return fmt.Errorf("%w: source %s", ErrTokenRejected, env.SourceID)
	}
	return nil
}

// IssueChildToken mints a capability token for the named child and persists
// it under the reserved children key. The token authorizes that child's
// completion reports to this actor.
func (a *Actor) IssueChildToken(ctx context.Context, child ActorID) (Token, error) {
	if a.state == nil {
		return Token{}, ErrNoState
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	tokens, err := a.childTokens(ctx)
	if err != nil {
		return Token{}, err
	}

	token := NewToken()
	tokens[child] = token

	data, err := json.Marshal(tokens)
	if err != nil {
		return Token{}, fmt.Errorf("mesh: marshal child tokens: %w", err)
	}
	if err := a.state.Put(ctx, ChildrenStateKey, data); err != nil {
		return Token{}, fmt.Errorf("mesh: persist child tokens: %w", err)
	}
	return token, nil
}

// childTokens loads the issued-token map from state. A missing store or key
// yields an empty map.
func (a *Actor) childTokens(ctx context.Context) (map[ActorID]Token, error) {
	tokens := make(map[ActorID]Token)
	if a.state == nil {
		return tokens, nil
	}

	data, found, err := a.state.Get(ctx, ChildrenStateKey)
	if err != nil {
		return nil, fmt.Errorf("mesh: read child tokens: %w", err)
	}
	if !found {
		return tokens, nil
	}
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("mesh: parse child tokens: %w", err)
	}
	return tokens, nil
}

// BeginRun marks the start of a run and fires RunStarted. It returns the run
// identifier the engine should carry through to CompleteRun.
func (a *Actor) BeginRun(ctx context.Context) string {
	runID := generateID(PrefixRun)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.hooks.Fire(ctx, hook.RunStarted, &hook.Input{
		ActorID: string(a.id),
		RunID:   runID,
		Event:   hook.RunStarted,
		State:   a.stateReader(),
	})
	return runID
}

// CompleteRun is the engine's run-completion firing point. It fires
// RunCompleted exactly once with the run's final result and returns only
// after all handlers have finished, so the run's lifecycle is not considered
// closed until reporting hooks have had their chance.
//
// Hook failures never surface here: a lost report cannot fail the run.
func (a *Actor) CompleteRun(ctx context.Context, result RunResult) {
	runID := result.RunID
	if runID == "" {
		runID = generateID(PrefixRun)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.hooks.Fire(ctx, hook.RunCompleted, &hook.Input{
		ActorID: string(a.id),
		RunID:   runID,
		Event:   hook.RunCompleted,
		State:   a.stateReader(),
		Final:   result.Final,
	})

	entry := a.log.WithFields(logrus.Fields{
		"run":           runID,
		"input_tokens":  result.Usage.InputTokens,
		"output_tokens": result.Usage.OutputTokens,
		"cost":          result.Usage.Cost.String(),
	})
	if result.Err != nil {
		entry.WithError(result.Err).Warn("run completed with error")
		return
	}
	entry.Info("run completed")
}

// stateReader exposes the store to hooks, preserving nil-ness across the
// interface boundary.
func (a *Actor) stateReader() hook.StateReader {
	if a.state == nil {
		return nil
	}
	return a.state
}
