// Package report implements the subagent completion reporter.
//
// The reporter is a lifecycle hook: when a run completes on an actor that
// carries a parent link, it resolves the parent through the directory and
// delivers a token-authenticated subagent_result envelope with the run's
// final output. Reporting is strictly best-effort: one attempt, no retry,
// no acknowledgment. A failed report never fails the child's own run.
// Operators must rely on logs, not return values, to detect lost reports.
package report

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	mesh "github.com/armatrix/agent-mesh-go"
	"github.com/armatrix/agent-mesh-go/hook"
)

// RegistrationName is the hook name the reporter registers under. Attaching
// a second reporter to the same actor replaces the first.
const RegistrationName = "subagent-report"

// Option configures a Reporter.
type Option func(*Reporter)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Reporter) { r.log = log }
}

// Reporter delivers a child actor's final run result to its parent.
type Reporter struct {
	send *mesh.Sender
	log  logrus.FieldLogger
}

// New creates a Reporter that resolves parents through dir.
func New(dir mesh.Directory, opts ...Option) *Reporter {
	r := &Reporter{
		send: mesh.NewSender(dir),
		log:  logrus.StandardLogger(),
	}
	for _, fn := range opts {
		fn(r)
	}
	return r
}

// Registration returns the hook registration to attach to a child actor.
func (r *Reporter) Registration() hook.Registration {
	return hook.Registration{
		Name: RegistrationName,
		Handlers: map[hook.Event]hook.Func{
			hook.RunCompleted: r.onRunCompleted,
		},
		Tags: []string{"subagent"},
	}
}

// onRunCompleted performs the single reporting attempt. It never returns an
// error: every failure on the reporting path is logged and swallowed so it
// cannot reach the hosting actor's run-completion logic.
func (r *Reporter) onRunCompleted(ctx context.Context, input *hook.Input) error {
	if input.State == nil {
		return nil
	}

	log := r.log.WithFields(logrus.Fields{
		"actor": input.ActorID,
		"run":   input.RunID,
	})

	link, ok, err := mesh.LoadParentLink(ctx, input.State)
	if err != nil {
		log.WithError(err).Error("subagent report: unreadable parent link")
		return nil
	}
	if !ok {
		// Root actor: no reporting obligation.
		return nil
	}

	env := &mesh.Envelope{
		Type:     mesh.ActionSubagentResult,
		Token:    link.Token,
		SourceID: mesh.ActorID(input.ActorID),
		Payload:  input.Final,
	}

	if err := r.send.Send(ctx, link.ParentID, env); err != nil {
		log.WithField("parent", string(link.ParentID)).
			WithError(err).
			Error("subagent report lost")
	}
	return nil
}

// SubagentReport is the payload shape the built-in parent-side handler
// decodes a child's report into.
type SubagentReport struct {
	Status string          `json:"status,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
}

// HandleSubagentResult registers the authenticated subagent_result action on
// a parent actor. fn is invoked once per report, keyed by the reporting
// child's identity; reports from different children are independent and
// carry no ordering guarantee.
func HandleSubagentResult(parent *mesh.Actor, fn func(ctx context.Context, child mesh.ActorID, rep SubagentReport) error) {
	mesh.RegisterAction(parent.Actions(), mesh.ActionSpec{
		Type:          mesh.ActionSubagentResult,
		Description:   "Final run result reported by a child actor.",
		Authenticated: true,
	}, fn)
}
