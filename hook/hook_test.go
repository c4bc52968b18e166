package hook_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/armatrix/agent-mesh-go/hook"
)

func TestEventConstants(t *testing.T) {
	events := []hook.Event{
		hook.RunStarted,
		hook.RunCompleted,
		hook.ActionReceived,
		hook.ActionFailed,
		hook.ChildSpawned,
	}
	seen := make(map[hook.Event]bool, len(events))
	for _, e := range events {
		assert.NotEmpty(t, string(e), "event constant must not be empty")
		assert.False(t, seen[e], "duplicate event constant: %s", e)
		seen[e] = true
	}
}

func TestInputFields(t *testing.T) {
	input := &hook.Input{
		ActorID: "child-1",
		RunID:   "run-1",
		Event:   hook.RunCompleted,
		Final:   json.RawMessage(`{"status":"ok"}`),
	}
	assert.Equal(t, "child-1", input.ActorID)
	assert.Equal(t, hook.RunCompleted, input.Event)
	assert.JSONEq(t, `{"status":"ok"}`, string(input.Final))
	assert.Nil(t, input.State, "state is optional")
}

func TestFuncSignature(t *testing.T) {
	var fn hook.Func = func(ctx context.Context, input *hook.Input) error {
		return nil
	}
	assert.NoError(t, fn(context.Background(), &hook.Input{}))
}

func TestRegistrationShape(t *testing.T) {
	reg := hook.Registration{
		Name: "subagent-report",
		Handlers: map[hook.Event]hook.Func{
			hook.RunCompleted: func(context.Context, *hook.Input) error { return nil },
		},
		Tags: []string{"subagent"},
	}
	assert.Equal(t, "subagent-report", reg.Name)
	assert.Contains(t, reg.Handlers, hook.RunCompleted)
	assert.NotContains(t, reg.Handlers, hook.RunStarted)
}
