package mesh

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/armatrix/agent-mesh-go/hook"
)

// StateCarrier is implemented by handles whose durable state is locally
// reachable, such as actors resolved from an in-process directory. SpawnChild
// needs it to write the child's parent link.
type StateCarrier interface {
	State() Store
}

// SpawnChild resolves (and, with get-or-create directories, creates) the
// named child actor, issues it a capability token from parent, and writes
// the child's parent link. The link is written exactly once: a child that
// already carries one keeps it, and no new token is issued.
//
// This is the only place the reserved parent key is ever written.
func SpawnChild(ctx context.Context, dir Directory, parent *Actor, child ActorID) (Handle, error) {
	handle, err := dir.Resolve(ctx, child)
	if err != nil {
		return nil, fmt.Errorf("mesh: spawn %s: %w", child, err)
	}

	carrier, ok := handle.(StateCarrier)
	if !ok || carrier.State() == nil {
		return nil, fmt.Errorf("mesh: spawn %s: %w", child, ErrNoState)
	}
	childState := carrier.State()

	if _, linked, err := LoadParentLink(ctx, childState); err != nil {
		return nil, fmt.Errorf("mesh: spawn %s: %w", child, err)
	} else if linked {
		return handle, nil
	}

	token, err := parent.IssueChildToken(ctx, child)
	if err != nil {
		return nil, fmt.Errorf("mesh: spawn %s: %w", child, err)
	}

	link := ParentLink{ParentID: parent.ID(), Token: token}
	data, err := json.Marshal(link)
	if err != nil {
		return nil, fmt.Errorf("mesh: spawn %s: marshal parent link: %w", child, err)
	}
	if err := childState.Put(ctx, ParentStateKey, data); err != nil {
		return nil, fmt.Errorf("mesh: spawn %s: write parent link: %w", child, err)
	}

	parent.hooks.Fire(ctx, hook.ChildSpawned, &hook.Input{
		ActorID: string(parent.ID()),
		Event:   hook.ChildSpawned,
		State:   parent.stateReader(),
		ChildID: string(child),
	})
	return handle, nil
}
