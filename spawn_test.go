package mesh

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armatrix/agent-mesh-go/hook"
)

// fakeDir resolves from a fixed set of actors, counting resolutions.
type fakeDir struct {
	actors   map[ActorID]*Actor
	resolves int
}

func (d *fakeDir) Resolve(_ context.Context, id ActorID) (Handle, error) {
	d.resolves++
	a, ok := d.actors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActorNotFound, id)
	}
	return a, nil
}

func TestSpawnChildWritesParentLink(t *testing.T) {
	ctx := context.Background()
	parent := newTestActor(t, "parent-7", WithState(newFakeStore()))
	childStore := newFakeStore()
	child := newTestActor(t, "child-1", WithState(childStore))
	dir := &fakeDir{actors: map[ActorID]*Actor{"child-1": child}}

	var spawned []string
	parent.RegisterHook(hook.Registration{
		Name: "observer",
		Handlers: map[hook.Event]hook.Func{
			hook.ChildSpawned: func(_ context.Context, in *hook.Input) error {
				spawned = append(spawned, in.ChildID)
				return nil
			},
		},
	})

	handle, err := SpawnChild(ctx, dir, parent, "child-1")
	require.NoError(t, err)
	assert.Equal(t, ActorID("child-1"), handle.ID())
	assert.Equal(t, []string{"child-1"}, spawned)

	link, ok, err := LoadParentLink(ctx, childStore)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ActorID("parent-7"), link.ParentID)

	// The child's link token matches the parent's issued token.
	var issued map[ActorID]Token
	parentStore := parent.State().(*fakeStore)
	require.NoError(t, json.Unmarshal(parentStore.data[ChildrenStateKey], &issued))
	assert.True(t, issued["child-1"].Equal(link.Token))
}

func TestSpawnChildIdempotent(t *testing.T) {
	ctx := context.Background()
	parent := newTestActor(t, "parent-7", WithState(newFakeStore()))
	childStore := newFakeStore()
	child := newTestActor(t, "child-1", WithState(childStore))
	dir := &fakeDir{actors: map[ActorID]*Actor{"child-1": child}}

	_, err := SpawnChild(ctx, dir, parent, "child-1")
	require.NoError(t, err)
	first, _, err := LoadParentLink(ctx, childStore)
	require.NoError(t, err)

	_, err = SpawnChild(ctx, dir, parent, "child-1")
	require.NoError(t, err)
	second, ok, err := LoadParentLink(ctx, childStore)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, first.Token.Equal(second.Token), "parent link never changes once set")
}

func TestSpawnChildResolutionFailure(t *testing.T) {
	parent := newTestActor(t, "parent-7", WithState(newFakeStore()))
	dir := &fakeDir{actors: map[ActorID]*Actor{}}

	_, err := SpawnChild(context.Background(), dir, parent, "child-1")
	assert.ErrorIs(t, err, ErrActorNotFound)
}

func TestSpawnChildRequiresChildState(t *testing.T) {
	parent := newTestActor(t, "parent-7", WithState(newFakeStore()))
	child := newTestActor(t, "child-1") // no store
	dir := &fakeDir{actors: map[ActorID]*Actor{"child-1": child}}

	_, err := SpawnChild(context.Background(), dir, parent, "child-1")
	assert.ErrorIs(t, err, ErrNoState)
}
