// Package mesh implements parent/child orchestration for long-running agents.
//
// An agent ("actor") can spawn child actors to work on sub-tasks and receive
// their results asynchronously once the children finish, without blocking or
// polling. Three pieces compose to make that work:
//
//   - [Actor] is an addressable instance with durable key-value state, a set
//     of typed action handlers, and a lifecycle hook pipeline.
//   - The hook pipeline (see the hook sub-package) fires named lifecycle
//     events such as run completion; handler failures are isolated and never
//     reach the actor's own execution path.
//   - The report handler (see the report sub-package) listens for run
//     completion, reads the actor's parent link, and delivers a
//     token-authenticated "subagent_result" envelope to the parent through a
//     [Directory].
//
// # Quick Start
//
//	dir := directory.NewMemory(func(id mesh.ActorID) (*mesh.Actor, error) {
//	    return mesh.NewActor(id, mesh.WithState(state.NewMemory())), nil
//	})
//	parentHandle, _ := dir.Resolve(ctx, "parent-7")
//	childHandle, _ := mesh.SpawnChild(ctx, dir, parentActor, "child-1")
//
// When the child's run completes, its reporter hook sends the final result to
// "parent-7" and the parent's subagent_result handler receives it.
//
// # Sub-packages
//
//   - directory provides an in-memory get-or-create Directory.
//   - state provides Store implementations (Memory, Bolt).
//   - hook provides lifecycle hook types.
//   - report provides the subagent completion reporter.
package mesh
