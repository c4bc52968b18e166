package mesh

import "errors"

// Sentinel errors returned by actor delivery and directory resolution.
var (
	ErrActorNotFound = errors.New("mesh: actor not found")
	ErrUnknownAction = errors.New("mesh: unknown action type")
	ErrTokenRejected = errors.New("mesh: token rejected")
	ErrNoState       = errors.New("mesh: no state store configured")
)
