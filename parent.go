package mesh

import (
	"context"
	"encoding/json"
	"fmt"
)

// Reserved state keys. ParentStateKey is written once at spawn time and is
// read-only thereafter; ChildrenStateKey holds the tokens a parent has
// issued, keyed by child identity.
const (
	ParentStateKey   = "parent"
	ChildrenStateKey = "children"
)

// ParentLink identifies a child actor's parent and carries the capability
// token that authorizes completion reports to it. Absence of a ParentLink
// means the actor is a root actor with no reporting obligation.
type ParentLink struct {
	ParentID ActorID `json:"parentId"`
	Token    Token   `json:"token"`
}

// LoadParentLink reads the parent link from the reserved state key.
// A missing or incomplete link (no parent id, or no token) returns ok=false
// with a nil error: that is a root actor, not a failure.
func LoadParentLink(ctx context.Context, state StateGetter) (ParentLink, bool, error) {
	var link ParentLink

	data, found, err := state.Get(ctx, ParentStateKey)
	if err != nil {
		return link, false, fmt.Errorf("mesh: read parent link: %w", err)
	}
	if !found {
		return link, false, nil
	}
	if err := json.Unmarshal(data, &link); err != nil {
		return link, false, fmt.Errorf("mesh: parse parent link: %w", err)
	}
	if link.ParentID == "" || link.Token.IsZero() {
		return ParentLink{}, false, nil
	}
	return link, true, nil
}
