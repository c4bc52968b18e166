package mesh

import (
	"encoding/json"
	"fmt"
)

// ActionSubagentResult is the action type a child uses to report its final
// run result to its parent.
const ActionSubagentResult = "subagent_result"

// Envelope is the unit of cross-actor communication. Type selects a handler
// on the receiving actor; Token must match a token the receiver issued for
// SourceID before the payload is trusted.
type Envelope struct {
	Type     string          `json:"type"`
	Token    Token           `json:"token"`
	SourceID ActorID         `json:"sourceId"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// Encode serializes the envelope for point-to-point delivery.
func (e *Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("mesh: encode envelope: %w", err)
	}
	return data, nil
}

// DecodeEnvelope parses a serialized envelope received at an actor's action
// entry point.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("mesh: decode envelope: %w", err)
	}
	if e.Type == "" {
		return nil, fmt.Errorf("mesh: decode envelope: missing type")
	}
	return &e, nil
}
