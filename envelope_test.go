package mesh

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	env := &Envelope{
		Type:     ActionSubagentResult,
		Token:    TokenFromString("abc123"),
		SourceID: "child-1",
		Payload:  json.RawMessage(`{"status":"ok","value":42}`),
	}

	data, err := env.Encode()
	require.NoError(t, err)

	back, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, ActionSubagentResult, back.Type)
	assert.Equal(t, ActorID("child-1"), back.SourceID)
	assert.True(t, back.Token.Equal(TokenFromString("abc123")))
	assert.JSONEq(t, `{"status":"ok","value":42}`, string(back.Payload))
}

func TestEnvelopeWireShape(t *testing.T) {
	env := &Envelope{
		Type:     ActionSubagentResult,
		Token:    TokenFromString("abc123"),
		SourceID: "child-1",
		Payload:  json.RawMessage(`{"status":"ok","value":42}`),
	}

	data, err := env.Encode()
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"subagent_result","token":"abc123","sourceId":"child-1","payload":{"status":"ok","value":42}}`,
		string(data))
}

func TestDecodeEnvelopeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "not-json"},
		{"missing type", `{"token":"abc","sourceId":"child-1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEnvelope([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
