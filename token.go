package mesh

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Token is the capability secret a parent issues to a child at spawn time.
// It authorizes exactly one reporting channel back to that parent.
//
// The value is deliberately unprintable: String, GoString, and Format all
// return a redaction marker so a token can never leak through logging or
// error formatting. The real value only ever appears in the JSON wire
// encoding of an [Envelope].
type Token struct {
	value string
}

// NewToken mints a fresh random token.
func NewToken() Token {
	return Token{value: uuid.NewString()}
}

// TokenFromString wraps an existing secret value, e.g. one read back from
// persisted state.
func TokenFromString(s string) Token {
	return Token{value: s}
}

// IsZero reports whether the token is unset.
func (t Token) IsZero() bool {
	return t.value == ""
}

// Equal compares two tokens in constant time.
func (t Token) Equal(other Token) bool {
	return subtle.ConstantTimeCompare([]byte(t.value), []byte(other.value)) == 1
}

func (t Token) String() string   { return "[redacted]" }
func (t Token) GoString() string { return "mesh.Token{[redacted]}" }

// Format implements fmt.Formatter so that %v, %s, %q and friends all redact.
func (t Token) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprintf(f, "%q", "[redacted]")
	default:
		fmt.Fprint(f, "[redacted]")
	}
}

// MarshalJSON emits the real secret. Only the envelope wire encoding should
// ever reach this path.
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.value)
}

// UnmarshalJSON restores the real secret from the wire.
func (t *Token) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.value)
}
