// Package session implements the signed-cookie session layer: a codec
// that makes session payloads tamper-evident and a per-request store
// that reads, commits, and destroys the session cookie.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidylist/backend/domain"
)

// ErrMissingSecret is returned when a codec is constructed without a
// signing secret. The process must not serve requests in that state.
var ErrMissingSecret = errors.New("session: signing secret must not be empty")

const minSecretBytes = 16

// Codec signs and verifies session payloads with HMAC-SHA256. The wire
// form is base64url(JSON payload) + "." + base64url(signature); flipping
// any bit of either part invalidates verification.
type Codec struct {
	secret []byte
}

// NewCodec builds a codec from the configured secret.
func NewCodec(secret string) (*Codec, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" || len(trimmed) < minSecretBytes {
		return nil, ErrMissingSecret
	}
	return &Codec{secret: []byte(trimmed)}, nil
}

// Sign serializes the session and binds it to the secret.
func (c *Codec) Sign(data domain.Session) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + c.signature(encoded), nil
}

// Verify checks a cookie value against the secret. Any malformed,
// truncated, or tampered value yields (zero session, false); verification
// failures carry no detail so a caller cannot distinguish "no cookie"
// from "bad cookie".
func (c *Codec) Verify(value string) (domain.Session, bool) {
	encoded, sig, found := strings.Cut(value, ".")
	if !found || encoded == "" || sig == "" {
		return domain.Session{}, false
	}

	expected := c.signature(encoded)
	// hmac.Equal is constant time for equal-length inputs; comparing
	// digests of fixed length avoids leaking which byte differs.
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return domain.Session{}, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return domain.Session{}, false
	}

	var data domain.Session
	if err := json.Unmarshal(payload, &data); err != nil {
		return domain.Session{}, false
	}
	return data, true
}

func (c *Codec) signature(encoded string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
