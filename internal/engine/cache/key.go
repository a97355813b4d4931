package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// KeyParams captures everything that distinguishes one cached computation
// from another.
type KeyParams struct {
	// Operation names the computation, e.g. "report".
	Operation string `json:"operation"`

	// Payload is the normalized request input.
	Payload any `json:"payload,omitempty"`

	// Options are the request options that change the output.
	Options any `json:"options,omitempty"`
}

// GenerateKey hashes params into a deterministic cache key. The operation is
// trimmed and lower-cased; payload and options are reduced to canonical JSON
// (object keys sorted) so equal inputs give equal keys regardless of field
// order.
func GenerateKey(params KeyParams) (string, error) {
	payload, err := canonicalJSON(params.Payload)
	if err != nil {
		return "", fmt.Errorf("canonicalizing payload: %w", err)
	}
	options, err := canonicalJSON(params.Options)
	if err != nil {
		return "", fmt.Errorf("canonicalizing options: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(params.Operation))))
	h.Write([]byte{0})
	h.Write(payload)
	h.Write([]byte{0})
	h.Write(options)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// GenerateSimpleKey hashes a list of string parts.
func GenerateSimpleKey(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h[:])
}

// canonicalJSON re-encodes v through a generic value so struct field order
// and map iteration order do not affect the bytes.
func canonicalJSON(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err = json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
