package signature

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// signaturesMember is the payload member holding attached signatures. It is
// never part of the signed content.
const signaturesMember = "signatures"

// ErrInvalidUTF8 is returned for payloads that are not valid UTF-8 instead of
// letting the decoder map bad bytes to U+FFFD.
var ErrInvalidUTF8 = errors.New("signature: payload is not valid UTF-8")

// Canonical returns the canonical form of a JSON object without its
// signatures member: numbers kept verbatim, object keys sorted, no insignificant
// whitespace and no HTML escaping.
func Canonical(payload json.RawMessage) ([]byte, error) {
	if !utf8.Valid(payload) {
		return nil, ErrInvalidUTF8
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("signature: payload is not a JSON object: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("signature: payload is not a JSON object")
	}
	delete(doc, signaturesMember)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("signature: encode canonical payload: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// SigningInput is what gets signed for a payload in a context, for example
// "BootNotificationRequest:{...}".
func SigningInput(context string, payload json.RawMessage) ([]byte, error) {
	canonical, err := Canonical(payload)
	if err != nil {
		return nil, err
	}
	input := make([]byte, 0, len(context)+1+len(canonical))
	input = append(input, context...)
	input = append(input, ':')
	return append(input, canonical...), nil
}
