// Package response models the collaborator's wire envelope. Every
// endpoint answers {success, message?, data?}; a response with
// success != true is a failure regardless of HTTP status nuance.
package response

import (
	"encoding/json"
	"fmt"
)

// Envelope is the raw collaborator reply. Data stays undecoded until the
// caller knows what shape to expect.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

// Decode parses a raw body into an envelope, treating unparseable bodies
// as failures.
func Decode(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding response envelope: %w", err)
	}
	return &env, nil
}

// DataInto unmarshals the envelope's data payload into dest. A missing
// payload leaves dest untouched.
func (e *Envelope) DataInto(dest any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, dest); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}
