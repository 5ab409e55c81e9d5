// Package contact models contact-form submissions: decoding the untrusted
// request payload, validating every field, and sanitizing the accepted
// values before they are embedded into an outbound email.
package contact

import (
	"encoding/json"
	"fmt"
)

// Submission is a contact-form message after validation and sanitization.
type Submission struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Subject        string `json:"subject,omitempty"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// Decode parses a request body into an untyped field map ready for
// validation. Function-URL style triggers deliver the payload either as a
// JSON object or as a JSON string wrapping one, so a top-level string is
// unwrapped and parsed again. Anything that is not ultimately a JSON
// object is a decode error.
func Decode(body []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing request body: %w", err)
	}

	if s, ok := raw.(string); ok {
		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil, fmt.Errorf("parsing wrapped request body: %w", err)
		}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("request body is not a JSON object")
	}
	return obj, nil
}
