package contact

import (
	"regexp"
	"strings"
)

// Field limits. Email length cap follows RFC 5321's 254-octet path limit.
const (
	NameMinLen    = 2
	NameMaxLen    = 100
	EmailMaxLen   = 254
	SubjectMaxLen = 200
	MessageMinLen = 10
	MessageMaxLen = 5000
)

// Basic local@domain.tld shape. Deliverability is proven by replying, not
// by the regex, so this only rejects obviously broken addresses.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationResult carries either a sanitized Submission or the complete
// list of violated constraints. All violations are collected so the
// frontend can surface every problem in one round trip.
type ValidationResult struct {
	Submission Submission
	Errors     []string
}

// Valid reports whether the submission passed every field constraint.
func (r ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Validate checks every field of an untyped payload against the form
// constraints. It never panics on missing fields or wrong types; those
// surface as constraint violations. On success the returned Submission
// is fully sanitized (see Sanitize).
func Validate(raw map[string]any) ValidationResult {
	var res ValidationResult

	name, ok := raw["name"].(string)
	switch {
	case !ok:
		res.fail("Name is required")
	case len(strings.TrimSpace(name)) < NameMinLen:
		res.fail("Name must be at least 2 characters")
	case len(name) > NameMaxLen:
		res.fail("Name must be at most 100 characters")
	}

	// Surrounding whitespace is forgiven (and trimmed during
	// sanitization); interior whitespace still fails the pattern.
	email, ok := raw["email"].(string)
	switch {
	case !ok:
		res.fail("Email is required")
	case len(email) > EmailMaxLen:
		res.fail("Email must be at most 254 characters")
	case !emailPattern.MatchString(strings.TrimSpace(email)):
		res.fail("Email must be a valid email address")
	}

	subject := ""
	if v, present := raw["subject"]; present && v != nil {
		s, ok := v.(string)
		switch {
		case !ok:
			res.fail("Subject must be a string")
		case len(s) > SubjectMaxLen:
			res.fail("Subject must be at most 200 characters")
		default:
			subject = s
		}
	}

	message, ok := raw["message"].(string)
	switch {
	case !ok:
		res.fail("Message is required")
	case len(strings.TrimSpace(message)) < MessageMinLen:
		res.fail("Message must be at least 10 characters")
	case len(message) > MessageMaxLen:
		res.fail("Message must be at most 5000 characters")
	}

	token, ok := raw["recaptchaToken"].(string)
	if !ok || strings.TrimSpace(token) == "" {
		res.fail("reCAPTCHA token is required")
	}

	if !res.Valid() {
		return res
	}

	res.Submission = Submission{
		Name:           Sanitize(name),
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Subject:        Sanitize(subject),
		Message:        Sanitize(message),
		RecaptchaToken: strings.TrimSpace(token),
	}
	return res
}

func (r *ValidationResult) fail(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Sanitize strips ASCII control characters (0x00-0x1F, 0x7F) from user
// text after normalizing CRLF and lone CR line endings to LF. Newlines
// are normalized first so legitimate line breaks survive the strip. The
// result is safe to embed in a plain-text email body. Idempotent.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
