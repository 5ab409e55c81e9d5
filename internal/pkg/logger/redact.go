package logger

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// secretKeys are field-name fragments whose values are never logged at all.
// This covers reCAPTCHA tokens and anything fetched from the secret store.
var secretKeys = []string{"token", "secret", "api_key", "apikey", "password"}

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

func redactValue(key, val string) string {
	lower := strings.ToLower(key)
	for _, s := range secretKeys {
		if strings.Contains(lower, s) {
			return "[REDACTED]"
		}
	}
	if strings.Contains(lower, "email") || strings.Contains(lower, "sender") || strings.Contains(lower, "receiver") {
		return RedactEmail(val)
	}
	// Catch emails embedded in free-form fields.
	return emailRegex.ReplaceAllStringFunc(val, RedactEmail)
}
