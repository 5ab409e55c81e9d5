package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// SubmissionResult is the response envelope for form endpoints.
// Result is "Success" or "Failed"; Reason and Errors are only present
// on failure.
type SubmissionResult struct {
	Result string   `json:"result"`
	Reason string   `json:"reason,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// JSON writes a JSON response with the given status code. The data is
// serialized and Content-Type is set automatically.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[httputil] JSON encode error: %v", err)
	}
}

// OK writes a 200 response with the given data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Success writes the 200 success envelope.
func Success(w http.ResponseWriter) {
	JSON(w, http.StatusOK, SubmissionResult{Result: "Success"})
}

// Failed writes a failure envelope. Use 4xx statuses for client faults and
// 5xx for upstream service faults; reasons stay generic so that internals
// (and bot-detection behavior) never leak to the caller.
func Failed(w http.ResponseWriter, status int, reason string, errors ...string) {
	JSON(w, status, SubmissionResult{Result: "Failed", Reason: reason, Errors: errors})
}
