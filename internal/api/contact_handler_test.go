package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassiecay/portfolio-ops/internal/contact"
	"github.com/cassiecay/portfolio-ops/internal/pkg/httputil"
	"github.com/cassiecay/portfolio-ops/internal/recaptcha"
)

type stubVerifier struct {
	assessment recaptcha.Assessment
	err        error
	gotToken   string
	gotAction  string
}

func (s *stubVerifier) Verify(ctx context.Context, token, expectedAction string) (recaptcha.Assessment, error) {
	s.gotToken = token
	s.gotAction = expectedAction
	return s.assessment, s.err
}

type stubDispatcher struct {
	err  error
	sent []contact.Submission
}

func (s *stubDispatcher) Send(ctx context.Context, sub contact.Submission) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sub)
	return nil
}

func validPayload() map[string]any {
	return map[string]any{
		"name":           "Jo Smith",
		"email":          "jo@x.co",
		"subject":        "Session inquiry",
		"message":        "Do you shoot weddings?",
		"recaptchaToken": "tok-123",
	}
}

func submit(t *testing.T, h *ContactHandler, body any) (*httptest.ResponseRecorder, httputil.SubmissionResult) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, "/contact", &buf)
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	var res httputil.SubmissionResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return rec, res
}

func TestHandleSubmitSuccess(t *testing.T) {
	verifier := &stubVerifier{assessment: recaptcha.Assessment{OK: true, Score: 0.8}}
	dispatcher := &stubDispatcher{}
	h := NewContactHandler(verifier, dispatcher, "contact_submit", 0.5)

	rec, res := submit(t, h, validPayload())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", res.Result)
	assert.Empty(t, res.Reason)

	assert.Equal(t, "tok-123", verifier.gotToken)
	assert.Equal(t, "contact_submit", verifier.gotAction)
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "Jo Smith", dispatcher.sent[0].Name)
}

func TestHandleSubmitInvalidJSON(t *testing.T) {
	h := NewContactHandler(&stubVerifier{}, &stubDispatcher{}, "contact_submit", 0.5)

	rec, res := submit(t, h, `{"name": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed", res.Result)
	assert.Equal(t, "Invalid JSON body", res.Reason)
}

func TestHandleSubmitValidationFailure(t *testing.T) {
	verifier := &stubVerifier{assessment: recaptcha.Assessment{OK: true, Score: 0.9}}
	dispatcher := &stubDispatcher{}
	h := NewContactHandler(verifier, dispatcher, "contact_submit", 0.5)

	payload := validPayload()
	payload["message"] = "short"
	rec, res := submit(t, h, payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed", res.Result)
	assert.Equal(t, "Validation failed", res.Reason)
	assert.Equal(t, []string{"Message must be at least 10 characters"}, res.Errors)

	// The pipeline must stop before verification on a validation failure.
	assert.Empty(t, verifier.gotToken)
	assert.Empty(t, dispatcher.sent)
}

func TestHandleSubmitRejectedToken(t *testing.T) {
	verifier := &stubVerifier{assessment: recaptcha.Assessment{Reason: "Invalid token"}}
	dispatcher := &stubDispatcher{}
	h := NewContactHandler(verifier, dispatcher, "contact_submit", 0.5)

	rec, res := submit(t, h, validPayload())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "reCAPTCHA verification failed", res.Reason)
	assert.Empty(t, dispatcher.sent)
}

func TestHandleSubmitLowScore(t *testing.T) {
	verifier := &stubVerifier{assessment: recaptcha.Assessment{OK: true, Score: 0.3}}
	dispatcher := &stubDispatcher{}
	h := NewContactHandler(verifier, dispatcher, "contact_submit", 0.5)

	rec, res := submit(t, h, validPayload())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Submission blocked", res.Reason)
	assert.Empty(t, dispatcher.sent)
}

func TestHandleSubmitVerifierError(t *testing.T) {
	verifier := &stubVerifier{err: errors.New("assessment API unreachable")}
	dispatcher := &stubDispatcher{}
	h := NewContactHandler(verifier, dispatcher, "contact_submit", 0.5)

	rec, res := submit(t, h, validPayload())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "reCAPTCHA service error", res.Reason)
	assert.Empty(t, dispatcher.sent)
}

func TestHandleSubmitDispatchError(t *testing.T) {
	verifier := &stubVerifier{assessment: recaptcha.Assessment{OK: true, Score: 0.8}}
	dispatcher := &stubDispatcher{err: errors.New("MessageRejected")}
	h := NewContactHandler(verifier, dispatcher, "contact_submit", 0.5)

	rec, res := submit(t, h, validPayload())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Email service error", res.Reason)
}

func TestHandleSubmitStringWrappedBody(t *testing.T) {
	verifier := &stubVerifier{assessment: recaptcha.Assessment{OK: true, Score: 0.8}}
	dispatcher := &stubDispatcher{}
	h := NewContactHandler(verifier, dispatcher, "contact_submit", 0.5)

	inner, err := json.Marshal(validPayload())
	require.NoError(t, err)
	wrapped, err := json.Marshal(string(inner))
	require.NoError(t, err)

	rec, res := submit(t, h, string(wrapped))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", res.Result)
	require.Len(t, dispatcher.sent, 1)
}

func TestHandleSubmitOversizedBody(t *testing.T) {
	h := NewContactHandler(&stubVerifier{}, &stubDispatcher{}, "contact_submit", 0.5)

	payload := validPayload()
	payload["message"] = strings.Repeat("a", maxBodyBytes+1)
	rec, res := submit(t, h, payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", res.Reason)
}
