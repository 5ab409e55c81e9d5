package recaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cassiecay/portfolio-ops/internal/config"
)

type staticKeys struct {
	key string
	err error
}

func (s staticKeys) APIKey(ctx context.Context) (string, error) {
	return s.key, s.err
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(config.RecaptchaConfig{
		ProjectID: "test-project",
		SiteKey:   "site-key",
	}, staticKeys{key: "api-key"})
	c.baseURL = srv.URL
	return c, srv
}

func TestVerifyVerified(t *testing.T) {
	var gotPath, gotKey string
	var gotReq assessmentRequest

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{
			"tokenProperties": {"valid": true, "action": "contact_submit"},
			"riskAnalysis": {"score": 0.9}
		}`))
	})

	a, err := client.Verify(context.Background(), "tok-123", "contact_submit")
	require.NoError(t, err)
	assert.True(t, a.OK)
	assert.Equal(t, 0.9, a.Score)
	assert.Empty(t, a.Reason)

	assert.Equal(t, "/v1/projects/test-project/assessments", gotPath)
	assert.Equal(t, "api-key", gotKey)
	assert.Equal(t, "tok-123", gotReq.Event.Token)
	assert.Equal(t, "site-key", gotReq.Event.SiteKey)
	assert.Equal(t, "contact_submit", gotReq.Event.ExpectedAction)
}

func TestVerifyInvalidToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"tokenProperties": {"valid": false, "invalidReason": "EXPIRED"},
			"riskAnalysis": {"score": 0.7}
		}`))
	})

	a, err := client.Verify(context.Background(), "stale", "contact_submit")
	require.NoError(t, err)
	assert.False(t, a.OK)
	assert.Equal(t, "Invalid token", a.Reason)
	assert.Zero(t, a.Score)
}

func TestVerifyActionMismatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"tokenProperties": {"valid": true, "action": "login"},
			"riskAnalysis": {"score": 0.8}
		}`))
	})

	a, err := client.Verify(context.Background(), "tok", "contact_submit")
	require.NoError(t, err)
	assert.False(t, a.OK)
	assert.Equal(t, "Action mismatch", a.Reason)
	assert.Equal(t, 0.8, a.Score)
}

func TestVerifyServiceErrorObject(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"code": 400, "message": "API key not valid"}}`))
	})

	a, err := client.Verify(context.Background(), "tok", "contact_submit")
	require.NoError(t, err)
	assert.False(t, a.OK)
	assert.Equal(t, "API key not valid", a.Reason)
}

func TestVerifyMissingScoreDefaultsToZero(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tokenProperties": {"valid": true, "action": "contact_submit"}}`))
	})

	a, err := client.Verify(context.Background(), "tok", "contact_submit")
	require.NoError(t, err)
	assert.True(t, a.OK)
	assert.Zero(t, a.Score)
}

func TestVerifyHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Verify(context.Background(), "tok", "contact_submit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reCAPTCHA API error")
}

func TestVerifyKeyFetchFailure(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("API must not be called when the key fetch fails")
	})
	_ = srv
	client.keys = staticKeys{err: errors.New("secret store down")}

	_, err := client.Verify(context.Background(), "tok", "contact_submit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret store down")
}
