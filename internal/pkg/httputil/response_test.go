package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var res SubmissionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Success", res.Result)
	assert.Empty(t, res.Reason)
	assert.Empty(t, res.Errors)
}

func TestFailedWithErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Failed(rec, http.StatusBadRequest, "Validation failed", "Name is required", "Message is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var res SubmissionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Failed", res.Result)
	assert.Equal(t, "Validation failed", res.Reason)
	assert.Equal(t, []string{"Name is required", "Message is required"}, res.Errors)
}

func TestFailedOmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Failed(rec, http.StatusInternalServerError, "Email service error")

	body := rec.Body.String()
	assert.NotContains(t, body, "errors")
}
