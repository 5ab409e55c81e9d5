package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/cassiecay/portfolio-ops/internal/contact"
	"github.com/cassiecay/portfolio-ops/internal/pkg/httputil"
	"github.com/cassiecay/portfolio-ops/internal/pkg/logger"
	"github.com/cassiecay/portfolio-ops/internal/recaptcha"
)

// maxBodyBytes bounds the request body. The largest legal submission is
// well under 16KB even with JSON escaping overhead.
const maxBodyBytes = 64 * 1024

// Verifier confirms a submission token with the bot-mitigation service.
type Verifier interface {
	Verify(ctx context.Context, token, expectedAction string) (recaptcha.Assessment, error)
}

// Dispatcher sends the formatted contact email.
type Dispatcher interface {
	Send(ctx context.Context, sub contact.Submission) error
}

// ContactHandler runs a submission through the parse → validate → verify
// → dispatch pipeline. Each stage short-circuits into a terminal
// response; no stage may panic out of the handler.
type ContactHandler struct {
	verifier       Verifier
	dispatcher     Dispatcher
	expectedAction string
	scoreThreshold float64
}

// NewContactHandler creates the submission handler.
func NewContactHandler(verifier Verifier, dispatcher Dispatcher, expectedAction string, scoreThreshold float64) *ContactHandler {
	return &ContactHandler{
		verifier:       verifier,
		dispatcher:     dispatcher,
		expectedAction: expectedAction,
		scoreThreshold: scoreThreshold,
	}
}

// HandleSubmit handles POST /contact.
//
// Client faults (bad JSON, validation, failed or low-scoring
// verification) return 400; upstream faults (secret store, assessment
// API, SES) return 500 with a generic reason. The verification reasons
// sent to the caller are deliberately vaguer than what is logged, so the
// response never reveals which detection tripped.
func (h *ContactHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Log request metadata by presence only, never raw values.
	logger.Info("contact submission received",
		"has_remote_ip", fmt.Sprintf("%t", r.RemoteAddr != ""),
		"has_user_agent", fmt.Sprintf("%t", r.UserAgent() != ""))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Warn("contact body read failed", "error", err.Error())
		httputil.Failed(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	raw, err := contact.Decode(body)
	if err != nil {
		logger.Warn("contact body parse failed", "error", err.Error())
		httputil.Failed(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res := contact.Validate(raw)
	if !res.Valid() {
		logger.Info("contact validation failed", "error_count", fmt.Sprintf("%d", len(res.Errors)))
		httputil.Failed(w, http.StatusBadRequest, "Validation failed", res.Errors...)
		return
	}
	sub := res.Submission

	assessment, err := h.verifier.Verify(ctx, sub.RecaptchaToken, h.expectedAction)
	if err != nil {
		logger.Error("reCAPTCHA verification error", "error", err.Error())
		httputil.Failed(w, http.StatusInternalServerError, "reCAPTCHA service error")
		return
	}
	if !assessment.OK {
		logger.Info("reCAPTCHA verification rejected", "reason", assessment.Reason)
		httputil.Failed(w, http.StatusBadRequest, "reCAPTCHA verification failed")
		return
	}
	if assessment.Score < h.scoreThreshold {
		logger.Info("reCAPTCHA score below threshold",
			"score", fmt.Sprintf("%.2f", assessment.Score),
			"threshold", fmt.Sprintf("%.2f", h.scoreThreshold))
		httputil.Failed(w, http.StatusBadRequest, "Submission blocked")
		return
	}
	logger.Info("reCAPTCHA verification passed", "score", fmt.Sprintf("%.2f", assessment.Score))

	if err := h.dispatcher.Send(ctx, sub); err != nil {
		logger.Error("contact email dispatch failed", "error", err.Error())
		httputil.Failed(w, http.StatusInternalServerError, "Email service error")
		return
	}

	httputil.Success(w)
}
