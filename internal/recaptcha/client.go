// Package recaptcha verifies contact-form tokens against the reCAPTCHA
// Enterprise assessment API.
package recaptcha

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cassiecay/portfolio-ops/internal/config"
	"github.com/cassiecay/portfolio-ops/internal/pkg/logger"
)

const defaultBaseURL = "https://recaptchaenterprise.googleapis.com"

// KeySource yields the Enterprise API key. Implemented by secrets.Cache.
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// Client calls the reCAPTCHA Enterprise assessment endpoint.
// Calls are fail-fast: one attempt with a bounded timeout, no retries.
// A visitor can always resubmit the form.
type Client struct {
	httpClient *http.Client
	baseURL    string
	projectID  string
	siteKey    string
	keys       KeySource
}

// NewClient creates an assessment client. keys supplies the API key
// lazily so the secret store is only hit on the first verification.
func NewClient(cfg config.RecaptchaConfig, keys KeySource) *Client {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		projectID:  cfg.ProjectID,
		siteKey:    cfg.SiteKey,
		keys:       keys,
	}
}

// Verify submits one token assessment and interprets the response:
//
//  1. Transport failure, non-2xx status, or key fetch failure → error.
//  2. Service-level error object → rejected with the service's message.
//  3. Invalid token → rejected "Invalid token" (score forced to 0).
//  4. Action label mismatch → rejected "Action mismatch" (score kept).
//  5. Otherwise verified, score defaulting to 0 when absent.
//
// The score-versus-threshold decision belongs to the caller; a valid
// token with a low score is a different failure than an invalid token
// and the two must stay distinguishable in logs.
func (c *Client) Verify(ctx context.Context, token, expectedAction string) (Assessment, error) {
	apiKey, err := c.keys.APIKey(ctx)
	if err != nil {
		return Assessment{}, fmt.Errorf("fetching reCAPTCHA API key: %w", err)
	}

	payload, err := json.Marshal(assessmentRequest{
		Event: assessmentEvent{
			Token:          token,
			SiteKey:        c.siteKey,
			ExpectedAction: expectedAction,
		},
	})
	if err != nil {
		return Assessment{}, fmt.Errorf("encoding assessment request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/assessments?key=%s", c.baseURL, c.projectID, apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Assessment{}, fmt.Errorf("building assessment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Assessment{}, fmt.Errorf("calling reCAPTCHA API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Assessment{}, fmt.Errorf("reCAPTCHA API error: %s", resp.Status)
	}

	var data assessmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Assessment{}, fmt.Errorf("decoding assessment response: %w", err)
	}

	if data.Error != nil {
		return Assessment{Reason: data.Error.Message}, nil
	}

	var score float64
	if data.RiskAnalysis != nil {
		score = data.RiskAnalysis.Score
	}

	tokenValid := data.TokenProperties != nil && data.TokenProperties.Valid
	if !tokenValid {
		logger.Debug("assessment rejected", "valid", false)
		return Assessment{Reason: "Invalid token"}, nil
	}

	action := data.TokenProperties.Action
	if action != expectedAction {
		logger.Debug("assessment rejected", "valid", true, "action", action, "score", fmt.Sprintf("%.2f", score))
		return Assessment{Score: score, Reason: "Action mismatch"}, nil
	}

	logger.Debug("assessment verified", "valid", true, "action", action, "score", fmt.Sprintf("%.2f", score))
	return Assessment{OK: true, Score: score}, nil
}
