// Package secrets caches the reCAPTCHA API key fetched from AWS Secrets
// Manager for the lifetime of the process.
package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/cassiecay/portfolio-ops/internal/pkg/logger"
)

// fetchTimeout bounds the one-time secret fetch; with the mutex held
// across it, a hung call would otherwise stall every request.
const fetchTimeout = 10 * time.Second

// API is the slice of the Secrets Manager client we use.
type API interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Cache is a process-lifetime memoizing cell for a single secret value.
// The value is fetched on first use and never refreshed; secret rotation
// is handled by restarting the process. The mutex is held across the
// fetch, so concurrent cold-start callers coalesce into one store call.
type Cache struct {
	api      API
	secretID string

	mu     sync.Mutex
	value  string
	cached bool
}

// NewCache creates a cache for the named secret.
func NewCache(api API, secretID string) *Cache {
	return &Cache{api: api, secretID: secretID}
}

// APIKey returns the cached secret value, fetching it on first call.
// Fetch failures propagate to the caller and are not cached, so a later
// request retries the fetch.
func (c *Cache) APIKey(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached {
		return c.value, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	out, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(c.secretID),
	})
	if err != nil {
		return "", fmt.Errorf("fetching secret %s: %w", c.secretID, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", c.secretID)
	}

	c.value = *out.SecretString
	c.cached = true
	logger.Info("secret cached for process lifetime", "id", c.secretID)
	return c.value, nil
}
