package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHTTPClient(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}
	c, err := NewClient("http://localhost:8080", WithHTTPClient(hc))
	require.NoError(t, err)
	assert.Same(t, hc, c.httpClient)
}

func TestWithTimeout(t *testing.T) {
	c, err := NewClient("http://localhost:8080", WithTimeout(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}

func TestWithUserAgent(t *testing.T) {
	c, err := NewClient("http://localhost:8080", WithUserAgent("keyrank-cli/1.0"))
	require.NoError(t, err)
	assert.Equal(t, "keyrank-cli/1.0", c.userAgent)
}

func TestWithRetry(t *testing.T) {
	c, err := NewClient("http://localhost:8080", WithRetry(5, time.Second, 10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 5, c.retryMax)
	assert.Equal(t, time.Second, c.retryWaitMin)
	assert.Equal(t, 10*time.Second, c.retryWaitMax)

	// Zero max disables retries without touching the waits.
	c, err = NewClient("http://localhost:8080", WithRetry(0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, c.retryMax)
}

func TestCalculateBackoffBounded(t *testing.T) {
	c, err := NewClient("http://localhost:8080", WithRetry(10, 100*time.Millisecond, time.Second))
	require.NoError(t, err)

	for attempt := 1; attempt <= 10; attempt++ {
		backoff := c.calculateBackoff(attempt)
		assert.GreaterOrEqual(t, backoff, 100*time.Millisecond)
		// Max plus 25% jitter.
		assert.LessOrEqual(t, backoff, 1250*time.Millisecond)
	}
}
