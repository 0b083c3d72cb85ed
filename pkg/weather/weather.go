// Package weather fetches the one-line weather summary spoken after an
// alarm's label. The provider is deliberately thin: a single GET against a
// configurable endpoint that returns plain text (wttr.in's format=3 style).
package weather

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxSummaryBytes = 512

// Client fetches weather summaries over HTTP.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient creates a weather client for the given summary endpoint.
func NewClient(url string) *Client {
	return &Client{
		URL: url,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CurrentSummary returns the current conditions as a single line of text.
// Any failure returns an error; callers treat that as "no weather" and
// keep the announcement short.
func (c *Client) CurrentSummary() (string, error) {
	if c.URL == "" {
		return "", fmt.Errorf("no weather endpoint configured")
	}

	resp, err := c.HTTPClient.Get(c.URL)
	if err != nil {
		return "", fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSummaryBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read weather response: %w", err)
	}

	summary := strings.TrimSpace(string(body))
	if summary == "" {
		return "", fmt.Errorf("weather endpoint returned an empty summary")
	}
	if strings.HasPrefix(strings.ToUpper(summary), "<!DOCTYPE") ||
		strings.HasPrefix(strings.ToUpper(summary), "<HTML") {
		return "", fmt.Errorf("weather endpoint returned HTML, not a text summary")
	}

	// Keep it to the first line; the announcement is spoken.
	if idx := strings.IndexByte(summary, '\n'); idx >= 0 {
		summary = strings.TrimSpace(summary[:idx])
	}
	return summary, nil
}
