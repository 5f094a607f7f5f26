// Package api is the HTTP transport used by query endpoints. It joins request paths onto
// the configured base URL, decodes the standard response envelope and leaves retries to
// the underlying retrying HTTP client.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/savaki/buildconsole/internal/errors"
	"github.com/savaki/buildconsole/internal/models"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Config holds the transport settings
type Config struct {
	BaseURL   string        // e.g. http://localhost:8080/conda-store/api/v1
	Token     string        // optional bearer token
	RetryMax  int           // retries performed by the transport; 0 disables them
	RetryWait time.Duration // minimum wait between retries; zero keeps the transport default
	Timeout   time.Duration // per request, including retries
}

// StatusError is returned for non-success HTTP statuses and "error" envelopes
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("api request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client performs reads against the build server API
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a new API client
func New(ctx context.Context, config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.ErrBaseURLRequired
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = config.RetryMax
	retryClient.ErrorHandler = lastResponse
	retryClient.Logger = leveledLogger{logger: zerolog.Ctx(ctx)}
	retryClient.HTTPClient.Timeout = timeout
	if config.RetryWait > 0 {
		retryClient.RetryWaitMin = config.RetryWait
		retryClient.RetryWaitMax = 4 * config.RetryWait
	}

	httpClient := retryClient.StandardClient()
	if config.Token != "" {
		tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(tokenCtx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: config.Token,
			TokenType:   "Bearer",
		}))
	}
	httpClient.Timeout = timeout

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		http:    httpClient,
	}, nil
}

// URL returns the absolute URL for path; path is appended verbatim, query string included
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Get issues GET {baseURL}{path} and decodes the JSON body into out
func (c *Client) Get(ctx context.Context, path string, out any) error {
	logger := zerolog.Ctx(ctx)
	url := c.URL(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug().
		Str("method", http.MethodGet).
		Str("url", url).
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp models.ErrorResponse
		_ = json.Unmarshal(body, &errResp)
		return &StatusError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}

	var envelope models.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Status == models.StatusError {
		return &StatusError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}

// lastResponse hands the final response back once retries are exhausted so the
// status surfaces as a StatusError instead of a transport error
func lastResponse(resp *http.Response, err error, _ int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, err
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger
type leveledLogger struct {
	logger *zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
