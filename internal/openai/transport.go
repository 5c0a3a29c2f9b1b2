// internal/openai/transport.go
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// betaHeader marks requests against assistants-API endpoints, which the
// server gates behind a feature-version header.
const betaHeader = "assistants=v2"

// Config holds the settings for a Client. Values are copied at
// construction; the Client is immutable afterwards.
type Config struct {
	BaseURL string
	APIKey  string
	Logger  *slog.Logger
}

// Client is the HTTP client for the assistants, files and vector store
// endpoints. A single Client is safe to reuse across calls; all per-call
// state lives in the request value.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a new API client with the given configuration.
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log,
	}
}

// APIError is a non-success response from the API, or a success response
// whose body could not be decoded. Callers branch on StatusCode rather
// than handling decode errors directly.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Status)
}

// IsNotFound reports whether the error is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// errorEnvelope is the standard diagnostic body on non-2xx responses.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// request describes a single API call. JSON bodies go in body; multipart
// payloads go in raw with the writer's content type (the boundary must
// come from the multipart encoder, so no default content type is set).
type request struct {
	method      string
	endpoint    string
	query       url.Values
	body        any
	raw         []byte
	contentType string
	beta        bool
}

// do executes one request and decodes the response into out. A single
// attempt per call: no retries, no backoff. A 2xx response whose body is
// not valid JSON is reported as a synthetic 500 APIError carrying the
// raw text, never as a bare decode error.
func (c *Client) do(ctx context.Context, req request, out any) error {
	u := c.baseURL + req.endpoint
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var bodyReader io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	} else if req.raw != nil {
		bodyReader = bytes.NewReader(req.raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-Id", requestID)
	if req.beta {
		httpReq.Header.Set("OpenAI-Beta", betaHeader)
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	} else if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	c.log.Debug("api request",
		"method", req.method,
		"endpoint", req.endpoint,
		"request_id", requestID,
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	// Read the full body as text first; non-JSON bodies on success are a
	// distinct failure mode, not a decode panic.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(data),
		}
		var envelope errorEnvelope
		if json.Unmarshal(data, &envelope) == nil {
			apiErr.Message = envelope.Error.Message
		}
		c.log.Debug("api error response",
			"status", resp.StatusCode,
			"request_id", requestID,
			"message", apiErr.Message,
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{
			StatusCode: http.StatusInternalServerError,
			Status:     "invalid json response",
			Body:       string(data),
		}
	}
	return nil
}
