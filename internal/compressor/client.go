// Package compressor calls the remote text-compression API that produces the
// reminder context attached to each stored appointment.
package compressor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/appointment-reminder/internal/application"
)

const (
	// DefaultBaseURL is the public endpoint of the compression API.
	DefaultBaseURL = "https://api.scaledown.xyz"
	// DefaultTimeout bounds a single compression request.
	DefaultTimeout = 15 * time.Second

	compressPath   = "/compress/raw/"
	reminderPrompt = "Generate reminder"
	fallbackReason = "Compression failed"
)

// ReplyError is returned when the API answers but reports an unsuccessful
// compression. Its message is the API's own error text.
type ReplyError struct {
	Message string
}

// Error implements the error interface.
func (e *ReplyError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Config configures the compression client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client implements application.ContextCompressor over HTTPS.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client. Missing values fall back to DefaultBaseURL and
// DefaultTimeout.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   baseURL + compressPath,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger.With("component", "compressor"),
	}
}

type compressRequest struct {
	Context     string              `json:"context"`
	Appointment appointmentPayload  `json:"appointment"`
	Prompt      string              `json:"prompt"`
	Scaledown   compressionSettings `json:"scaledown"`
}

type appointmentPayload struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

type compressionSettings struct {
	Rate string `json:"rate"`
}

type compressResponse struct {
	Successful bool   `json:"successful"`
	Error      string `json:"error"`
	Results    *struct {
		CompressedPrompt *string `json:"compressed_prompt"`
	} `json:"results"`
}

// Compress sends the instruction and appointment to the API and returns the
// compressed reminder context. The request is attempted exactly once.
func (c *Client) Compress(ctx context.Context, instruction string, appointment application.Appointment) (string, error) {
	if c == nil {
		return "", errors.New("compressor client is nil")
	}

	body, err := json.Marshal(compressRequest{
		Context: instruction,
		Appointment: appointmentPayload{
			Title:    appointment.Title,
			Date:     appointment.Date,
			Time:     appointment.Time,
			Location: appointment.Location,
			Notes:    appointment.Notes,
		},
		Prompt:    reminderPrompt,
		Scaledown: compressionSettings{Rate: "auto"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("compressor request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.DebugContext(ctx, "compressor responded", "status", resp.StatusCode, "duration", time.Since(start))

	var result compressResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return "", fmt.Errorf("compressor API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		}
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if !result.Successful {
		message := strings.TrimSpace(result.Error)
		if message == "" {
			message = fallbackReason
		}
		return "", &ReplyError{Message: message}
	}

	if result.Results == nil || result.Results.CompressedPrompt == nil {
		return "", errors.New("failed to parse response: missing results.compressed_prompt")
	}

	return *result.Results.CompressedPrompt, nil
}

// Disabled skips enrichment and reports an empty context. It stands in for
// the client when no API key is configured.
type Disabled struct{}

// Compress implements application.ContextCompressor.
func (Disabled) Compress(context.Context, string, application.Appointment) (string, error) {
	return "", nil
}
