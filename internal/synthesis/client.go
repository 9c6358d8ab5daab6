// Package synthesis provides the client for the external speech-synthesis
// service. The service accepts marked-up text and returns raw single-channel
// linear-PCM sample bytes at the requested rate; container framing is done
// on this side.
package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/book-expert/ivr-service/internal/core"
)

// API endpoints and paths.
const (
	apiSynthesize = "/v1/synthesize"
	apiHealth     = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
	contentTypePCM    = "audio/l16"
)

// outputFormatPCM requests raw linear-PCM sample bytes from the service.
const outputFormatPCM = "pcm"

// Static errors.
var (
	ErrTextEmpty      = errors.New("text cannot be empty")
	ErrEmptyAudioData = errors.New("received empty audio data")
)

// Error messages.
const (
	errFmtUnexpectedContentType = "unexpected content type: expected %s, got %s"
	errFmtServiceErrorWithCode  = "synthesis service error (%s): %s (code: %s)"
	errFmtServiceNonOKStatus    = "synthesis service returned non-OK status: %s, body: %s"
)

// HTTPClient is a client for the speech-synthesis HTTP service. It implements
// the core.Synthesizer interface.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

// request defines the JSON payload for a synthesis call.
type request struct {
	Text         string `json:"text"`
	TextType     string `json:"text_type"`
	Voice        string `json:"voice"`
	Language     string `json:"language"`
	OutputFormat string `json:"output_format"`
	SampleRateHz int    `json:"sample_rate_hz"`
}

// errorResponse represents a structured JSON error from the service.
type errorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

// NewHTTPClient creates a client for the synthesis service at baseURL. The
// timeout applies to every request made by the client.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Synthesize sends one synthesis request and returns the raw PCM sample
// bytes. Each call is a single attempt; retry policy belongs to the caller.
func (c *HTTPClient) Synthesize(ctx context.Context, req core.SynthesisRequest) ([]byte, error) {
	if req.Text == "" {
		return nil, ErrTextEmpty
	}

	requestBody, err := json.Marshal(request{
		Text:         req.Text,
		TextType:     req.TextType,
		Voice:        req.Voice,
		Language:     req.Language,
		OutputFormat: outputFormatPCM,
		SampleRateHz: req.SampleRateHz,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + apiSynthesize

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypePCM)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to send request to synthesis service at %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	contentType := resp.Header.Get(headerContentType)
	if contentType != contentTypePCM {
		return nil, fmt.Errorf(
			errFmtUnexpectedContentType,
			contentTypePCM,
			contentType,
		)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudioData
	}

	return audioData, nil
}

// HealthCheck verifies that the synthesis service is reachable and reports
// healthy. It is run once at startup to fail fast on misconfiguration.
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	url := c.baseURL + apiHealth

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf(
			"health check failed for service at %s: %w",
			c.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %s", resp.Status)
	}

	return nil
}

// parseErrorResponse attempts to decode a structured JSON error from the
// service, falling back to the raw body so diagnostics are preserved.
func (c *HTTPClient) parseErrorResponse(resp *http.Response) error {
	var errorResp errorResponse

	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	if err == nil {
		return fmt.Errorf(errFmtServiceErrorWithCode,
			resp.Status, errorResp.Detail, errorResp.ErrorCode)
	}

	// Fallback to raw response for non-JSON errors.
	body, _ := io.ReadAll(resp.Body)

	return fmt.Errorf(
		errFmtServiceNonOKStatus,
		resp.Status,
		string(body),
	)
}
