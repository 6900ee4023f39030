package vsdc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// SuccessCode is the VSDC result code for an accepted exchange.
const SuccessCode = "000"

// livenessMarker is the substring the service root returns when up.
// Heuristic health check, not a protocol handshake.
const livenessMarker = "VSDC Service Time:"

// Result is the envelope every VSDC endpoint responds with.
type Result struct {
	ResultCd  string          `json:"resultCd"`
	ResultMsg string          `json:"resultMsg"`
	ResultDt  string          `json:"resultDt"`
	Data      json.RawMessage `json:"data,omitempty"`

	// Raw is the undecoded response body, kept for the document record.
	Raw []byte `json:"-"`
}

// OK reports whether the exchange was accepted.
func (r *Result) OK() bool {
	return r != nil && r.ResultCd == SuccessCode
}

// Client issues authenticated calls against the VSDC service.
type Client struct {
	BaseURL     string
	MaxAttempts int
	BaseDelay   time.Duration

	httpClient  *http.Client
	probeClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		probeClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Post sends a JSON payload and decodes the VSDC result envelope.
// A non-2xx status is an error; the 10s client timeout bounds the call.
func (c *Client) Post(ctx context.Context, url string, payload interface{}) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("vsdc: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vsdc: %s returned status %d", url, resp.StatusCode)
	}

	result := &Result{Raw: raw}
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, fmt.Errorf("vsdc: decode response from %s: %w", url, err)
	}
	return result, nil
}

// RetryPost retries Post with exponential backoff (BaseDelay * 2^attempt),
// up to MaxAttempts attempts. The last attempt's error propagates unmodified.
func (c *Client) RetryPost(ctx context.Context, url string, payload interface{}) (*Result, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := c.BaseDelay
	if delay <= 0 {
		delay = time.Second
	}

	var result *Result
	var err error
	for i := 0; i < attempts; i++ {
		result, err = c.Post(ctx, url, payload)
		if err == nil {
			return result, nil
		}
		if i == attempts-1 {
			break
		}
		wait := delay * (1 << i)
		log.Printf("vsdc: retrying %s in %s (attempt %d/%d)", url, wait, i+2, attempts)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, err
}

// CheckAvailability probes the service root. True iff the response body
// contains the liveness marker.
func (c *Client) CheckAvailability(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.probeClient.Do(req)
	if err != nil {
		log.Printf("vsdc: server unavailable: %v", err)
		return false
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false
	}
	running := strings.Contains(string(body), livenessMarker)
	log.Printf("vsdc: server check: %s is %s", c.BaseURL, map[bool]string{true: "available", false: "unavailable"}[running])
	return running
}
