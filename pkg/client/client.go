// Package client is a Go client for the seller account-health API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/quietst00rm/seller-zenith-44/internal/chat"
	"github.com/quietst00rm/seller-zenith-44/internal/llm/types"
	"github.com/quietst00rm/seller-zenith-44/internal/models"
	"github.com/quietst00rm/seller-zenith-44/internal/service"
	"github.com/quietst00rm/seller-zenith-44/internal/violations"
)

// Re-exported API types.
type (
	Issue           = models.Issue
	ViewState       = violations.ViewState
	Summary         = violations.Summary
	Breakdown       = violations.Breakdown
	ViolationList   = service.ViolationList
	AccountOverview = service.AccountOverview
	Message         = types.Message
	ChatRequest     = chat.Request
	ChatResponse    = chat.Response
	AccountContext  = chat.AccountContext
	EstimateRequest = violations.EstimateRequest
	Estimate        = violations.Estimate
	ViolationClass  = violations.ViolationClass
)

const (
	DefaultTimeout = 60 * time.Second
	apiPrefix      = "api/v1"
)

// ErrNotFound is matched by errors.Is for 404 responses.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
	Details    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error (status %d", e.StatusCode)
	if e.Code != "" {
		msg += ", " + e.Code
	}
	msg += "): " + e.Message
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to one API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default traced HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL (e.g. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListViolations returns the violations matching view, sorted and summarized.
func (c *Client) ListViolations(ctx context.Context, view ViewState) (*ViolationList, error) {
	var out ViolationList
	if err := c.get(ctx, "violations", view.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summary returns the dashboard KPIs for the violations matching view.
func (c *Client) Summary(ctx context.Context, view ViewState) (*Summary, error) {
	var out Summary
	if err := c.get(ctx, "violations/summary", view.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Breakdown returns the analytics breakdown for the violations matching view.
func (c *Client) Breakdown(ctx context.Context, view ViewState) (*Breakdown, error) {
	var out Breakdown
	if err := c.get(ctx, "violations/breakdown", view.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Violation returns one case with its activity log.
func (c *Client) Violation(ctx context.Context, id string) (*Issue, error) {
	var out Issue
	if err := c.get(ctx, "violations/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AccountOverview returns the account health snapshot.
func (c *Client) AccountOverview(ctx context.Context) (*AccountOverview, error) {
	var out AccountOverview
	if err := c.get(ctx, "account/overview", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends one chat turn.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.do(ctx, http.MethodPost, "chat", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Estimate projects the sales lost while a listing is suppressed.
func (c *Client) Estimate(ctx context.Context, req EstimateRequest) (*Estimate, error) {
	var out Estimate
	if err := c.do(ctx, http.MethodPost, "estimate", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EstimateTypes lists the violation classes Estimate accepts.
func (c *Client) EstimateTypes(ctx context.Context) ([]ViolationClass, error) {
	var out []ViolationClass
	if err := c.get(ctx, "estimate/types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, query, nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, payload, out interface{}) error {
	requestURL, err := url.JoinPath(c.baseURL, apiPrefix, endpoint)
	if err != nil {
		return fmt.Errorf("failed to join url path: %w", err)
	}
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError reads either error body shape the server emits: the
// structured {error, code, message, details{}} or the chat {error, details}.
func decodeError(status int, raw []byte) error {
	apiErr := &APIError{StatusCode: status}
	var body struct {
		Error     string          `json:"error"`
		Code      string          `json:"code"`
		Message   string          `json:"message"`
		RequestID string          `json:"request_id"`
		Details   json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}
	apiErr.Code = body.Code
	apiErr.RequestID = body.RequestID
	apiErr.Message = body.Error
	if apiErr.Message == "" {
		apiErr.Message = body.Message
	}
	if len(body.Details) > 0 {
		var s string
		if json.Unmarshal(body.Details, &s) == nil {
			apiErr.Details = s
		} else {
			apiErr.Details = string(body.Details)
		}
	}
	return apiErr
}
