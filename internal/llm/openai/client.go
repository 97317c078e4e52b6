// Package openai calls the OpenAI chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/quietst00rm/seller-zenith-44/internal/llm/types"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/metrics"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second

	// maxErrorBody caps how much of an error response is kept in the error.
	maxErrorBody = 512
)

// Options tunes a Client. Zero values fall back to the defaults above.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature *float64
	BaseURL     string
	Timeout     time.Duration
}

// Client implements types.Completer for OpenAI.
type Client struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	baseURL     string
	httpClient  *http.Client
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("OpenAI API error (status %d): %s", e.StatusCode, e.Message)
}

// NewClient creates a new OpenAI client with configuration.
func NewClient(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	c := &Client{
		apiKey:      apiKey,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: DefaultTemperature,
		baseURL:     opts.BaseURL,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	if opts.Temperature != nil {
		c.temperature = *opts.Temperature
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c.httpClient = &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return c, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// SetBaseURL overrides the OpenAI API base URL. Used in tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// Complete sends the conversation to /chat/completions and returns the
// first choice's content.
func (c *Client) Complete(ctx context.Context, messages []types.Message) (string, error) {
	start := time.Now()
	content, err := c.complete(ctx, messages)
	metrics.ChatUpstreamDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ChatUpstreamRequestsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.ChatUpstreamRequestsTotal.WithLabelValues("ok").Inc()
	return content, nil
}

func (c *Client) complete(ctx context.Context, messages []types.Message) (string, error) {
	openAIMessages := make([]openAIMessage, len(messages))
	for i, msg := range messages {
		openAIMessages[i] = openAIMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	request := openAIChatRequest{
		Model:       c.model,
		Messages:    openAIMessages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	response, err := c.makeRequest(ctx, "chat/completions", request)
	if err != nil {
		return "", fmt.Errorf("OpenAI API request failed: %w", err)
	}

	var chatResponse openAIChatResponse
	if err := json.Unmarshal(response, &chatResponse); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI response: %w", err)
	}
	if len(chatResponse.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}
	return chatResponse.Choices[0].Message.Content, nil
}

// makeRequest makes an HTTP request to the OpenAI API.
func (c *Client) makeRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	requestURL, err := url.JoinPath(c.baseURL, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to join url path: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(responseBody)}
	}
	return responseBody, nil
}

// errorMessage extracts the API's error message, falling back to a
// truncated raw body.
func errorMessage(body []byte) string {
	var e openAIErrorResponse
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
