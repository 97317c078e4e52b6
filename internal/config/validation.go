package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/quietst00rm/seller-zenith-44/internal/models"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// Validate validates the configuration and returns validation errors.
// A missing chat API key is not an error: the chat endpoint then answers
// 503.
func (c *Config) Validate() []error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		add("server.port", "port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RequestTimeoutSec < 0 {
		add("server.request_timeout_sec", "must be non-negative, got %d", c.Server.RequestTimeoutSec)
	}
	if c.Server.MaxBodyBytes <= 0 {
		add("server.max_body_bytes", "must be positive, got %d", c.Server.MaxBodyBytes)
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level", "invalid level %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		add("logging.format", "must be json or console, got %q", c.Logging.Format)
	}

	if c.Data.ReferenceDate != "" {
		if _, err := models.ParseDate(c.Data.ReferenceDate); err != nil {
			add("data.reference_date", "must be YYYY-MM-DD, got %q", c.Data.ReferenceDate)
		}
	}

	if c.Violations.SLAThresholdDays < 1 {
		add("violations.sla_threshold_days", "must be at least 1, got %d", c.Violations.SLAThresholdDays)
	}
	if c.Violations.CacheSize < 0 {
		add("violations.cache_size", "must be non-negative, got %d", c.Violations.CacheSize)
	}

	if u, err := url.Parse(c.Chat.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		add("chat.base_url", "must be an absolute URL, got %q", c.Chat.BaseURL)
	}
	if strings.TrimSpace(c.Chat.Model) == "" {
		add("chat.model", "model is required")
	}
	if c.Chat.MaxTokens < 1 {
		add("chat.max_tokens", "must be positive, got %d", c.Chat.MaxTokens)
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		add("chat.temperature", "must be between 0 and 2, got %g", c.Chat.Temperature)
	}
	if c.Chat.HistoryLimit < 0 {
		add("chat.history_limit", "must be non-negative, got %d", c.Chat.HistoryLimit)
	}
	if c.Chat.RateLimitPerSec < 0 || c.Chat.RateLimitBurst < 0 {
		add("chat.rate_limit_per_sec", "rate and burst must be non-negative")
	}

	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		add("tracing.sampling_rate", "must be between 0 and 1, got %g", c.Tracing.SamplingRate)
	}
	return errs
}

// Join folds validation errors into one error, or nil when there are none.
func Join(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
}
