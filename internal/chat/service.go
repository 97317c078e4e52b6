// Package chat proxies account-health questions to a language model,
// grounding every conversation on the seller's account data.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/quietst00rm/seller-zenith-44/internal/llm/types"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/logger"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/tracing"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/validate"
	"github.com/quietst00rm/seller-zenith-44/internal/repository"
)

// DefaultHistoryLimit is how many prior turns are forwarded upstream.
const DefaultHistoryLimit = 10

var (
	ErrEmptyMessage    = errors.New("message is required")
	ErrMessageTooLong  = fmt.Errorf("message exceeds %d characters", validate.ChatMessageMaxLen)
	ErrInvalidEncoding = errors.New("message is not valid UTF-8")
	ErrInvalidRole     = errors.New("history role must be user or assistant")
	ErrNotConfigured   = errors.New("OpenAI API key not configured")
	ErrUpstream        = errors.New("chat completion failed")
)

// Request is a chat turn from the dashboard.
type Request struct {
	Message             string          `json:"message"`
	ConversationHistory []types.Message `json:"conversationHistory"`
}

// Response is the assistant's reply plus the data it was grounded on.
type Response struct {
	Response       string         `json:"response"`
	AccountContext AccountContext `json:"accountContext"`
}

// Options tunes the chat service.
type Options struct {
	HistoryLimit int
}

// Service answers chat requests. A nil completer means chat is not
// configured and every valid request fails with ErrNotConfigured.
type Service struct {
	completer    types.Completer
	accounts     repository.AccountRepository
	issues       repository.IssueRepository
	historyLimit int
	log          *zap.Logger
}

// NewService creates a chat service.
func NewService(completer types.Completer, accounts repository.AccountRepository, issues repository.IssueRepository, opts Options, log *zap.Logger) *Service {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		completer:    completer,
		accounts:     accounts,
		issues:       issues,
		historyLimit: opts.HistoryLimit,
		log:          log,
	}
}

// Configured reports whether a completion backend is available.
func (s *Service) Configured() bool { return s.completer != nil }

// Reply validates req, grounds it on the current account data and asks the
// model for the next assistant turn. Input errors are returned before any
// upstream call.
func (s *Service) Reply(ctx context.Context, req Request) (*Response, error) {
	ctx, span := tracing.StartSpan(ctx, "chat.Reply")
	defer span.End()

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, ErrEmptyMessage
	}
	if !utf8.ValidString(msg) {
		return nil, ErrInvalidEncoding
	}
	if !validate.ChatMessage(msg) {
		return nil, ErrMessageTooLong
	}
	history, err := TrimHistory(req.ConversationHistory, s.historyLimit)
	if err != nil {
		return nil, err
	}
	if s.completer == nil {
		return nil, ErrNotConfigured
	}

	acct, err := s.accounts.Account(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	issues, err := s.issues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	accountCtx := BuildContext(acct, issues)

	messages := make([]types.Message, 0, len(history)+2)
	messages = append(messages, types.Message{Role: types.RoleSystem, Content: accountCtx.SystemPrompt()})
	messages = append(messages, history...)
	messages = append(messages, types.Message{Role: types.RoleUser, Content: msg})
	span.SetAttributes(attribute.Int("chat.message_count", len(messages)))

	log := logger.For(ctx, s.log)
	start := time.Now()
	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		log.Error("chat completion failed",
			zap.Int("message_count", len(messages)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	log.Info("chat completion",
		zap.Int("message_count", len(messages)),
		zap.Duration("duration", time.Since(start)),
	)

	return &Response{Response: reply, AccountContext: accountCtx}, nil
}

// TrimHistory keeps the last limit turns, reduced to role and content.
// Roles other than user and assistant are rejected.
func TrimHistory(history []types.Message, limit int) ([]types.Message, error) {
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]types.Message, 0, len(history))
	for i, m := range history {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if role != types.RoleUser && role != types.RoleAssistant {
			return nil, fmt.Errorf("%w: entry %d has role %q", ErrInvalidRole, i, m.Role)
		}
		out = append(out, types.Message{Role: role, Content: m.Content})
	}
	return out, nil
}
