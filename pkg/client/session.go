package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quietst00rm/seller-zenith-44/internal/llm/types"
)

// FallbackReply is appended as the assistant turn when a chat request fails.
const FallbackReply = "I apologize, but I encountered an error processing your request. Please try again in a moment."

// DefaultSessionHistory is how many prior turns a session sends with each message.
const DefaultSessionHistory = 10

var (
	// ErrBusy is returned by Send while a previous message is in flight.
	ErrBusy = errors.New("a message is already being sent")
	// ErrEmptyMessage is returned by Send for blank input.
	ErrEmptyMessage = errors.New("message is empty")
)

// QuickQuestions are the canned prompts offered by the chat panel.
var QuickQuestions = []string{
	"What's my biggest risk right now?",
	"How can I improve my ODR?",
	"Show me my urgent cases",
	"What should I prioritize today?",
	"Help me understand my health score",
	"Analyze my recent performance",
}

// Chatter sends one chat turn. *Client implements it.
type Chatter interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Turn is one entry of a session transcript.
type Turn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// Failed marks a fallback reply.
	Failed bool `json:"failed,omitempty"`
}

// Session is an in-memory chat transcript. Only one message may be in
// flight at a time.
type Session struct {
	chat  Chatter
	limit int
	now   func() time.Time

	mu      sync.Mutex
	turns   []Turn
	busy    bool
	lastCtx *AccountContext
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithWelcome seeds the transcript with an assistant greeting.
func WithWelcome(text string) SessionOption {
	return func(s *Session) {
		s.turns = append(s.turns, Turn{ID: "welcome", Role: types.RoleAssistant, Content: text, Timestamp: s.now()})
	}
}

// WithHistoryLimit sets how many prior turns are sent with each message.
func WithHistoryLimit(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewSession starts an empty session backed by c.
func NewSession(c Chatter, opts ...SessionOption) *Session {
	s := &Session{chat: c, limit: DefaultSessionHistory, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send appends text as a user turn, asks the server for a reply and
// appends it. On failure the fallback reply is appended instead and the
// error is returned alongside it. Prior turns sent upstream exclude the
// new message.
func (s *Session) Send(ctx context.Context, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return Turn{}, ErrBusy
	}
	s.busy = true
	history := s.window()
	s.turns = append(s.turns, Turn{ID: "user-" + uuid.NewString(), Role: types.RoleUser, Content: text, Timestamp: s.now()})
	s.mu.Unlock()

	resp, err := s.chat.Chat(ctx, ChatRequest{Message: text, ConversationHistory: history})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	reply := Turn{Role: types.RoleAssistant, Timestamp: s.now()}
	if err != nil {
		reply.ID = "error-" + uuid.NewString()
		reply.Content = FallbackReply
		reply.Failed = true
	} else {
		reply.ID = "assistant-" + uuid.NewString()
		reply.Content = resp.Response
		ac := resp.AccountContext
		s.lastCtx = &ac
	}
	s.turns = append(s.turns, reply)
	return reply, err
}

// window returns the last limit turns as upstream messages. Callers hold mu.
func (s *Session) window() []Message {
	turns := s.turns
	if len(turns) > s.limit {
		turns = turns[len(turns)-s.limit:]
	}
	out := make([]Message, len(turns))
	for i, t := range turns {
		out[i] = Message{Role: t.Role, Content: t.Content}
	}
	return out
}

// Busy reports whether a message is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Turns returns a copy of the transcript.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// AccountContext returns the account data the last successful reply was
// grounded on, or nil.
func (s *Session) AccountContext() *AccountContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCtx
}
