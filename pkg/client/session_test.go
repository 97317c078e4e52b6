package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedChatter replies with a fixed text or error. When gate is set
// it blocks until the gate is closed.
type scriptedChatter struct {
	reply   string
	err     error
	gate    chan struct{}
	started chan struct{}
	reqs    []ChatRequest
}

func (s *scriptedChatter) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	s.reqs = append(s.reqs, req)
	if s.started != nil {
		close(s.started)
	}
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return nil, s.err
	}
	resp := &ChatResponse{Response: s.reply}
	resp.AccountContext.SellerID = "A1B2C3D4E5F6G7"
	return resp, nil
}

func TestSessionSend(t *testing.T) {
	sc := &scriptedChatter{reply: "Start with C004."}
	s := NewSession(sc, WithWelcome("Hello!"))

	turn, err := s.Send(context.Background(), "  What first?  ")
	require.NoError(t, err)
	assert.Equal(t, "Start with C004.", turn.Content)
	assert.False(t, turn.Failed)

	require.Len(t, sc.reqs, 1)
	assert.Equal(t, "What first?", sc.reqs[0].Message)
	assert.Equal(t, []Message{{Role: "assistant", Content: "Hello!"}}, sc.reqs[0].ConversationHistory)

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "user", turns[1].Role)
	assert.Equal(t, "assistant", turns[2].Role)
	require.NotNil(t, s.AccountContext())
	assert.Equal(t, "A1B2C3D4E5F6G7", s.AccountContext().SellerID)
}

func TestSessionFallback(t *testing.T) {
	s := NewSession(&scriptedChatter{err: errors.New("status 502")})

	turn, err := s.Send(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, FallbackReply, turn.Content)
	assert.True(t, turn.Failed)
	assert.Len(t, s.Turns(), 2)
	assert.False(t, s.Busy())
	assert.Nil(t, s.AccountContext())
}

func TestSessionEmptyMessage(t *testing.T) {
	sc := &scriptedChatter{}
	s := NewSession(sc)
	_, err := s.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, sc.reqs)
	assert.Empty(t, s.Turns())
}

func TestSessionBusy(t *testing.T) {
	sc := &scriptedChatter{reply: "ok", gate: make(chan struct{}), started: make(chan struct{})}
	s := NewSession(sc)

	done := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), "first")
		done <- err
	}()
	<-sc.started
	assert.True(t, s.Busy())

	_, err := s.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(sc.gate)
	require.NoError(t, <-done)
	assert.False(t, s.Busy())
	assert.Len(t, s.Turns(), 2)
}

func TestSessionHistoryWindow(t *testing.T) {
	sc := &scriptedChatter{reply: "ok"}
	s := NewSession(sc, WithHistoryLimit(4))
	for i := 0; i < 4; i++ {
		_, err := s.Send(context.Background(), fmt.Sprintf("q%d", i))
		require.NoError(t, err)
	}

	last := sc.reqs[len(sc.reqs)-1]
	require.Len(t, last.ConversationHistory, 4)
	assert.Equal(t, Message{Role: "user", Content: "q1"}, last.ConversationHistory[0])
	assert.Equal(t, Message{Role: "assistant", Content: "ok"}, last.ConversationHistory[3])
}
