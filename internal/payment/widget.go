package payment

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// SuccessPayload carries the provider fields delivered by a completed widget.
type SuccessPayload struct {
	PaymentID string `json:"payment_id" validate:"required"`
	OrderID   string `json:"order_id"`
	Signature string `json:"signature"`
}

// Outcome is the terminal result of one widget session: either the widget
// completed with a payload or the shopper dismissed it.
type Outcome struct {
	Completed bool
	Payload   SuccessPayload
}

// Session is a single-shot widget attempt. It resolves exactly once through
// one of its two terminal callbacks and is never reused across attempts.
type Session struct {
	id string

	mu       sync.Mutex
	resolved bool
	outcome  chan Outcome
}

func newSession() *Session {
	return &Session{
		id:      uuid.NewString(),
		outcome: make(chan Outcome, 1),
	}
}

// ID identifies the attempt this session belongs to.
func (s *Session) ID() string {
	return s.id
}

// Succeed resolves the session with the provider payload. Returns false when
// the session already resolved.
func (s *Session) Succeed(payload SuccessPayload) bool {
	return s.resolve(Outcome{Completed: true, Payload: payload})
}

// Dismiss resolves the session as abandoned by the shopper. Returns false
// when the session already resolved.
func (s *Session) Dismiss() bool {
	return s.resolve(Outcome{})
}

func (s *Session) resolve(outcome Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolved {
		return false
	}
	s.resolved = true
	s.outcome <- outcome
	return true
}

// Wait blocks until the session resolves or the context ends.
func (s *Session) Wait(ctx context.Context) (Outcome, error) {
	select {
	case outcome := <-s.outcome:
		return outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
