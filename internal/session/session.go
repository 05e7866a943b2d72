// Package session provides server-side sessions: a principal binding, a
// single-slot post-login redirect target, and transient flash messages.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by a Store when no session exists for an id.
var ErrNotFound = errors.New("session: not found")

// Flash is a one-shot user-visible message.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session is the per-visitor state. UserID and Username are set at login.
// ReturnTo is a single slot, overwritten on every failed access attempt.
type Session struct {
	ID       string  `json:"id"`
	UserID   string  `json:"userId,omitempty"`
	Username string  `json:"username,omitempty"`
	ReturnTo string  `json:"returnTo,omitempty"`
	Flashes  []Flash `json:"flashes,omitempty"`
}

// New returns an empty session with a fresh id.
func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Flash queues a message for the next rendered view.
func (s *Session) Flash(kind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
}

// PopFlashes returns the queued messages and clears them.
func (s *Session) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}

// Store persists sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
