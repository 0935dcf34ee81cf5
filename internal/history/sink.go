package history

import (
	"context"

	"github.com/nerrad567/gray-logic-home/internal/homecontrol"
)

// Sink records every dispatched event under one session id.
type Sink struct {
	repo      *Repository
	sessionID string
}

// NewSink returns an events.Sink backed by repo.
func NewSink(repo *Repository, sessionID string) *Sink {
	return &Sink{repo: repo, sessionID: sessionID}
}

// Name implements events.Sink.
func (s *Sink) Name() string { return "history" }

// Handle implements events.Sink.
func (s *Sink) Handle(ctx context.Context, ev homecontrol.Event) error {
	return s.repo.Record(ctx, s.sessionID, ev)
}

// SessionID returns the session the sink records under.
func (s *Sink) SessionID() string { return s.sessionID }
