package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/store"
)

// staleSessionAge is how old an open session must be before the startup
// sweep closes it.
const staleSessionAge = 24 * time.Hour

// SessionService manages study session lifecycle.
type SessionService struct {
	store *store.Store
}

// NewSessionService creates a SessionService.
func NewSessionService(st *store.Store) *SessionService {
	return &SessionService{store: st}
}

// Open starts a new study session and returns it.
func (s *SessionService) Open(ctx context.Context) (*models.StudySession, error) {
	sess, err := s.store.CreateSession(ctx, uuid.New().String(), time.Now().UTC())
	if err != nil {
		return nil, mapStoreError(err)
	}
	return sess, nil
}

// Close ends a session. Closing an already-closed session succeeds.
func (s *SessionService) Close(ctx context.Context, id string) error {
	if id == "" {
		return NewValidationError("id", "required")
	}
	if err := s.store.CloseSession(ctx, id, time.Now().UTC()); err != nil {
		return mapStoreError(err)
	}
	return nil
}

// SweepStale closes sessions left open for more than 24 hours, stamping
// each with its last review time (or its start time if it logged none).
// Called at startup; safe to run repeatedly.
func (s *SessionService) SweepStale(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-staleSessionAge)
	n, err := s.store.SweepOpenSessions(ctx, cutoff)
	if err != nil {
		return mapStoreError(err)
	}
	if n > 0 {
		slog.Info("Closed stale study sessions", "count", n)
	}
	return nil
}

// CloseAllOpen closes every session open now, stamping each with its last
// review time (or its start time if it logged none), as SweepStale does.
// Called on clean shutdown.
func (s *SessionService) CloseAllOpen(ctx context.Context) error {
	n, err := s.store.SweepOpenSessions(ctx, time.Now().UTC())
	if err != nil {
		return mapStoreError(err)
	}
	if n > 0 {
		slog.Info("Closed open study sessions on shutdown", "count", n)
	}
	return nil
}
