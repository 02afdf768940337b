package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
)

// CreateSession opens a study session.
func (s *Store) CreateSession(ctx context.Context, id string, now time.Time) (*models.StudySession, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO study_sessions (id, started_at) VALUES ($1, $2)`, id, now)
	if err != nil {
		return nil, mapError("create session", err)
	}
	return &models.StudySession{ID: id, StartedAt: now}, nil
}

// GetStudySession returns a session by id.
func (s *Store) GetStudySession(ctx context.Context, id string) (*models.StudySession, error) {
	var sess models.StudySession
	var endedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, ended_at, cards_reviewed, correct_count, incorrect_count
		 FROM study_sessions WHERE id = $1`, id).
		Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.CardsReviewed,
			&sess.CorrectCount, &sess.IncorrectCount)
	if err != nil {
		return nil, mapError("get session", err)
	}
	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}
	return &sess, nil
}

// CloseSession sets ended_at on an open session. Closing an already-closed
// session is a no-op; an unknown id is ErrNotFound.
func (s *Store) CloseSession(ctx context.Context, id string, now time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE study_sessions SET ended_at = $1 WHERE id = $2 AND ended_at IS NULL`,
		now, id)
	if err != nil {
		return mapError("close session", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("close session", err)
	}
	if n == 0 {
		// Distinguish "already closed" from "no such session".
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM study_sessions WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return mapError("close session", err)
		}
		if !exists {
			return mapError("close session", sql.ErrNoRows)
		}
	}
	return nil
}

// SweepOpenSessions closes every session still open at cutoff. Sessions
// close at their latest review event's timestamp, falling back to
// started_at when no reviews were logged. Running the sweep twice is a
// no-op the second time.
func (s *Store) SweepOpenSessions(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE study_sessions ss
		 SET ended_at = COALESCE(
		     (SELECT max(re.timestamp) FROM review_events re WHERE re.session_id = ss.id),
		     ss.started_at)
		 WHERE ss.ended_at IS NULL AND ss.started_at <= $1`,
		cutoff)
	if err != nil {
		return 0, mapError("sweep open sessions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapError("sweep open sessions", err)
	}
	return int(n), nil
}
