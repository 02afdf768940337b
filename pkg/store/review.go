package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
)

// ReviewTransaction persists one graded review atomically: the updated (or
// newly created) card, the append-only review event, and the session
// counters all land in a single transaction. If any write fails, nothing
// changes.
//
// Returns the session's correct/incorrect tallies after the increment.
func (s *Store) ReviewTransaction(ctx context.Context, card *models.MemoryCard, grade int, sessionID string, now time.Time) (correct, incorrect int, err error) {
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if card.ID == 0 {
			if err := s.createCard(ctx, tx, card); err != nil {
				return err
			}
		} else {
			if err := s.updateCard(ctx, tx, card); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO review_events (session_id, card_id, grade, timestamp)
			 VALUES ($1, $2, $3, $4)`,
			sessionID, card.ID, grade, now); err != nil {
			return mapError("insert review event", err)
		}

		correctDelta, incorrectDelta := 0, 0
		if grade >= 3 {
			correctDelta = 1
		} else {
			incorrectDelta = 1
		}

		row := tx.QueryRowContext(ctx,
			`UPDATE study_sessions
			 SET cards_reviewed = cards_reviewed + 1,
			     correct_count = correct_count + $1,
			     incorrect_count = incorrect_count + $2
			 WHERE id = $3
			 RETURNING correct_count, incorrect_count`,
			correctDelta, incorrectDelta, sessionID)
		if err := row.Scan(&correct, &incorrect); err != nil {
			return mapError("update session counters", err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return correct, incorrect, nil
}

// ReviewEventsForCard returns a card's full review chain in timestamp
// order. Replaying it through the scheduler transition reconstructs the
// card's stored state.
func (s *Store) ReviewEventsForCard(ctx context.Context, cardID int64) ([]models.ReviewEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, card_id, grade, timestamp
		 FROM review_events WHERE card_id = $1 ORDER BY timestamp, id`,
		cardID)
	if err != nil {
		return nil, mapError("list review events", err)
	}
	defer rows.Close()

	var events []models.ReviewEvent
	for rows.Next() {
		var e models.ReviewEvent
		if err := rows.Scan(&e.ID, &e.SessionID, &e.CardID, &e.Grade, &e.Timestamp); err != nil {
			return nil, mapError("scan review event", err)
		}
		events = append(events, e)
	}
	return events, mapError("list review events", rows.Err())
}
