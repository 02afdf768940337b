package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/scheduler"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/store"
)

// ReviewService runs the review path: grade validation, scheduler
// transition, and the single store transaction that persists the result.
type ReviewService struct {
	store    *store.Store
	selector *scheduler.Selector
}

// NewReviewService creates a ReviewService.
func NewReviewService(st *store.Store) *ReviewService {
	return &ReviewService{store: st, selector: scheduler.NewSelector(st)}
}

// SubmitReviewRequest carries one graded review.
type SubmitReviewRequest struct {
	ItemType  models.ItemKind
	ItemID    int64
	Grade     int
	SessionID string
}

// SubmitReview applies one graded review. For an item with no card yet the
// initial state is synthesized and the card row created inside the same
// transaction as the review event and session counters.
func (s *ReviewService) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*models.ReviewResult, error) {
	if err := req.ItemType.Validate(); err != nil {
		return nil, NewValidationError("item_type", err.Error())
	}
	grade := scheduler.Grade(req.Grade)
	if err := grade.Validate(); err != nil {
		return nil, NewValidationError("score", err.Error())
	}
	if req.SessionID == "" {
		return nil, NewValidationError("session_id", "required")
	}

	// The item must exist before a card can be made for it.
	if err := s.checkItemExists(ctx, req.ItemType, req.ItemID); err != nil {
		return nil, err
	}

	sess, err := s.store.GetStudySession(ctx, req.SessionID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if sess.EndedAt != nil {
		return nil, NewValidationError("session_id", "session is already closed")
	}

	card, err := s.store.GetCard(ctx, req.ItemType, req.ItemID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, mapStoreError(err)
	}

	now := time.Now().UTC()
	today := models.Today()
	card = scheduler.Apply(card, req.ItemType, req.ItemID, grade, today, now)

	correct, incorrect, err := s.store.ReviewTransaction(ctx, card, req.Grade, req.SessionID, now)
	if err != nil {
		return nil, mapStoreError(err)
	}

	return &models.ReviewResult{
		Card:             *card,
		NextDue:          card.DueDate,
		SessionCorrect:   correct,
		SessionIncorrect: incorrect,
	}, nil
}

// DueCards lists cards due today, most overdue first.
func (s *ReviewService) DueCards(ctx context.Context, f store.DueFilter) ([]models.DueCard, error) {
	cards, err := s.selector.DueCards(ctx, models.Today(), f)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return cards, nil
}

// NewCards lists unseen items up to the remaining daily intake allowance.
func (s *ReviewService) NewCards(ctx context.Context, f store.DueFilter) ([]models.Item, error) {
	items, err := s.selector.NewCandidates(ctx, models.Today(), f)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return items, nil
}

func (s *ReviewService) checkItemExists(ctx context.Context, kind models.ItemKind, id int64) error {
	var err error
	switch kind {
	case models.KindVocab:
		_, err = s.store.GetVocab(ctx, id)
	case models.KindKanji:
		_, err = s.store.GetKanji(ctx, id)
	}
	if err != nil {
		return mapStoreError(err)
	}
	return nil
}

// mapStoreError translates store sentinels into the service taxonomy.
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}
