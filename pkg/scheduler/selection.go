package scheduler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/store"
)

// Selector answers the two scheduling queries: which cards are due, and
// which unseen items may still be introduced today under the intake cap.
type Selector struct {
	store *store.Store
}

// NewSelector creates a Selector over the store.
func NewSelector(st *store.Store) *Selector {
	return &Selector{store: st}
}

// DueCards returns cards due on or before today, most overdue first.
// Overdue reviews are never rate-limited; the limit here is only the
// caller's page size.
func (s *Selector) DueCards(ctx context.Context, today models.CivilDate, f store.DueFilter) ([]models.DueCard, error) {
	return s.store.SelectDueCards(ctx, today, f)
}

// NewCandidates returns unseen items up to the remaining daily intake
// allowance: min(requested, max(0, cap - introduced today)). The cap comes
// from the new_cards_per_day meta entry; cards introduced today are counted
// by their created_at date.
func (s *Selector) NewCandidates(ctx context.Context, today models.CivilDate, f store.DueFilter) ([]models.Item, error) {
	cap, err := s.dailyCap(ctx)
	if err != nil {
		return nil, err
	}

	used, err := s.store.CountCardsCreatedOn(ctx, today)
	if err != nil {
		return nil, err
	}

	remaining := cap - used
	if remaining <= 0 {
		return []models.Item{}, nil
	}
	if f.Limit <= 0 || f.Limit > remaining {
		f.Limit = remaining
	}

	return s.store.SelectNewItems(ctx, f)
}

func (s *Selector) dailyCap(ctx context.Context) (int, error) {
	raw, err := s.store.GetMeta(ctx, models.MetaKeyNewCardsPerDay)
	if err != nil {
		return 0, err
	}
	cap, err := strconv.Atoi(raw)
	if err != nil || cap < 0 {
		return 0, fmt.Errorf("invalid %s value %q", models.MetaKeyNewCardsPerDay, raw)
	}
	return cap, nil
}
