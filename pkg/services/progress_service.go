package services

import (
	"context"
	"math"
	"time"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/store"
)

// streakWindow bounds how many distinct review days the streak walk loads.
const streakWindow = 366

// forecastDays is the length of the forward review forecast.
const forecastDays = 7

// ProgressService computes the dashboard aggregates: streak, all-time
// accuracy, per-level maturity counts, and the 7-day forecast.
type ProgressService struct {
	store *store.Store
}

// NewProgressService creates a ProgressService.
func NewProgressService(st *store.Store) *ProgressService {
	return &ProgressService{store: st}
}

// Report assembles the full progress payload. "Today" is resolved once and
// reused by every sub-aggregate.
func (s *ProgressService) Report(ctx context.Context) (*models.ProgressReport, error) {
	today := models.Today()

	_, offsetSeconds := time.Now().Zone()
	days, err := s.store.ReviewCountsByDay(ctx, offsetSeconds/60, streakWindow)
	if err != nil {
		return nil, mapStoreError(err)
	}

	correct, total, err := s.store.AccuracyTotals(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}

	levels, err := s.store.LevelStats(ctx, today)
	if err != nil {
		return nil, mapStoreError(err)
	}

	forecast, err := s.store.DueForecast(ctx, today, forecastDays)
	if err != nil {
		return nil, mapStoreError(err)
	}

	return &models.ProgressReport{
		StreakDays: streak(days, today),
		Accuracy:   accuracy(correct, total),
		Levels:     levels,
		Forecast:   forecast,
	}, nil
}

// streak counts consecutive review days walking back from today. A quiet
// today does not break the chain: the walk may start at yesterday.
func streak(days []models.DayReviewCount, today models.CivilDate) int {
	reviewed := make(map[models.CivilDate]bool, len(days))
	for _, d := range days {
		if d.Count > 0 {
			reviewed[d.Date] = true
		}
	}

	cursor := today
	if !reviewed[cursor] {
		cursor = cursor.AddDays(-1)
	}

	count := 0
	for reviewed[cursor] {
		count++
		cursor = cursor.AddDays(-1)
	}
	return count
}

// accuracy returns the all-time percentage of correct reviews, rounded to
// one decimal place. Zero reviews yields zero.
func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(1000*float64(correct)/float64(total)) / 10
}
