package store

import (
	"context"
	"time"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
)

// ReviewCountsByDay returns per-day review counts over the trailing window,
// most recent day first. Days with no reviews are absent; the streak walk
// treats a gap as a break. Timestamps are shifted by offsetMinutes before
// bucketing so a 23:59 review counts toward the learner's local day.
func (s *Store) ReviewCountsByDay(ctx context.Context, offsetMinutes int, limit int) ([]models.DayReviewCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ((re.timestamp AT TIME ZONE 'UTC') + make_interval(mins => $1))::date AS review_date,
		        count(*) AS review_count
		 FROM review_events re
		 GROUP BY review_date
		 ORDER BY review_date DESC
		 LIMIT $2`,
		offsetMinutes, limit)
	if err != nil {
		return nil, mapError("review counts by day", err)
	}
	defer rows.Close()

	var counts []models.DayReviewCount
	for rows.Next() {
		var day time.Time
		var c models.DayReviewCount
		if err := rows.Scan(&day, &c.Count); err != nil {
			return nil, mapError("scan review count", err)
		}
		c.Date = models.DateOf(day)
		counts = append(counts, c)
	}
	return counts, mapError("review counts by day", rows.Err())
}

// AccuracyTotals returns the all-time correct (grade >= 3) and total review
// counts in one statement.
func (s *Store) AccuracyTotals(ctx context.Context) (correct, total int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT count(*) FILTER (WHERE grade >= 3), count(*) FROM review_events`).
		Scan(&correct, &total)
	if err != nil {
		return 0, 0, mapError("accuracy totals", err)
	}
	return correct, total, nil
}

// LevelStats computes per-level item totals and card maturity counts with
// one GROUP BY per table pair. Levels with no items still appear in the
// returned map with zero counts.
func (s *Store) LevelStats(ctx context.Context, today models.CivilDate) (map[models.JLPTLevel]models.LevelStats, error) {
	stats := make(map[models.JLPTLevel]models.LevelStats, len(models.Levels))
	for _, l := range models.Levels {
		stats[l] = models.LevelStats{}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT i.level,
		        count(*) AS total,
		        count(c.id) AS seen,
		        count(c.id) FILTER (WHERE c.interval_days >= 21) AS mastered,
		        count(c.id) FILTER (WHERE c.due_date <= $1) AS due_today
		 FROM (
		     SELECT id, 'vocab' AS item_type, level FROM vocab_items
		     UNION ALL
		     SELECT id, 'kanji' AS item_type, level FROM kanji_items WHERE level IS NOT NULL
		 ) i
		 LEFT JOIN memory_cards c ON c.item_type = i.item_type AND c.item_id = i.id
		 GROUP BY i.level`,
		today)
	if err != nil {
		return nil, mapError("level stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var ls models.LevelStats
		if err := rows.Scan(&level, &ls.Total, &ls.Seen, &ls.Mastered, &ls.DueToday); err != nil {
			return nil, mapError("scan level stats", err)
		}
		stats[models.JLPTLevel(level)] = ls
	}
	return stats, mapError("level stats", rows.Err())
}

// DueForecast returns, for each of the days [from, from+days), the count of
// cards due exactly on that date. Zero-count days are filled in.
func (s *Store) DueForecast(ctx context.Context, from models.CivilDate, days int) ([]models.ForecastDay, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT due_date, count(*)
		 FROM memory_cards
		 WHERE due_date >= $1 AND due_date < $2
		 GROUP BY due_date`,
		from, from.AddDays(days))
	if err != nil {
		return nil, mapError("due forecast", err)
	}
	defer rows.Close()

	byDate := make(map[models.CivilDate]int, days)
	for rows.Next() {
		var d models.CivilDate
		var count int
		if err := rows.Scan(&d, &count); err != nil {
			return nil, mapError("scan forecast", err)
		}
		byDate[d] = count
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("due forecast", err)
	}

	forecast := make([]models.ForecastDay, days)
	for i := 0; i < days; i++ {
		day := from.AddDays(i)
		forecast[i] = models.ForecastDay{Date: day, Due: byDate[day]}
	}
	return forecast, nil
}

// RecentReviewSurfaces returns the surface forms behind the most recent
// review events, newest first. Feeds the tutor prompt context.
func (s *Store) RecentReviewSurfaces(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT CASE c.item_type WHEN 'vocab' THEN v.surface ELSE k."character" END
		 FROM review_events re
		 JOIN memory_cards c ON re.card_id = c.id
		 LEFT JOIN vocab_items v ON c.item_type = 'vocab' AND c.item_id = v.id
		 LEFT JOIN kanji_items k ON c.item_type = 'kanji' AND c.item_id = k.id
		 ORDER BY re.timestamp DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, mapError("recent review surfaces", err)
	}
	defer rows.Close()

	var surfaces []string
	for rows.Next() {
		var surface *string
		if err := rows.Scan(&surface); err != nil {
			return nil, mapError("scan recent surface", err)
		}
		if surface != nil && *surface != "" {
			surfaces = append(surfaces, *surface)
		}
	}
	return surfaces, mapError("recent review surfaces", rows.Err())
}

// WeakestCards returns the lowest-ease cards with their surface forms,
// among cards with reps > 0. Cards whose last review was a lapse (reps 0)
// are not included. Feeds the tutor prompt context.
func (s *Store) WeakestCards(ctx context.Context, limit int) ([]models.WeakCard, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT CASE c.item_type WHEN 'vocab' THEN v.surface ELSE k."character" END,
		        c.ease_factor
		 FROM memory_cards c
		 LEFT JOIN vocab_items v ON c.item_type = 'vocab' AND c.item_id = v.id
		 LEFT JOIN kanji_items k ON c.item_type = 'kanji' AND c.item_id = k.id
		 WHERE c.reps > 0
		 ORDER BY c.ease_factor, c.id
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, mapError("weakest cards", err)
	}
	defer rows.Close()

	var weak []models.WeakCard
	for rows.Next() {
		var surface *string
		var w models.WeakCard
		if err := rows.Scan(&surface, &w.EaseFactor); err != nil {
			return nil, mapError("scan weak card", err)
		}
		if surface != nil {
			w.Surface = *surface
		}
		weak = append(weak, w)
	}
	return weak, mapError("weakest cards", rows.Err())
}
