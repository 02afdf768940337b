package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
)

const cardColumns = `id, item_type, item_id, ease_factor, interval_days, reps, due_date, last_reviewed, created_at`

// GetCard returns the memory card for (itemType, itemID).
func (s *Store) GetCard(ctx context.Context, itemType models.ItemKind, itemID int64) (*models.MemoryCard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM memory_cards WHERE item_type = $1 AND item_id = $2`,
		string(itemType), itemID)
	card, err := scanCard(row)
	if err != nil {
		return nil, mapError("get card", err)
	}
	return card, nil
}

// CreateCard inserts a new memory card. A duplicate (item_type, item_id)
// pair returns ErrDuplicate; callers treat that as a programming error.
func (s *Store) CreateCard(ctx context.Context, card *models.MemoryCard) error {
	return s.createCard(ctx, s.db, card)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) createCard(ctx context.Context, db execer, card *models.MemoryCard) error {
	err := db.QueryRowContext(ctx,
		`INSERT INTO memory_cards
		   (item_type, item_id, ease_factor, interval_days, reps, due_date, last_reviewed, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		string(card.ItemType), card.ItemID, card.EaseFactor, card.IntervalDays,
		card.Reps, card.DueDate, card.LastReviewed, card.CreatedAt,
	).Scan(&card.ID)
	return mapError("create card", err)
}

func (s *Store) updateCard(ctx context.Context, db execer, card *models.MemoryCard) error {
	res, err := db.ExecContext(ctx,
		`UPDATE memory_cards
		 SET ease_factor = $1, interval_days = $2, reps = $3, due_date = $4, last_reviewed = $5
		 WHERE id = $6`,
		card.EaseFactor, card.IntervalDays, card.Reps, card.DueDate,
		card.LastReviewed, card.ID)
	if err != nil {
		return mapError("update card", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("update card", err)
	}
	if n == 0 {
		return mapError("update card", sql.ErrNoRows)
	}
	return nil
}

// UpsertCard creates the card when it has no id yet, updates it otherwise.
func (s *Store) UpsertCard(ctx context.Context, card *models.MemoryCard) error {
	if card.ID == 0 {
		return s.createCard(ctx, s.db, card)
	}
	return s.updateCard(ctx, s.db, card)
}

// DueFilter narrows due-card and new-item selection.
type DueFilter struct {
	Level    *models.JLPTLevel
	ItemType *models.ItemKind
	Limit    int
}

// SelectDueCards returns cards with due_date <= today joined with their
// item, most overdue first, ties broken by card id. One query per item kind
// keeps the joins simple; the merge preserves the ordering guarantee.
func (s *Store) SelectDueCards(ctx context.Context, today models.CivilDate, f DueFilter) ([]models.DueCard, error) {
	var due []models.DueCard

	if f.ItemType == nil || *f.ItemType == models.KindVocab {
		cards, err := s.dueVocabCards(ctx, today, f)
		if err != nil {
			return nil, err
		}
		due = append(due, cards...)
	}
	if f.ItemType == nil || *f.ItemType == models.KindKanji {
		cards, err := s.dueKanjiCards(ctx, today, f)
		if err != nil {
			return nil, err
		}
		due = append(due, cards...)
	}

	sort.SliceStable(due, func(i, j int) bool {
		di, dj := due[i].Card.DueDate, due[j].Card.DueDate
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return due[i].Card.ID < due[j].Card.ID
	})
	if f.Limit > 0 && len(due) > f.Limit {
		due = due[:f.Limit]
	}
	return due, nil
}

func (s *Store) dueVocabCards(ctx context.Context, today models.CivilDate, f DueFilter) ([]models.DueCard, error) {
	query := `SELECT c.id, c.item_type, c.item_id, c.ease_factor, c.interval_days, c.reps,
	                 c.due_date, c.last_reviewed, c.created_at,
	                 v.surface, v.reading, v.gloss, v.level
	          FROM memory_cards c
	          JOIN vocab_items v ON c.item_id = v.id
	          WHERE c.item_type = 'vocab' AND c.due_date <= $1`
	args := []any{today}
	if f.Level != nil {
		args = append(args, string(*f.Level))
		query += ` AND v.level = $2`
	}
	query += ` ORDER BY c.due_date, c.id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("select due vocab cards", err)
	}
	defer rows.Close()

	var due []models.DueCard
	for rows.Next() {
		var d models.DueCard
		var level string
		if err := scanCardInto(rows, &d.Card,
			&d.Item.Surface, &d.Item.Reading, &d.Item.Gloss, &level); err != nil {
			return nil, mapError("scan due vocab card", err)
		}
		d.Item.Kind = models.KindVocab
		d.Item.ID = d.Card.ItemID
		l := models.JLPTLevel(level)
		d.Item.Level = &l
		due = append(due, d)
	}
	return due, mapError("select due vocab cards", rows.Err())
}

func (s *Store) dueKanjiCards(ctx context.Context, today models.CivilDate, f DueFilter) ([]models.DueCard, error) {
	query := `SELECT c.id, c.item_type, c.item_id, c.ease_factor, c.interval_days, c.reps,
	                 c.due_date, c.last_reviewed, c.created_at,
	                 k."character", k.on_readings, k.kun_readings, k.meanings, k.level
	          FROM memory_cards c
	          JOIN kanji_items k ON c.item_id = k.id
	          WHERE c.item_type = 'kanji' AND c.due_date <= $1`
	args := []any{today}
	if f.Level != nil {
		args = append(args, string(*f.Level))
		query += ` AND k.level = $2`
	}
	query += ` ORDER BY c.due_date, c.id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError("select due kanji cards", err)
	}
	defer rows.Close()

	var due []models.DueCard
	for rows.Next() {
		var d models.DueCard
		var on, kun, meanings []byte
		var level sql.NullString
		if err := scanCardInto(rows, &d.Card,
			&d.Item.Surface, &on, &kun, &meanings, &level); err != nil {
			return nil, mapError("scan due kanji card", err)
		}
		d.Item.Kind = models.KindKanji
		d.Item.ID = d.Card.ItemID
		d.Item.Reading, d.Item.Gloss = kanjiDisplay(on, kun, meanings)
		if level.Valid {
			l := models.JLPTLevel(level.String)
			d.Item.Level = &l
		}
		due = append(due, d)
	}
	return due, mapError("select due kanji cards", rows.Err())
}

// SelectNewItems returns items with no memory card yet, ordered by JLPT
// level (N5 first), then frequency rank when present, then id.
func (s *Store) SelectNewItems(ctx context.Context, f DueFilter) ([]models.Item, error) {
	type candidate struct {
		item models.Item
		freq int
	}
	const noFreq = 1 << 30
	var all []candidate

	if f.ItemType == nil || *f.ItemType == models.KindVocab {
		query := `SELECT v.id, v.surface, v.reading, v.gloss, v.level
		          FROM vocab_items v
		          WHERE NOT EXISTS (
		              SELECT 1 FROM memory_cards c
		              WHERE c.item_type = 'vocab' AND c.item_id = v.id)`
		args := []any{}
		if f.Level != nil {
			args = append(args, string(*f.Level))
			query += ` AND v.level = $1`
		}
		query += ` ORDER BY v.id`

		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, mapError("select new vocab", err)
		}
		for rows.Next() {
			var it models.Item
			var level string
			if err := rows.Scan(&it.ID, &it.Surface, &it.Reading, &it.Gloss, &level); err != nil {
				rows.Close()
				return nil, mapError("scan new vocab", err)
			}
			it.Kind = models.KindVocab
			l := models.JLPTLevel(level)
			it.Level = &l
			all = append(all, candidate{item: it, freq: noFreq})
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, mapError("select new vocab", err)
		}
	}

	if f.ItemType == nil || *f.ItemType == models.KindKanji {
		query := `SELECT k.id, k."character", k.on_readings, k.kun_readings, k.meanings, k.level, k.frequency
		          FROM kanji_items k
		          WHERE NOT EXISTS (
		              SELECT 1 FROM memory_cards c
		              WHERE c.item_type = 'kanji' AND c.item_id = k.id)`
		args := []any{}
		if f.Level != nil {
			args = append(args, string(*f.Level))
			query += ` AND k.level = $1`
		}
		query += ` ORDER BY k.id`

		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, mapError("select new kanji", err)
		}
		for rows.Next() {
			var it models.Item
			var on, kun, meanings []byte
			var level sql.NullString
			var freq sql.NullInt64
			if err := rows.Scan(&it.ID, &it.Surface, &on, &kun, &meanings, &level, &freq); err != nil {
				rows.Close()
				return nil, mapError("scan new kanji", err)
			}
			it.Kind = models.KindKanji
			it.Reading, it.Gloss = kanjiDisplay(on, kun, meanings)
			if level.Valid {
				l := models.JLPTLevel(level.String)
				it.Level = &l
			}
			c := candidate{item: it, freq: noFreq}
			if freq.Valid {
				c.freq = int(freq.Int64)
			}
			all = append(all, c)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, mapError("select new kanji", err)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		ri, rj := levelRank(all[i].item.Level), levelRank(all[j].item.Level)
		if ri != rj {
			return ri < rj
		}
		if all[i].freq != all[j].freq {
			return all[i].freq < all[j].freq
		}
		return all[i].item.ID < all[j].item.ID
	})

	items := make([]models.Item, 0, len(all))
	for _, c := range all {
		items = append(items, c.item)
	}
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	return items, nil
}

// CountCardsCreatedOn counts memory cards whose created_at falls on the
// given local civil date. Feeds the daily intake cap.
func (s *Store) CountCardsCreatedOn(ctx context.Context, day models.CivilDate) (int, error) {
	start := time.Date(day.Year, day.Month, day.Day, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1)

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM memory_cards WHERE created_at >= $1 AND created_at < $2`,
		start, end).Scan(&count)
	if err != nil {
		return 0, mapError("count cards created", err)
	}
	return count, nil
}

// levelRank orders items easiest-first; items with no level sort last.
func levelRank(l *models.JLPTLevel) int {
	if l == nil {
		return 99
	}
	return l.Rank()
}

// kanjiDisplay flattens the reading and meaning lists for the common Item
// projection.
func kanjiDisplay(on, kun, meanings []byte) (reading, gloss string) {
	var onList, kunList, meaningList []string
	_ = json.Unmarshal(on, &onList)
	_ = json.Unmarshal(kun, &kunList)
	_ = json.Unmarshal(meanings, &meaningList)
	return strings.Join(append(onList, kunList...), "、"), strings.Join(meaningList, ", ")
}

func scanCard(r rowScanner) (*models.MemoryCard, error) {
	var card models.MemoryCard
	if err := scanCardInto(r, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// scanCardInto scans the cardColumns prefix into card, then any extra
// destinations the caller appended to the select list.
func scanCardInto(r rowScanner, card *models.MemoryCard, extra ...any) error {
	var itemType string
	var lastReviewed sql.NullTime
	dest := []any{&card.ID, &itemType, &card.ItemID, &card.EaseFactor,
		&card.IntervalDays, &card.Reps, &card.DueDate, &lastReviewed, &card.CreatedAt}
	dest = append(dest, extra...)
	if err := r.Scan(dest...); err != nil {
		return err
	}
	card.ItemType = models.ItemKind(itemType)
	if lastReviewed.Valid {
		card.LastReviewed = &lastReviewed.Time
	}
	return nil
}
