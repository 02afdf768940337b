package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
)

const vocabColumns = `id, surface, reading, gloss, part_of_speech, level, example_jp, example_en`

// GetVocab returns the vocab item with the given id.
func (s *Store) GetVocab(ctx context.Context, id int64) (*models.VocabItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+vocabColumns+` FROM vocab_items WHERE id = $1`, id)
	item, err := scanVocab(row)
	if err != nil {
		return nil, mapError("get vocab", err)
	}
	return item, nil
}

// GetKanji returns the kanji item with the given id.
func (s *Store) GetKanji(ctx context.Context, id int64) (*models.KanjiItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+kanjiColumns+` FROM kanji_items WHERE id = $1`, id)
	item, err := scanKanji(row)
	if err != nil {
		return nil, mapError("get kanji", err)
	}
	return item, nil
}

// GetKanjiByCharacter resolves a kanji item by its single-character key.
func (s *Store) GetKanjiByCharacter(ctx context.Context, character string) (*models.KanjiItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+kanjiColumns+` FROM kanji_items WHERE "character" = $1`, character)
	item, err := scanKanji(row)
	if err != nil {
		return nil, mapError("get kanji by character", err)
	}
	return item, nil
}

// ListParams narrows and pages an item listing. Page is 1-based; Search
// matches surface form, reading, and gloss case-insensitively.
type ListParams struct {
	Level    *models.JLPTLevel
	Search   string
	Page     int
	PageSize int
}

func (p ListParams) offset() int {
	return (p.Page - 1) * p.PageSize
}

// ListVocab returns one page of vocab items ordered by id, plus the total
// count matching the filters.
func (s *Store) ListVocab(ctx context.Context, p ListParams) ([]models.VocabItem, int, error) {
	where, args := itemFilters(p, []string{"surface", "reading", "gloss"})

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM vocab_items`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, mapError("count vocab", err)
	}

	args = append(args, p.PageSize, p.offset())
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM vocab_items%s ORDER BY id LIMIT $%d OFFSET $%d`,
			vocabColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, mapError("list vocab", err)
	}
	defer rows.Close()

	items := make([]models.VocabItem, 0, p.PageSize)
	for rows.Next() {
		item, err := scanVocab(rows)
		if err != nil {
			return nil, 0, mapError("scan vocab", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list vocab", err)
	}
	return items, total, nil
}

// ListKanji returns one page of kanji items ordered by id, plus the total
// count matching the filters. Search matches the character and meanings.
func (s *Store) ListKanji(ctx context.Context, p ListParams) ([]models.KanjiItem, int, error) {
	where, args := itemFilters(p, []string{`"character"`, "meanings::text"})

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM kanji_items`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, mapError("count kanji", err)
	}

	args = append(args, p.PageSize, p.offset())
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM kanji_items%s ORDER BY id LIMIT $%d OFFSET $%d`,
			kanjiColumns, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, mapError("list kanji", err)
	}
	defer rows.Close()

	items := make([]models.KanjiItem, 0, p.PageSize)
	for rows.Next() {
		item, err := scanKanji(rows)
		if err != nil {
			return nil, 0, mapError("scan kanji", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("list kanji", err)
	}
	return items, total, nil
}

// itemFilters builds the WHERE clause shared by the two listings.
func itemFilters(p ListParams, searchCols []string) (string, []any) {
	var conds []string
	var args []any

	if p.Level != nil {
		args = append(args, string(*p.Level))
		conds = append(conds, fmt.Sprintf("level = $%d", len(args)))
	}
	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		n := len(args)
		ors := make([]string, len(searchCols))
		for i, col := range searchCols {
			ors[i] = fmt.Sprintf("%s ILIKE $%d", col, n)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const kanjiColumns = `id, "character", on_readings, kun_readings, meanings, stroke_count, level, frequency, example_jp, example_en`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVocab(r rowScanner) (*models.VocabItem, error) {
	var item models.VocabItem
	var level string
	if err := r.Scan(&item.ID, &item.Surface, &item.Reading, &item.Gloss,
		&item.PartOfSpeech, &level, &item.ExampleJP, &item.ExampleEN); err != nil {
		return nil, err
	}
	item.Level = models.JLPTLevel(level)
	return &item, nil
}

func scanKanji(r rowScanner) (*models.KanjiItem, error) {
	var item models.KanjiItem
	var on, kun, meanings []byte
	var level sql.NullString
	var freq sql.NullInt64
	if err := r.Scan(&item.ID, &item.Character, &on, &kun, &meanings,
		&item.StrokeCount, &level, &freq, &item.ExampleJP, &item.ExampleEN); err != nil {
		return nil, err
	}
	for _, pair := range []struct {
		raw []byte
		dst *[]string
	}{
		{on, &item.OnReadings},
		{kun, &item.KunReadings},
		{meanings, &item.Meanings},
	} {
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return nil, fmt.Errorf("decode kanji readings: %w", err)
		}
	}
	if level.Valid {
		l := models.JLPTLevel(level.String)
		item.Level = &l
	}
	if freq.Valid {
		f := int(freq.Int64)
		item.Frequency = &f
	}
	return &item, nil
}
