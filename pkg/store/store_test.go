package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/store"
	testdb "github.com/Karthik0000007/AI-Japanese-Learning-App/test/database"
)

func today() models.CivilDate {
	return models.Today()
}

// insertVocab seeds a vocab item directly; ingestion is outside the store's
// write surface.
func insertVocab(t *testing.T, db *sql.DB, surface, reading, gloss string, level models.JLPTLevel) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(
		`INSERT INTO vocab_items (surface, reading, gloss, part_of_speech, level)
		 VALUES ($1, $2, $3, 'verb', $4) RETURNING id`,
		surface, reading, gloss, string(level)).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertKanji(t *testing.T, db *sql.DB, character string, level *models.JLPTLevel, frequency *int) int64 {
	t.Helper()
	var id int64
	var lvl any
	if level != nil {
		lvl = string(*level)
	}
	err := db.QueryRow(
		`INSERT INTO kanji_items ("character", on_readings, kun_readings, meanings, stroke_count, level, frequency)
		 VALUES ($1, '["ショク"]', '["た.べる"]', '["eat"]', 9, $2, $3) RETURNING id`,
		character, lvl, frequency).Scan(&id)
	require.NoError(t, err)
	return id
}

func openSession(t *testing.T, s *store.Store) string {
	t.Helper()
	sess, err := s.CreateSession(context.Background(), "sess-"+t.Name()+time.Now().Format("150405.000000000"), time.Now().UTC())
	require.NoError(t, err)
	return sess.ID
}

func TestItems_GetAndList(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	taberuID := insertVocab(t, s.DB(), "食べる", "たべる", "to eat", models.LevelN5)
	insertVocab(t, s.DB(), "飲む", "のむ", "to drink", models.LevelN5)
	insertVocab(t, s.DB(), "難しい", "むずかしい", "difficult", models.LevelN3)

	t.Run("get by id", func(t *testing.T) {
		item, err := s.GetVocab(ctx, taberuID)
		require.NoError(t, err)
		assert.Equal(t, "食べる", item.Surface)
		assert.Equal(t, models.LevelN5, item.Level)
	})

	t.Run("get missing id", func(t *testing.T) {
		_, err := s.GetVocab(ctx, 999999)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("level filter and total", func(t *testing.T) {
		n5 := models.LevelN5
		items, total, err := s.ListVocab(ctx, store.ListParams{Level: &n5, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, items, 2)
	})

	t.Run("search matches gloss case-insensitively", func(t *testing.T) {
		items, total, err := s.ListVocab(ctx, store.ListParams{Search: "DIFFICULT", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, "難しい", items[0].Surface)
	})

	t.Run("pagination is stable by id", func(t *testing.T) {
		page1, total, err := s.ListVocab(ctx, store.ListParams{Page: 1, PageSize: 2})
		require.NoError(t, err)
		page2, _, err := s.ListVocab(ctx, store.ListParams{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, page1, 2)
		require.Len(t, page2, 1)
		assert.Less(t, page1[0].ID, page1[1].ID)
		assert.Less(t, page1[1].ID, page2[0].ID)
	})
}

func TestKanji_GetByCharacter(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	n5 := models.LevelN5
	insertKanji(t, s.DB(), "食", &n5, nil)

	item, err := s.GetKanjiByCharacter(ctx, "食")
	require.NoError(t, err)
	assert.Equal(t, []string{"ショク"}, item.OnReadings)
	assert.Equal(t, []string{"た.べる"}, item.KunReadings)
	assert.Equal(t, []string{"eat"}, item.Meanings)

	_, err = s.GetKanjiByCharacter(ctx, "水")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCards_DuplicateIsIntegrityError(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	id := insertVocab(t, s.DB(), "食べる", "たべる", "to eat", models.LevelN5)

	card := &models.MemoryCard{
		ItemType: models.KindVocab, ItemID: id,
		EaseFactor: 2.5, IntervalDays: 1, Reps: 0,
		DueDate: today(), CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateCard(ctx, card))
	assert.NotZero(t, card.ID)

	dup := &models.MemoryCard{
		ItemType: models.KindVocab, ItemID: id,
		EaseFactor: 2.5, IntervalDays: 1, Reps: 0,
		DueDate: today(), CreatedAt: time.Now().UTC(),
	}
	err := s.CreateCard(ctx, dup)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestSelectDueCards_Ordering(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	newer := insertVocab(t, s.DB(), "新しい", "あたらしい", "new", models.LevelN5)
	older := insertVocab(t, s.DB(), "古い", "ふるい", "old", models.LevelN5)
	future := insertVocab(t, s.DB(), "未来", "みらい", "future", models.LevelN5)

	mkCard := func(itemID int64, due models.CivilDate) {
		require.NoError(t, s.CreateCard(ctx, &models.MemoryCard{
			ItemType: models.KindVocab, ItemID: itemID,
			EaseFactor: 2.5, IntervalDays: 1, Reps: 1,
			DueDate: due, CreatedAt: time.Now().UTC(),
		}))
	}
	mkCard(newer, today().AddDays(-2))
	mkCard(older, today().AddDays(-5))
	mkCard(future, today().AddDays(3))

	due, err := s.SelectDueCards(ctx, today(), store.DueFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "古い", due[0].Item.Surface, "most overdue first")
	assert.Equal(t, "新しい", due[1].Item.Surface)
}

func TestSelectNewItems_OrderingAndExclusion(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	n5, n4 := models.LevelN5, models.LevelN4
	freq10, freq3 := 10, 3

	vocabN5 := insertVocab(t, s.DB(), "水", "みず", "water", n5)
	insertVocab(t, s.DB(), "背広", "せびろ", "suit", n4)
	insertKanji(t, s.DB(), "日", &n5, &freq3)
	insertKanji(t, s.DB(), "一", &n5, &freq10)

	// Seeding a card removes the item from the new pool.
	require.NoError(t, s.CreateCard(ctx, &models.MemoryCard{
		ItemType: models.KindVocab, ItemID: vocabN5,
		EaseFactor: 2.5, IntervalDays: 1, Reps: 1,
		DueDate: today(), CreatedAt: time.Now().UTC(),
	}))

	items, err := s.SelectNewItems(ctx, store.DueFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 3)
	// N5 kanji by frequency rank first, then the N4 vocab.
	assert.Equal(t, "日", items[0].Surface)
	assert.Equal(t, "一", items[1].Surface)
	assert.Equal(t, "背広", items[2].Surface)

	kind := models.KindVocab
	vocabOnly, err := s.SelectNewItems(ctx, store.DueFilter{ItemType: &kind, Limit: 10})
	require.NoError(t, err)
	require.Len(t, vocabOnly, 1)
	assert.Equal(t, "背広", vocabOnly[0].Surface)
}

func TestReviewTransaction_AtomicCounts(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	id := insertVocab(t, s.DB(), "食べる", "たべる", "to eat", models.LevelN5)
	sessID := openSession(t, s)
	now := time.Now().UTC()

	card := &models.MemoryCard{
		ItemType: models.KindVocab, ItemID: id,
		EaseFactor: 2.36, IntervalDays: 1, Reps: 1,
		DueDate: today().AddDays(1), LastReviewed: &now, CreatedAt: now,
	}
	correct, incorrect, err := s.ReviewTransaction(ctx, card, 3, sessID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, correct)
	assert.Equal(t, 0, incorrect)
	assert.NotZero(t, card.ID)

	// A lapse on the same card appends a second event and bumps incorrect.
	card.Reps = 0
	card.IntervalDays = 1
	correct, incorrect, err = s.ReviewTransaction(ctx, card, 0, sessID, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, correct)
	assert.Equal(t, 1, incorrect)

	events, err := s.ReviewEventsForCard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, events, 2, "review log is append-only")
	assert.Equal(t, 3, events[0].Grade)
	assert.Equal(t, 0, events[1].Grade)

	sess, err := s.GetStudySession(ctx, sessID)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.CardsReviewed)
	assert.Equal(t, sess.CorrectCount+sess.IncorrectCount, sess.CardsReviewed)
}

func TestReviewTransaction_UnknownSessionRollsBack(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	id := insertVocab(t, s.DB(), "食べる", "たべる", "to eat", models.LevelN5)
	now := time.Now().UTC()

	card := &models.MemoryCard{
		ItemType: models.KindVocab, ItemID: id,
		EaseFactor: 2.5, IntervalDays: 1, Reps: 1,
		DueDate: today().AddDays(1), CreatedAt: now,
	}
	_, _, err := s.ReviewTransaction(ctx, card, 3, "no-such-session", now)
	require.Error(t, err)

	// The card insert inside the failed transaction must not survive.
	_, err = s.GetCard(ctx, models.KindVocab, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCountCardsCreatedOn(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	a := insertVocab(t, s.DB(), "一", "いち", "one", models.LevelN5)
	b := insertVocab(t, s.DB(), "二", "に", "two", models.LevelN5)

	now := time.Now()
	require.NoError(t, s.CreateCard(ctx, &models.MemoryCard{
		ItemType: models.KindVocab, ItemID: a,
		EaseFactor: 2.5, IntervalDays: 1, DueDate: today(), CreatedAt: now,
	}))
	require.NoError(t, s.CreateCard(ctx, &models.MemoryCard{
		ItemType: models.KindVocab, ItemID: b,
		EaseFactor: 2.5, IntervalDays: 1, DueDate: today(), CreatedAt: now.AddDate(0, 0, -1),
	}))

	count, err := s.CountCardsCreatedOn(ctx, today())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSessions_SweepIsIdempotent(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	openID := openSession(t, s)

	cutoff := time.Now().UTC().Add(time.Hour)
	n, err := s.SweepOpenSessions(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	swept, err := s.GetStudySession(ctx, openID)
	require.NoError(t, err)
	require.NotNil(t, swept.EndedAt)
	// No reviews were logged, so the session closes at its start time.
	assert.WithinDuration(t, swept.StartedAt, *swept.EndedAt, time.Second)

	n, err = s.SweepOpenSessions(ctx, cutoff)
	require.NoError(t, err)
	assert.Zero(t, n, "second sweep changes nothing")

	again, err := s.GetStudySession(ctx, openID)
	require.NoError(t, err)
	assert.Equal(t, *swept.EndedAt, *again.EndedAt)
}

func TestSessions_SweepClosesAtLastReview(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	id := insertVocab(t, s.DB(), "食べる", "たべる", "to eat", models.LevelN5)
	sessID := openSession(t, s)

	reviewedAt := time.Now().UTC().Add(-30 * time.Minute).Truncate(time.Microsecond)
	card := &models.MemoryCard{
		ItemType: models.KindVocab, ItemID: id,
		EaseFactor: 2.5, IntervalDays: 1, Reps: 1,
		DueDate: today().AddDays(1), CreatedAt: reviewedAt,
	}
	_, _, err := s.ReviewTransaction(ctx, card, 5, sessID, reviewedAt)
	require.NoError(t, err)

	_, err = s.SweepOpenSessions(ctx, time.Now().UTC())
	require.NoError(t, err)

	sess, err := s.GetStudySession(ctx, sessID)
	require.NoError(t, err)
	require.NotNil(t, sess.EndedAt)
	assert.WithinDuration(t, reviewedAt, *sess.EndedAt, time.Second)
}

func TestCloseSession(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	id := openSession(t, s)
	require.NoError(t, s.CloseSession(ctx, id, time.Now().UTC()))
	// Closing again is a no-op, not an error.
	require.NoError(t, s.CloseSession(ctx, id, time.Now().UTC()))

	err := s.CloseSession(ctx, "missing", time.Now().UTC())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMeta(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	t.Run("migration seeds defaults", func(t *testing.T) {
		focus, err := s.GetMeta(ctx, models.MetaKeyJLPTFocus)
		require.NoError(t, err)
		assert.Equal(t, "N5", focus)

		cap, err := s.GetMeta(ctx, models.MetaKeyNewCardsPerDay)
		require.NoError(t, err)
		assert.Equal(t, "20", cap)
	})

	t.Run("set and read back", func(t *testing.T) {
		require.NoError(t, s.SetMeta(ctx, models.MetaKeyJLPTFocus, "N3"))
		focus, err := s.GetMeta(ctx, models.MetaKeyJLPTFocus)
		require.NoError(t, err)
		assert.Equal(t, "N3", focus)
	})

	t.Run("seed-if-absent never clobbers", func(t *testing.T) {
		require.NoError(t, s.SetMetaIfAbsent(ctx, models.MetaKeyNewCardsPerDay, "5"))
		cap, err := s.GetMeta(ctx, models.MetaKeyNewCardsPerDay)
		require.NoError(t, err)
		assert.Equal(t, "20", cap)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := s.GetMeta(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestAggregates(t *testing.T) {
	s := testdb.NewTestStore(t)
	ctx := context.Background()

	n5 := models.LevelN5
	eatID := insertVocab(t, s.DB(), "食べる", "たべる", "to eat", n5)
	drinkID := insertVocab(t, s.DB(), "飲む", "のむ", "to drink", n5)
	insertVocab(t, s.DB(), "難しい", "むずかしい", "difficult", models.LevelN3)

	sessID := openSession(t, s)
	now := time.Now().UTC()

	mature := &models.MemoryCard{
		ItemType: models.KindVocab, ItemID: eatID,
		EaseFactor: 2.5, IntervalDays: 30, Reps: 5,
		DueDate: today().AddDays(2), CreatedAt: now,
	}
	_, _, err := s.ReviewTransaction(ctx, mature, 5, sessID, now)
	require.NoError(t, err)

	learning := &models.MemoryCard{
		ItemType: models.KindVocab, ItemID: drinkID,
		EaseFactor: 1.7, IntervalDays: 1, Reps: 0,
		DueDate: today(), CreatedAt: now,
	}
	_, _, err = s.ReviewTransaction(ctx, learning, 0, sessID, now.Add(time.Second))
	require.NoError(t, err)

	t.Run("accuracy totals", func(t *testing.T) {
		correct, total, err := s.AccuracyTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, correct)
		assert.Equal(t, 2, total)
	})

	t.Run("level stats", func(t *testing.T) {
		stats, err := s.LevelStats(ctx, today())
		require.NoError(t, err)
		assert.Equal(t, models.LevelStats{Total: 2, Seen: 2, Mastered: 1, DueToday: 1}, stats[models.LevelN5])
		assert.Equal(t, models.LevelStats{Total: 1}, stats[models.LevelN3])
		assert.Equal(t, models.LevelStats{}, stats[models.LevelN1])
	})

	t.Run("forecast fills zero days", func(t *testing.T) {
		forecast, err := s.DueForecast(ctx, today(), 7)
		require.NoError(t, err)
		require.Len(t, forecast, 7)
		assert.Equal(t, 1, forecast[0].Due, "lapsed card due today")
		assert.Equal(t, 0, forecast[1].Due)
		assert.Equal(t, 1, forecast[2].Due, "mature card due in two days")
		for i, day := range forecast {
			assert.Equal(t, today().AddDays(i), day.Date)
		}
	})

	t.Run("review day counts", func(t *testing.T) {
		days, err := s.ReviewCountsByDay(ctx, 0, 30)
		require.NoError(t, err)
		require.NotEmpty(t, days)
		assert.Equal(t, 2, days[0].Count)
	})

	t.Run("recent surfaces", func(t *testing.T) {
		surfaces, err := s.RecentReviewSurfaces(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"飲む", "食べる"}, surfaces)
	})

	t.Run("weakest cards", func(t *testing.T) {
		weak, err := s.WeakestCards(ctx, 5)
		require.NoError(t, err)
		// The lapsed card has reps 0 and is filtered out; only the reviewed
		// mature card qualifies.
		require.Len(t, weak, 1)
		assert.Equal(t, "食べる", weak[0].Surface)
	})
}
