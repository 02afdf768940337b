package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
)

var testToday = models.CivilDate{Year: 2024, Month: time.March, Day: 10}

func TestGradeValidate(t *testing.T) {
	for _, g := range []Grade{0, 2, 3, 5} {
		assert.NoError(t, g.Validate(), "grade %d", g)
	}
	for _, g := range []Grade{-1, 1, 4, 6} {
		assert.Error(t, g.Validate(), "grade %d", g)
	}
}

func TestTransition_EaseFloor(t *testing.T) {
	// Hammering a card with blackouts must never push ease below 1.3.
	state := NewState()
	for i := 0; i < 20; i++ {
		state, _ = Transition(state, GradeBlackout, testToday)
		assert.GreaterOrEqual(t, state.Ease, MinEase)
	}
	assert.Equal(t, MinEase, state.Ease)
}

func TestTransition_EaseArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		ease     float64
		grade    Grade
		wantEase float64
	}{
		{"easy grade raises ease", 2.5, GradeEasy, 2.6},
		{"hard grade lowers ease", 2.5, GradeHard, 2.36},
		{"wrong answer drops ease sharply", 2.5, GradeWrong, 2.18},
		{"blackout drops ease hardest", 2.5, GradeBlackout, 1.7},
		{"clamped at the floor", 1.35, GradeBlackout, 1.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := Transition(State{Ease: tt.ease, Interval: 6, Reps: 2}, tt.grade, testToday)
			assert.InDelta(t, tt.wantEase, next.Ease, 1e-9)
		})
	}
}

func TestTransition_LapseResets(t *testing.T) {
	// Any failing grade resets to a one-day interval with the chain broken,
	// regardless of how mature the card was.
	for _, grade := range []Grade{GradeBlackout, GradeWrong} {
		for _, prior := range []State{
			{Ease: 2.5, Interval: 1, Reps: 0},
			{Ease: 2.5, Interval: 6, Reps: 2},
			{Ease: 2.8, Interval: 180, Reps: 9},
		} {
			next, due := Transition(prior, grade, testToday)
			assert.Equal(t, 1, next.Interval)
			assert.Equal(t, 0, next.Reps)
			assert.Equal(t, testToday.AddDays(1), due)
		}
	}
}

func TestTransition_SuccessLadder(t *testing.T) {
	// First success: 1 day. Second: 6 days. Third on: interval * ease.
	state := NewState()

	state, due := Transition(state, GradeHard, testToday)
	assert.Equal(t, 1, state.Interval)
	assert.Equal(t, 1, state.Reps)
	assert.Equal(t, testToday.AddDays(1), due)

	state, due = Transition(state, GradeHard, testToday)
	assert.Equal(t, SecondInterval, state.Interval)
	assert.Equal(t, 2, state.Reps)
	assert.Equal(t, testToday.AddDays(6), due)

	easeBefore := state.Ease
	state, due = Transition(state, GradeEasy, testToday)
	assert.Equal(t, 3, state.Reps)
	// round(6 * (easeBefore + 0.1)) half away from zero
	wantInterval := int(6*(easeBefore+0.1) + 0.5)
	assert.Equal(t, wantInterval, state.Interval)
	assert.Equal(t, testToday.AddDays(wantInterval), due)
}

func TestTransition_IntervalGrowthBound(t *testing.T) {
	// From the third success on, the interval grows at least by the ease
	// floor factor.
	state := State{Ease: 1.3, Interval: 10, Reps: 5}
	next, _ := Transition(state, GradeHard, testToday)
	assert.GreaterOrEqual(t, next.Interval, 13)
	assert.Equal(t, 6, next.Reps)
}

func TestTransition_IntervalCap(t *testing.T) {
	state := State{Ease: 2.5, Interval: 30000, Reps: 12}
	next, due := Transition(state, GradeEasy, testToday)
	assert.Equal(t, MaxIntervalDays, next.Interval)
	assert.Equal(t, testToday.AddDays(MaxIntervalDays), due)
}

func TestTransition_DueDateCoherence(t *testing.T) {
	// due' is always today + interval', across a spread of states and grades.
	states := []State{
		NewState(),
		{Ease: 1.3, Interval: 1, Reps: 1},
		{Ease: 2.2, Interval: 6, Reps: 2},
		{Ease: 2.7, Interval: 47, Reps: 6},
	}
	for _, s := range states {
		for _, g := range []Grade{GradeBlackout, GradeWrong, GradeHard, GradeEasy} {
			next, due := Transition(s, g, testToday)
			assert.Equal(t, testToday.AddDays(next.Interval), due)
			assert.GreaterOrEqual(t, next.Interval, 1)
		}
	}
}

func TestApply_NewCardSynthesis(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	card := Apply(nil, models.KindVocab, 42, GradeHard, testToday, now)
	require.NotNil(t, card)
	assert.Equal(t, models.KindVocab, card.ItemType)
	assert.Equal(t, int64(42), card.ItemID)
	assert.Equal(t, 1, card.IntervalDays)
	assert.Equal(t, 1, card.Reps)
	// Grade 3 on a fresh card: 2.5 + 0.1 - 2*(0.08 + 2*0.02) = 2.36
	assert.InDelta(t, 2.36, card.EaseFactor, 1e-9)
	assert.Equal(t, testToday.AddDays(1), card.DueDate)
	require.NotNil(t, card.LastReviewed)
	assert.Equal(t, now, *card.LastReviewed)
	assert.Equal(t, now, card.CreatedAt)
}

func TestApply_ReplayReconstructsState(t *testing.T) {
	// Replaying a card's review chain through the transition reproduces
	// its final stored state exactly.
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	grades := []Grade{GradeHard, GradeEasy, GradeEasy, GradeBlackout, GradeHard, GradeEasy}

	var card *models.MemoryCard
	day := models.CivilDate{Year: 2024, Month: time.March, Day: 1}
	for _, g := range grades {
		card = Apply(card, models.KindKanji, 7, g, day, now)
		day = card.DueDate
		now = now.Add(24 * time.Hour)
	}

	replayed := NewState()
	replayDay := models.CivilDate{Year: 2024, Month: time.March, Day: 1}
	var replayDue models.CivilDate
	for _, g := range grades {
		replayed, replayDue = Transition(replayed, g, replayDay)
		replayDay = replayDue
	}

	assert.Equal(t, replayed.Ease, card.EaseFactor)
	assert.Equal(t, replayed.Interval, card.IntervalDays)
	assert.Equal(t, replayed.Reps, card.Reps)
	assert.Equal(t, replayDue, card.DueDate)
}

func TestPhaseOf(t *testing.T) {
	assert.Equal(t, PhaseNew, PhaseOf(NewState()))
	assert.Equal(t, PhaseLearning, PhaseOf(State{Ease: 2.5, Interval: 6, Reps: 2}))
	assert.Equal(t, PhaseMature, PhaseOf(State{Ease: 2.5, Interval: 21, Reps: 4}))
	assert.Equal(t, PhaseMature, PhaseOf(State{Ease: 2.5, Interval: 180, Reps: 9}))
}

func TestRoundHalfAway(t *testing.T) {
	assert.Equal(t, 2, roundHalfAway(1.5))
	assert.Equal(t, 1, roundHalfAway(1.4))
	assert.Equal(t, 3, roundHalfAway(2.5))
	assert.Equal(t, 16, roundHalfAway(15.6))
}
