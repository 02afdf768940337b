package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
)

var day0 = models.CivilDate{Year: 2024, Month: time.March, Day: 10}

func counts(dates ...models.CivilDate) []models.DayReviewCount {
	out := make([]models.DayReviewCount, len(dates))
	for i, d := range dates {
		out[i] = models.DayReviewCount{Date: d, Count: 1}
	}
	return out
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name string
		days []models.DayReviewCount
		want int
	}{
		{"no reviews ever", nil, 0},
		{"only today", counts(day0), 1},
		{"today and yesterday", counts(day0, day0.AddDays(-1)), 2},
		{"quiet today does not break the chain", counts(day0.AddDays(-1), day0.AddDays(-2)), 2},
		{"gap before yesterday stops the walk", counts(day0, day0.AddDays(-1), day0.AddDays(-3)), 2},
		{"only old reviews", counts(day0.AddDays(-5)), 0},
		{"long unbroken chain", counts(day0, day0.AddDays(-1), day0.AddDays(-2), day0.AddDays(-3)), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, streak(tt.days, day0))
		})
	}
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.0, accuracy(0, 0))
	assert.Equal(t, 100.0, accuracy(7, 7))
	assert.Equal(t, 50.0, accuracy(1, 2))
	assert.Equal(t, 66.7, accuracy(2, 3))
}
