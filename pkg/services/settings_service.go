package services

import (
	"context"
	"strconv"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/store"
)

// SettingsService reads and updates the meta key-value configuration.
// Only known keys are writable, and values are validated before they land:
// jlpt_focus must be a JLPT level and new_cards_per_day a non-negative
// integer.
type SettingsService struct {
	store *store.Store
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(st *store.Store) *SettingsService {
	return &SettingsService{store: st}
}

// All returns every setting.
func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	meta, err := s.store.AllMeta(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return meta, nil
}

// Update validates and applies one or more settings, returning the full
// settings map afterwards.
func (s *SettingsService) Update(ctx context.Context, updates map[string]string) (map[string]string, error) {
	if len(updates) == 0 {
		return nil, NewValidationError("settings", "no keys provided")
	}

	for key, value := range updates {
		if err := validateSetting(key, value); err != nil {
			return nil, err
		}
	}

	for key, value := range updates {
		if err := s.store.SetMeta(ctx, key, value); err != nil {
			return nil, mapStoreError(err)
		}
	}

	return s.All(ctx)
}

func validateSetting(key, value string) error {
	switch key {
	case models.MetaKeyJLPTFocus:
		if err := models.JLPTLevel(value).Validate(); err != nil {
			return NewValidationError(key, err.Error())
		}
	case models.MetaKeyNewCardsPerDay:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return NewValidationError(key, "must be a non-negative integer")
		}
	default:
		return NewValidationError(key, "unknown setting")
	}
	return nil
}
