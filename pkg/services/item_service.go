package services

import (
	"context"

	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/models"
	"github.com/Karthik0000007/AI-Japanese-Learning-App/pkg/store"
)

// ItemService serves the read-only vocab and kanji browsers.
type ItemService struct {
	store *store.Store
}

// NewItemService creates an ItemService.
func NewItemService(st *store.Store) *ItemService {
	return &ItemService{store: st}
}

// ListVocab returns one page of vocab items plus the total match count.
func (s *ItemService) ListVocab(ctx context.Context, p store.ListParams) ([]models.VocabItem, int, error) {
	items, total, err := s.store.ListVocab(ctx, p)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	return items, total, nil
}

// GetVocab returns one vocab item by id.
func (s *ItemService) GetVocab(ctx context.Context, id int64) (*models.VocabItem, error) {
	item, err := s.store.GetVocab(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return item, nil
}

// ListKanji returns one page of kanji items plus the total match count.
func (s *ItemService) ListKanji(ctx context.Context, p store.ListParams) ([]models.KanjiItem, int, error) {
	items, total, err := s.store.ListKanji(ctx, p)
	if err != nil {
		return nil, 0, mapStoreError(err)
	}
	return items, total, nil
}

// GetKanji resolves one kanji item by its single-character key.
func (s *ItemService) GetKanji(ctx context.Context, character string) (*models.KanjiItem, error) {
	item, err := s.store.GetKanjiByCharacter(ctx, character)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return item, nil
}
