package inventory

import (
	"context"

	"github.com/mercadito-pos/mercadito-pos/internal/query"
)

// Service exposes the cached stock view.
type Service struct {
	api   API
	store *query.Store
}

func NewService(api API, store *query.Store) *Service {
	return &Service{api: api, store: store}
}

// List returns all stock positions.
func (s *Service) List(ctx context.Context) ([]StockLevel, error) {
	return query.Fetch(ctx, s.store, query.ListKey(Entity), s.api.GetAll)
}

// LowStock returns positions at or under their minimum, preserving the
// source ordering.
func (s *Service) LowStock(ctx context.Context) ([]StockLevel, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StockLevel, 0, len(all))
	for _, level := range all {
		if level.Low() {
			out = append(out, level)
		}
	}
	return out, nil
}

// Movements returns the stock movement history.
func (s *Service) Movements(ctx context.Context) ([]Movement, error) {
	return query.Fetch(ctx, s.store, query.FilteredListKey(Entity, "movements"), s.api.Movements)
}
