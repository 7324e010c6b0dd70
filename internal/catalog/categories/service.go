package categories

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mercadito-pos/mercadito-pos/internal/platform/httpx"
	"github.com/mercadito-pos/mercadito-pos/internal/query"
)

var validate = validator.New()

// Service exposes cached category operations. Mutations invalidate the
// list cache only after the upstream confirms.
type Service struct {
	api   API
	store *query.Store
}

func NewService(api API, store *query.Store) *Service {
	return &Service{api: api, store: store}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return query.Fetch(ctx, s.store, query.ListKey(Entity), s.api.GetAll)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, fmt.Errorf("%w: category id %d", httpx.ErrInvalidID, id)
	}
	return query.Fetch(ctx, s.store, query.DetailKey(Entity, id), func(ctx context.Context) (Category, error) {
		return s.api.GetByID(ctx, id)
	})
}

func (s *Service) Create(ctx context.Context, form CreateCategory) (Category, error) {
	if err := validate.Struct(form); err != nil {
		return Category{}, err
	}
	created, err := s.api.Create(ctx, form)
	if err != nil {
		return Category{}, err
	}
	s.store.InvalidateLists(Entity)
	s.store.Set(query.DetailKey(Entity, created.ID), created)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, form UpdateCategory) (Category, error) {
	if id <= 0 {
		return Category{}, fmt.Errorf("%w: category id %d", httpx.ErrInvalidID, id)
	}
	if form.Name != nil && *form.Name == "" {
		return Category{}, fmt.Errorf("%w: name must not be empty", httpx.ErrValidation)
	}
	updated, err := s.api.Update(ctx, id, form)
	if err != nil {
		return Category{}, err
	}
	s.store.Set(query.DetailKey(Entity, id), updated)
	s.store.InvalidateLists(Entity)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, fmt.Errorf("%w: category id %d", httpx.ErrInvalidID, id)
	}
	deleted, err := s.api.Delete(ctx, id)
	if err != nil {
		return Category{}, err
	}
	s.store.Remove(query.DetailKey(Entity, id))
	s.store.InvalidateLists(Entity)
	return deleted, nil
}

// ListActive returns categories usable for product assignment.
func (s *Service) ListActive(ctx context.Context) ([]Category, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(all))
	for _, c := range all {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}
