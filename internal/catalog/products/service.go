package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/mercadito-pos/mercadito-pos/internal/platform/httpx"
	"github.com/mercadito-pos/mercadito-pos/internal/query"
)

// Service exposes cached product operations to the gateway handlers.
// Reads go through the query store; successful mutations invalidate the
// list cache and keep the detail slot warm. Failed mutations leave the
// cache untouched.
type Service struct {
	api   API
	store *query.Store
}

func NewService(api API, store *query.Store) *Service {
	return &Service{api: api, store: store}
}

// List returns the full catalog, served from cache while fresh.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return query.Fetch(ctx, s.store, query.ListKey(Entity), s.api.GetAll)
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: product id %d", httpx.ErrInvalidID, id)
	}
	return query.Fetch(ctx, s.store, query.DetailKey(Entity, id), func(ctx context.Context) (Product, error) {
		return s.api.GetByID(ctx, id)
	})
}

// Create stores a new product upstream, then invalidates the list cache
// and seeds the detail slot with the server-assigned entity.
func (s *Service) Create(ctx context.Context, form CreateProduct) (Product, error) {
	if err := validateCreate(form); err != nil {
		return Product{}, err
	}
	created, err := s.api.Create(ctx, form)
	if err != nil {
		return Product{}, err
	}
	s.store.InvalidateLists(Entity)
	s.store.Set(query.DetailKey(Entity, created.ID), created)
	return created, nil
}

// Update applies a partial update and overwrites the detail slot with the
// upstream's returned state.
func (s *Service) Update(ctx context.Context, id int64, form UpdateProduct) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: product id %d", httpx.ErrInvalidID, id)
	}
	if err := validateUpdate(form); err != nil {
		return Product{}, err
	}
	updated, err := s.api.Update(ctx, id, form)
	if err != nil {
		return Product{}, err
	}
	s.store.Set(query.DetailKey(Entity, id), updated)
	s.store.InvalidateLists(Entity)
	return updated, nil
}

// Delete removes the product upstream and drops its detail slot so later
// reads refetch.
func (s *Service) Delete(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: product id %d", httpx.ErrInvalidID, id)
	}
	deleted, err := s.api.Delete(ctx, id)
	if err != nil {
		return Product{}, err
	}
	s.store.Remove(query.DetailKey(Entity, id))
	s.store.InvalidateLists(Entity)
	return deleted, nil
}

// ListActive returns products available for sale.
func (s *Service) ListActive(ctx context.Context) ([]Product, error) {
	t := true
	return s.ListFiltered(ctx, Filters{Active: &t})
}

// ListFiltered narrows the cached list client-side: category equality,
// active flag, and case-insensitive substring match on name or code.
// Ordering follows the source list, so identical filters always produce
// identical output.
func (s *Service) ListFiltered(ctx context.Context, f Filters) ([]Product, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(f.Search)
	out := make([]Product, 0, len(all))
	for _, p := range all {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Active != nil && p.Active != *f.Active {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Code), search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
