package categories

import (
	"context"
	"fmt"

	"github.com/mercadito-pos/mercadito-pos/internal/backend"
)

// API is the upstream category resource.
type API interface {
	GetAll(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, form CreateCategory) (Category, error)
	Update(ctx context.Context, id int64, form UpdateCategory) (Category, error)
	Delete(ctx context.Context, id int64) (Category, error)
}

type restAPI struct {
	client *backend.Client
}

// NewAPI returns the REST-backed category resource.
func NewAPI(client *backend.Client) API {
	return &restAPI{client: client}
}

func (a *restAPI) GetAll(ctx context.Context) ([]Category, error) {
	return backend.Get[[]Category](ctx, a.client, Entity, nil)
}

func (a *restAPI) GetByID(ctx context.Context, id int64) (Category, error) {
	return backend.Get[Category](ctx, a.client, fmt.Sprintf("%s/%d", Entity, id), nil)
}

func (a *restAPI) Create(ctx context.Context, form CreateCategory) (Category, error) {
	return backend.Post[Category](ctx, a.client, Entity, form)
}

func (a *restAPI) Update(ctx context.Context, id int64, form UpdateCategory) (Category, error) {
	return backend.Put[Category](ctx, a.client, fmt.Sprintf("%s/%d", Entity, id), form)
}

func (a *restAPI) Delete(ctx context.Context, id int64) (Category, error) {
	return backend.Delete[Category](ctx, a.client, fmt.Sprintf("%s/%d", Entity, id))
}
