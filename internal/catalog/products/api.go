package products

import (
	"context"
	"fmt"

	"github.com/mercadito-pos/mercadito-pos/internal/backend"
)

// API is the upstream product resource.
type API interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, form CreateProduct) (Product, error)
	Update(ctx context.Context, id int64, form UpdateProduct) (Product, error)
	Delete(ctx context.Context, id int64) (Product, error)
}

type restAPI struct {
	client *backend.Client
}

// NewAPI returns the REST-backed product resource.
func NewAPI(client *backend.Client) API {
	return &restAPI{client: client}
}

func (a *restAPI) GetAll(ctx context.Context) ([]Product, error) {
	return backend.Get[[]Product](ctx, a.client, Entity, nil)
}

func (a *restAPI) GetByID(ctx context.Context, id int64) (Product, error) {
	return backend.Get[Product](ctx, a.client, fmt.Sprintf("%s/%d", Entity, id), nil)
}

func (a *restAPI) Create(ctx context.Context, form CreateProduct) (Product, error) {
	return backend.Post[Product](ctx, a.client, Entity, form)
}

func (a *restAPI) Update(ctx context.Context, id int64, form UpdateProduct) (Product, error) {
	return backend.Put[Product](ctx, a.client, fmt.Sprintf("%s/%d", Entity, id), form)
}

func (a *restAPI) Delete(ctx context.Context, id int64) (Product, error) {
	return backend.Delete[Product](ctx, a.client, fmt.Sprintf("%s/%d", Entity, id))
}
