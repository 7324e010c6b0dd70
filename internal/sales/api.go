package sales

import (
	"context"
	"fmt"

	"github.com/mercadito-pos/mercadito-pos/internal/backend"
)

// API is the upstream sales resource.
type API interface {
	GetAll(ctx context.Context) ([]Sale, error)
	GetByID(ctx context.Context, id int64) (Sale, error)
	Create(ctx context.Context, form CreateSale) (Sale, error)
}

type restAPI struct {
	client *backend.Client
}

// NewAPI returns the REST-backed sales resource.
func NewAPI(client *backend.Client) API {
	return &restAPI{client: client}
}

func (a *restAPI) GetAll(ctx context.Context) ([]Sale, error) {
	return backend.Get[[]Sale](ctx, a.client, Entity, nil)
}

func (a *restAPI) GetByID(ctx context.Context, id int64) (Sale, error) {
	return backend.Get[Sale](ctx, a.client, fmt.Sprintf("%s/%d", Entity, id), nil)
}

func (a *restAPI) Create(ctx context.Context, form CreateSale) (Sale, error) {
	return backend.Post[Sale](ctx, a.client, Entity, form)
}
