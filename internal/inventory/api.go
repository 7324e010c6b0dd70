package inventory

import (
	"context"

	"github.com/mercadito-pos/mercadito-pos/internal/backend"
)

// API is the upstream inventory resource. The resource is read-only from
// the gateway's side; stock changes happen upstream.
type API interface {
	GetAll(ctx context.Context) ([]StockLevel, error)
	Movements(ctx context.Context) ([]Movement, error)
}

type restAPI struct {
	client *backend.Client
}

// NewAPI returns the REST-backed inventory resource.
func NewAPI(client *backend.Client) API {
	return &restAPI{client: client}
}

func (a *restAPI) GetAll(ctx context.Context) ([]StockLevel, error) {
	return backend.Get[[]StockLevel](ctx, a.client, Entity, nil)
}

func (a *restAPI) Movements(ctx context.Context) ([]Movement, error) {
	return backend.Get[[]Movement](ctx, a.client, Entity+"/movements", nil)
}
