package products

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito-pos/mercadito-pos/internal/backend"
	"github.com/mercadito-pos/mercadito-pos/internal/platform/httpx"
	"github.com/mercadito-pos/mercadito-pos/internal/query"
)

// ============================================================================
// MOCK API
// ============================================================================

type mockAPI struct {
	products map[int64]Product
	order    []int64
	nextID   int64

	getAllCalls  int
	getByIDCalls map[int64]int

	// Error injection
	getAllErr error
	createErr error
	updateErr error
	deleteErr error
}

func newMockAPI() *mockAPI {
	return &mockAPI{
		products:     make(map[int64]Product),
		getByIDCalls: make(map[int64]int),
		nextID:       1,
	}
}

func (m *mockAPI) seed(p Product) Product {
	p.ID = m.nextID
	m.nextID++
	m.products[p.ID] = p
	m.order = append(m.order, p.ID)
	return p
}

func (m *mockAPI) GetAll(ctx context.Context) ([]Product, error) {
	m.getAllCalls++
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	out := make([]Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.products[id])
	}
	return out, nil
}

func (m *mockAPI) GetByID(ctx context.Context, id int64) (Product, error) {
	m.getByIDCalls[id]++
	p, ok := m.products[id]
	if !ok {
		return Product{}, &backend.APIError{Status: 404, StatusText: "Not Found"}
	}
	return p, nil
}

func (m *mockAPI) Create(ctx context.Context, form CreateProduct) (Product, error) {
	if m.createErr != nil {
		return Product{}, m.createErr
	}
	return m.seed(Product{
		Code:         form.Code,
		Name:         form.Name,
		Description:  form.Description,
		Category:     form.Category,
		SalePriceCup: form.SalePriceCup,
		SalePriceUsd: form.SalePriceUsd,
		Active:       form.Active,
	}), nil
}

func (m *mockAPI) Update(ctx context.Context, id int64, form UpdateProduct) (Product, error) {
	if m.updateErr != nil {
		return Product{}, m.updateErr
	}
	p, ok := m.products[id]
	if !ok {
		return Product{}, &backend.APIError{Status: 404, StatusText: "Not Found"}
	}
	if form.Name != nil {
		p.Name = *form.Name
	}
	if form.Active != nil {
		p.Active = *form.Active
	}
	m.products[id] = p
	return p, nil
}

func (m *mockAPI) Delete(ctx context.Context, id int64) (Product, error) {
	if m.deleteErr != nil {
		return Product{}, m.deleteErr
	}
	p, ok := m.products[id]
	if !ok {
		return Product{}, &backend.APIError{Status: 404, StatusText: "Not Found"}
	}
	delete(m.products, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return p, nil
}

func newTestService(api API) (*Service, *query.Store) {
	store := query.NewStore(query.Options{
		StaleAfter:  time.Minute,
		GCAfter:     2 * time.Minute,
		MaxAttempts: 1,
		Backoff:     time.Millisecond,
	})
	return NewService(api, store), store
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ============================================================================
// TESTS
// ============================================================================

func TestListIsServedFromCache(t *testing.T) {
	api := newMockAPI()
	api.seed(Product{Code: "ALI001", Name: "Arroz Blanco 1kg", Active: true})
	svc, store := newTestService(api)
	defer store.Close()

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, api.getAllCalls)
}

func TestCreateInvalidatesListAndSeedsDetail(t *testing.T) {
	api := newMockAPI()
	api.seed(Product{Code: "ALI001", Name: "Arroz Blanco 1kg", Category: "Alimentos", Active: true})
	svc, store := newTestService(api)
	defer store.Close()

	before, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, before, 1)

	created, err := svc.Create(context.Background(), CreateProduct{
		Code:     "LIM001",
		Name:     "Detergente en Polvo 500g",
		Category: "Limpieza",
		Active:   true,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	// The list read after the create reflects the new entity without any
	// manual cache busting.
	after, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, after, 2)
	assert.Equal(t, 2, api.getAllCalls)

	// The detail slot is warm: no upstream round-trip.
	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Zero(t, api.getByIDCalls[created.ID])
}

func TestFailedCreateLeavesCacheUntouched(t *testing.T) {
	api := newMockAPI()
	api.seed(Product{Code: "ALI001", Name: "Arroz Blanco 1kg", Category: "Alimentos", Active: true})
	svc, store := newTestService(api)
	defer store.Close()

	_, err := svc.List(context.Background())
	require.NoError(t, err)

	api.createErr = &backend.APIError{Status: 422, StatusText: "Unprocessable Entity"}
	_, err = svc.Create(context.Background(), CreateProduct{Code: "X", Name: "X", Category: "X"})
	require.Error(t, err)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, api.getAllCalls)
}

func TestUpdateOverwritesDetailSlot(t *testing.T) {
	api := newMockAPI()
	p := api.seed(Product{Code: "ALI001", Name: "Arroz Blanco 1kg", Active: true})
	svc, store := newTestService(api)
	defer store.Close()

	name := "Arroz Integral 1kg"
	updated, err := svc.Update(context.Background(), p.ID, UpdateProduct{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Zero(t, api.getByIDCalls[p.ID])
}

func TestDeleteRemovesDetailSlot(t *testing.T) {
	api := newMockAPI()
	p := api.seed(Product{Code: "ALI001", Name: "Arroz Blanco 1kg", Active: true})
	svc, store := newTestService(api)
	defer store.Close()

	// Warm the detail slot first.
	_, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, api.getByIDCalls[p.ID])

	_, err = svc.Delete(context.Background(), p.ID)
	require.NoError(t, err)

	// A later detail read must refetch, and the upstream now answers 404.
	_, err = svc.Get(context.Background(), p.ID)
	require.Error(t, err)
	apiErr, ok := err.(*backend.APIError)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, 2, api.getByIDCalls[p.ID])
}

func TestGetRejectsInvalidID(t *testing.T) {
	svc, store := newTestService(newMockAPI())
	defer store.Close()

	_, err := svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, httpx.ErrInvalidID)
}

func TestCreateValidation(t *testing.T) {
	svc, store := newTestService(newMockAPI())
	defer store.Close()

	_, err := svc.Create(context.Background(), CreateProduct{Name: "sin código", Category: "Alimentos"})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), CreateProduct{
		Code:         "NEG001",
		Name:         "Precio negativo",
		Category:     "Alimentos",
		SalePriceUsd: price("-1"),
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestListFiltered(t *testing.T) {
	api := newMockAPI()
	api.seed(Product{Code: "ALI001", Name: "Arroz Blanco 1kg", Category: "Alimentos", Active: true})
	api.seed(Product{Code: "ALI002", Name: "Aceite Vegetal 1L", Category: "Alimentos", Active: false})
	api.seed(Product{Code: "LIM001", Name: "Detergente en Polvo 500g", Category: "Limpieza", Active: true})
	svc, store := newTestService(api)
	defer store.Close()

	active := true
	got, err := svc.ListFiltered(context.Background(), Filters{Category: "Alimentos", Active: &active})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ALI001", got[0].Code)

	// Search matches name or code, case-insensitively.
	got, err = svc.ListFiltered(context.Background(), Filters{Search: "aceite"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ALI002", got[0].Code)

	got, err = svc.ListFiltered(context.Background(), Filters{Search: "lim001"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LIM001", got[0].Code)
}

func TestFilterIsIdempotent(t *testing.T) {
	api := newMockAPI()
	api.seed(Product{Code: "ALI001", Name: "Arroz Blanco 1kg", Category: "Alimentos", Active: true})
	api.seed(Product{Code: "ALI003", Name: "Frijoles Negros 1kg", Category: "Alimentos", Active: true})
	api.seed(Product{Code: "LIM002", Name: "Jabón de Lavar", Category: "Limpieza", Active: true})
	svc, store := newTestService(api)
	defer store.Close()

	f := Filters{Category: "Alimentos"}
	first, err := svc.ListFiltered(context.Background(), f)
	require.NoError(t, err)
	second, err := svc.ListFiltered(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListActiveExcludesInactive(t *testing.T) {
	api := newMockAPI()
	api.seed(Product{Code: "ALI001", Name: "Arroz Blanco 1kg", Active: true})
	api.seed(Product{Code: "DES001", Name: "Descontinuado", Active: false})
	svc, store := newTestService(api)
	defer store.Close()

	got, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ALI001", got[0].Code)
}
