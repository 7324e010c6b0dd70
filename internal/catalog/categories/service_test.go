package categories_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadito-pos/mercadito-pos/internal/backend"
	"github.com/mercadito-pos/mercadito-pos/internal/catalog/categories"
	"github.com/mercadito-pos/mercadito-pos/internal/query"
)

// fakeBackend is a minimal upstream categories resource for integration
// tests covering the full transport + cache + service path.
type fakeBackend struct {
	mu     sync.Mutex
	byID   map[int64]categories.Category
	order  []int64
	nextID int64

	listCalls int
}

func newFakeBackend(startID int64) *fakeBackend {
	return &fakeBackend{byID: make(map[int64]categories.Category), nextID: startID}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			f.listCalls++
			out := make([]categories.Category, 0, len(f.order))
			for _, id := range f.order {
				out = append(out, f.byID[id])
			}
			json.NewEncoder(w).Encode(out)
		case http.MethodPost:
			var form categories.CreateCategory
			json.NewDecoder(r.Body).Decode(&form)
			c := categories.Category{ID: f.nextID, Name: form.Name, Description: form.Description, Active: form.Active}
			f.nextID++
			f.byID[c.ID] = c
			f.order = append(f.order, c.ID)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(c)
		}
	})
	mux.HandleFunc("/categories/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/categories/"), 10, 64)
		c, ok := f.byID[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"statusCode": 404, "message": "category not found"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(c)
		case http.MethodPut:
			var form categories.UpdateCategory
			json.NewDecoder(r.Body).Decode(&form)
			if form.Name != nil {
				c.Name = *form.Name
			}
			if form.Active != nil {
				c.Active = *form.Active
			}
			f.byID[id] = c
			json.NewEncoder(w).Encode(c)
		case http.MethodDelete:
			delete(f.byID, id)
			for i, oid := range f.order {
				if oid == id {
					f.order = append(f.order[:i], f.order[i+1:]...)
					break
				}
			}
			json.NewEncoder(w).Encode(c)
		}
	})
	return mux
}

func newTestService(t *testing.T, f *fakeBackend) *categories.Service {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	client, err := backend.New(srv.URL, 2*time.Second, nil)
	require.NoError(t, err)

	store := query.NewStore(query.Options{
		StaleAfter:  time.Minute,
		GCAfter:     2 * time.Minute,
		MaxAttempts: 1,
		Backoff:     time.Millisecond,
	})
	t.Cleanup(store.Close)

	return categories.NewService(categories.NewAPI(client), store)
}

func TestCreatedCategoryAppearsInNextList(t *testing.T) {
	f := newFakeBackend(12)
	svc := newTestService(t, f)

	before, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, before)

	created, err := svc.Create(context.Background(), categories.CreateCategory{Name: "Bebidas", Active: true})
	require.NoError(t, err)
	assert.Equal(t, int64(12), created.ID)

	// No manual cache busting: the invalidation alone forces the refetch.
	after, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, int64(12), after[0].ID)
	assert.Equal(t, "Bebidas", after[0].Name)
	assert.Equal(t, 2, f.listCalls)

	// The create seeded the detail slot, so this read stays local.
	calls := f.listCalls
	got, err := svc.Get(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, calls, f.listCalls)
}

func TestDeletedCategoryIsNotServedStale(t *testing.T) {
	f := newFakeBackend(7)
	svc := newTestService(t, f)

	created, err := svc.Create(context.Background(), categories.CreateCategory{Name: "Temporal", Active: true})
	require.NoError(t, err)
	require.Equal(t, int64(7), created.ID)

	_, err = svc.Delete(context.Background(), 7)
	require.NoError(t, err)

	// The detail slot was dropped: the read refetches and sees 404.
	_, err = svc.Get(context.Background(), 7)
	require.Error(t, err)
	apiErr, ok := err.(*backend.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestUpdateServesFreshDetailWithoutRefetch(t *testing.T) {
	f := newFakeBackend(1)
	svc := newTestService(t, f)

	_, err := svc.Create(context.Background(), categories.CreateCategory{Name: "Bebidas", Active: true})
	require.NoError(t, err)

	name := "Bebidas y Refrescos"
	updated, err := svc.Update(context.Background(), 1, categories.UpdateCategory{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	got, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
}

func TestListActiveFiltersInactive(t *testing.T) {
	f := newFakeBackend(1)
	svc := newTestService(t, f)

	_, err := svc.Create(context.Background(), categories.CreateCategory{Name: "Alimentos", Active: true})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), categories.CreateCategory{Name: "Archivada", Active: false})
	require.NoError(t, err)

	active, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Alimentos", active[0].Name)

	// Management view still sees everything.
	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateRequiresName(t *testing.T) {
	f := newFakeBackend(1)
	svc := newTestService(t, f)

	_, err := svc.Create(context.Background(), categories.CreateCategory{Active: true})
	require.Error(t, err)
}
