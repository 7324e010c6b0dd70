package sales

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mercadito-pos/mercadito-pos/internal/catalog/products"
	"github.com/mercadito-pos/mercadito-pos/internal/ledger"
	"github.com/mercadito-pos/mercadito-pos/internal/platform/httpx"
	"github.com/mercadito-pos/mercadito-pos/internal/pos/cart"
	"github.com/mercadito-pos/mercadito-pos/internal/query"
)

// Catalog is the slice of the product service a checkout needs.
type Catalog interface {
	ListActive(ctx context.Context) ([]products.Product, error)
}

// DayLedger records completed sales for cash reconciliation.
type DayLedger interface {
	Append(ctx context.Context, rec ledger.SaleRecord) (ledger.SaleRecord, error)
	Closing(ctx context.Context, day string) (*ledger.Closing, error)
	Today() string
}

// CheckoutLine references a product by id with a positive quantity.
type CheckoutLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CheckoutRequest is a full checkout session submitted by the sales page.
type CheckoutRequest struct {
	Lines         []CheckoutLine       `json:"lines"`
	Currency      cart.Currency        `json:"currency"`
	PaymentMethod ledger.PaymentMethod `json:"paymentMethod"`
}

// Service exposes cached sale reads and the checkout path.
type Service struct {
	api     API
	store   *query.Store
	catalog Catalog
	ledger  DayLedger
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(api API, store *query.Store, catalog Catalog, dayLedger DayLedger, logger *slog.Logger) *Service {
	return &Service{
		api:     api,
		store:   store,
		catalog: catalog,
		ledger:  dayLedger,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// List returns persisted sales, served from cache while fresh.
func (s *Service) List(ctx context.Context) ([]Sale, error) {
	return query.Fetch(ctx, s.store, query.ListKey(Entity), s.api.GetAll)
}

// Get returns one sale by id.
func (s *Service) Get(ctx context.Context, id int64) (Sale, error) {
	if id <= 0 {
		return Sale{}, fmt.Errorf("%w: sale id %d", httpx.ErrInvalidID, id)
	}
	return query.Fetch(ctx, s.store, query.DetailKey(Entity, id), func(ctx context.Context) (Sale, error) {
		return s.api.GetByID(ctx, id)
	})
}

// Checkout rebuilds the cart against the active catalog, persists the sale
// upstream, records it in the day ledger, and invalidates the sales list
// cache. A failure at any step before the upstream write leaves everything
// untouched.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (Sale, error) {
	if !req.Currency.Valid() {
		return Sale{}, fmt.Errorf("%w: currency must be CUP or USD", httpx.ErrValidation)
	}
	if !req.PaymentMethod.Valid() {
		return Sale{}, fmt.Errorf("%w: payment method must be cash or transfer", httpx.ErrValidation)
	}
	if len(req.Lines) == 0 {
		return Sale{}, fmt.Errorf("%w: checkout needs at least one line", httpx.ErrValidation)
	}

	// Refuse early when the business day is already closed; the upstream
	// write must not happen for a sale the ledger cannot take.
	closing, err := s.ledger.Closing(ctx, s.ledger.Today())
	if err != nil {
		return Sale{}, err
	}
	if closing != nil {
		return Sale{}, ledger.ErrDayClosed
	}

	available, err := s.catalog.ListActive(ctx)
	if err != nil {
		return Sale{}, err
	}
	byID := make(map[int64]products.Product, len(available))
	for _, p := range available {
		byID[p.ID] = p
	}

	session := cart.New()
	for _, line := range req.Lines {
		p, ok := byID[line.ProductID]
		if !ok {
			return Sale{}, fmt.Errorf("%w: product %d is not available for sale", httpx.ErrValidation, line.ProductID)
		}
		if line.Quantity < 1 {
			return Sale{}, fmt.Errorf("%w: quantity for product %d must be at least 1", httpx.ErrValidation, line.ProductID)
		}
		if err := session.Add(p); err != nil {
			return Sale{}, err
		}
		if err := session.SetQuantity(p.ID, line.Quantity); err != nil {
			return Sale{}, err
		}
	}
	if err := session.Complete(); err != nil {
		return Sale{}, err
	}

	form := CreateSale{
		Date:          s.now(),
		Currency:      string(req.Currency),
		PaymentMethod: string(req.PaymentMethod),
		Total:         session.Total(req.Currency),
	}
	for _, item := range session.Items() {
		form.Lines = append(form.Lines, SaleLine{
			ProductID: item.Product.ID,
			Code:      item.Product.Code,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.SalePrice(string(req.Currency)),
		})
	}

	sale, err := s.api.Create(ctx, form)
	if err != nil {
		return Sale{}, err
	}

	if _, err := s.ledger.Append(ctx, toRecord(sale, form)); err != nil {
		// The sale is already upstream; reconciliation for today degrades
		// but the checkout itself succeeded.
		s.logger.Warn("sale recorded upstream but not in day ledger",
			slog.Int64("saleId", sale.ID),
			slog.Any("error", err))
	}

	s.store.InvalidateLists(Entity)
	if sale.ID > 0 {
		s.store.Set(query.DetailKey(Entity, sale.ID), sale)
	}
	session.Clear()
	return sale, nil
}

func toRecord(sale Sale, form CreateSale) ledger.SaleRecord {
	rec := ledger.SaleRecord{
		At:       form.Date,
		Currency: form.Currency,
		Method:   ledger.PaymentMethod(form.PaymentMethod),
		Total:    form.Total,
	}
	if sale.ID > 0 {
		rec.ID = fmt.Sprintf("sale-%d", sale.ID)
	}
	for _, line := range form.Lines {
		rec.Lines = append(rec.Lines, ledger.Line{
			ProductID: line.ProductID,
			Code:      line.Code,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return rec
}
