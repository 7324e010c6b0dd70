// Package ledger keeps the day's completed sales and the end-of-day
// closing in Redis, so cash reconciliation survives a gateway restart.
// The upstream sales resource remains the system of record; the ledger is
// a same-day working copy.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// PaymentMethod distinguishes drawer cash from transfers.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid reports whether the method is supported.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentTransfer
}

// Line is one sold product.
type Line struct {
	ProductID int64           `json:"productId"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// SaleRecord is one completed checkout. Total is denominated in Currency;
// nothing is converted.
type SaleRecord struct {
	ID       string          `json:"id"`
	At       time.Time       `json:"at"`
	Currency string          `json:"currency"`
	Method   PaymentMethod   `json:"method"`
	Total    decimal.Decimal `json:"total"`
	Lines    []Line          `json:"lines"`
}

// Closing is the end-of-day reconciliation record.
type Closing struct {
	Day            string          `json:"day"`
	ClosedAt       time.Time       `json:"closedAt"`
	ActualCup      decimal.Decimal `json:"actualCup"`
	ActualUsd      decimal.Decimal `json:"actualUsd"`
	TheoreticalCup decimal.Decimal `json:"theoreticalCup"`
	TheoreticalUsd decimal.Decimal `json:"theoreticalUsd"`
	VarianceCup    decimal.Decimal `json:"varianceCup"`
	VarianceUsd    decimal.Decimal `json:"varianceUsd"`
}

// ErrDayClosed is returned when appending to an already closed day.
var ErrDayClosed = errors.New("ledger: day already closed")

// Ledger stores day buckets in Redis.
type Ledger struct {
	rdb       *redis.Client
	retention time.Duration
	now       func() time.Time
}

// New constructs a Ledger. Buckets expire after retention.
func New(rdb *redis.Client, retention time.Duration) *Ledger {
	return &Ledger{rdb: rdb, retention: retention, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Today returns the current business day key.
func (l *Ledger) Today() string {
	return l.now().Format("2006-01-02")
}

func salesKey(day string) string {
	return "ledger:sales:" + day
}

func closingKey(day string) string {
	return "ledger:closing:" + day
}

// Append records a completed sale in today's bucket. A missing ID or
// timestamp is filled in. Appending to a closed day fails.
func (l *Ledger) Append(ctx context.Context, rec SaleRecord) (SaleRecord, error) {
	day := l.Today()
	closed, err := l.Closing(ctx, day)
	if err != nil {
		return SaleRecord{}, err
	}
	if closed != nil {
		return SaleRecord{}, ErrDayClosed
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.At.IsZero() {
		rec.At = l.now()
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return SaleRecord{}, fmt.Errorf("ledger: encode sale: %w", err)
	}

	key := salesKey(day)
	if err := l.rdb.RPush(ctx, key, payload).Err(); err != nil {
		return SaleRecord{}, fmt.Errorf("ledger: append sale: %w", err)
	}
	if err := l.rdb.Expire(ctx, key, l.retention).Err(); err != nil {
		return SaleRecord{}, fmt.Errorf("ledger: set retention: %w", err)
	}
	return rec, nil
}

// Sales returns the day's sales in recorded order.
func (l *Ledger) Sales(ctx context.Context, day string) ([]SaleRecord, error) {
	raw, err := l.rdb.LRange(ctx, salesKey(day), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("ledger: read sales: %w", err)
	}
	out := make([]SaleRecord, 0, len(raw))
	for _, item := range raw {
		var rec SaleRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("ledger: decode sale: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// SetClosing stores the day's closing record. A day closes once.
func (l *Ledger) SetClosing(ctx context.Context, c Closing) error {
	if c.Day == "" {
		c.Day = l.Today()
	}
	if c.ClosedAt.IsZero() {
		c.ClosedAt = l.now()
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("ledger: encode closing: %w", err)
	}
	ok, err := l.rdb.SetNX(ctx, closingKey(c.Day), payload, l.retention).Result()
	if err != nil {
		return fmt.Errorf("ledger: store closing: %w", err)
	}
	if !ok {
		return ErrDayClosed
	}
	return nil
}

// Closing returns the day's closing record, or nil when the day is open.
func (l *Ledger) Closing(ctx context.Context, day string) (*Closing, error) {
	raw, err := l.rdb.Get(ctx, closingKey(day)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: read closing: %w", err)
	}
	var c Closing
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("ledger: decode closing: %w", err)
	}
	return &c, nil
}
