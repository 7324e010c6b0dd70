// Package cashclose reconciles the cash drawer against the day ledger:
// totals per currency split by payment method, theoretical drawer cash,
// and the variance against the counted amounts.
package cashclose

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mercadito-pos/mercadito-pos/internal/ledger"
	"github.com/mercadito-pos/mercadito-pos/internal/platform/httpx"
)

// DayLedger is the slice of the ledger this service reads and closes.
type DayLedger interface {
	Sales(ctx context.Context, day string) ([]ledger.SaleRecord, error)
	Closing(ctx context.Context, day string) (*ledger.Closing, error)
	SetClosing(ctx context.Context, c ledger.Closing) error
	Today() string
}

// Summary is the daily sales picture per currency. Theoretical cash is
// the cash-method total; transfers never reach the drawer.
type Summary struct {
	Day                string          `json:"day"`
	TotalCup           decimal.Decimal `json:"totalCup"`
	TotalUsd           decimal.Decimal `json:"totalUsd"`
	CashCup            decimal.Decimal `json:"cashCup"`
	CashUsd            decimal.Decimal `json:"cashUsd"`
	TransferCup        decimal.Decimal `json:"transferCup"`
	TransferUsd        decimal.Decimal `json:"transferUsd"`
	TheoreticalCashCup decimal.Decimal `json:"theoreticalCashCup"`
	TheoreticalCashUsd decimal.Decimal `json:"theoreticalCashUsd"`
	Closed             bool            `json:"closed"`
}

// CloseRequest carries the counted drawer amounts. Both currencies must
// be entered before the day can close.
type CloseRequest struct {
	ActualCup *decimal.Decimal `json:"actualCup"`
	ActualUsd *decimal.Decimal `json:"actualUsd"`
}

// Service computes summaries and performs the close.
type Service struct {
	ledger DayLedger
}

func NewService(dayLedger DayLedger) *Service {
	return &Service{ledger: dayLedger}
}

// Summary aggregates today's ledger.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	day := s.ledger.Today()
	sales, err := s.ledger.Sales(ctx, day)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Day:         day,
		TotalCup:    decimal.Zero,
		TotalUsd:    decimal.Zero,
		CashCup:     decimal.Zero,
		CashUsd:     decimal.Zero,
		TransferCup: decimal.Zero,
		TransferUsd: decimal.Zero,
	}
	for _, sale := range sales {
		switch sale.Currency {
		case "USD":
			sum.TotalUsd = sum.TotalUsd.Add(sale.Total)
			if sale.Method == ledger.PaymentCash {
				sum.CashUsd = sum.CashUsd.Add(sale.Total)
			} else {
				sum.TransferUsd = sum.TransferUsd.Add(sale.Total)
			}
		default:
			sum.TotalCup = sum.TotalCup.Add(sale.Total)
			if sale.Method == ledger.PaymentCash {
				sum.CashCup = sum.CashCup.Add(sale.Total)
			} else {
				sum.TransferCup = sum.TransferCup.Add(sale.Total)
			}
		}
	}
	sum.TheoreticalCashCup = sum.CashCup
	sum.TheoreticalCashUsd = sum.CashUsd

	closing, err := s.ledger.Closing(ctx, day)
	if err != nil {
		return Summary{}, err
	}
	sum.Closed = closing != nil
	return sum, nil
}

// Close reconciles the drawer and locks the day. Variance is counted
// minus theoretical, per currency, never converted.
func (s *Service) Close(ctx context.Context, req CloseRequest) (ledger.Closing, error) {
	if req.ActualCup == nil || req.ActualUsd == nil {
		return ledger.Closing{}, fmt.Errorf("%w: counted cash required in both currencies", httpx.ErrValidation)
	}

	sum, err := s.Summary(ctx)
	if err != nil {
		return ledger.Closing{}, err
	}
	if sum.Closed {
		return ledger.Closing{}, ledger.ErrDayClosed
	}

	closing := ledger.Closing{
		Day:            sum.Day,
		ActualCup:      *req.ActualCup,
		ActualUsd:      *req.ActualUsd,
		TheoreticalCup: sum.TheoreticalCashCup,
		TheoreticalUsd: sum.TheoreticalCashUsd,
		VarianceCup:    req.ActualCup.Sub(sum.TheoreticalCashCup),
		VarianceUsd:    req.ActualUsd.Sub(sum.TheoreticalCashUsd),
	}
	if err := s.ledger.SetClosing(ctx, closing); err != nil {
		return ledger.Closing{}, err
	}
	return closing, nil
}
