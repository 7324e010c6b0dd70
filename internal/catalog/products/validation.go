package products

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mercadito-pos/mercadito-pos/internal/platform/httpx"
)

var validate = validator.New()

func validateCreate(form CreateProduct) error {
	if err := validate.Struct(form); err != nil {
		return err
	}
	if anyNegative(form.PurchasePriceCup, form.PurchasePriceUsd, form.SalePriceCup, form.SalePriceUsd) {
		return fmt.Errorf("%w: prices must be non-negative", httpx.ErrValidation)
	}
	return nil
}

func validateUpdate(form UpdateProduct) error {
	if form.Code != nil && *form.Code == "" {
		return fmt.Errorf("%w: code must not be empty", httpx.ErrValidation)
	}
	if form.Name != nil && *form.Name == "" {
		return fmt.Errorf("%w: name must not be empty", httpx.ErrValidation)
	}
	var prices []decimal.Decimal
	for _, p := range []*decimal.Decimal{form.PurchasePriceCup, form.PurchasePriceUsd, form.SalePriceCup, form.SalePriceUsd} {
		if p != nil {
			prices = append(prices, *p)
		}
	}
	if anyNegative(prices...) {
		return fmt.Errorf("%w: prices must be non-negative", httpx.ErrValidation)
	}
	return nil
}

func anyNegative(prices ...decimal.Decimal) bool {
	for _, p := range prices {
		if p.IsNegative() {
			return true
		}
	}
	return false
}
