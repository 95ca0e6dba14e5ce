package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

var (
	TaxRate         = decimal.RequireFromString("0.08")
	PlatformFeeRate = decimal.RequireFromString("0.05")
)

// ComputePricing snapshots price, tax and platform fee rounded to cents.
func ComputePricing(price decimal.Decimal) model.Pricing {
	return model.Pricing{
		Price:       price.Round(2),
		Tax:         price.Mul(TaxRate).Round(2),
		PlatformFee: price.Mul(PlatformFeeRate).Round(2),
	}
}
