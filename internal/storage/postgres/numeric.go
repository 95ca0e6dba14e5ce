package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NUMERIC columns travel as text so no precision is lost on the way.

func numericArg(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nullableNumericArg(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := numericArg(*d)
	return &s
}

func parseNumeric(column, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s: %w", column, err)
	}
	return d, nil
}

func parseNullableNumeric(column string, s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := parseNumeric(column, *s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
