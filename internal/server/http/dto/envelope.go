package dto

import "github.com/shopspring/decimal"

// Envelope is the common part of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK builds a successful envelope.
func OK(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

// Failure builds an error envelope.
func Failure(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// Money renders an amount with two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
