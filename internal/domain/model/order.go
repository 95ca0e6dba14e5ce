package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryMethod describes how the item reaches the buyer.
type DeliveryMethod string

const (
	DeliveryMethodPickup    DeliveryMethod = "pickup"
	DeliveryMethodDelivered DeliveryMethod = "delivered"
	DeliveryMethodOther     DeliveryMethod = "other"
)

func (m DeliveryMethod) Valid() bool {
	switch m {
	case DeliveryMethodPickup, DeliveryMethodDelivered, DeliveryMethodOther:
		return true
	}
	return false
}

// Pricing is the price snapshot taken when the order is created.
type Pricing struct {
	Price       decimal.Decimal
	Tax         decimal.Decimal
	PlatformFee decimal.Decimal
}

// Total returns price plus tax and platform fee.
func (p Pricing) Total() decimal.Decimal {
	return p.Price.Add(p.Tax).Add(p.PlatformFee)
}

// Order is a buyer's claim on a listing.
type Order struct {
	ID             int64
	BuyerUID       int64
	ListingID      int64
	Pricing        Pricing
	DeliveryMethod DeliveryMethod
	DeliveryNote   *string
	Status         OrderStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined from the listing and its item.
	SellerUID     int64
	ItemID        int64
	ListingTitle  string
	ListingStatus ListingStatus
}

// PartyOf resolves which side of the order uid is on.
func (o *Order) PartyOf(uid int64) (Party, bool) {
	switch uid {
	case o.BuyerUID:
		return PartyBuyer, true
	case o.SellerUID:
		return PartySeller, true
	}
	return "", false
}

// CreateOrderInput carries the createOrder request.
type CreateOrderInput struct {
	ListingID      int64
	BuyerUID       int64
	DeliveryMethod DeliveryMethod
	DeliveryNote   *string
}
