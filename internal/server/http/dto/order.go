package dto

import (
	"time"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// CreateOrderRequest describes POST /api/orders/create payload.
type CreateOrderRequest struct {
	ListingID      int64   `json:"listing_id" binding:"required,gt=0"`
	BuyerUID       int64   `json:"buyer_uid" binding:"required,gt=0"`
	DeliveryMethod string  `json:"delivery_method" binding:"required,oneof=pickup delivered other"`
	DeliveryNote   *string `json:"delivery_note"`
}

// OrderActionRequest identifies the user acting on an order.
type OrderActionRequest struct {
	UserUID int64 `json:"user_uid" binding:"required,gt=0"`
}

// UserQuery binds the user_uid query parameter.
type UserQuery struct {
	UserUID int64 `form:"user_uid" binding:"required,gt=0"`
}

// OptionalUserQuery binds an optional user_uid query parameter.
type OptionalUserQuery struct {
	UserUID *int64 `form:"user_uid" binding:"omitempty,gt=0"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	OrderID        int64     `json:"order_id"`
	ListingID      int64     `json:"listing_id"`
	ItemID         int64     `json:"item_id"`
	BuyerUID       int64     `json:"buyer_uid"`
	SellerUID      int64     `json:"seller_uid"`
	Title          string    `json:"title,omitempty"`
	Price          string    `json:"price"`
	Tax            string    `json:"tax"`
	PlatformFee    string    `json:"platform_fee"`
	Total          string    `json:"total"`
	DeliveryMethod string    `json:"delivery_method"`
	DeliveryNote   *string   `json:"delivery_note"`
	Status         string    `json:"status"`
	ListingStatus  string    `json:"listing_status,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewOrderResponse converts a domain order.
func NewOrderResponse(o model.Order) OrderResponse {
	return OrderResponse{
		OrderID:        o.ID,
		ListingID:      o.ListingID,
		ItemID:         o.ItemID,
		BuyerUID:       o.BuyerUID,
		SellerUID:      o.SellerUID,
		Title:          o.ListingTitle,
		Price:          Money(o.Pricing.Price),
		Tax:            Money(o.Pricing.Tax),
		PlatformFee:    Money(o.Pricing.PlatformFee),
		Total:          Money(o.Pricing.Total()),
		DeliveryMethod: string(o.DeliveryMethod),
		DeliveryNote:   o.DeliveryNote,
		Status:         string(o.Status),
		ListingStatus:  string(o.ListingStatus),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// NewOrderResponses converts a list of domain orders.
func NewOrderResponses(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}

type OrderCreatedResponse struct {
	Envelope
	OrderID      int64         `json:"order_id"`
	OrderDetails OrderResponse `json:"order_details"`
}

type OrderListResponse struct {
	Envelope
	Orders []OrderResponse `json:"orders"`
	Count  int             `json:"count"`
}

type OrderDetailResponse struct {
	Envelope
	Order OrderResponse `json:"order"`
}
