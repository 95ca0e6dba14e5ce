package repository

import (
	"context"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, id int64) (*model.Order, error)
	// GetForUpdate reads the order joined with listing and item and locks the rows.
	GetForUpdate(ctx context.Context, id int64) (*model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error
	ListByBuyer(ctx context.Context, buyerUID int64) ([]model.Order, error)
	ListBySeller(ctx context.Context, sellerUID int64) ([]model.Order, error)
}
