package repository

import (
	"context"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// ReviewRepository stores order reviews. Reviews are never updated or deleted.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ExistsForOrder(ctx context.Context, orderID int64) (bool, error)
	GetByOrder(ctx context.Context, orderID int64) (*model.Review, error)
	ListBySeller(ctx context.Context, sellerUID int64) ([]model.Review, error)
	SellerSummary(ctx context.Context, sellerUID int64) (model.ReviewSummary, error)
}
