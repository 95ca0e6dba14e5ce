package usecase

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/domain/repository"
)

// ReviewUseCase lets buyers rate completed orders once.
type ReviewUseCase struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewReviewUseCase constructs ReviewUseCase.
func NewReviewUseCase(uow repository.UnitOfWork, logger *slog.Logger) *ReviewUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewUseCase{uow: uow, logger: logger}
}

// Create stores the buyer's review of a completed order.
func (u *ReviewUseCase) Create(ctx context.Context, in model.CreateReviewInput) (review *model.Review, err error) {
	if err := validateReview(&in); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "review.create", attribute.Int64("order.id", in.OrderID))
	defer func() { endSpan(span, err) }()

	err = u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		order, err := r.Orders().GetForUpdate(ctx, in.OrderID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return domainErrors.Newf(domainErrors.ErrNotFound, "order %d not found", in.OrderID)
			}
			return err
		}
		if order.BuyerUID != in.ReviewerUID {
			return domainErrors.Newf(domainErrors.ErrForbidden, "only the buyer can review order %d", order.ID)
		}
		if order.Status != model.OrderStatusCompleted {
			return domainErrors.Newf(domainErrors.ErrInvalidTransition, "only completed orders can be reviewed (status %s)", order.Status)
		}
		exists, err := r.Reviews().ExistsForOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if exists {
			return alreadyReviewed(order.ID)
		}

		created := &model.Review{
			OrderID:     order.ID,
			ReviewerUID: in.ReviewerUID,
			SellerUID:   order.SellerUID,
			Rating:      in.Rating,
			Comment:     in.Comment,
		}
		if err := r.Reviews().Create(ctx, created); err != nil {
			if errors.Is(err, domainErrors.ErrAlreadyExists) {
				return alreadyReviewed(order.ID)
			}
			return err
		}
		review = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("review created",
		slog.Int64("review_id", review.ID),
		slog.Int64("order_id", review.OrderID),
		slog.Int("rating", review.Rating))
	return review, nil
}

func alreadyReviewed(orderID int64) error {
	return domainErrors.Newf(domainErrors.ErrConflict, "order %d has already been reviewed", orderID)
}

// GetByOrder returns the review of an order. When viewerUID is set the
// viewer must be the order's buyer or seller.
func (u *ReviewUseCase) GetByOrder(ctx context.Context, orderID int64, viewerUID *int64) (*model.Review, error) {
	if err := validID(orderID, "order_id"); err != nil {
		return nil, err
	}
	if viewerUID != nil {
		order, err := u.uow.Orders().Get(ctx, orderID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return nil, domainErrors.Newf(domainErrors.ErrNotFound, "order %d not found", orderID)
			}
			return nil, err
		}
		if _, ok := order.PartyOf(*viewerUID); !ok {
			return nil, domainErrors.Newf(domainErrors.ErrForbidden, "you are not a party to order %d", orderID)
		}
	}
	review, err := u.uow.Reviews().GetByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.Newf(domainErrors.ErrNotFound, "order %d has no review", orderID)
		}
		return nil, err
	}
	return review, nil
}

// SellerReviews returns a seller's reviews with count and average rating.
func (u *ReviewUseCase) SellerReviews(ctx context.Context, sellerUID int64) ([]model.Review, model.ReviewSummary, error) {
	if err := validID(sellerUID, "seller_uid"); err != nil {
		return nil, model.ReviewSummary{}, err
	}
	reviews, err := u.uow.Reviews().ListBySeller(ctx, sellerUID)
	if err != nil {
		return nil, model.ReviewSummary{}, err
	}
	summary, err := u.uow.Reviews().SellerSummary(ctx, sellerUID)
	if err != nil {
		return nil, model.ReviewSummary{}, err
	}
	return reviews, summary, nil
}
