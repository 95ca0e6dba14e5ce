package usecase

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/domain/repository"
)

// OrderUseCase runs the reservation workflow. Every state change reads the
// affected rows under lock inside one transaction.
type OrderUseCase struct {
	uow         repository.UnitOfWork
	logger      *slog.Logger
	transitions metric.Int64Counter
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(uow repository.UnitOfWork, logger *slog.Logger) *OrderUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUseCase{
		uow:         uow,
		logger:      logger,
		transitions: int64Counter("campusmarket.order.transitions", "Order state transitions by event and resulting status"),
	}
}

// Create reserves an active listing for the buyer and snapshots its price.
func (u *OrderUseCase) Create(ctx context.Context, in model.CreateOrderInput) (order *model.Order, err error) {
	if err := validateCreateOrder(&in); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "order.create",
		attribute.Int64("listing.id", in.ListingID),
		attribute.Int64("buyer.uid", in.BuyerUID))
	defer func() { endSpan(span, err) }()

	err = u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		listing, err := r.Listings().GetForUpdate(ctx, in.ListingID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return domainErrors.Newf(domainErrors.ErrNotFound, "listing %d not found", in.ListingID)
			}
			return err
		}
		next, err := listing.Status.Transition(model.ListingStatusReserved)
		if err != nil {
			return domainErrors.Newf(domainErrors.ErrConflict, "listing %d is not available (status %s)", listing.ID, listing.Status)
		}
		if listing.SellerUID == in.BuyerUID {
			return domainErrors.Newf(domainErrors.ErrInvalidTransition, "you cannot order your own listing")
		}

		created := &model.Order{
			BuyerUID:       in.BuyerUID,
			ListingID:      listing.ID,
			Pricing:        ComputePricing(listing.Item.SellingPrice),
			DeliveryMethod: in.DeliveryMethod,
			DeliveryNote:   in.DeliveryNote,
			Status:         model.OrderStatusPending,
			SellerUID:      listing.SellerUID,
			ItemID:         listing.ItemID,
			ListingTitle:   listing.Item.Title,
			ListingStatus:  next,
		}
		if err := r.Orders().Create(ctx, created); err != nil {
			return err
		}
		if err := r.Listings().UpdateStatus(ctx, listing.ID, listing.ItemID, next); err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", "create"),
		attribute.String("status", string(order.Status))))
	u.logger.Info("order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("listing_id", order.ListingID),
		slog.Int64("buyer_uid", order.BuyerUID),
		slog.String("total", order.Pricing.Total().StringFixed(2)))
	return order, nil
}

// Complete marks the order as completed and the listing as sold. Seller only.
func (u *OrderUseCase) Complete(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return u.apply(ctx, orderID, userUID, model.OrderEventComplete)
}

// RequestCancel opens a cancellation request on behalf of either party.
func (u *OrderUseCase) RequestCancel(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return u.apply(ctx, orderID, userUID, model.OrderEventRequestCancel)
}

// AcceptCancel cancels the order and releases the listing. Only the
// counterparty of the requester may accept.
func (u *OrderUseCase) AcceptCancel(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return u.apply(ctx, orderID, userUID, model.OrderEventAcceptCancel)
}

// RejectCancel keeps the order alive. Only the counterparty of the requester may reject.
func (u *OrderUseCase) RejectCancel(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return u.apply(ctx, orderID, userUID, model.OrderEventRejectCancel)
}

func (u *OrderUseCase) apply(ctx context.Context, orderID, userUID int64, event model.OrderEvent) (order *model.Order, err error) {
	if err := validID(orderID, "order_id"); err != nil {
		return nil, err
	}
	if err := validID(userUID, "user_uid"); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "order."+string(event),
		attribute.Int64("order.id", orderID),
		attribute.Int64("user.uid", userUID))
	defer func() { endSpan(span, err) }()

	var transition model.OrderTransition
	err = u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		current, err := r.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return domainErrors.Newf(domainErrors.ErrNotFound, "order %d not found", orderID)
			}
			return err
		}
		party, ok := current.PartyOf(userUID)
		if !ok {
			return domainErrors.Newf(domainErrors.ErrForbidden, "you are not a party to order %d", orderID)
		}
		transition, err = current.Status.Apply(event, party)
		if err != nil {
			return err
		}
		if err := r.Orders().UpdateStatus(ctx, current.ID, transition.To); err != nil {
			return err
		}
		if transition.Listing != "" {
			next, err := current.ListingStatus.Transition(transition.Listing)
			if err != nil {
				return err
			}
			if err := r.Listings().UpdateStatus(ctx, current.ListingID, current.ItemID, next); err != nil {
				return err
			}
			current.ListingStatus = next
		}
		current.Status = transition.To
		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", string(event)),
		attribute.String("status", string(transition.To))))
	u.logger.Info("order status changed",
		slog.Int64("order_id", order.ID),
		slog.String("event", string(event)),
		slog.String("from", string(transition.From)),
		slog.String("to", string(transition.To)))
	return order, nil
}

// Get returns the order if userUID is its buyer or seller.
func (u *OrderUseCase) Get(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	if err := validID(orderID, "order_id"); err != nil {
		return nil, err
	}
	if err := validID(userUID, "user_uid"); err != nil {
		return nil, err
	}
	order, err := u.uow.Orders().Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.Newf(domainErrors.ErrNotFound, "order %d not found", orderID)
		}
		return nil, err
	}
	if _, ok := order.PartyOf(userUID); !ok {
		return nil, domainErrors.Newf(domainErrors.ErrForbidden, "you are not a party to order %d", orderID)
	}
	return order, nil
}

// ListByBuyer returns the buyer's orders, newest first.
func (u *OrderUseCase) ListByBuyer(ctx context.Context, buyerUID int64) ([]model.Order, error) {
	if err := validID(buyerUID, "buyer_uid"); err != nil {
		return nil, err
	}
	return u.uow.Orders().ListByBuyer(ctx, buyerUID)
}

// ListBySeller returns orders placed on the seller's listings, newest first.
func (u *OrderUseCase) ListBySeller(ctx context.Context, sellerUID int64) ([]model.Order, error) {
	if err := validID(sellerUID, "seller_uid"); err != nil {
		return nil, err
	}
	return u.uow.Orders().ListBySeller(ctx, sellerUID)
}
