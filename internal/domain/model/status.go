package model

import (
	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
)

// ListingStatus describes availability of a listing in the catalog.
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusReserved ListingStatus = "reserved"
	ListingStatusSold     ListingStatus = "Sold"
)

// Valid reports whether s is one of the known listing statuses.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusActive, ListingStatusReserved, ListingStatusSold:
		return true
	}
	return false
}

// Transition checks that the listing may move from s to to.
// Allowed moves: active to reserved, reserved to Sold, reserved back to active.
func (s ListingStatus) Transition(to ListingStatus) (ListingStatus, error) {
	switch {
	case s == ListingStatusActive && to == ListingStatusReserved,
		s == ListingStatusReserved && to == ListingStatusSold,
		s == ListingStatusReserved && to == ListingStatusActive:
		return to, nil
	}
	return s, domainErrors.Newf(domainErrors.ErrConflict, "listing cannot move from %s to %s", s, to)
}

// ItemStatus returns the item status that mirrors s.
// Item and listing are always written together with these paired values.
func (s ListingStatus) ItemStatus() ItemStatus {
	switch s {
	case ListingStatusReserved:
		return ItemStatusReserved
	case ListingStatusSold:
		return ItemStatusSold
	default:
		return ItemStatusAvailable
	}
}

// ItemStatus mirrors ListingStatus on the item row.
type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusReserved  ItemStatus = "reserved"
	ItemStatusSold      ItemStatus = "Sold"
)

// Valid reports whether s is one of the known item statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusAvailable, ItemStatusReserved, ItemStatusSold:
		return true
	}
	return false
}

// Party is a side of an order.
type Party string

const (
	PartyBuyer  Party = "buyer"
	PartySeller Party = "seller"
)

// Counterparty returns the other side of the order.
func (p Party) Counterparty() Party {
	if p == PartyBuyer {
		return PartySeller
	}
	return PartyBuyer
}

// OrderStatus describes order lifecycle.
type OrderStatus string

const (
	OrderStatusPending                 OrderStatus = "PENDING"
	OrderStatusCompleted               OrderStatus = "COMPLETED"
	OrderStatusCancelRequestedByBuyer  OrderStatus = "CANCEL_REQUESTED_BY_BUYER"
	OrderStatusCancelRequestedBySeller OrderStatus = "CANCEL_REQUESTED_BY_SELLER"
	OrderStatusCancelledByBuyer        OrderStatus = "CANCELLED_BY_BUYER"
	OrderStatusCancelledBySeller       OrderStatus = "CANCELLED_BY_SELLER"
	OrderStatusCancelRejectedByBuyer   OrderStatus = "CANCEL_REJECTED_BY_BUYER"
	OrderStatusCancelRejectedBySeller  OrderStatus = "CANCEL_REJECTED_BY_SELLER"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted,
		OrderStatusCancelRequestedByBuyer, OrderStatusCancelRequestedBySeller,
		OrderStatusCancelledByBuyer, OrderStatusCancelledBySeller,
		OrderStatusCancelRejectedByBuyer, OrderStatusCancelRejectedBySeller:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s.Cancelled()
}

// Cancelled reports whether either party cancelled the order.
func (s OrderStatus) Cancelled() bool {
	return s == OrderStatusCancelledByBuyer || s == OrderStatusCancelledBySeller
}

// CancelRequested reports whether a cancellation request awaits an answer.
func (s OrderStatus) CancelRequested() bool {
	return s == OrderStatusCancelRequestedByBuyer || s == OrderStatusCancelRequestedBySeller
}

// CancelRejected reports whether the last cancellation request was rejected.
func (s OrderStatus) CancelRejected() bool {
	return s == OrderStatusCancelRejectedByBuyer || s == OrderStatusCancelRejectedBySeller
}

// requester returns who opened the pending cancellation request.
func (s OrderStatus) requester() Party {
	if s == OrderStatusCancelRequestedBySeller {
		return PartySeller
	}
	return PartyBuyer
}

func cancelRequestedBy(p Party) OrderStatus {
	if p == PartySeller {
		return OrderStatusCancelRequestedBySeller
	}
	return OrderStatusCancelRequestedByBuyer
}

func cancelledBy(p Party) OrderStatus {
	if p == PartySeller {
		return OrderStatusCancelledBySeller
	}
	return OrderStatusCancelledByBuyer
}

func cancelRejectedBy(p Party) OrderStatus {
	if p == PartySeller {
		return OrderStatusCancelRejectedBySeller
	}
	return OrderStatusCancelRejectedByBuyer
}

// OrderEvent is an action a party performs on an existing order.
type OrderEvent string

const (
	OrderEventComplete      OrderEvent = "complete"
	OrderEventRequestCancel OrderEvent = "request_cancel"
	OrderEventAcceptCancel  OrderEvent = "accept_cancel"
	OrderEventRejectCancel  OrderEvent = "reject_cancel"
)

// OrderTransition is the result of applying an event to an order status.
// Listing is empty when the listing keeps its current status.
type OrderTransition struct {
	From    OrderStatus
	To      OrderStatus
	Listing ListingStatus
}

// Apply is the single transition function of the order state machine.
// It returns ErrForbidden, ErrValidation or ErrInvalidTransition kinds
// with a message naming the current status or the party expected to act.
func (s OrderStatus) Apply(event OrderEvent, actor Party) (OrderTransition, error) {
	t := OrderTransition{From: s}

	switch event {
	case OrderEventComplete:
		if actor != PartySeller {
			return t, domainErrors.Newf(domainErrors.ErrForbidden, "only the seller can complete an order")
		}
		if s != OrderStatusPending && !s.CancelRejected() {
			return t, domainErrors.Newf(domainErrors.ErrInvalidTransition, "cannot complete order with status %s", s)
		}
		t.To = OrderStatusCompleted
		t.Listing = ListingStatusSold
		return t, nil

	case OrderEventRequestCancel:
		if s.Terminal() {
			return t, domainErrors.Newf(domainErrors.ErrInvalidTransition, "cannot request cancellation of order with status %s", s)
		}
		if s.CancelRequested() {
			return t, domainErrors.Newf(domainErrors.ErrInvalidTransition, "a cancellation request is already pending (%s)", s)
		}
		t.To = cancelRequestedBy(actor)
		return t, nil

	case OrderEventAcceptCancel, OrderEventRejectCancel:
		if !s.CancelRequested() {
			return t, domainErrors.Newf(domainErrors.ErrInvalidTransition, "order has no pending cancellation request (status %s)", s)
		}
		requester := s.requester()
		if actor == requester {
			verb := "accept"
			if event == OrderEventRejectCancel {
				verb = "reject"
			}
			return t, domainErrors.Newf(domainErrors.ErrValidation, "only the %s can %s the %s's cancellation request", requester.Counterparty(), verb, requester)
		}
		if event == OrderEventAcceptCancel {
			t.To = cancelledBy(requester)
			t.Listing = ListingStatusActive
			return t, nil
		}
		t.To = cancelRejectedBy(actor)
		return t, nil
	}

	return t, domainErrors.Newf(domainErrors.ErrValidation, "unknown order event %q", event)
}
