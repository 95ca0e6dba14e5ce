package model

import "time"

// Review is the buyer's immutable feedback on a completed order.
type Review struct {
	ID          int64
	OrderID     int64
	ReviewerUID int64
	SellerUID   int64
	Rating      int
	Comment     *string
	CreatedAt   time.Time
}

// ReviewSummary aggregates a seller's ratings.
type ReviewSummary struct {
	Count   int
	Average float64
}

// CreateReviewInput carries the createReview request.
type CreateReviewInput struct {
	OrderID     int64
	ReviewerUID int64
	Rating      int
	Comment     *string
}
