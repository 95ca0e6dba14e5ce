package dto

import (
	"math"
	"time"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// CreateReviewRequest describes POST /api/reviews/create payload.
type CreateReviewRequest struct {
	OrderID int64   `json:"order_id" binding:"required,gt=0"`
	UserUID int64   `json:"user_uid" binding:"required,gt=0"`
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

type ReviewResponse struct {
	ReviewID    int64     `json:"review_id"`
	OrderID     int64     `json:"order_id"`
	ReviewerUID int64     `json:"reviewer_uid"`
	SellerUID   int64     `json:"seller_uid"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment"`
	CreatedAt   time.Time `json:"review_date"`
}

func NewReviewResponse(r model.Review) ReviewResponse {
	return ReviewResponse{
		ReviewID:    r.ID,
		OrderID:     r.OrderID,
		ReviewerUID: r.ReviewerUID,
		SellerUID:   r.SellerUID,
		Rating:      r.Rating,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt,
	}
}

type ReviewCreatedResponse struct {
	Envelope
	ReviewID int64          `json:"review_id"`
	Review   ReviewResponse `json:"review"`
}

type ReviewDetailResponse struct {
	Envelope
	HasReview bool           `json:"has_review"`
	Review    ReviewResponse `json:"review"`
}

type SellerReviewsResponse struct {
	Envelope
	Reviews       []ReviewResponse `json:"reviews"`
	Count         int              `json:"count"`
	AverageRating float64          `json:"average_rating"`
}

// NewSellerReviewsResponse rounds the average to one decimal place.
func NewSellerReviewsResponse(reviews []model.Review, summary model.ReviewSummary) SellerReviewsResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewResponse(r))
	}
	return SellerReviewsResponse{
		Envelope:      OK(""),
		Reviews:       out,
		Count:         summary.Count,
		AverageRating: math.Round(summary.Average*10) / 10,
	}
}
