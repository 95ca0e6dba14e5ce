package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/server/http/dto"
)

// ReviewHandler manages review endpoints.
type ReviewHandler struct {
	facade ReviewFacade
}

func NewReviewHandler(facade ReviewFacade) *ReviewHandler {
	return &ReviewHandler{facade: facade}
}

// Create handles POST /api/reviews/create.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	review, err := h.facade.CreateReview(c.Request.Context(), model.CreateReviewInput{
		OrderID:     req.OrderID,
		ReviewerUID: req.UserUID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ReviewCreatedResponse{
		Envelope: dto.OK("Review submitted successfully. Thank you for your feedback!"),
		ReviewID: review.ID,
		Review:   dto.NewReviewResponse(*review),
	})
}

// ByOrder handles GET /api/reviews/order/:id.
func (h *ReviewHandler) ByOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q dto.OptionalUserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	review, err := h.facade.ReviewByOrder(c.Request.Context(), orderID, q.UserUID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewDetailResponse{
		Envelope:  dto.OK(""),
		HasReview: true,
		Review:    dto.NewReviewResponse(*review),
	})
}

// Seller handles GET /api/reviews/seller/:uid.
func (h *ReviewHandler) Seller(c *gin.Context) {
	uid, ok := pathID(c, "uid")
	if !ok {
		return
	}
	reviews, summary, err := h.facade.SellerReviews(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSellerReviewsResponse(reviews, summary))
}
