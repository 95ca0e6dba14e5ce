package dto

import (
	"math"
	"time"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// CreateUserRequest describes POST /api/users payload.
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UserResponse never exposes the password hash.
type UserResponse struct {
	UID         int64     `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{UID: u.UID, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: u.CreatedAt}
}

type UserDetailResponse struct {
	Envelope
	User UserResponse `json:"user"`
}

// PublicUserResponse is the part of a profile shown to other users.
type PublicUserResponse struct {
	UID         int64     `json:"uid"`
	DisplayName string    `json:"display_name"`
	MemberSince time.Time `json:"member_since"`
}

// ReceivedReviewResponse leaves out who wrote the review.
type ReceivedReviewResponse struct {
	ReviewID  int64     `json:"review_id"`
	OrderID   int64     `json:"order_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"review_date"`
}

type UserStatsResponse struct {
	ReviewCount    int     `json:"review_count"`
	TotalScore     float64 `json:"total_score"`
	ActiveListings int     `json:"active_listings"`
	ItemsSold      int     `json:"items_sold"`
}

type UserOverviewResponse struct {
	Envelope
	User    PublicUserResponse       `json:"user"`
	Reviews []ReceivedReviewResponse `json:"reviews"`
	Stats   UserStatsResponse        `json:"stats"`
}

// NewUserOverviewResponse rounds the total score to one decimal place.
func NewUserOverviewResponse(o model.UserOverview) UserOverviewResponse {
	reviews := make([]ReceivedReviewResponse, 0, len(o.Reviews))
	for _, r := range o.Reviews {
		reviews = append(reviews, ReceivedReviewResponse{
			ReviewID:  r.ID,
			OrderID:   r.OrderID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return UserOverviewResponse{
		Envelope: OK(""),
		User:     PublicUserResponse{UID: o.User.UID, DisplayName: o.User.DisplayName, MemberSince: o.User.CreatedAt},
		Reviews:  reviews,
		Stats: UserStatsResponse{
			ReviewCount:    o.Summary.Count,
			TotalScore:     math.Round(o.Summary.Average*10) / 10,
			ActiveListings: o.Stats.ActiveListings,
			ItemsSold:      o.Stats.ItemsSold,
		},
	}
}
