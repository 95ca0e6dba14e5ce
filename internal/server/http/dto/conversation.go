package dto

import (
	"time"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// StartConversationRequest describes POST /api/conversations payload.
type StartConversationRequest struct {
	UserUID   int64  `json:"user_uid" binding:"required,gt=0"`
	OtherUID  int64  `json:"other_uid" binding:"required,gt=0"`
	ListingID *int64 `json:"listing_id" binding:"omitempty,gt=0"`
}

type SendMessageRequest struct {
	UserUID int64  `json:"user_uid" binding:"required,gt=0"`
	Body    string `json:"body" binding:"required"`
}

type ConversationResponse struct {
	ConversationID    int64      `json:"conversation_id"`
	ListingID         *int64     `json:"listing_id"`
	ArchivedListingID *int64     `json:"archived_listing_id,omitempty"`
	Participants      [2]int64   `json:"participants"`
	CreatedAt         time.Time  `json:"created_at"`
	LastMessageAt     *time.Time `json:"last_message_at"`
}

func NewConversationResponse(c model.Conversation) ConversationResponse {
	return ConversationResponse{
		ConversationID:    c.ID,
		ListingID:         c.ListingID,
		ArchivedListingID: c.ArchivedListingID,
		Participants:      [2]int64{c.UserA, c.UserB},
		CreatedAt:         c.CreatedAt,
		LastMessageAt:     c.LastMessageAt,
	}
}

type MessageResponse struct {
	MessageID      int64     `json:"message_id"`
	ConversationID int64     `json:"conversation_id"`
	SenderUID      int64     `json:"sender_uid"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewMessageResponse(m model.Message) MessageResponse {
	return MessageResponse{
		MessageID:      m.ID,
		ConversationID: m.ConversationID,
		SenderUID:      m.SenderUID,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}

type ConversationDetailResponse struct {
	Envelope
	Created      bool                 `json:"created"`
	Conversation ConversationResponse `json:"conversation"`
}

type ConversationListResponse struct {
	Envelope
	Conversations []ConversationResponse `json:"conversations"`
	Count         int                    `json:"count"`
}

type MessageDetailResponse struct {
	Envelope
	Data MessageResponse `json:"data"`
}

type MessageListResponse struct {
	Envelope
	Messages []MessageResponse `json:"messages"`
	Count    int               `json:"count"`
}
