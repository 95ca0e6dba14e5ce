package repository

import (
	"context"
	"time"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// ConversationRepository stores conversations and their messages.
type ConversationRepository interface {
	Find(ctx context.Context, userA, userB int64, listingID *int64) (*model.Conversation, error)
	Create(ctx context.Context, conv *model.Conversation) error
	Get(ctx context.Context, id int64) (*model.Conversation, error)
	ListByUser(ctx context.Context, uid int64) ([]model.Conversation, error)
	AddMessage(ctx context.Context, msg *model.Message) error
	Touch(ctx context.Context, id int64, at time.Time) error
	ListMessages(ctx context.Context, conversationID int64) ([]model.Message, error)
}
