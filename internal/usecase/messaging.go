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

// MessagingUseCase manages buyer/seller conversations.
type MessagingUseCase struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewMessagingUseCase constructs MessagingUseCase.
func NewMessagingUseCase(uow repository.UnitOfWork, logger *slog.Logger) *MessagingUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessagingUseCase{uow: uow, logger: logger}
}

// Start returns the conversation between uid and otherUID about listingID,
// creating it when missing. The boolean reports whether it was created.
func (u *MessagingUseCase) Start(ctx context.Context, uid, otherUID int64, listingID *int64) (*model.Conversation, bool, error) {
	if err := validID(uid, "uid"); err != nil {
		return nil, false, err
	}
	if err := validID(otherUID, "other_uid"); err != nil {
		return nil, false, err
	}
	if listingID != nil {
		if err := validID(*listingID, "listing_id"); err != nil {
			return nil, false, err
		}
	}
	if uid == otherUID {
		return nil, false, domainErrors.Newf(domainErrors.ErrValidation, "you cannot start a conversation with yourself")
	}
	a, b := uid, otherUID
	if a > b {
		a, b = b, a
	}

	var (
		conv    *model.Conversation
		created bool
	)
	err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		found, err := r.Conversations().Find(ctx, a, b, listingID)
		if err == nil {
			conv = found
			return nil
		}
		if !errors.Is(err, domainErrors.ErrNotFound) {
			return err
		}
		if _, err := r.Users().GetByID(ctx, otherUID); err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return domainErrors.Newf(domainErrors.ErrNotFound, "user %d not found", otherUID)
			}
			return err
		}
		conv = &model.Conversation{ListingID: listingID, UserA: a, UserB: b}
		if err := r.Conversations().Create(ctx, conv); err != nil {
			return err
		}
		created = true
		return nil
	})
	if errors.Is(err, domainErrors.ErrAlreadyExists) {
		// Lost a race with the counterparty; the row exists now.
		conv, err = u.uow.Conversations().Find(ctx, a, b, listingID)
		created = false
	}
	if err != nil {
		return nil, false, err
	}
	if created {
		u.logger.Info("conversation started", slog.Int64("conversation_id", conv.ID))
	}
	return conv, created, nil
}

// List returns conversations of uid, most recently active first.
func (u *MessagingUseCase) List(ctx context.Context, uid int64) ([]model.Conversation, error) {
	if err := validID(uid, "uid"); err != nil {
		return nil, err
	}
	return u.uow.Conversations().ListByUser(ctx, uid)
}

func participantConversation(ctx context.Context, r repository.Repositories, conversationID, uid int64) (*model.Conversation, error) {
	conv, err := r.Conversations().Get(ctx, conversationID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.Newf(domainErrors.ErrNotFound, "conversation %d not found", conversationID)
		}
		return nil, err
	}
	if !conv.Has(uid) {
		return nil, domainErrors.Newf(domainErrors.ErrForbidden, "you are not a participant of conversation %d", conversationID)
	}
	return conv, nil
}

// Send appends a message and bumps the conversation's last activity.
func (u *MessagingUseCase) Send(ctx context.Context, conversationID, uid int64, body string) (msg *model.Message, err error) {
	if err := validID(conversationID, "conversation_id"); err != nil {
		return nil, err
	}
	if err := validID(uid, "uid"); err != nil {
		return nil, err
	}
	body, err = validateMessage(body)
	if err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "conversation.send", attribute.Int64("conversation.id", conversationID))
	defer func() { endSpan(span, err) }()

	err = u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		conv, err := participantConversation(ctx, r, conversationID, uid)
		if err != nil {
			return err
		}
		m := &model.Message{ConversationID: conv.ID, SenderUID: uid, Body: body}
		if err := r.Conversations().AddMessage(ctx, m); err != nil {
			return err
		}
		if err := r.Conversations().Touch(ctx, conv.ID, m.CreatedAt); err != nil {
			return err
		}
		msg = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Messages returns the conversation's messages in send order.
func (u *MessagingUseCase) Messages(ctx context.Context, conversationID, uid int64) ([]model.Message, error) {
	if err := validID(conversationID, "conversation_id"); err != nil {
		return nil, err
	}
	if err := validID(uid, "uid"); err != nil {
		return nil, err
	}
	if _, err := participantConversation(ctx, u.uow, conversationID, uid); err != nil {
		return nil, err
	}
	return u.uow.Conversations().ListMessages(ctx, conversationID)
}
