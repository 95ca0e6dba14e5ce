package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

type conversationRepository struct {
	q querier
}

const conversationColumns = `id, listing_id, archived_listing_id, user_a, user_b, created_at, last_message_at`

func scanConversation(row pgx.Row) (*model.Conversation, error) {
	var c model.Conversation
	if err := row.Scan(&c.ID, &c.ListingID, &c.ArchivedListingID, &c.UserA, &c.UserB, &c.CreatedAt, &c.LastMessageAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepository) Find(ctx context.Context, userA, userB int64, listingID *int64) (*model.Conversation, error) {
	const query = `SELECT ` + conversationColumns + ` FROM conversations
                   WHERE user_a=$1 AND user_b=$2 AND listing_id IS NOT DISTINCT FROM $3 AND archived_listing_id IS NULL`
	c, err := scanConversation(r.q.QueryRow(ctx, query, userA, userB, listingID))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *conversationRepository) Create(ctx context.Context, conv *model.Conversation) error {
	const query = `INSERT INTO conversations (listing_id, user_a, user_b) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, conv.ListingID, conv.UserA, conv.UserB).Scan(&conv.ID, &conv.CreatedAt)
	return mapError(err)
}

func (r *conversationRepository) Get(ctx context.Context, id int64) (*model.Conversation, error) {
	c, err := scanConversation(r.q.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *conversationRepository) ListByUser(ctx context.Context, uid int64) ([]model.Conversation, error) {
	const query = `SELECT ` + conversationColumns + ` FROM conversations
                   WHERE user_a=$1 OR user_b=$1
                   ORDER BY COALESCE(last_message_at, created_at) DESC, id DESC`
	rows, err := r.q.Query(ctx, query, uid)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []model.Conversation{}
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *conversationRepository) AddMessage(ctx context.Context, msg *model.Message) error {
	const query = `INSERT INTO messages (conversation_id, sender_uid, body) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, msg.ConversationID, msg.SenderUID, msg.Body).Scan(&msg.ID, &msg.CreatedAt)
	return mapError(err)
}

func (r *conversationRepository) Touch(ctx context.Context, id int64, at time.Time) error {
	return execOne(ctx, r.q, `UPDATE conversations SET last_message_at=$1 WHERE id=$2`, at, id)
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID int64) ([]model.Message, error) {
	const query = `SELECT id, conversation_id, sender_uid, body, created_at FROM messages WHERE conversation_id=$1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, conversationID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderUID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
