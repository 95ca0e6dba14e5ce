package model

import "time"

// Conversation is a chat between two users, optionally about one listing.
// UserA is always the smaller uid.
type Conversation struct {
	ID        int64
	ListingID *int64
	// ArchivedListingID holds the listing id after that listing was deleted.
	ArchivedListingID *int64
	UserA             int64
	UserB             int64
	CreatedAt         time.Time
	LastMessageAt     *time.Time
}

// Has reports whether uid participates in the conversation.
func (c *Conversation) Has(uid int64) bool {
	return uid == c.UserA || uid == c.UserB
}

type Message struct {
	ID             int64
	ConversationID int64
	SenderUID      int64
	Body           string
	CreatedAt      time.Time
}
