package model

import "time"

// User represents a marketplace account.
type User struct {
	UID          int64
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// SellerStats counts a seller's catalog activity.
type SellerStats struct {
	ActiveListings int
	ItemsSold      int
}

// UserOverview is the public view of a user as a seller.
type UserOverview struct {
	User    User
	Reviews []Review
	Summary ReviewSummary
	Stats   SellerStats
}
