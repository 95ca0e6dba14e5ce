package handlers

import (
	"context"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// OrderFacade encapsulates the reservation workflow exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, in model.CreateOrderInput) (*model.Order, error)
	CompleteOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error)
	RequestCancelOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error)
	AcceptCancelOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error)
	RejectCancelOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error)
	Order(ctx context.Context, orderID, userUID int64) (*model.Order, error)
	BuyerOrders(ctx context.Context, uid int64) ([]model.Order, error)
	SellerOrders(ctx context.Context, uid int64) ([]model.Order, error)
}

// ReviewFacade provides review operations.
type ReviewFacade interface {
	CreateReview(ctx context.Context, in model.CreateReviewInput) (*model.Review, error)
	ReviewByOrder(ctx context.Context, orderID int64, viewerUID *int64) (*model.Review, error)
	SellerReviews(ctx context.Context, sellerUID int64) ([]model.Review, model.ReviewSummary, error)
}

// CatalogFacade provides listing browsing and creation.
type CatalogFacade interface {
	SearchListings(ctx context.Context, q model.ListingQuery) ([]model.Listing, error)
	Listing(ctx context.Context, id int64) (*model.Listing, error)
	Categories(ctx context.Context) ([]string, error)
	CreateListing(ctx context.Context, sellerUID int64, in model.ListingInput, uploads []model.Upload) (*model.Listing, error)
	PriceReference(ctx context.Context, category, condition string) ([]model.PriceReference, error)
}

// AccountFacade provides profile and own-listing management.
type AccountFacade interface {
	CreateUser(ctx context.Context, email, displayName, password string) (*model.User, error)
	Profile(ctx context.Context, uid int64) (*model.User, error)
	UserOverview(ctx context.Context, uid int64) (*model.UserOverview, error)
	UpdateProfile(ctx context.Context, uid int64, displayName string) (*model.User, error)
	ChangePassword(ctx context.Context, uid int64, current, next string) error
	MyListings(ctx context.Context, uid int64) ([]model.Listing, error)
	UpdateListing(ctx context.Context, uid, listingID int64, in model.ListingInput) (*model.Listing, error)
	DeleteListing(ctx context.Context, uid, listingID int64) error
}

// MessagingFacade provides conversations between users.
type MessagingFacade interface {
	StartConversation(ctx context.Context, uid, otherUID int64, listingID *int64) (*model.Conversation, bool, error)
	Conversations(ctx context.Context, uid int64) ([]model.Conversation, error)
	SendMessage(ctx context.Context, conversationID, uid int64, body string) (*model.Message, error)
	Messages(ctx context.Context, conversationID, uid int64) ([]model.Message, error)
}

// HealthFacade reports store availability.
type HealthFacade interface {
	Ping(ctx context.Context) error
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	OrderFacade
	ReviewFacade
	CatalogFacade
	AccountFacade
	MessagingFacade
	HealthFacade
}
