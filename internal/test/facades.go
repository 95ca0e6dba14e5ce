package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// MediaFacadeStub mimics janitor interactions with the market facade.
type MediaFacadeStub struct {
	sync.Mutex

	// Batches are returned by consecutive OrphanedMedia calls; afterwards nothing is orphaned.
	Batches   [][]string
	OrphansFn func(context.Context, time.Time) ([]string, error)
	RemoveFn  func(context.Context, string) error

	Cutoffs []time.Time
	Removed []string
}

func (s *MediaFacadeStub) OrphanedMedia(ctx context.Context, cutoff time.Time) ([]string, error) {
	s.Lock()
	s.Cutoffs = append(s.Cutoffs, cutoff)
	fn := s.OrphansFn
	var batch []string
	if fn == nil && len(s.Batches) > 0 {
		batch, s.Batches = s.Batches[0], s.Batches[1:]
	}
	s.Unlock()
	if fn != nil {
		return fn(ctx, cutoff)
	}
	return batch, nil
}

func (s *MediaFacadeStub) RemoveMedia(ctx context.Context, name string) error {
	if s.RemoveFn != nil {
		if err := s.RemoveFn(ctx, name); err != nil {
			return err
		}
	}
	s.Lock()
	s.Removed = append(s.Removed, name)
	s.Unlock()
	return nil
}

// HealthStub reports a fixed store health.
type HealthStub struct {
	Err error
}

func (h HealthStub) HealthCheck(context.Context) error { return h.Err }

// SampleOrder returns a pending order used by handler tests.
func SampleOrder() *model.Order {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &model.Order{
		ID:        5,
		BuyerUID:  3,
		ListingID: 10,
		Pricing: model.Pricing{
			Price:       decimal.RequireFromString("100"),
			Tax:         decimal.RequireFromString("8"),
			PlatformFee: decimal.RequireFromString("5"),
		},
		DeliveryMethod: model.DeliveryMethodPickup,
		Status:         model.OrderStatusPending,
		CreatedAt:      at,
		UpdatedAt:      at,
		SellerUID:      2,
		ItemID:         110,
		ListingTitle:   "Desk lamp",
		ListingStatus:  model.ListingStatusReserved,
	}
}

// SampleListing returns an active listing with one image.
func SampleListing() *model.Listing {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &model.Listing{
		ID:          10,
		SellerUID:   2,
		ItemID:      110,
		Status:      model.ListingStatusActive,
		ExpireDate:  at.Add(72 * time.Hour),
		Description: "Barely used",
		CreatedAt:   at,
		Item: model.Item{
			ID:           110,
			SellerUID:    2,
			Title:        "Desk lamp",
			Category:     "furniture",
			Condition:    "used",
			SellingPrice: decimal.RequireFromString("15"),
			Status:       model.ItemStatusAvailable,
		},
		Media: []model.ListingMedia{{ID: 1, ListingID: 10, Kind: model.MediaKindImage, StoredName: "a.jpg", OriginalName: "lamp.jpg"}},
	}
}

// MarketFacadeStub provides controllable behaviour for every HTTP endpoint.
// Unset functions return sample data.
type MarketFacadeStub struct {
	CreateOrderFn   func(context.Context, model.CreateOrderInput) (*model.Order, error)
	OrderActionFn   func(ctx context.Context, event model.OrderEvent, orderID, userUID int64) (*model.Order, error)
	OrderFn         func(context.Context, int64, int64) (*model.Order, error)
	BuyerOrdersFn   func(context.Context, int64) ([]model.Order, error)
	SellerOrdersFn  func(context.Context, int64) ([]model.Order, error)
	CreateReviewFn  func(context.Context, model.CreateReviewInput) (*model.Review, error)
	ReviewByOrderFn func(context.Context, int64, *int64) (*model.Review, error)
	SellerReviewsFn func(context.Context, int64) ([]model.Review, model.ReviewSummary, error)

	SearchFn        func(context.Context, model.ListingQuery) ([]model.Listing, error)
	ListingFn       func(context.Context, int64) (*model.Listing, error)
	CategoriesFn    func(context.Context) ([]string, error)
	CreateListingFn func(context.Context, int64, model.ListingInput, []model.Upload) (*model.Listing, error)
	PriceRefFn      func(context.Context, string, string) ([]model.PriceReference, error)

	CreateUserFn     func(context.Context, string, string, string) (*model.User, error)
	ProfileFn        func(context.Context, int64) (*model.User, error)
	OverviewFn       func(context.Context, int64) (*model.UserOverview, error)
	UpdateProfileFn  func(context.Context, int64, string) (*model.User, error)
	ChangePasswordFn func(context.Context, int64, string, string) error
	MyListingsFn     func(context.Context, int64) ([]model.Listing, error)
	UpdateListingFn  func(context.Context, int64, int64, model.ListingInput) (*model.Listing, error)
	DeleteListingFn  func(context.Context, int64, int64) error

	StartConversationFn func(context.Context, int64, int64, *int64) (*model.Conversation, bool, error)
	ConversationsFn     func(context.Context, int64) ([]model.Conversation, error)
	SendMessageFn       func(context.Context, int64, int64, string) (*model.Message, error)
	MessagesFn          func(context.Context, int64, int64) ([]model.Message, error)

	PingErr error
}

func (s MarketFacadeStub) CreateOrder(ctx context.Context, in model.CreateOrderInput) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, in)
	}
	o := SampleOrder()
	o.ListingID, o.BuyerUID, o.DeliveryMethod, o.DeliveryNote = in.ListingID, in.BuyerUID, in.DeliveryMethod, in.DeliveryNote
	return o, nil
}

func (s MarketFacadeStub) action(ctx context.Context, event model.OrderEvent, orderID, userUID int64, status model.OrderStatus) (*model.Order, error) {
	if s.OrderActionFn != nil {
		return s.OrderActionFn(ctx, event, orderID, userUID)
	}
	o := SampleOrder()
	o.ID = orderID
	o.Status = status
	return o, nil
}

func (s MarketFacadeStub) CompleteOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return s.action(ctx, model.OrderEventComplete, orderID, userUID, model.OrderStatusCompleted)
}

func (s MarketFacadeStub) RequestCancelOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return s.action(ctx, model.OrderEventRequestCancel, orderID, userUID, model.OrderStatusCancelRequestedByBuyer)
}

func (s MarketFacadeStub) AcceptCancelOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return s.action(ctx, model.OrderEventAcceptCancel, orderID, userUID, model.OrderStatusCancelledByBuyer)
}

func (s MarketFacadeStub) RejectCancelOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return s.action(ctx, model.OrderEventRejectCancel, orderID, userUID, model.OrderStatusCancelRejectedBySeller)
}

func (s MarketFacadeStub) Order(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID, userUID)
	}
	return SampleOrder(), nil
}

func (s MarketFacadeStub) BuyerOrders(ctx context.Context, uid int64) ([]model.Order, error) {
	if s.BuyerOrdersFn != nil {
		return s.BuyerOrdersFn(ctx, uid)
	}
	return []model.Order{*SampleOrder()}, nil
}

func (s MarketFacadeStub) SellerOrders(ctx context.Context, uid int64) ([]model.Order, error) {
	if s.SellerOrdersFn != nil {
		return s.SellerOrdersFn(ctx, uid)
	}
	return []model.Order{*SampleOrder()}, nil
}

func (s MarketFacadeStub) CreateReview(ctx context.Context, in model.CreateReviewInput) (*model.Review, error) {
	if s.CreateReviewFn != nil {
		return s.CreateReviewFn(ctx, in)
	}
	return &model.Review{ID: 1, OrderID: in.OrderID, ReviewerUID: in.ReviewerUID, SellerUID: 2, Rating: in.Rating, Comment: in.Comment}, nil
}

func (s MarketFacadeStub) ReviewByOrder(ctx context.Context, orderID int64, viewerUID *int64) (*model.Review, error) {
	if s.ReviewByOrderFn != nil {
		return s.ReviewByOrderFn(ctx, orderID, viewerUID)
	}
	return &model.Review{ID: 1, OrderID: orderID, ReviewerUID: 3, SellerUID: 2, Rating: 5}, nil
}

func (s MarketFacadeStub) SellerReviews(ctx context.Context, sellerUID int64) ([]model.Review, model.ReviewSummary, error) {
	if s.SellerReviewsFn != nil {
		return s.SellerReviewsFn(ctx, sellerUID)
	}
	return []model.Review{{ID: 1, OrderID: 5, ReviewerUID: 3, SellerUID: sellerUID, Rating: 4}}, model.ReviewSummary{Count: 1, Average: 4}, nil
}

func (s MarketFacadeStub) SearchListings(ctx context.Context, q model.ListingQuery) ([]model.Listing, error) {
	if s.SearchFn != nil {
		return s.SearchFn(ctx, q)
	}
	return []model.Listing{*SampleListing()}, nil
}

func (s MarketFacadeStub) Listing(ctx context.Context, id int64) (*model.Listing, error) {
	if s.ListingFn != nil {
		return s.ListingFn(ctx, id)
	}
	return SampleListing(), nil
}

func (s MarketFacadeStub) Categories(ctx context.Context) ([]string, error) {
	if s.CategoriesFn != nil {
		return s.CategoriesFn(ctx)
	}
	return []string{"books", "furniture"}, nil
}

func (s MarketFacadeStub) CreateListing(ctx context.Context, sellerUID int64, in model.ListingInput, uploads []model.Upload) (*model.Listing, error) {
	if s.CreateListingFn != nil {
		return s.CreateListingFn(ctx, sellerUID, in, uploads)
	}
	return SampleListing(), nil
}

func (s MarketFacadeStub) PriceReference(ctx context.Context, category, condition string) ([]model.PriceReference, error) {
	if s.PriceRefFn != nil {
		return s.PriceRefFn(ctx, category, condition)
	}
	return []model.PriceReference{{
		ItemID:    110,
		Title:     "Desk lamp",
		Category:  category,
		Condition: condition,
		SoldPrice: decimal.RequireFromString("15"),
	}}, nil
}

func (s MarketFacadeStub) CreateUser(ctx context.Context, email, displayName, password string) (*model.User, error) {
	if s.CreateUserFn != nil {
		return s.CreateUserFn(ctx, email, displayName, password)
	}
	return &model.User{UID: 1, Email: email, DisplayName: displayName}, nil
}

func (s MarketFacadeStub) Profile(ctx context.Context, uid int64) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, uid)
	}
	return &model.User{UID: uid, Email: "user@campus.edu", DisplayName: "User"}, nil
}

func (s MarketFacadeStub) UserOverview(ctx context.Context, uid int64) (*model.UserOverview, error) {
	if s.OverviewFn != nil {
		return s.OverviewFn(ctx, uid)
	}
	return &model.UserOverview{
		User:    model.User{UID: uid, Email: "user@campus.edu", DisplayName: "User"},
		Reviews: []model.Review{},
	}, nil
}

func (s MarketFacadeStub) UpdateProfile(ctx context.Context, uid int64, displayName string) (*model.User, error) {
	if s.UpdateProfileFn != nil {
		return s.UpdateProfileFn(ctx, uid, displayName)
	}
	return &model.User{UID: uid, Email: "user@campus.edu", DisplayName: displayName}, nil
}

func (s MarketFacadeStub) ChangePassword(ctx context.Context, uid int64, current, next string) error {
	if s.ChangePasswordFn != nil {
		return s.ChangePasswordFn(ctx, uid, current, next)
	}
	return nil
}

func (s MarketFacadeStub) MyListings(ctx context.Context, uid int64) ([]model.Listing, error) {
	if s.MyListingsFn != nil {
		return s.MyListingsFn(ctx, uid)
	}
	return []model.Listing{*SampleListing()}, nil
}

func (s MarketFacadeStub) UpdateListing(ctx context.Context, uid, listingID int64, in model.ListingInput) (*model.Listing, error) {
	if s.UpdateListingFn != nil {
		return s.UpdateListingFn(ctx, uid, listingID, in)
	}
	return SampleListing(), nil
}

func (s MarketFacadeStub) DeleteListing(ctx context.Context, uid, listingID int64) error {
	if s.DeleteListingFn != nil {
		return s.DeleteListingFn(ctx, uid, listingID)
	}
	return nil
}

func (s MarketFacadeStub) StartConversation(ctx context.Context, uid, otherUID int64, listingID *int64) (*model.Conversation, bool, error) {
	if s.StartConversationFn != nil {
		return s.StartConversationFn(ctx, uid, otherUID, listingID)
	}
	return &model.Conversation{ID: 7, UserA: min(uid, otherUID), UserB: max(uid, otherUID), ListingID: listingID}, true, nil
}

func (s MarketFacadeStub) Conversations(ctx context.Context, uid int64) ([]model.Conversation, error) {
	if s.ConversationsFn != nil {
		return s.ConversationsFn(ctx, uid)
	}
	return []model.Conversation{{ID: 7, UserA: uid, UserB: uid + 1}}, nil
}

func (s MarketFacadeStub) SendMessage(ctx context.Context, conversationID, uid int64, body string) (*model.Message, error) {
	if s.SendMessageFn != nil {
		return s.SendMessageFn(ctx, conversationID, uid, body)
	}
	return &model.Message{ID: 70, ConversationID: conversationID, SenderUID: uid, Body: body}, nil
}

func (s MarketFacadeStub) Messages(ctx context.Context, conversationID, uid int64) ([]model.Message, error) {
	if s.MessagesFn != nil {
		return s.MessagesFn(ctx, conversationID, uid)
	}
	return []model.Message{{ID: 70, ConversationID: conversationID, SenderUID: uid, Body: "hi"}}, nil
}

func (s MarketFacadeStub) Ping(context.Context) error {
	return s.PingErr
}
