package app

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/usecase"
)

// StoreHealth reports whether the persistent store is reachable.
type StoreHealth interface {
	HealthCheck(ctx context.Context) error
}

type MarketFacade struct {
	orders    *usecase.OrderUseCase
	reviews   *usecase.ReviewUseCase
	catalog   *usecase.CatalogUseCase
	accounts  *usecase.AccountUseCase
	messaging *usecase.MessagingUseCase
	media     *usecase.MediaUseCase
	health    StoreHealth
}

type facadeParams struct {
	fx.In

	Orders    *usecase.OrderUseCase
	Reviews   *usecase.ReviewUseCase
	Catalog   *usecase.CatalogUseCase
	Accounts  *usecase.AccountUseCase
	Messaging *usecase.MessagingUseCase
	Media     *usecase.MediaUseCase
	Health    StoreHealth
}

func NewMarketFacade(p facadeParams) *MarketFacade {
	return &MarketFacade{
		orders:    p.Orders,
		reviews:   p.Reviews,
		catalog:   p.Catalog,
		accounts:  p.Accounts,
		messaging: p.Messaging,
		media:     p.Media,
		health:    p.Health,
	}
}

func (f *MarketFacade) CreateOrder(ctx context.Context, in model.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, in)
}

func (f *MarketFacade) CompleteOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return f.orders.Complete(ctx, orderID, userUID)
}

func (f *MarketFacade) RequestCancelOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return f.orders.RequestCancel(ctx, orderID, userUID)
}

func (f *MarketFacade) AcceptCancelOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return f.orders.AcceptCancel(ctx, orderID, userUID)
}

func (f *MarketFacade) RejectCancelOrder(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return f.orders.RejectCancel(ctx, orderID, userUID)
}

func (f *MarketFacade) Order(ctx context.Context, orderID, userUID int64) (*model.Order, error) {
	return f.orders.Get(ctx, orderID, userUID)
}

func (f *MarketFacade) BuyerOrders(ctx context.Context, buyerUID int64) ([]model.Order, error) {
	return f.orders.ListByBuyer(ctx, buyerUID)
}

func (f *MarketFacade) SellerOrders(ctx context.Context, sellerUID int64) ([]model.Order, error) {
	return f.orders.ListBySeller(ctx, sellerUID)
}

func (f *MarketFacade) CreateReview(ctx context.Context, in model.CreateReviewInput) (*model.Review, error) {
	return f.reviews.Create(ctx, in)
}

func (f *MarketFacade) ReviewByOrder(ctx context.Context, orderID int64, viewerUID *int64) (*model.Review, error) {
	return f.reviews.GetByOrder(ctx, orderID, viewerUID)
}

func (f *MarketFacade) SellerReviews(ctx context.Context, sellerUID int64) ([]model.Review, model.ReviewSummary, error) {
	return f.reviews.SellerReviews(ctx, sellerUID)
}

func (f *MarketFacade) SearchListings(ctx context.Context, q model.ListingQuery) ([]model.Listing, error) {
	return f.catalog.Search(ctx, q)
}

func (f *MarketFacade) Listing(ctx context.Context, id int64) (*model.Listing, error) {
	return f.catalog.Get(ctx, id)
}

func (f *MarketFacade) Categories(ctx context.Context) ([]string, error) {
	return f.catalog.Categories(ctx)
}

func (f *MarketFacade) CreateListing(ctx context.Context, sellerUID int64, in model.ListingInput, uploads []model.Upload) (*model.Listing, error) {
	return f.catalog.Create(ctx, sellerUID, in, uploads)
}

func (f *MarketFacade) PriceReference(ctx context.Context, category, condition string) ([]model.PriceReference, error) {
	return f.catalog.PriceReference(ctx, category, condition)
}

func (f *MarketFacade) CreateUser(ctx context.Context, email, displayName, password string) (*model.User, error) {
	return f.accounts.CreateUser(ctx, email, displayName, password)
}

func (f *MarketFacade) Profile(ctx context.Context, uid int64) (*model.User, error) {
	return f.accounts.Profile(ctx, uid)
}

func (f *MarketFacade) UserOverview(ctx context.Context, uid int64) (*model.UserOverview, error) {
	return f.accounts.Overview(ctx, uid)
}

func (f *MarketFacade) UpdateProfile(ctx context.Context, uid int64, displayName string) (*model.User, error) {
	return f.accounts.UpdateProfile(ctx, uid, displayName)
}

func (f *MarketFacade) ChangePassword(ctx context.Context, uid int64, current, next string) error {
	return f.accounts.ChangePassword(ctx, uid, current, next)
}

func (f *MarketFacade) MyListings(ctx context.Context, uid int64) ([]model.Listing, error) {
	return f.accounts.MyListings(ctx, uid)
}

func (f *MarketFacade) UpdateListing(ctx context.Context, uid, listingID int64, in model.ListingInput) (*model.Listing, error) {
	return f.accounts.UpdateListing(ctx, uid, listingID, in)
}

func (f *MarketFacade) DeleteListing(ctx context.Context, uid, listingID int64) error {
	return f.accounts.DeleteListing(ctx, uid, listingID)
}

func (f *MarketFacade) StartConversation(ctx context.Context, uid, otherUID int64, listingID *int64) (*model.Conversation, bool, error) {
	return f.messaging.Start(ctx, uid, otherUID, listingID)
}

func (f *MarketFacade) Conversations(ctx context.Context, uid int64) ([]model.Conversation, error) {
	return f.messaging.List(ctx, uid)
}

func (f *MarketFacade) SendMessage(ctx context.Context, conversationID, uid int64, body string) (*model.Message, error) {
	return f.messaging.Send(ctx, conversationID, uid, body)
}

func (f *MarketFacade) Messages(ctx context.Context, conversationID, uid int64) ([]model.Message, error) {
	return f.messaging.Messages(ctx, conversationID, uid)
}

func (f *MarketFacade) OrphanedMedia(ctx context.Context, cutoff time.Time) ([]string, error) {
	return f.media.Orphans(ctx, cutoff)
}

func (f *MarketFacade) RemoveMedia(ctx context.Context, name string) error {
	return f.media.Remove(ctx, name)
}

func (f *MarketFacade) Ping(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
