package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/test"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	store  *test.MemoryStore
	seller model.User
	buyer  model.User
	other  model.User
}

func newFixture() *fixture {
	store := test.NewMemoryStore()
	return &fixture{
		store:  store,
		seller: store.SeedUser(model.User{Email: "seller@campus.edu", DisplayName: "Seller"}),
		buyer:  store.SeedUser(model.User{Email: "buyer@campus.edu", DisplayName: "Buyer"}),
		other:  store.SeedUser(model.User{Email: "other@campus.edu", DisplayName: "Other"}),
	}
}

func (f *fixture) listing(id int64, price string, status model.ListingStatus) model.Listing {
	return f.store.SeedListing(model.Listing{
		ID:         id,
		SellerUID:  f.seller.UID,
		Status:     status,
		ExpireDate: time.Now().Add(72 * time.Hour),
		Item: model.Item{
			Title:        "Desk lamp",
			Category:     "furniture",
			Condition:    "used",
			SellingPrice: dec(price),
		},
	})
}

func (f *fixture) order(id int64, listing model.Listing, status model.OrderStatus) model.Order {
	return f.store.SeedOrder(model.Order{
		ID:             id,
		BuyerUID:       f.buyer.UID,
		ListingID:      listing.ID,
		Pricing:        ComputePricing(listing.Item.SellingPrice),
		DeliveryMethod: model.DeliveryMethodPickup,
		Status:         status,
	})
}
