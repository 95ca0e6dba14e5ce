package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
)

func TestComputePricing(t *testing.T) {
	cases := []struct {
		price, tax, fee string
	}{
		{"100.00", "8.00", "5.00"},
		{"19.99", "1.60", "1.00"},
		{"0.10", "0.01", "0.01"},
		{"12.50", "1.00", "0.63"},
	}
	for _, tc := range cases {
		p := ComputePricing(dec(tc.price))
		assert.True(t, p.Price.Equal(dec(tc.price)), "price %s", tc.price)
		assert.True(t, p.Tax.Equal(dec(tc.tax)), "tax for %s: %s", tc.price, p.Tax)
		assert.True(t, p.PlatformFee.Equal(dec(tc.fee)), "fee for %s: %s", tc.price, p.PlatformFee)
	}
}

func TestCreateOrderReservesListing(t *testing.T) {
	f := newFixture()
	listing := f.listing(10, "100.00", model.ListingStatusActive)
	uc := NewOrderUseCase(f.store, nil)

	order, err := uc.Create(context.Background(), model.CreateOrderInput{
		ListingID:      10,
		BuyerUID:       f.buyer.UID,
		DeliveryMethod: model.DeliveryMethodPickup,
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, order.Pricing.Price.Equal(dec("100.00")))
	assert.True(t, order.Pricing.Tax.Equal(dec("8.00")))
	assert.True(t, order.Pricing.PlatformFee.Equal(dec("5.00")))
	assert.Equal(t, f.seller.UID, order.SellerUID)

	stored, ok := f.store.Listing(listing.ID)
	require.True(t, ok)
	assert.Equal(t, model.ListingStatusReserved, stored.Status)
	assert.Equal(t, model.ItemStatusReserved, stored.Item.Status)
}

func TestCreateOrderPricingSnapshotSurvivesPriceChange(t *testing.T) {
	f := newFixture()
	f.listing(10, "100.00", model.ListingStatusActive)
	uc := NewOrderUseCase(f.store, nil)

	order, err := uc.Create(context.Background(), model.CreateOrderInput{ListingID: 10, BuyerUID: f.buyer.UID, DeliveryMethod: model.DeliveryMethodDelivered})
	require.NoError(t, err)

	l, _ := f.store.Listing(10)
	l.Item.SellingPrice = dec("250.00")
	require.NoError(t, f.store.Listings().Update(context.Background(), &l))

	got, err := uc.Get(context.Background(), order.ID, f.buyer.UID)
	require.NoError(t, err)
	assert.True(t, got.Pricing.Price.Equal(dec("100.00")))
	assert.True(t, got.Pricing.Total().Equal(dec("113.00")))
}

func TestCreateOrderRejectsUnavailableListing(t *testing.T) {
	for _, status := range []model.ListingStatus{model.ListingStatusReserved, model.ListingStatusSold} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			f.listing(10, "40.00", status)
			uc := NewOrderUseCase(f.store, nil)

			_, err := uc.Create(context.Background(), model.CreateOrderInput{ListingID: 10, BuyerUID: f.buyer.UID, DeliveryMethod: model.DeliveryMethodPickup})
			require.ErrorIs(t, err, domainErrors.ErrConflict)
			assert.Equal(t, 0, f.store.OrderCount())
			l, _ := f.store.Listing(10)
			assert.Equal(t, status, l.Status)
		})
	}
}

func TestCreateOrderRejectsSelfPurchase(t *testing.T) {
	f := newFixture()
	f.listing(10, "40.00", model.ListingStatusActive)
	uc := NewOrderUseCase(f.store, nil)

	_, err := uc.Create(context.Background(), model.CreateOrderInput{ListingID: 10, BuyerUID: f.seller.UID, DeliveryMethod: model.DeliveryMethodPickup})
	require.ErrorIs(t, err, domainErrors.ErrInvalidTransition)
	assert.Equal(t, 0, f.store.OrderCount())
	l, _ := f.store.Listing(10)
	assert.Equal(t, model.ListingStatusActive, l.Status)
}

func TestCreateOrderValidation(t *testing.T) {
	long := make([]rune, MaxDeliveryNoteLength+1)
	for i := range long {
		long[i] = 'x'
	}
	longNote := string(long)
	blank := "   "

	cases := []struct {
		name string
		in   model.CreateOrderInput
	}{
		{"missing listing", model.CreateOrderInput{BuyerUID: 2, DeliveryMethod: model.DeliveryMethodPickup}},
		{"missing buyer", model.CreateOrderInput{ListingID: 1, DeliveryMethod: model.DeliveryMethodPickup}},
		{"unknown method", model.CreateOrderInput{ListingID: 1, BuyerUID: 2, DeliveryMethod: "drone"}},
		{"other without note", model.CreateOrderInput{ListingID: 1, BuyerUID: 2, DeliveryMethod: model.DeliveryMethodOther}},
		{"other with blank note", model.CreateOrderInput{ListingID: 1, BuyerUID: 2, DeliveryMethod: model.DeliveryMethodOther, DeliveryNote: &blank}},
		{"note too long", model.CreateOrderInput{ListingID: 1, BuyerUID: 2, DeliveryMethod: model.DeliveryMethodPickup, DeliveryNote: &longNote}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			uc := NewOrderUseCase(f.store, nil)
			_, err := uc.Create(context.Background(), tc.in)
			require.ErrorIs(t, err, domainErrors.ErrValidation)
			assert.Equal(t, 0, f.store.Commits+f.store.Rollbacks, "validation must run before any transaction")
		})
	}
}

func TestCreateOrderMissingListing(t *testing.T) {
	f := newFixture()
	uc := NewOrderUseCase(f.store, nil)
	_, err := uc.Create(context.Background(), model.CreateOrderInput{ListingID: 99, BuyerUID: f.buyer.UID, DeliveryMethod: model.DeliveryMethodPickup})
	require.ErrorIs(t, err, domainErrors.ErrNotFound)
	assert.Equal(t, "listing 99 not found", err.Error())
}

func TestCreateOrderRollsBackWhenReservationFails(t *testing.T) {
	f := newFixture()
	f.listing(10, "40.00", model.ListingStatusActive)
	boom := errors.New("connection reset")
	f.store.FailOn("listings.update_status", boom)
	uc := NewOrderUseCase(f.store, nil)

	_, err := uc.Create(context.Background(), model.CreateOrderInput{ListingID: 10, BuyerUID: f.buyer.UID, DeliveryMethod: model.DeliveryMethodPickup})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, f.store.OrderCount())
	assert.Equal(t, 1, f.store.Rollbacks)
	l, _ := f.store.Listing(10)
	assert.Equal(t, model.ListingStatusActive, l.Status)
}

func TestCreateOrderConcurrentBuyersGetOneReservation(t *testing.T) {
	f := newFixture()
	f.listing(10, "40.00", model.ListingStatusActive)
	uc := NewOrderUseCase(f.store, nil)

	buyers := []int64{f.buyer.UID, f.other.UID}
	errs := make([]error, len(buyers))
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i, uid := range buyers {
		wg.Add(1)
		go func(i int, uid int64) {
			defer wg.Done()
			<-start
			_, errs[i] = uc.Create(context.Background(), model.CreateOrderInput{ListingID: 10, BuyerUID: uid, DeliveryMethod: model.DeliveryMethodPickup})
		}(i, uid)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domainErrors.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.store.OrderCount())
}

func TestOrderRequestRejectThenComplete(t *testing.T) {
	f := newFixture()
	listing := f.listing(0, "60.00", model.ListingStatusReserved)
	order := f.order(5, listing, model.OrderStatusPending)
	uc := NewOrderUseCase(f.store, nil)
	ctx := context.Background()

	got, err := uc.RequestCancel(ctx, order.ID, f.buyer.UID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelRequestedByBuyer, got.Status)

	got, err = uc.RejectCancel(ctx, order.ID, f.seller.UID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelRejectedBySeller, got.Status)

	got, err = uc.Complete(ctx, order.ID, f.seller.UID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, got.Status)

	l, _ := f.store.Listing(listing.ID)
	assert.Equal(t, model.ListingStatusSold, l.Status)
	assert.Equal(t, model.ItemStatusSold, l.Item.Status)
}

func TestOrderSellerRequestAcceptedByBuyer(t *testing.T) {
	f := newFixture()
	listing := f.listing(0, "60.00", model.ListingStatusReserved)
	order := f.order(7, listing, model.OrderStatusCancelRequestedBySeller)
	uc := NewOrderUseCase(f.store, nil)

	got, err := uc.AcceptCancel(context.Background(), order.ID, f.buyer.UID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelledBySeller, got.Status)

	l, _ := f.store.Listing(listing.ID)
	assert.Equal(t, model.ListingStatusActive, l.Status)
	assert.Equal(t, model.ItemStatusAvailable, l.Item.Status)
}

func TestOrderCancelledListingCanBeOrderedAgain(t *testing.T) {
	f := newFixture()
	listing := f.listing(0, "60.00", model.ListingStatusReserved)
	order := f.order(0, listing, model.OrderStatusCancelRequestedByBuyer)
	uc := NewOrderUseCase(f.store, nil)
	ctx := context.Background()

	_, err := uc.AcceptCancel(ctx, order.ID, f.seller.UID)
	require.NoError(t, err)

	again, err := uc.Create(ctx, model.CreateOrderInput{ListingID: listing.ID, BuyerUID: f.other.UID, DeliveryMethod: model.DeliveryMethodPickup})
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, again.ID)
}

func TestOrderTransitionsRejected(t *testing.T) {
	cases := []struct {
		name    string
		status  model.OrderStatus
		act     func(*OrderUseCase, int64, *fixture) (*model.Order, error)
		errKind error
	}{
		{"buyer completes", model.OrderStatusPending, func(uc *OrderUseCase, id int64, f *fixture) (*model.Order, error) {
			return uc.Complete(context.Background(), id, f.buyer.UID)
		}, domainErrors.ErrForbidden},
		{"stranger requests cancel", model.OrderStatusPending, func(uc *OrderUseCase, id int64, f *fixture) (*model.Order, error) {
			return uc.RequestCancel(context.Background(), id, f.other.UID)
		}, domainErrors.ErrForbidden},
		{"requester accepts own request", model.OrderStatusCancelRequestedByBuyer, func(uc *OrderUseCase, id int64, f *fixture) (*model.Order, error) {
			return uc.AcceptCancel(context.Background(), id, f.buyer.UID)
		}, domainErrors.ErrValidation},
		{"requester rejects own request", model.OrderStatusCancelRequestedBySeller, func(uc *OrderUseCase, id int64, f *fixture) (*model.Order, error) {
			return uc.RejectCancel(context.Background(), id, f.seller.UID)
		}, domainErrors.ErrValidation},
		{"complete with pending request", model.OrderStatusCancelRequestedByBuyer, func(uc *OrderUseCase, id int64, f *fixture) (*model.Order, error) {
			return uc.Complete(context.Background(), id, f.seller.UID)
		}, domainErrors.ErrInvalidTransition},
		{"cancel completed order", model.OrderStatusCompleted, func(uc *OrderUseCase, id int64, f *fixture) (*model.Order, error) {
			return uc.RequestCancel(context.Background(), id, f.buyer.UID)
		}, domainErrors.ErrInvalidTransition},
		{"second request", model.OrderStatusCancelRequestedByBuyer, func(uc *OrderUseCase, id int64, f *fixture) (*model.Order, error) {
			return uc.RequestCancel(context.Background(), id, f.seller.UID)
		}, domainErrors.ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			listing := f.listing(0, "10.00", model.ListingStatusReserved)
			order := f.order(0, listing, tc.status)
			uc := NewOrderUseCase(f.store, nil)

			_, err := tc.act(uc, order.ID, f)
			require.ErrorIs(t, err, tc.errKind)

			stored, _ := f.store.Order(order.ID)
			assert.Equal(t, tc.status, stored.Status)
			l, _ := f.store.Listing(listing.ID)
			assert.Equal(t, model.ListingStatusReserved, l.Status)
		})
	}
}

func TestOrderTransitionMissingOrder(t *testing.T) {
	f := newFixture()
	uc := NewOrderUseCase(f.store, nil)
	_, err := uc.Complete(context.Background(), 404, f.seller.UID)
	require.ErrorIs(t, err, domainErrors.ErrNotFound)

	_, err = uc.Complete(context.Background(), 0, f.seller.UID)
	require.ErrorIs(t, err, domainErrors.ErrValidation)
}

func TestOrderGetAndLists(t *testing.T) {
	f := newFixture()
	first := f.order(0, f.listing(0, "10.00", model.ListingStatusReserved), model.OrderStatusPending)
	second := f.order(0, f.listing(0, "20.00", model.ListingStatusReserved), model.OrderStatusPending)
	uc := NewOrderUseCase(f.store, nil)
	ctx := context.Background()

	_, err := uc.Get(ctx, first.ID, f.other.UID)
	require.ErrorIs(t, err, domainErrors.ErrForbidden)

	got, err := uc.Get(ctx, first.ID, f.seller.UID)
	require.NoError(t, err)
	assert.Equal(t, "Desk lamp", got.ListingTitle)

	bought, err := uc.ListByBuyer(ctx, f.buyer.UID)
	require.NoError(t, err)
	require.Len(t, bought, 2)
	assert.Equal(t, second.ID, bought[0].ID)

	sold, err := uc.ListBySeller(ctx, f.seller.UID)
	require.NoError(t, err)
	assert.Len(t, sold, 2)

	none, err := uc.ListBySeller(ctx, f.buyer.UID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
