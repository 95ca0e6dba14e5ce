package handlers

import (
	"context"
	"net/http"
	"testing"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/server/http/dto"
	testhelpers "github.com/polkiloo/campusmarket/internal/test"
)

func TestReviewHandlerCreate(t *testing.T) {
	var got model.CreateReviewInput
	handler := NewReviewHandler(testhelpers.MarketFacadeStub{CreateReviewFn: func(_ context.Context, in model.CreateReviewInput) (*model.Review, error) {
		got = in
		return &model.Review{ID: 12, OrderID: in.OrderID, ReviewerUID: in.ReviewerUID, SellerUID: 2, Rating: in.Rating, Comment: in.Comment}, nil
	}})

	resp := performRequest(t, http.MethodPost, "/reviews/create", "/reviews/create", handler.Create, []byte(`{"order_id":5,"user_uid":3,"rating":4,"comment":"great lamp"}`), jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if got.OrderID != 5 || got.ReviewerUID != 3 || got.Rating != 4 || got.Comment == nil || *got.Comment != "great lamp" {
		t.Fatalf("unexpected input %+v", got)
	}
	out := decode[dto.ReviewCreatedResponse](t, resp)
	if out.ReviewID != 12 || out.Review.Rating != 4 || out.Review.SellerUID != 2 {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestReviewHandlerCreateFailures(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/reviews/create", "/reviews/create", NewReviewHandler(testhelpers.MarketFacadeStub{}).Create, []byte(`{"order_id":5,"user_uid":3,"rating":6}`), jsonHeaders)
	expectFailure(t, resp, http.StatusBadRequest, "rating must be at most 5")

	handler := NewReviewHandler(testhelpers.MarketFacadeStub{CreateReviewFn: func(context.Context, model.CreateReviewInput) (*model.Review, error) {
		return nil, domainErrors.Newf(domainErrors.ErrInvalidTransition, "only completed orders can be reviewed (status PENDING)")
	}})
	resp = performRequest(t, http.MethodPost, "/reviews/create", "/reviews/create", handler.Create, []byte(`{"order_id":5,"user_uid":3,"rating":5}`), jsonHeaders)
	expectFailure(t, resp, http.StatusBadRequest, "only completed orders can be reviewed (status PENDING)")
}

func TestReviewHandlerByOrder(t *testing.T) {
	var viewer *int64
	handler := NewReviewHandler(testhelpers.MarketFacadeStub{ReviewByOrderFn: func(_ context.Context, orderID int64, v *int64) (*model.Review, error) {
		viewer = v
		if orderID == 6 {
			return nil, domainErrors.Newf(domainErrors.ErrNotFound, "order 6 has no review")
		}
		return &model.Review{ID: 1, OrderID: orderID, Rating: 5}, nil
	}})

	resp := performRequest(t, http.MethodGet, "/reviews/order/:id", "/reviews/order/5", handler.ByOrder, nil, nil)
	out := decode[dto.ReviewDetailResponse](t, resp)
	if resp.Code != http.StatusOK || !out.HasReview || out.Review.OrderID != 5 || viewer != nil {
		t.Fatalf("unexpected response %d %+v viewer=%v", resp.Code, out, viewer)
	}

	resp = performRequest(t, http.MethodGet, "/reviews/order/:id", "/reviews/order/5?user_uid=3", handler.ByOrder, nil, nil)
	if resp.Code != http.StatusOK || viewer == nil || *viewer != 3 {
		t.Fatalf("expected viewer 3, got %d %v", resp.Code, viewer)
	}

	resp = performRequest(t, http.MethodGet, "/reviews/order/:id", "/reviews/order/6", handler.ByOrder, nil, nil)
	expectFailure(t, resp, http.StatusNotFound, "order 6 has no review")
}

func TestReviewHandlerSeller(t *testing.T) {
	handler := NewReviewHandler(testhelpers.MarketFacadeStub{SellerReviewsFn: func(_ context.Context, uid int64) ([]model.Review, model.ReviewSummary, error) {
		return []model.Review{{ID: 1, SellerUID: uid, Rating: 5}, {ID: 2, SellerUID: uid, Rating: 4}, {ID: 3, SellerUID: uid, Rating: 4}}, model.ReviewSummary{Count: 3, Average: 13.0 / 3}, nil
	}})
	resp := performRequest(t, http.MethodGet, "/reviews/seller/:uid", "/reviews/seller/2", handler.Seller, nil, nil)
	out := decode[dto.SellerReviewsResponse](t, resp)
	if resp.Code != http.StatusOK || out.Count != 3 || len(out.Reviews) != 3 || out.AverageRating != 4.3 {
		t.Fatalf("unexpected response %d %+v", resp.Code, out)
	}
}
