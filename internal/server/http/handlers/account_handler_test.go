package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/server/http/dto"
	testhelpers "github.com/polkiloo/campusmarket/internal/test"
)

func TestAccountHandlerCreate(t *testing.T) {
	handler := NewAccountHandler(testhelpers.MarketFacadeStub{CreateUserFn: func(_ context.Context, email, name, password string) (*model.User, error) {
		return &model.User{UID: 4, Email: email, DisplayName: name, PasswordHash: "$2a$10$secret"}, nil
	}})

	resp := performRequest(t, http.MethodPost, "/users", "/users", handler.Create, []byte(`{"email":"sam@campus.edu","display_name":"Sam","password":"longenough"}`), jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if strings.Contains(resp.Body.String(), "secret") {
		t.Fatalf("password hash leaked: %s", resp.Body.String())
	}
	out := decode[dto.UserDetailResponse](t, resp)
	if out.User.UID != 4 || out.User.Email != "sam@campus.edu" {
		t.Fatalf("unexpected response %+v", out)
	}

	resp = performRequest(t, http.MethodPost, "/users", "/users", handler.Create, []byte(`{"email":"not-an-email","display_name":"Sam","password":"longenough"}`), jsonHeaders)
	expectFailure(t, resp, http.StatusBadRequest, "email must be a valid email address")

	resp = performRequest(t, http.MethodPost, "/users", "/users", handler.Create, []byte(`{"email":"sam@campus.edu","display_name":"Sam","password":"short"}`), jsonHeaders)
	expectFailure(t, resp, http.StatusBadRequest, "password must be at least 8 characters")

	dup := NewAccountHandler(testhelpers.MarketFacadeStub{CreateUserFn: func(context.Context, string, string, string) (*model.User, error) {
		return nil, domainErrors.Newf(domainErrors.ErrAlreadyExists, "email sam@campus.edu is already registered")
	}})
	resp = performRequest(t, http.MethodPost, "/users", "/users", dup.Create, []byte(`{"email":"sam@campus.edu","display_name":"Sam","password":"longenough"}`), jsonHeaders)
	expectFailure(t, resp, http.StatusBadRequest, "email sam@campus.edu is already registered")
}

func TestAccountHandlerProfile(t *testing.T) {
	handler := NewAccountHandler(testhelpers.MarketFacadeStub{})

	resp := performRequest(t, http.MethodGet, "/users/:uid", "/users/4", handler.Profile, nil, nil)
	out := decode[dto.UserDetailResponse](t, resp)
	if resp.Code != http.StatusOK || out.User.UID != 4 {
		t.Fatalf("unexpected response %d %+v", resp.Code, out)
	}

	resp = performRequest(t, http.MethodPut, "/users/:uid", "/users/4", handler.UpdateProfile, []byte(`{"display_name":"Renamed"}`), jsonHeaders)
	out = decode[dto.UserDetailResponse](t, resp)
	if resp.Code != http.StatusOK || out.User.DisplayName != "Renamed" {
		t.Fatalf("unexpected response %d %+v", resp.Code, out)
	}

	resp = performRequest(t, http.MethodPut, "/users/:uid", "/users/4", handler.UpdateProfile, []byte(`{}`), jsonHeaders)
	expectFailure(t, resp, http.StatusBadRequest, "display_name is required")
}

func TestAccountHandlerChangePassword(t *testing.T) {
	handler := NewAccountHandler(testhelpers.MarketFacadeStub{ChangePasswordFn: func(_ context.Context, uid int64, current, next string) error {
		if current != "old-password" {
			return domainErrors.Newf(domainErrors.ErrInvalidCredentials, "current password is incorrect")
		}
		return nil
	}})

	resp := performRequest(t, http.MethodPost, "/users/:uid/password", "/users/4/password", handler.ChangePassword, []byte(`{"current_password":"old-password","new_password":"new-password"}`), jsonHeaders)
	if resp.Code != http.StatusOK || !decode[dto.Envelope](t, resp).Success {
		t.Fatalf("unexpected response %d %s", resp.Code, resp.Body.String())
	}

	resp = performRequest(t, http.MethodPost, "/users/:uid/password", "/users/4/password", handler.ChangePassword, []byte(`{"current_password":"guess","new_password":"new-password"}`), jsonHeaders)
	expectFailure(t, resp, http.StatusUnauthorized, "current password is incorrect")
}

func TestAccountHandlerListings(t *testing.T) {
	var (
		updated model.ListingInput
		deleted [2]int64
	)
	handler := NewAccountHandler(testhelpers.MarketFacadeStub{
		UpdateListingFn: func(_ context.Context, uid, listingID int64, in model.ListingInput) (*model.Listing, error) {
			updated = in
			if listingID == 11 {
				return nil, domainErrors.Newf(domainErrors.ErrConflict, "listing 11 is reserved and cannot be edited")
			}
			return testhelpers.SampleListing(), nil
		},
		DeleteListingFn: func(_ context.Context, uid, listingID int64) error {
			deleted = [2]int64{uid, listingID}
			return nil
		},
	})

	resp := performRequest(t, http.MethodGet, "/users/:uid/listings", "/users/2/listings", handler.Listings, nil, nil)
	list := decode[dto.ListingListResponse](t, resp)
	if resp.Code != http.StatusOK || list.Count != 1 {
		t.Fatalf("unexpected response %d %+v", resp.Code, list)
	}

	body := []byte(`{"title":"Lamp","category":"furniture","condition":"used","selling_price":12.5,"expire_date":"2030-02-01"}`)
	resp = performRequest(t, http.MethodPut, "/users/:uid/listings/:id", "/users/2/listings/10", handler.UpdateListing, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if updated.Title != "Lamp" || updated.SellingPrice.String() != "12.5" || updated.OriginalPrice != nil {
		t.Fatalf("unexpected input %+v", updated)
	}

	resp = performRequest(t, http.MethodPut, "/users/:uid/listings/:id", "/users/2/listings/11", handler.UpdateListing, body, jsonHeaders)
	expectFailure(t, resp, http.StatusBadRequest, "listing 11 is reserved and cannot be edited")

	resp = performRequest(t, http.MethodDelete, "/users/:uid/listings/:id", "/users/2/listings/10", handler.DeleteListing, nil, nil)
	if resp.Code != http.StatusOK || deleted != [2]int64{2, 10} {
		t.Fatalf("unexpected delete %d %v", resp.Code, deleted)
	}
}

func TestAccountHandlerOverview(t *testing.T) {
	comment := "quick handoff"
	handler := NewAccountHandler(testhelpers.MarketFacadeStub{OverviewFn: func(_ context.Context, uid int64) (*model.UserOverview, error) {
		if uid != 2 {
			return nil, domainErrors.Newf(domainErrors.ErrNotFound, "user %d not found", uid)
		}
		return &model.UserOverview{
			User:    model.User{UID: 2, Email: "seller@campus.edu", DisplayName: "Seller"},
			Reviews: []model.Review{{ID: 1, OrderID: 5, ReviewerUID: 3, SellerUID: 2, Rating: 4, Comment: &comment}},
			Summary: model.ReviewSummary{Count: 3, Average: 4.67},
			Stats:   model.SellerStats{ActiveListings: 2, ItemsSold: 3},
		}, nil
	}})

	resp := performRequest(t, http.MethodGet, "/users/:uid/overview", "/users/2/overview", handler.Overview, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if strings.Contains(resp.Body.String(), "seller@campus.edu") || strings.Contains(resp.Body.String(), "reviewer_uid") {
		t.Fatalf("overview exposes private fields: %s", resp.Body.String())
	}
	out := decode[dto.UserOverviewResponse](t, resp)
	want := dto.UserStatsResponse{ReviewCount: 3, TotalScore: 4.7, ActiveListings: 2, ItemsSold: 3}
	if out.User.UID != 2 || len(out.Reviews) != 1 || out.Stats != want {
		t.Fatalf("unexpected response %+v", out)
	}

	resp = performRequest(t, http.MethodGet, "/users/:uid/overview", "/users/9/overview", handler.Overview, nil, nil)
	expectFailure(t, resp, http.StatusNotFound, "user 9 not found")
}
