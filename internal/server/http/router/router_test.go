package router

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/campusmarket/internal/config"
	"github.com/polkiloo/campusmarket/internal/server/http/handlers"
	"github.com/polkiloo/campusmarket/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/campusmarket/internal/test"
)

func newEngine(facade testhelpers.MarketFacadeStub) *gin.Engine {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(facade, &config.Config{ServiceName: "campusmarket-test"}, logger)
}

func TestSetupRoutes(t *testing.T) {
	engine := newEngine(testhelpers.MarketFacadeStub{})

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodPost, "/api/orders/create", `{"listing_id":10,"buyer_uid":3,"delivery_method":"pickup"}`, http.StatusCreated},
		{http.MethodGet, "/api/orders/buyer/3", "", http.StatusOK},
		{http.MethodGet, "/api/orders/seller/2", "", http.StatusOK},
		{http.MethodGet, "/api/orders/5?user_uid=3", "", http.StatusOK},
		{http.MethodPost, "/api/orders/5/complete", `{"user_uid":2}`, http.StatusOK},
		{http.MethodPost, "/api/orders/5/cancel/request", `{"user_uid":3}`, http.StatusOK},
		{http.MethodPost, "/api/orders/5/cancel/accept", `{"user_uid":2}`, http.StatusOK},
		{http.MethodPost, "/api/orders/5/cancel/reject", `{"user_uid":2}`, http.StatusOK},
		{http.MethodPost, "/api/reviews/create", `{"order_id":5,"user_uid":3,"rating":5}`, http.StatusCreated},
		{http.MethodGet, "/api/reviews/order/5", "", http.StatusOK},
		{http.MethodGet, "/api/reviews/seller/2", "", http.StatusOK},
		{http.MethodGet, "/api/listings?search=lamp", "", http.StatusOK},
		{http.MethodGet, "/api/listings/categories", "", http.StatusOK},
		{http.MethodGet, "/api/listings/price-reference?category=furniture&condition=used", "", http.StatusOK},
		{http.MethodGet, "/api/listings/10", "", http.StatusOK},
		{http.MethodPost, "/api/users", `{"email":"a@campus.edu","display_name":"A","password":"password1"}`, http.StatusCreated},
		{http.MethodGet, "/api/users/4", "", http.StatusOK},
		{http.MethodGet, "/api/users/4/overview", "", http.StatusOK},
		{http.MethodPut, "/api/users/4", `{"display_name":"B"}`, http.StatusOK},
		{http.MethodPost, "/api/users/4/password", `{"current_password":"password1","new_password":"password2"}`, http.StatusOK},
		{http.MethodGet, "/api/users/2/listings", "", http.StatusOK},
		{http.MethodPut, "/api/users/2/listings/10", `{"title":"A","category":"b","condition":"c","selling_price":"5","expire_date":"2030-01-01"}`, http.StatusOK},
		{http.MethodDelete, "/api/users/2/listings/10", "", http.StatusOK},
		{http.MethodPost, "/api/conversations", `{"user_uid":3,"other_uid":2}`, http.StatusCreated},
		{http.MethodGet, "/api/conversations?user_uid=3", "", http.StatusOK},
		{http.MethodGet, "/api/conversations/7/messages?user_uid=3", "", http.StatusOK},
		{http.MethodPost, "/api/conversations/7/messages", `{"user_uid":3,"body":"hi"}`, http.StatusCreated},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		var body io.Reader
		if tc.body != "" {
			body = bytes.NewReader([]byte(tc.body))
		}
		req := httptest.NewRequest(tc.method, tc.path, body)
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		engine.ServeHTTP(resp, req)
		if resp.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d: %s", tc.method, tc.path, tc.status, resp.Code, resp.Body.String())
		}
		if resp.Header().Get(middleware.RequestIDHeader) == "" {
			t.Fatalf("%s %s: expected request id header", tc.method, tc.path)
		}
	}
}

func TestHealthzReportsStoreOutage(t *testing.T) {
	engine := newEngine(testhelpers.MarketFacadeStub{PingErr: io.ErrUnexpectedEOF})
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestResponsesAreCompressed(t *testing.T) {
	engine := newEngine(testhelpers.MarketFacadeStub{})
	req := httptest.NewRequest(http.MethodGet, "/api/listings", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip response, got headers %v", resp.Header())
	}
}

var _ handlers.MarketFacade = testhelpers.MarketFacadeStub{}
