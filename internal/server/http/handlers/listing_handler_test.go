package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/server/http/dto"
	testhelpers "github.com/polkiloo/campusmarket/internal/test"
)

func TestListingHandlerSearch(t *testing.T) {
	var got model.ListingQuery
	handler := NewListingHandler(testhelpers.MarketFacadeStub{SearchFn: func(_ context.Context, q model.ListingQuery) ([]model.Listing, error) {
		got = q
		return []model.Listing{*testhelpers.SampleListing()}, nil
	}})

	resp := performRequest(t, http.MethodGet, "/listings", "/listings?search=lamp&category=furniture&sort_by=price&sort_order=desc&limit=5&offset=10", handler.Search, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	want := model.ListingQuery{Title: "lamp", Category: "furniture", Sort: model.ListingSortPriceDesc, Limit: 5, Offset: 10}
	if got != want {
		t.Fatalf("unexpected query %+v", got)
	}
	out := decode[dto.ListingListResponse](t, resp)
	if out.Count != 1 || out.Listings[0].SellingPrice != "15.00" || len(out.Listings[0].Media) != 1 || out.Listings[0].Media[0].File != "a.jpg" {
		t.Fatalf("unexpected response %+v", out)
	}

	resp = performRequest(t, http.MethodGet, "/listings", "/listings?sort_by=expire_date", handler.Search, nil, nil)
	if resp.Code != http.StatusOK || got.Sort != model.ListingSortExpireAsc {
		t.Fatalf("expected ascending expiry sort, got %d %+v", resp.Code, got)
	}

	resp = performRequest(t, http.MethodGet, "/listings", "/listings", handler.Search, nil, nil)
	if resp.Code != http.StatusOK || got.Sort != model.ListingSortNewest {
		t.Fatalf("expected newest first by default, got %+v", got)
	}

	resp = performRequest(t, http.MethodGet, "/listings", "/listings?sort_by=rating", handler.Search, nil, nil)
	expectFailure(t, resp, http.StatusBadRequest, "sort_by must be one of price, expire_date")
}

func TestListingHandlerGetAndCategories(t *testing.T) {
	handler := NewListingHandler(testhelpers.MarketFacadeStub{ListingFn: func(_ context.Context, id int64) (*model.Listing, error) {
		if id != 10 {
			return nil, domainErrors.Newf(domainErrors.ErrNotFound, "listing %d not found", id)
		}
		return testhelpers.SampleListing(), nil
	}})

	resp := performRequest(t, http.MethodGet, "/listings/:id", "/listings/10", handler.Get, nil, nil)
	out := decode[dto.ListingDetailResponse](t, resp)
	if resp.Code != http.StatusOK || out.Listing.ListingID != 10 || out.Listing.Status != "active" || out.Listing.OriginalPrice != nil {
		t.Fatalf("unexpected response %d %+v", resp.Code, out)
	}

	resp = performRequest(t, http.MethodGet, "/listings/:id", "/listings/11", handler.Get, nil, nil)
	expectFailure(t, resp, http.StatusNotFound, "listing 11 not found")

	resp = performRequest(t, http.MethodGet, "/listings/categories", "/listings/categories", handler.Categories, nil, nil)
	cats := decode[dto.CategoriesResponse](t, resp)
	if resp.Code != http.StatusOK || len(cats.Categories) != 2 {
		t.Fatalf("unexpected categories %d %+v", resp.Code, cats)
	}
}

type multipartFile struct {
	field, name, content string
}

func multipartBody(t *testing.T, fields map[string]string, files []multipartFile) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		_, _ = part.Write([]byte(f.content))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf.Bytes(), w.FormDataContentType()
}

func listingFields() map[string]string {
	return map[string]string{
		"user_id":        "2",
		"title":          "Desk lamp",
		"category":       "furniture",
		"condition":      "used",
		"description":    "Barely used",
		"selling_price":  "15.50",
		"original_price": "30",
		"expire_date":    "2030-01-31",
	}
}

func TestListingHandlerCreate(t *testing.T) {
	var (
		seller   int64
		input    model.ListingInput
		contents []string
		kinds    []model.MediaKind
	)
	handler := NewListingHandler(testhelpers.MarketFacadeStub{CreateListingFn: func(_ context.Context, sellerUID int64, in model.ListingInput, uploads []model.Upload) (*model.Listing, error) {
		seller, input = sellerUID, in
		for _, up := range uploads {
			rc, err := up.Open()
			if err != nil {
				return nil, err
			}
			data, _ := io.ReadAll(rc)
			_ = rc.Close()
			contents = append(contents, up.Name+":"+string(data))
			kinds = append(kinds, up.Kind)
		}
		return testhelpers.SampleListing(), nil
	}})

	body, contentType := multipartBody(t, listingFields(), []multipartFile{
		{"images", "front.jpg", "img1"},
		{"images", "back.png", "img2"},
		{"video", "demo.mp4", "vid"},
	})
	resp := performRequest(t, http.MethodPost, "/listings", "/listings", handler.Create, body, map[string]string{"Content-Type": contentType})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if seller != 2 || input.Title != "Desk lamp" || input.SellingPrice.String() != "15.5" || input.OriginalPrice == nil || input.OriginalPrice.String() != "30" {
		t.Fatalf("unexpected input %d %+v", seller, input)
	}
	wantExpire := time.Date(2030, 1, 31, 23, 59, 59, 0, time.UTC)
	if !input.ExpireDate.Equal(wantExpire) {
		t.Fatalf("unexpected expire date %v", input.ExpireDate)
	}
	if len(contents) != 3 || contents[0] != "front.jpg:img1" || contents[2] != "demo.mp4:vid" {
		t.Fatalf("unexpected uploads %v", contents)
	}
	if kinds[0] != model.MediaKindImage || kinds[1] != model.MediaKindImage || kinds[2] != model.MediaKindVideo {
		t.Fatalf("unexpected kinds %v", kinds)
	}
}

func TestListingHandlerCreateFailures(t *testing.T) {
	handler := NewListingHandler(testhelpers.MarketFacadeStub{})
	create := func(fields map[string]string, files []multipartFile) (int, dto.Envelope) {
		body, contentType := multipartBody(t, fields, files)
		resp := performRequest(t, http.MethodPost, "/listings", "/listings", handler.Create, body, map[string]string{"Content-Type": contentType})
		return resp.Code, decode[dto.Envelope](t, resp)
	}
	image := []multipartFile{{"images", "a.jpg", "x"}}

	if code, env := create(listingFields(), nil); code != http.StatusBadRequest || env.Message != "At least 1 image is required" {
		t.Fatalf("unexpected %d %+v", code, env)
	}

	tooMany := make([]multipartFile, 0, 10)
	for range 10 {
		tooMany = append(tooMany, multipartFile{"images", "a.jpg", "x"})
	}
	if code, env := create(listingFields(), tooMany); code != http.StatusBadRequest || env.Message != "Too many files. Maximum 9 images and 1 video allowed." {
		t.Fatalf("unexpected %d %+v", code, env)
	}

	fields := listingFields()
	delete(fields, "title")
	if code, env := create(fields, image); code != http.StatusBadRequest || env.Message != "title is required" {
		t.Fatalf("unexpected %d %+v", code, env)
	}

	fields = listingFields()
	fields["selling_price"] = "cheap"
	if code, env := create(fields, image); code != http.StatusBadRequest || env.Message != "selling_price must be a decimal number" {
		t.Fatalf("unexpected %d %+v", code, env)
	}

	fields = listingFields()
	fields["expire_date"] = "next week"
	if code, _ := create(fields, image); code != http.StatusBadRequest {
		t.Fatalf("expected bad expire date to be rejected, got %d", code)
	}

	resp := performRequest(t, http.MethodPost, "/listings", "/listings", handler.Create, []byte(`{"title":"x"}`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected non-multipart body to be rejected, got %d", resp.Code)
	}
}

func TestParseExpireDate(t *testing.T) {
	cases := map[string]time.Time{
		"2030-01-31":                time.Date(2030, 1, 31, 23, 59, 59, 0, time.UTC),
		"2030-01-31T10:30":          time.Date(2030, 1, 31, 10, 30, 0, 0, time.UTC),
		"2030-01-31T10:30:00+02:00": time.Date(2030, 1, 31, 8, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := dto.ParseExpireDate(in)
		if err != nil || !got.Equal(want) {
			t.Fatalf("%s: got %v, %v", in, got, err)
		}
	}
}

func TestListingHandlerPriceReference(t *testing.T) {
	var gotCategory, gotCondition string
	original := decimal.RequireFromString("40")
	cover := "a.jpg"
	handler := NewListingHandler(testhelpers.MarketFacadeStub{PriceRefFn: func(_ context.Context, category, condition string) ([]model.PriceReference, error) {
		gotCategory, gotCondition = category, condition
		return []model.PriceReference{{
			ItemID:        110,
			Title:         "Desk lamp",
			Category:      category,
			Condition:     condition,
			OriginalPrice: &original,
			SoldPrice:     decimal.RequireFromString("15.5"),
			CoverImage:    &cover,
		}}, nil
	}})

	resp := performRequest(t, http.MethodGet, "/listings/price-reference", "/listings/price-reference?category=furniture&condition=used", handler.PriceReference, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if gotCategory != "furniture" || gotCondition != "used" {
		t.Fatalf("unexpected arguments %q %q", gotCategory, gotCondition)
	}
	out := decode[dto.PriceReferenceResponse](t, resp)
	if out.Count != 1 || out.Data[0].SoldPrice != "15.50" || out.Data[0].OriginalPrice == nil || *out.Data[0].OriginalPrice != "40.00" {
		t.Fatalf("unexpected response %+v", out)
	}
	if out.Message != "Price reference fetched successfully" {
		t.Fatalf("unexpected message %q", out.Message)
	}

	resp = performRequest(t, http.MethodGet, "/listings/price-reference", "/listings/price-reference?category=furniture", handler.PriceReference, nil, nil)
	expectFailure(t, resp, http.StatusBadRequest, "condition is required")
}
