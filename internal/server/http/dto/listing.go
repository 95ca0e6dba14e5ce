package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// ListingSearchQuery binds GET /api/listings parameters.
type ListingSearchQuery struct {
	Keyword   string `form:"search"`
	Category  string `form:"category"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=price expire_date"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Limit     int    `form:"limit" binding:"omitempty,min=0"`
	Offset    int    `form:"offset" binding:"omitempty,min=0"`
}

// Query converts the parameters to a catalog query. Without sort_by the
// newest listings come first.
func (q ListingSearchQuery) Query() model.ListingQuery {
	out := model.ListingQuery{
		Title:    q.Keyword,
		Category: q.Category,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	desc := q.SortOrder == "desc"
	switch q.SortBy {
	case "price":
		out.Sort = model.ListingSortPriceAsc
		if desc {
			out.Sort = model.ListingSortPriceDesc
		}
	case "expire_date":
		out.Sort = model.ListingSortExpireAsc
		if desc {
			out.Sort = model.ListingSortExpireDesc
		}
	}
	return out
}

// ListingForm carries editable listing fields, either as multipart form
// values or as JSON.
type ListingForm struct {
	Title         string      `form:"title" json:"title" binding:"required"`
	Category      string      `form:"category" json:"category" binding:"required"`
	Condition     string      `form:"condition" json:"condition" binding:"required"`
	Description   string      `form:"description" json:"description"`
	SellingPrice  json.Number `form:"selling_price" json:"selling_price" binding:"required"`
	OriginalPrice json.Number `form:"original_price" json:"original_price"`
	ExpireDate    string      `form:"expire_date" json:"expire_date" binding:"required"`
}

// CreateListingForm is the non-file part of POST /api/listings.
type CreateListingForm struct {
	UserUID int64 `form:"user_id" binding:"required,gt=0"`
	ListingForm
}

var expireDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseExpireDate accepts RFC 3339 timestamps and plain dates. A plain
// date expires at the end of that day in UTC.
func ParseExpireDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range expireDateLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Second)
		}
		return t, nil
	}
	return time.Time{}, domainErrors.Newf(domainErrors.ErrValidation, "expire_date must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
}

func parseMoney(v json.Number, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v.String()))
	if err != nil {
		return decimal.Decimal{}, domainErrors.Newf(domainErrors.ErrValidation, "%s must be a decimal number", field)
	}
	return d, nil
}

// Input converts the form to a domain listing input.
func (f ListingForm) Input() (model.ListingInput, error) {
	in := model.ListingInput{
		Title:       f.Title,
		Category:    f.Category,
		Condition:   f.Condition,
		Description: f.Description,
	}
	var err error
	if in.SellingPrice, err = parseMoney(f.SellingPrice, "selling_price"); err != nil {
		return in, err
	}
	if strings.TrimSpace(f.OriginalPrice.String()) != "" {
		original, err := parseMoney(f.OriginalPrice, "original_price")
		if err != nil {
			return in, err
		}
		in.OriginalPrice = &original
	}
	if in.ExpireDate, err = ParseExpireDate(f.ExpireDate); err != nil {
		return in, err
	}
	return in, nil
}

type MediaResponse struct {
	Kind         string `json:"kind"`
	File         string `json:"file"`
	OriginalName string `json:"original_name"`
	Position     int    `json:"position"`
}

type ListingResponse struct {
	ListingID     int64           `json:"listing_id"`
	ItemID        int64           `json:"item_id"`
	SellerUID     int64           `json:"seller_uid"`
	Title         string          `json:"title"`
	Category      string          `json:"category"`
	Condition     string          `json:"condition"`
	Description   string          `json:"description"`
	SellingPrice  string          `json:"selling_price"`
	OriginalPrice *string         `json:"original_price"`
	Status        string          `json:"status"`
	ItemStatus    string          `json:"item_status"`
	ExpireDate    time.Time       `json:"expire_date"`
	CreatedAt     time.Time       `json:"created_at"`
	Media         []MediaResponse `json:"media"`
}

func NewListingResponse(l model.Listing) ListingResponse {
	resp := ListingResponse{
		ListingID:    l.ID,
		ItemID:       l.ItemID,
		SellerUID:    l.SellerUID,
		Title:        l.Item.Title,
		Category:     l.Item.Category,
		Condition:    l.Item.Condition,
		Description:  l.Description,
		SellingPrice: Money(l.Item.SellingPrice),
		Status:       string(l.Status),
		ItemStatus:   string(l.Item.Status),
		ExpireDate:   l.ExpireDate,
		CreatedAt:    l.CreatedAt,
		Media:        make([]MediaResponse, 0, len(l.Media)),
	}
	if l.Item.OriginalPrice != nil {
		original := Money(*l.Item.OriginalPrice)
		resp.OriginalPrice = &original
	}
	for _, m := range l.Media {
		resp.Media = append(resp.Media, MediaResponse{
			Kind:         string(m.Kind),
			File:         m.StoredName,
			OriginalName: m.OriginalName,
			Position:     m.Position,
		})
	}
	return resp
}

func NewListingResponses(listings []model.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, NewListingResponse(l))
	}
	return out
}

type ListingListResponse struct {
	Envelope
	Listings []ListingResponse `json:"listings"`
	Count    int               `json:"count"`
}

type ListingDetailResponse struct {
	Envelope
	Listing ListingResponse `json:"listing"`
}

type CategoriesResponse struct {
	Envelope
	Categories []string `json:"categories"`
}

type PriceReferenceQuery struct {
	Category  string `form:"category" binding:"required"`
	Condition string `form:"condition" binding:"required"`
}

type PriceReferenceItem struct {
	ItemID        int64     `json:"item_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Condition     string    `json:"condition"`
	OriginalPrice *string   `json:"original_price"`
	SoldPrice     string    `json:"sold_price"`
	CoverImage    *string   `json:"cover_image"`
	SoldAt        time.Time `json:"sold_at"`
}

type PriceReferenceResponse struct {
	Envelope
	Data  []PriceReferenceItem `json:"data"`
	Count int                  `json:"count"`
}

func NewPriceReferenceResponse(refs []model.PriceReference) PriceReferenceResponse {
	out := make([]PriceReferenceItem, 0, len(refs))
	for _, r := range refs {
		item := PriceReferenceItem{
			ItemID:     r.ItemID,
			Title:      r.Title,
			Category:   r.Category,
			Condition:  r.Condition,
			SoldPrice:  Money(r.SoldPrice),
			CoverImage: r.CoverImage,
			SoldAt:     r.SoldAt,
		}
		if r.OriginalPrice != nil {
			original := Money(*r.OriginalPrice)
			item.OriginalPrice = &original
		}
		out = append(out, item)
	}
	return PriceReferenceResponse{Envelope: OK("Price reference fetched successfully"), Data: out, Count: len(out)}
}
