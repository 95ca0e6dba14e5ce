package model

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Item is the physical good offered by a listing.
type Item struct {
	ID            int64
	SellerUID     int64
	Title         string
	Category      string
	Condition     string
	OriginalPrice *decimal.Decimal
	SellingPrice  decimal.Decimal
	Status        ItemStatus
}

// MediaKind distinguishes uploaded images from videos.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// ListingMedia references one stored file of a listing.
type ListingMedia struct {
	ID           int64
	ListingID    int64
	Kind         MediaKind
	StoredName   string
	OriginalName string
	Position     int
}

// Listing is a seller's offer of one item.
type Listing struct {
	ID          int64
	SellerUID   int64
	ItemID      int64
	Status      ListingStatus
	ExpireDate  time.Time
	Description string
	CreatedAt   time.Time

	Item  Item
	Media []ListingMedia
}

// ListingSort selects catalog ordering.
type ListingSort string

const (
	ListingSortNewest     ListingSort = ""
	ListingSortPriceAsc   ListingSort = "price_asc"
	ListingSortPriceDesc  ListingSort = "price_desc"
	ListingSortExpireAsc  ListingSort = "expire_asc"
	ListingSortExpireDesc ListingSort = "expire_desc"
)

func (s ListingSort) Valid() bool {
	switch s {
	case ListingSortNewest, ListingSortPriceAsc, ListingSortPriceDesc, ListingSortExpireAsc, ListingSortExpireDesc:
		return true
	}
	return false
}

// ListingQuery filters active listings.
type ListingQuery struct {
	Title    string
	Category string
	Sort     ListingSort
	Limit    int
	Offset   int
}

// Upload is one file attached to a new listing.
type Upload struct {
	Name string
	Kind MediaKind
	Open func() (io.ReadCloser, error)
}

// ListingInput carries fields for creating or editing a listing.
type ListingInput struct {
	Title         string
	Category      string
	Condition     string
	OriginalPrice *decimal.Decimal
	SellingPrice  decimal.Decimal
	ExpireDate    time.Time
	Description   string
}

// PriceReference is the sale price of a completed order on a comparable item.
type PriceReference struct {
	ItemID        int64
	Title         string
	Category      string
	Condition     string
	OriginalPrice *decimal.Decimal
	SoldPrice     decimal.Decimal
	CoverImage    *string
	SoldAt        time.Time
}
