package repository

import (
	"context"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

// ListingRepository persists listings together with their item and media.
type ListingRepository interface {
	// Create inserts item, listing and media rows. Call it inside a transaction.
	Create(ctx context.Context, listing *model.Listing) error
	Get(ctx context.Context, id int64) (*model.Listing, error)
	// GetForUpdate reads listing joined with its item and locks both rows.
	GetForUpdate(ctx context.Context, id int64) (*model.Listing, error)
	Search(ctx context.Context, query model.ListingQuery) ([]model.Listing, error)
	Categories(ctx context.Context) ([]string, error)
	ListBySeller(ctx context.Context, sellerUID int64) ([]model.Listing, error)
	Update(ctx context.Context, listing *model.Listing) error
	// UpdateStatus writes the listing status and the mirrored item status.
	UpdateStatus(ctx context.Context, listingID, itemID int64, status model.ListingStatus) error
	// Delete removes listing, item and media rows and returns the stored media names.
	Delete(ctx context.Context, listingID, itemID int64) ([]string, error)
	// PriceReference returns the newest completed sales of items with the
	// given category and condition.
	PriceReference(ctx context.Context, category, condition string, limit int) ([]model.PriceReference, error)
	SellerStats(ctx context.Context, sellerUID int64) (model.SellerStats, error)
	// ReferencedMedia filters names down to those still referenced by a listing.
	ReferencedMedia(ctx context.Context, names []string) ([]string, error)
}
