package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/domain/repository"
)

// CatalogUseCase serves listing search and listing creation.
type CatalogUseCase struct {
	uow    repository.UnitOfWork
	media  repository.MediaStore
	logger *slog.Logger
	now    func() time.Time
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(uow repository.UnitOfWork, media repository.MediaStore, logger *slog.Logger) *CatalogUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogUseCase{uow: uow, media: media, logger: logger, now: time.Now}
}

// Search lists active listings matching the query.
func (u *CatalogUseCase) Search(ctx context.Context, q model.ListingQuery) ([]model.Listing, error) {
	q, err := normalizeQuery(q)
	if err != nil {
		return nil, err
	}
	return u.uow.Listings().Search(ctx, q)
}

// Get returns one listing with its item and media.
func (u *CatalogUseCase) Get(ctx context.Context, id int64) (*model.Listing, error) {
	if err := validID(id, "listing_id"); err != nil {
		return nil, err
	}
	listing, err := u.uow.Listings().Get(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.Newf(domainErrors.ErrNotFound, "listing %d not found", id)
		}
		return nil, err
	}
	return listing, nil
}

// Categories returns distinct categories of active listings.
func (u *CatalogUseCase) Categories(ctx context.Context) ([]string, error) {
	return u.uow.Listings().Categories(ctx)
}

// PriceReference returns recent completed sale prices of items with the same
// category and condition, newest first.
func (u *CatalogUseCase) PriceReference(ctx context.Context, category, condition string) ([]model.PriceReference, error) {
	category = strings.TrimSpace(category)
	condition = strings.TrimSpace(condition)
	if category == "" || condition == "" {
		return nil, domainErrors.Newf(domainErrors.ErrValidation, "category and condition are required")
	}
	return u.uow.Listings().PriceReference(ctx, category, condition, PriceReferenceLimit)
}

// Create stores uploads, then inserts item, listing and media rows in one
// transaction. Stored files are removed again when any step fails.
func (u *CatalogUseCase) Create(ctx context.Context, sellerUID int64, in model.ListingInput, uploads []model.Upload) (listing *model.Listing, err error) {
	if err := validID(sellerUID, "seller_uid"); err != nil {
		return nil, err
	}
	if err := validateListingInput(&in, u.now()); err != nil {
		return nil, err
	}
	if err := validateUploads(uploads); err != nil {
		return nil, err
	}

	ctx, span := startSpan(ctx, "listing.create",
		attribute.Int64("seller.uid", sellerUID),
		attribute.Int("media.count", len(uploads)))
	defer func() { endSpan(span, err) }()

	var stored []string
	defer func() {
		if err == nil || len(stored) == 0 {
			return
		}
		if rmErr := u.media.Remove(context.WithoutCancel(ctx), stored...); rmErr != nil {
			u.logger.Warn("failed to remove media of rejected listing", slog.Any("error", rmErr), slog.Any("files", stored))
		}
	}()

	media := make([]model.ListingMedia, 0, len(uploads))
	for i, up := range uploads {
		name, err := u.store(ctx, up)
		if err != nil {
			return nil, err
		}
		stored = append(stored, name)
		media = append(media, model.ListingMedia{
			Kind:         up.Kind,
			StoredName:   name,
			OriginalName: up.Name,
			Position:     i,
		})
	}

	created := &model.Listing{
		SellerUID:   sellerUID,
		Status:      model.ListingStatusActive,
		ExpireDate:  in.ExpireDate,
		Description: in.Description,
		Item: model.Item{
			SellerUID:     sellerUID,
			Title:         in.Title,
			Category:      in.Category,
			Condition:     in.Condition,
			OriginalPrice: in.OriginalPrice,
			SellingPrice:  in.SellingPrice,
			Status:        model.ItemStatusAvailable,
		},
		Media: media,
	}
	err = u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		return r.Listings().Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("listing created",
		slog.Int64("listing_id", created.ID),
		slog.Int64("seller_uid", sellerUID),
		slog.Int("media", len(media)))
	return created, nil
}

func (u *CatalogUseCase) store(ctx context.Context, up model.Upload) (string, error) {
	rc, err := up.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", up.Name, err)
	}
	defer rc.Close()
	name, err := u.media.Save(ctx, up.Name, rc)
	if err != nil {
		return "", fmt.Errorf("store upload %s: %w", up.Name, err)
	}
	return name, nil
}
