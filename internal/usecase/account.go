package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/domain/repository"
	"github.com/polkiloo/campusmarket/internal/pkg/password"
)

// AccountUseCase manages user profiles and the seller's own listings.
type AccountUseCase struct {
	uow    repository.UnitOfWork
	hasher password.Hasher
	media  repository.MediaStore
	logger *slog.Logger
	now    func() time.Time
}

// NewAccountUseCase constructs AccountUseCase.
func NewAccountUseCase(uow repository.UnitOfWork, hasher password.Hasher, media repository.MediaStore, logger *slog.Logger) *AccountUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountUseCase{uow: uow, hasher: hasher, media: media, logger: logger, now: time.Now}
}

// CreateUser registers a user with a hashed password.
func (u *AccountUseCase) CreateUser(ctx context.Context, email, displayName, pass string) (*model.User, error) {
	email, err := validateEmail(email)
	if err != nil {
		return nil, err
	}
	if err := requiredText(&displayName, "display_name", MaxDisplayNameLength); err != nil {
		return nil, err
	}
	if err := validatePassword(pass); err != nil {
		return nil, err
	}
	hash, err := u.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}
	user := &model.User{Email: email, DisplayName: displayName, PasswordHash: hash}
	if err := u.uow.Users().Create(ctx, user); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.Newf(domainErrors.ErrAlreadyExists, "email %s is already registered", email)
		}
		return nil, err
	}
	u.logger.Info("user created", slog.Int64("uid", user.UID))
	return user, nil
}

// Profile returns the user.
func (u *AccountUseCase) Profile(ctx context.Context, uid int64) (*model.User, error) {
	if err := validID(uid, "uid"); err != nil {
		return nil, err
	}
	return u.user(ctx, u.uow, uid)
}

// Overview returns the public seller view of a user: profile, received
// reviews with their summary, and catalog counts.
func (u *AccountUseCase) Overview(ctx context.Context, uid int64) (*model.UserOverview, error) {
	if err := validID(uid, "uid"); err != nil {
		return nil, err
	}
	user, err := u.user(ctx, u.uow, uid)
	if err != nil {
		return nil, err
	}
	reviews, err := u.uow.Reviews().ListBySeller(ctx, uid)
	if err != nil {
		return nil, err
	}
	summary, err := u.uow.Reviews().SellerSummary(ctx, uid)
	if err != nil {
		return nil, err
	}
	stats, err := u.uow.Listings().SellerStats(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &model.UserOverview{User: *user, Reviews: reviews, Summary: summary, Stats: stats}, nil
}

func (u *AccountUseCase) user(ctx context.Context, r repository.Repositories, uid int64) (*model.User, error) {
	user, err := r.Users().GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.Newf(domainErrors.ErrNotFound, "user %d not found", uid)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the display name.
func (u *AccountUseCase) UpdateProfile(ctx context.Context, uid int64, displayName string) (*model.User, error) {
	if err := validID(uid, "uid"); err != nil {
		return nil, err
	}
	if err := requiredText(&displayName, "display_name", MaxDisplayNameLength); err != nil {
		return nil, err
	}
	var user *model.User
	err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		current, err := u.user(ctx, r, uid)
		if err != nil {
			return err
		}
		if err := r.Users().UpdateDisplayName(ctx, uid, displayName); err != nil {
			return err
		}
		current.DisplayName = displayName
		user = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (u *AccountUseCase) ChangePassword(ctx context.Context, uid int64, current, next string) error {
	if err := validID(uid, "uid"); err != nil {
		return err
	}
	if err := validatePassword(next); err != nil {
		return err
	}
	return u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		user, err := u.user(ctx, r, uid)
		if err != nil {
			return err
		}
		if err := u.hasher.Compare(user.PasswordHash, current); err != nil {
			if errors.Is(err, password.ErrMismatch) {
				return domainErrors.Newf(domainErrors.ErrInvalidCredentials, "current password is incorrect")
			}
			return err
		}
		hash, err := u.hasher.Hash(next)
		if err != nil {
			return err
		}
		return r.Users().UpdatePasswordHash(ctx, uid, hash)
	})
}

// MyListings returns every listing of the seller regardless of status.
func (u *AccountUseCase) MyListings(ctx context.Context, uid int64) ([]model.Listing, error) {
	if err := validID(uid, "uid"); err != nil {
		return nil, err
	}
	return u.uow.Listings().ListBySeller(ctx, uid)
}

func ownedActiveListing(ctx context.Context, r repository.Repositories, uid, listingID int64, action string) (*model.Listing, error) {
	listing, err := r.Listings().GetForUpdate(ctx, listingID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.Newf(domainErrors.ErrNotFound, "listing %d not found", listingID)
		}
		return nil, err
	}
	if listing.SellerUID != uid {
		return nil, domainErrors.Newf(domainErrors.ErrForbidden, "listing %d belongs to another seller", listingID)
	}
	if listing.Status != model.ListingStatusActive {
		return nil, domainErrors.Newf(domainErrors.ErrConflict, "cannot %s listing with status %s", action, listing.Status)
	}
	return listing, nil
}

// UpdateListing edits an active listing owned by uid.
func (u *AccountUseCase) UpdateListing(ctx context.Context, uid, listingID int64, in model.ListingInput) (*model.Listing, error) {
	if err := validID(uid, "uid"); err != nil {
		return nil, err
	}
	if err := validID(listingID, "listing_id"); err != nil {
		return nil, err
	}
	if err := validateListingInput(&in, u.now()); err != nil {
		return nil, err
	}
	var listing *model.Listing
	err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		current, err := ownedActiveListing(ctx, r, uid, listingID, "edit")
		if err != nil {
			return err
		}
		current.ExpireDate = in.ExpireDate
		current.Description = in.Description
		current.Item.Title = in.Title
		current.Item.Category = in.Category
		current.Item.Condition = in.Condition
		current.Item.OriginalPrice = in.OriginalPrice
		current.Item.SellingPrice = in.SellingPrice
		if err := r.Listings().Update(ctx, current); err != nil {
			return err
		}
		listing = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("listing updated", slog.Int64("listing_id", listingID), slog.Int64("seller_uid", uid))
	return listing, nil
}

// DeleteListing removes an active listing owned by uid and its stored media.
func (u *AccountUseCase) DeleteListing(ctx context.Context, uid, listingID int64) error {
	if err := validID(uid, "uid"); err != nil {
		return err
	}
	if err := validID(listingID, "listing_id"); err != nil {
		return err
	}
	var files []string
	err := u.uow.WithinTransaction(ctx, func(r repository.Repositories) error {
		current, err := ownedActiveListing(ctx, r, uid, listingID, "delete")
		if err != nil {
			return err
		}
		files, err = r.Listings().Delete(ctx, current.ID, current.ItemID)
		return err
	})
	if err != nil {
		return err
	}
	if len(files) > 0 {
		// Leftovers are collected by the media janitor.
		if err := u.media.Remove(ctx, files...); err != nil {
			u.logger.Warn("failed to remove media of deleted listing",
				slog.Int64("listing_id", listingID),
				slog.String("files", strings.Join(files, ",")),
				slog.Any("error", err))
		}
	}
	u.logger.Info("listing deleted", slog.Int64("listing_id", listingID), slog.Int64("seller_uid", uid))
	return nil
}
