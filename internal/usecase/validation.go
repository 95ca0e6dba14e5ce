package usecase

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
)

const (
	MaxDeliveryNoteLength = 500
	MaxReviewComment      = 2000
	MaxMessageLength      = 2000
	MaxTitleLength        = 120
	MaxCategoryLength     = 60
	MaxConditionLength    = 60
	MaxDescriptionLength  = 5000
	MaxDisplayNameLength  = 80
	MinPasswordLength     = 8
	MaxListingMedia       = 10

	DefaultSearchLimit  = 20
	MaxSearchLimit      = 100
	PriceReferenceLimit = 10
)

func validID(id int64, what string) error {
	if id <= 0 {
		return domainErrors.Newf(domainErrors.ErrValidation, "%s must be a positive integer", what)
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func validateCreateOrder(in *model.CreateOrderInput) error {
	if err := validID(in.ListingID, "listing_id"); err != nil {
		return err
	}
	if err := validID(in.BuyerUID, "buyer_uid"); err != nil {
		return err
	}
	if !in.DeliveryMethod.Valid() {
		return domainErrors.Newf(domainErrors.ErrValidation, "delivery_method must be one of pickup, delivered, other")
	}
	in.DeliveryNote = trimOptional(in.DeliveryNote)
	if in.DeliveryMethod == model.DeliveryMethodOther && in.DeliveryNote == nil {
		return domainErrors.Newf(domainErrors.ErrValidation, "delivery_note is required when delivery_method is other")
	}
	if in.DeliveryNote != nil && utf8.RuneCountInString(*in.DeliveryNote) > MaxDeliveryNoteLength {
		return domainErrors.Newf(domainErrors.ErrValidation, "delivery_note must be at most %d characters", MaxDeliveryNoteLength)
	}
	return nil
}

func validateReview(in *model.CreateReviewInput) error {
	if err := validID(in.OrderID, "order_id"); err != nil {
		return err
	}
	if err := validID(in.ReviewerUID, "user_uid"); err != nil {
		return err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return domainErrors.Newf(domainErrors.ErrValidation, "rating must be between 1 and 5")
	}
	in.Comment = trimOptional(in.Comment)
	if in.Comment != nil && utf8.RuneCountInString(*in.Comment) > MaxReviewComment {
		return domainErrors.Newf(domainErrors.ErrValidation, "comment must be at most %d characters", MaxReviewComment)
	}
	return nil
}

func requiredText(v *string, field string, max int) error {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return domainErrors.Newf(domainErrors.ErrValidation, "%s is required", field)
	}
	if utf8.RuneCountInString(*v) > max {
		return domainErrors.Newf(domainErrors.ErrValidation, "%s must be at most %d characters", field, max)
	}
	return nil
}

func validateListingInput(in *model.ListingInput, now time.Time) error {
	if err := requiredText(&in.Title, "title", MaxTitleLength); err != nil {
		return err
	}
	if err := requiredText(&in.Category, "category", MaxCategoryLength); err != nil {
		return err
	}
	if err := requiredText(&in.Condition, "condition", MaxConditionLength); err != nil {
		return err
	}
	in.Description = strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return domainErrors.Newf(domainErrors.ErrValidation, "description must be at most %d characters", MaxDescriptionLength)
	}
	if !in.SellingPrice.IsPositive() {
		return domainErrors.Newf(domainErrors.ErrValidation, "selling_price must be greater than zero")
	}
	if !in.SellingPrice.Equal(in.SellingPrice.Round(2)) {
		return domainErrors.Newf(domainErrors.ErrValidation, "selling_price must have at most two decimal places")
	}
	in.SellingPrice = in.SellingPrice.Round(2)
	if in.OriginalPrice != nil {
		if in.OriginalPrice.IsNegative() {
			return domainErrors.Newf(domainErrors.ErrValidation, "original_price must not be negative")
		}
		rounded := in.OriginalPrice.Round(2)
		in.OriginalPrice = &rounded
	}
	if in.ExpireDate.IsZero() || !in.ExpireDate.After(now) {
		return domainErrors.Newf(domainErrors.ErrValidation, "expire_date must be in the future")
	}
	return nil
}

func validateUploads(uploads []model.Upload) error {
	if len(uploads) > MaxListingMedia {
		return domainErrors.Newf(domainErrors.ErrValidation, "a listing can have at most %d media files", MaxListingMedia)
	}
	for _, up := range uploads {
		if up.Kind != model.MediaKindImage && up.Kind != model.MediaKindVideo {
			return domainErrors.Newf(domainErrors.ErrValidation, "unsupported media kind %q", up.Kind)
		}
		if strings.TrimSpace(up.Name) == "" || up.Open == nil {
			return domainErrors.Newf(domainErrors.ErrValidation, "media file name is required")
		}
	}
	return nil
}

func normalizeQuery(q model.ListingQuery) (model.ListingQuery, error) {
	q.Title = strings.TrimSpace(q.Title)
	q.Category = strings.TrimSpace(q.Category)
	if !q.Sort.Valid() {
		return q, domainErrors.Newf(domainErrors.ErrValidation, "unknown sort %q", q.Sort)
	}
	if q.Limit < 0 || q.Offset < 0 {
		return q, domainErrors.Newf(domainErrors.ErrValidation, "limit and offset must not be negative")
	}
	if q.Limit == 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit > MaxSearchLimit {
		q.Limit = MaxSearchLimit
	}
	return q, nil
}

func validateEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domainErrors.Newf(domainErrors.ErrValidation, "email is not a valid address")
	}
	return email, nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return domainErrors.Newf(domainErrors.ErrValidation, "password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func validateMessage(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", domainErrors.Newf(domainErrors.ErrValidation, "message body is required")
	}
	if utf8.RuneCountInString(body) > MaxMessageLength {
		return "", domainErrors.Newf(domainErrors.ErrValidation, "message body must be at most %d characters", MaxMessageLength)
	}
	return body, nil
}
