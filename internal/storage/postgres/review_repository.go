package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

type reviewRepository struct {
	q querier
}

const reviewColumns = `id, order_id, reviewer_uid, seller_uid, rating, comment, created_at`

func scanReview(row pgx.Row) (*model.Review, error) {
	var rv model.Review
	if err := row.Scan(&rv.ID, &rv.OrderID, &rv.ReviewerUID, &rv.SellerUID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	const query = `INSERT INTO reviews (order_id, reviewer_uid, seller_uid, rating, comment)
                   VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, review.OrderID, review.ReviewerUID, review.SellerUID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	return mapError(err)
}

func (r *reviewRepository) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE order_id=$1)`, orderID).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *reviewRepository) GetByOrder(ctx context.Context, orderID int64) (*model.Review, error) {
	rv, err := scanReview(r.q.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE order_id=$1`, orderID))
	if err != nil {
		return nil, mapError(err)
	}
	return rv, nil
}

func (r *reviewRepository) ListBySeller(ctx context.Context, sellerUID int64) ([]model.Review, error) {
	rows, err := r.q.Query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE seller_uid=$1 ORDER BY created_at DESC, id DESC`, sellerUID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *reviewRepository) SellerSummary(ctx context.Context, sellerUID int64) (model.ReviewSummary, error) {
	const query = `SELECT COUNT(*), COALESCE(ROUND(AVG(rating)::numeric, 2), 0)::float8 FROM reviews WHERE seller_uid=$1`
	var s model.ReviewSummary
	if err := r.q.QueryRow(ctx, query, sellerUID).Scan(&s.Count, &s.Average); err != nil {
		return model.ReviewSummary{}, mapError(err)
	}
	return s, nil
}
