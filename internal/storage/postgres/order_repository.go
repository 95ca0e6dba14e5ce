package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/campusmarket/internal/domain/model"
)

type orderRepository struct {
	q querier
}

const orderColumns = `o.id, o.buyer_uid, o.listing_id, o.price::text, o.tax::text, o.platform_fee::text,
       o.delivery_method, o.delivery_note, o.status, o.created_at, o.updated_at,
       l.seller_uid, l.item_id, l.status, i.title`

const orderFrom = `FROM orders o JOIN listings l ON l.id = o.listing_id JOIN items i ON i.id = l.item_id`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o               model.Order
		price, tax, fee string
	)
	err := row.Scan(&o.ID, &o.BuyerUID, &o.ListingID, &price, &tax, &fee,
		&o.DeliveryMethod, &o.DeliveryNote, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		&o.SellerUID, &o.ItemID, &o.ListingStatus, &o.ListingTitle)
	if err != nil {
		return nil, err
	}
	if o.Pricing.Price, err = parseNumeric("price", price); err != nil {
		return nil, err
	}
	if o.Pricing.Tax, err = parseNumeric("tax", tax); err != nil {
		return nil, err
	}
	if o.Pricing.PlatformFee, err = parseNumeric("platform_fee", fee); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	const query = `INSERT INTO orders (buyer_uid, listing_id, price, tax, platform_fee, delivery_method, delivery_note, status)
                   VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6, $7, $8)
                   RETURNING id, created_at, updated_at`
	p := order.Pricing
	err := r.q.QueryRow(ctx, query, order.BuyerUID, order.ListingID,
		numericArg(p.Price), numericArg(p.Tax), numericArg(p.PlatformFee),
		order.DeliveryMethod, order.DeliveryNote, order.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	return mapError(err)
}

func (r *orderRepository) Get(ctx context.Context, id int64) (*model.Order, error) {
	order, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` `+orderFrom+` WHERE o.id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	order, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` `+orderFrom+` WHERE o.id=$1 FOR UPDATE OF o, l, i`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	return execOne(ctx, r.q, `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerUID int64) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` `+orderFrom+` WHERE o.buyer_uid=$1 ORDER BY o.created_at DESC, o.id DESC`, buyerUID)
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerUID int64) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` `+orderFrom+` WHERE l.seller_uid=$1 ORDER BY o.created_at DESC, o.id DESC`, sellerUID)
}

func (r *orderRepository) list(ctx context.Context, query string, uid int64) ([]model.Order, error) {
	rows, err := r.q.Query(ctx, query, uid)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
