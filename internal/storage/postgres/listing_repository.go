package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
)

type listingRepository struct {
	q querier
}

const listingColumns = `l.id, l.seller_uid, l.item_id, l.status, l.expire_date, l.description, l.created_at,
       i.title, i.category, i.condition, i.original_price::text, i.selling_price::text, i.status`

const listingFrom = `FROM listings l JOIN items i ON i.id = l.item_id`

func scanListing(row pgx.Row) (*model.Listing, error) {
	var (
		l        model.Listing
		original *string
		selling  string
	)
	err := row.Scan(&l.ID, &l.SellerUID, &l.ItemID, &l.Status, &l.ExpireDate, &l.Description, &l.CreatedAt,
		&l.Item.Title, &l.Item.Category, &l.Item.Condition, &original, &selling, &l.Item.Status)
	if err != nil {
		return nil, err
	}
	l.Item.ID = l.ItemID
	l.Item.SellerUID = l.SellerUID
	if l.Item.OriginalPrice, err = parseNullableNumeric("original_price", original); err != nil {
		return nil, err
	}
	if l.Item.SellingPrice, err = parseNumeric("selling_price", selling); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	const insertItem = `INSERT INTO items (seller_uid, title, category, condition, original_price, selling_price, status)
                        VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7) RETURNING id`
	it := &listing.Item
	err := r.q.QueryRow(ctx, insertItem, listing.SellerUID, it.Title, it.Category, it.Condition,
		nullableNumericArg(it.OriginalPrice), numericArg(it.SellingPrice), listing.Status.ItemStatus()).Scan(&it.ID)
	if err != nil {
		return mapError(err)
	}
	it.SellerUID = listing.SellerUID
	it.Status = listing.Status.ItemStatus()
	listing.ItemID = it.ID

	const insertListing = `INSERT INTO listings (seller_uid, item_id, status, expire_date, description)
                           VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err = r.q.QueryRow(ctx, insertListing, listing.SellerUID, listing.ItemID, listing.Status, listing.ExpireDate, listing.Description).
		Scan(&listing.ID, &listing.CreatedAt)
	if err != nil {
		return mapError(err)
	}

	const insertMedia = `INSERT INTO listing_media (listing_id, kind, stored_name, original_name, position)
                         VALUES ($1, $2, $3, $4, $5) RETURNING id`
	for i := range listing.Media {
		m := &listing.Media[i]
		m.ListingID = listing.ID
		if err := r.q.QueryRow(ctx, insertMedia, m.ListingID, m.Kind, m.StoredName, m.OriginalName, m.Position).Scan(&m.ID); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *listingRepository) Get(ctx context.Context, id int64) (*model.Listing, error) {
	return r.get(ctx, `SELECT `+listingColumns+` `+listingFrom+` WHERE l.id=$1`, id)
}

func (r *listingRepository) GetForUpdate(ctx context.Context, id int64) (*model.Listing, error) {
	return r.get(ctx, `SELECT `+listingColumns+` `+listingFrom+` WHERE l.id=$1 FOR UPDATE OF l, i`, id)
}

func (r *listingRepository) get(ctx context.Context, query string, id int64) (*model.Listing, error) {
	listing, err := scanListing(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	media, err := r.media(ctx, []int64{listing.ID})
	if err != nil {
		return nil, err
	}
	listing.Media = media[listing.ID]
	return listing, nil
}

func (r *listingRepository) media(ctx context.Context, ids []int64) (map[int64][]model.ListingMedia, error) {
	const query = `SELECT id, listing_id, kind, stored_name, original_name, position
                   FROM listing_media WHERE listing_id = ANY($1) ORDER BY listing_id, position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := make(map[int64][]model.ListingMedia, len(ids))
	for rows.Next() {
		var m model.ListingMedia
		if err := rows.Scan(&m.ID, &m.ListingID, &m.Kind, &m.StoredName, &m.OriginalName, &m.Position); err != nil {
			return nil, err
		}
		result[m.ListingID] = append(result[m.ListingID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *listingRepository) list(ctx context.Context, query string, args ...any) ([]model.Listing, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(result) == 0 {
		return result, nil
	}
	ids := make([]int64, len(result))
	for i := range result {
		ids[i] = result[i].ID
	}
	media, err := r.media(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Media = media[result[i].ID]
	}
	return result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func searchOrder(sort model.ListingSort) string {
	switch sort {
	case model.ListingSortPriceAsc:
		return "i.selling_price ASC, l.id DESC"
	case model.ListingSortPriceDesc:
		return "i.selling_price DESC, l.id DESC"
	case model.ListingSortExpireAsc:
		return "l.expire_date ASC, l.id DESC"
	case model.ListingSortExpireDesc:
		return "l.expire_date DESC, l.id DESC"
	default:
		return "l.created_at DESC, l.id DESC"
	}
}

func (r *listingRepository) Search(ctx context.Context, q model.ListingQuery) ([]model.Listing, error) {
	args := []any{model.ListingStatusActive}
	where := []string{"l.status = $1"}
	if q.Title != "" {
		args = append(args, "%"+likeEscaper.Replace(q.Title)+"%")
		where = append(where, fmt.Sprintf("i.title ILIKE $%d", len(args)))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		where = append(where, fmt.Sprintf("i.category = $%d", len(args)))
	}
	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		listingColumns, listingFrom, strings.Join(where, " AND "), searchOrder(q.Sort), len(args)-1, len(args))
	return r.list(ctx, query, args...)
}

func (r *listingRepository) Categories(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT i.category ` + listingFrom + ` WHERE l.status = $1 ORDER BY i.category`
	rows, err := r.q.Query(ctx, query, model.ListingStatusActive)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *listingRepository) PriceReference(ctx context.Context, category, condition string, limit int) ([]model.PriceReference, error) {
	const query = `SELECT i.id, i.title, i.category, i.condition, i.original_price::text, o.price::text, o.updated_at,
       (SELECT m.stored_name FROM listing_media m
         WHERE m.listing_id = l.id AND m.kind = $4 ORDER BY m.position LIMIT 1)
  FROM orders o
  JOIN listings l ON l.id = o.listing_id
  JOIN items i ON i.id = l.item_id
 WHERE i.category = $1 AND i.condition = $2 AND o.status = $3
 ORDER BY o.updated_at DESC, o.id DESC
 LIMIT $5`
	rows, err := r.q.Query(ctx, query, category, condition, model.OrderStatusCompleted, model.MediaKindImage, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []model.PriceReference{}
	for rows.Next() {
		var (
			ref      model.PriceReference
			original *string
			sold     string
		)
		if err := rows.Scan(&ref.ItemID, &ref.Title, &ref.Category, &ref.Condition, &original, &sold, &ref.SoldAt, &ref.CoverImage); err != nil {
			return nil, err
		}
		if ref.OriginalPrice, err = parseNullableNumeric("original_price", original); err != nil {
			return nil, err
		}
		if ref.SoldPrice, err = parseNumeric("price", sold); err != nil {
			return nil, err
		}
		result = append(result, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *listingRepository) SellerStats(ctx context.Context, sellerUID int64) (model.SellerStats, error) {
	const query = `SELECT
       (SELECT COUNT(*) FROM listings WHERE seller_uid = $1 AND status = $2),
       (SELECT COUNT(*) FROM orders o JOIN listings l ON l.id = o.listing_id
         WHERE l.seller_uid = $1 AND o.status = $3)`
	var stats model.SellerStats
	err := r.q.QueryRow(ctx, query, sellerUID, model.ListingStatusActive, model.OrderStatusCompleted).
		Scan(&stats.ActiveListings, &stats.ItemsSold)
	if err != nil {
		return model.SellerStats{}, mapError(err)
	}
	return stats, nil
}

func (r *listingRepository) ListBySeller(ctx context.Context, sellerUID int64) ([]model.Listing, error) {
	return r.list(ctx, `SELECT `+listingColumns+` `+listingFrom+` WHERE l.seller_uid=$1 ORDER BY l.created_at DESC, l.id DESC`, sellerUID)
}

func (r *listingRepository) Update(ctx context.Context, listing *model.Listing) error {
	const updateItem = `UPDATE items SET title=$1, category=$2, condition=$3, original_price=$4::numeric, selling_price=$5::numeric WHERE id=$6`
	it := listing.Item
	if err := execOne(ctx, r.q, updateItem, it.Title, it.Category, it.Condition,
		nullableNumericArg(it.OriginalPrice), numericArg(it.SellingPrice), listing.ItemID); err != nil {
		return err
	}
	const updateListing = `UPDATE listings SET expire_date=$1, description=$2 WHERE id=$3`
	return execOne(ctx, r.q, updateListing, listing.ExpireDate, listing.Description, listing.ID)
}

func (r *listingRepository) UpdateStatus(ctx context.Context, listingID, itemID int64, status model.ListingStatus) error {
	if err := execOne(ctx, r.q, `UPDATE listings SET status=$1 WHERE id=$2`, status, listingID); err != nil {
		return err
	}
	return execOne(ctx, r.q, `UPDATE items SET status=$1 WHERE id=$2`, status.ItemStatus(), itemID)
}

func (r *listingRepository) Delete(ctx context.Context, listingID, itemID int64) ([]string, error) {
	rows, err := r.q.Query(ctx, `DELETE FROM listing_media WHERE listing_id=$1 RETURNING stored_name`, listingID)
	if err != nil {
		return nil, mapError(err)
	}
	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			rows.Close()
			return nil, err
		}
		names = append(names, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Conversations about the listing outlive it and stay apart from the pair's general conversation.
	const detach = `UPDATE conversations SET archived_listing_id=listing_id, listing_id=NULL WHERE listing_id=$1`
	if _, err := r.q.Exec(ctx, detach, listingID); err != nil {
		return nil, deleteError(listingID, err)
	}

	tag, err := r.q.Exec(ctx, `DELETE FROM listings WHERE id=$1`, listingID)
	if err != nil {
		return nil, deleteError(listingID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domainErrors.ErrNotFound
	}
	if err := execOne(ctx, r.q, `DELETE FROM items WHERE id=$1`, itemID); err != nil {
		return nil, err
	}
	return names, nil
}

func (r *listingRepository) ReferencedMedia(ctx context.Context, names []string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT stored_name FROM listing_media WHERE stored_name = ANY($1)`, names)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func deleteError(listingID int64, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeForeignKeyViolation:
			return domainErrors.Newf(domainErrors.ErrConflict, "listing %d has order history and cannot be deleted", listingID)
		case codeUniqueViolation:
			return domainErrors.Newf(domainErrors.ErrConflict, "listing %d cannot be deleted: %s", listingID, pgErr.ConstraintName)
		}
	}
	return mapError(err)
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, q querier, query string, args ...any) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
