package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/puddle/v2"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// querier is satisfied by both the pool and a pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// repos binds repositories to a single querier.
type repos struct {
	q querier
}

func (r repos) Users() repository.UserRepository       { return &userRepository{q: r.q} }
func (r repos) Listings() repository.ListingRepository { return &listingRepository{q: r.q} }
func (r repos) Orders() repository.OrderRepository     { return &orderRepository{q: r.q} }
func (r repos) Reviews() repository.ReviewRepository   { return &reviewRepository{q: r.q} }
func (r repos) Conversations() repository.ConversationRepository {
	return &conversationRepository{q: r.q}
}

// Factory methods for domain repositories outside a transaction.
func (s *Storage) Users() repository.UserRepository       { return repos{q: s.pool}.Users() }
func (s *Storage) Listings() repository.ListingRepository { return repos{q: s.pool}.Listings() }
func (s *Storage) Orders() repository.OrderRepository     { return repos{q: s.pool}.Orders() }
func (s *Storage) Reviews() repository.ReviewRepository   { return repos{q: s.pool}.Reviews() }
func (s *Storage) Conversations() repository.ConversationRepository {
	return repos{q: s.pool}.Conversations()
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            uid BIGSERIAL PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            display_name TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS items (
            id BIGSERIAL PRIMARY KEY,
            seller_uid BIGINT NOT NULL REFERENCES users(uid),
            title TEXT NOT NULL,
            category TEXT NOT NULL,
            condition TEXT NOT NULL,
            original_price NUMERIC(10,2),
            selling_price NUMERIC(10,2) NOT NULL,
            status TEXT NOT NULL DEFAULT 'available'
        )`,
		`CREATE TABLE IF NOT EXISTS listings (
            id BIGSERIAL PRIMARY KEY,
            seller_uid BIGINT NOT NULL REFERENCES users(uid),
            item_id BIGINT UNIQUE NOT NULL REFERENCES items(id),
            status TEXT NOT NULL DEFAULT 'active',
            expire_date TIMESTAMPTZ NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS listing_media (
            id BIGSERIAL PRIMARY KEY,
            listing_id BIGINT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
            kind TEXT NOT NULL,
            stored_name TEXT UNIQUE NOT NULL,
            original_name TEXT NOT NULL,
            position INT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            buyer_uid BIGINT NOT NULL REFERENCES users(uid),
            listing_id BIGINT NOT NULL REFERENCES listings(id),
            price NUMERIC(10,2) NOT NULL,
            tax NUMERIC(10,2) NOT NULL,
            platform_fee NUMERIC(10,2) NOT NULL,
            delivery_method TEXT NOT NULL,
            delivery_note TEXT,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS reviews (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT UNIQUE NOT NULL REFERENCES orders(id),
            reviewer_uid BIGINT NOT NULL REFERENCES users(uid),
            seller_uid BIGINT NOT NULL REFERENCES users(uid),
            rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
            comment TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS conversations (
            id BIGSERIAL PRIMARY KEY,
            listing_id BIGINT REFERENCES listings(id),
            archived_listing_id BIGINT,
            user_a BIGINT NOT NULL REFERENCES users(uid),
            user_b BIGINT NOT NULL REFERENCES users(uid),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            last_message_at TIMESTAMPTZ,
            CHECK (user_a < user_b)
        )`,
		`CREATE TABLE IF NOT EXISTS messages (
            id BIGSERIAL PRIMARY KEY,
            conversation_id BIGINT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
            sender_uid BIGINT NOT NULL REFERENCES users(uid),
            body TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_uid, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_seller ON reviews(seller_uid, created_at DESC)`,
		`DROP INDEX IF EXISTS idx_conversations_pair`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_listing_pair ON conversations(user_a, user_b, listing_id)
            WHERE listing_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_general_pair ON conversations(user_a, user_b)
            WHERE listing_id IS NULL AND archived_listing_id IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes fn inside a transaction boundary. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(repository.Repositories) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapError(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Warn("rollback failed", slog.Any("error", rbErr))
			}
			return
		}
		err = mapError(tx.Commit(ctx))
	}()

	return fn(repos{q: tx})
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return mapError(s.pool.Ping(ctx))
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeTooManyConnections  = "53300"
	codeAdminShutdown       = "57P01"
	codeCannotConnectNow    = "57P03"
)

// mapError translates driver errors into domain kinds. Unknown errors are
// returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%w: %s", domainErrors.ErrAlreadyExists, pgErr.ConstraintName)
		case pgErr.Code == codeForeignKeyViolation:
			return domainErrors.Newf(domainErrors.ErrNotFound, "referenced record not found")
		case pgErr.Code == codeTooManyConnections, pgErr.Code == codeAdminShutdown,
			pgErr.Code == codeCannotConnectNow, len(pgErr.Code) == 5 && pgErr.Code[:2] == "08":
			return fmt.Errorf("%w: %v", domainErrors.ErrStoreUnavailable, err)
		}
		return err
	}
	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.Timeout(err) ||
		errors.Is(err, puddle.ErrClosedPool) {
		return fmt.Errorf("%w: %v", domainErrors.ErrStoreUnavailable, err)
	}
	return err
}
