package repository

import "context"

// Repositories groups repositories bound to the same connection or transaction.
type Repositories interface {
	Users() UserRepository
	Listings() ListingRepository
	Orders() OrderRepository
	Reviews() ReviewRepository
	Conversations() ConversationRepository
}

// UnitOfWork gives access to repositories outside a transaction and runs
// callbacks inside one. The transaction commits when fn returns nil and
// rolls back otherwise; row locks taken by fn are released on both paths.
type UnitOfWork interface {
	Repositories
	WithinTransaction(ctx context.Context, fn func(Repositories) error) error
}
