package test

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/campusmarket/internal/domain/errors"
	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/domain/repository"
)

type memData struct {
	seq      int64
	users    map[int64]model.User
	listings map[int64]model.Listing
	orders   map[int64]model.Order
	reviews  map[int64]model.Review
	convs    map[int64]model.Conversation
	messages []model.Message
}

func newMemData() *memData {
	return &memData{
		users:    make(map[int64]model.User),
		listings: make(map[int64]model.Listing),
		orders:   make(map[int64]model.Order),
		reviews:  make(map[int64]model.Review),
		convs:    make(map[int64]model.Conversation),
	}
}

func (d *memData) clone() *memData {
	c := newMemData()
	c.seq = d.seq
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.listings {
		v.Media = append([]model.ListingMedia(nil), v.Media...)
		c.listings[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.reviews {
		c.reviews[k] = v
	}
	for k, v := range d.convs {
		c.convs[k] = v
	}
	c.messages = append([]model.Message(nil), d.messages...)
	return c
}

func (d *memData) nextID() int64 {
	d.seq++
	return d.seq
}

// MemoryStore is an in-memory repository.UnitOfWork. Transactions run one
// at a time, which is stricter than row locks, and roll back by restoring
// the snapshot taken at begin.
type MemoryStore struct {
	mu       sync.Mutex
	data     *memData
	failures map[string]error

	Commits   int
	Rollbacks int
	Now       func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: newMemData(), failures: make(map[string]error)}
}

// FailOn makes the named operation return err, e.g. "orders.create" or "commit".
func (s *MemoryStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *MemoryStore) fail(op string) error {
	return s.failures[op]
}

func (s *MemoryStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// WithinTransaction runs fn with exclusive access to the store.
func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("begin"); err != nil {
		return err
	}
	snapshot := s.data.clone()
	err := fn(memRepos{s: s, tx: true})
	if err == nil {
		err = s.fail("commit")
	}
	if err != nil {
		s.data = snapshot
		s.Rollbacks++
		return err
	}
	s.Commits++
	return nil
}

func (s *MemoryStore) Users() repository.UserRepository       { return memRepos{s: s}.Users() }
func (s *MemoryStore) Listings() repository.ListingRepository { return memRepos{s: s}.Listings() }
func (s *MemoryStore) Orders() repository.OrderRepository     { return memRepos{s: s}.Orders() }
func (s *MemoryStore) Reviews() repository.ReviewRepository   { return memRepos{s: s}.Reviews() }
func (s *MemoryStore) Conversations() repository.ConversationRepository {
	return memRepos{s: s}.Conversations()
}

// SeedUser stores u and returns it with UID assigned.
func (s *MemoryStore) SeedUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.UID = s.data.nextID()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	s.data.users[u.UID] = u
	return u
}

// SeedListing stores l with its item and returns it with IDs assigned.
// Status defaults to active and the item status always mirrors it.
func (s *MemoryStore) SeedListing(l model.Listing) model.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.data.nextID()
	} else if l.ID > s.data.seq {
		s.data.seq = l.ID
	}
	if l.Status == "" {
		l.Status = model.ListingStatusActive
	}
	l.ItemID = s.data.nextID()
	l.Item.ID = l.ItemID
	l.Item.SellerUID = l.SellerUID
	l.Item.Status = l.Status.ItemStatus()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	for i := range l.Media {
		l.Media[i].ID = s.data.nextID()
		l.Media[i].ListingID = l.ID
	}
	s.data.listings[l.ID] = l
	return l
}

// SeedOrder stores o against an existing listing and returns it joined.
func (s *MemoryStore) SeedOrder(o model.Order) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.data.nextID()
	} else if o.ID > s.data.seq {
		s.data.seq = o.ID
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
		o.UpdatedAt = o.CreatedAt
	}
	s.data.orders[o.ID] = o
	return s.data.joinOrder(o)
}

// Listing returns a copy of the stored listing.
func (s *MemoryStore) Listing(id int64) (model.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.data.listings[id]
	return l, ok
}

// Order returns a copy of the stored order.
func (s *MemoryStore) Order(id int64) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.data.orders[id]
	if !ok {
		return o, false
	}
	return s.data.joinOrder(o), true
}

// OrderCount returns number of stored orders.
func (s *MemoryStore) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders)
}

// ReviewCount returns number of stored reviews.
func (s *MemoryStore) ReviewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.reviews)
}

func (d *memData) joinOrder(o model.Order) model.Order {
	if l, ok := d.listings[o.ListingID]; ok {
		o.SellerUID = l.SellerUID
		o.ItemID = l.ItemID
		o.ListingTitle = l.Item.Title
		o.ListingStatus = l.Status
	}
	return o
}

type memRepos struct {
	s  *MemoryStore
	tx bool
}

func (r memRepos) enter() func() {
	if r.tx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r memRepos) Users() repository.UserRepository                 { return memUsers{r} }
func (r memRepos) Listings() repository.ListingRepository           { return memListings{r} }
func (r memRepos) Orders() repository.OrderRepository               { return memOrders{r} }
func (r memRepos) Reviews() repository.ReviewRepository             { return memReviews{r} }
func (r memRepos) Conversations() repository.ConversationRepository { return memConversations{r} }

type memUsers struct{ r memRepos }

func (m memUsers) Create(ctx context.Context, user *model.User) error {
	defer m.r.enter()()
	if err := m.r.s.fail("users.create"); err != nil {
		return err
	}
	d := m.r.s.data
	for _, u := range d.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domainErrors.ErrAlreadyExists
		}
	}
	user.UID = d.nextID()
	user.CreatedAt = m.r.s.now()
	d.users[user.UID] = *user
	return nil
}

func (m memUsers) GetByID(ctx context.Context, uid int64) (*model.User, error) {
	defer m.r.enter()()
	u, ok := m.r.s.data.users[uid]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &u, nil
}

func (m memUsers) UpdateDisplayName(ctx context.Context, uid int64, displayName string) error {
	defer m.r.enter()()
	u, ok := m.r.s.data.users[uid]
	if !ok {
		return domainErrors.ErrNotFound
	}
	u.DisplayName = displayName
	m.r.s.data.users[uid] = u
	return nil
}

func (m memUsers) UpdatePasswordHash(ctx context.Context, uid int64, hash string) error {
	defer m.r.enter()()
	if err := m.r.s.fail("users.update_password"); err != nil {
		return err
	}
	u, ok := m.r.s.data.users[uid]
	if !ok {
		return domainErrors.ErrNotFound
	}
	u.PasswordHash = hash
	m.r.s.data.users[uid] = u
	return nil
}

type memListings struct{ r memRepos }

func (m memListings) Create(ctx context.Context, listing *model.Listing) error {
	defer m.r.enter()()
	if err := m.r.s.fail("listings.create"); err != nil {
		return err
	}
	d := m.r.s.data
	listing.ItemID = d.nextID()
	listing.Item.ID = listing.ItemID
	listing.ID = d.nextID()
	listing.CreatedAt = m.r.s.now()
	for i := range listing.Media {
		listing.Media[i].ID = d.nextID()
		listing.Media[i].ListingID = listing.ID
	}
	stored := *listing
	stored.Media = append([]model.ListingMedia(nil), listing.Media...)
	d.listings[listing.ID] = stored
	return nil
}

func (m memListings) Get(ctx context.Context, id int64) (*model.Listing, error) {
	defer m.r.enter()()
	l, ok := m.r.s.data.listings[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &l, nil
}

func (m memListings) GetForUpdate(ctx context.Context, id int64) (*model.Listing, error) {
	if err := func() error {
		defer m.r.enter()()
		return m.r.s.fail("listings.get_for_update")
	}(); err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

func (m memListings) Search(ctx context.Context, q model.ListingQuery) ([]model.Listing, error) {
	defer m.r.enter()()
	if err := m.r.s.fail("listings.search"); err != nil {
		return nil, err
	}
	var out []model.Listing
	for _, l := range m.r.s.data.listings {
		if l.Status != model.ListingStatusActive {
			continue
		}
		if q.Title != "" && !strings.Contains(strings.ToLower(l.Item.Title), strings.ToLower(q.Title)) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(l.Item.Category, q.Category) {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case model.ListingSortPriceAsc:
			if !a.Item.SellingPrice.Equal(b.Item.SellingPrice) {
				return a.Item.SellingPrice.LessThan(b.Item.SellingPrice)
			}
		case model.ListingSortPriceDesc:
			if !a.Item.SellingPrice.Equal(b.Item.SellingPrice) {
				return a.Item.SellingPrice.GreaterThan(b.Item.SellingPrice)
			}
		case model.ListingSortExpireAsc:
			if !a.ExpireDate.Equal(b.ExpireDate) {
				return a.ExpireDate.Before(b.ExpireDate)
			}
		case model.ListingSortExpireDesc:
			if !a.ExpireDate.Equal(b.ExpireDate) {
				return a.ExpireDate.After(b.ExpireDate)
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	if q.Offset >= len(out) {
		return []model.Listing{}, nil
	}
	out = out[q.Offset:]
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m memListings) Categories(ctx context.Context) ([]string, error) {
	defer m.r.enter()()
	seen := make(map[string]struct{})
	out := []string{}
	for _, l := range m.r.s.data.listings {
		if l.Status != model.ListingStatusActive {
			continue
		}
		if _, ok := seen[l.Item.Category]; ok {
			continue
		}
		seen[l.Item.Category] = struct{}{}
		out = append(out, l.Item.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (m memListings) PriceReference(ctx context.Context, category, condition string, limit int) ([]model.PriceReference, error) {
	defer m.r.enter()()
	if err := m.r.s.fail("listings.price_reference"); err != nil {
		return nil, err
	}
	d := m.r.s.data
	sold := []model.Order{}
	for _, o := range d.orders {
		l, ok := d.listings[o.ListingID]
		if !ok || o.Status != model.OrderStatusCompleted || l.Item.Category != category || l.Item.Condition != condition {
			continue
		}
		sold = append(sold, o)
	}
	sort.Slice(sold, func(i, j int) bool {
		if !sold[i].UpdatedAt.Equal(sold[j].UpdatedAt) {
			return sold[i].UpdatedAt.After(sold[j].UpdatedAt)
		}
		return sold[i].ID > sold[j].ID
	})
	if len(sold) > limit {
		sold = sold[:limit]
	}
	out := make([]model.PriceReference, 0, len(sold))
	for _, o := range sold {
		l := d.listings[o.ListingID]
		ref := model.PriceReference{
			ItemID:        l.ItemID,
			Title:         l.Item.Title,
			Category:      l.Item.Category,
			Condition:     l.Item.Condition,
			OriginalPrice: l.Item.OriginalPrice,
			SoldPrice:     o.Pricing.Price,
			SoldAt:        o.UpdatedAt,
		}
		for _, media := range l.Media {
			if media.Kind == model.MediaKindImage {
				name := media.StoredName
				ref.CoverImage = &name
				break
			}
		}
		out = append(out, ref)
	}
	return out, nil
}

func (m memListings) SellerStats(ctx context.Context, sellerUID int64) (model.SellerStats, error) {
	defer m.r.enter()()
	var stats model.SellerStats
	d := m.r.s.data
	for _, l := range d.listings {
		if l.SellerUID == sellerUID && l.Status == model.ListingStatusActive {
			stats.ActiveListings++
		}
	}
	for _, o := range d.orders {
		if l, ok := d.listings[o.ListingID]; ok && l.SellerUID == sellerUID && o.Status == model.OrderStatusCompleted {
			stats.ItemsSold++
		}
	}
	return stats, nil
}

func (m memListings) ListBySeller(ctx context.Context, sellerUID int64) ([]model.Listing, error) {
	defer m.r.enter()()
	out := []model.Listing{}
	for _, l := range m.r.s.data.listings {
		if l.SellerUID == sellerUID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m memListings) Update(ctx context.Context, listing *model.Listing) error {
	defer m.r.enter()()
	if err := m.r.s.fail("listings.update"); err != nil {
		return err
	}
	current, ok := m.r.s.data.listings[listing.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	current.ExpireDate = listing.ExpireDate
	current.Description = listing.Description
	status := current.Item.Status
	current.Item = listing.Item
	current.Item.Status = status
	m.r.s.data.listings[listing.ID] = current
	return nil
}

func (m memListings) UpdateStatus(ctx context.Context, listingID, itemID int64, status model.ListingStatus) error {
	defer m.r.enter()()
	if err := m.r.s.fail("listings.update_status"); err != nil {
		return err
	}
	l, ok := m.r.s.data.listings[listingID]
	if !ok || l.ItemID != itemID {
		return domainErrors.ErrNotFound
	}
	l.Status = status
	l.Item.Status = status.ItemStatus()
	m.r.s.data.listings[listingID] = l
	return nil
}

func (m memListings) Delete(ctx context.Context, listingID, itemID int64) ([]string, error) {
	defer m.r.enter()()
	d := m.r.s.data
	l, ok := d.listings[listingID]
	if !ok || l.ItemID != itemID {
		return nil, domainErrors.ErrNotFound
	}
	for _, o := range d.orders {
		if o.ListingID == listingID {
			return nil, domainErrors.Newf(domainErrors.ErrConflict, "listing %d has order history", listingID)
		}
	}
	names := make([]string, 0, len(l.Media))
	for _, media := range l.Media {
		names = append(names, media.StoredName)
	}
	for id, c := range d.convs {
		if c.ListingID != nil && *c.ListingID == listingID {
			archived := listingID
			c.ArchivedListingID = &archived
			c.ListingID = nil
			d.convs[id] = c
		}
	}
	delete(d.listings, listingID)
	return names, nil
}

func (m memListings) ReferencedMedia(ctx context.Context, names []string) ([]string, error) {
	defer m.r.enter()()
	if err := m.r.s.fail("listings.referenced_media"); err != nil {
		return nil, err
	}
	referenced := make(map[string]struct{})
	for _, l := range m.r.s.data.listings {
		for _, media := range l.Media {
			referenced[media.StoredName] = struct{}{}
		}
	}
	out := []string{}
	for _, n := range names {
		if _, ok := referenced[n]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

type memOrders struct{ r memRepos }

func (m memOrders) Create(ctx context.Context, order *model.Order) error {
	defer m.r.enter()()
	if err := m.r.s.fail("orders.create"); err != nil {
		return err
	}
	d := m.r.s.data
	order.ID = d.nextID()
	order.CreatedAt = m.r.s.now()
	order.UpdatedAt = order.CreatedAt
	d.orders[order.ID] = *order
	return nil
}

func (m memOrders) Get(ctx context.Context, id int64) (*model.Order, error) {
	defer m.r.enter()()
	o, ok := m.r.s.data.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	o = m.r.s.data.joinOrder(o)
	return &o, nil
}

func (m memOrders) GetForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	if err := func() error {
		defer m.r.enter()()
		return m.r.s.fail("orders.get_for_update")
	}(); err != nil {
		return nil, err
	}
	return m.Get(ctx, id)
}

func (m memOrders) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	defer m.r.enter()()
	if err := m.r.s.fail("orders.update_status"); err != nil {
		return err
	}
	o, ok := m.r.s.data.orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = m.r.s.now()
	m.r.s.data.orders[id] = o
	return nil
}

func (m memOrders) list(match func(model.Order) bool) []model.Order {
	defer m.r.enter()()
	out := []model.Order{}
	for _, o := range m.r.s.data.orders {
		o = m.r.s.data.joinOrder(o)
		if match(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m memOrders) ListByBuyer(ctx context.Context, buyerUID int64) ([]model.Order, error) {
	return m.list(func(o model.Order) bool { return o.BuyerUID == buyerUID }), nil
}

func (m memOrders) ListBySeller(ctx context.Context, sellerUID int64) ([]model.Order, error) {
	return m.list(func(o model.Order) bool { return o.SellerUID == sellerUID }), nil
}

type memReviews struct{ r memRepos }

func (m memReviews) Create(ctx context.Context, review *model.Review) error {
	defer m.r.enter()()
	if err := m.r.s.fail("reviews.create"); err != nil {
		return err
	}
	d := m.r.s.data
	for _, rv := range d.reviews {
		if rv.OrderID == review.OrderID {
			return domainErrors.ErrAlreadyExists
		}
	}
	review.ID = d.nextID()
	review.CreatedAt = m.r.s.now()
	d.reviews[review.ID] = *review
	return nil
}

func (m memReviews) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	_, err := m.GetByOrder(ctx, orderID)
	if err == nil {
		return true, nil
	}
	if err == domainErrors.ErrNotFound {
		return false, nil
	}
	return false, err
}

func (m memReviews) GetByOrder(ctx context.Context, orderID int64) (*model.Review, error) {
	defer m.r.enter()()
	for _, rv := range m.r.s.data.reviews {
		if rv.OrderID == orderID {
			return &rv, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (m memReviews) ListBySeller(ctx context.Context, sellerUID int64) ([]model.Review, error) {
	defer m.r.enter()()
	out := []model.Review{}
	for _, rv := range m.r.s.data.reviews {
		if rv.SellerUID == sellerUID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m memReviews) SellerSummary(ctx context.Context, sellerUID int64) (model.ReviewSummary, error) {
	reviews, err := m.ListBySeller(ctx, sellerUID)
	if err != nil || len(reviews) == 0 {
		return model.ReviewSummary{}, err
	}
	total := 0
	for _, rv := range reviews {
		total += rv.Rating
	}
	avg := float64(total) / float64(len(reviews))
	return model.ReviewSummary{Count: len(reviews), Average: math.Round(avg*100) / 100}, nil
}

type memConversations struct{ r memRepos }

func sameListing(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m memConversations) Find(ctx context.Context, userA, userB int64, listingID *int64) (*model.Conversation, error) {
	defer m.r.enter()()
	for _, c := range m.r.s.data.convs {
		if c.UserA == userA && c.UserB == userB && c.ArchivedListingID == nil && sameListing(c.ListingID, listingID) {
			return &c, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (m memConversations) Create(ctx context.Context, conv *model.Conversation) error {
	defer m.r.enter()()
	if err := m.r.s.fail("conversations.create"); err != nil {
		return err
	}
	d := m.r.s.data
	for _, c := range d.convs {
		if c.UserA == conv.UserA && c.UserB == conv.UserB && c.ArchivedListingID == nil && sameListing(c.ListingID, conv.ListingID) {
			return domainErrors.ErrAlreadyExists
		}
	}
	conv.ID = d.nextID()
	conv.CreatedAt = m.r.s.now()
	d.convs[conv.ID] = *conv
	return nil
}

func (m memConversations) Get(ctx context.Context, id int64) (*model.Conversation, error) {
	defer m.r.enter()()
	c, ok := m.r.s.data.convs[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &c, nil
}

func lastActivity(c model.Conversation) time.Time {
	if c.LastMessageAt != nil {
		return *c.LastMessageAt
	}
	return c.CreatedAt
}

func (m memConversations) ListByUser(ctx context.Context, uid int64) ([]model.Conversation, error) {
	defer m.r.enter()()
	out := []model.Conversation{}
	for _, c := range m.r.s.data.convs {
		if c.Has(uid) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := lastActivity(out[i]), lastActivity(out[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m memConversations) AddMessage(ctx context.Context, msg *model.Message) error {
	defer m.r.enter()()
	if err := m.r.s.fail("conversations.add_message"); err != nil {
		return err
	}
	d := m.r.s.data
	msg.ID = d.nextID()
	msg.CreatedAt = m.r.s.now()
	d.messages = append(d.messages, *msg)
	return nil
}

func (m memConversations) Touch(ctx context.Context, id int64, at time.Time) error {
	defer m.r.enter()()
	if err := m.r.s.fail("conversations.touch"); err != nil {
		return err
	}
	c, ok := m.r.s.data.convs[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	c.LastMessageAt = &at
	m.r.s.data.convs[id] = c
	return nil
}

func (m memConversations) ListMessages(ctx context.Context, conversationID int64) ([]model.Message, error) {
	defer m.r.enter()()
	out := []model.Message{}
	for _, msg := range m.r.s.data.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// Messages returns every stored message, for assertions.
func (s *MemoryStore) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.data.messages...)
}

// Conversation returns a copy of the stored conversation.
func (s *MemoryStore) Conversation(id int64) (model.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.convs[id]
	return c, ok
}
