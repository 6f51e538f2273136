// Package memory is an in-process implementation of the repository
// interfaces. Every multi-row operation holds the store lock for its whole
// duration, which gives it the same all-or-nothing visibility the postgres
// store gets from a database transaction.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/repository"
	"usedgoods-market/internal/seed"
)

type state struct {
	mu           sync.Mutex
	users        map[int32]domain.User
	categories   map[int32]domain.Category
	listings     map[int32]domain.Listing
	offers       map[int32]domain.Offer
	transactions map[int32]domain.Transaction
	reviews      map[int32]domain.Review
	seq          int32
	now          func() time.Time
}

func (s *state) nextID() int32 {
	s.seq++
	return s.seq
}

type Store struct {
	st *state
	repository.UserRepository
	repository.ListingRepository
	Categories repository.CategoryRepository
	repository.OfferRepository
	repository.TransactionRepository
	repository.ReviewRepository
}

func NewStore() *Store {
	st := &state{
		users:        map[int32]domain.User{},
		categories:   map[int32]domain.Category{},
		listings:     map[int32]domain.Listing{},
		offers:       map[int32]domain.Offer{},
		transactions: map[int32]domain.Transaction{},
		reviews:      map[int32]domain.Review{},
		now:          time.Now,
	}
	return &Store{
		st:                    st,
		UserRepository:        &userRepository{st},
		ListingRepository:     &listingRepository{st},
		Categories:            &categoryRepository{st},
		OfferRepository:       &offerRepository{st},
		TransactionRepository: &transactionRepository{st},
		ReviewRepository:      &reviewRepository{st},
	}
}

// SetClock replaces the clock used for created_at stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.now = now
}

// AddUser stores u and assigns its id.
func (s *Store) AddUser(u domain.User) domain.User {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	u.ID = s.st.nextID()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.st.now()
	}
	s.st.users[u.ID] = u
	return u
}

// AddCategory stores c and assigns its id.
func (s *Store) AddCategory(c domain.Category) domain.Category {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	c.ID = s.st.nextID()
	s.st.categories[c.ID] = c
	return c
}

// AddListing stores l and assigns its id.
func (s *Store) AddListing(l domain.Listing) domain.Listing {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	l.ID = s.st.nextID()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.st.now()
	}
	s.st.listings[l.ID] = l
	return l
}

// AddTransaction stores a transaction record directly, bypassing the offer flow.
func (s *Store) AddTransaction(t domain.Transaction) domain.Transaction {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	t.ID = s.st.nextID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.st.now()
	}
	s.st.transactions[t.ID] = t
	return t
}

// Seed fills the store with the built-in demo marketplace.
func (s *Store) Seed() {
	s.SeedWith(seed.Default())
}

// SeedWith loads data into the store.
func (s *Store) SeedWith(data *seed.Data) {
	userIDs := make(map[string]int32, len(data.Users))
	for _, u := range data.Users {
		added := s.AddUser(domain.User{Username: u.Username, Email: u.Email, WalletBalance: u.WalletBalance})
		userIDs[u.Username] = added.ID
	}
	categoryIDs := make(map[string]int32, len(data.Categories))
	for _, c := range data.Categories {
		added := s.AddCategory(domain.Category{Name: c.Name, Description: c.Description})
		categoryIDs[c.Name] = added.ID
	}
	for _, l := range data.Listings {
		s.AddListing(domain.Listing{
			Title:       l.Title,
			Description: l.Description,
			Price:       l.Price,
			SellerID:    userIDs[l.Seller],
			CategoryID:  categoryIDs[l.Category],
			Condition:   l.Condition,
			Location:    l.Location,
			IsAvailable: true,
		})
	}
}

type userRepository struct{ st *state }

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	u, ok := r.st.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return &u, nil
}

type listingRepository struct{ st *state }

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.users[l.SellerID]; !ok {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, l.SellerID)
	}
	if _, ok := r.st.categories[l.CategoryID]; !ok {
		return fmt.Errorf("%w: category %d", domain.ErrNotFound, l.CategoryID)
	}
	l.ID = r.st.nextID()
	l.IsAvailable = true
	l.CreatedAt = r.st.now()
	r.st.listings[l.ID] = *l
	return nil
}

func (r *listingRepository) List(ctx context.Context, limit int32) ([]domain.Listing, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	listings := []domain.Listing{}
	for _, l := range r.st.listings {
		if l.IsAvailable {
			listings = append(listings, l)
		}
	}
	sort.Slice(listings, func(i, j int) bool {
		if !listings[i].CreatedAt.Equal(listings[j].CreatedAt) {
			return listings[i].CreatedAt.After(listings[j].CreatedAt)
		}
		return listings[i].ID > listings[j].ID
	})
	if limit > 0 && int(limit) < len(listings) {
		listings = listings[:limit]
	}
	return listings, nil
}

func (r *listingRepository) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	l, ok := r.st.listings[id]
	if !ok {
		return nil, fmt.Errorf("%w: listing %d", domain.ErrNotFound, id)
	}
	return &l, nil
}

type categoryRepository struct{ st *state }

func (r *categoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c, ok := r.st.categories[id]
	if !ok {
		return nil, fmt.Errorf("%w: category %d", domain.ErrNotFound, id)
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	categories := make([]domain.Category, 0, len(r.st.categories))
	for _, c := range r.st.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

type offerRepository struct{ st *state }

func (r *offerRepository) Create(ctx context.Context, o *domain.Offer) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	l, ok := r.st.listings[o.ListingID]
	if !ok {
		return fmt.Errorf("%w: listing %d", domain.ErrNotFound, o.ListingID)
	}
	o.ID = r.st.nextID()
	o.Status = domain.OfferStatusPending
	o.CreatedAt = r.st.now()
	o.SellerID = l.SellerID
	r.st.offers[o.ID] = *o
	return nil
}

func (r *offerRepository) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	o, ok := r.st.offers[id]
	if !ok {
		return nil, fmt.Errorf("%w: offer %d", domain.ErrNotFound, id)
	}
	o.SellerID = r.st.listings[o.ListingID].SellerID
	return &o, nil
}

func (r *offerRepository) HasPending(ctx context.Context, listingID, buyerID int32) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, o := range r.st.offers {
		if o.ListingID == listingID && o.BuyerID == buyerID && o.Status == domain.OfferStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *offerRepository) ListReceived(ctx context.Context, sellerID int32) ([]domain.OfferView, error) {
	return r.listViews(func(o domain.Offer, l domain.Listing) (bool, int32) {
		return l.SellerID == sellerID, o.BuyerID
	}), nil
}

func (r *offerRepository) ListSent(ctx context.Context, buyerID int32) ([]domain.OfferView, error) {
	return r.listViews(func(o domain.Offer, l domain.Listing) (bool, int32) {
		return o.BuyerID == buyerID, l.SellerID
	}), nil
}

func (r *offerRepository) listViews(match func(domain.Offer, domain.Listing) (bool, int32)) []domain.OfferView {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	views := []domain.OfferView{}
	for _, o := range r.st.offers {
		l := r.st.listings[o.ListingID]
		ok, counterparty := match(o, l)
		if !ok {
			continue
		}
		o.SellerID = l.SellerID
		views = append(views, domain.OfferView{
			Offer:            o,
			ListingTitle:     l.Title,
			CounterpartyName: r.st.users[counterparty].Username,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].ID > views[j].ID
		}
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views
}

func (r *offerRepository) Reject(ctx context.Context, offerID int32) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	o, ok := r.st.offers[offerID]
	if !ok {
		return fmt.Errorf("%w: offer %d", domain.ErrNotFound, offerID)
	}
	if o.Status != domain.OfferStatusPending {
		return fmt.Errorf("%w: offer %d is not pending", domain.ErrInvalidOperation, offerID)
	}
	o.Status = domain.OfferStatusRejected
	r.st.offers[offerID] = o
	return nil
}

func (r *offerRepository) Accept(ctx context.Context, offer *domain.Offer) (*domain.AcceptResult, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	// Validate everything before the first write.
	l, ok := r.st.listings[offer.ListingID]
	if !ok {
		return nil, fmt.Errorf("%w: listing %d", domain.ErrNotFound, offer.ListingID)
	}
	if !l.IsAvailable {
		return nil, fmt.Errorf("%w: listing %d already has an accepted offer", domain.ErrConflict, offer.ListingID)
	}
	o, ok := r.st.offers[offer.ID]
	if !ok {
		return nil, fmt.Errorf("%w: offer %d", domain.ErrNotFound, offer.ID)
	}
	if o.Status != domain.OfferStatusPending {
		return nil, fmt.Errorf("%w: offer %d is not pending", domain.ErrInvalidOperation, offer.ID)
	}

	o.Status = domain.OfferStatusAccepted
	r.st.offers[o.ID] = o

	offerID := o.ID
	t := domain.Transaction{
		ID:        r.st.nextID(),
		ListingID: l.ID,
		SellerID:  l.SellerID,
		BuyerID:   o.BuyerID,
		OfferID:   &offerID,
		Amount:    o.OfferAmount,
		Status:    domain.TransactionStatusPending,
		CreatedAt: r.st.now(),
	}
	r.st.transactions[t.ID] = t

	l.IsAvailable = false
	r.st.listings[l.ID] = l

	result := &domain.AcceptResult{TransactionID: t.ID, RejectedOfferIDs: []int32{}}
	for id, sibling := range r.st.offers {
		if sibling.ListingID == l.ID && id != o.ID && sibling.Status == domain.OfferStatusPending {
			sibling.Status = domain.OfferStatusRejected
			r.st.offers[id] = sibling
			result.RejectedOfferIDs = append(result.RejectedOfferIDs, id)
		}
	}
	sort.Slice(result.RejectedOfferIDs, func(i, j int) bool { return result.RejectedOfferIDs[i] < result.RejectedOfferIDs[j] })

	offer.Status = domain.OfferStatusAccepted
	offer.SellerID = l.SellerID
	result.Offer = offer
	return result, nil
}

type transactionRepository struct{ st *state }

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	t, ok := r.st.transactions[id]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %d", domain.ErrNotFound, id)
	}
	return &t, nil
}

func (r *transactionRepository) ListByOffer(ctx context.Context, offerID int32) ([]domain.Transaction, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	txs := []domain.Transaction{}
	for _, t := range r.st.transactions {
		if t.OfferID != nil && *t.OfferID == offerID {
			txs = append(txs, t)
		}
	}
	return txs, nil
}

func (r *transactionRepository) ListStalled(ctx context.Context, cutoff time.Time, limit int32) ([]domain.Transaction, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	txs := []domain.Transaction{}
	for _, t := range r.st.transactions {
		if t.Status != domain.TransactionStatusPending || t.OfferID == nil || !t.CreatedAt.Before(cutoff) {
			continue
		}
		if r.st.offers[*t.OfferID].Status != domain.OfferStatusAccepted {
			continue
		}
		txs = append(txs, t)
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].CreatedAt.Before(txs[j].CreatedAt) })
	if limit > 0 && int32(len(txs)) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.TransactionStatus) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	t, ok := r.st.transactions[id]
	if !ok {
		return fmt.Errorf("%w: transaction %d", domain.ErrNotFound, id)
	}
	if t.Status != from {
		return fmt.Errorf("%w: transaction %d is no longer %s", domain.ErrInvalidOperation, id, from)
	}
	t.Status = to
	r.st.transactions[id] = t
	return nil
}

func (r *transactionRepository) Settle(ctx context.Context, tx *domain.Transaction) error {
	if tx.OfferID == nil {
		return fmt.Errorf("%w: transaction %d has no linked offer", domain.ErrInvalidOperation, tx.ID)
	}

	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	t, ok := r.st.transactions[tx.ID]
	if !ok {
		return fmt.Errorf("%w: transaction %d", domain.ErrNotFound, tx.ID)
	}
	if t.Status != domain.TransactionStatusPending {
		return fmt.Errorf("%w: transaction %d is no longer pending", domain.ErrInvalidOperation, tx.ID)
	}
	buyer, ok := r.st.users[t.BuyerID]
	if !ok {
		return fmt.Errorf("%w: buyer %d", domain.ErrNotFound, t.BuyerID)
	}
	seller, ok := r.st.users[t.SellerID]
	if !ok {
		return fmt.Errorf("%w: seller %d", domain.ErrNotFound, t.SellerID)
	}
	if buyer.WalletBalance.LessThan(t.Amount) {
		return fmt.Errorf("%w: buyer %d has %s, needs %s", domain.ErrInsufficientFunds,
			t.BuyerID, domain.FormatAmount(buyer.WalletBalance), domain.FormatAmount(t.Amount))
	}

	buyer.WalletBalance = buyer.WalletBalance.Sub(t.Amount)
	seller.WalletBalance = seller.WalletBalance.Add(t.Amount)
	r.st.users[buyer.ID] = buyer
	r.st.users[seller.ID] = seller

	t.Status = domain.TransactionStatusCompleted
	r.st.transactions[t.ID] = t

	if o, ok := r.st.offers[*t.OfferID]; ok {
		o.Status = domain.OfferStatusCompleted
		r.st.offers[o.ID] = o
	}

	tx.Status = domain.TransactionStatusCompleted
	return nil
}

type reviewRepository struct{ st *state }

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, existing := range r.st.reviews {
		if existing.TransactionID == rv.TransactionID && existing.ReviewerID == rv.ReviewerID {
			return fmt.Errorf("%w: transaction %d already reviewed by user %d", domain.ErrConflict, rv.TransactionID, rv.ReviewerID)
		}
	}
	rv.ID = r.st.nextID()
	rv.CreatedAt = r.st.now()
	r.st.reviews[rv.ID] = *rv
	return nil
}

func (r *reviewRepository) Exists(ctx context.Context, transactionID, reviewerID int32) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, existing := range r.st.reviews {
		if existing.TransactionID == transactionID && existing.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *reviewRepository) ListByReviewed(ctx context.Context, userID int32) ([]domain.ReviewView, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	views := []domain.ReviewView{}
	for _, rv := range r.st.reviews {
		if rv.ReviewedID != userID {
			continue
		}
		t := r.st.transactions[rv.TransactionID]
		views = append(views, domain.ReviewView{
			Review:       rv,
			ReviewerName: r.st.users[rv.ReviewerID].Username,
			ListingID:    t.ListingID,
			ListingTitle: r.st.listings[t.ListingID].Title,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID > views[j].ID })
	return views, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}
