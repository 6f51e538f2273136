package repository

import (
	"context"
	"time"

	"usedgoods-market/internal/domain"
)

// Lookups that find nothing return an error wrapping domain.ErrNotFound.

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
}

type ListingRepository interface {
	// Create inserts an available listing and sets its id and created_at.
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int32) (*domain.Listing, error)
	// List returns available listings, newest first.
	List(ctx context.Context, limit int32) ([]domain.Listing, error)
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type OfferRepository interface {
	Create(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id int32) (*domain.Offer, error)
	HasPending(ctx context.Context, listingID, buyerID int32) (bool, error)
	ListReceived(ctx context.Context, sellerID int32) ([]domain.OfferView, error)
	ListSent(ctx context.Context, buyerID int32) ([]domain.OfferView, error)

	// Reject moves a Pending offer to Rejected. It fails with
	// domain.ErrInvalidOperation when the offer is no longer Pending.
	Reject(ctx context.Context, offerID int32) error

	// Accept applies the whole acceptance as one atomic unit: the offer becomes
	// Accepted, a Pending transaction for offer.OfferAmount is inserted, the
	// listing becomes unavailable and every other Pending offer on the listing
	// is rejected. Nothing is written when any step fails.
	Accept(ctx context.Context, offer *domain.Offer) (*domain.AcceptResult, error)
}

type TransactionRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Transaction, error)
	ListByOffer(ctx context.Context, offerID int32) ([]domain.Transaction, error)

	// UpdateStatus changes only the status column, and only while the row
	// still holds from. It fails with domain.ErrInvalidOperation otherwise.
	UpdateStatus(ctx context.Context, id int32, from, to domain.TransactionStatus) error

	// Settle debits the buyer, credits the seller and marks both the
	// transaction and its offer Completed in one atomic unit. It fails with
	// domain.ErrInsufficientFunds, domain.ErrInvalidOperation or
	// domain.ErrStoreFailure and leaves every row untouched in that case.
	Settle(ctx context.Context, tx *domain.Transaction) error

	// ListStalled returns Pending transactions linked to an Accepted offer
	// that were created before cutoff.
	ListStalled(ctx context.Context, cutoff time.Time, limit int32) ([]domain.Transaction, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Exists(ctx context.Context, transactionID, reviewerID int32) (bool, error)
	ListByReviewed(ctx context.Context, userID int32) ([]domain.ReviewView, error)
}
