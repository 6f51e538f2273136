package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"usedgoods-market/internal/domain"
)

type OfferService interface {
	SubmitOffer(ctx context.Context, buyerID, listingID int32, amount decimal.Decimal) (*domain.Offer, error)
	SetOfferStatus(ctx context.Context, actingUserID, offerID int32, status domain.OfferStatus) (*StatusResult, error)
	ListOffers(ctx context.Context, userID int32, received bool) ([]domain.OfferView, error)
}

type ListingService interface {
	CreateListing(ctx context.Context, sellerID int32, in NewListing) (*domain.Listing, error)
	GetListing(ctx context.Context, listingID int32) (*domain.Listing, error)
	ListListings(ctx context.Context, limit int32) ([]domain.Listing, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type SettlementService interface {
	CompleteTransaction(ctx context.Context, actingUserID, transactionID int32, target domain.TransactionStatus) (*domain.Transaction, error)
	FindTransactionsByOffer(ctx context.Context, offerID int32) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, userID, transactionID int32) (*domain.Transaction, error)
	ListStalled(ctx context.Context, olderThan time.Duration, limit int32) ([]domain.Transaction, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, reviewerID, transactionID, rating int32, comment string) (*domain.Review, error)
	ListReviews(ctx context.Context, userID int32) ([]domain.ReviewView, error)
}

type UserService interface {
	GetWallet(ctx context.Context, userID int32) (*domain.User, error)
}

// Notifier tells the parties of a sale what happened. Implementations must
// not block for long; failures are logged by the caller and never undo the sale.
type Notifier interface {
	OfferAccepted(ctx context.Context, seller, buyer *domain.User, listing *domain.Listing, offer *domain.Offer, transactionID int32) error
	TransactionCompleted(ctx context.Context, seller, buyer *domain.User, tx *domain.Transaction) error
}

// StatusResult is returned by SetOfferStatus. TransactionID and
// RejectedOfferIDs are only set when the offer was accepted.
type StatusResult struct {
	Offer            *domain.Offer
	TransactionID    *int32
	RejectedOfferIDs []int32
}

// NewListing is what a seller supplies when putting an item up for sale.
type NewListing struct {
	Title       string
	Description string
	Price       decimal.Decimal
	CategoryID  int32
	Condition   domain.ListingCondition
	Location    string
}
