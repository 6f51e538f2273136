package http_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/service"
)

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) CreateListing(ctx context.Context, sellerID int32, in service.NewListing) (*domain.Listing, error) {
	args := m.Called(ctx, sellerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) GetListing(ctx context.Context, listingID int32) (*domain.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) ListListings(ctx context.Context, limit int32) ([]domain.Listing, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Listing), args.Error(1)
}
func (m *MockListingService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) SubmitOffer(ctx context.Context, buyerID, listingID int32, amount decimal.Decimal) (*domain.Offer, error) {
	args := m.Called(ctx, buyerID, listingID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferService) SetOfferStatus(ctx context.Context, actingUserID, offerID int32, status domain.OfferStatus) (*service.StatusResult, error) {
	args := m.Called(ctx, actingUserID, offerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StatusResult), args.Error(1)
}
func (m *MockOfferService) ListOffers(ctx context.Context, userID int32, received bool) ([]domain.OfferView, error) {
	args := m.Called(ctx, userID, received)
	return args.Get(0).([]domain.OfferView), args.Error(1)
}

type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) CompleteTransaction(ctx context.Context, actingUserID, transactionID int32, target domain.TransactionStatus) (*domain.Transaction, error) {
	args := m.Called(ctx, actingUserID, transactionID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockSettlementService) FindTransactionsByOffer(ctx context.Context, offerID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockSettlementService) GetTransaction(ctx context.Context, userID, transactionID int32) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockSettlementService) ListStalled(ctx context.Context, olderThan time.Duration, limit int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, olderThan, limit)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, reviewerID, transactionID, rating int32, comment string) (*domain.Review, error) {
	args := m.Called(ctx, reviewerID, transactionID, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}
func (m *MockReviewService) ListReviews(ctx context.Context, userID int32) ([]domain.ReviewView, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.ReviewView), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetWallet(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}
