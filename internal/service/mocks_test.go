package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"usedgoods-market/internal/domain"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepo) List(ctx context.Context, limit int32) ([]domain.Listing, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) Create(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}
func (m *MockOfferRepo) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) HasPending(ctx context.Context, listingID, buyerID int32) (bool, error) {
	args := m.Called(ctx, listingID, buyerID)
	return args.Bool(0), args.Error(1)
}
func (m *MockOfferRepo) ListReceived(ctx context.Context, sellerID int32) ([]domain.OfferView, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]domain.OfferView), args.Error(1)
}
func (m *MockOfferRepo) ListSent(ctx context.Context, buyerID int32) ([]domain.OfferView, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).([]domain.OfferView), args.Error(1)
}
func (m *MockOfferRepo) Reject(ctx context.Context, offerID int32) error {
	args := m.Called(ctx, offerID)
	return args.Error(0)
}
func (m *MockOfferRepo) Accept(ctx context.Context, offer *domain.Offer) (*domain.AcceptResult, error) {
	args := m.Called(ctx, offer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AcceptResult), args.Error(1)
}

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByOffer(ctx context.Context, offerID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) UpdateStatus(ctx context.Context, id int32, from, to domain.TransactionStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockTransactionRepo) Settle(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockTransactionRepo) ListStalled(ctx context.Context, cutoff time.Time, limit int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, cutoff, limit)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockReviewRepo) Exists(ctx context.Context, transactionID, reviewerID int32) (bool, error) {
	args := m.Called(ctx, transactionID, reviewerID)
	return args.Bool(0), args.Error(1)
}
func (m *MockReviewRepo) ListByReviewed(ctx context.Context, userID int32) ([]domain.ReviewView, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.ReviewView), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) OfferAccepted(ctx context.Context, seller, buyer *domain.User, listing *domain.Listing, offer *domain.Offer, transactionID int32) error {
	args := m.Called(ctx, seller, buyer, listing, offer, transactionID)
	return args.Error(0)
}
func (m *MockNotifier) TransactionCompleted(ctx context.Context, seller, buyer *domain.User, tx *domain.Transaction) error {
	args := m.Called(ctx, seller, buyer, tx)
	return args.Error(0)
}
