package service

import (
	"context"
	"fmt"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/repository"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	txRepo     repository.TransactionRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, txRepo repository.TransactionRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, txRepo: txRepo}
}

func (s *reviewService) CreateReview(ctx context.Context, reviewerID, transactionID, rating int32, comment string) (*domain.Review, error) {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrInvalidOperation, domain.MinRating, domain.MaxRating)
	}

	tx, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !tx.IsParty(reviewerID) {
		return nil, fmt.Errorf("%w: user %d is not a party to transaction %d", domain.ErrForbidden, reviewerID, transactionID)
	}
	if tx.Status != domain.TransactionStatusCompleted {
		return nil, fmt.Errorf("%w: only completed transactions can be reviewed", domain.ErrInvalidOperation)
	}

	exists, err := s.reviewRepo.Exists(ctx, transactionID, reviewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: transaction %d already reviewed", domain.ErrConflict, transactionID)
	}

	review := &domain.Review{
		TransactionID: transactionID,
		ReviewerID:    reviewerID,
		ReviewedID:    tx.Counterparty(reviewerID),
		Rating:        rating,
		Comment:       comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, userID int32) ([]domain.ReviewView, error) {
	return s.reviewRepo.ListByReviewed(ctx, userID)
}
