package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/repository"
)

const (
	maxTitleLen    = 100
	maxLocationLen = 100

	DefaultListingLimit int32 = 50
	MaxListingLimit     int32 = 100
)

type listingService struct {
	listingRepo  repository.ListingRepository
	categoryRepo repository.CategoryRepository
}

func NewListingService(listingRepo repository.ListingRepository, categoryRepo repository.CategoryRepository) ListingService {
	return &listingService{listingRepo: listingRepo, categoryRepo: categoryRepo}
}

// CreateListing puts an item up for sale as sellerID. The listing starts out available.
func (s *listingService) CreateListing(ctx context.Context, sellerID int32, in NewListing) (*domain.Listing, error) {
	logger.EnterMethod("listingService.CreateListing", "sellerID", sellerID, "categoryID", in.CategoryID, "price", in.Price.String())

	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title must be 1 to %d characters", domain.ErrInvalidOperation, maxTitleLen)
	}
	if len(in.Location) > maxLocationLen {
		return nil, fmt.Errorf("%w: location must be at most %d characters", domain.ErrInvalidOperation, maxLocationLen)
	}
	if err := domain.ValidateAmount(in.Price); err != nil {
		logger.ExitMethodWithError("listingService.CreateListing", err)
		return nil, err
	}
	if !in.Condition.Valid() {
		return nil, fmt.Errorf("%w: unknown condition %q", domain.ErrInvalidOperation, in.Condition)
	}

	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: category %d does not exist", domain.ErrInvalidOperation, in.CategoryID)
		}
		logger.ExitMethodWithError("listingService.CreateListing", err)
		return nil, err
	}

	listing := &domain.Listing{
		Title:       title,
		Description: in.Description,
		Price:       in.Price,
		SellerID:    sellerID,
		CategoryID:  in.CategoryID,
		Condition:   in.Condition,
		Location:    in.Location,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		logger.ExitMethodWithError("listingService.CreateListing", err)
		return nil, err
	}

	logger.ExitMethod("listingService.CreateListing", "listingID", listing.ID)
	return listing, nil
}

func (s *listingService) GetListing(ctx context.Context, listingID int32) (*domain.Listing, error) {
	return s.listingRepo.GetByID(ctx, listingID)
}

// ListListings returns the newest available listings. A limit outside
// 1..MaxListingLimit falls back to DefaultListingLimit.
func (s *listingService) ListListings(ctx context.Context, limit int32) ([]domain.Listing, error) {
	if limit <= 0 || limit > MaxListingLimit {
		limit = DefaultListingLimit
	}
	return s.listingRepo.List(ctx, limit)
}

func (s *listingService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}
