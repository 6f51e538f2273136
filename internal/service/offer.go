package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/repository"
)

type offerService struct {
	offerRepo   repository.OfferRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	notifier    Notifier
}

func NewOfferService(
	offerRepo repository.OfferRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) OfferService {
	return &offerService{
		offerRepo:   offerRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

func (s *offerService) SubmitOffer(ctx context.Context, buyerID, listingID int32, amount decimal.Decimal) (*domain.Offer, error) {
	logger.EnterMethod("offerService.SubmitOffer", "buyerID", buyerID, "listingID", listingID, "amount", amount.String())

	if err := domain.ValidateAmount(amount); err != nil {
		logger.ExitMethodWithError("offerService.SubmitOffer", err)
		return nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		logger.ExitMethodWithError("offerService.SubmitOffer", err, "listingID", listingID)
		return nil, err
	}
	if !listing.IsAvailable {
		return nil, fmt.Errorf("%w: listing %d is no longer available", domain.ErrNotFound, listingID)
	}
	if listing.SellerID == buyerID {
		return nil, fmt.Errorf("%w: cannot make an offer on your own listing", domain.ErrInvalidOperation)
	}

	pending, err := s.offerRepo.HasPending(ctx, listingID, buyerID)
	if err != nil {
		logger.ExitMethodWithError("offerService.SubmitOffer", err, "listingID", listingID)
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("%w: you already have a pending offer on listing %d", domain.ErrConflict, listingID)
	}

	offer := &domain.Offer{
		ListingID:   listingID,
		BuyerID:     buyerID,
		SellerID:    listing.SellerID,
		OfferAmount: amount,
		Status:      domain.OfferStatusPending,
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		logger.ExitMethodWithError("offerService.SubmitOffer", err, "listingID", listingID)
		return nil, err
	}

	logger.ExitMethod("offerService.SubmitOffer", "offerID", offer.ID)
	return offer, nil
}

func (s *offerService) SetOfferStatus(ctx context.Context, actingUserID, offerID int32, status domain.OfferStatus) (*StatusResult, error) {
	logger.EnterMethod("offerService.SetOfferStatus", "userID", actingUserID, "offerID", offerID, "status", status)

	if status != domain.OfferStatusAccepted && status != domain.OfferStatusRejected {
		return nil, fmt.Errorf("%w: offer status must be %s or %s", domain.ErrInvalidOperation,
			domain.OfferStatusAccepted, domain.OfferStatusRejected)
	}

	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		logger.ExitMethodWithError("offerService.SetOfferStatus", err, "offerID", offerID)
		return nil, err
	}
	if offer.SellerID != actingUserID {
		return nil, fmt.Errorf("%w: only the seller can respond to offer %d", domain.ErrForbidden, offerID)
	}
	if offer.Status != domain.OfferStatusPending {
		return nil, fmt.Errorf("%w: offer %d is %s", domain.ErrInvalidOperation, offerID, offer.Status)
	}

	if status == domain.OfferStatusRejected {
		if err := s.offerRepo.Reject(ctx, offerID); err != nil {
			logger.ExitMethodWithError("offerService.SetOfferStatus", err, "offerID", offerID)
			return nil, err
		}
		offer.Status = domain.OfferStatusRejected
		logger.ExitMethod("offerService.SetOfferStatus", "offerID", offerID, "status", offer.Status)
		return &StatusResult{Offer: offer}, nil
	}

	accepted, err := s.offerRepo.Accept(ctx, offer)
	if err != nil {
		logger.ExitMethodWithError("offerService.SetOfferStatus", err, "offerID", offerID)
		return nil, err
	}

	s.notifyAccepted(ctx, offer, accepted.TransactionID)

	txID := accepted.TransactionID
	logger.ExitMethod("offerService.SetOfferStatus", "offerID", offerID, "transactionID", txID,
		"rejectedOffers", len(accepted.RejectedOfferIDs))
	return &StatusResult{
		Offer:            accepted.Offer,
		TransactionID:    &txID,
		RejectedOfferIDs: accepted.RejectedOfferIDs,
	}, nil
}

func (s *offerService) notifyAccepted(ctx context.Context, offer *domain.Offer, txID int32) {
	seller, err := s.userRepo.GetByID(ctx, offer.SellerID)
	if err != nil {
		logger.WarnContext(ctx, "Skipping acceptance notification", "offerID", offer.ID, "error", err)
		return
	}
	buyer, err := s.userRepo.GetByID(ctx, offer.BuyerID)
	if err != nil {
		logger.WarnContext(ctx, "Skipping acceptance notification", "offerID", offer.ID, "error", err)
		return
	}
	listing, err := s.listingRepo.GetByID(ctx, offer.ListingID)
	if err != nil {
		logger.WarnContext(ctx, "Skipping acceptance notification", "offerID", offer.ID, "error", err)
		return
	}
	if err := s.notifier.OfferAccepted(ctx, seller, buyer, listing, offer, txID); err != nil {
		logger.WarnContext(ctx, "Acceptance notification failed", "offerID", offer.ID, "error", err)
	}
}

func (s *offerService) ListOffers(ctx context.Context, userID int32, received bool) ([]domain.OfferView, error) {
	if received {
		return s.offerRepo.ListReceived(ctx, userID)
	}
	return s.offerRepo.ListSent(ctx, userID)
}
