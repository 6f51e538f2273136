package service

import (
	"context"
	"fmt"
	"time"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/repository"
)

type settlementService struct {
	txRepo   repository.TransactionRepository
	userRepo repository.UserRepository
	notifier Notifier
	now      func() time.Time
}

func NewSettlementService(
	txRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) SettlementService {
	return &settlementService{
		txRepo:   txRepo,
		userRepo: userRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *settlementService) CompleteTransaction(ctx context.Context, actingUserID, transactionID int32, target domain.TransactionStatus) (*domain.Transaction, error) {
	logger.EnterMethod("settlementService.CompleteTransaction", "userID", actingUserID, "transactionID", transactionID, "target", target)

	if target != domain.TransactionStatusCompleted && target != domain.TransactionStatusCancelled {
		return nil, fmt.Errorf("%w: transaction status must be %s or %s", domain.ErrInvalidOperation,
			domain.TransactionStatusCompleted, domain.TransactionStatusCancelled)
	}

	tx, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		logger.ExitMethodWithError("settlementService.CompleteTransaction", err, "transactionID", transactionID)
		return nil, err
	}
	if !tx.IsParty(actingUserID) {
		return nil, fmt.Errorf("%w: user %d is not a party to transaction %d", domain.ErrForbidden, actingUserID, transactionID)
	}
	if tx.Status == domain.TransactionStatusCompleted {
		return nil, fmt.Errorf("%w: transaction %d is already completed", domain.ErrInvalidOperation, transactionID)
	}
	if tx.Status == target {
		return nil, fmt.Errorf("%w: transaction %d is already %s", domain.ErrInvalidOperation, transactionID, target)
	}
	if tx.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: transaction %d is %s", domain.ErrInvalidOperation, transactionID, tx.Status)
	}

	if target == domain.TransactionStatusCompleted && tx.OfferID != nil {
		if err := s.txRepo.Settle(ctx, tx); err != nil {
			logger.ExitMethodWithError("settlementService.CompleteTransaction", err, "transactionID", transactionID)
			return nil, err
		}
	} else {
		if err := s.txRepo.UpdateStatus(ctx, tx.ID, tx.Status, target); err != nil {
			logger.ExitMethodWithError("settlementService.CompleteTransaction", err, "transactionID", transactionID)
			return nil, err
		}
		tx.Status = target
	}

	if tx.Status == domain.TransactionStatusCompleted {
		s.notifyCompleted(ctx, tx)
	}

	logger.ExitMethod("settlementService.CompleteTransaction", "transactionID", transactionID, "status", tx.Status)
	return tx, nil
}

func (s *settlementService) notifyCompleted(ctx context.Context, tx *domain.Transaction) {
	seller, err := s.userRepo.GetByID(ctx, tx.SellerID)
	if err != nil {
		logger.WarnContext(ctx, "Skipping completion notification", "transactionID", tx.ID, "error", err)
		return
	}
	buyer, err := s.userRepo.GetByID(ctx, tx.BuyerID)
	if err != nil {
		logger.WarnContext(ctx, "Skipping completion notification", "transactionID", tx.ID, "error", err)
		return
	}
	if err := s.notifier.TransactionCompleted(ctx, seller, buyer, tx); err != nil {
		logger.WarnContext(ctx, "Completion notification failed", "transactionID", tx.ID, "error", err)
	}
}

func (s *settlementService) FindTransactionsByOffer(ctx context.Context, offerID int32) ([]domain.Transaction, error) {
	return s.txRepo.ListByOffer(ctx, offerID)
}

func (s *settlementService) GetTransaction(ctx context.Context, userID, transactionID int32) (*domain.Transaction, error) {
	tx, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !tx.IsParty(userID) {
		return nil, fmt.Errorf("%w: user %d is not a party to transaction %d", domain.ErrForbidden, userID, transactionID)
	}
	return tx, nil
}

func (s *settlementService) ListStalled(ctx context.Context, olderThan time.Duration, limit int32) ([]domain.Transaction, error) {
	return s.txRepo.ListStalled(ctx, s.now().Add(-olderThan), limit)
}
