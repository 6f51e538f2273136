package notify

import (
	"context"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
)

// LogNotifier writes notifications to the log. Used when no SendGrid key is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) OfferAccepted(ctx context.Context, seller, buyer *domain.User, listing *domain.Listing, offer *domain.Offer, txID int32) error {
	for _, m := range offerAcceptedMessages(seller, buyer, listing, offer, txID) {
		logger.InfoContext(ctx, "Notification", "to", m.ToEmail, "subject", m.Subject, "body", m.PlainText)
	}
	return nil
}

func (LogNotifier) TransactionCompleted(ctx context.Context, seller, buyer *domain.User, tx *domain.Transaction) error {
	for _, m := range transactionCompletedMessages(seller, buyer, tx) {
		logger.InfoContext(ctx, "Notification", "to", m.ToEmail, "subject", m.Subject, "body", m.PlainText)
	}
	return nil
}
