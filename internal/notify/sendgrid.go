// Package notify delivers offer and settlement emails to both parties.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/logger"
)

type sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type SendGridNotifier struct {
	client    sender
	fromEmail string
	fromName  string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string) *SendGridNotifier {
	return &SendGridNotifier{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (n *SendGridNotifier) OfferAccepted(ctx context.Context, seller, buyer *domain.User, listing *domain.Listing, offer *domain.Offer, txID int32) error {
	return n.sendAll(ctx, offerAcceptedMessages(seller, buyer, listing, offer, txID))
}

func (n *SendGridNotifier) TransactionCompleted(ctx context.Context, seller, buyer *domain.User, tx *domain.Transaction) error {
	return n.sendAll(ctx, transactionCompletedMessages(seller, buyer, tx))
}

// sendAll attempts every message and reports all failures together.
func (n *SendGridNotifier) sendAll(ctx context.Context, msgs []Message) error {
	var errs []error
	for _, m := range msgs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.ToEmail == "" {
			continue
		}
		if err := n.send(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *SendGridNotifier) send(m Message) error {
	logger.ExternalServiceCall("sendgrid", "Send", "to", m.ToEmail, "subject", m.Subject)

	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail(m.ToName, m.ToEmail)
	message := mail.NewSingleEmail(from, m.Subject, to, m.PlainText, m.HTML)

	response, err := n.client.Send(message)
	if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return err
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "Send", nil, "status", response.StatusCode)
	return nil
}
