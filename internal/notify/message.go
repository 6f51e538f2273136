package notify

import (
	"fmt"
	"html"

	"usedgoods-market/internal/domain"
)

// Message is one rendered email.
type Message struct {
	ToEmail   string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

func offerAcceptedMessages(seller, buyer *domain.User, listing *domain.Listing, offer *domain.Offer, txID int32) []Message {
	amount := domain.FormatAmount(offer.OfferAmount)
	subject := fmt.Sprintf("Offer accepted: %s", listing.Title)
	return []Message{
		{
			ToEmail: buyer.Email,
			ToName:  buyer.Username,
			Subject: subject,
			PlainText: fmt.Sprintf("%s accepted your offer of %s for %s. Transaction #%d is pending completion.",
				seller.Username, amount, listing.Title, txID),
			HTML: fmt.Sprintf("<p><strong>%s</strong> accepted your offer of <strong>%s</strong> for %s.</p><p>Transaction #%d is pending completion.</p>",
				html.EscapeString(seller.Username), amount, html.EscapeString(listing.Title), txID),
		},
		{
			ToEmail: seller.Email,
			ToName:  seller.Username,
			Subject: subject,
			PlainText: fmt.Sprintf("You accepted %s's offer of %s for %s. Transaction #%d is pending completion.",
				buyer.Username, amount, listing.Title, txID),
			HTML: fmt.Sprintf("<p>You accepted <strong>%s</strong>'s offer of <strong>%s</strong> for %s.</p><p>Transaction #%d is pending completion.</p>",
				html.EscapeString(buyer.Username), amount, html.EscapeString(listing.Title), txID),
		},
	}
}

func transactionCompletedMessages(seller, buyer *domain.User, tx *domain.Transaction) []Message {
	amount := domain.FormatAmount(tx.Amount)
	subject := fmt.Sprintf("Transaction #%d completed", tx.ID)
	return []Message{
		{
			ToEmail:   buyer.Email,
			ToName:    buyer.Username,
			Subject:   subject,
			PlainText: fmt.Sprintf("%s was paid to %s. Your wallet balance is now %s.", amount, seller.Username, domain.FormatAmount(buyer.WalletBalance)),
			HTML: fmt.Sprintf("<p><strong>%s</strong> was paid to %s.</p><p>Your wallet balance is now %s.</p>",
				amount, html.EscapeString(seller.Username), domain.FormatAmount(buyer.WalletBalance)),
		},
		{
			ToEmail:   seller.Email,
			ToName:    seller.Username,
			Subject:   subject,
			PlainText: fmt.Sprintf("You received %s from %s. Your wallet balance is now %s.", amount, buyer.Username, domain.FormatAmount(seller.WalletBalance)),
			HTML: fmt.Sprintf("<p>You received <strong>%s</strong> from %s.</p><p>Your wallet balance is now %s.</p>",
				amount, html.EscapeString(buyer.Username), domain.FormatAmount(seller.WalletBalance)),
		},
	}
}
