package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusCancelled TransactionStatus = "Cancelled"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusCancelled
}

type Transaction struct {
	ID        int32             `json:"transaction_id"`
	ListingID int32             `json:"listing_id"`
	SellerID  int32             `json:"seller_id"`
	BuyerID   int32             `json:"buyer_id"`
	OfferID   *int32            `json:"offer_id,omitempty"`
	Amount    decimal.Decimal   `json:"amount"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// IsParty reports whether userID is the buyer or the seller.
func (t *Transaction) IsParty(userID int32) bool {
	return t.BuyerID == userID || t.SellerID == userID
}

// Counterparty returns the other side of the transaction for userID.
func (t *Transaction) Counterparty(userID int32) int32 {
	if t.BuyerID == userID {
		return t.SellerID
	}
	return t.BuyerID
}
