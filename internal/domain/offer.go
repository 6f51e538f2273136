package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "Pending"
	OfferStatusAccepted  OfferStatus = "Accepted"
	OfferStatusRejected  OfferStatus = "Rejected"
	OfferStatusCompleted OfferStatus = "Completed"
)

type Offer struct {
	ID          int32           `json:"offer_id"`
	ListingID   int32           `json:"listing_id"`
	BuyerID     int32           `json:"buyer_id"`
	OfferAmount decimal.Decimal `json:"offer_amount"`
	Status      OfferStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	// SellerID is joined from the listing; it is not stored on the offer row.
	SellerID int32 `json:"seller_id"`
}

// OfferView is an offer as shown in a user's received or sent list.
type OfferView struct {
	Offer
	ListingTitle     string `json:"listing_title"`
	CounterpartyName string `json:"counterparty_name"`
}

// AcceptResult describes everything an accepted offer changed.
type AcceptResult struct {
	Offer            *Offer
	TransactionID    int32
	RejectedOfferIDs []int32
}
