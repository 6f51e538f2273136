package http

import (
	"time"

	"usedgoods-market/internal/domain"
)

type ListingResponse struct {
	ListingID   int32  `json:"listing_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	SellerID    int32  `json:"seller_id"`
	CategoryID  int32  `json:"category_id"`
	Condition   string `json:"condition"`
	Location    string `json:"location"`
	IsAvailable bool   `json:"is_available"`
	CreatedAt   string `json:"created_at"`
}

type CategoryResponse struct {
	CategoryID  int32  `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type OfferResponse struct {
	OfferID          int32  `json:"offer_id"`
	ListingID        int32  `json:"listing_id"`
	BuyerID          int32  `json:"buyer_id"`
	SellerID         int32  `json:"seller_id"`
	OfferAmount      string `json:"offer_amount"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
	ListingTitle     string `json:"listing_title,omitempty"`
	CounterpartyName string `json:"counterparty_name,omitempty"`
}

type TransactionResponse struct {
	TransactionID int32  `json:"transaction_id"`
	ListingID     int32  `json:"listing_id"`
	SellerID      int32  `json:"seller_id"`
	BuyerID       int32  `json:"buyer_id"`
	OfferID       *int32 `json:"offer_id"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

type WalletResponse struct {
	UserID        int32  `json:"user_id"`
	Username      string `json:"username"`
	WalletBalance string `json:"wallet_balance"`
}

type ReviewResponse struct {
	ReviewID      int32  `json:"review_id"`
	TransactionID int32  `json:"transaction_id"`
	ReviewerID    int32  `json:"reviewer_id"`
	ReviewedID    int32  `json:"reviewed_id"`
	Rating        int32  `json:"rating"`
	Comment       string `json:"comment"`
	CreatedAt     string `json:"created_at"`
	ReviewerName  string `json:"reviewer_name,omitempty"`
	ListingID     int32  `json:"listing_id,omitempty"`
	ListingTitle  string `json:"listing_title,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func MapListingToResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ListingID:   l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       domain.FormatAmount(l.Price),
		SellerID:    l.SellerID,
		CategoryID:  l.CategoryID,
		Condition:   string(l.Condition),
		Location:    l.Location,
		IsAvailable: l.IsAvailable,
		CreatedAt:   formatTime(l.CreatedAt),
	}
}

func MapListingsToResponse(listings []domain.Listing) []ListingResponse {
	res := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		res = append(res, MapListingToResponse(&listings[i]))
	}
	return res
}

func MapCategoriesToResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, CategoryResponse{CategoryID: c.ID, Name: c.Name, Description: c.Description})
	}
	return res
}

func MapOfferToResponse(o *domain.Offer) OfferResponse {
	return OfferResponse{
		OfferID:     o.ID,
		ListingID:   o.ListingID,
		BuyerID:     o.BuyerID,
		SellerID:    o.SellerID,
		OfferAmount: domain.FormatAmount(o.OfferAmount),
		Status:      string(o.Status),
		CreatedAt:   formatTime(o.CreatedAt),
	}
}

func MapOfferViewsToResponse(views []domain.OfferView) []OfferResponse {
	res := make([]OfferResponse, 0, len(views))
	for i := range views {
		o := MapOfferToResponse(&views[i].Offer)
		o.ListingTitle = views[i].ListingTitle
		o.CounterpartyName = views[i].CounterpartyName
		res = append(res, o)
	}
	return res
}

func MapTransactionToResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.ID,
		ListingID:     t.ListingID,
		SellerID:      t.SellerID,
		BuyerID:       t.BuyerID,
		OfferID:       t.OfferID,
		Amount:        domain.FormatAmount(t.Amount),
		Status:        string(t.Status),
		CreatedAt:     formatTime(t.CreatedAt),
	}
}

func MapTransactionsToResponse(txs []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		res = append(res, MapTransactionToResponse(&txs[i]))
	}
	return res
}

func MapUserToWallet(u *domain.User) WalletResponse {
	return WalletResponse{
		UserID:        u.ID,
		Username:      u.Username,
		WalletBalance: domain.FormatAmount(u.WalletBalance),
	}
}

func MapReviewToResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ReviewID:      r.ID,
		TransactionID: r.TransactionID,
		ReviewerID:    r.ReviewerID,
		ReviewedID:    r.ReviewedID,
		Rating:        r.Rating,
		Comment:       r.Comment,
		CreatedAt:     formatTime(r.CreatedAt),
	}
}

func MapReviewViewsToResponse(views []domain.ReviewView) []ReviewResponse {
	res := make([]ReviewResponse, 0, len(views))
	for i := range views {
		r := MapReviewToResponse(&views[i].Review)
		r.ReviewerName = views[i].ReviewerName
		r.ListingID = views[i].ListingID
		r.ListingTitle = views[i].ListingTitle
		res = append(res, r)
	}
	return res
}
