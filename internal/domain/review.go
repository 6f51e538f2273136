package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID            int32     `json:"review_id"`
	TransactionID int32     `json:"transaction_id"`
	ReviewerID    int32     `json:"reviewer_id"`
	ReviewedID    int32     `json:"reviewed_id"`
	Rating        int32     `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

type ReviewView struct {
	Review
	ReviewerName string `json:"reviewer_name"`
	ListingID    int32  `json:"listing_id"`
	ListingTitle string `json:"listing_title"`
}
