package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ListingCondition string

const (
	ListingConditionNew     ListingCondition = "New"
	ListingConditionLikeNew ListingCondition = "Like New"
	ListingConditionGood    ListingCondition = "Good"
	ListingConditionFair    ListingCondition = "Fair"
	ListingConditionPoor    ListingCondition = "Poor"
)

// Valid reports whether c is one of the five recognised conditions.
func (c ListingCondition) Valid() bool {
	switch c {
	case ListingConditionNew, ListingConditionLikeNew, ListingConditionGood, ListingConditionFair, ListingConditionPoor:
		return true
	}
	return false
}

type Category struct {
	ID          int32  `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Listing struct {
	ID          int32            `json:"listing_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	SellerID    int32            `json:"seller_id"`
	CategoryID  int32            `json:"category_id"`
	Condition   ListingCondition `json:"condition"`
	Location    string           `json:"location"`
	IsAvailable bool             `json:"is_available"`
	CreatedAt   time.Time        `json:"created_at"`
}
