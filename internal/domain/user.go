package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            int32           `json:"user_id"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	CreatedAt     time.Time       `json:"created_at"`
}
