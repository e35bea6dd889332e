package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a non-negative decimal balance under a unique identifier.
// Balance uses exact decimal arithmetic with 2 fractional digits; binary
// floating point is never involved.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewWallet creates a wallet with a fresh identifier and zero balance.
func NewWallet() *Wallet {
	return &Wallet{
		ID:        uuid.New(),
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
}

// BalanceString renders the balance with exactly 2 fractional digits.
func (w *Wallet) BalanceString() string {
	return w.Balance.StringFixed(2)
}
