package dto

import (
	"time"

	"wallet-ledger/internal/core/domain"
)

// OperationRequest is the request body for a wallet deposit or withdrawal.
// Amount arrives as a decimal string (e.g. "100.50") and is parsed with
// exact decimal arithmetic; it never passes through binary floating point.
type OperationRequest struct {
	OperationType string `json:"operation_type" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
}

// WalletResponse is the response body for wallet state.
type WalletResponse struct {
	ID        string `json:"id"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
}

// FromWallet maps a domain wallet to its response shape.
func FromWallet(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:        w.ID.String(),
		Balance:   w.BalanceString(),
		CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339),
	}
}
