package ports

import (
	"context"

	"wallet-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// WalletService defines the core wallet business logic.
//
// Deposit and Withdraw take the wallet identifier in its string form; the
// service resolves it before any storage access. Amounts are exact decimals,
// already parsed from their textual representation by the caller.
type WalletService interface {
	Create(ctx context.Context) (*domain.Wallet, error)
	Deposit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error)
	Withdraw(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error)
	Get(ctx context.Context, walletID string) (*domain.Wallet, error)
}
