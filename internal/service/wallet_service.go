package service

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// WalletServiceImpl implements ports.WalletService.
//
// Each operation is a single-shot validate -> locked-mutate -> commit
// sequence. Domain errors (invalid amount, invalid id, not found,
// insufficient funds) pass through unchanged; everything else is normalized
// to a storage error with the cause kept for logging only.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(walletRepo ports.WalletRepository, transactor ports.DBTransactor, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		transactor: transactor,
		log:        log,
	}
}

// Create allocates a new wallet with zero balance.
func (s *WalletServiceImpl) Create(ctx context.Context) (*domain.Wallet, error) {
	wallet := domain.NewWallet()

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		s.log.Error().Err(err).Msg("wallet creation failed")
		return nil, storageError(err, "create wallet")
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Msg("wallet created")

	return wallet, nil
}

// Deposit adds a positive amount to the wallet balance under a row lock.
func (s *WalletServiceImpl) Deposit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	id, err := uuid.Parse(walletID)
	if err != nil {
		return nil, apperror.ErrInvalidWalletID()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, storageError(err, "begin tx")
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get wallet; the lock is held across the full read-modify-write
	// span so concurrent deltas serialize instead of losing updates.
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, storageError(err, "lock wallet")
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	newBalance := wallet.Balance.Add(amount)

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, storageError(err, "update balance")
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, storageError(err, "commit tx")
	}

	wallet.Balance = newBalance

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("amount", amount.StringFixed(2)).
		Str("balance", wallet.BalanceString()).
		Msg("deposit applied")

	return wallet, nil
}

// Withdraw subtracts a positive amount from the wallet balance under a row
// lock. The balance may never go negative; the insufficient-funds check runs
// against the locked row, and the deferred rollback releases the lock before
// the failure is returned.
func (s *WalletServiceImpl) Withdraw(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	id, err := uuid.Parse(walletID)
	if err != nil {
		return nil, apperror.ErrInvalidWalletID()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, storageError(err, "begin tx")
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, storageError(err, "lock wallet")
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	if wallet.Balance.LessThan(amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	newBalance := wallet.Balance.Sub(amount)

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, storageError(err, "update balance")
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, storageError(err, "commit tx")
	}

	wallet.Balance = newBalance

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("amount", amount.StringFixed(2)).
		Str("balance", wallet.BalanceString()).
		Msg("withdrawal applied")

	return wallet, nil
}

// Get returns the wallet via a non-locking read. The returned balance is
// read-committed: it may change immediately after return.
func (s *WalletServiceImpl) Get(ctx context.Context, walletID string) (*domain.Wallet, error) {
	id, err := uuid.Parse(walletID)
	if err != nil {
		return nil, apperror.ErrInvalidWalletID()
	}

	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "get wallet")
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	return wallet, nil
}

// storageError normalizes unexpected failures to a storage error. AppErrors
// produced closer to the point of detection (e.g. lock timeouts) pass
// through untouched.
func storageError(err error, op string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.ErrDatabaseError(fmt.Errorf("%s: %w", op, err))
}
