package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports/mocks"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type walletTestDeps struct {
	svc        *WalletServiceImpl
	walletRepo *mocks.MockWalletRepository
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupWalletService(t *testing.T) *walletTestDeps {
	ctrl := gomock.NewController(t)
	d := &walletTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewWalletService(d.walletRepo, d.transactor, zerolog.Nop())
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func lockedWallet(id uuid.UUID, balance string) *domain.Wallet {
	return &domain.Wallet{
		ID:        id,
		Balance:   decimal.RequireFromString(balance),
		CreatedAt: time.Now().UTC(),
	}
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

// ==================== Create Tests ====================

func TestWalletService_Create_Success(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, w *domain.Wallet) error {
			assert.NotEqual(t, uuid.Nil, w.ID)
			assert.True(t, w.Balance.IsZero())
			assert.Equal(t, time.UTC, w.CreatedAt.Location())
			return nil
		})

	wallet, err := d.svc.Create(ctx)
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.Equal(t, "0.00", wallet.BalanceString())
}

func TestWalletService_Create_StorageFailure(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	cause := errors.New("connection refused")

	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).Return(cause)

	wallet, err := d.svc.Create(ctx)
	assert.Nil(t, wallet)
	assertAppError(t, err, "SYS_001")
	assert.True(t, errors.Is(err, cause), "cause must be preserved for diagnostics")
}

// ==================== Deposit Tests ====================

func TestWalletService_Deposit_Success(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}
	amount := decimal.RequireFromString("100.50")

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).
		Return(lockedWallet(walletID, "10.00"), nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Cond(func(b decimal.Decimal) bool {
		return b.Equal(decimal.RequireFromString("110.50"))
	})).Return(nil)

	wallet, err := d.svc.Deposit(ctx, walletID.String(), amount)
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.Equal(t, "110.50", wallet.BalanceString())
}

func TestWalletService_Deposit_InvalidAmount(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	// No repository or transactor expectations: validation failures must not
	// reach storage.
	for _, amount := range []string{"0", "-5.00", "-0.01"} {
		wallet, err := d.svc.Deposit(context.Background(), uuid.NewString(), decimal.RequireFromString(amount))
		assert.Nil(t, wallet)
		assertAppError(t, err, "WALLET_001")
	}
}

func TestWalletService_Deposit_InvalidWalletID(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	wallet, err := d.svc.Deposit(context.Background(), "not-a-valid-id", decimal.RequireFromString("10.00"))
	assert.Nil(t, wallet)
	assertAppError(t, err, "WALLET_002")
}

func TestWalletService_Deposit_NotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).Return(nil, nil)

	wallet, err := d.svc.Deposit(ctx, walletID.String(), decimal.RequireFromString("10.00"))
	assert.Nil(t, wallet)
	assertAppError(t, err, "WALLET_003")
}

func TestWalletService_Deposit_BeginFails(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.transactor.EXPECT().Begin(ctx).Return(nil, errors.New("pool exhausted"))

	wallet, err := d.svc.Deposit(ctx, uuid.NewString(), decimal.RequireFromString("10.00"))
	assert.Nil(t, wallet)
	assertAppError(t, err, "SYS_001")
}

func TestWalletService_Deposit_LockTimeoutPassesThrough(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).
		Return(nil, apperror.ErrLockTimeout(errors.New("lock timeout")))

	wallet, err := d.svc.Deposit(ctx, walletID.String(), decimal.RequireFromString("10.00"))
	assert.Nil(t, wallet)
	assertAppError(t, err, "SYS_002")
}

func TestWalletService_Deposit_CommitFails(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &failingCommitTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).
		Return(lockedWallet(walletID, "0.00"), nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Any()).Return(nil)

	wallet, err := d.svc.Deposit(ctx, walletID.String(), decimal.RequireFromString("10.00"))
	assert.Nil(t, wallet)
	assertAppError(t, err, "SYS_001")
}

type failingCommitTx struct{ pgx.Tx }

func (m *failingCommitTx) Rollback(_ context.Context) error { return nil }
func (m *failingCommitTx) Commit(_ context.Context) error   { return errors.New("commit failed") }

// ==================== Withdraw Tests ====================

func TestWalletService_Withdraw_Success(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}
	amount := decimal.RequireFromString("30.25")

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).
		Return(lockedWallet(walletID, "100.50"), nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Cond(func(b decimal.Decimal) bool {
		return b.Equal(decimal.RequireFromString("70.25"))
	})).Return(nil)

	wallet, err := d.svc.Withdraw(ctx, walletID.String(), amount)
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.Equal(t, "70.25", wallet.BalanceString())
}

func TestWalletService_Withdraw_ExactBalance(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).
		Return(lockedWallet(walletID, "50.00"), nil)
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, walletID, gomock.Cond(func(b decimal.Decimal) bool {
		return b.IsZero()
	})).Return(nil)

	wallet, err := d.svc.Withdraw(ctx, walletID.String(), decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	assert.Equal(t, "0.00", wallet.BalanceString())
}

func TestWalletService_Withdraw_InsufficientFunds(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByIDForUpdate(ctx, tx, walletID).
		Return(lockedWallet(walletID, "70.25"), nil)
	// No UpdateBalance expectation: the balance must stay untouched.

	wallet, err := d.svc.Withdraw(ctx, walletID.String(), decimal.RequireFromString("1000.00"))
	assert.Nil(t, wallet)
	assertAppError(t, err, "WALLET_004")
}

func TestWalletService_Withdraw_InvalidAmount(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	wallet, err := d.svc.Withdraw(context.Background(), uuid.NewString(), decimal.Zero)
	assert.Nil(t, wallet)
	assertAppError(t, err, "WALLET_001")
}

func TestWalletService_Withdraw_InvalidWalletID(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	wallet, err := d.svc.Withdraw(context.Background(), "12345", decimal.RequireFromString("1.00"))
	assert.Nil(t, wallet)
	assertAppError(t, err, "WALLET_002")
}

// ==================== Get Tests ====================

func TestWalletService_Get_Success(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).
		Return(lockedWallet(walletID, "70.25"), nil)

	wallet, err := d.svc.Get(ctx, walletID.String())
	require.NoError(t, err)
	assert.Equal(t, walletID, wallet.ID)
	assert.Equal(t, "70.25", wallet.BalanceString())
}

func TestWalletService_Get_InvalidWalletID(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	wallet, err := d.svc.Get(context.Background(), "not-a-valid-id")
	assert.Nil(t, wallet)
	assertAppError(t, err, "WALLET_002")
}

func TestWalletService_Get_NotFound(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(nil, nil)

	wallet, err := d.svc.Get(ctx, walletID.String())
	assert.Nil(t, wallet)
	assertAppError(t, err, "WALLET_003")
}

func TestWalletService_Get_StorageFailure(t *testing.T) {
	d := setupWalletService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(nil, errors.New("connection reset"))

	wallet, err := d.svc.Get(ctx, walletID.String())
	assert.Nil(t, wallet)
	assertAppError(t, err, "SYS_001")
}
