// Package integration exercises the full request path against an in-memory
// store double whose transactions take real per-row locks, mirroring the
// blocking behaviour of SELECT ... FOR UPDATE.
package integration

import (
	"context"
	"fmt"
	"sync"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// walletRecord is one stored row. Its mutex is the row lock: acquired by
// GetByIDForUpdate, released when the owning transaction ends.
type walletRecord struct {
	mu     sync.Mutex
	wallet domain.Wallet
}

// memStore implements ports.WalletRepository over a map of records.
type memStore struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*walletRecord
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[uuid.UUID]*walletRecord)}
}

func (s *memStore) Create(_ context.Context, wallet *domain.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[wallet.ID]; ok {
		return fmt.Errorf("wallet already exists: %s", wallet.ID)
	}
	s.rows[wallet.ID] = &walletRecord{wallet: *wallet}
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Wallet, error) {
	s.mu.RLock()
	rec, ok := s.rows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	rec.mu.Lock()
	w := rec.wallet
	rec.mu.Unlock()
	return &w, nil
}

func (s *memStore) GetByIDForUpdate(_ context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	mtx, ok := tx.(*memTx)
	if !ok {
		return nil, fmt.Errorf("unexpected tx type %T", tx)
	}

	s.mu.RLock()
	rec, ok := s.rows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	// Row lock: blocks while another transaction holds the record.
	rec.mu.Lock()
	mtx.locked = append(mtx.locked, rec)

	w := rec.wallet
	return &w, nil
}

func (s *memStore) UpdateBalance(_ context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	mtx, ok := tx.(*memTx)
	if !ok {
		return fmt.Errorf("unexpected tx type %T", tx)
	}

	for _, rec := range mtx.locked {
		if rec.wallet.ID == walletID {
			mtx.pending[walletID] = balance
			return nil
		}
	}
	return fmt.Errorf("wallet not locked by transaction: %s", walletID)
}

// memTransactor implements ports.DBTransactor for the in-memory store.
type memTransactor struct {
	store *memStore
}

func (t *memTransactor) Begin(_ context.Context) (pgx.Tx, error) {
	return &memTx{
		store:   t.store,
		pending: make(map[uuid.UUID]decimal.Decimal),
	}, nil
}

// memTx satisfies pgx.Tx for the in-memory store. Balance writes are staged
// in pending and applied on Commit; the row locks taken through this
// transaction are released when it ends either way. Only Commit and
// Rollback are implemented; the embedded nil pgx.Tx panics on anything else.
type memTx struct {
	pgx.Tx

	store   *memStore
	locked  []*walletRecord
	pending map[uuid.UUID]decimal.Decimal
	done    bool
}

func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true

	for _, rec := range t.locked {
		if balance, ok := t.pending[rec.wallet.ID]; ok {
			rec.wallet.Balance = balance
		}
		rec.mu.Unlock()
	}
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true

	for _, rec := range t.locked {
		rec.mu.Unlock()
	}
	return nil
}
