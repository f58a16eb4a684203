package repository

import (
	"context"
	"sync"

	"anoa.com/dailyguessr/internal/entity"
	"anoa.com/dailyguessr/pkg/apperror"
)

// MemoryLedgerRepository keeps the ledger in process memory. It backs tests
// and the "memory" storage driver.
type MemoryLedgerRepository struct {
	mu      sync.Mutex
	ledger  entity.Ledger
	loadErr error
	saveErr error
	saves   int
}

func NewMemoryLedgerRepository(initial entity.Ledger) *MemoryLedgerRepository {
	return &MemoryLedgerRepository{ledger: initial}
}

func (r *MemoryLedgerRepository) Load(ctx context.Context) (entity.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadErr != nil {
		return entity.Ledger{}, r.loadErr
	}
	return r.ledger, nil
}

func (r *MemoryLedgerRepository) Save(ctx context.Context, ledger entity.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return &apperror.StorageWriteError{Source: "memory", Err: r.saveErr}
	}
	r.ledger = ledger
	r.saves++
	return nil
}

// FailLoads makes every following Load return err. nil restores normal loads.
func (r *MemoryLedgerRepository) FailLoads(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadErr = err
}

// FailSaves makes every following Save fail with err wrapped in a
// StorageWriteError. nil restores normal saves.
func (r *MemoryLedgerRepository) FailSaves(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}

// Stored returns the last successfully saved ledger.
func (r *MemoryLedgerRepository) Stored() entity.Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger
}

func (r *MemoryLedgerRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
