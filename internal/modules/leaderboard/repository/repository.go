package repository

import (
	"context"

	"anoa.com/dailyguessr/internal/entity"
)

// LedgerRepository persists the whole ledger at once.
//
// Load returns an empty ledger when nothing has been stored yet and an
// *apperror.StorageCorruptError when stored data cannot be parsed. Save
// returns an *apperror.StorageWriteError when the write did not complete.
type LedgerRepository interface {
	Load(ctx context.Context) (entity.Ledger, error)
	Save(ctx context.Context, ledger entity.Ledger) error
}
