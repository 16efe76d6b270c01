package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrConflict           = errors.New("username or email already registered")
	ErrNotFound           = errors.New("not found")
	ErrNotEligible        = errors.New("balance below withdrawal threshold")
	ErrLimitExceeded      = errors.New("amount exceeds withdrawal limit")
	ErrPersistenceFailure = errors.New("ledger could not be saved")
)

// errNoChange aborts an Update without saving; the caller treats it as success.
var errNoChange = errors.New("no change")

// update runs fn in the store's critical section and maps storage failures
// to ErrPersistenceFailure.
func update(ctx context.Context, st store.Store, fn func(domain.Ledger) error) error {
	err := st.Update(ctx, fn)
	switch {
	case err == nil, errors.Is(err, errNoChange):
		return nil
	case errors.Is(err, store.ErrPersistence), errors.Is(err, store.ErrClosed):
		return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	default:
		return err
	}
}

// load reads the ledger for read-only operations.
func load(ctx context.Context, st store.Store) (domain.Ledger, error) {
	l, err := st.Load(ctx)
	if errors.Is(err, store.ErrClosed) {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	return l, err
}
