package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
)

var (
	ErrNotFound    = errors.New("store: not found")
	ErrPersistence = errors.New("store: persistence failed")
	ErrClosed      = errors.New("store: closed")
)

// Store persists the whole ledger as one document. Concrete drivers (sqlite,
// jsonfile) implement this.
type Store interface {
	// Load returns the current durable ledger. An absent document is an
	// empty ledger, not an error.
	Load(ctx context.Context) (domain.Ledger, error)

	// Save replaces the whole document. Failures wrap ErrPersistence.
	Save(ctx context.Context, l domain.Ledger) error

	// Update runs load → fn → save as one critical section with respect to
	// every other Update on the same store. If fn returns an error nothing
	// is saved and the error is returned unchanged. If the save fails the
	// mutation is lost and the error wraps ErrPersistence.
	Update(ctx context.Context, fn func(l domain.Ledger) error) error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}
