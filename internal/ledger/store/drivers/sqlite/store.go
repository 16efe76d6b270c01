package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	_ "modernc.org/sqlite"
)

// documentName is the row holding the account map.
const documentName = "accounts"

// Store keeps the ledger as a single JSON document row.
type Store struct {
	db  *sql.DB
	dsn string

	// mu serialises Load, Save and Update; the transaction alone would let
	// two writers load the same revision.
	mu     sync.Mutex
	closed bool
}

var _ store.Store = (*Store)(nil)

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: the ledger is a single row and ":memory:" databases
	// are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return store.ErrClosed
	}
	return s.db.PingContext(ctx)
}

func (s *Store) Load(ctx context.Context) (domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	return load(ctx, s.db)
}

func (s *Store) Save(ctx context.Context, l domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return save(ctx, tx, l)
	})
}

func (s *Store) Update(ctx context.Context, fn func(l domain.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		l, err := load(ctx, tx)
		if err != nil {
			return err
		}
		if err := fn(l); err != nil {
			return err
		}
		return save(ctx, tx, l)
	})
}

// withTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", store.ErrPersistence, err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", store.ErrPersistence, err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func load(ctx context.Context, q queryer) (domain.Ledger, error) {
	var body string
	err := q.QueryRowContext(ctx,
		`SELECT body FROM ledger_documents WHERE name = ?`, documentName,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Ledger{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	l := domain.Ledger{}
	if err := json.Unmarshal([]byte(body), &l); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	return l, nil
}

func save(ctx context.Context, tx *sql.Tx, l domain.Ledger) error {
	body, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", store.ErrPersistence, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_documents (name, body, revision, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(name) DO UPDATE SET
			body = excluded.body,
			revision = ledger_documents.revision + 1,
			updated_at = excluded.updated_at`,
		documentName, string(body), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: write: %w", store.ErrPersistence, err)
	}
	return nil
}
