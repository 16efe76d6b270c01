// Package storetest holds the behaviour every store driver must share.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Run exercises a driver. newStore must return an empty, open store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("empty load", func(t *testing.T) {
		s := newStore(t)
		l, err := s.Load(t.Context())
		require.NoError(t, err)
		require.NotNil(t, l)
		require.Empty(t, l)
	})

	t.Run("save and load", func(t *testing.T) {
		s := newStore(t)
		resolved := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		in := domain.Ledger{
			"01A": {
				ID:             "01A",
				Username:       "alice",
				Email:          "alice@example.com",
				CredentialHash: "$argon2id$...",
				Balance:        decimal.RequireFromString("0.06"),
				TaskBalance:    decimal.RequireFromString("0.01"),
				Invites:        1,
				PayoutAddress:  "EQ-alice",
				Withdrawals: []domain.Withdrawal{
					{ID: "W1", Amount: decimal.RequireFromString("0.3"), Status: domain.WithdrawalApproved, RequestedAt: resolved.Add(-time.Hour), ResolvedAt: &resolved},
					{ID: "W2", Amount: decimal.RequireFromString("0.1"), Status: domain.WithdrawalPending, RequestedAt: resolved},
				},
				CreatedAt: resolved.Add(-24 * time.Hour),
			},
		}
		require.NoError(t, s.Save(t.Context(), in))

		out, err := s.Load(t.Context())
		require.NoError(t, err)
		require.Len(t, out, 1)

		a := out["01A"]
		require.Equal(t, "alice", a.Username)
		require.True(t, a.Balance.Equal(decimal.RequireFromString("0.06")))
		require.True(t, a.TaskBalance.Equal(decimal.RequireFromString("0.01")))
		require.Equal(t, 1, a.Invites)
		require.Len(t, a.Withdrawals, 2)
		require.Equal(t, domain.WithdrawalApproved, a.Withdrawals[0].Status)
		require.NotNil(t, a.Withdrawals[0].ResolvedAt)
		require.True(t, resolved.Equal(*a.Withdrawals[0].ResolvedAt))
		require.Equal(t, "W2", a.Withdrawals[1].ID)
	})

	t.Run("update persists", func(t *testing.T) {
		s := newStore(t)
		err := s.Update(t.Context(), func(l domain.Ledger) error {
			l["x"] = &domain.Account{ID: "x", Username: "x", Balance: decimal.RequireFromString("0.05")}
			return nil
		})
		require.NoError(t, err)

		l, err := s.Load(t.Context())
		require.NoError(t, err)
		require.Contains(t, l, "x")
	})

	t.Run("update error discards mutation", func(t *testing.T) {
		s := newStore(t)
		boom := errors.New("boom")
		err := s.Update(t.Context(), func(l domain.Ledger) error {
			l["x"] = &domain.Account{ID: "x"}
			return boom
		})
		require.ErrorIs(t, err, boom)

		l, err := s.Load(t.Context())
		require.NoError(t, err)
		require.Empty(t, l)
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(t.Context(), domain.Ledger{"r": {ID: "r", Username: "r"}}))

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- s.Update(context.Background(), func(l domain.Ledger) error {
					id := fmt.Sprintf("u%02d", i)
					l[id] = &domain.Account{ID: id}
					l["r"].Invites++
					l["r"].Balance = l["r"].Balance.Add(decimal.RequireFromString("0.01"))
					return nil
				})
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		l, err := s.Load(t.Context())
		require.NoError(t, err)
		require.Len(t, l, n+1)
		require.Equal(t, n, l["r"].Invites)
		require.True(t, l["r"].Balance.Equal(decimal.RequireFromString("0.2")))
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Ping(t.Context()))
	})

	t.Run("closed store rejects reads and writes", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Close())

		err := s.Update(t.Context(), func(domain.Ledger) error { return nil })
		require.ErrorIs(t, err, store.ErrClosed)

		require.ErrorIs(t, s.Save(t.Context(), domain.Ledger{}), store.ErrClosed)

		_, err = s.Load(t.Context())
		require.ErrorIs(t, err, store.ErrClosed)
	})
}
