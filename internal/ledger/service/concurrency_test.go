package service_test

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aussiebroadwan/ledger/internal/ledger/command"
	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newSQLiteFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return newFixtureWithStore(st)
}

// Admin commands and user requests mutate the same account at the same time;
// every one of them must land.
func TestUserAndAdminMutationsDoNotLoseUpdates(t *testing.T) {
	fixtures := map[string]func(t *testing.T) *fixture{
		"jsonfile": newFixture,
		"sqlite":   newSQLiteFixture,
	}

	for name, newF := range fixtures {
		t.Run(name, func(t *testing.T) {
			f := newF(t)
			alice := f.register(t, "alice", "")
			f.setBalance(t, alice.ID, "10")

			// Withdrawals the admin resolves while new ones are requested.
			const approvals = 8
			var toApprove []domain.Withdrawal
			for range approvals {
				w, err := f.withdrawals.RequestWithdrawal(t.Context(), alice.ID, dec("0.2"))
				require.NoError(t, err)
				toApprove = append(toApprove, w)
			}

			const (
				tasks       = 10
				requests    = 10
				referrals   = 10
				totalWrites = approvals + tasks + requests + referrals
			)

			var wg sync.WaitGroup
			errs := make(chan error, totalWrites)
			run := func(fn func() error) {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- fn()
				}()
			}

			for _, w := range toApprove {
				run(func() error {
					return f.admin.Handle(t.Context(), command.Command{
						Kind:         command.ApproveWithdrawal,
						UserID:       alice.ID,
						Amount:       w.Amount,
						WithdrawalID: w.ID,
					})
				})
			}
			for range tasks {
				run(func() error {
					return f.admin.Handle(t.Context(), command.Command{Kind: command.ApproveTask, UserID: alice.ID})
				})
			}
			for range requests {
				run(func() error {
					_, err := f.withdrawals.RequestWithdrawal(t.Context(), alice.ID, dec("0.1"))
					return err
				})
			}
			for i := range referrals {
				run(func() error {
					_, err := f.registrar.Register(t.Context(), service.RegisterRequest{
						Username:   fmt.Sprintf("friend%02d", i),
						Email:      fmt.Sprintf("friend%02d@example.com", i),
						Referral:   "alice",
						Credential: "pw",
					})
					return err
				})
			}

			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			got := f.account(t, alice.ID)
			require.True(t, got.TaskBalance.Equal(dec("0.10")), "task balance %s", got.TaskBalance)
			// 10 + 10 referrals * 0.01 - 8 approvals * 0.2
			require.True(t, got.Balance.Equal(dec("8.5")), "balance %s", got.Balance)
			require.Equal(t, referrals, got.Invites)
			require.Len(t, got.Withdrawals, approvals+requests)

			var approved, pending int
			for _, w := range got.Withdrawals {
				switch w.Status {
				case domain.WithdrawalApproved:
					approved++
				case domain.WithdrawalPending:
					pending++
				}
			}
			require.Equal(t, approvals, approved)
			require.Equal(t, requests, pending)

			l, err := f.store.Load(t.Context())
			require.NoError(t, err)
			require.Len(t, l, 1+referrals)
		})
	}
}
