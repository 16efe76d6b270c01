package domain

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/aussiebroadwan/ledger/pkg/idx"
)

// Ledger is the whole persisted document: account id → account.
type Ledger map[string]*Account

// ByUsername finds an account by exact username.
func (l Ledger) ByUsername(username string) (*Account, bool) {
	for _, a := range l {
		if a.Username == username {
			return a, true
		}
	}
	return nil, false
}

// ByEmail finds an account by email, ignoring case.
func (l Ledger) ByEmail(email string) (*Account, bool) {
	for _, a := range l {
		if strings.EqualFold(a.Email, email) {
			return a, true
		}
	}
	return nil, false
}

// PendingWithdrawal pairs a Pending record with its owner.
type PendingWithdrawal struct {
	Account    *Account
	Withdrawal Withdrawal
}

// Pending lists every Pending withdrawal, oldest request first.
func (l Ledger) Pending() []PendingWithdrawal {
	var out []PendingWithdrawal
	for _, id := range slices.Sorted(maps.Keys(l)) {
		a := l[id]
		for _, w := range a.Withdrawals {
			if w.Status == WithdrawalPending {
				out = append(out, PendingWithdrawal{Account: a, Withdrawal: w})
			}
		}
	}
	slices.SortStableFunc(out, func(x, y PendingWithdrawal) int {
		return cmp.Or(
			x.Withdrawal.RequestedAt.Compare(y.Withdrawal.RequestedAt),
			idx.Compare(idx.ID(x.Withdrawal.ID), idx.ID(y.Withdrawal.ID)),
		)
	})
	return out
}

// Clone returns a deep copy.
func (l Ledger) Clone() Ledger {
	c := make(Ledger, len(l))
	for id, a := range l {
		c[id] = a.Clone()
	}
	return c
}
