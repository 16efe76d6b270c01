package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "Pending"
	WithdrawalApproved WithdrawalStatus = "Approved"
	WithdrawalDeclined WithdrawalStatus = "Declined"
)

// ErrAlreadyResolved is returned when resolving a withdrawal that is no
// longer Pending.
var ErrAlreadyResolved = errors.New("withdrawal already resolved")

type Withdrawal struct {
	ID          string           `json:"id,omitempty"` // empty for records written before ids existed
	Amount      decimal.Decimal  `json:"amount"`
	Status      WithdrawalStatus `json:"status"`
	RequestedAt time.Time        `json:"requestedAt,omitzero"`
	ResolvedAt  *time.Time       `json:"resolvedAt,omitempty"`
}

func (w Withdrawal) Terminal() bool {
	return w.Status == WithdrawalApproved || w.Status == WithdrawalDeclined
}

// Resolve moves a Pending withdrawal to the given terminal status.
func (w *Withdrawal) Resolve(status WithdrawalStatus, at time.Time) error {
	if w.Terminal() {
		return ErrAlreadyResolved
	}
	w.Status = status
	w.ResolvedAt = &at
	return nil
}

func (w Withdrawal) clone() Withdrawal {
	if w.ResolvedAt != nil {
		t := *w.ResolvedAt
		w.ResolvedAt = &t
	}
	return w
}
