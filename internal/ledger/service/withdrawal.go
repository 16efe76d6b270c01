package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/command"
	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
	"github.com/shopspring/decimal"
)

type WithdrawalService struct {
	Store    store.Store
	Policy   domain.Policy
	Notifier *Notifier
}

// RequestWithdrawal appends a Pending withdrawal and asks the administrator
// to resolve it. Checks run in order: account, amount, eligibility, cap.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, userID string, amount decimal.Decimal) (domain.Withdrawal, error) {
	log := slogx.FromContext(ctx).With(slog.String("user_id", userID), slog.String("amount", amount.String()))

	var (
		created domain.Withdrawal
		owner   domain.Account
	)
	err := update(ctx, s.Store, func(l domain.Ledger) error {
		acc, ok := l[userID]
		if !ok {
			return fmt.Errorf("%w: account %q", ErrNotFound, userID)
		}
		if !amount.IsPositive() {
			return ErrInvalidAmount
		}
		if !s.Policy.Eligible(acc.Balance) {
			return ErrNotEligible
		}
		if !s.Policy.WithinCap(amount) {
			return ErrLimitExceeded
		}

		created = domain.Withdrawal{
			ID:          idx.New().String(),
			Amount:      amount,
			Status:      domain.WithdrawalPending,
			RequestedAt: time.Now().UTC(),
		}
		acc.Withdrawals = append(acc.Withdrawals, created)
		owner = *acc
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotEligible), errors.Is(err, ErrLimitExceeded), errors.Is(err, ErrInvalidAmount):
			log.Info("withdrawal rejected", slog.Any("reason", err))
		case errors.Is(err, ErrNotFound):
			log.Info("withdrawal for unknown account")
		default:
			log.Error("failed to record withdrawal", slog.Any("error", err))
		}
		return domain.Withdrawal{}, err
	}

	log.Info("withdrawal requested", slog.String("withdrawal_id", created.ID))
	s.Notifier.Text(ctx, WithdrawalNotice(owner, created, s.Policy.Currency))
	return created, nil
}

// WithdrawalNotice is the message asking the administrator to resolve w.
func WithdrawalNotice(acc domain.Account, w domain.Withdrawal, currency string) string {
	address := acc.PayoutAddress
	if address == "" {
		address = "(no payout address)"
	}
	return fmt.Sprintf("Withdraw request from %s: %s %s to %s. %s or %s",
		acc.Username, w.Amount, currency, address,
		command.Format(withdrawalCommand(command.ApproveWithdrawal, acc.ID, w)),
		command.Format(withdrawalCommand(command.DeclineWithdrawal, acc.ID, w)),
	)
}

func withdrawalCommand(kind command.Kind, userID string, w domain.Withdrawal) command.Command {
	return command.Command{Kind: kind, UserID: userID, Amount: w.Amount, WithdrawalID: w.ID}
}
