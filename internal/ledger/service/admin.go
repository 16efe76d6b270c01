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
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// unknownAccountReply is deliberately generic.
const unknownAccountReply = "No account matches that command; nothing changed."

// AdminService applies the administrator's decisions to the ledger. Every
// outcome, including failures, is reported back over the admin channel.
//
// Delivery is at-least-once: replaying a command against a withdrawal that
// is no longer Pending changes nothing.
type AdminService struct {
	Store    store.Store
	Policy   domain.Policy
	Notifier *Notifier
}

// Run handles commands one at a time until ctx ends or cmds is closed.
func (s *AdminService) Run(ctx context.Context, cmds <-chan command.Command) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-cmds:
			if !ok {
				return
			}
			_ = s.Handle(ctx, cmd) // reported to the admin and logged
		}
	}
}

// Handle applies one command and replies to the administrator. The
// returned error is for logging and tests; no user sees it.
func (s *AdminService) Handle(ctx context.Context, cmd command.Command) error {
	ctx = slogx.With(ctx,
		slog.String("command", cmd.Kind.String()),
		slog.String("user_id", cmd.UserID),
	)
	log := slogx.FromContext(ctx)

	var (
		reply string
		err   error
	)
	switch cmd.Kind {
	case command.ApproveTask:
		reply, err = s.approveTask(ctx, cmd)
	case command.DeclineTask:
		reply, err = s.declineTask(ctx, cmd)
	case command.ApproveWithdrawal, command.DeclineWithdrawal:
		reply, err = s.resolveWithdrawal(ctx, cmd)
	default:
		err = fmt.Errorf("%w: %s", command.ErrUnknownCommand, cmd.Kind)
		reply = command.Usage
	}

	switch {
	case err == nil:
		log.Info("admin command applied")
	case errors.Is(err, ErrPersistenceFailure):
		log.Error("admin command not saved", slog.Any("error", err))
		reply = "Could not save the ledger; nothing changed. Please retry " + command.Format(cmd)
	default:
		log.Warn("admin command rejected", slog.Any("error", err))
	}
	if reply == "" {
		reply = "Command failed; nothing changed: " + command.Format(cmd)
	}

	s.Notifier.Text(ctx, reply)
	return err
}

func (s *AdminService) approveTask(ctx context.Context, cmd command.Command) (string, error) {
	var acc domain.Account
	err := update(ctx, s.Store, func(l domain.Ledger) error {
		a, ok := l[cmd.UserID]
		if !ok {
			return ErrNotFound
		}
		a.TaskBalance = a.TaskBalance.Add(s.Policy.TaskReward)
		acc = *a
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return unknownAccountReply, err
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Task approved for %s. Task balance: %s %s",
		acc.Username, acc.TaskBalance, s.Policy.Currency), nil
}

// declineTask leaves no trace in the ledger.
func (s *AdminService) declineTask(ctx context.Context, cmd command.Command) (string, error) {
	l, err := load(ctx, s.Store)
	if err != nil {
		return "", err
	}
	acc, ok := l[cmd.UserID]
	if !ok {
		return unknownAccountReply, ErrNotFound
	}
	return fmt.Sprintf("Task declined for %s.", acc.Username), nil
}

var (
	ErrNoWithdrawal    = errors.New("no matching withdrawal")
	ErrAmountMismatch  = errors.New("command amount differs from withdrawal")
	ErrAlreadyResolved = domain.ErrAlreadyResolved
)

func (s *AdminService) resolveWithdrawal(ctx context.Context, cmd command.Command) (string, error) {
	approve := cmd.Kind == command.ApproveWithdrawal

	var (
		acc    domain.Account
		target domain.Withdrawal
	)
	err := update(ctx, s.Store, func(l domain.Ledger) error {
		a, ok := l[cmd.UserID]
		if !ok {
			return ErrNotFound
		}
		acc = *a

		var w *domain.Withdrawal
		if cmd.WithdrawalID != "" {
			w, ok = a.Withdrawal(cmd.WithdrawalID)
		} else {
			w, ok = a.LastWithdrawal()
		}
		if !ok {
			return ErrNoWithdrawal
		}
		target = *w

		if w.Terminal() {
			return ErrAlreadyResolved
		}
		if !w.Amount.Equal(cmd.Amount) {
			return ErrAmountMismatch
		}

		status := domain.WithdrawalDeclined
		if approve {
			status = domain.WithdrawalApproved
			// No sufficiency check: eligibility was enforced at request time.
			a.Balance = a.Balance.Sub(w.Amount)
		}
		if err := w.Resolve(status, time.Now().UTC()); err != nil {
			return err
		}
		target = *w
		acc = *a
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		return unknownAccountReply, err
	case errors.Is(err, ErrNoWithdrawal):
		return fmt.Sprintf("%s has no matching withdrawal; nothing changed.", acc.Username), err
	case errors.Is(err, ErrAlreadyResolved):
		// Replays are acknowledged as success.
		return fmt.Sprintf("Withdrawal of %s %s for %s is already %s; nothing changed.",
			target.Amount, s.Policy.Currency, acc.Username, target.Status), nil
	case errors.Is(err, ErrAmountMismatch):
		return fmt.Sprintf("Withdrawal for %s is %s %s, not %s; nothing changed.",
			acc.Username, target.Amount, s.Policy.Currency, cmd.Amount), err
	default:
		return "", err
	}

	if approve {
		return fmt.Sprintf("Withdrawal of %s %s approved for %s. Balance: %s %s",
			target.Amount, s.Policy.Currency, acc.Username, acc.Balance, s.Policy.Currency), nil
	}
	return fmt.Sprintf("Withdrawal of %s %s declined for %s.",
		target.Amount, s.Policy.Currency, acc.Username), nil
}
