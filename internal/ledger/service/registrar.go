package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
	"github.com/shopspring/decimal"
)

// Hasher turns a raw credential into an opaque stored hash.
type Hasher interface {
	Hash(raw string) (string, error)
}

type RegistrarService struct {
	Store    store.Store
	Hasher   Hasher
	Policy   domain.Policy
	Notifier *Notifier
}

type RegisterRequest struct {
	Username   string
	Email      string
	Referral   string // username of the referrer, optional
	Credential string
}

// Register creates an account with the welcome bonus and credits the
// referrer, if any, in the same critical section.
func (s *RegistrarService) Register(ctx context.Context, req RegisterRequest) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Referral = strings.TrimSpace(req.Referral)
	if req.Username == "" || req.Email == "" || strings.TrimSpace(req.Credential) == "" {
		return domain.Account{}, fmt.Errorf("%w: username, email and password are required", ErrInvalidRequest)
	}

	// Hashing stays outside the critical section.
	hash, err := s.Hasher.Hash(req.Credential)
	if err != nil {
		log.Error("failed to hash credential", slog.Any("error", err))
		return domain.Account{}, err
	}

	var (
		created  domain.Account
		referrer string
	)
	err = update(ctx, s.Store, func(l domain.Ledger) error {
		if _, taken := l.ByUsername(req.Username); taken {
			return ErrConflict
		}
		if _, taken := l.ByEmail(req.Email); taken {
			return ErrConflict
		}

		acc := &domain.Account{
			ID:             idx.New().String(),
			Username:       req.Username,
			Email:          req.Email,
			CredentialHash: hash,
			Balance:        s.Policy.WelcomeBonus,
			TaskBalance:    decimal.Zero,
			ReferredBy:     req.Referral,
			Withdrawals:    []domain.Withdrawal{},
			CreatedAt:      time.Now().UTC(),
		}

		if req.Referral != "" {
			if ref, ok := l.ByUsername(req.Referral); ok {
				ref.Balance = ref.Balance.Add(s.Policy.ReferralBonus)
				ref.Invites++
				referrer = ref.Username
			}
		}

		l[acc.ID] = acc
		created = *acc.Clone()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			log.Info("registration conflict", slog.String("username", req.Username))
		} else {
			log.Error("failed to register account", slog.String("username", req.Username), slog.Any("error", err))
		}
		return domain.Account{}, err
	}

	log.Info("account registered",
		slog.String("user_id", created.ID),
		slog.String("username", created.Username),
		slog.String("referrer", referrer),
	)

	if referrer != "" {
		s.Notifier.Text(ctx, fmt.Sprintf("New referral: %s by %s", created.Username, referrer))
	}
	return created, nil
}

// GetAccount returns the account with the given id.
func (s *RegistrarService) GetAccount(ctx context.Context, userID string) (domain.Account, error) {
	l, err := load(ctx, s.Store)
	if err != nil {
		return domain.Account{}, err
	}
	acc, ok := l[userID]
	if !ok {
		return domain.Account{}, ErrNotFound
	}
	return *acc, nil
}

// SetPayoutAddress records where approved withdrawals are paid to.
func (s *RegistrarService) SetPayoutAddress(ctx context.Context, userID, address string) (domain.Account, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Account{}, fmt.Errorf("%w: payout address is required", ErrInvalidRequest)
	}

	var updated domain.Account
	err := update(ctx, s.Store, func(l domain.Ledger) error {
		acc, ok := l[userID]
		if !ok {
			return ErrNotFound
		}
		acc.PayoutAddress = address
		updated = *acc.Clone()
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("payout address updated", slog.String("user_id", userID))
	return updated, nil
}
