package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/ledger/internal/ledger/command"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// ProofService forwards task proofs to the administrator. It never mutates
// the ledger; the reward is applied when the admin approves.
type ProofService struct {
	Store    store.Store
	Notifier *Notifier
}

// SubmitProof forwards proofRef (a stored file) for review.
func (s *ProofService) SubmitProof(ctx context.Context, userID, proofRef string) error {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(proofRef) == "" {
		return fmt.Errorf("%w: no proof supplied", ErrNotFound)
	}

	l, err := load(ctx, s.Store)
	if err != nil {
		log.Error("failed to load ledger", slog.Any("error", err))
		return err
	}
	if _, ok := l[userID]; !ok {
		return fmt.Errorf("%w: account %q", ErrNotFound, userID)
	}

	s.Notifier.Attachment(ctx, proofRef, ProofCaption(userID))
	log.Info("task proof submitted", slog.String("user_id", userID), slog.String("proof", proofRef))
	return nil
}

// ProofCaption is the text attached to a forwarded proof.
func ProofCaption(userID string) string {
	return fmt.Sprintf("Task proof from user %s. Approve? Reply with %s or %s",
		userID,
		command.Format(command.Command{Kind: command.ApproveTask, UserID: userID}),
		command.Format(command.Command{Kind: command.DeclineTask, UserID: userID}),
	)
}
