package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
)

// DigestService periodically re-sends every Pending withdrawal to the
// administrator, so a request whose notification was lost still gets
// resolved.
type DigestService struct {
	Store    store.Store
	Notifier *Notifier
	Policy   domain.Policy
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewDigestService creates a digest service. An interval of zero or less
// disables it: Start and Stop become no-ops.
func NewDigestService(st store.Store, notifier *Notifier, policy domain.Policy, logger *slog.Logger, interval time.Duration) *DigestService {
	return &DigestService{
		Store:    st,
		Notifier: notifier,
		Policy:   policy,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (s *DigestService) enabled() bool { return s.Interval > 0 }

// Start begins the background worker. Call Stop to shut it down.
func (s *DigestService) Start() {
	if !s.enabled() {
		s.Logger.Info("pending digest disabled")
		return
	}
	go s.run()
	s.Logger.Info("pending digest started", "interval", s.Interval)
}

// Stop blocks until an in-progress digest has been sent.
func (s *DigestService) Stop() {
	if !s.enabled() {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("pending digest stopped")
}

func (s *DigestService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Send(context.Background()); err != nil {
				s.Logger.Error("pending digest failed", "error", err)
			}
		case <-s.stopCh:
			return
		}
	}
}

// Send notifies the administrator of all Pending withdrawals and returns
// how many there were. Nothing is sent when there are none.
func (s *DigestService) Send(ctx context.Context) (int, error) {
	l, err := load(ctx, s.Store)
	if err != nil {
		return 0, err
	}

	pending := l.Pending()
	if len(pending) == 0 {
		s.Logger.Debug("no pending withdrawals")
		return 0, nil
	}

	s.Notifier.Text(ctx, FormatDigest(pending, s.Policy.Currency))
	s.Logger.Info("pending digest sent", "pending", len(pending))
	return len(pending), nil
}

// FormatDigest renders one line per pending withdrawal.
func FormatDigest(pending []domain.PendingWithdrawal, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pending withdrawals (%d):", len(pending))
	for _, p := range pending {
		b.WriteString("\n")
		b.WriteString(WithdrawalNotice(*p.Account, p.Withdrawal, currency))
	}
	return b.String()
}
