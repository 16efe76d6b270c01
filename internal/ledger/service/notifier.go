package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// Messenger delivers messages over the admin channel.
type Messenger interface {
	SendText(ctx context.Context, recipient, text string) error
	SendAttachment(ctx context.Context, recipient, fileRef, caption string) error
}

// LogMessenger writes messages to the log instead of delivering them. It is
// used when no messaging gateway is configured.
type LogMessenger struct {
	Logger *slog.Logger
}

func (m LogMessenger) SendText(ctx context.Context, recipient, text string) error {
	m.logger().Info("admin message", slog.String("recipient", recipient), slog.String("text", text))
	return nil
}

func (m LogMessenger) SendAttachment(ctx context.Context, recipient, fileRef, caption string) error {
	m.logger().Info("admin attachment",
		slog.String("recipient", recipient),
		slog.String("file", fileRef),
		slog.String("caption", caption),
	)
	return nil
}

func (m LogMessenger) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

// Notifier sends best-effort messages to the administrator. Failures are
// logged and never returned: a ledger mutation that already committed stays
// committed.
type Notifier struct {
	Messenger Messenger
	Recipient string
	Timeout   time.Duration
}

const defaultNotifyTimeout = 10 * time.Second

func (n *Notifier) Text(ctx context.Context, text string) {
	if n == nil || n.Messenger == nil {
		return
	}
	ctx, cancel := n.context(ctx)
	defer cancel()

	if err := n.Messenger.SendText(ctx, n.Recipient, text); err != nil {
		slogx.FromContext(ctx).Warn("admin notification failed",
			slog.String("text", text),
			slog.Any("error", err),
		)
	}
}

func (n *Notifier) Attachment(ctx context.Context, fileRef, caption string) {
	if n == nil || n.Messenger == nil {
		return
	}
	ctx, cancel := n.context(ctx)
	defer cancel()

	if err := n.Messenger.SendAttachment(ctx, n.Recipient, fileRef, caption); err != nil {
		slogx.FromContext(ctx).Warn("admin attachment failed",
			slog.String("file", fileRef),
			slog.Any("error", err),
		)
	}
}

// context outlives the caller's cancellation but is bounded by Timeout.
func (n *Notifier) context(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
