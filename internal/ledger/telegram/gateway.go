// Package telegram connects the ledger to its administrator through a
// Telegram bot: notifications go out as chat messages, and commands typed
// in the admin chat come back in.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aussiebroadwan/ledger/internal/ledger/command"
)

// BotAPI is the subset of *tgbotapi.BotAPI the gateway uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Gateway struct {
	bot     BotAPI
	adminID int64
	logger  *slog.Logger
}

// New connects to the Bot API with token. Only messages from adminID are
// treated as commands.
func New(token string, adminID int64, logger *slog.Logger) (*Gateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	logger.Info("telegram bot authorised", slog.String("bot", bot.Self.UserName))
	return NewWithBot(bot, adminID, logger), nil
}

func NewWithBot(bot BotAPI, adminID int64, logger *slog.Logger) *Gateway {
	return &Gateway{bot: bot, adminID: adminID, logger: logger}
}

// AdminRecipient is the recipient string for the configured admin chat.
func (g *Gateway) AdminRecipient() string {
	return strconv.FormatInt(g.adminID, 10)
}

func (g *Gateway) SendText(ctx context.Context, recipient, text string) error {
	chatID, err := parseChatID(recipient)
	if err != nil {
		return err
	}
	return g.send(ctx, tgbotapi.NewMessage(chatID, text))
}

// SendAttachment sends fileRef, a local file path, as a photo.
func (g *Gateway) SendAttachment(ctx context.Context, recipient, fileRef, caption string) error {
	chatID, err := parseChatID(recipient)
	if err != nil {
		return err
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(fileRef))
	photo.Caption = caption
	return g.send(ctx, photo)
}

// send gives up waiting when ctx ends; the Bot API call itself has its own
// HTTP timeout.
func (g *Gateway) send(ctx context.Context, c tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		_, err := g.bot.Send(c)
		errCh <- err
	}()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("telegram: send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Commands long-polls for updates and emits the admin's parsed commands.
// Text that does not parse is answered with a usage hint. The channel is
// closed once ctx ends.
func (g *Gateway) Commands(ctx context.Context) <-chan command.Command {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := g.bot.GetUpdatesChan(u)

	out := make(chan command.Command)
	go func() {
		defer close(out)
		defer g.bot.StopReceivingUpdates()

		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				cmd, ok := g.handleUpdate(ctx, update)
				if !ok {
					continue
				}
				select {
				case out <- cmd:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (g *Gateway) handleUpdate(ctx context.Context, update tgbotapi.Update) (command.Command, bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return command.Command{}, false
	}
	if !g.fromAdmin(msg) {
		g.logger.Warn("ignoring message from non-admin chat", slog.Int64("chat_id", msg.Chat.ID))
		return command.Command{}, false
	}

	// msg.Command() stops at the first '.', which would cut amounts short.
	cmd, err := command.Parse(msg.Text)
	if err != nil {
		g.logger.Info("unparseable admin message", slog.String("text", msg.Text), slog.Any("error", err))
		if err := g.send(ctx, tgbotapi.NewMessage(msg.Chat.ID, command.Usage)); err != nil {
			g.logger.Warn("usage reply failed", slog.Any("error", err))
		}
		return command.Command{}, false
	}
	return cmd, true
}

func (g *Gateway) fromAdmin(msg *tgbotapi.Message) bool {
	if msg.Chat.ID == g.adminID {
		return true
	}
	return msg.From != nil && msg.From.ID == g.adminID
}

func parseChatID(recipient string) (int64, error) {
	id, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram: bad chat id %q: %w", recipient, err)
	}
	return id, nil
}
