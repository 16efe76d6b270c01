// Package command implements the grammar of the administrator's commands,
// e.g. "/approve_withdraw_<userId>_<amount>_<withdrawalId>".
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aussiebroadwan/ledger/pkg/idx"
)

var (
	ErrUnknownCommand   = errors.New("command: unknown command")
	ErrMalformedCommand = errors.New("command: malformed command")
)

type Kind int

const (
	ApproveTask Kind = iota + 1
	DeclineTask
	ApproveWithdrawal
	DeclineWithdrawal
)

var kindPrefixes = []struct {
	kind   Kind
	prefix string
}{
	// Withdrawal prefixes first: "approve_" is a prefix of "approve_withdraw_".
	{ApproveWithdrawal, "approve_withdraw_"},
	{DeclineWithdrawal, "decline_withdraw_"},
	{ApproveTask, "approve_"},
	{DeclineTask, "decline_"},
}

func (k Kind) String() string {
	switch k {
	case ApproveTask:
		return "approve_task"
	case DeclineTask:
		return "decline_task"
	case ApproveWithdrawal:
		return "approve_withdrawal"
	case DeclineWithdrawal:
		return "decline_withdrawal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) prefix() string {
	for _, kp := range kindPrefixes {
		if kp.kind == k {
			return kp.prefix
		}
	}
	return ""
}

// Command is one administrator decision.
type Command struct {
	Kind   Kind
	UserID string

	// Withdrawal commands only.
	Amount       decimal.Decimal
	WithdrawalID string // empty: the account's most recent withdrawal
}

func (c Command) IsWithdrawal() bool {
	return c.Kind == ApproveWithdrawal || c.Kind == DeclineWithdrawal
}

// String renders the command in the form Parse accepts.
func (c Command) String() string {
	return Format(c)
}

// Parse reads a command from message text. The leading slash is optional,
// a "@botname" suffix is ignored, and anything after the first word is
// discarded.
func Parse(text string) (Command, error) {
	word, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	word = strings.TrimPrefix(word, "/")
	word, _, _ = strings.Cut(word, "@")
	if word == "" {
		return Command{}, ErrUnknownCommand
	}

	for _, kp := range kindPrefixes {
		rest, ok := strings.CutPrefix(word, kp.prefix)
		if !ok {
			continue
		}
		c := Command{Kind: kp.kind}
		if !c.IsWithdrawal() {
			if rest == "" || strings.Contains(rest, "_") {
				return Command{}, fmt.Errorf("%w: %q", ErrMalformedCommand, word)
			}
			c.UserID = rest
			return c, nil
		}
		return parseWithdrawal(c, word, rest)
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, word)
}

func parseWithdrawal(c Command, word, rest string) (Command, error) {
	parts := strings.Split(rest, "_")
	if len(parts) < 2 || len(parts) > 3 {
		return Command{}, fmt.Errorf("%w: %q", ErrMalformedCommand, word)
	}
	if parts[0] == "" {
		return Command{}, fmt.Errorf("%w: %q: missing user id", ErrMalformedCommand, word)
	}
	amount, err := decimal.NewFromString(parts[1])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q: bad amount: %w", ErrMalformedCommand, word, err)
	}
	c.UserID = parts[0]
	c.Amount = amount
	if len(parts) == 3 {
		id, err := idx.Parse(parts[2])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %q: bad withdrawal id", ErrMalformedCommand, word)
		}
		c.WithdrawalID = id.String()
	}
	return c, nil
}

// Format renders a command with its leading slash.
func Format(c Command) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(c.Kind.prefix())
	b.WriteString(c.UserID)
	if c.IsWithdrawal() {
		b.WriteString("_")
		b.WriteString(c.Amount.String())
		if c.WithdrawalID != "" {
			b.WriteString("_")
			b.WriteString(c.WithdrawalID)
		}
	}
	return b.String()
}

// Usage is the reply sent when a message cannot be parsed.
const Usage = "Commands: /approve_<userId>, /decline_<userId>, " +
	"/approve_withdraw_<userId>_<amount>_<withdrawalId>, /decline_withdraw_<userId>_<amount>_<withdrawalId>"
