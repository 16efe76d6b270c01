package command_test

import (
	"testing"

	"github.com/aussiebroadwan/ledger/internal/ledger/command"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want command.Command
	}{
		{
			name: "approve task",
			text: "/approve_01J9Z",
			want: command.Command{Kind: command.ApproveTask, UserID: "01J9Z"},
		},
		{
			name: "decline task without slash",
			text: "decline_1700000000000",
			want: command.Command{Kind: command.DeclineTask, UserID: "1700000000000"},
		},
		{
			name: "approve withdrawal with id",
			text: "/approve_withdraw_01J9Z_0.3_01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV",
			want: command.Command{Kind: command.ApproveWithdrawal, UserID: "01J9Z", Amount: decimal.RequireFromString("0.3"), WithdrawalID: "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"},
		},
		{
			name: "lower case withdrawal id",
			text: "/decline_withdraw_42_0.3_01hq7t3z1mz0jq3m6mzq1fq3zv",
			want: command.Command{Kind: command.DeclineWithdrawal, UserID: "42", Amount: decimal.RequireFromString("0.3"), WithdrawalID: "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"},
		},
		{
			name: "legacy decline withdrawal",
			text: "/decline_withdraw_42_0.5",
			want: command.Command{Kind: command.DeclineWithdrawal, UserID: "42", Amount: decimal.RequireFromString("0.5")},
		},
		{
			name: "bot suffix and trailing words",
			text: "  /approve_42@ledger_bot please ",
			want: command.Command{Kind: command.ApproveTask, UserID: "42"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := command.Parse(tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.want.Kind, got.Kind)
			require.Equal(t, tc.want.UserID, got.UserID)
			require.Equal(t, tc.want.WithdrawalID, got.WithdrawalID)
			require.True(t, tc.want.Amount.Equal(got.Amount), "amount %s", got.Amount)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		text string
		want error
	}{
		{"", command.ErrUnknownCommand},
		{"/start", command.ErrUnknownCommand},
		{"hello there", command.ErrUnknownCommand},
		{"/approve_", command.ErrMalformedCommand},
		{"/approve_a_b", command.ErrMalformedCommand},
		{"/approve_withdraw_42", command.ErrMalformedCommand},
		{"/approve_withdraw_42_lots", command.ErrMalformedCommand},
		{"/decline_withdraw__0.3", command.ErrMalformedCommand},
		{"/decline_withdraw_42_0.3_", command.ErrMalformedCommand},
		{"/decline_withdraw_42_0.3_w_extra", command.ErrMalformedCommand},
		{"/decline_withdraw_42_0.3_notaulid", command.ErrMalformedCommand},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			_, err := command.Parse(tc.text)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFormatParses(t *testing.T) {
	cmds := []command.Command{
		{Kind: command.ApproveTask, UserID: "01J9Z"},
		{Kind: command.DeclineTask, UserID: "01J9Z"},
		{Kind: command.ApproveWithdrawal, UserID: "01J9Z", Amount: decimal.RequireFromString("0.25"), WithdrawalID: "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"},
		{Kind: command.DeclineWithdrawal, UserID: "01J9Z", Amount: decimal.RequireFromString("0.1")},
	}
	for _, c := range cmds {
		t.Run(c.Kind.String(), func(t *testing.T) {
			text := command.Format(c)
			got, err := command.Parse(text)
			require.NoError(t, err)
			require.Equal(t, text, command.Format(got))
		})
	}

	require.Equal(t, "/approve_withdraw_U_0.3_W", command.Format(command.Command{
		Kind: command.ApproveWithdrawal, UserID: "U", Amount: decimal.RequireFromString("0.30"), WithdrawalID: "W",
	}))
}
