package domain

import "github.com/shopspring/decimal"

// Policy holds the monetary rules of the ledger.
type Policy struct {
	WelcomeBonus   decimal.Decimal
	ReferralBonus  decimal.Decimal
	TaskReward     decimal.Decimal
	MinEligibility decimal.Decimal // inclusive
	MaxWithdrawal  decimal.Decimal // inclusive
	Currency       string
}

func DefaultPolicy() Policy {
	return Policy{
		WelcomeBonus:   decimal.RequireFromString("0.05"),
		ReferralBonus:  decimal.RequireFromString("0.01"),
		TaskReward:     decimal.RequireFromString("0.01"),
		MinEligibility: decimal.RequireFromString("0.05"),
		MaxWithdrawal:  decimal.RequireFromString("0.5"),
		Currency:       "TON",
	}
}

// Eligible reports whether an account with this balance may request a withdrawal.
func (p Policy) Eligible(balance decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(p.MinEligibility)
}

// WithinCap reports whether a single withdrawal amount is allowed.
func (p Policy) WithinCap(amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(p.MaxWithdrawal)
}
