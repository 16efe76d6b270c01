package ledgersdk

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	// Error is a machine-readable code such as "not_eligible"
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Account Types
// ============================================================================

// RegisterRequest is the form submitted to POST /v1/accounts.
type RegisterRequest struct {
	Username string
	Email    string
	Password string

	// Referral is the username of the referring account, optional
	Referral string
}

// AccountResponse is an account as returned by the API. The credential hash
// is never exposed.
type AccountResponse struct {
	ID            string               `json:"id"`
	Username      string               `json:"username"`
	Email         string               `json:"email"`
	Balance       decimal.Decimal      `json:"balance"`
	TaskBalance   decimal.Decimal      `json:"task_balance"`
	Invites       int                  `json:"invites"`
	ReferredBy    string               `json:"referred_by,omitempty"`
	PayoutAddress string               `json:"payout_address,omitempty"`
	Withdrawals   []WithdrawalResponse `json:"withdrawals"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ============================================================================
// Withdrawal Types
// ============================================================================

// Withdrawal statuses.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusDeclined = "Declined"
)

type WithdrawalResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	RequestedAt time.Time       `json:"requested_at"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
}

// ============================================================================
// Proof Types
// ============================================================================

// ProofResponse acknowledges a proof forwarded for review.
type ProofResponse struct {
	UserID string `json:"user_id"`
	Status string `json:"status"` // always "submitted"
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	// Store indicates whether the ledger store is reachable
	Store string `json:"store"`
}
