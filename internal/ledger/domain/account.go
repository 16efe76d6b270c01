package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a single user of the ledger. The JSON field names match the
// users.json document the service has always persisted.
type Account struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	CredentialHash string          `json:"passwordHash"` // bcrypt in old documents, argon2id since
	Balance        decimal.Decimal `json:"balance"`
	TaskBalance    decimal.Decimal `json:"taskBalance"`
	Invites        int             `json:"invites"`
	ReferredBy     string          `json:"referred_by"` // referral code as given at registration; null when absent
	PayoutAddress  string          `json:"tonAddress"`
	Withdrawals    []Withdrawal    `json:"withdrawals"`
	CreatedAt      time.Time       `json:"createdAt,omitzero"`
}

// MarshalJSON writes an absent referral as null and no withdrawals as [].
func (a Account) MarshalJSON() ([]byte, error) {
	type plain Account
	p := plain(a)
	if p.Withdrawals == nil {
		p.Withdrawals = []Withdrawal{}
	}
	var ref *string
	if a.ReferredBy != "" {
		ref = &a.ReferredBy
	}
	return json.Marshal(struct {
		plain
		ReferredBy *string `json:"referred_by"`
	}{p, ref})
}

// Withdrawal returns the record with the given id.
func (a *Account) Withdrawal(id string) (*Withdrawal, bool) {
	for i := range a.Withdrawals {
		if a.Withdrawals[i].ID == id {
			return &a.Withdrawals[i], true
		}
	}
	return nil, false
}

// LastWithdrawal returns the most recently appended record.
func (a *Account) LastWithdrawal() (*Withdrawal, bool) {
	if len(a.Withdrawals) == 0 {
		return nil, false
	}
	return &a.Withdrawals[len(a.Withdrawals)-1], true
}

// Clone returns a deep copy.
func (a *Account) Clone() *Account {
	c := *a
	c.Withdrawals = make([]Withdrawal, len(a.Withdrawals))
	for i, w := range a.Withdrawals {
		c.Withdrawals[i] = w.clone()
	}
	return &c
}
