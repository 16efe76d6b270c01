package service_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/drivers/jsonfile"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type sent struct {
	Recipient string
	Text      string
	File      string
}

// recordingMessenger captures everything sent to the admin.
type recordingMessenger struct {
	mu   sync.Mutex
	msgs []sent
	err  error
}

func (m *recordingMessenger) SendText(_ context.Context, recipient, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, sent{Recipient: recipient, Text: text})
	return m.err
}

func (m *recordingMessenger) SendAttachment(_ context.Context, recipient, fileRef, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, sent{Recipient: recipient, Text: caption, File: fileRef})
	return m.err
}

func (m *recordingMessenger) all() []sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sent(nil), m.msgs...)
}

func (m *recordingMessenger) last(t *testing.T) sent {
	t.Helper()
	msgs := m.all()
	require.NotEmpty(t, msgs, "no message sent")
	return msgs[len(msgs)-1]
}

type plainHasher struct{}

func (plainHasher) Hash(raw string) (string, error) { return "hashed:" + raw, nil }

// failingStore reads from the wrapped store but never manages to save.
type failingStore struct {
	store.Store
}

func (f failingStore) Save(ctx context.Context, l domain.Ledger) error {
	return fmt.Errorf("%w: disk full", store.ErrPersistence)
}

func (f failingStore) Update(ctx context.Context, fn func(domain.Ledger) error) error {
	l, err := f.Store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	return f.Save(ctx, l)
}

type fixture struct {
	store       store.Store
	messenger   *recordingMessenger
	registrar   *service.RegistrarService
	proofs      *service.ProofService
	withdrawals *service.WithdrawalService
	admin       *service.AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := jsonfile.NewStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return newFixtureWithStore(st)
}

func newFixtureWithStore(st store.Store) *fixture {
	m := &recordingMessenger{}
	n := &service.Notifier{Messenger: m, Recipient: "admin"}
	p := domain.DefaultPolicy()
	return &fixture{
		store:       st,
		messenger:   m,
		registrar:   &service.RegistrarService{Store: st, Hasher: plainHasher{}, Policy: p, Notifier: n},
		proofs:      &service.ProofService{Store: st, Notifier: n},
		withdrawals: &service.WithdrawalService{Store: st, Policy: p, Notifier: n},
		admin:       &service.AdminService{Store: st, Policy: p, Notifier: n},
	}
}

func (f *fixture) register(t *testing.T, username, referral string) domain.Account {
	t.Helper()
	acc, err := f.registrar.Register(t.Context(), service.RegisterRequest{
		Username:   username,
		Email:      username + "@example.com",
		Referral:   referral,
		Credential: "secret-" + username,
	})
	require.NoError(t, err)
	return acc
}

func (f *fixture) account(t *testing.T, id string) domain.Account {
	t.Helper()
	acc, err := f.registrar.GetAccount(t.Context(), id)
	require.NoError(t, err)
	return acc
}

// setBalance writes a balance directly, bypassing the services.
func (f *fixture) setBalance(t *testing.T, id string, balance string) {
	t.Helper()
	require.NoError(t, f.store.Update(t.Context(), func(l domain.Ledger) error {
		acc, ok := l[id]
		if !ok {
			return errors.New("no such account")
		}
		acc.Balance = dec(balance)
		return nil
	}))
}
