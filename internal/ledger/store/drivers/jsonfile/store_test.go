package jsonfile_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/drivers/jsonfile"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/storetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	s, err := jsonfile.NewStore(filepath.Join(t.TempDir(), "data", "users.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, newStore)
}

// legacyDocument is users.json as the Node service left it.
const legacyDocument = `{
  "1700000000000": {
    "id": "1700000000000",
    "username": "alice",
    "email": "alice@example.com",
    "passwordHash": "$2b$10$abcdefghijklmnopqrstuv",
    "balance": 0.06,
    "taskBalance": 0,
    "invites": 1,
    "referred_by": null,
    "tonAddress": "",
    "withdrawals": [{"amount": 0.3, "status": "Pending"}]
  },
  "1700000000001": {
    "id": "1700000000001",
    "username": "bob",
    "email": "bob@example.com",
    "passwordHash": "$2b$10$zyxwvutsrqponmlkjihgfe",
    "balance": 0.05,
    "taskBalance": 0,
    "invites": 0,
    "referred_by": "alice",
    "tonAddress": "",
    "withdrawals": []
  }
}`

func TestLegacyDocumentSurvivesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyDocument), 0o600))

	s, err := jsonfile.NewStore(path)
	require.NoError(t, err)

	l, err := s.Load(t.Context())
	require.NoError(t, err)
	require.True(t, l["1700000000000"].Balance.Equal(decimal.RequireFromString("0.06")))
	require.Equal(t, domain.WithdrawalPending, l["1700000000000"].Withdrawals[0].Status)
	require.Equal(t, "$2b$10$abcdefghijklmnopqrstuv", l["1700000000000"].CredentialHash)
	require.Empty(t, l["1700000000000"].ReferredBy)
	require.Equal(t, "alice", l["1700000000001"].ReferredBy)

	// A write that touches nothing must keep every original field.
	require.NoError(t, s.Update(t.Context(), func(domain.Ledger) error { return nil }))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, "$2b$10$abcdefghijklmnopqrstuv", doc["1700000000000"]["passwordHash"])
	require.Equal(t, "$2b$10$zyxwvutsrqponmlkjihgfe", doc["1700000000001"]["passwordHash"])
	require.Contains(t, doc["1700000000000"], "referred_by")
	require.Nil(t, doc["1700000000000"]["referred_by"])
	require.Equal(t, "alice", doc["1700000000001"]["referred_by"])
	require.Equal(t, []any{}, doc["1700000000001"]["withdrawals"])
	for _, rec := range doc {
		for _, key := range []string{"id", "username", "email", "balance", "taskBalance", "invites", "tonAddress"} {
			require.Contains(t, rec, key)
		}
	}

	reloaded, err := s.Load(t.Context())
	require.NoError(t, err)
	require.Equal(t, l, reloaded)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := jsonfile.NewStore(filepath.Join(dir, "users.json"))
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, s.Save(t.Context(), domain.Ledger{"a": {ID: "a"}}))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "users.json", entries[0].Name())
}

func TestSaveFailureWrapsPersistence(t *testing.T) {
	dir := t.TempDir()
	s, err := jsonfile.NewStore(filepath.Join(dir, "users.json"))
	require.NoError(t, err)

	// Removing the directory makes the temp file impossible to create.
	require.NoError(t, os.RemoveAll(dir))

	err = s.Save(t.Context(), domain.Ledger{"a": {ID: "a"}})
	require.ErrorIs(t, err, store.ErrPersistence)
}
