package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	ledgerhttp "github.com/aussiebroadwan/ledger/internal/ledger/http"
	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/internal/ledger/store/drivers/jsonfile"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

type attachment struct {
	file, caption string
}

type fakeMessenger struct {
	mu          sync.Mutex
	texts       []string
	attachments []attachment
}

func (m *fakeMessenger) SendText(_ context.Context, _, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return nil
}

func (m *fakeMessenger) SendAttachment(_ context.Context, _, file, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attachments = append(m.attachments, attachment{file, caption})
	return nil
}

type testServer struct {
	handler   http.Handler
	store     store.Store
	messenger *fakeMessenger
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	st, err := jsonfile.NewStore(filepath.Join(dir, "users.json"))
	require.NoError(t, err)

	m := &fakeMessenger{}
	n := &service.Notifier{Messenger: m, Recipient: "1"}
	p := domain.DefaultPolicy()

	r := ledgerhttp.NewRouter("test", st, slogx.Discard())
	r.RegistrarService = &service.RegistrarService{Store: st, Hasher: plainHasher{}, Policy: p, Notifier: n}
	r.ProofService = &service.ProofService{Store: st, Notifier: n}
	r.WithdrawalService = &service.WithdrawalService{Store: st, Policy: p, Notifier: n}
	r.UploadDir = filepath.Join(dir, "uploads")
	r.MaxUploadBytes = 1 << 20
	r.ApplyRoutes()

	return &testServer{handler: r, store: st, messenger: m, uploadDir: r.UploadDir}
}

type plainHasher struct{}

func (plainHasher) Hash(raw string) (string, error) { return "hashed:" + raw, nil }

func (s *testServer) form(t *testing.T, method, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *testServer) register(t *testing.T, username, referral string) ledgersdk.AccountResponse {
	t.Helper()
	rec := s.form(t, http.MethodPost, "/v1/accounts", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"pw"},
		"referral": {referral},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[ledgersdk.AccountResponse](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	require.Equal(t, code, decode[ledgersdk.ErrorResponse](t, rec).Error)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	alice := s.register(t, "alice", "")
	require.NotEmpty(t, alice.ID)
	require.True(t, alice.Balance.Equal(decimal.RequireFromString("0.05")))

	s.register(t, "bob", "alice")

	rec := s.get(t, "/v1/accounts/"+alice.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.NotContains(t, rec.Body.String(), "hashed:")

	alice = decode[ledgersdk.AccountResponse](t, rec)
	require.True(t, alice.Balance.Equal(decimal.RequireFromString("0.06")))
	require.Equal(t, 1, alice.Invites)
}

func TestRegisterErrors(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice", "")

	rec := s.form(t, http.MethodPost, "/v1/accounts", url.Values{
		"username": {"alice"}, "email": {"new@example.com"}, "password": {"pw"},
	})
	requireError(t, rec, http.StatusConflict, ledgersdk.ErrorCodeConflict)

	rec = s.form(t, http.MethodPost, "/v1/accounts", url.Values{"username": {"carol"}})
	requireError(t, rec, http.StatusBadRequest, ledgersdk.ErrorCodeInvalidRequest)
}

func TestGetAccountNotFound(t *testing.T) {
	s := newTestServer(t)
	requireError(t, s.get(t, "/v1/accounts/nope"), http.StatusNotFound, ledgersdk.ErrorCodeNotFound)
}

func TestSetPayoutAddress(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice", "")

	rec := s.form(t, http.MethodPut, "/v1/accounts/"+alice.ID+"/payout-address", url.Values{"payout_address": {"EQ-alice"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "EQ-alice", decode[ledgersdk.AccountResponse](t, rec).PayoutAddress)

	rec = s.form(t, http.MethodPut, "/v1/accounts/"+alice.ID+"/payout-address", url.Values{})
	requireError(t, rec, http.StatusBadRequest, ledgersdk.ErrorCodeInvalidRequest)
}

func TestRequestWithdrawal(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice", "")

	tests := []struct {
		name   string
		userID string
		amount string
		status int
		code   string
	}{
		{name: "over cap", userID: alice.ID, amount: "0.6", status: http.StatusUnprocessableEntity, code: ledgersdk.ErrorCodeLimitExceeded},
		{name: "not a number", userID: alice.ID, amount: "lots", status: http.StatusBadRequest, code: ledgersdk.ErrorCodeInvalidRequest},
		{name: "negative", userID: alice.ID, amount: "-1", status: http.StatusBadRequest, code: ledgersdk.ErrorCodeInvalidRequest},
		{name: "unknown account", userID: "nope", amount: "0.1", status: http.StatusNotFound, code: ledgersdk.ErrorCodeNotFound},
		{name: "missing user", userID: "", amount: "0.1", status: http.StatusNotFound, code: ledgersdk.ErrorCodeNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.form(t, http.MethodPost, "/v1/withdrawals", url.Values{"user_id": {tc.userID}, "amount": {tc.amount}})
			requireError(t, rec, tc.status, tc.code)
		})
	}

	rec := s.form(t, http.MethodPost, "/v1/withdrawals", url.Values{"user_id": {alice.ID}, "amount": {"0.3"}})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	w := decode[ledgersdk.WithdrawalResponse](t, rec)
	require.Equal(t, ledgersdk.StatusPending, w.Status)
	require.NotEmpty(t, w.ID)
	require.Contains(t, s.messenger.texts[len(s.messenger.texts)-1], "/approve_withdraw_"+alice.ID+"_0.3_"+w.ID)
}

func TestRequestWithdrawalNotEligible(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice", "")
	require.NoError(t, s.store.Update(t.Context(), func(l domain.Ledger) error {
		l[alice.ID].Balance = decimal.RequireFromString("0.04")
		return nil
	}))

	rec := s.form(t, http.MethodPost, "/v1/withdrawals", url.Values{"user_id": {alice.ID}, "amount": {"0.01"}})
	requireError(t, rec, http.StatusUnprocessableEntity, ledgersdk.ErrorCodeNotEligible)
}

func multipartProof(t *testing.T, userID string, file []byte, filename string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("user_id", userID))
	if file != nil {
		part, err := mw.CreateFormFile("proof", filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/proofs", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSubmitProof(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice", "")

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, multipartProof(t, alice.ID, []byte("png"), "Screenshot.PNG"))
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	require.Len(t, s.messenger.attachments, 1)
	att := s.messenger.attachments[0]
	require.Equal(t, s.uploadDir, filepath.Dir(att.file))
	require.Equal(t, ".png", filepath.Ext(att.file))
	require.Contains(t, att.caption, "/approve_"+alice.ID)

	stored, err := os.ReadFile(att.file)
	require.NoError(t, err)
	require.Equal(t, "png", string(stored))
}

func TestSubmitProofNotFound(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice", "")

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, multipartProof(t, alice.ID, nil, ""))
	requireError(t, rec, http.StatusNotFound, ledgersdk.ErrorCodeNotFound)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, multipartProof(t, "nope", []byte("png"), "p.png"))
	requireError(t, rec, http.StatusNotFound, ledgersdk.ErrorCodeNotFound)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, multipartProof(t, "", []byte("png"), "p.png"))
	requireError(t, rec, http.StatusNotFound, ledgersdk.ErrorCodeNotFound)

	// Uploads for unresolved accounts were cleaned up.
	entries, _ := os.ReadDir(s.uploadDir)
	require.Empty(t, entries)
	require.Empty(t, s.messenger.attachments)
}

func TestSubmitProofRejectsNonMultipart(t *testing.T) {
	s := newTestServer(t)
	rec := s.form(t, http.MethodPost, "/v1/proofs", url.Values{"user_id": {"x"}})
	requireError(t, rec, http.StatusBadRequest, ledgersdk.ErrorCodeInvalidRequest)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/livez")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[ledgersdk.HealthResponse](t, rec).Status)

	rec = s.get(t, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[ledgersdk.HealthResponse](t, rec)
	require.Equal(t, "ok", health.Checks.Store)
	require.Equal(t, "test", health.Version)
}

type downStore struct{ store.Store }

func (downStore) Ping(context.Context) error { return os.ErrNotExist }

func TestReadyzDegraded(t *testing.T) {
	rec := httptest.NewRecorder()
	ledgerhttp.ReadyzHandler(time.Now(), "test", downStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "degraded", decode[ledgersdk.HealthResponse](t, rec).Status)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	rec := s.get(t, "/livez")
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
