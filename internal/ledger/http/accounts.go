package http

import (
	"net/http"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

type AccountsHandler struct {
	RegistrarService *service.RegistrarService
}

// HandleRegister godoc
//
//	@Summary		Register Account
//	@Description	Create an account with the welcome bonus. A matching referral credits the referrer.
//	@Tags			Accounts
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string						true	"Unique username"
//	@Param			email		formData	string						true	"Unique email"
//	@Param			password	formData	string						true	"Credential"
//	@Param			referral	formData	string						false	"Referrer's username"
//	@Success		201			{object}	ledgersdk.AccountResponse
//	@Failure		400			{object}	ledgersdk.ErrorResponse	"error, error_description"
//	@Failure		409			{object}	ledgersdk.ErrorResponse	"username or email taken"
//	@Failure		500			{object}	ledgersdk.ErrorResponse	"error, error_description"
//	@Router			/v1/accounts [post].
func (h *AccountsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		badRequest(w, "Invalid form data")
		return
	}

	acc, err := h.RegistrarService.Register(ctx, service.RegisterRequest{
		Username:   r.PostFormValue("username"),
		Email:      r.PostFormValue("email"),
		Referral:   r.PostFormValue("referral"),
		Credential: r.PostFormValue("password"),
	})
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAccountResponse(acc))
}

// HandleGet godoc
//
//	@Summary		Get Account
//	@Tags			Accounts
//	@Produce		json
//	@Param			id	path		string	true	"Account id"
//	@Success		200	{object}	ledgersdk.AccountResponse
//	@Failure		404	{object}	ledgersdk.ErrorResponse
//	@Router			/v1/accounts/{id} [get].
func (h *AccountsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	acc, err := h.RegistrarService.GetAccount(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(acc))
}

// HandleSetPayoutAddress godoc
//
//	@Summary		Set Payout Address
//	@Tags			Accounts
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			id				path		string	true	"Account id"
//	@Param			payout_address	formData	string	true	"Wallet address approved withdrawals are paid to"
//	@Success		200				{object}	ledgersdk.AccountResponse
//	@Failure		400				{object}	ledgersdk.ErrorResponse
//	@Failure		404				{object}	ledgersdk.ErrorResponse
//	@Router			/v1/accounts/{id}/payout-address [put].
func (h *AccountsHandler) HandleSetPayoutAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		badRequest(w, "Invalid form data")
		return
	}

	acc, err := h.RegistrarService.SetPayoutAddress(ctx, r.PathValue("id"), r.PostFormValue("payout_address"))
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(acc))
}

func toAccountResponse(a domain.Account) ledgersdk.AccountResponse {
	ws := make([]ledgersdk.WithdrawalResponse, 0, len(a.Withdrawals))
	for _, w := range a.Withdrawals {
		ws = append(ws, toWithdrawalResponse(w))
	}
	return ledgersdk.AccountResponse{
		ID:            a.ID,
		Username:      a.Username,
		Email:         a.Email,
		Balance:       a.Balance,
		TaskBalance:   a.TaskBalance,
		Invites:       a.Invites,
		ReferredBy:    a.ReferredBy,
		PayoutAddress: a.PayoutAddress,
		Withdrawals:   ws,
		CreatedAt:     a.CreatedAt,
	}
}

func toWithdrawalResponse(w domain.Withdrawal) ledgersdk.WithdrawalResponse {
	return ledgersdk.WithdrawalResponse{
		ID:          w.ID,
		Amount:      w.Amount,
		Status:      string(w.Status),
		RequestedAt: w.RequestedAt,
		ResolvedAt:  w.ResolvedAt,
	}
}
