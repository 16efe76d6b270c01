package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
	"github.com/shopspring/decimal"
)

type WithdrawalHandler struct {
	WithdrawalService *service.WithdrawalService
}

// ServeHTTP godoc
//
//	@Summary		Request Withdrawal
//	@Description	Append a Pending withdrawal and notify the administrator.
//	@Tags			Withdrawals
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			user_id	formData	string	true	"Account id"
//	@Param			amount	formData	string	true	"Decimal amount, e.g. 0.3"
//	@Success		202		{object}	ledgersdk.WithdrawalResponse
//	@Failure		400		{object}	ledgersdk.ErrorResponse	"invalid amount"
//	@Failure		404		{object}	ledgersdk.ErrorResponse	"unknown account"
//	@Failure		422		{object}	ledgersdk.ErrorResponse	"not_eligible or limit_exceeded"
//	@Router			/v1/withdrawals [post].
func (h *WithdrawalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		badRequest(w, "Invalid form data")
		return
	}

	// An empty user id resolves to no account.
	userID := strings.TrimSpace(r.PostFormValue("user_id"))
	amount, err := decimal.NewFromString(strings.TrimSpace(r.PostFormValue("amount")))
	if err != nil {
		badRequest(w, "amount must be a decimal number")
		return
	}

	wd, err := h.WithdrawalService.RequestWithdrawal(ctx, userID, amount)
	if err != nil {
		writeServiceError(w, slogx.FromContext(ctx), err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, toWithdrawalResponse(wd))
}
