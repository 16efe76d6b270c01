package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
)

func badRequest(w http.ResponseWriter, description string) {
	httpx.WriteError(w, http.StatusBadRequest, ledgersdk.ErrorCodeInvalidRequest, description)
}

// writeServiceError maps service errors onto the API's error codes.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrInvalidAmount):
		badRequest(w, err.Error())
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, ledgersdk.ErrorCodeConflict, "Username or email is already registered")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, ledgersdk.ErrorCodeNotFound, err.Error())
	case errors.Is(err, service.ErrNotEligible):
		httpx.WriteError(w, http.StatusUnprocessableEntity, ledgersdk.ErrorCodeNotEligible, "Balance is below the withdrawal threshold")
	case errors.Is(err, service.ErrLimitExceeded):
		httpx.WriteError(w, http.StatusUnprocessableEntity, ledgersdk.ErrorCodeLimitExceeded, "Amount exceeds the single withdrawal limit")
	default:
		log.Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, ledgersdk.ErrorCodeServerError, "Internal server error")
	}
}
