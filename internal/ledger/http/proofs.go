package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

type ProofHandler struct {
	ProofService   *service.ProofService
	UploadDir      string
	MaxUploadBytes int64
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// ServeHTTP godoc
//
//	@Summary		Submit Task Proof
//	@Description	Upload a proof image; it is forwarded to the administrator for approval.
//	@Tags			Proofs
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			user_id	formData	string	true	"Account id"
//	@Param			proof	formData	file	true	"Proof image"
//	@Success		202		{object}	ledgersdk.ProofResponse
//	@Failure		400		{object}	ledgersdk.ErrorResponse
//	@Failure		404		{object}	ledgersdk.ErrorResponse	"unknown account or missing proof"
//	@Router			/v1/proofs [post].
func (h *ProofHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, ledgersdk.ErrorCodeInvalidRequest, "Proof is too large")
			return
		}
		badRequest(w, "Expected multipart form data")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	// An empty user id or a missing file is passed through; the service
	// reports both as not found.
	userID := strings.TrimSpace(r.FormValue("user_id"))
	var proofRef string
	file, header, err := r.FormFile("proof")
	switch {
	case err == nil:
		defer file.Close()
		proofRef, err = h.store(file, header.Filename)
		if err != nil {
			log.Error("failed to store proof", slog.Any("error", err))
			httpx.WriteError(w, http.StatusInternalServerError, ledgersdk.ErrorCodeServerError, "Failed to store proof")
			return
		}
	case errors.Is(err, http.ErrMissingFile):
	default:
		badRequest(w, "Invalid proof upload")
		return
	}

	if err := h.ProofService.SubmitProof(ctx, userID, proofRef); err != nil {
		if proofRef != "" {
			_ = os.Remove(proofRef)
		}
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, ledgersdk.ProofResponse{UserID: userID, Status: "submitted"})
}

// store copies the upload into UploadDir under a fresh ULID name.
func (h *ProofHandler) store(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.UploadDir, 0o750); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		ext = ""
	}
	path := filepath.Join(h.UploadDir, idx.New().String()+ext)

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("copy proof: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
