package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/waitlist-api/pkg/app/errors"
	apphttp "github.com/chainsafe/waitlist-api/pkg/app/http"
	"github.com/chainsafe/waitlist-api/pkg/auth"
	"github.com/chainsafe/waitlist-api/pkg/waitlist"
)

// maxBodyBytes caps request bodies read by the waitlist handlers.
const maxBodyBytes = 1 << 20 // 1MB

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service  Service
	verifier auth.AdminVerifier
	logger   *zap.Logger
}

// adminProof carries the wallet-signature proof repeated on every
// privileged request.
type adminProof struct {
	WalletAddress string `json:"walletAddress"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

type adminListRequest struct {
	adminProof
	waitlist.ListRequest
}

type setStatusRequest struct {
	adminProof
	Status waitlist.Status `json:"status"`
}

type postURLRequest struct {
	adminProof
	PostURL string `json:"postUrl"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

type verifyResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	AlreadyVerified bool   `json:"alreadyVerified"`
}

// RegisterRoutes registers waitlist HTTP endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, verifier auth.AdminVerifier, logger *zap.Logger) {
	h := &HTTP{
		service:  service,
		verifier: verifier,
		logger:   logger,
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/waitlist", apphttp.HandleError(h.submit))
		r.Get("/verify-email/{token}", apphttp.HandleError(h.verifyEmail))

		// Everything below mutates existing entries, so it stays behind the
		// wallet-signature proof. The public path only ever creates.
		r.Route("/admin", func(r chi.Router) {
			r.Post("/waitlist", apphttp.HandleError(h.adminList))
			r.Post("/waitlist/{id}/status", apphttp.HandleError(h.adminSetStatus))
			r.Post("/waitlist/{id}/post-url", apphttp.HandleError(h.adminRecordPostURL))
			r.Post("/waitlist/{id}/delete", apphttp.HandleError(h.adminDelete))
			r.Post("/waitlist/{id}/resend-verification", apphttp.HandleError(h.adminResendVerification))
			r.Post("/waitlist/export", apphttp.HandleError(h.adminExport))
			r.Get("/stats", apphttp.HandleError(h.adminStats))
		})
	})
}

func (h *HTTP) submit(w http.ResponseWriter, r *http.Request) error {
	var req waitlist.SubmitRequest
	if err := h.readJSON(r, &req); err != nil {
		return err
	}

	resp, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusCreated, &submitResponse{
		Success: true,
		Message: "You're on the waitlist! Check your email to verify your address.",
		ID:      resp.ID,
	})
	return nil
}

func (h *HTTP) verifyEmail(w http.ResponseWriter, r *http.Request) error {
	token := chi.URLParam(r, "token")

	resp, err := h.service.VerifyByToken(r.Context(), token)
	if err != nil {
		return err
	}

	message := "Email verified. Your spot on the waitlist is confirmed."
	if resp.AlreadyVerified {
		message = "Email was already verified."
	}
	h.writeJSON(w, http.StatusOK, &verifyResponse{
		Success:         true,
		Message:         message,
		AlreadyVerified: resp.AlreadyVerified,
	})
	return nil
}

func (h *HTTP) adminRecordPostURL(w http.ResponseWriter, r *http.Request) error {
	var req postURLRequest
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	ctx, err := h.requireAdmin(r, &req.adminProof)
	if err != nil {
		return err
	}

	if err := h.service.RecordPostURL(ctx, chi.URLParam(r, "id"), req.PostURL); err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, &actionResponse{Success: true, Message: "Post recorded."})
	return nil
}

func (h *HTTP) adminList(w http.ResponseWriter, r *http.Request) error {
	var req adminListRequest
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	ctx, err := h.requireAdmin(r, &req.adminProof)
	if err != nil {
		return err
	}

	resp, err := h.service.ListForAdmin(ctx, &req.ListRequest)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) adminSetStatus(w http.ResponseWriter, r *http.Request) error {
	var req setStatusRequest
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	ctx, err := h.requireAdmin(r, &req.adminProof)
	if err != nil {
		return err
	}

	if err := h.service.SetStatus(ctx, chi.URLParam(r, "id"), req.Status); err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, &actionResponse{Success: true, Message: "Status updated."})
	return nil
}

func (h *HTTP) adminDelete(w http.ResponseWriter, r *http.Request) error {
	var req adminProof
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	ctx, err := h.requireAdmin(r, &req)
	if err != nil {
		return err
	}

	if err := h.service.Remove(ctx, chi.URLParam(r, "id")); err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, &actionResponse{Success: true, Message: "Entry deleted."})
	return nil
}

func (h *HTTP) adminResendVerification(w http.ResponseWriter, r *http.Request) error {
	var req adminProof
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	ctx, err := h.requireAdmin(r, &req)
	if err != nil {
		return err
	}

	if err := h.service.ResendVerification(ctx, chi.URLParam(r, "id")); err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, &actionResponse{Success: true, Message: "Verification email sent."})
	return nil
}

func (h *HTTP) adminExport(w http.ResponseWriter, r *http.Request) error {
	var req adminProof
	if err := h.readJSON(r, &req); err != nil {
		return err
	}
	ctx, err := h.requireAdmin(r, &req)
	if err != nil {
		return err
	}

	data, err := h.service.ExportCSV(ctx)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("waitlist-export-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	return nil
}

func (h *HTTP) adminStats(w http.ResponseWriter, r *http.Request) error {
	// GET carries the proof in headers rather than a body.
	proof := adminProof{
		WalletAddress: r.Header.Get("X-Wallet-Address"),
		Signature:     r.Header.Get("X-Signature"),
		Message:       r.Header.Get("X-Message"),
	}
	ctx, err := h.requireAdmin(r, &proof)
	if err != nil {
		return err
	}

	stats, err := h.service.Statistics(ctx)
	if err != nil {
		return err
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
	return nil
}

// requireAdmin verifies the wallet-signature proof and returns the request
// context annotated with the normalized admin address.
func (h *HTTP) requireAdmin(r *http.Request, proof *adminProof) (context.Context, error) {
	addr, err := h.verifier.Verify(proof.WalletAddress, proof.Signature, proof.Message)
	if err != nil {
		return nil, err
	}
	return auth.WithAdminAddress(r.Context(), addr), nil
}

func (h *HTTP) readJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
