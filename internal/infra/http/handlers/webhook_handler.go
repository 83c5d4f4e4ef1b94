package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/usecase"
)

const SignatureHeader = "X-Signature"

// LeadStatusApplier is the part of the status workflow the webhook drives.
type LeadStatusApplier interface {
	ApplyEvent(ctx context.Context, input map[string]any) (*entity.Lead, error)
}

// WebhookHandler receives conversion and return reports from partner
// systems.
type WebhookHandler struct {
	Status LeadStatusApplier
	Secret string
	log    *zap.Logger
}

func NewWebhookHandler(status LeadStatusApplier, secret string, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Status: status, Secret: secret, log: log.Named("webhook")}
}

// Sign returns hex(sha256(body + secret)), the value expected in
// X-Signature.
func Sign(body []byte, secret string) string {
	sum := sha256.Sum256(append(bytes.Clone(body), secret...))
	return hex.EncodeToString(sum[:])
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_BODY", "Could not read body")
		return
	}

	if !h.verify(body, r.Header.Get(SignatureHeader)) {
		h.log.Warn("webhook signature rejected", zap.String("ip", r.RemoteAddr))
		writeErrorResponse(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "invalid_signature")
		return
	}

	var input map[string]any
	if err := json.Unmarshal(body, &input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	lead, err := h.Status.ApplyEvent(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	h.log.Info("lead status updated by webhook",
		zap.String("lead_id", lead.ID),
		zap.String("status", string(lead.Status)))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  lead.Status,
	})
}

// verify rejects everything while no secret is configured.
func (h *WebhookHandler) verify(body []byte, signature string) bool {
	if h.Secret == "" || signature == "" {
		return false
	}
	want := Sign(body, h.Secret)
	return subtle.ConstantTimeCompare([]byte(want), []byte(signature)) == 1
}

var _ LeadStatusApplier = (*usecase.LeadStatusUseCase)(nil)
