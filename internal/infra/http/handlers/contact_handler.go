package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/usecase"
)

type ContactHandler struct {
	Submit *usecase.SubmitContactUseCase
	log    *zap.Logger
}

func NewContactHandler(uc *usecase.SubmitContactUseCase, log *zap.Logger) *ContactHandler {
	return &ContactHandler{Submit: uc, log: log.Named("contact")}
}

type contactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handle serves POST /api/contact.
func (h *ContactHandler) Handle(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBody(w, r)
	if !ok {
		return
	}

	if _, err := h.Submit.Execute(r.Context(), input); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, contactResponse{
		Success: true,
		Message: "Message sent successfully",
	})
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}

	msgs, err := h.Submit.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
