package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/usecase"
)

type UserHandler struct {
	Users *usecase.ManageUsersUseCase
	log   *zap.Logger
}

func NewUserHandler(uc *usecase.ManageUsersUseCase, log *zap.Logger) *UserHandler {
	return &UserHandler{Users: uc, log: log.Named("users")}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBody(w, r)
	if !ok {
		return
	}

	u, err := h.Users.Register(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	us, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, us)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBody(w, r)
	if !ok {
		return
	}

	u, err := h.Users.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Packages lists the quota defaults each package implies.
func (h *UserHandler) Packages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Users.Packages())
}
