package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/usecase"
)

type CategoryHandler struct {
	Categories *usecase.ManageCategoriesUseCase
	log        *zap.Logger
}

func NewCategoryHandler(uc *usecase.ManageCategoriesUseCase, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{Categories: uc, log: log.Named("categories")}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBody(w, r)
	if !ok {
		return
	}

	c, err := h.Categories.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// List serves GET /api/admin/categories; ?active=true hides inactive ones.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Categories.List(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBody(w, r)
	if !ok {
		return
	}

	c, err := h.Categories.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.Categories.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
