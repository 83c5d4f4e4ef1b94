package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/http/middleware"
	"github.com/xavierca1/leadflow/internal/usecase"
)

type LeadHandler struct {
	Landing usecase.IntakeStrategy
	Admin   usecase.IntakeStrategy
	Manage  *usecase.ManageLeadsUseCase
	Assign  *usecase.AssignLeadUseCase
	log     *zap.Logger
}

func NewLeadHandler(
	landing usecase.IntakeStrategy,
	admin usecase.IntakeStrategy,
	manage *usecase.ManageLeadsUseCase,
	assign *usecase.AssignLeadUseCase,
	log *zap.Logger,
) *LeadHandler {
	return &LeadHandler{
		Landing: landing,
		Admin:   admin,
		Manage:  manage,
		Assign:  assign,
		log:     log.Named("leads"),
	}
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
}

// CaptureLanding handles POST /api/leads/landing.
func (h *LeadHandler) CaptureLanding(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBody(w, r)
	if !ok {
		return
	}

	res, err := h.Landing.Intake(r.Context(), input)
	if err != nil {
		h.log.Error("landing intake failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to submit lead"})
		return
	}
	if !res.OK() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": res.Errors[0].Message})
		return
	}

	middleware.RecordLeadCreated(string(res.Lead.Source))
	writeJSON(w, http.StatusCreated, CaptureLeadResponse{
		Success: true,
		Message: "Lead submitted successfully",
		ID:      res.Lead.ID,
	})
}

// Create handles POST /api/admin/leads.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBody(w, r)
	if !ok {
		return
	}

	res, err := h.Admin.Intake(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if !res.OK() {
		writeError(w, h.log, usecase.NewValidationError(res.Errors))
		return
	}

	middleware.RecordLeadCreated(string(res.Lead.Source))
	writeJSON(w, http.StatusCreated, res.Lead)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := entity.LeadFilter{
		Status:     entity.LeadStatus(q.Get("status")),
		CategoryID: q.Get("category_id"),
		AssignedTo: q.Get("assigned_to"),
		Source:     entity.LeadSource(q.Get("source")),
		Limit:      limit,
		Offset:     offset,
	}

	leads, err := h.Manage.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Manage.Stats(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Manage.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBody(w, r)
	if !ok {
		return
	}

	lead, err := h.Manage.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// AssignLead handles POST /api/admin/leads/{id}/assign. Delivery problems
// come back as warnings on a 200.
func (h *LeadHandler) AssignLead(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBody(w, r)
	if !ok {
		return
	}

	out, err := h.Assign.Execute(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
