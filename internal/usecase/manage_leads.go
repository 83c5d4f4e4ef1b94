package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/validation"
)

type LeadStats struct {
	Total    int64                       `json:"total"`
	ByStatus map[entity.LeadStatus]int64 `json:"by_status"`
}

type ManageLeadsUseCase struct {
	Leads      entity.LeadRepository
	Categories entity.CategoryRepository
	Status     *LeadStatusUseCase
	Validator  *validation.Validator
}

func NewManageLeadsUseCase(leads entity.LeadRepository, categories entity.CategoryRepository, status *LeadStatusUseCase, validator *validation.Validator) *ManageLeadsUseCase {
	return &ManageLeadsUseCase{Leads: leads, Categories: categories, Status: status, Validator: validator}
}

func (uc *ManageLeadsUseCase) Get(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		return nil, classify("load lead", err)
	}
	return lead, nil
}

func (uc *ManageLeadsUseCase) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	if filter.Status != "" && !entity.ValidLeadStatus(string(filter.Status)) {
		return nil, NewValidationError([]validation.FieldError{{Field: "status", Message: "status must be one of: new, sent, converted, returned, invalid"}})
	}
	leads, err := uc.Leads.List(ctx, filter)
	if err != nil {
		return nil, classify("list leads", err)
	}
	return leads, nil
}

func (uc *ManageLeadsUseCase) Stats(ctx context.Context) (*LeadStats, error) {
	counts, err := uc.Leads.CountByStatus(ctx)
	if err != nil {
		return nil, classify("count leads", err)
	}
	stats := &LeadStats{ByStatus: map[entity.LeadStatus]int64{}}
	for _, s := range []entity.LeadStatus{
		entity.LeadStatusNew, entity.LeadStatusSent, entity.LeadStatusConverted,
		entity.LeadStatusReturned, entity.LeadStatusInvalid,
	} {
		stats.ByStatus[s] = counts[s]
		stats.Total += counts[s]
	}
	return stats, nil
}

// Update applies a manual transition, when status is present, and then the
// field edits. A lost transition race leaves the fields untouched.
func (uc *ManageLeadsUseCase) Update(ctx context.Context, id string, input map[string]any) (*entity.Lead, error) {
	res := uc.Validator.Validate(validation.LeadUpdate, input)
	if !res.OK {
		return nil, NewValidationError(res.Errors)
	}
	in := res.Value.(*validation.LeadUpdateInput)
	validation.SanitizeStruct(in)

	if in.CategoryID != nil {
		category, err := uc.Categories.FindByID(ctx, *in.CategoryID)
		if errors.Is(err, entity.ErrCategoryNotFound) {
			return nil, NewValidationError([]validation.FieldError{{Field: "category_id", Message: "category_id does not match any category"}})
		}
		if err != nil {
			return nil, classify("load category", err)
		}
		if !category.IsActive {
			return nil, NewValidationError([]validation.FieldError{{Field: "category_id", Message: "category_id refers to an inactive category"}})
		}
	}

	patch := entity.LeadPatch{
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		City:          in.City,
		Notes:         in.Notes,
		CategoryID:    in.CategoryID,
	}
	if in.Priority != nil {
		p := entity.LeadPriority(*in.Priority)
		patch.Priority = &p
	}

	var lead *entity.Lead
	var err error
	if in.Status != nil {
		if lead, err = uc.Status.Transition(ctx, id, entity.LeadStatus(*in.Status)); err != nil {
			return nil, err
		}
	}
	if !patch.IsEmpty() {
		if lead, err = uc.Leads.Update(ctx, id, patch); err != nil {
			return nil, classify("update lead", err)
		}
	}
	return lead, nil
}
