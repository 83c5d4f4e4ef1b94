package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/validation"
)

// LeadStatusUseCase moves leads out of sent (converted, returned) or marks
// them invalid. new -> sent belongs to AssignLeadUseCase.
type LeadStatusUseCase struct {
	Leads     entity.LeadRepository
	Events    EventPublisher
	Validator *validation.Validator
	log       *zap.Logger
}

func NewLeadStatusUseCase(leads entity.LeadRepository, events EventPublisher, validator *validation.Validator, log *zap.Logger) *LeadStatusUseCase {
	return &LeadStatusUseCase{Leads: leads, Events: events, Validator: validator, log: log.Named("lead-status")}
}

func (uc *LeadStatusUseCase) Transition(ctx context.Context, id string, to entity.LeadStatus) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, id)
	if err != nil {
		return nil, classify("load lead", err)
	}
	if !entity.CanTransition(lead.Status, to) {
		return nil, classify("transition lead", entity.ErrInvalidTransition)
	}

	updated, err := uc.Leads.TransitionStatus(ctx, id, lead.Status, to)
	if err != nil {
		return nil, classify("transition lead", err)
	}

	if err := uc.Events.PublishLeadEvent(ctx, entity.NewLeadEvent(entity.EventLeadStatus, updated)); err != nil {
		uc.log.Warn("publish lead.status failed", zap.String("lead_id", id), zap.Error(err))
	}
	uc.log.Info("lead status changed",
		zap.String("lead_id", id),
		zap.String("from", string(lead.Status)),
		zap.String("to", string(to)))
	return updated, nil
}

// ApplyEvent handles an external conversion or return report.
func (uc *LeadStatusUseCase) ApplyEvent(ctx context.Context, input map[string]any) (*entity.Lead, error) {
	res := uc.Validator.Validate(validation.LeadEvent, input)
	if !res.OK {
		return nil, NewValidationError(res.Errors)
	}
	in := res.Value.(*validation.LeadEventInput)
	return uc.Transition(ctx, in.LeadID, entity.LeadStatus(in.Event))
}
