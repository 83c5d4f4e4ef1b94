package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/http/middleware"
	"github.com/xavierca1/leadflow/internal/validation"
)

type AssignOutput struct {
	Lead     *entity.Lead   `json:"lead"`
	Delivery DeliveryReport `json:"delivery"`
	Warnings []string       `json:"warnings,omitempty"`
}

type AssignLeadUseCase struct {
	Leads     entity.LeadRepository
	Users     entity.UserRepository
	Notifier  LeadNotifier
	Events    EventPublisher
	Validator *validation.Validator
	log       *zap.Logger
	now       func() time.Time
}

func NewAssignLeadUseCase(
	leads entity.LeadRepository,
	users entity.UserRepository,
	notifier LeadNotifier,
	events EventPublisher,
	validator *validation.Validator,
	log *zap.Logger,
) *AssignLeadUseCase {
	return &AssignLeadUseCase{
		Leads:     leads,
		Users:     users,
		Notifier:  notifier,
		Events:    events,
		Validator: validator,
		log:       log.Named("assign"),
		now:       time.Now,
	}
}

// Execute hands a new lead to an active client and notifies the client
// synchronously. A failed notification is reported as a warning; the
// assignment stands.
func (uc *AssignLeadUseCase) Execute(ctx context.Context, leadID string, input map[string]any) (*AssignOutput, error) {
	res := uc.Validator.Validate(validation.LeadAssign, input)
	if !res.OK {
		return nil, NewValidationError(res.Errors)
	}
	in := res.Value.(*validation.AssignInput)

	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, classify("load lead", err)
	}
	if lead.Status != entity.LeadStatusNew || lead.IsAssigned() {
		return nil, classify("assign lead", entity.ErrLeadNotAssignable)
	}

	client, err := uc.Users.FindByID(ctx, in.ClientID)
	if err != nil {
		return nil, classify("load client", err)
	}
	if !client.IsActive {
		return nil, classify("assign lead", entity.ErrClientInactive)
	}

	// the store re-checks status and assignee atomically; losing a race
	// surfaces as ErrLeadNotAssignable here
	assigned, err := uc.Leads.Assign(ctx, lead.ID, client.ID, uc.now().UTC())
	if err != nil {
		return nil, classify("assign lead", err)
	}
	middleware.RecordLeadAssigned()

	out := &AssignOutput{Lead: assigned}
	out.Delivery = uc.Notifier.NotifyAssignment(ctx, assigned, client, Channel(in.Channel))
	for _, ch := range out.Delivery.Failed() {
		out.Warnings = append(out.Warnings, fmt.Sprintf("lead assigned but %s notification to client failed", ch))
	}

	if err := uc.Events.PublishLeadEvent(ctx, entity.NewLeadEvent(entity.EventLeadAssigned, assigned)); err != nil {
		uc.log.Warn("publish lead.assigned failed", zap.String("lead_id", assigned.ID), zap.Error(err))
	}

	uc.log.Info("lead assigned",
		zap.String("lead_id", assigned.ID),
		zap.String("client_id", client.ID),
		zap.String("channel", in.Channel))
	return out, nil
}
