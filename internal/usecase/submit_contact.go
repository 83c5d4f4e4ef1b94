package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/validation"
)

type SubmitContactUseCase struct {
	Contacts   entity.ContactRepository
	Notifier   LeadNotifier
	Dispatcher *Dispatcher
	Validator  *validation.Validator
	log        *zap.Logger
}

func NewSubmitContactUseCase(contacts entity.ContactRepository, notifier LeadNotifier, dispatcher *Dispatcher, validator *validation.Validator, log *zap.Logger) *SubmitContactUseCase {
	return &SubmitContactUseCase{
		Contacts:   contacts,
		Notifier:   notifier,
		Dispatcher: dispatcher,
		Validator:  validator,
		log:        log.Named("contact"),
	}
}

func (uc *SubmitContactUseCase) Execute(ctx context.Context, input map[string]any) (*entity.ContactMessage, error) {
	res := uc.Validator.Validate(validation.Contact, input)
	if !res.OK {
		return nil, NewValidationError(res.Errors)
	}
	in := res.Value.(*validation.ContactInput)
	validation.SanitizeStruct(in)

	msg := entity.NewContactMessage(in.Name, in.Email, in.Phone, in.Business, in.Message)
	if err := uc.Contacts.Create(ctx, msg); err != nil {
		return nil, classify("store contact message", err)
	}

	snapshot := *msg
	uc.Dispatcher.Go(ctx, "contact", func(ctx context.Context) {
		if !uc.Notifier.NotifyContact(ctx, &snapshot) {
			uc.log.Info("contact notification not delivered", zap.String("contact_id", snapshot.ID))
		}
	})
	return msg, nil
}

func (uc *SubmitContactUseCase) List(ctx context.Context, limit, offset int) ([]*entity.ContactMessage, error) {
	ms, err := uc.Contacts.List(ctx, limit, offset)
	if err != nil {
		return nil, classify("list contact messages", err)
	}
	return ms, nil
}
