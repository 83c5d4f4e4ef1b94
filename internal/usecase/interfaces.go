package usecase

import (
	"context"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/mail"
)

// EmailSender is implemented by the HTTP email API client and the SMTP sender.
type EmailSender interface {
	Send(ctx context.Context, msg mail.Message) error
}

// SMSSender is implemented by the SMS gateway client and the WhatsApp sender.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type EventPublisher interface {
	PublishLeadEvent(ctx context.Context, ev entity.LeadEvent) error
}

// LeadNotifier reports delivery as booleans and never returns errors.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, lead *entity.Lead) bool
	NotifyContact(ctx context.Context, msg *entity.ContactMessage) bool
	NotifyAssignment(ctx context.Context, lead *entity.Lead, client *entity.User, channel Channel) DeliveryReport
}
