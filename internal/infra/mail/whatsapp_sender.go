package mail

import (
	"context"
	"fmt"

	"github.com/xavierca1/leadflow/internal/infra/integration/whatsapp"
)

// WhatsAppSender delivers short text notifications as WhatsApp template
// messages. The template must take a single body parameter.
type WhatsAppSender struct {
	client   *whatsapp.Client
	template string
}

func NewWhatsAppSender(client *whatsapp.Client, template string) *WhatsAppSender {
	return &WhatsAppSender{client: client, template: template}
}

func (s *WhatsAppSender) SendSMS(ctx context.Context, to, body string) error {
	if to == "" {
		return fmt.Errorf("whatsapp: empty recipient")
	}
	return s.client.SendMessage(ctx, whatsapp.SendMessageInput{
		PhoneNumber:  to,
		TemplateName: s.template,
		Parameters:   []string{body},
	})
}
