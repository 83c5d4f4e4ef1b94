package main

import (
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/config"
	"github.com/xavierca1/leadflow/internal/infra/integration/emailapi"
	"github.com/xavierca1/leadflow/internal/infra/integration/sms"
	"github.com/xavierca1/leadflow/internal/infra/integration/whatsapp"
	"github.com/xavierca1/leadflow/internal/infra/mail"
	"github.com/xavierca1/leadflow/internal/usecase"
)

// emailSender returns nil when the selected transport has no credentials,
// which the notifier treats as notifications disabled.
func emailSender(cfg *config.Config, log *zap.Logger) usecase.EmailSender {
	switch cfg.Email.Transport {
	case "smtp":
		if cfg.Email.SMTPHost == "" {
			log.Warn("SMTP_HOST not set; email notifications disabled")
			return nil
		}
		return mail.NewSMTPSender(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPUser, cfg.Email.SMTPPass)
	default:
		if cfg.Email.APIKey == "" {
			log.Warn("EMAIL_API_KEY not set; email notifications disabled")
			return nil
		}
		return emailapi.NewClient(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Notify.Timeout)
	}
}

func smsSender(cfg *config.Config, log *zap.Logger) usecase.SMSSender {
	switch cfg.SMS.Provider {
	case "whatsapp":
		client := whatsapp.NewClient(cfg.SMS.WhatsAppToken, cfg.SMS.WhatsAppPhoneID, whatsapp.DefaultBaseURL, cfg.Notify.Timeout, log)
		if !client.Configured() {
			log.Warn("WhatsApp credentials not set; sms notifications disabled")
			return nil
		}
		return mail.NewWhatsAppSender(client, cfg.SMS.WhatsAppTemplate)
	default:
		if cfg.SMS.GatewayURL == "" || cfg.SMS.GatewayToken == "" {
			log.Warn("SMS gateway not configured; sms notifications disabled")
			return nil
		}
		return sms.NewClient(cfg.SMS.GatewayURL, cfg.SMS.GatewayToken, cfg.SMS.Sender, cfg.Notify.Timeout)
	}
}
