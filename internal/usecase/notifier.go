package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/http/middleware"
	"github.com/xavierca1/leadflow/internal/infra/mail"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelBoth  Channel = "both"
)

// DeliveryReport has one entry per attempted channel; nil means not attempted.
type DeliveryReport struct {
	Email *bool `json:"email,omitempty"`
	SMS   *bool `json:"sms,omitempty"`
}

func (r DeliveryReport) Failed() []string {
	var failed []string
	if r.Email != nil && !*r.Email {
		failed = append(failed, "email")
	}
	if r.SMS != nil && !*r.SMS {
		failed = append(failed, "sms")
	}
	return failed
}

type NotifierConfig struct {
	From       string
	Recipients []string
	SiteName   string
}

// Notifier composes and sends lead notifications. A nil sender means the
// channel has no credentials and every attempt reports false without I/O.
type Notifier struct {
	email EmailSender
	sms   SMSSender
	cfg   NotifierConfig
	log   *zap.Logger
}

func NewNotifier(email EmailSender, sms SMSSender, cfg NotifierConfig, log *zap.Logger) *Notifier {
	return &Notifier{email: email, sms: sms, cfg: cfg, log: log.Named("notifier")}
}

func (n *Notifier) NotifyNewLead(ctx context.Context, lead *entity.Lead) bool {
	if len(n.cfg.Recipients) == 0 || n.email == nil {
		n.log.Debug("new lead notification disabled", zap.String("lead_id", lead.ID))
		return false
	}

	html, err := mail.RenderNewLead(mail.NewLeadData{
		SiteName:    n.cfg.SiteName,
		Name:        lead.CustomerName,
		Phone:       lead.CustomerPhone,
		Email:       lead.CustomerEmail,
		City:        lead.City,
		Notes:       lead.Notes,
		Source:      string(lead.Source),
		LandingPage: lead.LandingPage,
		Priority:    string(lead.Priority),
		LeadID:      lead.ID,
	})
	if err != nil {
		n.log.Error("render new lead email", zap.Error(err))
		return false
	}

	return n.sendEmail(ctx, "new_lead", mail.Message{
		From:    n.cfg.From,
		To:      n.cfg.Recipients,
		Subject: mail.NewLeadSubject(string(lead.Source), lead.LandingPage),
		HTML:    html,
	}, zap.String("lead_id", lead.ID))
}

func (n *Notifier) NotifyContact(ctx context.Context, msg *entity.ContactMessage) bool {
	if len(n.cfg.Recipients) == 0 || n.email == nil {
		return false
	}

	html, err := mail.RenderContact(mail.ContactData{
		SiteName: n.cfg.SiteName,
		Name:     msg.Name,
		Email:    msg.Email,
		Phone:    msg.Phone,
		Business: msg.Business,
		Message:  msg.Message,
	})
	if err != nil {
		n.log.Error("render contact email", zap.Error(err))
		return false
	}

	return n.sendEmail(ctx, "contact", mail.Message{
		From:    n.cfg.From,
		To:      n.cfg.Recipients,
		Subject: fmt.Sprintf("פנייה חדשה | New contact message – %s", msg.Name),
		HTML:    html,
	}, zap.String("contact_id", msg.ID))
}

// NotifyAssignment tells the client about its new lead. Email and SMS run
// independently; one failing does not stop the other.
func (n *Notifier) NotifyAssignment(ctx context.Context, lead *entity.Lead, client *entity.User, channel Channel) DeliveryReport {
	wantEmail := channel == ChannelEmail || channel == ChannelBoth
	wantSMS := channel == ChannelSMS || channel == ChannelBoth

	var report DeliveryReport
	var emailOK, smsOK bool
	var g errgroup.Group

	if wantEmail {
		g.Go(func() error {
			emailOK = n.assignmentEmail(ctx, lead, client)
			return nil
		})
	}
	if wantSMS {
		g.Go(func() error {
			smsOK = n.assignmentSMS(ctx, lead, client)
			return nil
		})
	}
	_ = g.Wait()

	if wantEmail {
		report.Email = &emailOK
	}
	if wantSMS {
		report.SMS = &smsOK
	}
	return report
}

func (n *Notifier) assignmentEmail(ctx context.Context, lead *entity.Lead, client *entity.User) bool {
	if n.email == nil || client.Email == "" {
		return false
	}

	html, err := mail.RenderAssignment(mail.AssignmentData{
		SiteName:   n.cfg.SiteName,
		ClientName: client.Name,
		Name:       lead.CustomerName,
		Phone:      lead.CustomerPhone,
		Email:      lead.CustomerEmail,
		City:       lead.City,
		Notes:      lead.Notes,
		LeadID:     lead.ID,
	})
	if err != nil {
		n.log.Error("render assignment email", zap.Error(err))
		return false
	}

	return n.sendEmail(ctx, "assignment_email", mail.Message{
		From:    n.cfg.From,
		To:      []string{client.Email},
		Subject: "ליד חדש עבורך | New lead assigned to you",
		HTML:    html,
	}, zap.String("lead_id", lead.ID), zap.String("client_id", client.ID))
}

func (n *Notifier) assignmentSMS(ctx context.Context, lead *entity.Lead, client *entity.User) bool {
	if n.sms == nil || client.Phone == "" {
		return false
	}

	err := n.sms.SendSMS(ctx, client.Phone, smsBody(lead))
	ok := err == nil
	middleware.RecordNotification("assignment_sms", ok)
	if !ok {
		n.log.Warn("assignment sms failed",
			zap.String("lead_id", lead.ID),
			zap.String("client_id", client.ID),
			zap.Error(err))
	}
	return ok
}

func (n *Notifier) sendEmail(ctx context.Context, kind string, msg mail.Message, fields ...zap.Field) bool {
	err := n.email.Send(ctx, msg)
	ok := err == nil
	middleware.RecordNotification(kind, ok)
	if !ok {
		n.log.Warn("email notification failed", append(fields, zap.String("kind", kind), zap.Error(err))...)
		return false
	}
	n.log.Debug("email notification sent", append(fields, zap.String("kind", kind), zap.Int("recipients", len(msg.To)))...)
	return true
}

func smsBody(lead *entity.Lead) string {
	parts := []string{"New lead: " + plainText(lead.CustomerName), plainText(lead.CustomerPhone)}
	if lead.City != "" {
		parts = append(parts, plainText(lead.City))
	}
	return strings.Join(parts, ", ")
}
