package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/mail"
)

func landingLead() *entity.Lead {
	l := entity.NewLead("Dana", "050-1234567", "dana@example.com", entity.LeadSourceLandingPage)
	l.City = "Haifa"
	l.LandingPage = "spring-promo"
	return l
}

func TestNotifyNewLeadWithoutRecipientsMakesNoCall(t *testing.T) {
	email := new(MockEmailSender)
	n := NewNotifier(email, nil, NotifierConfig{From: "leads@example.com"}, zap.NewNop())

	assert.False(t, n.NotifyNewLead(context.Background(), landingLead()))
	email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotifyNewLeadWithoutCredentialsIsFalse(t *testing.T) {
	n := NewNotifier(nil, nil, NotifierConfig{Recipients: []string{"ops@example.com"}}, zap.NewNop())
	assert.False(t, n.NotifyNewLead(context.Background(), landingLead()))
}

func TestNotifyNewLeadSendsOneMessageToAllRecipients(t *testing.T) {
	email := new(MockEmailSender)
	cfg := NotifierConfig{From: "leads@example.com", Recipients: []string{"a@example.com", "b@example.com"}}
	n := NewNotifier(email, nil, cfg, zap.NewNop())

	email.On("Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return len(m.To) == 2 &&
			m.Subject == "ליד חדש | New lead – spring-promo" &&
			assert.Contains(t, m.HTML, `href="tel:0501234567"`) &&
			assert.Contains(t, m.HTML, "mailto:dana@example.com") &&
			assert.Contains(t, m.HTML, "Haifa")
	})).Return(nil).Once()

	assert.True(t, n.NotifyNewLead(context.Background(), landingLead()))
	email.AssertExpectations(t)
}

func TestNotifyNewLeadProviderFailureIsFalse(t *testing.T) {
	email := new(MockEmailSender)
	n := NewNotifier(email, nil, NotifierConfig{Recipients: []string{"a@example.com"}}, zap.NewNop())
	email.On("Send", mock.Anything, mock.Anything).Return(errors.New("502 bad gateway"))

	assert.False(t, n.NotifyNewLead(context.Background(), landingLead()))
}

func TestNotifyAssignmentChannelsAreIndependent(t *testing.T) {
	email := new(MockEmailSender)
	sms := new(MockSMSSender)
	n := NewNotifier(email, sms, NotifierConfig{}, zap.NewNop())

	client := entity.NewUser("Acme Plumbing", "acme@example.com", entity.PackageStarter)
	client.Phone = "052-7654321"

	email.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	sms.On("SendSMS", mock.Anything, "052-7654321", mock.AnythingOfType("string")).Return(nil)

	report := n.NotifyAssignment(context.Background(), landingLead(), client, ChannelBoth)

	if assert.NotNil(t, report.Email) && assert.NotNil(t, report.SMS) {
		assert.False(t, *report.Email)
		assert.True(t, *report.SMS)
	}
	assert.Equal(t, []string{"email"}, report.Failed())
	sms.AssertExpectations(t)
}

func TestNotifyAssignmentOnlyRequestedChannel(t *testing.T) {
	email := new(MockEmailSender)
	sms := new(MockSMSSender)
	n := NewNotifier(email, sms, NotifierConfig{}, zap.NewNop())
	client := entity.NewUser("Acme", "acme@example.com", entity.PackageStarter)

	email.On("Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return len(m.To) == 1 && m.To[0] == "acme@example.com"
	})).Return(nil)

	report := n.NotifyAssignment(context.Background(), landingLead(), client, ChannelEmail)

	assert.Equal(t, ptr(true), report.Email)
	assert.Nil(t, report.SMS)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyAssignmentSMSWithoutProviderIsFalse(t *testing.T) {
	n := NewNotifier(nil, nil, NotifierConfig{}, zap.NewNop())
	client := entity.NewUser("Acme", "acme@example.com", entity.PackageStarter)
	client.Phone = "052-7654321"

	report := n.NotifyAssignment(context.Background(), landingLead(), client, ChannelSMS)
	assert.Equal(t, ptr(false), report.SMS)
}

func TestSMSBodyIsPlainText(t *testing.T) {
	l := entity.NewLead("Tom &amp; Jerry", "0501234567", "", entity.LeadSourceAdmin)
	assert.Equal(t, "New lead: Tom & Jerry, 0501234567", smsBody(l))
}
