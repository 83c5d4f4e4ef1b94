package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/mail"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockSMSSender struct {
	mock.Mock
}

func (m *MockSMSSender) SendSMS(ctx context.Context, to, body string) error {
	args := m.Called(ctx, to, body)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNewLead(ctx context.Context, lead *entity.Lead) bool {
	args := m.Called(ctx, lead)
	return args.Bool(0)
}

func (m *MockNotifier) NotifyContact(ctx context.Context, msg *entity.ContactMessage) bool {
	args := m.Called(ctx, msg)
	return args.Bool(0)
}

func (m *MockNotifier) NotifyAssignment(ctx context.Context, lead *entity.Lead, client *entity.User, channel Channel) DeliveryReport {
	args := m.Called(ctx, lead, client, channel)
	return args.Get(0).(DeliveryReport)
}

// recordingPublisher keeps every event it is given.
type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.LeadEvent
}

func (p *recordingPublisher) PublishLeadEvent(_ context.Context, ev entity.LeadEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []entity.LeadEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entity.LeadEventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
