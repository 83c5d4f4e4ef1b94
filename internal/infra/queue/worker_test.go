package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/integration/kommo"
)

type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) CreateLead(ctx context.Context, input kommo.CreateLeadInput) (int, error) {
	args := m.Called(ctx, input)
	return args.Int(0), args.Error(1)
}

func TestHandleCreatedEventPushesToCRM(t *testing.T) {
	crm := new(MockCRM)
	w := NewWorker(nil, crm, zap.NewNop())

	lead := entity.NewLead("Dana", "050-1234567", "", entity.LeadSourceLandingPage)
	body, err := json.Marshal(entity.NewLeadEvent(entity.EventLeadCreated, lead))
	require.NoError(t, err)

	crm.On("CreateLead", mock.Anything, mock.MatchedBy(func(in kommo.CreateLeadInput) bool {
		return in.LeadID == lead.ID && in.Phone == "050-1234567" && in.Source == "landing_page"
	})).Return(12, nil)

	assert.NoError(t, w.handle(context.Background(), body))
	crm.AssertExpectations(t)
}

func TestHandleIgnoresOtherEvents(t *testing.T) {
	crm := new(MockCRM)
	w := NewWorker(nil, crm, zap.NewNop())

	lead := entity.NewLead("Dana", "050-1234567", "", entity.LeadSourceAdmin)
	body, _ := json.Marshal(entity.NewLeadEvent(entity.EventLeadAssigned, lead))

	assert.NoError(t, w.handle(context.Background(), body))
	crm.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestHandleErrors(t *testing.T) {
	crm := new(MockCRM)
	w := NewWorker(nil, crm, zap.NewNop())

	assert.Error(t, w.handle(context.Background(), []byte("{not json")))

	crm.On("CreateLead", mock.Anything, mock.Anything).Return(0, errors.New("kommo down"))
	body, _ := json.Marshal(entity.LeadEvent{Type: entity.EventLeadCreated, LeadID: "x"})
	assert.EqualError(t, w.handle(context.Background(), body), "kommo down")
}
