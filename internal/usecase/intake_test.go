package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/memory"
	"github.com/xavierca1/leadflow/internal/validation"
)

type intakeFixture struct {
	leads      *memory.LeadRepository
	categories *memory.CategoryRepository
	notifier   *MockNotifier
	events     *recordingPublisher
	dispatcher *Dispatcher
}

func newIntakeFixture() *intakeFixture {
	return &intakeFixture{
		leads:      memory.NewLeadRepository(),
		categories: memory.NewCategoryRepository(),
		notifier:   new(MockNotifier),
		events:     &recordingPublisher{},
		dispatcher: NewDispatcher(time.Second, zap.NewNop()),
	}
}

func (f *intakeFixture) landing() *LandingIntake {
	return NewLandingIntake(f.leads, f.notifier, f.events, f.dispatcher, zap.NewNop())
}

func (f *intakeFixture) admin() *AdminIntake {
	return NewAdminIntake(f.leads, f.categories, validation.New(), f.notifier, f.events, f.dispatcher, zap.NewNop())
}

func TestLandingIntakeStoresLeadBeforeNotifying(t *testing.T) {
	f := newIntakeFixture()
	ctx := context.Background()

	f.notifier.On("NotifyNewLead", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		// the lead must already be durable when notification runs
		_, err := f.leads.FindByID(ctx, l.ID)
		return err == nil
	})).Return(false)

	res, err := f.landing().Intake(ctx, map[string]any{"name": " Dana ", "phone": "050-1234567"})
	require.NoError(t, err)
	require.True(t, res.OK())

	require.NoError(t, f.dispatcher.Wait(ctx))
	f.notifier.AssertExpectations(t)

	stored, err := f.leads.FindByID(ctx, res.Lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", stored.CustomerName)
	assert.Equal(t, entity.LeadStatusNew, stored.Status)
	assert.Equal(t, entity.LeadSourceLandingPage, stored.Source)
	assert.Nil(t, stored.AssignedTo)
	assert.Nil(t, stored.CategoryID)
	assert.Equal(t, []entity.LeadEventType{entity.EventLeadCreated}, f.events.types())
}

func TestLandingIntakeChecks(t *testing.T) {
	cases := []struct {
		name  string
		input map[string]any
		field string
	}{
		{"missing phone", map[string]any{"name": "Dana"}, "phone"},
		{"missing name", map[string]any{"phone": "050-1234567"}, "name"},
		{"too few digits", map[string]any{"name": "Dana", "phone": "050-123"}, "phone"},
		{"letters in phone", map[string]any{"name": "Dana", "phone": "call me at 1 2 3 4 5 6 7 8 9 please!!"}, "phone"},
		{"digits with text", map[string]any{"name": "Dana", "phone": "050-1234567 ext"}, "phone"},
		{"short name", map[string]any{"name": "D", "phone": "050-1234567"}, "name"},
		{"bad email", map[string]any{"name": "Dana", "phone": "050-1234567", "email": "nope"}, "email"},
		{"non-string phone", map[string]any{"name": "Dana", "phone": 501234567}, "phone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newIntakeFixture()
			res, err := f.landing().Intake(context.Background(), tc.input)

			require.NoError(t, err)
			assert.False(t, res.OK())
			require.NotEmpty(t, res.Errors)
			assert.Equal(t, tc.field, res.Errors[0].Field)

			all, _ := f.leads.List(context.Background(), entity.LeadFilter{})
			assert.Empty(t, all)
		})
	}
}

func TestLandingIntakeSanitizesStrings(t *testing.T) {
	f := newIntakeFixture()
	f.notifier.On("NotifyNewLead", mock.Anything, mock.Anything).Return(true)

	res, err := f.landing().Intake(context.Background(), map[string]any{
		"name":  "<script>x</script>",
		"phone": "050-1234567",
		"notes": `"quoted" & more`,
	})
	require.NoError(t, err)
	require.NoError(t, f.dispatcher.Wait(context.Background()))

	assert.Equal(t, "&lt;script&gt;x&lt;/script&gt;", res.Lead.CustomerName)
	assert.Equal(t, "&quot;quoted&quot; &amp; more", res.Lead.Notes)
}

func TestAdminIntakeRequiresExistingCategory(t *testing.T) {
	f := newIntakeFixture()
	ctx := context.Background()

	res, err := f.admin().Intake(ctx, map[string]any{
		"customer_name":  "Dana",
		"customer_phone": "050-1234567",
		"category_id":    "missing",
	})
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "category_id", res.Errors[0].Field)
}

func TestAdminIntakeCreatesLead(t *testing.T) {
	f := newIntakeFixture()
	ctx := context.Background()
	cat := entity.NewCategory("Plumbing", "אינסטלציה")
	require.NoError(t, f.categories.Create(ctx, cat))
	f.notifier.On("NotifyNewLead", mock.Anything, mock.Anything).Return(true)

	res, err := f.admin().Intake(ctx, map[string]any{
		"customer_name":  "Dana",
		"customer_phone": "050-1234567",
		"category_id":    cat.ID,
		"extra":          "dropped",
	})
	require.NoError(t, err)
	require.True(t, res.OK())
	require.NoError(t, f.dispatcher.Wait(ctx))

	assert.Equal(t, entity.LeadSourceAdmin, res.Lead.Source)
	assert.Equal(t, entity.PriorityNormal, res.Lead.Priority)
	assert.Equal(t, cat.ID, *res.Lead.CategoryID)
	f.notifier.AssertNumberOfCalls(t, "NotifyNewLead", 1)
}

func TestAdminIntakeCollectsAllErrors(t *testing.T) {
	f := newIntakeFixture()
	res, err := f.admin().Intake(context.Background(), map[string]any{
		"customer_name":  "D",
		"customer_phone": "abc",
	})
	require.NoError(t, err)

	fields := map[string]bool{}
	for _, e := range res.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["customer_name"])
	assert.True(t, fields["customer_phone"])
	assert.True(t, fields["category_id"])
}
