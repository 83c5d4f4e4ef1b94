package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/validation"
)

// IntakeResult is shared by both intake paths. Errors are user-correctable
// input problems; when present, Lead is nil and nothing was stored.
type IntakeResult struct {
	Lead   *entity.Lead
	Errors []validation.FieldError
}

func (r *IntakeResult) OK() bool {
	return r != nil && r.Lead != nil && len(r.Errors) == 0
}

// IntakeStrategy turns a raw submission into a stored lead. Persistence
// completes before any notification is scheduled.
type IntakeStrategy interface {
	Intake(ctx context.Context, input map[string]any) (*IntakeResult, error)
}

// afterCreate schedules the best-effort side effects of a new lead.
type afterCreate struct {
	notifier   LeadNotifier
	events     EventPublisher
	dispatcher *Dispatcher
	log        *zap.Logger
}

func (a afterCreate) schedule(ctx context.Context, lead *entity.Lead) {
	snapshot := *lead
	a.dispatcher.Go(ctx, "new-lead", func(ctx context.Context) {
		if !a.notifier.NotifyNewLead(ctx, &snapshot) {
			a.log.Info("new lead notification not delivered", zap.String("lead_id", snapshot.ID))
		}
		if err := a.events.PublishLeadEvent(ctx, entity.NewLeadEvent(entity.EventLeadCreated, &snapshot)); err != nil {
			a.log.Warn("publish lead.created failed", zap.String("lead_id", snapshot.ID), zap.Error(err))
		}
	})
}

// AdminIntake runs the full lead.create schema and requires an existing,
// active category.
type AdminIntake struct {
	leads      entity.LeadRepository
	categories entity.CategoryRepository
	validator  *validation.Validator
	after      afterCreate
}

func NewAdminIntake(
	leads entity.LeadRepository,
	categories entity.CategoryRepository,
	validator *validation.Validator,
	notifier LeadNotifier,
	events EventPublisher,
	dispatcher *Dispatcher,
	log *zap.Logger,
) *AdminIntake {
	return &AdminIntake{
		leads:      leads,
		categories: categories,
		validator:  validator,
		after:      afterCreate{notifier: notifier, events: events, dispatcher: dispatcher, log: log.Named("admin-intake")},
	}
}

func (uc *AdminIntake) Intake(ctx context.Context, input map[string]any) (*IntakeResult, error) {
	res := uc.validator.Validate(validation.LeadCreate, input)
	if !res.OK {
		return &IntakeResult{Errors: res.Errors}, nil
	}
	in := res.Value.(*validation.LeadCreateInput)
	validation.SanitizeStruct(in)

	category, err := uc.categories.FindByID(ctx, in.CategoryID)
	if errors.Is(err, entity.ErrCategoryNotFound) {
		return &IntakeResult{Errors: []validation.FieldError{{Field: "category_id", Message: "category_id does not match any category"}}}, nil
	}
	if err != nil {
		return nil, classify("load category", err)
	}
	if !category.IsActive {
		return &IntakeResult{Errors: []validation.FieldError{{Field: "category_id", Message: "category_id refers to an inactive category"}}}, nil
	}

	lead := entity.NewLead(in.CustomerName, in.CustomerPhone, in.CustomerEmail, entity.LeadSourceAdmin)
	lead.City = in.City
	lead.Notes = in.Notes
	lead.CategoryID = &category.ID
	lead.Priority = entity.LeadPriority(in.Priority)

	if err := uc.leads.Create(ctx, lead); err != nil {
		return nil, classify("persist lead", err)
	}

	uc.after.schedule(ctx, lead)
	return &IntakeResult{Lead: lead}, nil
}

const (
	landingMinDigits = 9
	landingMaxNotes  = 1000
)

var landingPhone = regexp.MustCompile(`^[0-9\-+() ]+$`)

// LandingIntake is the public path: only name and phone are checked and the
// lead is stored without a category.
type LandingIntake struct {
	leads entity.LeadRepository
	after afterCreate
}

func NewLandingIntake(leads entity.LeadRepository, notifier LeadNotifier, events EventPublisher, dispatcher *Dispatcher, log *zap.Logger) *LandingIntake {
	return &LandingIntake{
		leads: leads,
		after: afterCreate{notifier: notifier, events: events, dispatcher: dispatcher, log: log.Named("landing-intake")},
	}
}

type landingInput struct {
	Name        string
	Phone       string
	Email       string
	City        string
	LandingPage string
	Notes       string
}

func (uc *LandingIntake) Intake(ctx context.Context, input map[string]any) (*IntakeResult, error) {
	in := landingInput{
		Name:        stringField(input, "name"),
		Phone:       stringField(input, "phone"),
		Email:       stringField(input, "email"),
		City:        stringField(input, "city"),
		LandingPage: stringField(input, "landing_page"),
		Notes:       stringField(input, "notes"),
	}

	if errs := checkLanding(in); len(errs) > 0 {
		return &IntakeResult{Errors: errs}, nil
	}
	validation.SanitizeStruct(&in)

	lead := entity.NewLead(in.Name, in.Phone, in.Email, entity.LeadSourceLandingPage)
	lead.City = in.City
	lead.LandingPage = in.LandingPage
	lead.Notes = in.Notes

	if err := uc.leads.Create(ctx, lead); err != nil {
		return nil, classify("persist lead", err)
	}

	uc.after.schedule(ctx, lead)
	return &IntakeResult{Lead: lead}, nil
}

func checkLanding(in landingInput) []validation.FieldError {
	if in.Name == "" || in.Phone == "" {
		field := "name"
		if in.Name != "" {
			field = "phone"
		}
		return []validation.FieldError{{Field: field, Message: "Name and phone are required"}}
	}

	var errs []validation.FieldError
	if n := utf8.RuneCountInString(in.Name); n < 2 || n > 100 {
		errs = append(errs, validation.FieldError{Field: "name", Message: "Name must be between 2 and 100 characters"})
	}
	if !landingPhone.MatchString(in.Phone) || countDigits(in.Phone) < landingMinDigits {
		errs = append(errs, validation.FieldError{Field: "phone", Message: "Invalid phone number"})
	}
	if in.Email != "" && !validation.IsEmail(in.Email) {
		errs = append(errs, validation.FieldError{Field: "email", Message: "Invalid email address"})
	}
	if utf8.RuneCountInString(in.Notes) > landingMaxNotes {
		errs = append(errs, validation.FieldError{Field: "notes", Message: "Notes must be at most 1000 characters"})
	}
	return errs
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// stringField reads a trimmed string; absent or non-string values are "".
func stringField(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return strings.TrimSpace(s)
}
