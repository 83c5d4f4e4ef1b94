package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusSent      LeadStatus = "sent"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusReturned  LeadStatus = "returned"
	LeadStatusInvalid   LeadStatus = "invalid"
)

type LeadSource string

const (
	LeadSourceAdmin       LeadSource = "admin"
	LeadSourceLandingPage LeadSource = "landing_page"
	LeadSourceContactForm LeadSource = "contact_form"
	LeadSourceAPI         LeadSource = "api"
)

type LeadPriority string

const (
	PriorityLow    LeadPriority = "low"
	PriorityNormal LeadPriority = "normal"
	PriorityHigh   LeadPriority = "high"
	PriorityUrgent LeadPriority = "urgent"
)

type Lead struct {
	ID            string       `json:"id" bson:"_id"`
	CustomerName  string       `json:"customer_name" bson:"customer_name"`
	CustomerPhone string       `json:"customer_phone" bson:"customer_phone"`
	CustomerEmail string       `json:"customer_email" bson:"customer_email"`
	City          string       `json:"city" bson:"city"`
	Notes         string       `json:"notes" bson:"notes"`
	CategoryID    *string      `json:"category_id" bson:"category_id"`
	Priority      LeadPriority `json:"priority" bson:"priority"`
	Source        LeadSource   `json:"source" bson:"source"`
	LandingPage   string       `json:"landing_page,omitempty" bson:"landing_page,omitempty"`
	Status        LeadStatus   `json:"status" bson:"status"`

	// assigned_to and assigned_at are both nil or both set
	AssignedTo *string    `json:"assigned_to" bson:"assigned_to"`
	AssignedAt *time.Time `json:"assigned_at" bson:"assigned_at"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewLead builds a lead in status new with a fresh id and timestamps.
func NewLead(name, phone, email string, source LeadSource) *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:            uuid.New().String(),
		CustomerName:  name,
		CustomerPhone: phone,
		CustomerEmail: email,
		Priority:      PriorityNormal,
		Source:        source,
		Status:        LeadStatusNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (l *Lead) IsAssigned() bool {
	return l.AssignedTo != nil
}

// CanTransition reports whether a lead may move from one status to another
// outside of assignment. new -> sent is reserved for Assign.
func CanTransition(from, to LeadStatus) bool {
	if to == LeadStatusInvalid {
		return from != LeadStatusInvalid
	}
	if from == LeadStatusSent {
		return to == LeadStatusConverted || to == LeadStatusReturned
	}
	return false
}

func ValidLeadStatus(s string) bool {
	switch LeadStatus(s) {
	case LeadStatusNew, LeadStatusSent, LeadStatusConverted, LeadStatusReturned, LeadStatusInvalid:
		return true
	}
	return false
}

// LeadPatch carries the fields an admin may change. Nil means untouched.
type LeadPatch struct {
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	City          *string
	Notes         *string
	CategoryID    *string
	Priority      *LeadPriority
}

func (p LeadPatch) IsEmpty() bool {
	return p.CustomerName == nil && p.CustomerPhone == nil && p.CustomerEmail == nil &&
		p.City == nil && p.Notes == nil && p.CategoryID == nil && p.Priority == nil
}

// Apply merges the patch into the lead and bumps UpdatedAt.
func (p LeadPatch) Apply(l *Lead, now time.Time) {
	if p.CustomerName != nil {
		l.CustomerName = *p.CustomerName
	}
	if p.CustomerPhone != nil {
		l.CustomerPhone = *p.CustomerPhone
	}
	if p.CustomerEmail != nil {
		l.CustomerEmail = *p.CustomerEmail
	}
	if p.City != nil {
		l.City = *p.City
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		l.CategoryID = &id
	}
	if p.Priority != nil {
		l.Priority = *p.Priority
	}
	l.UpdatedAt = now
}

type LeadFilter struct {
	Status     LeadStatus
	CategoryID string
	AssignedTo string
	Source     LeadSource
	Limit      int
	Offset     int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Normalize clamps paging values to the supported range.
func (f *LeadFilter) Normalize() {
	f.Limit, f.Offset = normalizePage(f.Limit, f.Offset)
}

func (f LeadFilter) Matches(l *Lead) bool {
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.CategoryID != "" && (l.CategoryID == nil || *l.CategoryID != f.CategoryID) {
		return false
	}
	if f.AssignedTo != "" && (l.AssignedTo == nil || *l.AssignedTo != f.AssignedTo) {
		return false
	}
	if f.Source != "" && l.Source != f.Source {
		return false
	}
	return true
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	Update(ctx context.Context, id string, patch LeadPatch) (*Lead, error)
	// Assign atomically moves a lead from new to sent. It fails with
	// ErrLeadNotAssignable when the lead is no longer new or already assigned.
	Assign(ctx context.Context, id, clientID string, at time.Time) (*Lead, error)
	// TransitionStatus is a compare-and-set on the status field.
	TransitionStatus(ctx context.Context, id string, from, to LeadStatus) (*Lead, error)
	CountByStatus(ctx context.Context) (map[LeadStatus]int64, error)
}
