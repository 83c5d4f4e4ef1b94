package entity

import "time"

type LeadEventType string

const (
	EventLeadCreated  LeadEventType = "lead.created"
	EventLeadAssigned LeadEventType = "lead.assigned"
	EventLeadStatus   LeadEventType = "lead.status"
)

// LeadEvent is published after a lead changes. The type doubles as the
// routing key on the broker.
type LeadEvent struct {
	Type          LeadEventType `json:"type"`
	LeadID        string        `json:"lead_id"`
	Status        LeadStatus    `json:"status"`
	Source        LeadSource    `json:"source"`
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	City          string        `json:"city,omitempty"`
	CategoryID    *string       `json:"category_id,omitempty"`
	AssignedTo    *string       `json:"assigned_to,omitempty"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

func NewLeadEvent(t LeadEventType, l *Lead) LeadEvent {
	return LeadEvent{
		Type:          t,
		LeadID:        l.ID,
		Status:        l.Status,
		Source:        l.Source,
		CustomerName:  l.CustomerName,
		CustomerPhone: l.CustomerPhone,
		CustomerEmail: l.CustomerEmail,
		City:          l.City,
		CategoryID:    l.CategoryID,
		AssignedTo:    l.AssignedTo,
		OccurredAt:    time.Now().UTC(),
	}
}
