package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusRead     ContactStatus = "read"
	ContactStatusArchived ContactStatus = "archived"
)

// ContactMessage is a general inquiry from the public contact form.
type ContactMessage struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	Email     string        `json:"email" bson:"email"`
	Phone     string        `json:"phone" bson:"phone"`
	Business  string        `json:"business,omitempty" bson:"business,omitempty"`
	Message   string        `json:"message" bson:"message"`
	Status    ContactStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

func NewContactMessage(name, email, phone, business, message string) *ContactMessage {
	return &ContactMessage{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Business:  business,
		Message:   message,
		Status:    ContactStatusNew,
		CreatedAt: time.Now().UTC(),
	}
}

type ContactRepository interface {
	Create(ctx context.Context, m *ContactMessage) error
	List(ctx context.Context, limit, offset int) ([]*ContactMessage, error)
}

// NormalizePage clamps list paging for contact listings.
func NormalizePage(limit, offset int) (int, int) {
	return normalizePage(limit, offset)
}
