package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category is a service classification shown in both English and Hebrew.
type Category struct {
	ID            string    `json:"id" bson:"_id" yaml:"id"`
	NameEN        string    `json:"name_en" bson:"name_en" yaml:"name_en"`
	NameHE        string    `json:"name_he" bson:"name_he" yaml:"name_he"`
	DescriptionEN string    `json:"description_en" bson:"description_en" yaml:"description_en"`
	DescriptionHE string    `json:"description_he" bson:"description_he" yaml:"description_he"`
	Icon          string    `json:"icon" bson:"icon" yaml:"icon"`
	IsActive      bool      `json:"is_active" bson:"is_active" yaml:"is_active"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" yaml:"-"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at" yaml:"-"`
}

func NewCategory(nameEN, nameHE string) *Category {
	now := time.Now().UTC()
	return &Category{
		ID:        uuid.New().String(),
		NameEN:    nameEN,
		NameHE:    nameHE,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type CategoryPatch struct {
	NameEN        *string
	NameHE        *string
	DescriptionEN *string
	DescriptionHE *string
	Icon          *string
	IsActive      *bool
}

func (p CategoryPatch) IsEmpty() bool {
	return p.NameEN == nil && p.NameHE == nil && p.DescriptionEN == nil &&
		p.DescriptionHE == nil && p.Icon == nil && p.IsActive == nil
}

func (p CategoryPatch) Apply(c *Category, now time.Time) {
	if p.NameEN != nil {
		c.NameEN = *p.NameEN
	}
	if p.NameHE != nil {
		c.NameHE = *p.NameHE
	}
	if p.DescriptionEN != nil {
		c.DescriptionEN = *p.DescriptionEN
	}
	if p.DescriptionHE != nil {
		c.DescriptionHE = *p.DescriptionHE
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	c.UpdatedAt = now
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context, activeOnly bool) ([]*Category, error)
	Update(ctx context.Context, id string, patch CategoryPatch) (*Category, error)
	// Deactivate is a soft delete.
	Deactivate(ctx context.Context, id string) error
}
