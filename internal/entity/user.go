package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PackageType string

const (
	PackageStarter      PackageType = "starter"
	PackageProfessional PackageType = "professional"
	PackageEnterprise   PackageType = "enterprise"
	PackagePayPerLead   PackageType = "pay_per_lead"
)

// Unlimited is the sentinel for monthly_lead_limit and categories_allowed.
const Unlimited = -1

// PackageDefaults are the quota values a package implies.
type PackageDefaults struct {
	MonthlyLeadLimit  int  `json:"monthly_lead_limit"`
	CategoriesAllowed int  `json:"categories_allowed"`
	IsVIP             bool `json:"is_vip"`
}

var packageDefaults = map[PackageType]PackageDefaults{
	PackageStarter:      {MonthlyLeadLimit: 20, CategoriesAllowed: 1, IsVIP: false},
	PackageProfessional: {MonthlyLeadLimit: 50, CategoriesAllowed: 3, IsVIP: true},
	PackageEnterprise:   {MonthlyLeadLimit: Unlimited, CategoriesAllowed: Unlimited, IsVIP: true},
	PackagePayPerLead:   {MonthlyLeadLimit: 0, CategoriesAllowed: Unlimited, IsVIP: false},
}

// DefaultsFor returns the quota table row for a package.
func DefaultsFor(p PackageType) (PackageDefaults, bool) {
	d, ok := packageDefaults[p]
	return d, ok
}

// PackageTable returns a copy of the full defaults table.
func PackageTable() map[PackageType]PackageDefaults {
	out := make(map[PackageType]PackageDefaults, len(packageDefaults))
	for k, v := range packageDefaults {
		out[k] = v
	}
	return out
}

// User is a client account that receives leads.
type User struct {
	ID                string      `json:"id" bson:"_id"`
	Name              string      `json:"name" bson:"name"`
	Email             string      `json:"email" bson:"email"`
	Phone             string      `json:"phone" bson:"phone"`
	CompanyName       string      `json:"company_name" bson:"company_name"`
	PackageType       PackageType `json:"package_type" bson:"package_type"`
	MonthlyLeadLimit  int         `json:"monthly_lead_limit" bson:"monthly_lead_limit"`
	CategoriesAllowed int         `json:"categories_allowed" bson:"categories_allowed"`
	IsVIP             bool        `json:"is_vip" bson:"is_vip"`
	IsActive          bool        `json:"is_active" bson:"is_active"`
	Categories        []string    `json:"categories" bson:"categories"`
	CreatedAt         time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" bson:"updated_at"`
}

// NewUser builds an active client with the quota of the given package.
func NewUser(name, email string, pkg PackageType) *User {
	now := time.Now().UTC()
	u := &User{
		ID:          uuid.New().String(),
		Name:        name,
		Email:       email,
		PackageType: pkg,
		IsActive:    true,
		Categories:  []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if d, ok := DefaultsFor(pkg); ok {
		u.MonthlyLeadLimit = d.MonthlyLeadLimit
		u.CategoriesAllowed = d.CategoriesAllowed
		u.IsVIP = d.IsVIP
	}
	return u
}

// Email is immutable after creation, so the patch does not carry it.
type UserPatch struct {
	Name              *string
	Phone             *string
	CompanyName       *string
	PackageType       *PackageType
	MonthlyLeadLimit  *int
	CategoriesAllowed *int
	IsVIP             *bool
	IsActive          *bool
	Categories        *[]string
}

func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.CompanyName == nil && p.PackageType == nil &&
		p.MonthlyLeadLimit == nil && p.CategoriesAllowed == nil && p.IsVIP == nil &&
		p.IsActive == nil && p.Categories == nil
}

func (p UserPatch) Apply(u *User, now time.Time) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.CompanyName != nil {
		u.CompanyName = *p.CompanyName
	}
	if p.PackageType != nil {
		u.PackageType = *p.PackageType
	}
	if p.MonthlyLeadLimit != nil {
		u.MonthlyLeadLimit = *p.MonthlyLeadLimit
	}
	if p.CategoriesAllowed != nil {
		u.CategoriesAllowed = *p.CategoriesAllowed
	}
	if p.IsVIP != nil {
		u.IsVIP = *p.IsVIP
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.Categories != nil {
		u.Categories = append([]string{}, (*p.Categories)...)
	}
	u.UpdatedAt = now
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*User, error)
}
