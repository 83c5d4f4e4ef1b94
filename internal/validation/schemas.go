package validation

import (
	"fmt"
	"reflect"

	"github.com/xavierca1/leadflow/internal/entity"
)

// Schema names a request shape known to the Validator.
type Schema string

const (
	LeadCreate     Schema = "lead.create"
	LeadUpdate     Schema = "lead.update"
	LeadAssign     Schema = "lead.assign"
	LeadEvent      Schema = "lead.event"
	UserRegister   Schema = "user.register"
	UserUpdate     Schema = "user.update"
	Contact        Schema = "contact"
	CategoryCreate Schema = "category.create"
	CategoryUpdate Schema = "category.update"
)

type schemaDef struct {
	target func() any
	// partial schemas need at least one recognised field
	partial bool
}

var registry = map[Schema]schemaDef{
	LeadCreate:     {target: func() any { return &LeadCreateInput{} }},
	LeadUpdate:     {target: func() any { return &LeadUpdateInput{} }, partial: true},
	LeadAssign:     {target: func() any { return &AssignInput{} }},
	LeadEvent:      {target: func() any { return &LeadEventInput{} }},
	UserRegister:   {target: func() any { return &UserRegisterInput{} }},
	UserUpdate:     {target: func() any { return &UserUpdateInput{} }, partial: true},
	Contact:        {target: func() any { return &ContactInput{} }},
	CategoryCreate: {target: func() any { return &CategoryCreateInput{} }},
	CategoryUpdate: {target: func() any { return &CategoryUpdateInput{} }, partial: true},
}

// defaulter is implemented by inputs that fill optional fields after decoding.
type defaulter interface {
	ApplyDefaults()
}

// crossChecker is implemented by inputs with rules spanning several fields.
type crossChecker interface {
	CrossCheck() []FieldError
}

type LeadCreateInput struct {
	CustomerName  string `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone string `json:"customer_phone" validate:"required,phone"`
	CustomerEmail string `json:"customer_email" validate:"email_or_empty"`
	City          string `json:"city" validate:"max=100"`
	Notes         string `json:"notes" validate:"max=2000"`
	CategoryID    string `json:"category_id" validate:"required"`
	Priority      string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

func (in *LeadCreateInput) ApplyDefaults() {
	if in.Priority == "" {
		in.Priority = string(entity.PriorityNormal)
	}
}

type LeadUpdateInput struct {
	CustomerName  *string `json:"customer_name" validate:"omitempty,min=2,max=100"`
	CustomerPhone *string `json:"customer_phone" validate:"omitempty,phone"`
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email_or_empty"`
	City          *string `json:"city" validate:"omitempty,max=100"`
	Notes         *string `json:"notes" validate:"omitempty,max=2000"`
	CategoryID    *string `json:"category_id" validate:"omitempty,min=1"`
	Priority      *string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Status        *string `json:"status" validate:"omitempty,oneof=converted returned invalid"`
}

type AssignInput struct {
	ClientID string `json:"client_id" validate:"required"`
	Channel  string `json:"channel" validate:"omitempty,oneof=email sms both"`
}

func (in *AssignInput) ApplyDefaults() {
	if in.Channel == "" {
		in.Channel = "email"
	}
}

type LeadEventInput struct {
	LeadID string `json:"lead_id" validate:"required"`
	Event  string `json:"event" validate:"required,oneof=converted returned"`
}

type UserRegisterInput struct {
	Name              string   `json:"name" validate:"required,min=2,max=100"`
	Email             string   `json:"email" validate:"required,email"`
	Phone             string   `json:"phone" validate:"omitempty,phone"`
	CompanyName       string   `json:"company_name" validate:"max=100"`
	PackageType       string   `json:"package_type" validate:"required,oneof=starter professional enterprise pay_per_lead"`
	MonthlyLeadLimit  *int     `json:"monthly_lead_limit" validate:"omitempty,gte=-1"`
	CategoriesAllowed *int     `json:"categories_allowed" validate:"omitempty,gte=-1"`
	IsVIP             *bool    `json:"is_vip"`
	IsActive          *bool    `json:"is_active"`
	Categories        []string `json:"categories" validate:"omitempty,dive,required"`
}

// ApplyDefaults fills quota fields left out of the request from the package table.
func (in *UserRegisterInput) ApplyDefaults() {
	if in.IsActive == nil {
		active := true
		in.IsActive = &active
	}
	if in.Categories == nil {
		in.Categories = []string{}
	}
	d, ok := entity.DefaultsFor(entity.PackageType(in.PackageType))
	if !ok {
		return
	}
	if in.MonthlyLeadLimit == nil {
		in.MonthlyLeadLimit = &d.MonthlyLeadLimit
	}
	if in.CategoriesAllowed == nil {
		in.CategoriesAllowed = &d.CategoriesAllowed
	}
	if in.IsVIP == nil {
		in.IsVIP = &d.IsVIP
	}
}

func (in *UserRegisterInput) CrossCheck() []FieldError {
	if in.CategoriesAllowed == nil {
		return nil
	}
	return CheckCategoryAllowance(in.Categories, *in.CategoriesAllowed)
}

type UserUpdateInput struct {
	Name              *string   `json:"name" validate:"omitempty,min=2,max=100"`
	Phone             *string   `json:"phone" validate:"omitempty,phone"`
	CompanyName       *string   `json:"company_name" validate:"omitempty,max=100"`
	PackageType       *string   `json:"package_type" validate:"omitempty,oneof=starter professional enterprise pay_per_lead"`
	MonthlyLeadLimit  *int      `json:"monthly_lead_limit" validate:"omitempty,gte=-1"`
	CategoriesAllowed *int      `json:"categories_allowed" validate:"omitempty,gte=-1"`
	IsVIP             *bool     `json:"is_vip"`
	IsActive          *bool     `json:"is_active"`
	Categories        *[]string `json:"categories" validate:"omitempty,dive,required"`
}

// ApplyDefaults overwrites quota fields when a package is selected, unless the
// same request sets them explicitly.
func (in *UserUpdateInput) ApplyDefaults() {
	if in.PackageType == nil {
		return
	}
	d, ok := entity.DefaultsFor(entity.PackageType(*in.PackageType))
	if !ok {
		return
	}
	if in.MonthlyLeadLimit == nil {
		in.MonthlyLeadLimit = &d.MonthlyLeadLimit
	}
	if in.CategoriesAllowed == nil {
		in.CategoriesAllowed = &d.CategoriesAllowed
	}
	if in.IsVIP == nil {
		in.IsVIP = &d.IsVIP
	}
}

type ContactInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Business string `json:"business" validate:"max=100"`
	Message  string `json:"message" validate:"required,min=10,max=2000"`
}

type CategoryCreateInput struct {
	NameEN        string `json:"name_en" validate:"required,min=2,max=100"`
	NameHE        string `json:"name_he" validate:"required,min=2,max=100"`
	DescriptionEN string `json:"description_en" validate:"max=500"`
	DescriptionHE string `json:"description_he" validate:"max=500"`
	Icon          string `json:"icon" validate:"max=50"`
	IsActive      *bool  `json:"is_active"`
}

func (in *CategoryCreateInput) ApplyDefaults() {
	if in.IsActive == nil {
		active := true
		in.IsActive = &active
	}
}

type CategoryUpdateInput struct {
	NameEN        *string `json:"name_en" validate:"omitempty,min=2,max=100"`
	NameHE        *string `json:"name_he" validate:"omitempty,min=2,max=100"`
	DescriptionEN *string `json:"description_en" validate:"omitempty,max=500"`
	DescriptionHE *string `json:"description_he" validate:"omitempty,max=500"`
	Icon          *string `json:"icon" validate:"omitempty,max=50"`
	IsActive      *bool   `json:"is_active"`
}

// CheckCategoryAllowance enforces that a client holds no more categories than
// its package allows. entity.Unlimited disables the check.
func CheckCategoryAllowance(categories []string, allowed int) []FieldError {
	if allowed == entity.Unlimited || len(categories) <= allowed {
		return nil
	}
	return []FieldError{{
		Field:   "categories",
		Message: fmt.Sprintf("categories must contain at most %d items for this package", allowed),
	}}
}

// hasAnyField reports whether a partial input carries at least one non-nil field.
func hasAnyField(target any) bool {
	v := reflect.Indirect(reflect.ValueOf(target))
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		switch f.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			if !f.IsNil() {
				return true
			}
		default:
			if !f.IsZero() {
				return true
			}
		}
	}
	return false
}
