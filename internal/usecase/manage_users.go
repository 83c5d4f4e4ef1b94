package usecase

import (
	"context"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/validation"
)

type ManageUsersUseCase struct {
	Users     entity.UserRepository
	Validator *validation.Validator
}

func NewManageUsersUseCase(users entity.UserRepository, validator *validation.Validator) *ManageUsersUseCase {
	return &ManageUsersUseCase{Users: users, Validator: validator}
}

// Register creates a client. Quota fields missing from the request come from
// the package table.
func (uc *ManageUsersUseCase) Register(ctx context.Context, input map[string]any) (*entity.User, error) {
	res := uc.Validator.Validate(validation.UserRegister, input)
	if !res.OK {
		return nil, NewValidationError(res.Errors)
	}
	in := res.Value.(*validation.UserRegisterInput)
	validation.SanitizeStruct(in)

	u := entity.NewUser(in.Name, in.Email, entity.PackageType(in.PackageType))
	u.Phone = in.Phone
	u.CompanyName = in.CompanyName
	u.MonthlyLeadLimit = *in.MonthlyLeadLimit
	u.CategoriesAllowed = *in.CategoriesAllowed
	u.IsVIP = *in.IsVIP
	u.IsActive = *in.IsActive
	u.Categories = in.Categories

	if err := uc.Users.Create(ctx, u); err != nil {
		return nil, classify("create user", err)
	}
	return u, nil
}

func (uc *ManageUsersUseCase) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return nil, classify("load user", err)
	}
	return u, nil
}

func (uc *ManageUsersUseCase) List(ctx context.Context) ([]*entity.User, error) {
	us, err := uc.Users.List(ctx)
	if err != nil {
		return nil, classify("list users", err)
	}
	return us, nil
}

// Update merges the patch. Selecting a package resets the quota fields to
// that package's defaults unless the same request sets them.
func (uc *ManageUsersUseCase) Update(ctx context.Context, id string, input map[string]any) (*entity.User, error) {
	res := uc.Validator.Validate(validation.UserUpdate, input)
	if !res.OK {
		return nil, NewValidationError(res.Errors)
	}
	in := res.Value.(*validation.UserUpdateInput)
	validation.SanitizeStruct(in)

	current, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return nil, classify("load user", err)
	}

	// categories may not exceed the allowance that results from this update
	categories := current.Categories
	if in.Categories != nil {
		categories = *in.Categories
	}
	allowed := current.CategoriesAllowed
	if in.CategoriesAllowed != nil {
		allowed = *in.CategoriesAllowed
	}
	if fields := validation.CheckCategoryAllowance(categories, allowed); len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	patch := entity.UserPatch{
		Name:              in.Name,
		Phone:             in.Phone,
		CompanyName:       in.CompanyName,
		MonthlyLeadLimit:  in.MonthlyLeadLimit,
		CategoriesAllowed: in.CategoriesAllowed,
		IsVIP:             in.IsVIP,
		IsActive:          in.IsActive,
		Categories:        in.Categories,
	}
	if in.PackageType != nil {
		p := entity.PackageType(*in.PackageType)
		patch.PackageType = &p
	}

	u, err := uc.Users.Update(ctx, id, patch)
	if err != nil {
		return nil, classify("update user", err)
	}
	return u, nil
}

// Packages returns the quota defaults per package type.
func (uc *ManageUsersUseCase) Packages() map[entity.PackageType]entity.PackageDefaults {
	return entity.PackageTable()
}
