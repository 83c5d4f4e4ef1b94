package usecase

import (
	"context"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/validation"
)

type ManageCategoriesUseCase struct {
	Categories entity.CategoryRepository
	Validator  *validation.Validator
}

func NewManageCategoriesUseCase(categories entity.CategoryRepository, validator *validation.Validator) *ManageCategoriesUseCase {
	return &ManageCategoriesUseCase{Categories: categories, Validator: validator}
}

func (uc *ManageCategoriesUseCase) Create(ctx context.Context, input map[string]any) (*entity.Category, error) {
	res := uc.Validator.Validate(validation.CategoryCreate, input)
	if !res.OK {
		return nil, NewValidationError(res.Errors)
	}
	in := res.Value.(*validation.CategoryCreateInput)
	validation.SanitizeStruct(in)

	c := entity.NewCategory(in.NameEN, in.NameHE)
	c.DescriptionEN = in.DescriptionEN
	c.DescriptionHE = in.DescriptionHE
	c.Icon = in.Icon
	c.IsActive = *in.IsActive

	if err := uc.Categories.Create(ctx, c); err != nil {
		return nil, classify("create category", err)
	}
	return c, nil
}

func (uc *ManageCategoriesUseCase) Get(ctx context.Context, id string) (*entity.Category, error) {
	c, err := uc.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, classify("load category", err)
	}
	return c, nil
}

func (uc *ManageCategoriesUseCase) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	cs, err := uc.Categories.List(ctx, activeOnly)
	if err != nil {
		return nil, classify("list categories", err)
	}
	return cs, nil
}

func (uc *ManageCategoriesUseCase) Update(ctx context.Context, id string, input map[string]any) (*entity.Category, error) {
	res := uc.Validator.Validate(validation.CategoryUpdate, input)
	if !res.OK {
		return nil, NewValidationError(res.Errors)
	}
	in := res.Value.(*validation.CategoryUpdateInput)
	validation.SanitizeStruct(in)

	c, err := uc.Categories.Update(ctx, id, entity.CategoryPatch{
		NameEN:        in.NameEN,
		NameHE:        in.NameHE,
		DescriptionEN: in.DescriptionEN,
		DescriptionHE: in.DescriptionHE,
		Icon:          in.Icon,
		IsActive:      in.IsActive,
	})
	if err != nil {
		return nil, classify("update category", err)
	}
	return c, nil
}

func (uc *ManageCategoriesUseCase) Deactivate(ctx context.Context, id string) error {
	return classify("deactivate category", uc.Categories.Deactivate(ctx, id))
}

// Seed inserts categories loaded from a file, skipping ids that already exist.
func (uc *ManageCategoriesUseCase) Seed(ctx context.Context, categories []*entity.Category) (created int, err error) {
	for _, c := range categories {
		if fields := uc.checkSeed(c); len(fields) > 0 {
			return created, NewValidationError(fields)
		}
		if c.ID != "" {
			if _, err := uc.Categories.FindByID(ctx, c.ID); err == nil {
				continue
			}
		}

		fresh := entity.NewCategory(c.NameEN, c.NameHE)
		if c.ID != "" {
			fresh.ID = c.ID
		}
		fresh.DescriptionEN = c.DescriptionEN
		fresh.DescriptionHE = c.DescriptionHE
		fresh.Icon = c.Icon
		fresh.IsActive = c.IsActive
		validation.SanitizeStruct(fresh)

		if err := uc.Categories.Create(ctx, fresh); err != nil {
			return created, classify("seed category", err)
		}
		created++
	}
	return created, nil
}

func (uc *ManageCategoriesUseCase) checkSeed(c *entity.Category) []validation.FieldError {
	in := validation.CategoryCreateInput{
		NameEN:        c.NameEN,
		NameHE:        c.NameHE,
		DescriptionEN: c.DescriptionEN,
		DescriptionHE: c.DescriptionHE,
		Icon:          c.Icon,
		IsActive:      &c.IsActive,
	}
	return uc.Validator.Struct(&in)
}
