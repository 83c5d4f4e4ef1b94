package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/memory"
	"github.com/xavierca1/leadflow/internal/validation"
)

func TestRegisterEnterpriseGetsUnlimitedQuota(t *testing.T) {
	uc := NewManageUsersUseCase(memory.NewUserRepository(), validation.New())

	u, err := uc.Register(context.Background(), map[string]any{
		"name":         "Big Corp",
		"email":        "big@example.com",
		"package_type": "enterprise",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.Unlimited, u.MonthlyLeadLimit)
	assert.Equal(t, entity.Unlimited, u.CategoriesAllowed)
	assert.True(t, u.IsVIP)
	assert.True(t, u.IsActive)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	uc := NewManageUsersUseCase(memory.NewUserRepository(), validation.New())
	input := map[string]any{"name": "Acme", "email": "acme@example.com", "package_type": "starter"}

	_, err := uc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), input)
	assert.Equal(t, CodeConflict, domainCode(t, err))
}

func TestUpdatePackageResetsQuota(t *testing.T) {
	uc := NewManageUsersUseCase(memory.NewUserRepository(), validation.New())
	ctx := context.Background()
	u, err := uc.Register(ctx, map[string]any{"name": "Acme", "email": "acme@example.com", "package_type": "starter"})
	require.NoError(t, err)

	got, err := uc.Update(ctx, u.ID, map[string]any{"package_type": "professional"})
	require.NoError(t, err)
	assert.Equal(t, 50, got.MonthlyLeadLimit)
	assert.Equal(t, 3, got.CategoriesAllowed)
	assert.True(t, got.IsVIP)

	got, err = uc.Update(ctx, u.ID, map[string]any{"package_type": "starter", "monthly_lead_limit": 25})
	require.NoError(t, err)
	assert.Equal(t, 25, got.MonthlyLeadLimit)
	assert.Equal(t, 1, got.CategoriesAllowed)
}

func TestUpdateCategoriesBeyondAllowance(t *testing.T) {
	uc := NewManageUsersUseCase(memory.NewUserRepository(), validation.New())
	ctx := context.Background()
	u, err := uc.Register(ctx, map[string]any{"name": "Acme", "email": "acme@example.com", "package_type": "starter"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, u.ID, map[string]any{"categories": []any{"a", "b"}})
	assert.Equal(t, CodeValidation, domainCode(t, err))
}

func TestUpdateIgnoresEmail(t *testing.T) {
	uc := NewManageUsersUseCase(memory.NewUserRepository(), validation.New())
	ctx := context.Background()
	u, err := uc.Register(ctx, map[string]any{"name": "Acme", "email": "acme@example.com", "package_type": "starter"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, u.ID, map[string]any{"email": "new@example.com"})
	assert.Equal(t, CodeValidation, domainCode(t, err))

	got, err := uc.Update(ctx, u.ID, map[string]any{"email": "new@example.com", "name": "Acme Ltd"})
	require.NoError(t, err)
	assert.Equal(t, "acme@example.com", got.Email)
	assert.Equal(t, "Acme Ltd", got.Name)
}
