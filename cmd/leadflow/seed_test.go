package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadflow/internal/infra/memory"
	"github.com/xavierca1/leadflow/internal/usecase"
	"github.com/xavierca1/leadflow/internal/validation"
)

const sampleSeed = `
categories:
  - id: plumbing
    name_en: Plumbing
    name_he: אינסטלציה
    icon: wrench
  - id: legacy
    name_en: Legacy
    name_he: ישן
    is_active: false
`

func TestParseCategoriesDefaultsActive(t *testing.T) {
	cs, err := parseCategories([]byte(sampleSeed))
	require.NoError(t, err)
	require.Len(t, cs, 2)

	assert.Equal(t, "plumbing", cs[0].ID)
	assert.Equal(t, "wrench", cs[0].Icon)
	assert.True(t, cs[0].IsActive)
	assert.False(t, cs[1].IsActive)
}

func TestParseCategoriesRejectsBadYAML(t *testing.T) {
	_, err := parseCategories([]byte("categories: [oops"))
	assert.Error(t, err)
}

func TestSeedIsIdempotent(t *testing.T) {
	cs, err := parseCategories([]byte(sampleSeed))
	require.NoError(t, err)

	uc := usecase.NewManageCategoriesUseCase(memory.NewCategoryRepository(), validation.New())
	ctx := context.Background()

	created, err := uc.Seed(ctx, cs)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = uc.Seed(ctx, cs)
	require.NoError(t, err)
	assert.Zero(t, created)

	active, err := uc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Plumbing", active[0].NameEN)
}
