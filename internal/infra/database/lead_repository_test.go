package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/leadflow/internal/entity"
)

func TestLeadWhere(t *testing.T) {
	where, args := leadWhere(entity.LeadFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = leadWhere(entity.LeadFilter{Status: entity.LeadStatusSent, Source: entity.LeadSourceAPI})
	assert.Equal(t, " WHERE status = $1 AND source = $2", where)
	assert.Equal(t, []any{entity.LeadStatusSent, entity.LeadSourceAPI}, args)
}

func TestLeadPatchSetNumbersFromOffset(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	notes := "call after 6pm"

	set := leadPatchSet(entity.LeadPatch{Notes: &notes}, now)

	assert.Equal(t, "notes = $2, updated_at = $3", set.clause(2))
	assert.Equal(t, []any{"call after 6pm", now}, set.args)
}

func TestUserPatchSetEncodesCategories(t *testing.T) {
	cats := []string{"plumbing", "electric"}
	set, err := userPatchSet(entity.UserPatch{Categories: &cats}, time.Now())

	assert.NoError(t, err)
	assert.Equal(t, "categories", set.cols[0])
	assert.JSONEq(t, `["plumbing","electric"]`, string(set.args[0].([]byte)))
	assert.Equal(t, "updated_at", set.cols[1])
}
