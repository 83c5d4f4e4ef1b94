package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
)

const leadColumns = `id, customer_name, customer_phone, customer_email, city, notes, category_id,
	priority, source, landing_page, status, assigned_to, assigned_at, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	query := `INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.DB.ExecContext(ctx, query,
		l.ID,
		l.CustomerName,
		l.CustomerPhone,
		l.CustomerEmail,
		l.City,
		l.Notes,
		l.CategoryID,
		l.Priority,
		l.Source,
		l.LandingPage,
		l.Status,
		l.AssignedTo,
		l.AssignedAt,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return l, nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	filter.Normalize()

	where, args := leadWhere(filter)
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM leads%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, where, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]*entity.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	if patch.IsEmpty() {
		return nil, entity.ErrEmptyPatch
	}

	set := leadPatchSet(patch, time.Now().UTC())
	query := `UPDATE leads SET ` + set.clause(2) + ` WHERE id = $1 RETURNING ` + leadColumns

	row := r.DB.QueryRowContext(ctx, query, append([]any{id}, set.args...)...)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return l, nil
}

// Assign only matches rows that are still new and unassigned, so two
// concurrent calls cannot both succeed.
func (r *LeadRepository) Assign(ctx context.Context, id, clientID string, at time.Time) (*entity.Lead, error) {
	query := `
		UPDATE leads
		SET assigned_to = $2, assigned_at = $3, status = 'sent', updated_at = $3
		WHERE id = $1 AND status = 'new' AND assigned_to IS NULL
		RETURNING ` + leadColumns

	l, err := scanLead(r.DB.QueryRowContext(ctx, query, id, clientID, at.UTC()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingOr(ctx, id, entity.ErrLeadNotAssignable)
	}
	if err != nil {
		return nil, fmt.Errorf("assign lead: %w", err)
	}
	return l, nil
}

func (r *LeadRepository) TransitionStatus(ctx context.Context, id string, from, to entity.LeadStatus) (*entity.Lead, error) {
	query := `
		UPDATE leads SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING ` + leadColumns

	l, err := scanLead(r.DB.QueryRowContext(ctx, query, id, from, to, time.Now().UTC()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingOr(ctx, id, entity.ErrInvalidTransition)
	}
	if err != nil {
		return nil, fmt.Errorf("transition lead: %w", err)
	}
	return l, nil
}

func (r *LeadRepository) CountByStatus(ctx context.Context) (map[entity.LeadStatus]int64, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.LeadStatus]int64)
	for rows.Next() {
		var status entity.LeadStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *LeadRepository) missingOr(ctx context.Context, id string, conflict error) error {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM leads WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check lead: %w", err)
	}
	if !exists {
		return entity.ErrLeadNotFound
	}
	return conflict
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLead(s scanner) (*entity.Lead, error) {
	var (
		l          entity.Lead
		categoryID sql.NullString
		assignedTo sql.NullString
		assignedAt sql.NullTime
	)
	err := s.Scan(
		&l.ID,
		&l.CustomerName,
		&l.CustomerPhone,
		&l.CustomerEmail,
		&l.City,
		&l.Notes,
		&categoryID,
		&l.Priority,
		&l.Source,
		&l.LandingPage,
		&l.Status,
		&assignedTo,
		&assignedAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		l.CategoryID = &categoryID.String
	}
	if assignedTo.Valid {
		l.AssignedTo = &assignedTo.String
	}
	if assignedAt.Valid {
		t := assignedAt.Time.UTC()
		l.AssignedAt = &t
	}
	return &l, nil
}

func leadWhere(f entity.LeadFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.Status != "" {
		add("status", f.Status)
	}
	if f.CategoryID != "" {
		add("category_id", f.CategoryID)
	}
	if f.AssignedTo != "" {
		add("assigned_to", f.AssignedTo)
	}
	if f.Source != "" {
		add("source", f.Source)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func leadPatchSet(p entity.LeadPatch, now time.Time) *setList {
	s := &setList{}
	if p.CustomerName != nil {
		s.add("customer_name", *p.CustomerName)
	}
	if p.CustomerPhone != nil {
		s.add("customer_phone", *p.CustomerPhone)
	}
	if p.CustomerEmail != nil {
		s.add("customer_email", *p.CustomerEmail)
	}
	if p.City != nil {
		s.add("city", *p.City)
	}
	if p.Notes != nil {
		s.add("notes", *p.Notes)
	}
	if p.CategoryID != nil {
		s.add("category_id", *p.CategoryID)
	}
	if p.Priority != nil {
		s.add("priority", *p.Priority)
	}
	s.add("updated_at", now)
	return s
}
