package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xavierca1/leadflow/internal/entity"
)

const userColumns = `id, name, email, phone, company_name, package_type, monthly_lead_limit,
	categories_allowed, is_vip, is_active, categories, created_at, updated_at`

const uniqueViolation = "23505"

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	categories, err := json.Marshal(nonNil(u.Categories))
	if err != nil {
		return err
	}

	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.DB.ExecContext(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.Phone,
		u.CompanyName,
		u.PackageType,
		u.MonthlyLeadLimit,
		u.CategoriesAllowed,
		u.IsVIP,
		u.IsActive,
		categories,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entity.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	if patch.IsEmpty() {
		return nil, entity.ErrEmptyPatch
	}

	set, err := userPatchSet(patch, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	query := `UPDATE users SET ` + set.clause(2) + ` WHERE id = $1 RETURNING ` + userColumns
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, append([]any{id}, set.args...)...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func userPatchSet(p entity.UserPatch, now time.Time) (*setList, error) {
	s := &setList{}
	if p.Name != nil {
		s.add("name", *p.Name)
	}
	if p.Phone != nil {
		s.add("phone", *p.Phone)
	}
	if p.CompanyName != nil {
		s.add("company_name", *p.CompanyName)
	}
	if p.PackageType != nil {
		s.add("package_type", *p.PackageType)
	}
	if p.MonthlyLeadLimit != nil {
		s.add("monthly_lead_limit", *p.MonthlyLeadLimit)
	}
	if p.CategoriesAllowed != nil {
		s.add("categories_allowed", *p.CategoriesAllowed)
	}
	if p.IsVIP != nil {
		s.add("is_vip", *p.IsVIP)
	}
	if p.IsActive != nil {
		s.add("is_active", *p.IsActive)
	}
	if p.Categories != nil {
		raw, err := json.Marshal(nonNil(*p.Categories))
		if err != nil {
			return nil, err
		}
		s.add("categories", raw)
	}
	s.add("updated_at", now)
	return s, nil
}

func scanUser(s scanner) (*entity.User, error) {
	var (
		u          entity.User
		categories []byte
	)
	err := s.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Phone,
		&u.CompanyName,
		&u.PackageType,
		&u.MonthlyLeadLimit,
		&u.CategoriesAllowed,
		&u.IsVIP,
		&u.IsActive,
		&categories,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(categories, &u.Categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	u.Categories = nonNil(u.Categories)
	return &u, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
