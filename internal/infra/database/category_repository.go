package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
)

const categoryColumns = `id, name_en, name_he, description_en, description_he, icon, is_active, created_at, updated_at`

type CategoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.NameEN, c.NameHE, c.DescriptionEN, c.DescriptionHE, c.Icon, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	c, err := scanCategory(r.DB.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name_en`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, id string, patch entity.CategoryPatch) (*entity.Category, error) {
	if patch.IsEmpty() {
		return nil, entity.ErrEmptyPatch
	}

	set := &setList{}
	if patch.NameEN != nil {
		set.add("name_en", *patch.NameEN)
	}
	if patch.NameHE != nil {
		set.add("name_he", *patch.NameHE)
	}
	if patch.DescriptionEN != nil {
		set.add("description_en", *patch.DescriptionEN)
	}
	if patch.DescriptionHE != nil {
		set.add("description_he", *patch.DescriptionHE)
	}
	if patch.Icon != nil {
		set.add("icon", *patch.Icon)
	}
	if patch.IsActive != nil {
		set.add("is_active", *patch.IsActive)
	}
	set.add("updated_at", time.Now().UTC())

	query := `UPDATE categories SET ` + set.clause(2) + ` WHERE id = $1 RETURNING ` + categoryColumns
	c, err := scanCategory(r.DB.QueryRowContext(ctx, query, append([]any{id}, set.args...)...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) Deactivate(ctx context.Context, id string) error {
	inactive := false
	_, err := r.Update(ctx, id, entity.CategoryPatch{IsActive: &inactive})
	return err
}

func scanCategory(s scanner) (*entity.Category, error) {
	var c entity.Category
	err := s.Scan(&c.ID, &c.NameEN, &c.NameHE, &c.DescriptionEN, &c.DescriptionHE, &c.Icon, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
