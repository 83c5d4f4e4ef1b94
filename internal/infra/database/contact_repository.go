package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/leadflow/internal/entity"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(ctx context.Context, m *entity.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, phone, business, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		m.ID, m.Name, m.Email, m.Phone, m.Business, m.Message, m.Status, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]*entity.ContactMessage, error) {
	limit, offset = entity.NormalizePage(limit, offset)

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, email, phone, business, message, status, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.ContactMessage, 0)
	for rows.Next() {
		var m entity.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Business, &m.Message, &m.Status, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
