package memory

import (
	"context"
	"sync"

	"github.com/xavierca1/leadflow/internal/entity"
)

// ContactRepository appends contact messages to a slice, newest last.
type ContactRepository struct {
	mu       sync.RWMutex
	messages []*entity.ContactMessage
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{}
}

func (r *ContactRepository) Create(ctx context.Context, m *entity.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *m
	r.messages = append(r.messages, &cp)
	return nil
}

// List returns messages newest first.
func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]*entity.ContactMessage, error) {
	limit, offset = entity.NormalizePage(limit, offset)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.ContactMessage, 0, limit)
	for i := len(r.messages) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		cp := *r.messages[i]
		out = append(out, &cp)
	}
	return out, nil
}
