package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
)

type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*entity.Category
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{categories: make(map[string]*entity.Category)}
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, entity.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameEN < out[j].NameEN })
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, patch entity.CategoryPatch) (*entity.Category, error) {
	if patch.IsEmpty() {
		return nil, entity.ErrEmptyPatch
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, entity.ErrCategoryNotFound
	}
	patch.Apply(c, time.Now().UTC())
	cp := *c
	return &cp, nil
}

func (r *CategoryRepository) Deactivate(ctx context.Context, id string) error {
	inactive := false
	_, err := r.Update(ctx, id, entity.CategoryPatch{IsActive: &inactive})
	return err
}
