package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
)

// LeadRepository keeps leads in a map. All mutations hold the lock, so Assign
// is a true compare-and-set.
type LeadRepository struct {
	mu    sync.RWMutex
	leads map[string]*entity.Lead
}

func NewLeadRepository() *LeadRepository {
	return &LeadRepository{leads: make(map[string]*entity.Lead)}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leads[lead.ID] = cloneLead(lead)
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	return cloneLead(l), nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	filter.Normalize()

	r.mu.RLock()
	matched := make([]*entity.Lead, 0)
	for _, l := range r.leads {
		if filter.Matches(l) {
			matched = append(matched, cloneLead(l))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return []*entity.Lead{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], nil
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	if patch.IsEmpty() {
		return nil, entity.ErrEmptyPatch
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	patch.Apply(l, time.Now().UTC())
	return cloneLead(l), nil
}

func (r *LeadRepository) Assign(ctx context.Context, id, clientID string, at time.Time) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	if l.Status != entity.LeadStatusNew || l.AssignedTo != nil {
		return nil, entity.ErrLeadNotAssignable
	}

	client := clientID
	when := at.UTC()
	l.AssignedTo = &client
	l.AssignedAt = &when
	l.Status = entity.LeadStatusSent
	l.UpdatedAt = when
	return cloneLead(l), nil
}

func (r *LeadRepository) TransitionStatus(ctx context.Context, id string, from, to entity.LeadStatus) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	if l.Status != from {
		return nil, entity.ErrInvalidTransition
	}
	l.Status = to
	l.UpdatedAt = time.Now().UTC()
	return cloneLead(l), nil
}

func (r *LeadRepository) CountByStatus(ctx context.Context) (map[entity.LeadStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[entity.LeadStatus]int64)
	for _, l := range r.leads {
		counts[l.Status]++
	}
	return counts, nil
}

func cloneLead(l *entity.Lead) *entity.Lead {
	c := *l
	if l.CategoryID != nil {
		v := *l.CategoryID
		c.CategoryID = &v
	}
	if l.AssignedTo != nil {
		v := *l.AssignedTo
		c.AssignedTo = &v
	}
	if l.AssignedAt != nil {
		v := *l.AssignedAt
		c.AssignedAt = &v
	}
	return &c
}
