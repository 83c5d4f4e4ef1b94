package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entity.User)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return entity.ErrEmailAlreadyExists
		}
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	if patch.IsEmpty() {
		return nil, entity.ErrEmptyPatch
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	patch.Apply(u, time.Now().UTC())
	return cloneUser(u), nil
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Categories = append([]string{}, u.Categories...)
	return &c
}
