package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/server/models"
)

// InMemoryRepository keeps users in process memory, in insertion order.
// Nothing is persisted across restarts.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
	order []string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*models.User)}
}

func copyUser(u *models.User) *models.User {
	return &models.User{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		Properties: cloneProperties(u.Properties),
	}
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, copyUser(r.users[id]))
	}
	return users, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyUser(user)
	stored.ID = models.NewID()
	r.users[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	return stored.ID, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.User, error) {
	if !models.IsValidID(id) {
		return nil, common.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (r *InMemoryRepository) FindByPropertyID(ctx context.Context, propertyID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		u := r.users[id]
		for _, p := range u.Properties {
			if p.ID == propertyID {
				return copyUser(u), nil
			}
		}
	}
	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.UpdateResult, error) {
	if upd == nil || upd.IsEmpty() {
		return nil, common.ErrEmptyUpdate
	}

	return r.mutate(id, func(u *models.User) bool {
		before := copyUser(u)
		if upd.FullName != nil {
			u.FullName = *upd.FullName
		}
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.Properties != nil {
			u.Properties = cloneProperties(upd.Properties)
		}
		return !sameUser(before, u)
	})
}

func (r *InMemoryRepository) SetProperties(ctx context.Context, id string, props []models.Property) (*models.UpdateResult, error) {
	return r.mutate(id, func(u *models.User) bool {
		changed := !sameProperties(u.Properties, props)
		u.Properties = cloneProperties(props)
		return changed
	})
}

func (r *InMemoryRepository) mutate(id string, fn func(u *models.User) bool) (*models.UpdateResult, error) {
	if !models.IsValidID(id) {
		return nil, common.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	res := &models.UpdateResult{Matched: 1}
	if fn(u) {
		res.Modified = 1
	}
	return res, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if !models.IsValidID(id) {
		return common.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func sameUser(a, b *models.User) bool {
	return a.FullName == b.FullName && a.Email == b.Email && sameProperties(a.Properties, b.Properties)
}

func sameProperties(a, b []models.Property) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
