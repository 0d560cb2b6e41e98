package userRepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sahara/database/repository"
	"sahara/models"

	"github.com/google/uuid"
)

// MemoryUserRepo keeps users in process memory. Used with DATABASE_DRIVER=memory and in tests.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	byID  map[string]*models.User
	byUID map[string]string
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:  make(map[string]*models.User),
		byUID: make(map[string]string),
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user with id %s: %w", id, repository.ErrNotFound)
	}
	return copyUser(u), nil
}

func applyProfile(u *models.User, email, phone, name *string) {
	if email != nil {
		u.Email = strPtr(*email)
	}
	if phone != nil {
		u.Phone = strPtr(*phone)
	}
	if name != nil {
		u.Name = strPtr(*name)
	}
}

func strPtr(s string) *string { return &s }

func (r *MemoryUserRepo) Upsert(_ context.Context, in models.UserSync) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if id, ok := r.byUID[in.FirebaseUID]; ok {
		u := r.byID[id]
		if in.Replace {
			u.Email, u.Phone, u.Name = nil, nil, nil
		}
		applyProfile(u, in.Email, in.Phone, in.Name)
		u.UpdatedAt = now
		return copyUser(u), nil
	}

	u := &models.User{
		ID:          uuid.NewString(),
		FirebaseUID: in.FirebaseUID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyProfile(u, in.Email, in.Phone, in.Name)
	r.byID[u.ID] = u
	r.byUID[u.FirebaseUID] = u.ID
	return copyUser(u), nil
}

func (r *MemoryUserRepo) Update(_ context.Context, id string, upd models.UserUpdateRequest) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("user with id %s: %w", id, repository.ErrNotFound)
	}
	applyProfile(u, upd.Email, upd.Phone, upd.Name)
	u.UpdatedAt = time.Now().UTC()
	return copyUser(u), nil
}

// Count returns the number of stored users.
func (r *MemoryUserRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
