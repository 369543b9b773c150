package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vet-clinic-api/internal/domain/admins"
)

type adminRepo struct {
	mu     sync.RWMutex
	byID   map[string]admins.Admin
	tokens map[string]string // token id -> admin id
}

func NewAdminRepo() admins.Repository {
	return &adminRepo{
		byID:   make(map[string]admins.Admin),
		tokens: make(map[string]string),
	}
}

func (r *adminRepo) Create(ctx context.Context, a admins.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("admin id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("admin already exists")
	}
	r.byID[a.ID] = a
	return nil
}

func (r *adminRepo) GetByID(ctx context.Context, id string) (admins.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return admins.Admin{}, admins.ErrNotFound
	}
	return a, nil
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (admins.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.Username == username {
			return a, nil
		}
	}
	return admins.Admin{}, admins.ErrNotFound
}

func (r *adminRepo) GetByEmail(ctx context.Context, email string) (admins.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return admins.Admin{}, admins.ErrNotFound
}

func (r *adminRepo) SaveToken(ctx context.Context, tokenID, adminID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[tokenID] = adminID
	return nil
}

func (r *adminRepo) DeleteToken(ctx context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, tokenID)
	return nil
}

func (r *adminRepo) TokenAdminID(ctx context.Context, tokenID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adminID, ok := r.tokens[tokenID]
	if !ok {
		return "", admins.ErrTokenRevoked
	}
	return adminID, nil
}
