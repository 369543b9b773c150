package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"vet-clinic-api/internal/domain/clients"
)

type clientPetPair struct {
	clientID  string
	petID     string
	createdAt time.Time
}

type clientRepo struct {
	mu    sync.RWMutex
	byID  map[string]clients.Client
	pairs []clientPetPair
	now   func() time.Time
}

func NewClientRepo() clients.Repository {
	return &clientRepo{
		byID: make(map[string]clients.Client),
		now:  time.Now,
	}
}

func (r *clientRepo) Create(ctx context.Context, c clients.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("client id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("client already exists")
	}
	for _, other := range r.byID {
		if other.Email == c.Email {
			return clients.ErrEmailTaken
		}
	}
	r.byID[c.ID] = c
	return nil
}

func (r *clientRepo) Update(ctx context.Context, c clients.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; !exists {
		return clients.ErrNotFound
	}
	for _, other := range r.byID {
		if other.ID != c.ID && other.Email == c.Email {
			return clients.ErrEmailTaken
		}
	}
	r.byID[c.ID] = c
	return nil
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return clients.Client{}, clients.ErrNotFound
	}
	return c, nil
}

func (r *clientRepo) GetByEmail(ctx context.Context, email string) (clients.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return clients.Client{}, clients.ErrNotFound
}

func (r *clientRepo) List(ctx context.Context) ([]clients.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]clients.Client, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *clientRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return clients.ErrNotFound
	}
	delete(r.byID, id)

	kept := r.pairs[:0]
	for _, p := range r.pairs {
		if p.clientID != id {
			kept = append(kept, p)
		}
	}
	r.pairs = kept
	return nil
}

func (r *clientRepo) AttachPet(ctx context.Context, clientID, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[clientID]; !ok {
		return clients.ErrNotFound
	}
	for _, p := range r.pairs {
		if p.clientID == clientID && p.petID == petID {
			return nil
		}
	}
	r.pairs = append(r.pairs, clientPetPair{clientID: clientID, petID: petID, createdAt: r.now()})
	return nil
}

func (r *clientRepo) DetachPet(ctx context.Context, clientID, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.pairs[:0]
	for _, p := range r.pairs {
		if p.clientID == clientID && p.petID == petID {
			continue
		}
		kept = append(kept, p)
	}
	r.pairs = kept
	return nil
}

func (r *clientRepo) ListPetIDs(ctx context.Context, clientID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for _, p := range r.pairs {
		if p.clientID == clientID {
			out = append(out, p.petID)
		}
	}
	return out, nil
}

func (r *clientRepo) ListClientIDsForPet(ctx context.Context, petID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for _, p := range r.pairs {
		if p.petID == petID {
			out = append(out, p.clientID)
		}
	}
	return out, nil
}

func (r *clientRepo) RemovePetLinks(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.pairs[:0]
	for _, p := range r.pairs {
		if p.petID != petID {
			kept = append(kept, p)
		}
	}
	r.pairs = kept
	return nil
}
