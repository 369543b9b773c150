package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"vet-clinic-api/internal/domain/schedules"
)

type schedulePetPair struct {
	scheduleID string
	petID      string
	createdAt  time.Time
}

type scheduleRepo struct {
	mu    sync.RWMutex
	byID  map[string]schedules.Schedule
	pairs []schedulePetPair
	now   func() time.Time
}

func NewScheduleRepo() schedules.Repository {
	return &scheduleRepo{
		byID: make(map[string]schedules.Schedule),
		now:  time.Now,
	}
}

func (r *scheduleRepo) Create(ctx context.Context, s schedules.Schedule, petIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("schedule id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("schedule already exists")
	}

	r.byID[s.ID] = s
	now := r.now()
	for _, petID := range petIDs {
		r.pairs = append(r.pairs, schedulePetPair{scheduleID: s.ID, petID: petID, createdAt: now})
	}
	return nil
}

func (r *scheduleRepo) Update(ctx context.Context, s schedules.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[s.ID]; !exists {
		return schedules.ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return schedules.Schedule{}, schedules.ErrNotFound
	}
	return s, nil
}

func (r *scheduleRepo) List(ctx context.Context, f schedules.ListFilter) ([]schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedules.Schedule, 0)

	for _, s := range r.byID {
		if f.Service != "" && s.Service != f.Service {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.PetID != "" && !r.paired(s.ID, f.PetID) {
			continue
		}
		if f.From != nil && s.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !s.Date.Before(*f.To) {
			continue
		}
		if f.FollowUpFrom != nil {
			if s.FollowUp == nil || s.FollowUp.Before(*f.FollowUpFrom) {
				continue
			}
		}
		out = append(out, s)
	}

	// Upcoming follow-ups sort on follow_up; everything else on date.
	key := func(s schedules.Schedule) time.Time {
		if f.FollowUpFrom != nil && s.FollowUp != nil {
			return *s.FollowUp
		}
		return s.Date
	}
	sort.Slice(out, func(i, j int) bool {
		if f.Asc {
			return key(out[i]).Before(key(out[j]))
		}
		return key(out[i]).After(key(out[j]))
	})

	return out, nil
}

func (r *scheduleRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return schedules.ErrNotFound
	}
	delete(r.byID, id)

	kept := r.pairs[:0]
	for _, p := range r.pairs {
		if p.scheduleID != id {
			kept = append(kept, p)
		}
	}
	r.pairs = kept
	return nil
}

func (r *scheduleRepo) SetStatus(ctx context.Context, id string, st schedules.Status, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return schedules.ErrNotFound
	}
	s.Status = st
	s.UpdatedAt = updatedAt
	r.byID[id] = s
	return nil
}

func (r *scheduleRepo) AttachPet(ctx context.Context, scheduleID, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[scheduleID]; !ok {
		return schedules.ErrNotFound
	}
	for _, p := range r.pairs {
		if p.scheduleID == scheduleID && p.petID == petID {
			return nil
		}
	}
	r.pairs = append(r.pairs, schedulePetPair{scheduleID: scheduleID, petID: petID, createdAt: r.now()})
	return nil
}

func (r *scheduleRepo) DetachPet(ctx context.Context, scheduleID, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.pairs[:0]
	for _, p := range r.pairs {
		if p.scheduleID == scheduleID && p.petID == petID {
			continue
		}
		kept = append(kept, p)
	}
	r.pairs = kept
	return nil
}

func (r *scheduleRepo) SyncPets(ctx context.Context, scheduleID string, petIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[scheduleID]; !ok {
		return schedules.ErrNotFound
	}

	want := make(map[string]struct{}, len(petIDs))
	for _, id := range petIDs {
		want[id] = struct{}{}
	}

	// Drop pairings not in the new set, keep the ones that survive.
	kept := r.pairs[:0]
	have := map[string]struct{}{}
	for _, p := range r.pairs {
		if p.scheduleID == scheduleID {
			if _, ok := want[p.petID]; !ok {
				continue
			}
			have[p.petID] = struct{}{}
		}
		kept = append(kept, p)
	}
	r.pairs = kept

	now := r.now()
	for _, id := range petIDs {
		if _, ok := have[id]; ok {
			continue
		}
		r.pairs = append(r.pairs, schedulePetPair{scheduleID: scheduleID, petID: id, createdAt: now})
	}
	return nil
}

func (r *scheduleRepo) ListPetIDs(ctx context.Context, scheduleID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for _, p := range r.pairs {
		if p.scheduleID == scheduleID {
			out = append(out, p.petID)
		}
	}
	return out, nil
}

func (r *scheduleRepo) RemovePetLinks(ctx context.Context, petID string) error {
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

func (r *scheduleRepo) paired(scheduleID, petID string) bool {
	for _, p := range r.pairs {
		if p.scheduleID == scheduleID && p.petID == petID {
			return true
		}
	}
	return false
}
