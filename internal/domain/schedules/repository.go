package schedules

import (
	"context"
	"time"
)

type Repository interface {
	// Create persists the schedule and its initial pet set atomically.
	Create(ctx context.Context, s Schedule, petIDs []string) error
	Update(ctx context.Context, s Schedule) error
	GetByID(ctx context.Context, id string) (Schedule, error)
	List(ctx context.Context, f ListFilter) ([]Schedule, error)
	// Delete removes the schedule and its schedule-pet rows.
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, st Status, updatedAt time.Time) error

	// AttachPet is idempotent; DetachPet is a no-op when absent.
	AttachPet(ctx context.Context, scheduleID, petID string) error
	DetachPet(ctx context.Context, scheduleID, petID string) error
	// SyncPets atomically replaces the associated pet set.
	SyncPets(ctx context.Context, scheduleID string, petIDs []string) error
	ListPetIDs(ctx context.Context, scheduleID string) ([]string, error)
	RemovePetLinks(ctx context.Context, petID string) error
}

// ListFilter narrows and orders a schedule listing. The default order is
// date descending; Asc flips it (today's list, upcoming follow-ups).
type ListFilter struct {
	Service ServiceType
	Status  Status
	PetID   string

	// Date window: From inclusive, To exclusive.
	From *time.Time
	To   *time.Time

	// FollowUpFrom selects rows with follow_up set and >= the given
	// time, ordered by follow_up instead of date.
	FollowUpFrom *time.Time

	Asc bool
}
