package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"vet-clinic-api/internal/domain/admins"
	"vet-clinic-api/internal/domain/clients"
	"vet-clinic-api/internal/domain/pets"
	"vet-clinic-api/internal/domain/schedules"
)

// Malformed ids must read as not-found, the same answer the memory
// adapter gives, instead of reaching Postgres and failing with 22P02.
// The repos here hold a nil handle: if a guard were missing, the query
// would panic, so a clean domain error proves the short-circuit.

const badID = "not-a-uuid"

func TestClientsRepo_MalformedIDIsNotFound(t *testing.T) {
	repo := NewClientsRepo(nil)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, badID); !errors.Is(err, clients.ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, clients.Client{ID: badID}); !errors.Is(err, clients.ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, badID); !errors.Is(err, clients.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
	if err := repo.AttachPet(ctx, badID, badID); !errors.Is(err, clients.ErrNotFound) {
		t.Fatalf("AttachPet: expected ErrNotFound, got %v", err)
	}
	if err := repo.DetachPet(ctx, badID, badID); err != nil {
		t.Fatalf("DetachPet: expected no-op, got %v", err)
	}
	if ids, err := repo.ListPetIDs(ctx, badID); err != nil || len(ids) != 0 {
		t.Fatalf("ListPetIDs: expected empty, got %v %v", ids, err)
	}
	if ids, err := repo.ListClientIDsForPet(ctx, badID); err != nil || len(ids) != 0 {
		t.Fatalf("ListClientIDsForPet: expected empty, got %v %v", ids, err)
	}
	if err := repo.RemovePetLinks(ctx, badID); err != nil {
		t.Fatalf("RemovePetLinks: expected no-op, got %v", err)
	}
}

func TestPetsRepo_MalformedIDIsNotFound(t *testing.T) {
	repo := NewPetsRepo(nil)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, badID); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, pets.Pet{ID: badID}); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, badID); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestSchedulesRepo_MalformedIDIsNotFound(t *testing.T) {
	repo := NewSchedulesRepo(nil)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, badID); !errors.Is(err, schedules.ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, schedules.Schedule{ID: badID}); !errors.Is(err, schedules.ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, badID); !errors.Is(err, schedules.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
	if err := repo.SetStatus(ctx, badID, schedules.StatusCompleted, time.Now()); !errors.Is(err, schedules.ErrNotFound) {
		t.Fatalf("SetStatus: expected ErrNotFound, got %v", err)
	}
	if err := repo.AttachPet(ctx, badID, badID); !errors.Is(err, schedules.ErrNotFound) {
		t.Fatalf("AttachPet: expected ErrNotFound, got %v", err)
	}
	if err := repo.DetachPet(ctx, badID, badID); err != nil {
		t.Fatalf("DetachPet: expected no-op, got %v", err)
	}
	if err := repo.SyncPets(ctx, badID, []string{badID}); !errors.Is(err, schedules.ErrNotFound) {
		t.Fatalf("SyncPets: expected ErrNotFound, got %v", err)
	}
	if ids, err := repo.ListPetIDs(ctx, badID); err != nil || len(ids) != 0 {
		t.Fatalf("ListPetIDs: expected empty, got %v %v", ids, err)
	}
	if err := repo.RemovePetLinks(ctx, badID); err != nil {
		t.Fatalf("RemovePetLinks: expected no-op, got %v", err)
	}
}

func TestAdminsRepo_MalformedIDIsNotFound(t *testing.T) {
	repo := NewAdminsRepo(nil)

	if _, err := repo.GetByID(context.Background(), badID); !errors.Is(err, admins.ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
}

func TestIsUUID(t *testing.T) {
	if !isUUID("7b8a1a5e-3f7c-4a2b-9d6e-1f2a3b4c5d6e") {
		t.Fatalf("expected canonical uuid to pass")
	}
	for _, id := range []string{"", "  ", "garbage", "123", "7b8a1a5e-3f7c-4a2b-9d6e"} {
		if isUUID(id) {
			t.Fatalf("expected %q to fail", id)
		}
	}
}
