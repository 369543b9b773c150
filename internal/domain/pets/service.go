package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"vet-clinic-api/internal/domain/validation"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("pet not found")

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name         string
	Role         string
	Breed        string
	Species      string
	ColorMarking string
	Birthday     time.Time
	Gender       string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	errs := validation.FieldErrors{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs.Add("name", "name is required")
	}

	role := Role(strings.TrimSpace(in.Role))
	if !role.Valid() {
		errs.Add("role", "role must be canine or feline")
	}

	if in.Birthday.IsZero() {
		errs.Add("birthday", "birthday is required")
	}

	gender := Gender(strings.TrimSpace(in.Gender))
	if !gender.Valid() {
		errs.Add("gender", "gender must be male or female")
	}

	if err := errs.Err(); err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:           uuid.NewString(),
		Name:         name,
		Role:         role,
		Breed:        strings.TrimSpace(in.Breed),
		Species:      strings.TrimSpace(in.Species),
		ColorMarking: strings.TrimSpace(in.ColorMarking),
		Birthday:     in.Birthday,
		Gender:       gender,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

type UpdateInput struct {
	// nil pointer = field untouched; empty string clears the optional ones.
	Name         *string
	Role         *string
	Breed        *string
	Species      *string
	ColorMarking *string
	Birthday     *time.Time
	Gender       *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Pet, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	errs := validation.FieldErrors{}

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			errs.Add("name", "name is required")
		} else {
			current.Name = v
		}
	}

	if in.Role != nil {
		role := Role(strings.TrimSpace(*in.Role))
		if !role.Valid() {
			errs.Add("role", "role must be canine or feline")
		} else {
			current.Role = role
		}
	}

	if in.Breed != nil {
		current.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Species != nil {
		current.Species = strings.TrimSpace(*in.Species)
	}
	if in.ColorMarking != nil {
		current.ColorMarking = strings.TrimSpace(*in.ColorMarking)
	}

	if in.Birthday != nil {
		if in.Birthday.IsZero() {
			errs.Add("birthday", "birthday is required")
		} else {
			current.Birthday = *in.Birthday
		}
	}

	if in.Gender != nil {
		gender := Gender(strings.TrimSpace(*in.Gender))
		if !gender.Valid() {
			errs.Add("gender", "gender must be male or female")
		} else {
			current.Gender = gender
		}
	}

	if err := errs.Err(); err != nil {
		return Pet{}, err
	}

	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Pet{}, err
	}
	return current, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
