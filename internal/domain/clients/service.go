package clients

import (
	"context"
	"errors"
	"strings"
	"time"

	"vet-clinic-api/internal/domain/validation"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

var (
	ErrNotFound   = errors.New("client not found")
	ErrEmailTaken = errors.New("email has already been taken")
)

// Phone numbers in the clinic's records are Philippine mobiles.
const defaultRegion = "PH"

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
	Fullname string
	Address  string
	Age      *int
	Email    string
	Number   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Client, error) {
	errs := validation.FieldErrors{}

	fullname := strings.TrimSpace(in.Fullname)
	if fullname == "" {
		errs.Add("fullname", "fullname is required")
	}

	address := strings.TrimSpace(in.Address)
	if address == "" {
		errs.Add("address", "address is required")
	}

	if in.Age != nil && (*in.Age < 1 || *in.Age > 120) {
		errs.Add("age", "age must be between 1 and 120")
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case email == "":
		errs.Add("email", "email is required")
	case !validation.IsEmail(email):
		errs.Add("email", "email must be a valid email address")
	default:
		if _, err := s.repo.GetByEmail(ctx, email); err == nil {
			errs.Add("email", "email has already been taken")
		} else if !errors.Is(err, ErrNotFound) {
			return Client{}, err
		}
	}

	number := strings.TrimSpace(in.Number)
	if number == "" {
		errs.Add("number", "number is required")
	}

	if err := errs.Err(); err != nil {
		return Client{}, err
	}

	now := s.now()
	c := Client{
		ID:        uuid.NewString(),
		Fullname:  fullname,
		Address:   address,
		Age:       in.Age,
		Email:     email,
		Number:    normalizeNumber(number),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			errs.Add("email", "email has already been taken")
			return Client{}, errs
		}
		return Client{}, err
	}
	return c, nil
}

// AgePatch distinguishes "age not sent" from "age: null".
type AgePatch struct {
	Present bool
	Value   *int
}

type UpdateInput struct {
	// nil pointer = field untouched.
	Fullname *string
	Address  *string
	Age      AgePatch
	Email    *string
	Number   *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Client, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}

	errs := validation.FieldErrors{}

	if in.Fullname != nil {
		v := strings.TrimSpace(*in.Fullname)
		if v == "" {
			errs.Add("fullname", "fullname is required")
		} else {
			current.Fullname = v
		}
	}

	if in.Address != nil {
		v := strings.TrimSpace(*in.Address)
		if v == "" {
			errs.Add("address", "address is required")
		} else {
			current.Address = v
		}
	}

	if in.Age.Present {
		if in.Age.Value != nil && (*in.Age.Value < 1 || *in.Age.Value > 120) {
			errs.Add("age", "age must be between 1 and 120")
		} else {
			current.Age = in.Age.Value
		}
	}

	if in.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Email))
		switch {
		case v == "":
			errs.Add("email", "email is required")
		case !validation.IsEmail(v):
			errs.Add("email", "email must be a valid email address")
		case v != current.Email:
			if other, err := s.repo.GetByEmail(ctx, v); err == nil && other.ID != current.ID {
				errs.Add("email", "email has already been taken")
			} else if err != nil && !errors.Is(err, ErrNotFound) {
				return Client{}, err
			} else {
				current.Email = v
			}
		}
	}

	if in.Number != nil {
		v := strings.TrimSpace(*in.Number)
		if v == "" {
			errs.Add("number", "number is required")
		} else {
			current.Number = normalizeNumber(v)
		}
	}

	if err := errs.Err(); err != nil {
		return Client{}, err
	}

	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			errs.Add("email", "email has already been taken")
			return Client{}, errs
		}
		return Client{}, err
	}
	return current, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) AttachPet(ctx context.Context, clientID, petID string) error {
	if _, err := s.repo.GetByID(ctx, clientID); err != nil {
		return err
	}
	return s.repo.AttachPet(ctx, clientID, petID)
}

func (s *Service) DetachPet(ctx context.Context, clientID, petID string) error {
	if _, err := s.repo.GetByID(ctx, clientID); err != nil {
		return err
	}
	return s.repo.DetachPet(ctx, clientID, petID)
}

func (s *Service) PetIDs(ctx context.Context, clientID string) ([]string, error) {
	return s.repo.ListPetIDs(ctx, clientID)
}

func (s *Service) ClientIDsForPet(ctx context.Context, petID string) ([]string, error) {
	return s.repo.ListClientIDsForPet(ctx, petID)
}

// DetachPetFromAll is the cascade hook used when a pet is deleted.
func (s *Service) DetachPetFromAll(ctx context.Context, petID string) error {
	return s.repo.RemovePetLinks(ctx, petID)
}

// normalizeNumber stores valid numbers in a canonical national format.
// Anything unparseable is kept as typed; the field is free text upstream.
func normalizeNumber(raw string) string {
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}
