package schedules

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"vet-clinic-api/internal/domain/validation"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("schedule not found")

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
	Date              time.Time
	WeightKg          *float64
	Temperature       *float64
	ComplainDiagnosis string
	Treatment         string
	Service           string
	Status            string
	FollowUp          *time.Time
	PetIDs            []string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Schedule, error) {
	errs := validation.FieldErrors{}

	if in.Date.IsZero() {
		errs.Add("date", "date is required")
	}

	if in.WeightKg == nil {
		errs.Add("weight_killogram", "weight_killogram is required")
	} else if *in.WeightKg < 0 || *in.WeightKg > 999.99 {
		errs.Add("weight_killogram", "weight_killogram must be between 0 and 999.99")
	}

	if in.Temperature == nil {
		errs.Add("temperature", "temperature is required")
	} else if *in.Temperature < 0 || *in.Temperature > 999.9 {
		errs.Add("temperature", "temperature must be between 0 and 999.9")
	}

	complain := strings.TrimSpace(in.ComplainDiagnosis)
	if complain == "" {
		errs.Add("complain_diagnosis", "complain_diagnosis is required")
	}

	treatment := strings.TrimSpace(in.Treatment)
	if treatment == "" {
		errs.Add("treatment", "treatment is required")
	}

	service := ServiceVaccination
	if v := strings.TrimSpace(in.Service); v != "" {
		service = ServiceType(v)
		if !service.Valid() {
			errs.Add("service", "service must be a known service type")
		}
	}

	status := StatusPending
	if v := strings.TrimSpace(in.Status); v != "" {
		status = Status(v)
		if !status.Valid() {
			errs.Add("status", "status must be a known status")
		}
	}

	if in.FollowUp != nil && !in.Date.IsZero() && !in.FollowUp.After(in.Date) {
		errs.Add("follow_up", "follow_up must be after date")
	}

	if err := errs.Err(); err != nil {
		return Schedule{}, err
	}

	now := s.now()
	sched := Schedule{
		ID:                uuid.NewString(),
		Date:              in.Date,
		WeightKg:          round2(*in.WeightKg),
		Temperature:       round1(*in.Temperature),
		ComplainDiagnosis: complain,
		Treatment:         treatment,
		Service:           service,
		Status:            status,
		FollowUp:          in.FollowUp,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, sched, dedupe(in.PetIDs)); err != nil {
		return Schedule{}, err
	}
	return sched, nil
}

// FollowUpPatch distinguishes "follow_up not sent" from "follow_up: null".
type FollowUpPatch struct {
	Present bool
	Value   *time.Time
}

type UpdateInput struct {
	// nil pointer = field untouched.
	Date              *time.Time
	WeightKg          *float64
	Temperature       *float64
	ComplainDiagnosis *string
	Treatment         *string
	Service           *string
	Status            *string
	FollowUp          FollowUpPatch
	// PetIDs, when non-nil, replaces the associated set (sync).
	PetIDs *[]string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Schedule, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Schedule{}, err
	}

	errs := validation.FieldErrors{}

	if in.Date != nil {
		if in.Date.IsZero() {
			errs.Add("date", "date is required")
		} else {
			current.Date = *in.Date
		}
	}

	if in.WeightKg != nil {
		if *in.WeightKg < 0 || *in.WeightKg > 999.99 {
			errs.Add("weight_killogram", "weight_killogram must be between 0 and 999.99")
		} else {
			current.WeightKg = round2(*in.WeightKg)
		}
	}

	if in.Temperature != nil {
		if *in.Temperature < 0 || *in.Temperature > 999.9 {
			errs.Add("temperature", "temperature must be between 0 and 999.9")
		} else {
			current.Temperature = round1(*in.Temperature)
		}
	}

	if in.ComplainDiagnosis != nil {
		v := strings.TrimSpace(*in.ComplainDiagnosis)
		if v == "" {
			errs.Add("complain_diagnosis", "complain_diagnosis is required")
		} else {
			current.ComplainDiagnosis = v
		}
	}

	if in.Treatment != nil {
		v := strings.TrimSpace(*in.Treatment)
		if v == "" {
			errs.Add("treatment", "treatment is required")
		} else {
			current.Treatment = v
		}
	}

	if in.Service != nil {
		service := ServiceType(strings.TrimSpace(*in.Service))
		if !service.Valid() {
			errs.Add("service", "service must be a known service type")
		} else {
			current.Service = service
		}
	}

	if in.Status != nil {
		status := Status(strings.TrimSpace(*in.Status))
		if !status.Valid() {
			errs.Add("status", "status must be a known status")
		} else {
			current.Status = status
		}
	}

	if in.FollowUp.Present {
		current.FollowUp = in.FollowUp.Value
	}

	// The invariant holds against the final values, whichever side moved.
	if current.FollowUp != nil && !current.FollowUp.After(current.Date) {
		errs.Add("follow_up", "follow_up must be after date")
	}

	if err := errs.Err(); err != nil {
		return Schedule{}, err
	}

	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Schedule{}, err
	}

	if in.PetIDs != nil {
		if err := s.repo.SyncPets(ctx, id, dedupe(*in.PetIDs)); err != nil {
			return Schedule{}, err
		}
	}
	return current, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Schedule, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every schedule, newest date first.
func (s *Service) List(ctx context.Context) ([]Schedule, error) {
	return s.repo.List(ctx, ListFilter{})
}

// Today lists schedules dated on the current calendar day, ascending.
func (s *Service) Today(ctx context.Context) ([]Schedule, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	return s.repo.List(ctx, ListFilter{From: &start, To: &end, Asc: true})
}

// UpcomingFollowUps lists schedules with a follow-up at or after now,
// soonest first.
func (s *Service) UpcomingFollowUps(ctx context.Context) ([]Schedule, error) {
	now := s.now()
	return s.repo.List(ctx, ListFilter{FollowUpFrom: &now, Asc: true})
}

func (s *Service) ByService(ctx context.Context, service string) ([]Schedule, error) {
	t := ServiceType(strings.TrimSpace(service))
	if !t.Valid() {
		errs := validation.FieldErrors{}
		errs.Add("service", "service must be a known service type")
		return nil, errs
	}
	return s.repo.List(ctx, ListFilter{Service: t})
}

func (s *Service) ByStatus(ctx context.Context, status string) ([]Schedule, error) {
	st := Status(strings.TrimSpace(status))
	if !st.Valid() {
		errs := validation.FieldErrors{}
		errs.Add("status", "status must be a known status")
		return nil, errs
	}
	return s.repo.List(ctx, ListFilter{Status: st})
}

// ByPet is the visit history of one pet, newest date first.
func (s *Service) ByPet(ctx context.Context, petID string) ([]Schedule, error) {
	return s.repo.List(ctx, ListFilter{PetID: petID})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// MarkCompleted sets the status unconditionally. There is deliberately
// no guard against re-transitioning a completed or cancelled entry.
func (s *Service) MarkCompleted(ctx context.Context, id string) (Schedule, error) {
	return s.setStatus(ctx, id, StatusCompleted)
}

func (s *Service) MarkCancelled(ctx context.Context, id string) (Schedule, error) {
	return s.setStatus(ctx, id, StatusCancelled)
}

func (s *Service) setStatus(ctx context.Context, id string, st Status) (Schedule, error) {
	if err := s.repo.SetStatus(ctx, id, st, s.now()); err != nil {
		return Schedule{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) AttachPet(ctx context.Context, scheduleID, petID string) error {
	if _, err := s.repo.GetByID(ctx, scheduleID); err != nil {
		return err
	}
	return s.repo.AttachPet(ctx, scheduleID, petID)
}

func (s *Service) DetachPet(ctx context.Context, scheduleID, petID string) error {
	if _, err := s.repo.GetByID(ctx, scheduleID); err != nil {
		return err
	}
	return s.repo.DetachPet(ctx, scheduleID, petID)
}

func (s *Service) SyncPets(ctx context.Context, scheduleID string, petIDs []string) error {
	if _, err := s.repo.GetByID(ctx, scheduleID); err != nil {
		return err
	}
	return s.repo.SyncPets(ctx, scheduleID, dedupe(petIDs))
}

func (s *Service) PetIDs(ctx context.Context, scheduleID string) ([]string, error) {
	return s.repo.ListPetIDs(ctx, scheduleID)
}

// DetachPetFromAll is the cascade hook used when a pet is deleted.
func (s *Service) DetachPetFromAll(ctx context.Context, petID string) error {
	return s.repo.RemovePetLinks(ctx, petID)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
