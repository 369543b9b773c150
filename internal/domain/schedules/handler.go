package schedules

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-clinic-api/internal/domain/pets"
	"vet-clinic-api/internal/domain/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service) {
	r.Route("/vaccination-schedules", func(sr chi.Router) {
		sr.Get("/", listSchedulesHandler(svc, petsSvc))
		sr.Post("/", createScheduleHandler(svc, petsSvc))

		// Static segments first; chi resolves them ahead of {scheduleID}.
		sr.Get("/todays/schedules", todaysSchedulesHandler(svc, petsSvc))
		sr.Get("/follow-ups/upcoming", upcomingFollowUpsHandler(svc, petsSvc))
		sr.Get("/options/services", serviceOptionsHandler())
		sr.Get("/options/statuses", statusOptionsHandler())
		sr.Get("/service/{serviceType}", byServiceHandler(svc, petsSvc))
		sr.Get("/status/{status}", byStatusHandler(svc, petsSvc))

		sr.Get("/{scheduleID}", getScheduleHandler(svc, petsSvc))
		sr.Put("/{scheduleID}", updateScheduleHandler(svc, petsSvc))
		sr.Delete("/{scheduleID}", deleteScheduleHandler(svc))

		sr.Post("/{scheduleID}/attach-pet", attachPetHandler(svc, petsSvc))
		sr.Delete("/{scheduleID}/pets/{petID}", detachPetHandler(svc))

		sr.Patch("/{scheduleID}/mark-completed", markStatusHandler(svc, petsSvc, StatusCompleted))
		sr.Patch("/{scheduleID}/mark-cancelled", markStatusHandler(svc, petsSvc, StatusCancelled))
	})

	// Visit history of one pet.
	r.Get("/pets/{petID}/vaccinations", byPetHandler(svc, petsSvc))
}

type createScheduleRequest struct {
	Date              string   `json:"date"`
	WeightKillogram   *float64 `json:"weight_killogram"`
	Temperature       *float64 `json:"temperature"`
	ComplainDiagnosis string   `json:"complain_diagnosis"`
	Treatment         string   `json:"treatment"`
	Service           string   `json:"service"`
	Status            string   `json:"status"`
	FollowUp          string   `json:"follow_up"`
	PetIDs            []string `json:"pet_ids"`
}

type updateScheduleRequest struct {
	// Pointers for partial update: nil = leave alone.
	Date              *string  `json:"date"`
	WeightKillogram   *float64 `json:"weight_killogram"`
	Temperature       *float64 `json:"temperature"`
	ComplainDiagnosis *string  `json:"complain_diagnosis"`
	Treatment         *string  `json:"treatment"`
	Service           *string  `json:"service"`
	Status            *string  `json:"status"`
	// follow_up and pet_ids are read off the raw body, see handler.
}

type scheduleResponse struct {
	ID                string          `json:"id"`
	Date              time.Time       `json:"date"`
	WeightKillogram   float64         `json:"weight_killogram"`
	Temperature       float64         `json:"temperature"`
	ComplainDiagnosis string          `json:"complain_diagnosis"`
	Treatment         string          `json:"treatment"`
	Service           string          `json:"service"`
	ServiceName       string          `json:"service_name"`
	Status            string          `json:"status"`
	StatusName        string          `json:"status_name"`
	FollowUp          *time.Time      `json:"follow_up"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Pets              []pets.Response `json:"pets"`
}

type attachPetRequest struct {
	PetID string `json:"pet_id"`
}

func listSchedulesHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			renderError(w, err)
			return
		}
		writeScheduleList(w, r, svc, petsSvc, items)
	}
}

func createScheduleHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		errs := validation.FieldErrors{}

		var date time.Time
		if strings.TrimSpace(req.Date) != "" {
			t, err := ParseDateTime(req.Date)
			if err != nil {
				errs.Add("date", "date must be a valid date/time")
			} else {
				date = t
			}
		}

		var followUp *time.Time
		if strings.TrimSpace(req.FollowUp) != "" {
			t, err := ParseDateTime(req.FollowUp)
			if err != nil {
				errs.Add("follow_up", "follow_up must be a valid date/time")
			} else {
				followUp = &t
			}
		}

		if err := checkPetIDs(r, petsSvc, req.PetIDs, errs); err != nil {
			renderError(w, err)
			return
		}

		if err := errs.Err(); err != nil {
			renderError(w, err)
			return
		}

		s, err := svc.Create(r.Context(), CreateInput{
			Date:              date,
			WeightKg:          req.WeightKillogram,
			Temperature:       req.Temperature,
			ComplainDiagnosis: req.ComplainDiagnosis,
			Treatment:         req.Treatment,
			Service:           req.Service,
			Status:            req.Status,
			FollowUp:          followUp,
			PetIDs:            req.PetIDs,
		})
		if err != nil {
			renderError(w, err)
			return
		}

		resp, err := toScheduleResponse(r, svc, petsSvc, s)
		if err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func getScheduleHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.GetByID(r.Context(), chi.URLParam(r, "scheduleID"))
		if err != nil {
			renderError(w, err)
			return
		}

		resp, err := toScheduleResponse(r, svc, petsSvc, s)
		if err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func updateScheduleHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Raw map first: follow_up may be null (= clear it) and pet_ids
		// may be absent (= leave associations alone).
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var req updateScheduleRequest
		{
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid json")
				return
			}
		}

		errs := validation.FieldErrors{}
		in := UpdateInput{
			WeightKg:          req.WeightKillogram,
			Temperature:       req.Temperature,
			ComplainDiagnosis: req.ComplainDiagnosis,
			Treatment:         req.Treatment,
			Service:           req.Service,
			Status:            req.Status,
		}

		if req.Date != nil {
			t, err := ParseDateTime(*req.Date)
			if err != nil {
				errs.Add("date", "date must be a valid date/time")
			} else {
				in.Date = &t
			}
		}

		if v, exists := raw["follow_up"]; exists {
			in.FollowUp.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					errs.Add("follow_up", "follow_up must be a valid date/time or null")
				} else if t, err := ParseDateTime(s); err != nil {
					errs.Add("follow_up", "follow_up must be a valid date/time or null")
				} else {
					in.FollowUp.Value = &t
				}
			}
		}

		if v, exists := raw["pet_ids"]; exists {
			var ids []string
			if err := json.Unmarshal(v, &ids); err != nil {
				errs.Add("pet_ids", "pet_ids must be an array of pet ids")
			} else {
				if err := checkPetIDs(r, petsSvc, ids, errs); err != nil {
					renderError(w, err)
					return
				}
				in.PetIDs = &ids
			}
		}

		if err := errs.Err(); err != nil {
			renderError(w, err)
			return
		}

		s, err := svc.Update(r.Context(), chi.URLParam(r, "scheduleID"), in)
		if err != nil {
			renderError(w, err)
			return
		}

		resp, err := toScheduleResponse(r, svc, petsSvc, s)
		if err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func deleteScheduleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "scheduleID")); err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Vaccination schedule deleted successfully"})
	}
}

func todaysSchedulesHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Today(r.Context())
		if err != nil {
			renderError(w, err)
			return
		}
		writeScheduleList(w, r, svc, petsSvc, items)
	}
}

func upcomingFollowUpsHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.UpcomingFollowUps(r.Context())
		if err != nil {
			renderError(w, err)
			return
		}
		writeScheduleList(w, r, svc, petsSvc, items)
	}
}

func byServiceHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ByService(r.Context(), chi.URLParam(r, "serviceType"))
		if err != nil {
			renderError(w, err)
			return
		}
		writeScheduleList(w, r, svc, petsSvc, items)
	}
}

func byStatusHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ByStatus(r.Context(), chi.URLParam(r, "status"))
		if err != nil {
			renderError(w, err)
			return
		}
		writeScheduleList(w, r, svc, petsSvc, items)
	}
}

func byPetHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		if _, err := petsSvc.GetByID(r.Context(), petID); err != nil {
			writeError(w, http.StatusNotFound, "Pet not found")
			return
		}

		items, err := svc.ByPet(r.Context(), petID)
		if err != nil {
			renderError(w, err)
			return
		}
		writeScheduleList(w, r, svc, petsSvc, items)
	}
}

func attachPetHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req attachPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		errs := validation.FieldErrors{}
		petID := strings.TrimSpace(req.PetID)
		if petID == "" {
			errs.Add("pet_id", "pet_id is required")
		} else if _, err := petsSvc.GetByID(r.Context(), petID); err != nil {
			if errors.Is(err, pets.ErrNotFound) {
				errs.Add("pet_id", "pet_id must reference an existing pet")
			} else {
				renderError(w, err)
				return
			}
		}
		if err := errs.Err(); err != nil {
			renderError(w, err)
			return
		}

		if err := svc.AttachPet(r.Context(), chi.URLParam(r, "scheduleID"), petID); err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Pet attached to vaccination schedule successfully"})
	}
}

func detachPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DetachPet(r.Context(), chi.URLParam(r, "scheduleID"), chi.URLParam(r, "petID"))
		if err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Pet detached from vaccination schedule successfully"})
	}
}

func markStatusHandler(svc *Service, petsSvc *pets.Service, target Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			s   Schedule
			err error
		)
		switch target {
		case StatusCancelled:
			s, err = svc.MarkCancelled(r.Context(), chi.URLParam(r, "scheduleID"))
		default:
			s, err = svc.MarkCompleted(r.Context(), chi.URLParam(r, "scheduleID"))
		}
		if err != nil {
			renderError(w, err)
			return
		}

		resp, err := toScheduleResponse(r, svc, petsSvc, s)
		if err != nil {
			renderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func serviceOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ServiceTypes())
	}
}

func statusOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, StatusOptions())
	}
}

// ParseDateTime accepts the formats the intake forms send.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// checkPetIDs records a field error for ids that name no pet. A lookup
// failure that is not a missing pet is returned so the caller can report
// it instead of blaming the input.
func checkPetIDs(r *http.Request, petsSvc *pets.Service, ids []string, errs validation.FieldErrors) error {
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			continue
		}
		if _, err := petsSvc.GetByID(r.Context(), id); err != nil {
			if errors.Is(err, pets.ErrNotFound) {
				errs.Add("pet_ids", "pet_ids must reference existing pets")
				return nil
			}
			return err
		}
	}
	return nil
}

func writeScheduleList(w http.ResponseWriter, r *http.Request, svc *Service, petsSvc *pets.Service, items []Schedule) {
	out := make([]scheduleResponse, 0, len(items))
	for _, s := range items {
		resp, err := toScheduleResponse(r, svc, petsSvc, s)
		if err != nil {
			renderError(w, err)
			return
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func toScheduleResponse(r *http.Request, svc *Service, petsSvc *pets.Service, s Schedule) (scheduleResponse, error) {
	petIDs, err := svc.PetIDs(r.Context(), s.ID)
	if err != nil {
		return scheduleResponse{}, err
	}

	attached := make([]pets.Response, 0, len(petIDs))
	for _, id := range petIDs {
		p, err := petsSvc.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, pets.ErrNotFound) {
				continue
			}
			return scheduleResponse{}, err
		}
		attached = append(attached, pets.ToResponse(p))
	}

	return scheduleResponse{
		ID:                s.ID,
		Date:              s.Date,
		WeightKillogram:   s.WeightKg,
		Temperature:       s.Temperature,
		ComplainDiagnosis: s.ComplainDiagnosis,
		Treatment:         s.Treatment,
		Service:           string(s.Service),
		ServiceName:       s.Service.Label(),
		Status:            string(s.Status),
		StatusName:        s.Status.Label(),
		FollowUp:          s.FollowUp,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		Pets:              attached,
	}, nil
}

func renderError(w http.ResponseWriter, err error) {
	var fieldErrs validation.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  fieldErrs,
		})
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Vaccination schedule not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
